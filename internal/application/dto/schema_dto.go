package dto

// SchemaStageResponse etapa declarada en el esquema.
type SchemaStageResponse struct {
	Name            string   `json:"name"`
	Type            string   `json:"type,omitempty"`
	Description     string   `json:"description,omitempty"`
	Equipment       []string `json:"equipment,omitempty"`
	Workplace       string   `json:"workplace,omitempty"`
	DurationSeconds *int     `json:"duration_seconds,omitempty"`
}

// ProductionSchemaResponse esquema completo.
type ProductionSchemaResponse struct {
	SchemaID            string                `json:"schema_id"`
	SchemaName          string                `json:"schema_name"`
	SchemaPrintName     string                `json:"schema_print_name,omitempty"`
	SchemaStages        []SchemaStageResponse `json:"schema_stages"`
	ComponentsSchemaIDs []string              `json:"components_schema_ids"`
	ParentSchemaID      string                `json:"parent_schema_id,omitempty"`
	SchemaType          string                `json:"schema_type,omitempty"`
	ERPMetadata         map[string]string     `json:"erp_metadata,omitempty"`
	AllowedPositions    []string              `json:"allowed_positions,omitempty"`
}

// SchemaEnvelope respuesta de production-schemas/:schema_id.
type SchemaEnvelope struct {
	GenericResponse
	ProductionSchema ProductionSchemaResponse `json:"production_schema"`
}

// SchemaListEntry nodo del catálogo; IncludedSchemas solo en compuestos.
type SchemaListEntry struct {
	SchemaID        string            `json:"schema_id"`
	SchemaName      string            `json:"schema_name"`
	IncludedSchemas []SchemaListEntry `json:"included_schemas"`
}

// SchemasListResponse catálogo disponible para el operario.
type SchemasListResponse struct {
	GenericResponse
	AvailableSchemas []SchemaListEntry `json:"available_schemas"`
}
