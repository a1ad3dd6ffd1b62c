package dto

// UnitResponse unidad creada.
type UnitResponse struct {
	GenericResponse
	UnitInternalID string `json:"unit_internal_id"`
}

// BiographyStage etapa en el resumen de la unidad.
type BiographyStage struct {
	StageName string `json:"stage_name"`
}

// UnitInfoResponse resumen de la unidad.
type UnitInfoResponse struct {
	GenericResponse
	UnitInternalID  string           `json:"unit_internal_id"`
	UnitStatus      string           `json:"unit_status"`
	StagesCompleted []BiographyStage `json:"unit_operation_stages_completed"`
	StagesPending   []BiographyStage `json:"unit_operation_stages_pending"`
	UnitComponents  []string         `json:"unit_components"`
	SchemaID        string           `json:"schema_id"`
}

// PendingUnit entrada del listado de revisión.
type PendingUnit struct {
	UnitInternalID string `json:"unit_internal_id"`
	UnitName       string `json:"unit_name"`
}

// PendingUnitsResponse unidades esperando revisión.
type PendingUnitsResponse struct {
	GenericResponse
	Units []PendingUnit `json:"units"`
}
