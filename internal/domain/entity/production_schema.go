package entity

import "golang.org/x/text/cases"

// SchemaStage plantilla de una etapa de producción declarada en el esquema.
type SchemaStage struct {
	Name            string
	Type            string
	Description     string
	Equipment       []string
	Workplace       string
	DurationSeconds *int
}

// ProductionSchema plantilla de solo lectura de una unidad: etapas y, si es compuesta,
// los esquemas de componentes requeridos.
type ProductionSchema struct {
	SchemaID            string
	SchemaName          string
	SchemaPrintName     string
	SchemaStages        []SchemaStage
	ComponentsSchemaIDs []string // nil => no compuesto
	ParentSchemaID      string
	SchemaType          string
	ERPMetadata         map[string]string
	AllowedPositions    []string
}

// IsComposite indica si el esquema declara componentes requeridos.
func (s *ProductionSchema) IsComposite() bool { return s.ComponentsSchemaIDs != nil }

// IsAComponent indica si el esquema es componente de otro.
func (s *ProductionSchema) IsAComponent() bool { return s.ParentSchemaID != "" }

// PrintName nombre para etiquetas; cae al nombre del esquema.
func (s *ProductionSchema) PrintName() string {
	if s.SchemaPrintName == "" {
		return s.SchemaName
	}
	return s.SchemaPrintName
}

// IsAllowed indica si un cargo puede iniciar el esquema. Lista vacía permite a todos.
func (s *ProductionSchema) IsAllowed(position string) bool {
	if len(s.AllowedPositions) == 0 {
		return true
	}
	fold := cases.Fold()
	p := fold.String(position)
	for _, allowed := range s.AllowedPositions {
		if fold.String(allowed) == p {
			return true
		}
	}
	return false
}

// RequiresComponent indica si schemaID está en la lista de componentes requeridos.
func (s *ProductionSchema) RequiresComponent(schemaID string) bool {
	for _, id := range s.ComponentsSchemaIDs {
		if id == schemaID {
			return true
		}
	}
	return false
}
