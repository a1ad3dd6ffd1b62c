// Package assembly lleva el control transitorio de los huecos de componentes de una
// unidad compuesta mientras está en la estación.
package assembly

import (
	"fmt"

	"github.com/jhoicas/workbench-api/internal/domain"
	"github.com/jhoicas/workbench-api/internal/domain/entity"
)

// Session unidad en la estación más su mapa esquema-de-componente -> unidad asignada.
type Session struct {
	unit   *entity.Unit
	schema *entity.ProductionSchema
	order  []string
	slots  map[string]*entity.Unit
}

// NewSession crea la sesión a partir del esquema y de los componentes ya asignados.
func NewSession(unit *entity.Unit, schema *entity.ProductionSchema, components []*entity.Unit) (*Session, error) {
	if unit.SchemaID != schema.SchemaID {
		return nil, fmt.Errorf("unidad %s usa esquema %s, no %s: %w",
			unit.InternalID, unit.SchemaID, schema.SchemaID, domain.ErrDataIntegrity)
	}
	s := &Session{
		unit:   unit,
		schema: schema,
		slots:  make(map[string]*entity.Unit, len(schema.ComponentsSchemaIDs)),
	}
	for _, id := range schema.ComponentsSchemaIDs {
		if _, dup := s.slots[id]; dup {
			continue
		}
		s.order = append(s.order, id)
		s.slots[id] = nil
	}
	for _, c := range components {
		if _, ok := s.slots[c.SchemaID]; !ok {
			return nil, fmt.Errorf("componente %s (esquema %s) no requerido por %s: %w",
				c.InternalID, c.SchemaID, schema.SchemaID, domain.ErrDataIntegrity)
		}
		s.slots[c.SchemaID] = c
	}
	return s, nil
}

// Unit unidad en la estación. Solo lectura; Assign mantiene ComponentsIDs al día.
func (s *Session) Unit() *entity.Unit { return s.unit }

// syncComponents reconstruye ComponentsIDs en el orden del esquema.
func (s *Session) syncComponents() {
	ids := make([]string, 0, len(s.order))
	for _, id := range s.order {
		if c := s.slots[id]; c != nil {
			ids = append(ids, c.UUID)
		}
	}
	s.unit.ComponentsIDs = ids
}

// Schema esquema de la unidad.
func (s *Session) Schema() *entity.ProductionSchema { return s.schema }

// Filled indica si todos los huecos tienen componente.
func (s *Session) Filled() bool {
	for _, c := range s.slots {
		if c == nil {
			return false
		}
	}
	return true
}

// Assign llena el hueco del esquema del componente. El último en escribir gana.
func (s *Session) Assign(component *entity.Unit) error {
	if component.UUID == s.unit.UUID {
		return fmt.Errorf("la unidad %s no puede ser componente de sí misma: %w", component.InternalID, domain.ErrInvalidInput)
	}
	if _, ok := s.slots[component.SchemaID]; !ok {
		return fmt.Errorf("esquema %s no es componente de %s: %w", component.SchemaID, s.schema.SchemaID, domain.ErrInvalidInput)
	}
	switch component.Status {
	case entity.UnitStatusProduction, entity.UnitStatusRevision:
		return fmt.Errorf("componente %s aún en %s: %w", component.InternalID, component.Status, domain.ErrPrecondition)
	}
	if component.FeaturedInIntID != "" && component.FeaturedInIntID != s.unit.InternalID {
		return fmt.Errorf("componente %s ya pertenece a %s: %w", component.InternalID, component.FeaturedInIntID, domain.ErrPrecondition)
	}
	s.slots[component.SchemaID] = component
	s.syncComponents()
	return nil
}

// Components componentes asignados, en el orden del esquema.
func (s *Session) Components() []*entity.Unit {
	out := make([]*entity.Unit, 0, len(s.order))
	for _, id := range s.order {
		if c := s.slots[id]; c != nil {
			out = append(out, c)
		}
	}
	return out
}

// AssignedComponents esquema -> internal_id asignado (nil si el hueco está vacío).
// Devuelve nil si la unidad no es compuesta.
func (s *Session) AssignedComponents() map[string]*string {
	if len(s.order) == 0 {
		return nil
	}
	out := make(map[string]*string, len(s.order))
	for _, id := range s.order {
		if c := s.slots[id]; c != nil {
			iid := c.InternalID
			out[id] = &iid
			continue
		}
		out[id] = nil
	}
	return out
}
