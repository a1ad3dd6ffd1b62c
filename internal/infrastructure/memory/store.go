// Package memory almacenamiento en proceso para estaciones sin base de datos
// (demostraciones y pruebas de banco). Cada lectura y escritura copia en profundidad,
// así nadie comparte punteros con el almacén.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/tiendc/go-deepcopy"

	"github.com/jhoicas/workbench-api/internal/domain"
	"github.com/jhoicas/workbench-api/internal/domain/entity"
	"github.com/jhoicas/workbench-api/internal/domain/repository"
	"github.com/jhoicas/workbench-api/internal/infrastructure/catalog"
)

var (
	_ repository.UnitRepository     = (*Store)(nil)
	_ repository.SchemaRepository   = (*Store)(nil)
	_ repository.EmployeeRepository = (*Store)(nil)
)

// Store unidades, esquemas y operarios en mapas protegidos por un RWMutex.
type Store struct {
	mu        sync.RWMutex
	units     map[string]*entity.Unit // uuid
	internal  map[string]string       // internal_id -> uuid
	schemas   map[string]*entity.ProductionSchema
	employees map[string]*entity.Employee // tarjeta
}

// New almacén vacío.
func New() *Store {
	return &Store{
		units:     map[string]*entity.Unit{},
		internal:  map[string]string{},
		schemas:   map[string]*entity.ProductionSchema{},
		employees: map[string]*entity.Employee{},
	}
}

// Seed carga esquemas y operarios del catálogo.
func (s *Store) Seed(c *catalog.Catalog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sc := range c.Schemas {
		var cp entity.ProductionSchema
		if err := deepcopy.Copy(&cp, sc); err != nil {
			return fmt.Errorf("copiar esquema %s: %w", sc.SchemaID, err)
		}
		s.schemas[cp.SchemaID] = &cp
	}
	for _, e := range c.Employees {
		cp := *e
		s.employees[cp.RFIDCardID] = &cp
	}
	return nil
}

func copyUnit(u *entity.Unit) (*entity.Unit, error) {
	var out entity.Unit
	if err := deepcopy.Copy(&out, u); err != nil {
		return nil, fmt.Errorf("copiar unidad %s: %w", u.UUID, err)
	}
	return &out, nil
}

// GetByUUID copia de la unidad.
func (s *Store) GetByUUID(_ context.Context, uuid string) (*entity.Unit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.units[uuid]
	if !ok {
		return nil, fmt.Errorf("unidad %s: %w", uuid, domain.ErrNotFound)
	}
	return copyUnit(u)
}

// GetByInternalID copia de la unidad por su código EAN-13.
func (s *Store) GetByInternalID(ctx context.Context, internalID string) (*entity.Unit, error) {
	s.mu.RLock()
	uuid, ok := s.internal[internalID]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unidad %s: %w", internalID, domain.ErrNotFound)
	}
	return s.GetByUUID(ctx, uuid)
}

// Save mismas reglas que el repositorio PostgreSQL: no borra metadatos de publicación
// ya guardados y solo toca componentes con includeComponents.
func (s *Store) Save(_ context.Context, unit *entity.Unit, includeComponents bool) error {
	cp, err := copyUnit(unit)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.schemas[cp.SchemaID]; !ok {
		return fmt.Errorf("esquema %s: %w", cp.SchemaID, domain.ErrNotFound)
	}
	if owner, ok := s.internal[cp.InternalID]; ok && owner != cp.UUID {
		return fmt.Errorf("internal_id %s duplicado: %w", cp.InternalID, domain.ErrDataIntegrity)
	}
	if prev, ok := s.units[cp.UUID]; ok {
		if !includeComponents {
			cp.ComponentsIDs = prev.ComponentsIDs
		}
		keep(&cp.FeaturedInIntID, prev.FeaturedInIntID)
		keep(&cp.CertificateIPFSCID, prev.CertificateIPFSCID)
		keep(&cp.CertificateIPFSLink, prev.CertificateIPFSLink)
		keep(&cp.CertificateTxnHash, prev.CertificateTxnHash)
		keep(&cp.SerialNumber, prev.SerialNumber)
	}
	s.units[cp.UUID] = cp
	s.internal[cp.InternalID] = cp.UUID

	if includeComponents {
		for _, id := range cp.ComponentsIDs {
			if c, ok := s.units[id]; ok {
				c.FeaturedInIntID = cp.InternalID
			}
		}
	}
	return nil
}

func keep(dst *string, prev string) {
	if *dst == "" {
		*dst = prev
	}
}

// UpdateField actualiza un campo de la unidad almacenada.
func (s *Store) UpdateField(_ context.Context, uuid, field string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.units[uuid]
	if !ok {
		return fmt.Errorf("unidad %s: %w", uuid, domain.ErrNotFound)
	}
	switch field {
	case repository.UnitFieldOperationStages:
		stages, ok := value.([]entity.ProductionStage)
		if !ok {
			break
		}
		var cp []entity.ProductionStage
		if err := deepcopy.Copy(&cp, stages); err != nil {
			return fmt.Errorf("copiar etapas: %w", err)
		}
		u.OperationStages = cp
		return nil
	case repository.UnitFieldStatus:
		var raw string
		switch v := value.(type) {
		case entity.UnitStatus:
			raw = string(v)
		case string:
			raw = v
		}
		st, err := entity.ParseUnitStatus(raw)
		if err != nil {
			return err
		}
		u.Status = st
		return nil
	case repository.UnitFieldCertificateCID, repository.UnitFieldCertificateLink, repository.UnitFieldCertificateTxnHash:
		v, ok := value.(string)
		if !ok {
			break
		}
		switch field {
		case repository.UnitFieldCertificateCID:
			u.CertificateIPFSCID = v
		case repository.UnitFieldCertificateLink:
			u.CertificateIPFSLink = v
		default:
			u.CertificateTxnHash = v
		}
		return nil
	default:
		return fmt.Errorf("campo %q no actualizable: %w", field, domain.ErrInvalidInput)
	}
	return fmt.Errorf("valor %T para %s: %w", value, field, domain.ErrInvalidInput)
}

// ListByStatus unidades en el estado dado, las más antiguas primero.
func (s *Store) ListByStatus(_ context.Context, status entity.UnitStatus) ([]repository.UnitSummary, error) {
	s.mu.RLock()
	matches := make([]*entity.Unit, 0)
	for _, u := range s.units {
		if u.Status == status {
			matches = append(matches, u)
		}
	}
	s.mu.RUnlock()
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].CreationTime.Equal(matches[j].CreationTime) {
			return matches[i].InternalID < matches[j].InternalID
		}
		return matches[i].CreationTime.Before(matches[j].CreationTime)
	})
	out := make([]repository.UnitSummary, 0, len(matches))
	for _, u := range matches {
		out = append(out, repository.UnitSummary{InternalID: u.InternalID, UnitName: u.SchemaName})
	}
	return out, nil
}

// GetByID copia del esquema.
func (s *Store) GetByID(_ context.Context, schemaID string) (*entity.ProductionSchema, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sc, ok := s.schemas[schemaID]
	if !ok {
		return nil, fmt.Errorf("esquema %s: %w", schemaID, domain.ErrNotFound)
	}
	var out entity.ProductionSchema
	if err := deepcopy.Copy(&out, sc); err != nil {
		return nil, fmt.Errorf("copiar esquema %s: %w", schemaID, err)
	}
	return &out, nil
}

// List esquemas permitidos para el cargo, ordenados por id.
func (s *Store) List(ctx context.Context, allowedForPosition string) ([]*entity.ProductionSchema, error) {
	s.mu.RLock()
	ids := make([]string, 0, len(s.schemas))
	for id, sc := range s.schemas {
		if allowedForPosition == "" || sc.IsAllowed(allowedForPosition) {
			ids = append(ids, id)
		}
	}
	s.mu.RUnlock()
	sort.Strings(ids)
	out := make([]*entity.ProductionSchema, 0, len(ids))
	for _, id := range ids {
		sc, err := s.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, sc)
	}
	return out, nil
}

// GetByCardID operario por tarjeta.
func (s *Store) GetByCardID(_ context.Context, cardID string) (*entity.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.employees[cardID]
	if !ok {
		return nil, fmt.Errorf("operario con tarjeta %s: %w", cardID, domain.ErrNotFound)
	}
	cp := *e
	return &cp, nil
}

// GetByUsername operario por usuario.
func (s *Store) GetByUsername(_ context.Context, username string) (*entity.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.employees {
		if e.Username != "" && e.Username == username {
			cp := *e
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("operario %s: %w", username, domain.ErrNotFound)
}
