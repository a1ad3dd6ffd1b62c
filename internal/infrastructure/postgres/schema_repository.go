package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jhoicas/workbench-api/internal/domain"
	"github.com/jhoicas/workbench-api/internal/domain/entity"
	"github.com/jhoicas/workbench-api/internal/domain/repository"
)

var _ repository.SchemaRepository = (*SchemaRepo)(nil)

// SchemaRepo esquemas de producción en PostgreSQL.
type SchemaRepo struct {
	q Querier
}

// NewSchemaRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSchemaRepository(q Querier) *SchemaRepo {
	return &SchemaRepo{q: q}
}

type schemaStageDoc struct {
	Name            string   `json:"name"`
	Type            string   `json:"type,omitempty"`
	Description     string   `json:"description,omitempty"`
	Equipment       []string `json:"equipment,omitempty"`
	Workplace       string   `json:"workplace,omitempty"`
	DurationSeconds *int     `json:"duration_seconds,omitempty"`
}

const schemaColumns = `schema_id, schema_name, schema_print_name, schema_type, parent_schema_id,
	components_schema_ids, production_stages, erp_metadata, allowed_positions`

func scanSchema(row pgxScanner) (*entity.ProductionSchema, error) {
	var (
		s                                    entity.ProductionSchema
		printName, schemaType, parent        *string
		componentsRaw, stagesRaw, erpRaw, ap []byte
	)
	if err := row.Scan(&s.SchemaID, &s.SchemaName, &printName, &schemaType, &parent,
		&componentsRaw, &stagesRaw, &erpRaw, &ap); err != nil {
		return nil, err
	}
	s.SchemaPrintName = fromNull(printName)
	s.SchemaType = fromNull(schemaType)
	s.ParentSchemaID = fromNull(parent)

	// NULL => no compuesto; [] => compuesto sin huecos
	if len(componentsRaw) > 0 && string(componentsRaw) != "null" {
		s.ComponentsSchemaIDs = []string{}
		if err := json.Unmarshal(componentsRaw, &s.ComponentsSchemaIDs); err != nil {
			return nil, fmt.Errorf("componentes de %s: %w", s.SchemaID, err)
		}
	}
	var stages []schemaStageDoc
	if len(stagesRaw) > 0 {
		if err := json.Unmarshal(stagesRaw, &stages); err != nil {
			return nil, fmt.Errorf("etapas de %s: %w", s.SchemaID, err)
		}
	}
	for _, st := range stages {
		s.SchemaStages = append(s.SchemaStages, entity.SchemaStage(st))
	}
	if len(erpRaw) > 0 {
		if err := json.Unmarshal(erpRaw, &s.ERPMetadata); err != nil {
			return nil, fmt.Errorf("metadata ERP de %s: %w", s.SchemaID, err)
		}
	}
	if len(ap) > 0 {
		if err := json.Unmarshal(ap, &s.AllowedPositions); err != nil {
			return nil, fmt.Errorf("cargos de %s: %w", s.SchemaID, err)
		}
	}
	return &s, nil
}

// GetByID obtiene un esquema por ID.
func (r *SchemaRepo) GetByID(ctx context.Context, schemaID string) (*entity.ProductionSchema, error) {
	s, err := scanSchema(r.q.QueryRow(ctx, `SELECT `+schemaColumns+` FROM production_schemas WHERE schema_id = $1`, schemaID))
	if err != nil {
		if isNoRows(err) {
			return nil, fmt.Errorf("esquema %s: %w", schemaID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get schema: %w", err)
	}
	return s, nil
}

// List esquemas permitidos para el cargo. El filtro se aplica en Go para usar la
// misma comparación sin mayúsculas que ProductionSchema.IsAllowed.
func (r *SchemaRepo) List(ctx context.Context, allowedForPosition string) ([]*entity.ProductionSchema, error) {
	rows, err := r.q.Query(ctx, `SELECT `+schemaColumns+` FROM production_schemas ORDER BY schema_id`)
	if err != nil {
		return nil, fmt.Errorf("list schemas: %w", err)
	}
	defer rows.Close()
	var list []*entity.ProductionSchema
	for rows.Next() {
		s, err := scanSchema(rows)
		if err != nil {
			return nil, fmt.Errorf("scan schema: %w", err)
		}
		if allowedForPosition == "" || s.IsAllowed(allowedForPosition) {
			list = append(list, s)
		}
	}
	return list, rows.Err()
}

// Upsert inserta o reemplaza un esquema (carga del catálogo).
func (r *SchemaRepo) Upsert(ctx context.Context, s *entity.ProductionSchema) error {
	stages := make([]schemaStageDoc, 0, len(s.SchemaStages))
	for _, st := range s.SchemaStages {
		stages = append(stages, schemaStageDoc(st))
	}
	stagesRaw, err := json.Marshal(stages)
	if err != nil {
		return fmt.Errorf("encode stages: %w", err)
	}
	var components, erp, positions []byte
	if s.ComponentsSchemaIDs != nil {
		if components, err = json.Marshal(s.ComponentsSchemaIDs); err != nil {
			return fmt.Errorf("encode components: %w", err)
		}
	}
	if s.ERPMetadata != nil {
		if erp, err = json.Marshal(s.ERPMetadata); err != nil {
			return fmt.Errorf("encode erp metadata: %w", err)
		}
	}
	if s.AllowedPositions != nil {
		if positions, err = json.Marshal(s.AllowedPositions); err != nil {
			return fmt.Errorf("encode positions: %w", err)
		}
	}
	query := `
		INSERT INTO production_schemas (` + schemaColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (schema_id) DO UPDATE SET
			schema_name = EXCLUDED.schema_name,
			schema_print_name = EXCLUDED.schema_print_name,
			schema_type = EXCLUDED.schema_type,
			parent_schema_id = EXCLUDED.parent_schema_id,
			components_schema_ids = EXCLUDED.components_schema_ids,
			production_stages = EXCLUDED.production_stages,
			erp_metadata = EXCLUDED.erp_metadata,
			allowed_positions = EXCLUDED.allowed_positions`
	if _, err := r.q.Exec(ctx, query,
		s.SchemaID, s.SchemaName, nullIfEmpty(s.SchemaPrintName), nullIfEmpty(s.SchemaType), nullIfEmpty(s.ParentSchemaID),
		components, stagesRaw, erp, positions,
	); err != nil {
		return fmt.Errorf("upsert schema: %w", err)
	}
	return nil
}
