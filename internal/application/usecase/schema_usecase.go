package usecase

import (
	"context"
	"sort"
	"unicode/utf8"

	"github.com/jhoicas/workbench-api/internal/application/dto"
	"github.com/jhoicas/workbench-api/internal/domain/entity"
	"github.com/jhoicas/workbench-api/internal/domain/repository"
)

// SchemaUseCase consulta del catálogo de esquemas de producción.
type SchemaUseCase struct {
	repo repository.SchemaRepository
}

// NewSchemaUseCase construye el caso de uso.
func NewSchemaUseCase(repo repository.SchemaRepository) *SchemaUseCase {
	return &SchemaUseCase{repo: repo}
}

// Get esquema completo por ID.
func (uc *SchemaUseCase) Get(ctx context.Context, schemaID string) (*dto.ProductionSchemaResponse, error) {
	s, err := uc.repo.GetByID(ctx, schemaID)
	if err != nil {
		return nil, err
	}
	out := toSchemaResponse(s)
	return &out, nil
}

// ListForPosition catálogo para el cargo del operario. Los compuestos se arman primero
// con sus componentes anidados; cada esquema aparece una sola vez y el nivel superior
// queda ordenado por largo del nombre.
func (uc *SchemaUseCase) ListForPosition(ctx context.Context, position string) ([]dto.SchemaListEntry, error) {
	list, err := uc.repo.List(ctx, position)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*entity.ProductionSchema, len(list))
	for _, s := range list {
		byID[s.SchemaID] = s
	}

	ordered := make([]*entity.ProductionSchema, len(list))
	copy(ordered, list)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].IsComposite() && !ordered[j].IsComposite()
	})

	handled := make(map[string]bool, len(list))
	onPath := map[string]bool{}
	var entry func(s *entity.ProductionSchema) dto.SchemaListEntry
	entry = func(s *entity.ProductionSchema) dto.SchemaListEntry {
		handled[s.SchemaID] = true
		onPath[s.SchemaID] = true
		defer delete(onPath, s.SchemaID)

		e := dto.SchemaListEntry{SchemaID: s.SchemaID, SchemaName: s.SchemaName}
		if s.IsComposite() {
			e.IncludedSchemas = []dto.SchemaListEntry{}
			for _, id := range s.ComponentsSchemaIDs {
				// componente no permitido para el cargo: no se lista
				if c, ok := byID[id]; ok && !onPath[id] {
					e.IncludedSchemas = append(e.IncludedSchemas, entry(c))
				}
			}
		}
		return e
	}

	out := make([]dto.SchemaListEntry, 0, len(ordered))
	for _, s := range ordered {
		if !handled[s.SchemaID] {
			out = append(out, entry(s))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return utf8.RuneCountInString(out[i].SchemaName) < utf8.RuneCountInString(out[j].SchemaName)
	})
	return out, nil
}

func toSchemaResponse(s *entity.ProductionSchema) dto.ProductionSchemaResponse {
	stages := make([]dto.SchemaStageResponse, 0, len(s.SchemaStages))
	for _, st := range s.SchemaStages {
		stages = append(stages, dto.SchemaStageResponse(st))
	}
	return dto.ProductionSchemaResponse{
		SchemaID:            s.SchemaID,
		SchemaName:          s.SchemaName,
		SchemaPrintName:     s.SchemaPrintName,
		SchemaStages:        stages,
		ComponentsSchemaIDs: s.ComponentsSchemaIDs,
		ParentSchemaID:      s.ParentSchemaID,
		SchemaType:          s.SchemaType,
		ERPMetadata:         s.ERPMetadata,
		AllowedPositions:    s.AllowedPositions,
	}
}
