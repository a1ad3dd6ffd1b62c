package repository

import (
	"context"

	"github.com/jhoicas/workbench-api/internal/domain/entity"
)

// SchemaRepository puerto de solo lectura para esquemas de producción.
type SchemaRepository interface {
	GetByID(ctx context.Context, schemaID string) (*entity.ProductionSchema, error)
	// List devuelve los esquemas permitidos para el cargo; cargo vacío devuelve todos.
	List(ctx context.Context, allowedForPosition string) ([]*entity.ProductionSchema, error)
}
