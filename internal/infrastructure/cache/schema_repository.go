// Package cache caché en memoria de esquemas de producción. Los esquemas cambian poco
// y se leen en cada asignación y cada listado del catálogo.
package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"

	"github.com/jhoicas/workbench-api/internal/domain/entity"
	"github.com/jhoicas/workbench-api/internal/domain/repository"
)

var _ repository.SchemaRepository = (*SchemaRepository)(nil)

// SchemaRepository decora un SchemaRepository con expiración por TTL. Las cargas
// concurrentes de una misma clave se unifican.
type SchemaRepository struct {
	next  repository.SchemaRepository
	items *gocache.Cache
	group singleflight.Group
}

// NewSchemaRepository ttl <= 0 desactiva la caché.
func NewSchemaRepository(next repository.SchemaRepository, ttl time.Duration) repository.SchemaRepository {
	if ttl <= 0 {
		return next
	}
	return &SchemaRepository{next: next, items: gocache.New(ttl, 2*ttl)}
}

// GetByID esquema por id. Los errores no se cachean.
func (r *SchemaRepository) GetByID(ctx context.Context, schemaID string) (*entity.ProductionSchema, error) {
	key := "schema:" + schemaID
	if v, ok := r.items.Get(key); ok {
		return v.(*entity.ProductionSchema), nil
	}
	v, err, _ := r.group.Do(key, func() (any, error) {
		if v, ok := r.items.Get(key); ok {
			return v, nil
		}
		s, err := r.next.GetByID(ctx, schemaID)
		if err != nil {
			return nil, err
		}
		r.items.SetDefault(key, s)
		return s, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*entity.ProductionSchema), nil
}

// List esquemas para el cargo.
func (r *SchemaRepository) List(ctx context.Context, allowedForPosition string) ([]*entity.ProductionSchema, error) {
	key := "list:" + allowedForPosition
	if v, ok := r.items.Get(key); ok {
		return v.([]*entity.ProductionSchema), nil
	}
	v, err, _ := r.group.Do(key, func() (any, error) {
		list, err := r.next.List(ctx, allowedForPosition)
		if err != nil {
			return nil, err
		}
		r.items.SetDefault(key, list)
		for _, s := range list {
			r.items.SetDefault("schema:"+s.SchemaID, s)
		}
		return list, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]*entity.ProductionSchema), nil
}

// Flush descarta todo lo cacheado (tras sembrar el catálogo).
func (r *SchemaRepository) Flush() {
	r.items.Flush()
}
