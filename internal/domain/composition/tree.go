// Package composition recorre el árbol de componentes de una unidad.
package composition

import (
	"context"
	"fmt"

	"github.com/jhoicas/workbench-api/internal/domain"
	"github.com/jhoicas/workbench-api/internal/domain/entity"
)

// UnitLookup materializa un nodo del árbol por UUID.
type UnitLookup interface {
	GetByUUID(ctx context.Context, uuid string) (*entity.Unit, error)
}

// Walk recorre en preorden (raíz, luego cada hijo en su orden almacenado con su subárbol).
// visit devuelve false para detener el recorrido. Un UUID repetido es ErrDataIntegrity.
func Walk(ctx context.Context, lookup UnitLookup, root *entity.Unit, visit func(*entity.Unit) bool) error {
	seen := map[string]struct{}{}
	stack := []*entity.Unit{root}
	for len(stack) > 0 {
		u := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if _, dup := seen[u.UUID]; dup {
			return fmt.Errorf("unidad %s visitada dos veces en el árbol de %s: %w", u.UUID, root.UUID, domain.ErrDataIntegrity)
		}
		seen[u.UUID] = struct{}{}

		if !visit(u) {
			return nil
		}

		children := make([]*entity.Unit, 0, len(u.ComponentsIDs))
		for _, id := range u.ComponentsIDs {
			if err := ctx.Err(); err != nil {
				return err
			}
			child, err := lookup.GetByUUID(ctx, id)
			if err != nil {
				return fmt.Errorf("componente %s de %s: %w", id, u.UUID, err)
			}
			children = append(children, child)
		}
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, children[i])
		}
	}
	return nil
}

// FirstUnitMatchingStatus primera unidad del recorrido en preorden cuyo estado esté en statuses.
func FirstUnitMatchingStatus(ctx context.Context, lookup UnitLookup, root *entity.Unit, statuses ...entity.UnitStatus) (*entity.Unit, error) {
	var found *entity.Unit
	err := Walk(ctx, lookup, root, func(u *entity.Unit) bool {
		for _, s := range statuses {
			if u.Status == s {
				found = u
				return false
			}
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, fmt.Errorf("unidad %s: %w", root.InternalID, domain.ErrNoMatchingComponent)
	}
	return found, nil
}
