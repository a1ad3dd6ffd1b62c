package composition_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/workbench-api/internal/domain"
	"github.com/jhoicas/workbench-api/internal/domain/composition"
	"github.com/jhoicas/workbench-api/internal/domain/entity"
)

// lookupFake registra el orden en que se materializan los nodos.
type lookupFake struct {
	units   map[string]*entity.Unit
	fetched []string
}

func (l *lookupFake) GetByUUID(_ context.Context, uuid string) (*entity.Unit, error) {
	l.fetched = append(l.fetched, uuid)
	u, ok := l.units[uuid]
	if !ok {
		return nil, fmt.Errorf("unidad %s: %w", uuid, domain.ErrNotFound)
	}
	return u, nil
}

func unit(uuid string, status entity.UnitStatus, children ...string) *entity.Unit {
	return &entity.Unit{UUID: uuid, InternalID: "int-" + uuid, Status: status, ComponentsIDs: children}
}

// root -> [A, B]; A -> [A1]; solo B en producción.
func tree() (*entity.Unit, *lookupFake) {
	root := unit("root", entity.UnitStatusFinalized, "A", "B")
	l := &lookupFake{units: map[string]*entity.Unit{
		"A":  unit("A", entity.UnitStatusFinalized, "A1"),
		"A1": unit("A1", entity.UnitStatusBuilt),
		"B":  unit("B", entity.UnitStatusProduction),
	}}
	return root, l
}

func TestWalk_Preorden(t *testing.T) {
	root, l := tree()
	var order []string
	err := composition.Walk(context.Background(), l, root, func(u *entity.Unit) bool {
		order = append(order, u.UUID)
		return true
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"root", "A", "A1", "B"}, order)
}

func TestFirstUnitMatchingStatus_EncuentraNietoTrasSubarbolA(t *testing.T) {
	root, l := tree()
	got, err := composition.FirstUnitMatchingStatus(context.Background(), l, root,
		entity.UnitStatusProduction, entity.UnitStatusRevision)
	require.NoError(t, err)
	assert.Equal(t, "B", got.UUID)
}

func TestFirstUnitMatchingStatus_RaizCoincide(t *testing.T) {
	root := unit("root", entity.UnitStatusRevision, "A")
	l := &lookupFake{units: map[string]*entity.Unit{}}
	got, err := composition.FirstUnitMatchingStatus(context.Background(), l, root, entity.UnitStatusRevision)
	require.NoError(t, err)
	assert.Same(t, root, got)
	assert.Empty(t, l.fetched, "no debe materializar hijos si la raíz coincide")
}

func TestFirstUnitMatchingStatus_SinCoincidencia(t *testing.T) {
	root, l := tree()
	_, err := composition.FirstUnitMatchingStatus(context.Background(), l, root, entity.UnitStatusRevision)
	assert.ErrorIs(t, err, domain.ErrNoMatchingComponent)
}

func TestWalk_CicloEsErrorDeIntegridad(t *testing.T) {
	root := unit("root", entity.UnitStatusFinalized, "A")
	l := &lookupFake{units: map[string]*entity.Unit{
		"A": unit("A", entity.UnitStatusFinalized, "root"),
	}}
	l.units["root"] = root
	_, err := composition.FirstUnitMatchingStatus(context.Background(), l, root, entity.UnitStatusProduction)
	assert.ErrorIs(t, err, domain.ErrDataIntegrity)
}

func TestWalk_ComponenteInexistente(t *testing.T) {
	root := unit("root", entity.UnitStatusFinalized, "fantasma")
	l := &lookupFake{units: map[string]*entity.Unit{}}
	_, err := composition.FirstUnitMatchingStatus(context.Background(), l, root, entity.UnitStatusProduction)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
