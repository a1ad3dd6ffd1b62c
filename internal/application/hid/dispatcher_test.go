package hid_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/workbench-api/internal/application/hid"
	"github.com/jhoicas/workbench-api/internal/application/workbench"
	"github.com/jhoicas/workbench-api/internal/domain"
	"github.com/jhoicas/workbench-api/internal/domain/entity"
	"github.com/jhoicas/workbench-api/internal/domain/state"
)

// ── Fakes ─────────────────────────────────────────────────────────────────────

type fakeStation struct {
	status workbench.Status
	login  bool
	calls  []string
}

func (f *fakeStation) Status() workbench.Status { return f.status }
func (f *fakeStation) LoginEnabled() bool       { return f.login }

func (f *fakeStation) LogIn(_ context.Context, e *entity.Employee) error {
	f.calls = append(f.calls, "login:"+e.RFIDCardID)
	return nil
}

func (f *fakeStation) LogOut(context.Context) error {
	f.calls = append(f.calls, "logout")
	return nil
}

func (f *fakeStation) AssignUnit(_ context.Context, u *entity.Unit) error {
	f.calls = append(f.calls, "assign:"+u.InternalID)
	return nil
}

func (f *fakeStation) AssignComponentToUnit(_ context.Context, u *entity.Unit) error {
	f.calls = append(f.calls, "component:"+u.InternalID)
	return nil
}

func (f *fakeStation) RemoveUnit(context.Context) error {
	f.calls = append(f.calls, "remove")
	return nil
}

func (f *fakeStation) EndOperation(context.Context, workbench.EndOperationInput) error {
	f.calls = append(f.calls, "end")
	return nil
}

type finder struct{}

func (finder) GetByInternalID(_ context.Context, id string) (*entity.Unit, error) {
	if id == "404" {
		return nil, domain.ErrNotFound
	}
	return &entity.Unit{InternalID: id}, nil
}

func (finder) GetByCardID(_ context.Context, id string) (*entity.Employee, error) {
	if id == "404" {
		return nil, domain.ErrNotFound
	}
	return &entity.Employee{RFIDCardID: id}, nil
}

func dispatcher(st *fakeStation) *hid.Dispatcher {
	return hid.NewDispatcher(st, finder{}, finder{}, nil)
}

// ── Código de barras ─────────────────────────────────────────────────────────

func TestHandleBarcode_SegunEstado(t *testing.T) {
	tests := []struct {
		name   string
		status workbench.Status
		code   string
		want   []string
	}{
		{"etapa en curso termina", workbench.Status{State: state.ProductionStageOngoing}, "404", []string{"end"}},
		{"autorizado asigna", workbench.Status{State: state.AuthorizedIdling}, "111", []string{"assign:111"}},
		{"misma unidad se ignora", workbench.Status{State: state.UnitAssignedIdling, UnitInternalID: "111"}, "111", nil},
		{"otra unidad reemplaza", workbench.Status{State: state.UnitAssignedIdling, UnitInternalID: "111"}, "222", []string{"remove", "assign:222"}},
		{"recolección asigna componente", workbench.Status{State: state.GatherComponents}, "333", []string{"component:333"}},
		{"sin operario se ignora", workbench.Status{State: state.AwaitLogin}, "111", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := &fakeStation{status: tt.status}
			require.NoError(t, dispatcher(st).Handle(context.Background(), hid.Event{Sender: hid.SenderBarcode, String: tt.code}))
			assert.Equal(t, tt.want, st.calls)
		})
	}
}

func TestHandleBarcode_UnidadInexistente(t *testing.T) {
	st := &fakeStation{status: workbench.Status{State: state.AuthorizedIdling}}
	err := dispatcher(st).HandleBarcode(context.Background(), hid.Event{Sender: hid.SenderBarcode, String: "404"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, st.calls)
}

func TestHandle_EmisorDesconocido(t *testing.T) {
	st := &fakeStation{}
	d := dispatcher(st)
	assert.ErrorIs(t, d.Handle(context.Background(), hid.Event{Sender: "teclado"}), domain.ErrForbidden)
	assert.ErrorIs(t, d.HandleBarcode(context.Background(), hid.Event{Sender: hid.SenderRFID}), domain.ErrForbidden)
	assert.ErrorIs(t, d.HandleRFID(context.Background(), hid.Event{Sender: hid.SenderBarcode}), domain.ErrForbidden)
}

// ── RFID ─────────────────────────────────────────────────────────────────────

func TestHandleRFID_AlternaSesion(t *testing.T) {
	ctx := context.Background()
	ev := hid.Event{Sender: hid.SenderRFID, String: "0008368511"}

	st := &fakeStation{login: true}
	require.NoError(t, dispatcher(st).Handle(ctx, ev))
	assert.Equal(t, []string{"login:0008368511"}, st.calls)

	st = &fakeStation{login: true, status: workbench.Status{EmployeeLoggedIn: true}}
	require.NoError(t, dispatcher(st).Handle(ctx, ev))
	assert.Equal(t, []string{"logout"}, st.calls)
}

func TestHandleRFID_SinLoginSeIgnora(t *testing.T) {
	st := &fakeStation{login: false}
	require.NoError(t, dispatcher(st).Handle(context.Background(), hid.Event{Sender: hid.SenderRFID, String: "1"}))
	assert.Empty(t, st.calls)
}

func TestHandleRFID_TarjetaDesconocida(t *testing.T) {
	st := &fakeStation{login: true}
	err := dispatcher(st).Handle(context.Background(), hid.Event{Sender: hid.SenderRFID, String: "404"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
