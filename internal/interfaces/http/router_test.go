package http_test

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/heptiolabs/healthcheck"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/workbench-api/internal/application/hid"
	"github.com/jhoicas/workbench-api/internal/application/usecase"
	"github.com/jhoicas/workbench-api/internal/application/workbench"
	"github.com/jhoicas/workbench-api/internal/domain/entity"
	"github.com/jhoicas/workbench-api/internal/domain/state"
	"github.com/jhoicas/workbench-api/internal/infrastructure/catalog"
	"github.com/jhoicas/workbench-api/internal/infrastructure/memory"
	"github.com/jhoicas/workbench-api/internal/infrastructure/metrics"
	"github.com/jhoicas/workbench-api/internal/infrastructure/passport"
	apphttp "github.com/jhoicas/workbench-api/internal/interfaces/http"
	"github.com/jhoicas/workbench-api/pkg/broadcast"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fixture: estación real sobre el almacenamiento en memoria
// ──────────────────────────────────────────────────────────────────────────────

type stubTracker struct {
	mu        sync.Mutex
	start     workbench.TrackerResponse
	manualHit int
}

func (s *stubTracker) setStart(code int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.start = workbench.TrackerResponse{StatusCode: code, Body: []byte(body)}
}

func (s *stubTracker) Start(context.Context, workbench.StartRequest) (*workbench.TrackerResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	resp := s.start
	return &resp, nil
}

func (s *stubTracker) ManualInput(context.Context, workbench.ManualInput) (*workbench.TrackerResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.manualHit++
	return &workbench.TrackerResponse{StatusCode: 200}, nil
}

func (s *stubTracker) Stop(context.Context) (*workbench.TrackerResponse, error) {
	return &workbench.TrackerResponse{StatusCode: 200, Body: []byte(`{"ipfs_cid":"QmVideo"}`)}, nil
}

type apiFixture struct {
	app     *fiber.App
	station *workbench.Workbench
	tracker *stubTracker
}

func newAPI(t *testing.T) *apiFixture {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("secreto"), bcrypt.MinCost)
	require.NoError(t, err)

	store := memory.New()
	require.NoError(t, store.Seed(&catalog.Catalog{
		Employees: []*entity.Employee{
			{RFIDCardID: "0008368511", Name: "Ana", Position: "Ensamblador", Username: "ana", PasswordHash: string(hash)},
		},
		Schemas: []*entity.ProductionSchema{
			{SchemaID: "simple", SchemaName: "Simple", SchemaStages: []entity.SchemaStage{{Name: "armado"}, {Name: "prueba"}}},
			{SchemaID: "bici", SchemaName: "Bicicleta", SchemaStages: []entity.SchemaStage{{Name: "ensamble"}}, ComponentsSchemaIDs: []string{"rueda"}},
			{SchemaID: "rueda", SchemaName: "Rueda", ParentSchemaID: "bici", SchemaStages: []entity.SchemaStage{{Name: "centrado"}}},
		},
	}))

	reg := prometheus.NewRegistry()
	tracker := &stubTracker{start: workbench.TrackerResponse{StatusCode: 200}}
	station, err := workbench.New(workbench.Config{Number: 1, Login: true}, workbench.Deps{
		Units:        store,
		Schemas:      store,
		Tracker:      tracker,
		Certificates: passport.NewYAMLBuilder(store, t.TempDir()),
		Metrics:      metrics.New(reg),
	})
	require.NoError(t, err)

	health := healthcheck.NewHandler()

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		Workbench:  station,
		HID:        hid.NewDispatcher(station, store, store, nil),
		SchemaUC:   usecase.NewSchemaUseCase(store),
		UnitUC:     usecase.NewUnitUseCase(store, nil),
		EmployeeUC: usecase.NewEmployeeUseCase(store),
		Health:     health,
		Gatherer:   reg,
	})
	return &apiFixture{app: app, station: station, tracker: tracker}
}

func (f *apiFixture) do(t *testing.T, method, path, body string) (int, map[string]any) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]any
	if len(raw) > 0 && strings.Contains(resp.Header.Get("Content-Type"), "json") {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp.StatusCode, out
}

func (f *apiFixture) logIn(t *testing.T) {
	t.Helper()
	code, body := f.do(t, http.MethodPost, "/api/employee/log-in", `{"employee_rfid_card_no":"0008368511"}`)
	require.Equal(t, http.StatusOK, code, body)
}

func (f *apiFixture) newUnit(t *testing.T, schemaID string) string {
	t.Helper()
	code, body := f.do(t, http.MethodPost, "/api/unit/new/"+schemaID, "")
	require.Equal(t, http.StatusOK, code, body)
	return body["unit_internal_id"].(string)
}

// ──────────────────────────────────────────────────────────────────────────────
// Flujo completo
// ──────────────────────────────────────────────────────────────────────────────

func TestRouter_FlujoDeUnaEtapaConEntradaManual(t *testing.T) {
	f := newAPI(t)
	f.logIn(t)

	code, status := f.do(t, http.MethodGet, "/api/workbench/status", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "AUTHORIZED_IDLING", status["state"])
	assert.Equal(t, "Ana", status["employee"].(map[string]any)["name"])

	id := f.newUnit(t, "simple")
	code, _ = f.do(t, http.MethodPost, "/api/workbench/assign-unit/"+id, "")
	require.Equal(t, http.StatusOK, code)

	// el servicio pide datos manuales: 504 con la guía tal cual
	f.tracker.setStart(http.StatusGatewayTimeout, `{"fields":["weight"]}`)
	code, guidance := f.do(t, http.MethodPost, "/api/workbench/start-operation", `{"workbench_details":{"additional_info":{}}}`)
	require.Equal(t, http.StatusGatewayTimeout, code)
	assert.Equal(t, []any{"weight"}, guidance["fields"])
	assert.Equal(t, state.UnitAssignedIdling, f.station.Status().State)

	code, body := f.do(t, http.MethodPost, "/api/workbench/start-operation",
		`{"workbench_details":{"additional_info":{}},"manual_input":{"weight":"12kg"}}`)
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, "Started operation 'armado' on Unit "+id, body["detail"])
	assert.Equal(t, 1, f.tracker.manualHit)

	code, body = f.do(t, http.MethodPost, "/api/workbench/end-operation", `{"premature_ending":false}`)
	require.Equal(t, http.StatusOK, code, body)

	code, info := f.do(t, http.MethodGet, "/api/unit/"+id+"/info", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, []any{map[string]any{"stage_name": "armado"}}, info["unit_operation_stages_completed"])
	assert.Equal(t, []any{map[string]any{"stage_name": "prueba"}}, info["unit_operation_stages_pending"])

	code, body = f.do(t, http.MethodPost, "/api/employee/log-out", "")
	require.Equal(t, http.StatusForbidden, code, "con unidad asignada no se cierra sesión")
	assert.Equal(t, "STATE_FORBIDDEN", body["code"])
	assert.Equal(t, state.UnitAssignedIdling, f.station.Status().State)

	code, _ = f.do(t, http.MethodPost, "/api/workbench/remove-unit", "")
	require.Equal(t, http.StatusOK, code)
	code, _ = f.do(t, http.MethodPost, "/api/employee/log-out", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, state.AwaitLogin, f.station.Status().State)
}

func TestRouter_CatalogoDelOperario(t *testing.T) {
	f := newAPI(t)

	code, _ := f.do(t, http.MethodGet, "/api/workbench/production-schemas/names", "")
	assert.Equal(t, http.StatusForbidden, code, "sin operario no hay catálogo")

	f.logIn(t)
	code, body := f.do(t, http.MethodGet, "/api/workbench/production-schemas/names", "")
	require.Equal(t, http.StatusOK, code)
	schemas := body["available_schemas"].([]any)
	require.Len(t, schemas, 2)
	first := schemas[0].(map[string]any)
	assert.Equal(t, "Simple", first["schema_name"])

	code, body = f.do(t, http.MethodGet, "/api/workbench/production-schemas/bici", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Bicicleta", body["production_schema"].(map[string]any)["schema_name"])
}

func TestRouter_LoginConCredenciales(t *testing.T) {
	f := newAPI(t)

	code, body := f.do(t, http.MethodPost, "/api/employee/login-creds", `{"employee_username":"ana","employee_password":"mala"}`)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "FORBIDDEN", body["code"])

	code, body = f.do(t, http.MethodPost, "/api/employee/login-creds", `{"employee_username":"ana","employee_password":"secreto"}`)
	require.Equal(t, http.StatusOK, code)
	data := body["employee_data"].(map[string]any)
	assert.Equal(t, "0008368511", data["rfid_card_id"])
	assert.NotContains(t, data, "password_hash")
}

// ──────────────────────────────────────────────────────────────────────────────
// Mapeo de errores
// ──────────────────────────────────────────────────────────────────────────────

func TestRouter_MapeoDeErrores(t *testing.T) {
	f := newAPI(t)

	tests := []struct {
		name, method, path, body string
		want                     int
		code                     string
	}{
		{"logout sin sesión", http.MethodPost, "/api/employee/log-out", "", http.StatusForbidden, "STATE_FORBIDDEN"},
		{"tarjeta desconocida", http.MethodPost, "/api/employee/info", `{"employee_rfid_card_no":"999"}`, http.StatusNotFound, "NOT_FOUND"},
		{"cuerpo vacío", http.MethodPost, "/api/employee/info", `{}`, http.StatusBadRequest, "INVALID_BODY"},
		{"crear sin operario", http.MethodPost, "/api/unit/new/simple", "", http.StatusForbidden, "STATE_FORBIDDEN"},
		{"componente fuera de recolección", http.MethodPost, "/api/unit/assign-component/123", "", http.StatusForbidden, "STATE_FORBIDDEN"},
		{"unidad inexistente", http.MethodGet, "/api/unit/000000000000/info", "", http.StatusNotFound, "NOT_FOUND"},
		{"upload sin operario", http.MethodPost, "/api/unit/upload", "", http.StatusForbidden, "STATE_FORBIDDEN"},
		{"pdf deshabilitado", http.MethodGet, "/api/unit/000000000000/passport.pdf", "", http.StatusConflict, "PRECONDITION"},
		{"evento de otro emisor", http.MethodPost, "/api/workbench/handle-barcode-event", `{"name":"teclado","string":"1"}`, http.StatusForbidden, "FORBIDDEN"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := f.do(t, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.want, code)
			assert.Equal(t, tt.code, body["code"])
		})
	}
}

func TestRouter_EsquemaInexistenteTrasLogin(t *testing.T) {
	f := newAPI(t)
	f.logIn(t)
	code, body := f.do(t, http.MethodPost, "/api/unit/new/nada", "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "NOT_FOUND", body["code"])
}

func TestRouter_EtapaSinUnidadProhibida(t *testing.T) {
	f := newAPI(t)
	f.logIn(t)
	code, _ := f.do(t, http.MethodPost, "/api/workbench/start-operation", "")
	assert.Equal(t, http.StatusForbidden, code, "AuthorizedIdling no puede pasar a etapa en curso")
}

func TestRouter_FalloDelServicioEs502(t *testing.T) {
	f := newAPI(t)
	f.logIn(t)
	id := f.newUnit(t, "simple")
	code, _ := f.do(t, http.MethodPost, "/api/workbench/assign-unit/"+id, "")
	require.Equal(t, http.StatusOK, code)

	f.tracker.setStart(http.StatusInternalServerError, "caído")
	code, body := f.do(t, http.MethodPost, "/api/workbench/start-operation", "")
	assert.Equal(t, http.StatusBadGateway, code)
	assert.Equal(t, "EXTERNAL_SERVICE", body["code"])
}

// ──────────────────────────────────────────────────────────────────────────────
// Eventos HID
// ──────────────────────────────────────────────────────────────────────────────

func TestRouter_EventosHID(t *testing.T) {
	f := newAPI(t)

	code, _ := f.do(t, http.MethodPost, "/api/employee/handle-rfid-event", `{"name":"rfid_reader","string":"0008368511"}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, state.AuthorizedIdling, f.station.Status().State)

	id := f.newUnit(t, "simple")
	code, _ = f.do(t, http.MethodPost, "/api/workbench/handle-barcode-event", `{"name":"barcode_reader","string":"`+id+`"}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, id, f.station.Status().UnitInternalID)

	rfid := `{"name":"rfid_reader","string":"0008368511"}`
	code, body := f.do(t, http.MethodPost, "/api/employee/handle-rfid-event", rfid)
	require.Equal(t, http.StatusForbidden, code, "con unidad asignada la tarjeta no cierra sesión")
	assert.Equal(t, "STATE_FORBIDDEN", body["code"])
	st := f.station.Status()
	assert.Equal(t, state.UnitAssignedIdling, st.State)
	assert.Equal(t, id, st.UnitInternalID)

	code, _ = f.do(t, http.MethodPost, "/api/workbench/remove-unit", "")
	require.Equal(t, http.StatusOK, code)
	code, _ = f.do(t, http.MethodPost, "/api/employee/handle-rfid-event", rfid)
	require.Equal(t, http.StatusOK, code)
	st = f.station.Status()
	assert.Equal(t, state.AwaitLogin, st.State)
	assert.False(t, st.HasUnit())
}

// ──────────────────────────────────────────────────────────────────────────────
// Operación: métricas y salud
// ──────────────────────────────────────────────────────────────────────────────

func TestRouter_MetricasYSalud(t *testing.T) {
	f := newAPI(t)
	f.logIn(t)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	raw, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(raw), "workbench_logins_total 1")
	assert.Contains(t, string(raw), `workbench_state{state="AUTHORIZED_IDLING"} 1`)

	for _, path := range []string{"/live", "/ready"} {
		resp, err := f.app.Test(httptest.NewRequest(http.MethodGet, path, nil), -1)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// SSE
// ──────────────────────────────────────────────────────────────────────────────

// scriptedSource publica los estados indicados y cierra el hub en cuanto hay suscriptor.
type scriptedSource struct {
	initial workbench.Status
	next    []workbench.Status
}

func (s scriptedSource) Subscribe() (workbench.Status, *broadcast.Subscription[workbench.Status]) {
	hub := broadcast.New[workbench.Status](0)
	sub := hub.Subscribe()
	for _, st := range s.next {
		hub.Publish(st)
	}
	hub.Close()
	return s.initial, sub
}

func TestStatusStream_InstantaneaYCambios(t *testing.T) {
	app := fiber.New()
	src := scriptedSource{
		initial: workbench.Status{Workbench: 1, State: state.AwaitLogin},
		next: []workbench.Status{
			{Workbench: 1, State: state.AuthorizedIdling, EmployeeLoggedIn: true},
		},
	}
	app.Get("/stream", apphttp.NewStatusStream(src, nil).Handle)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/stream", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	var states []string
	sc := bufio.NewScanner(resp.Body)
	for sc.Scan() {
		line := sc.Text()
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		var ev map[string]any
		require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &ev))
		states = append(states, ev["state"].(string))
	}
	assert.Equal(t, []string{"AWAIT_LOGIN", "AUTHORIZED_IDLING"}, states)
}
