package workbench_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jhoicas/workbench-api/internal/application/workbench"
	"github.com/jhoicas/workbench-api/internal/domain"
	"github.com/jhoicas/workbench-api/internal/domain/entity"
	"github.com/jhoicas/workbench-api/internal/domain/repository"
	"github.com/jhoicas/workbench-api/internal/domain/state"
)

// ──────────────────────────────────────────────────────────────────────────────
// Repositorios en memoria con registro de llamadas
// ──────────────────────────────────────────────────────────────────────────────

type saveCall struct {
	Unit              entity.Unit
	IncludeComponents bool
}

type fieldUpdate struct {
	UUID  string
	Field string
	Value any
}

type fakeUnits struct {
	mu      sync.Mutex
	units   map[string]*entity.Unit
	saves   []saveCall
	updates []fieldUpdate
	saveErr error
}

func newFakeUnits(units ...*entity.Unit) *fakeUnits {
	f := &fakeUnits{units: map[string]*entity.Unit{}}
	for _, u := range units {
		f.units[u.UUID] = u
	}
	return f
}

func (f *fakeUnits) GetByUUID(_ context.Context, uuid string) (*entity.Unit, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.units[uuid]; ok {
		return u, nil
	}
	return nil, fmt.Errorf("unidad %s: %w", uuid, domain.ErrNotFound)
}

func (f *fakeUnits) GetByInternalID(_ context.Context, internalID string) (*entity.Unit, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.units {
		if u.InternalID == internalID {
			return u, nil
		}
	}
	return nil, fmt.Errorf("unidad %s: %w", internalID, domain.ErrNotFound)
}

func (f *fakeUnits) Save(_ context.Context, unit *entity.Unit, includeComponents bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	cp := *unit
	cp.ComponentsIDs = append([]string(nil), unit.ComponentsIDs...)
	f.saves = append(f.saves, saveCall{Unit: cp, IncludeComponents: includeComponents})
	f.units[unit.UUID] = unit
	return nil
}

func (f *fakeUnits) UpdateField(_ context.Context, uuid, field string, value any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, fieldUpdate{UUID: uuid, Field: field, Value: value})
	return nil
}

func (f *fakeUnits) ListByStatus(_ context.Context, status entity.UnitStatus) ([]repository.UnitSummary, error) {
	return nil, nil
}

func (f *fakeUnits) saveCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.saves)
}

func (f *fakeUnits) updateFields() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.updates))
	for _, u := range f.updates {
		out = append(out, u.Field)
	}
	return out
}

type fakeSchemas map[string]*entity.ProductionSchema

func (f fakeSchemas) GetByID(_ context.Context, id string) (*entity.ProductionSchema, error) {
	if s, ok := f[id]; ok {
		return s, nil
	}
	return nil, fmt.Errorf("esquema %s: %w", id, domain.ErrNotFound)
}

func (f fakeSchemas) List(context.Context, string) ([]*entity.ProductionSchema, error) {
	out := make([]*entity.ProductionSchema, 0, len(f))
	for _, s := range f {
		out = append(out, s)
	}
	return out, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Colaboradores externos
// ──────────────────────────────────────────────────────────────────────────────

type fakeTracker struct {
	mu          sync.Mutex
	startResp   *workbench.TrackerResponse
	startErr    error
	manualResp  *workbench.TrackerResponse
	stopResp    *workbench.TrackerResponse
	stopErr     error
	startCalls  int
	manualCalls int
	stopCalls   int
}

func okTracker() *fakeTracker {
	return &fakeTracker{
		startResp:  &workbench.TrackerResponse{StatusCode: 200, Body: []byte(`{"status":"ok"}`)},
		manualResp: &workbench.TrackerResponse{StatusCode: 200},
		stopResp:   &workbench.TrackerResponse{StatusCode: 200, Body: []byte(`{"ipfs_cid":"QmVideo","ipfs_link":"https://gw/QmVideo","peso":"12kg"}`)},
	}
}

func (f *fakeTracker) Start(context.Context, workbench.StartRequest) (*workbench.TrackerResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.startCalls++
	return f.startResp, f.startErr
}

func (f *fakeTracker) ManualInput(context.Context, workbench.ManualInput) (*workbench.TrackerResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.manualCalls++
	return f.manualResp, nil
}

func (f *fakeTracker) Stop(context.Context) (*workbench.TrackerResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopCalls++
	return f.stopResp, f.stopErr
}

type fakePublisher struct {
	calls int
	err   error
}

func (f *fakePublisher) Publish(_ context.Context, owner, path string) (*workbench.PublishResult, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &workbench.PublishResult{CID: "QmPassport", Link: "https://gw/QmPassport"}, nil
}

type fakeLedger struct {
	posted chan string
}

func (f *fakeLedger) Post(_ context.Context, cid, internalID string) (string, error) {
	f.posted <- cid
	return "0xtx", nil
}

type printCall struct {
	Path       string
	Annotation string
}

// fakePrinter falla para las rutas cuyo nombre base empiece con alguno de failPrefixes.
type fakePrinter struct {
	mu           sync.Mutex
	calls        []printCall
	failPrefixes []string
}

func (f *fakePrinter) PrintImage(_ context.Context, path, annotation string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, printCall{Path: path, Annotation: annotation})
	base := filepath.Base(path)
	for _, p := range f.failPrefixes {
		if len(base) >= len(p) && base[:len(p)] == p {
			return errors.New("impresora sin papel")
		}
	}
	return nil
}

type fakeLabels struct{ dir string }

func (f fakeLabels) write(name string) (string, error) {
	path := filepath.Join(f.dir, name)
	return path, os.WriteFile(path, []byte("png"), 0o600)
}

func (f fakeLabels) UnitBarcode(_ context.Context, id string) (string, error) {
	return f.write("barcode-" + id + ".png")
}

func (f fakeLabels) PassportQR(context.Context, string) (string, error) {
	return f.write("qr.png")
}

func (f fakeLabels) SealTag(context.Context, bool) (string, error) {
	return f.write("seal.png")
}

type fakeCerts struct{ dir string }

func (f fakeCerts) Build(_ context.Context, u *entity.Unit) (string, error) {
	path := filepath.Join(f.dir, "passport-"+u.InternalID+".yaml")
	return path, os.WriteFile(path, []byte("unit: "+u.InternalID), 0o600)
}

type transition struct{ From, To state.State }

type recordingMetrics struct {
	workbench.NopMetrics
	mu          sync.Mutex
	transitions []transition
	ended       []bool
}

func (m *recordingMetrics) Transition(from, to state.State) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transitions = append(m.transitions, transition{from, to})
}

func (m *recordingMetrics) OperationEnded(_ *entity.Unit, premature bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ended = append(m.ended, premature)
}

func (m *recordingMetrics) count(from, to state.State) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, t := range m.transitions {
		if t.From == from && t.To == to {
			n++
		}
	}
	return n
}

// ──────────────────────────────────────────────────────────────────────────────
// Fixture
// ──────────────────────────────────────────────────────────────────────────────

var (
	testEmployee = &entity.Employee{RFIDCardID: "0008368511", Name: "Ana", Position: "Ensamblador"}
	fixedNow     = time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
)

type fixture struct {
	wb        *workbench.Workbench
	units     *fakeUnits
	schemas   fakeSchemas
	tracker   *fakeTracker
	publisher *fakePublisher
	ledger    *fakeLedger
	printer   *fakePrinter
	metrics   *recordingMetrics
	cfg       workbench.Config
}

type option func(*fixture)

func withConfig(fn func(*workbench.Config)) option {
	return func(f *fixture) { fn(&f.cfg) }
}

func withUnits(units ...*entity.Unit) option {
	return func(f *fixture) {
		for _, u := range units {
			f.units.units[u.UUID] = u
		}
	}
}

func newFixture(t *testing.T, opts ...option) *fixture {
	t.Helper()
	dir := t.TempDir()
	f := &fixture{
		units: newFakeUnits(),
		schemas: fakeSchemas{
			"simple": {SchemaID: "simple", SchemaName: "Simple", SchemaStages: []entity.SchemaStage{{Name: "armado"}, {Name: "prueba"}}},
			"bici":   {SchemaID: "bici", SchemaName: "Bicicleta", SchemaStages: []entity.SchemaStage{{Name: "ensamble"}}, ComponentsSchemaIDs: []string{"cuadro", "rueda"}},
			"cuadro": {SchemaID: "cuadro", SchemaName: "Cuadro", SchemaPrintName: "Cuadro", ParentSchemaID: "bici", SchemaStages: []entity.SchemaStage{{Name: "soldadura"}}},
			"rueda":  {SchemaID: "rueda", SchemaName: "Rueda", ParentSchemaID: "bici", SchemaStages: []entity.SchemaStage{{Name: "centrado"}}},
		},
		tracker:   okTracker(),
		publisher: &fakePublisher{},
		ledger:    &fakeLedger{posted: make(chan string, 4)},
		printer:   &fakePrinter{},
		metrics:   &recordingMetrics{},
		cfg:       workbench.Config{Number: 1, Login: true},
	}
	for _, o := range opts {
		o(f)
	}
	wb, err := workbench.New(f.cfg, workbench.Deps{
		Units:        f.units,
		Schemas:      f.schemas,
		Tracker:      f.tracker,
		Publisher:    f.publisher,
		Ledger:       f.ledger,
		Printer:      f.printer,
		Labels:       fakeLabels{dir: dir},
		Certificates: fakeCerts{dir: dir},
		Metrics:      f.metrics,
		Clock:        func() time.Time { return fixedNow },
	})
	require.NoError(t, err)
	f.wb = wb
	return f
}

func unitOf(uuid, schemaID string, status entity.UnitStatus, stages ...string) *entity.Unit {
	u := &entity.Unit{UUID: uuid, InternalID: "int-" + uuid, SchemaID: schemaID, SchemaName: schemaID, Status: status}
	for i, s := range stages {
		u.OperationStages = append(u.OperationStages, entity.ProductionStage{Name: s, Number: i, ParentUnitUUID: uuid})
	}
	return u
}
