// Package workbench orquesta la estación: operario, unidad en curso y estado,
// validando cada transición y notificando a los suscriptores del estado.
package workbench

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/workbench-api/internal/domain"
	"github.com/jhoicas/workbench-api/internal/domain/assembly"
	"github.com/jhoicas/workbench-api/internal/domain/composition"
	"github.com/jhoicas/workbench-api/internal/domain/entity"
	"github.com/jhoicas/workbench-api/internal/domain/repository"
	"github.com/jhoicas/workbench-api/internal/domain/state"
	"github.com/jhoicas/workbench-api/pkg/broadcast"
	"github.com/jhoicas/workbench-api/pkg/logger"
)

// PrinterPolicy qué etiquetas se imprimen.
type PrinterPolicy struct {
	Enable                  bool
	PrintBarcode            bool
	PrintQR                 bool
	PrintQROnlyForComposite bool
	PrintSecurityTag        bool
	SecurityTagAddTimestamp bool
}

// Config parámetros de la estación.
type Config struct {
	Number         int
	Login          bool
	DummyEmployee  *entity.Employee // operario fijo cuando Login es false
	Printer        PrinterPolicy
	PublishEnabled bool
	LedgerEnabled  bool
	LedgerTimeout  time.Duration
}

// Deps colaboradores externos. Publisher, Ledger, Printer y Labels solo se usan
// si la configuración los habilita.
type Deps struct {
	Units        repository.UnitRepository
	Schemas      repository.SchemaRepository
	Tracker      BuildTracker
	Publisher    Publisher
	Ledger       Ledger
	Printer      Printer
	Labels       LabelMaker
	Certificates CertificateBuilder
	Metrics      Metrics
	Log          *logger.Logger
	Clock        func() time.Time
	NewUUID      func() string
}

// Workbench controlador único de la estación.
//
// opMu serializa cada operación completa (validar, llamar afuera, confirmar);
// mu protege los campos para que Status no espere por E/S externa.
type Workbench struct {
	cfg  Config
	deps Deps
	log  *logger.Logger

	opMu sync.Mutex

	mu       sync.RWMutex
	machine  *state.Machine
	employee *entity.Employee
	session  *assembly.Session

	hub *broadcast.Hub[Status]
	bg  sync.WaitGroup
}

// New construye la estación. Sin login arranca autorizada con el operario por defecto.
func New(cfg Config, deps Deps) (*Workbench, error) {
	if deps.Units == nil || deps.Schemas == nil || deps.Tracker == nil || deps.Certificates == nil {
		return nil, errors.New("workbench: Units, Schemas, Tracker y Certificates son obligatorios")
	}
	if cfg.Printer.Enable && (deps.Printer == nil || deps.Labels == nil) {
		return nil, errors.New("workbench: impresora habilitada sin Printer/Labels")
	}
	if cfg.PublishEnabled && deps.Publisher == nil {
		return nil, errors.New("workbench: publicación habilitada sin Publisher")
	}
	if cfg.LedgerEnabled && deps.Ledger == nil {
		return nil, errors.New("workbench: ledger habilitado sin Ledger")
	}
	if deps.Metrics == nil {
		deps.Metrics = NopMetrics{}
	}
	if deps.Log == nil {
		deps.Log = logger.Nop()
	}
	if deps.Clock == nil {
		deps.Clock = time.Now
	}
	if deps.NewUUID == nil {
		deps.NewUUID = func() string { return strings.ReplaceAll(uuid.NewString(), "-", "") }
	}
	if cfg.LedgerTimeout <= 0 {
		cfg.LedgerTimeout = time.Minute
	}

	initial := state.AwaitLogin
	var employee *entity.Employee
	if !cfg.Login {
		if cfg.DummyEmployee == nil {
			return nil, errors.New("workbench: sin login se requiere DummyEmployee")
		}
		initial = state.AuthorizedIdling
		employee = cfg.DummyEmployee
	}

	w := &Workbench{
		cfg:      cfg,
		deps:     deps,
		log:      deps.Log.Component("workbench"),
		machine:  state.NewMachine(initial),
		employee: employee,
		hub:      broadcast.New[Status](0),
	}
	w.log.Info().Str("state", string(initial)).Msg("estación inicializada")
	return w, nil
}

// Number número de la estación.
func (w *Workbench) Number() int { return w.cfg.Number }

// LoginEnabled indica si la estación exige autenticación.
func (w *Workbench) LoginEnabled() bool { return w.cfg.Login }

// commit aplica target y la mutación de campos de forma atómica y notifica.
// Debe llamarse con opMu tomado.
func (w *Workbench) commit(ctx context.Context, target state.State, apply func()) error {
	w.mu.Lock()
	from := w.machine.Current()
	if err := w.machine.Transition(context.WithoutCancel(ctx), target); err != nil {
		w.mu.Unlock()
		return err
	}
	if apply != nil {
		apply()
	}
	snap := w.snapshotLocked()
	w.mu.Unlock()

	w.log.Info().Str("from", string(from)).Str("to", string(target)).Msg("cambio de estado")
	w.deps.Metrics.Transition(from, target)
	w.hub.Publish(snap)
	return nil
}

// notify publica el estado actual sin transición.
func (w *Workbench) notify() {
	w.hub.Publish(w.Status())
}

// fields lectura breve de operario y sesión.
func (w *Workbench) fields() (*entity.Employee, *assembly.Session) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.employee, w.session
}

// LogIn autoriza al operario.
func (w *Workbench) LogIn(ctx context.Context, employee *entity.Employee) error {
	if employee == nil {
		return fmt.Errorf("operario vacío: %w", domain.ErrInvalidInput)
	}
	w.opMu.Lock()
	defer w.opMu.Unlock()

	if err := w.machine.Validate(state.AuthorizedIdling); err != nil {
		return err
	}
	if err := w.commit(ctx, state.AuthorizedIdling, func() { w.employee = employee }); err != nil {
		return err
	}
	w.log.Info().Str("employee", employee.Name).Msg("operario autenticado")
	w.deps.Metrics.LoggedIn(employee)
	return nil
}

// LogOut cierra la sesión del operario. Solo desde AuthorizedIdling; una unidad que
// siga en la estación (LogIn repetido desde UnitAssignedIdling) se retira con la sesión.
func (w *Workbench) LogOut(ctx context.Context) error {
	w.opMu.Lock()
	defer w.opMu.Unlock()
	return w.logOut(ctx)
}

func (w *Workbench) logOut(ctx context.Context) error {
	if err := w.machine.Validate(state.AwaitLogin); err != nil {
		return err
	}
	employee, session := w.fields()
	if err := w.commit(ctx, state.AwaitLogin, func() {
		w.employee = nil
		w.session = nil
	}); err != nil {
		return err
	}
	if session != nil {
		w.log.Info().Str("unit", session.Unit().InternalID).Msg("unidad retirada al cerrar sesión")
	}
	if employee != nil {
		w.log.Info().Str("employee", employee.Name).Msg("operario desconectado")
		w.deps.Metrics.LoggedOut(employee)
	}
	return nil
}

// CreateUnit crea una unidad nueva del esquema; solo en AuthorizedIdling.
// componentInternalIDs son unidades ya producidas que la componen.
func (w *Workbench) CreateUnit(ctx context.Context, schemaID string, componentInternalIDs ...string) (*entity.Unit, error) {
	w.opMu.Lock()
	defer w.opMu.Unlock()

	if cur := w.machine.Current(); cur != state.AuthorizedIdling {
		return nil, fmt.Errorf("crear unidad en %s: %w", cur, domain.ErrStateForbidden)
	}
	schema, err := w.deps.Schemas.GetByID(ctx, schemaID)
	if err != nil {
		return nil, fmt.Errorf("esquema %s: %w", schemaID, err)
	}
	employee, _ := w.fields()
	if employee != nil && !schema.IsAllowed(employee.Position) {
		return nil, fmt.Errorf("cargo %q no puede iniciar %s: %w", employee.Position, schema.SchemaName, domain.ErrForbidden)
	}

	components := make([]*entity.Unit, 0, len(componentInternalIDs))
	for _, id := range componentInternalIDs {
		c, err := w.deps.Units.GetByInternalID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("componente %s: %w", id, err)
		}
		components = append(components, c)
	}

	unit, err := entity.NewUnit(schema, w.deps.NewUUID(), components, w.deps.Clock())
	if err != nil {
		return nil, err
	}

	if w.cfg.Printer.Enable && w.cfg.Printer.PrintBarcode {
		if err := w.printUnitBarcode(ctx, unit, schema); err != nil {
			return nil, err
		}
	}
	if err := w.deps.Units.Save(ctx, unit, true); err != nil {
		return nil, fmt.Errorf("guardar unidad %s: %w", unit.InternalID, err)
	}
	w.log.Info().Str("unit", unit.InternalID).Str("schema", schema.SchemaID).Msg("unidad creada")
	w.deps.Metrics.UnitCreated(unit)
	return unit, nil
}

func (w *Workbench) printUnitBarcode(ctx context.Context, unit *entity.Unit, schema *entity.ProductionSchema) error {
	annotation := schema.PrintName()
	if schema.IsAComponent() {
		parent, err := w.deps.Schemas.GetByID(ctx, schema.ParentSchemaID)
		if err != nil {
			return fmt.Errorf("esquema padre %s: %w", schema.ParentSchemaID, err)
		}
		annotation = fmt.Sprintf("%s. %s.", parent.PrintName(), schema.PrintName())
	}
	path, err := w.deps.Labels.UnitBarcode(ctx, unit.InternalID)
	if err != nil {
		return fmt.Errorf("generar código de barras: %w", err)
	}
	defer w.discard(path)
	if err := w.deps.Printer.PrintImage(ctx, path, annotation); err != nil {
		w.deps.Metrics.ExternalFailure("printer")
		return fmt.Errorf("imprimir código de barras de %s: %w", unit.InternalID, err)
	}
	return nil
}

// AssignUnitByInternalID busca la unidad y la asigna.
func (w *Workbench) AssignUnitByInternalID(ctx context.Context, internalID string) error {
	unit, err := w.deps.Units.GetByInternalID(ctx, internalID)
	if err != nil {
		return err
	}
	return w.AssignUnit(ctx, unit)
}

// AssignUnit coloca la unidad en la estación. Una unidad Built sin publicar se acepta tal cual;
// Production o Revision también; en otro caso se busca en su árbol el primer componente pendiente.
func (w *Workbench) AssignUnit(ctx context.Context, unit *entity.Unit) error {
	w.opMu.Lock()
	defer w.opMu.Unlock()

	if err := w.machine.Validate(state.UnitAssignedIdling); err != nil {
		return err
	}
	if err := w.machine.Validate(state.GatherComponents); err != nil {
		return err
	}

	override := unit.Status == entity.UnitStatusBuilt && !unit.HasPublishMetadata()
	allowed := unit.Status == entity.UnitStatusProduction || unit.Status == entity.UnitStatusRevision
	if !override && !allowed {
		found, err := composition.FirstUnitMatchingStatus(ctx, w.deps.Units, unit,
			entity.UnitStatusProduction, entity.UnitStatusRevision)
		if err != nil {
			if errors.Is(err, domain.ErrNoMatchingComponent) {
				return fmt.Errorf("unidad %s en estado %s: %w: %w", unit.InternalID, unit.Status, domain.ErrPrecondition, err)
			}
			return err
		}
		w.log.Info().Str("scanned", unit.InternalID).Str("unit", found.InternalID).Msg("redirigido a componente pendiente")
		unit = found
	}

	schema, err := w.deps.Schemas.GetByID(ctx, unit.SchemaID)
	if err != nil {
		return fmt.Errorf("esquema %s: %w", unit.SchemaID, err)
	}
	components := make([]*entity.Unit, 0, len(unit.ComponentsIDs))
	for _, id := range unit.ComponentsIDs {
		c, err := w.deps.Units.GetByUUID(ctx, id)
		if err != nil {
			return fmt.Errorf("componente %s: %w", id, err)
		}
		components = append(components, c)
	}
	session, err := assembly.NewSession(unit, schema, components)
	if err != nil {
		return err
	}

	target := state.UnitAssignedIdling
	if !session.Filled() {
		target = state.GatherComponents
	}
	if err := w.commit(ctx, target, func() { w.session = session }); err != nil {
		return err
	}
	w.log.Info().Str("unit", unit.InternalID).Msg("unidad asignada a la estación")
	return nil
}

// AssignComponentByInternalID busca el componente y lo asigna.
func (w *Workbench) AssignComponentByInternalID(ctx context.Context, internalID string) error {
	component, err := w.deps.Units.GetByInternalID(ctx, internalID)
	if err != nil {
		return err
	}
	return w.AssignComponentToUnit(ctx, component)
}

// AssignComponentToUnit llena un hueco de la unidad compuesta. Al llenar el último,
// persiste la unidad con sus componentes y pasa a UnitAssignedIdling.
func (w *Workbench) AssignComponentToUnit(ctx context.Context, component *entity.Unit) error {
	w.opMu.Lock()
	defer w.opMu.Unlock()

	w.mu.Lock()
	cur := w.machine.Current()
	if cur != state.GatherComponents || w.session == nil {
		w.mu.Unlock()
		return fmt.Errorf("asignar componente en %s: %w", cur, domain.ErrStateForbidden)
	}
	session := w.session
	err := session.Assign(component)
	w.mu.Unlock()
	if err != nil {
		return err
	}
	w.log.Info().Str("component", component.InternalID).Str("unit", session.Unit().InternalID).Msg("componente asignado")
	w.notify()

	if !session.Filled() {
		return nil
	}
	if err := w.deps.Units.Save(ctx, session.Unit(), true); err != nil {
		return fmt.Errorf("guardar unidad %s: %w", session.Unit().InternalID, err)
	}
	return w.commit(ctx, state.UnitAssignedIdling, nil)
}

// RemoveUnit retira la unidad de la estación; no toca el almacenamiento.
func (w *Workbench) RemoveUnit(ctx context.Context) error {
	w.opMu.Lock()
	defer w.opMu.Unlock()
	return w.removeUnit(ctx)
}

func (w *Workbench) removeUnit(ctx context.Context) error {
	if err := w.machine.Validate(state.AuthorizedIdling); err != nil {
		return err
	}
	_, session := w.fields()
	if session == nil {
		return fmt.Errorf("no hay unidad asignada: %w", domain.ErrPrecondition)
	}
	if err := w.commit(ctx, state.AuthorizedIdling, func() { w.session = nil }); err != nil {
		return err
	}
	w.log.Info().Str("unit", session.Unit().InternalID).Msg("unidad retirada de la estación")
	return nil
}

// discard borra un archivo temporal de etiqueta o pasaporte.
func (w *Workbench) discard(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		w.log.Warn().Err(err).Str("path", path).Msg("no se pudo borrar archivo temporal")
	}
}
