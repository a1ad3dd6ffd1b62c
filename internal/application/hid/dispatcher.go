// Package hid traduce los eventos de los lectores (código de barras y RFID) en
// operaciones de la estación según su estado actual.
package hid

import (
	"context"
	"fmt"

	"github.com/jhoicas/workbench-api/internal/application/workbench"
	"github.com/jhoicas/workbench-api/internal/domain"
	"github.com/jhoicas/workbench-api/internal/domain/entity"
	"github.com/jhoicas/workbench-api/internal/domain/state"
	"github.com/jhoicas/workbench-api/pkg/logger"
)

var _ Station = (*workbench.Workbench)(nil)

// Emisores reconocidos.
const (
	SenderBarcode = "barcode_reader"
	SenderRFID    = "rfid_reader"
)

// Event evento crudo del demonio de lectores.
type Event struct {
	Sender string
	String string
}

// Station subconjunto de la estación que usan los eventos.
type Station interface {
	Status() workbench.Status
	LoginEnabled() bool
	LogIn(ctx context.Context, employee *entity.Employee) error
	LogOut(ctx context.Context) error
	AssignUnit(ctx context.Context, unit *entity.Unit) error
	AssignComponentToUnit(ctx context.Context, component *entity.Unit) error
	RemoveUnit(ctx context.Context) error
	EndOperation(ctx context.Context, in workbench.EndOperationInput) error
}

// UnitFinder búsqueda de unidades por código escaneado.
type UnitFinder interface {
	GetByInternalID(ctx context.Context, internalID string) (*entity.Unit, error)
}

// EmployeeFinder búsqueda de operarios por tarjeta.
type EmployeeFinder interface {
	GetByCardID(ctx context.Context, cardID string) (*entity.Employee, error)
}

// Dispatcher aplica cada evento a la estación.
type Dispatcher struct {
	station   Station
	units     UnitFinder
	employees EmployeeFinder
	log       *logger.Logger
}

func NewDispatcher(station Station, units UnitFinder, employees EmployeeFinder, log *logger.Logger) *Dispatcher {
	if log == nil {
		log = logger.Nop()
	}
	return &Dispatcher{station: station, units: units, employees: employees, log: log.Component("hid")}
}

// Handle despacha según el emisor.
func (d *Dispatcher) Handle(ctx context.Context, ev Event) error {
	switch ev.Sender {
	case SenderBarcode:
		return d.HandleBarcode(ctx, ev)
	case SenderRFID:
		return d.HandleRFID(ctx, ev)
	}
	return fmt.Errorf("emisor desconocido %q: %w", ev.Sender, domain.ErrForbidden)
}

// HandleBarcode con etapa en curso el escaneo la termina; en los demás estados
// asigna la unidad o el componente escaneado.
func (d *Dispatcher) HandleBarcode(ctx context.Context, ev Event) error {
	if ev.Sender != SenderBarcode {
		return fmt.Errorf("emisor desconocido %q: %w", ev.Sender, domain.ErrForbidden)
	}
	d.log.Debug().Str("barcode", ev.String).Msg("evento de código de barras")

	status := d.station.Status()
	if status.State == state.ProductionStageOngoing {
		return d.station.EndOperation(ctx, workbench.EndOperationInput{})
	}

	unit, err := d.units.GetByInternalID(ctx, ev.String)
	if err != nil {
		return fmt.Errorf("unidad %s: %w", ev.String, err)
	}

	switch status.State {
	case state.AuthorizedIdling:
		return d.station.AssignUnit(ctx, unit)
	case state.UnitAssignedIdling:
		if status.UnitInternalID == unit.InternalID {
			d.log.Info().Str("unit", unit.InternalID).Msg("la unidad ya está en la estación")
			return nil
		}
		if err := d.station.RemoveUnit(ctx); err != nil {
			return err
		}
		return d.station.AssignUnit(ctx, unit)
	case state.GatherComponents:
		return d.station.AssignComponentToUnit(ctx, unit)
	default:
		d.log.Warn().Str("barcode", ev.String).Str("state", string(status.State)).
			Msg("evento ignorado: no hay operario autorizado")
		return nil
	}
}

// HandleRFID alterna la sesión: si hay operario lo desconecta, si no busca la tarjeta
// e inicia sesión. Sin login configurado se ignora.
func (d *Dispatcher) HandleRFID(ctx context.Context, ev Event) error {
	if ev.Sender != SenderRFID {
		return fmt.Errorf("emisor desconocido %q: %w", ev.Sender, domain.ErrForbidden)
	}
	d.log.Debug().Str("card", ev.String).Msg("evento RFID")

	if !d.station.LoginEnabled() {
		return nil
	}
	if d.station.Status().EmployeeLoggedIn {
		return d.station.LogOut(ctx)
	}
	employee, err := d.employees.GetByCardID(ctx, ev.String)
	if err != nil {
		return fmt.Errorf("tarjeta %s: %w", ev.String, err)
	}
	return d.station.LogIn(ctx, employee)
}
