package workbench

import (
	"github.com/jhoicas/workbench-api/internal/domain/entity"
	"github.com/jhoicas/workbench-api/internal/domain/state"
	"github.com/jhoicas/workbench-api/pkg/broadcast"
)

// Status instantánea inmutable del estado de la estación.
type Status struct {
	Workbench        int
	State            state.State
	EmployeeLoggedIn bool
	Employee         *entity.Employee
	OperationOngoing bool
	UnitInternalID   string
	UnitStatus       entity.UnitStatus
	UnitBiography    []string
	UnitComponents   map[string]*string // esquema -> internal_id asignado
}

// HasUnit indica si hay unidad en la estación.
func (s Status) HasUnit() bool { return s.UnitInternalID != "" }

// Status devuelve la instantánea actual sin esperar operaciones en curso.
func (w *Workbench) Status() Status {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.snapshotLocked()
}

// Subscribe devuelve la instantánea actual y una suscripción a cada cambio posterior.
// Quien llama debe cerrar la suscripción.
func (w *Workbench) Subscribe() (Status, *broadcast.Subscription[Status]) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.snapshotLocked(), w.hub.Subscribe()
}

func (w *Workbench) snapshotLocked() Status {
	cur := w.machine.Current()
	st := Status{
		Workbench:        w.cfg.Number,
		State:            cur,
		EmployeeLoggedIn: w.employee != nil,
		Employee:         w.employee,
		OperationOngoing: cur == state.ProductionStageOngoing,
	}
	if w.session != nil {
		u := w.session.Unit()
		st.UnitInternalID = u.InternalID
		st.UnitStatus = u.Status
		st.UnitBiography = u.Biography()
		st.UnitComponents = w.session.AssignedComponents()
	}
	return st
}

// CurrentUnit copia superficial de la unidad en la estación, o nil.
func (w *Workbench) CurrentUnit() *entity.Unit {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.session == nil {
		return nil
	}
	u := *w.session.Unit()
	u.OperationStages = cloneStages(u.OperationStages)
	return &u
}
