// Package state contiene la tabla de transiciones de la estación y la máquina
// que la hace cumplir.
package state

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/looplab/fsm"

	"github.com/jhoicas/workbench-api/internal/domain"
)

// State estado observable de la estación.
type State string

const (
	AwaitLogin             State = "AWAIT_LOGIN"
	AuthorizedIdling       State = "AUTHORIZED_IDLING"
	UnitAssignedIdling     State = "UNIT_ASSIGNED_IDLING"
	GatherComponents       State = "GATHER_COMPONENTS"
	ProductionStageOngoing State = "PRODUCTION_STAGE_ONGOING"
)

// States todos los estados en orden de declaración.
func States() []State {
	return []State{AwaitLogin, AuthorizedIdling, UnitAssignedIdling, GatherComponents, ProductionStageOngoing}
}

// transitions origen -> destinos permitidos.
var transitions = map[State][]State{
	AwaitLogin:             {AuthorizedIdling},
	AuthorizedIdling:       {AwaitLogin, UnitAssignedIdling, GatherComponents},
	UnitAssignedIdling:     {AuthorizedIdling, ProductionStageOngoing},
	GatherComponents:       {UnitAssignedIdling, AuthorizedIdling},
	ProductionStageOngoing: {UnitAssignedIdling},
}

// Allowed indica si la tabla permite from -> to.
func Allowed(from, to State) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// events cada evento se llama como su estado destino y acepta todos los orígenes
// que la tabla permite hacia él.
func events() fsm.Events {
	sources := make(map[State][]string)
	for _, from := range States() {
		for _, to := range transitions[from] {
			sources[to] = append(sources[to], string(from))
		}
	}
	evts := make(fsm.Events, 0, len(sources))
	for _, to := range States() {
		if src, ok := sources[to]; ok {
			evts = append(evts, fsm.EventDesc{Name: string(to), Src: src, Dst: string(to)})
		}
	}
	return evts
}

// Machine envuelve la FSM; valida antes de aplicar y nunca muta en un rechazo.
type Machine struct {
	mu  sync.Mutex
	fsm *fsm.FSM
}

// NewMachine crea la máquina en el estado inicial indicado.
func NewMachine(initial State) *Machine {
	return &Machine{fsm: fsm.NewFSM(string(initial), events(), fsm.Callbacks{})}
}

// Current estado actual.
func (m *Machine) Current() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return State(m.fsm.Current())
}

// Validate devuelve ErrStateForbidden si target no es alcanzable desde el estado actual.
func (m *Machine) Validate(target State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.validateLocked(target)
}

func (m *Machine) validateLocked(target State) error {
	if !m.fsm.Can(string(target)) {
		return forbidden(State(m.fsm.Current()), target)
	}
	return nil
}

// Transition valida y aplica target.
func (m *Machine) Transition(ctx context.Context, target State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.validateLocked(target); err != nil {
		return err
	}
	if err := m.fsm.Event(ctx, string(target)); err != nil {
		var noTransition fsm.NoTransitionError
		if errors.As(err, &noTransition) {
			return nil
		}
		return fmt.Errorf("aplicar transición a %s: %w", target, err)
	}
	return nil
}

// Force fija el estado sin validar. Solo para el apagado de la estación.
func (m *Machine) Force(s State) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fsm.SetState(string(s))
}

func forbidden(from, to State) error {
	return fmt.Errorf("%s -> %s: %w", from, to, domain.ErrStateForbidden)
}
