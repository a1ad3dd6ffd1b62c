package workbench

import (
	"context"

	"github.com/jhoicas/workbench-api/internal/domain/state"
)

// ShutdownReasonKey clave del motivo registrado al cerrar una etapa por apagado.
const ShutdownReasonKey = "motivo_fin"

const shutdownReason = "Sin terminar al iniciar el apagado de la estación"

// Shutdown drena la estación: termina prematuramente la etapa en curso, retira la unidad
// y cierra la sesión. Nunca devuelve error; siempre termina en AwaitLogin sin operario ni unidad.
func (w *Workbench) Shutdown(ctx context.Context) {
	w.opMu.Lock()
	defer w.opMu.Unlock()

	w.log.Info().Msg("secuencia de apagado iniciada")

	if w.machine.Current() == state.ProductionStageOngoing {
		w.log.Warn().Msg("terminando etapa en curso prematuramente por apagado")
		if err := w.endOperation(ctx, EndOperationInput{
			Premature:      true,
			AdditionalInfo: map[string]string{ShutdownReasonKey: shutdownReason},
		}); err != nil {
			w.log.Error().Err(err).Msg("apagado: no se pudo terminar la etapa")
		}
	}

	switch w.machine.Current() {
	case state.UnitAssignedIdling, state.GatherComponents:
		if err := w.removeUnit(ctx); err != nil {
			w.log.Error().Err(err).Msg("apagado: no se pudo retirar la unidad")
		}
	}

	if w.machine.Current() == state.AuthorizedIdling {
		if err := w.logOut(ctx); err != nil {
			w.log.Error().Err(err).Msg("apagado: no se pudo cerrar la sesión")
		}
	}

	w.mu.Lock()
	dirty := w.machine.Current() != state.AwaitLogin || w.employee != nil || w.session != nil
	if dirty {
		w.machine.Force(state.AwaitLogin)
		w.employee = nil
		w.session = nil
	}
	snap := w.snapshotLocked()
	w.mu.Unlock()
	if dirty {
		w.log.Warn().Msg("apagado: estado forzado a AWAIT_LOGIN")
		w.hub.Publish(snap)
	}

	if err := w.WaitBackground(ctx); err != nil {
		w.log.Warn().Err(err).Msg("apagado: notarizaciones pendientes sin terminar")
	}
	w.hub.Close()
	w.log.Info().Msg("secuencia de apagado completa")
}
