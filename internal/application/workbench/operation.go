package workbench

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/jhoicas/workbench-api/internal/domain"
	"github.com/jhoicas/workbench-api/internal/domain/entity"
	"github.com/jhoicas/workbench-api/internal/domain/repository"
	"github.com/jhoicas/workbench-api/internal/domain/state"
)

// StartOperation inicia la etapa pendiente a través del servicio de seguimiento.
// Con manual != nil reenvía los datos manuales en lugar de pedir el inicio.
// Un 504 del servicio devuelve *domain.ManualInputNeededError sin cambiar el estado.
func (w *Workbench) StartOperation(ctx context.Context, info map[string]string, manual *ManualInput) error {
	w.opMu.Lock()
	defer w.opMu.Unlock()

	if err := w.machine.Validate(state.ProductionStageOngoing); err != nil {
		return err
	}
	employee, session := w.fields()
	if session == nil {
		return fmt.Errorf("no hay unidad asignada: %w", domain.ErrPrecondition)
	}
	if employee == nil {
		return fmt.Errorf("no hay operario autenticado: %w", domain.ErrPrecondition)
	}
	unit := session.Unit()
	stage := unit.NextPendingStage()
	if stage == nil {
		return fmt.Errorf("unidad %s sin etapas pendientes: %w", unit.InternalID, domain.ErrPrecondition)
	}

	var err error
	if manual != nil {
		w.log.Debug().Str("unit", unit.InternalID).Msg("reenviando entrada manual")
		err = decideManualInput(w.deps.Tracker.ManualInput(ctx, *manual))
	} else {
		err = decideStart(w.deps.Tracker.Start(ctx, StartRequest{
			Schema:         session.Schema(),
			UnitInternalID: unit.InternalID,
			StageName:      stage.Name,
			Workbench:      w.cfg.Number,
		}))
	}
	if err != nil {
		var guidance *domain.ManualInputNeededError
		if !errors.As(err, &guidance) {
			w.deps.Metrics.ExternalFailure(trackerService)
		}
		return err
	}

	if err := w.commit(ctx, state.ProductionStageOngoing, func() {
		// la etapa pendiente se verificó arriba con opMu tomado
		_ = unit.StartStage(employee, info, w.deps.Clock())
	}); err != nil {
		return err
	}
	w.log.Info().Str("unit", unit.InternalID).Str("stage", stage.Name).Msg("etapa iniciada")
	w.deps.Metrics.OperationStarted(unit)
	return nil
}

// EndOperationInput datos de cierre de etapa.
type EndOperationInput struct {
	StageData      map[string]any
	AdditionalInfo map[string]string
	Premature      bool
}

// EndOperation detiene el seguimiento y completa la etapa pendiente.
// La referencia del artefacto se guarda primero en la etapa (operation_stages) y luego
// se persiste la unidad completa sin componentes.
func (w *Workbench) EndOperation(ctx context.Context, in EndOperationInput) error {
	w.opMu.Lock()
	defer w.opMu.Unlock()
	return w.endOperation(ctx, in)
}

func (w *Workbench) endOperation(ctx context.Context, in EndOperationInput) error {
	// GatherComponents -> UnitAssignedIdling es legal pero no cierra ninguna etapa
	if cur := w.machine.Current(); cur != state.ProductionStageOngoing {
		return fmt.Errorf("terminar etapa en %s: %w", cur, domain.ErrStateForbidden)
	}
	if err := w.machine.Validate(state.UnitAssignedIdling); err != nil {
		return err
	}
	_, session := w.fields()
	if session == nil {
		return fmt.Errorf("no hay unidad asignada: %w", domain.ErrPrecondition)
	}
	unit := session.Unit()
	if unit.NextPendingStage() == nil {
		return fmt.Errorf("unidad %s sin etapas pendientes: %w", unit.InternalID, domain.ErrPrecondition)
	}

	result, err := decideStop(w.deps.Tracker.Stop(ctx))
	if err != nil {
		w.deps.Metrics.ExternalFailure(trackerService)
		return err
	}

	if result.ArtifactCID != "" {
		stages := cloneStages(unit.OperationStages)
		pending := pendingIndex(stages)
		artifact := map[string]any{"ipfs_cid": result.ArtifactCID}
		if result.ArtifactLink != "" {
			artifact["ipfs_link"] = result.ArtifactLink
		}
		stages[pending].MergeStageData(artifact)
		if err := w.deps.Units.UpdateField(ctx, unit.UUID, repository.UnitFieldOperationStages, stages); err != nil {
			return fmt.Errorf("guardar etapa de %s: %w", unit.InternalID, err)
		}
		w.mu.Lock()
		unit.OperationStages = stages
		w.mu.Unlock()
	} else {
		w.log.Warn().Str("unit", unit.InternalID).Msg("stop sin referencia de artefacto")
	}

	stageData := maps.Clone(in.StageData)
	if result.Extra != nil {
		if stageData == nil {
			stageData = make(map[string]any, len(result.Extra))
		}
		maps.Copy(stageData, result.Extra)
	}

	w.mu.Lock()
	before := cloneUnitProgress(unit)
	err = unit.EndStage(entity.EndStageInput{
		AdditionalInfo: in.AdditionalInfo,
		StageData:      stageData,
		Premature:      in.Premature,
		At:             w.deps.Clock(),
	})
	w.mu.Unlock()
	if err != nil {
		return err
	}

	if err := w.deps.Units.Save(ctx, unit, false); err != nil {
		w.mu.Lock()
		before.restore(unit)
		w.mu.Unlock()
		return fmt.Errorf("guardar unidad %s: %w", unit.InternalID, err)
	}
	if err := w.commit(ctx, state.UnitAssignedIdling, nil); err != nil {
		return err
	}
	w.log.Info().Str("unit", unit.InternalID).Bool("premature", in.Premature).Msg("etapa finalizada")
	w.deps.Metrics.OperationEnded(unit, in.Premature)
	return nil
}

func pendingIndex(stages []entity.ProductionStage) int {
	idx := -1
	for i, st := range stages {
		if st.Completed {
			continue
		}
		if idx == -1 || st.Number < stages[idx].Number {
			idx = i
		}
	}
	return idx
}

// cloneStages copia las etapas y sus mapas de datos para mutarlas sin afectar la unidad.
func cloneStages(in []entity.ProductionStage) []entity.ProductionStage {
	out := make([]entity.ProductionStage, len(in))
	for i, st := range in {
		st.StageData = maps.Clone(st.StageData)
		st.AdditionalInfo = maps.Clone(st.AdditionalInfo)
		st.VideoHashes = slices.Clone(st.VideoHashes)
		out[i] = st
	}
	return out
}

// unitProgress copia de lo que EndStage modifica, para deshacer si falla la persistencia.
type unitProgress struct {
	stages []entity.ProductionStage
	status entity.UnitStatus
}

func cloneUnitProgress(u *entity.Unit) unitProgress {
	return unitProgress{stages: cloneStages(u.OperationStages), status: u.Status}
}

func (p unitProgress) restore(u *entity.Unit) {
	u.OperationStages = p.stages
	u.Status = p.status
}
