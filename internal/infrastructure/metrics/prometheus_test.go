package metrics_test

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/workbench-api/internal/domain/entity"
	"github.com/jhoicas/workbench-api/internal/domain/state"
	"github.com/jhoicas/workbench-api/internal/infrastructure/metrics"
)

func TestTransition_ContadorYGaugeDeEstado(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())

	m.Transition(state.AwaitLogin, state.AuthorizedIdling)
	m.Transition(state.AuthorizedIdling, state.UnitAssignedIdling)
	m.Transition(state.AwaitLogin, state.AuthorizedIdling)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Transitions.WithLabelValues("AWAIT_LOGIN", "AUTHORIZED_IDLING")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.State.WithLabelValues("AUTHORIZED_IDLING")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.State.WithLabelValues("UNIT_ASSIGNED_IDLING")))
}

func TestOperationEnded_ObservaDuracion(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	start := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Minute)
	u := &entity.Unit{SchemaID: "bici", OperationStages: []entity.ProductionStage{
		{Name: "ensamble", SessionStartTime: &start, SessionEndTime: &end, Completed: true},
		{Name: "prueba"},
	}}

	m.OperationEnded(u, true)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.OperationsEnded.WithLabelValues("bici", "true")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.StageDuration))
}

func TestExternalFailure_PorServicio(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	m.ExternalFailure("printer")
	m.ExternalFailure("printer")
	m.ExternalFailure("ipfs-gateway")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ExternalFailures.WithLabelValues("printer")))
}
