// Package metrics contadores Prometheus de la estación.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/jhoicas/workbench-api/internal/application/workbench"
	"github.com/jhoicas/workbench-api/internal/domain/entity"
	"github.com/jhoicas/workbench-api/internal/domain/state"
)

var _ workbench.Metrics = (*Prometheus)(nil)

// Prometheus registra las métricas en el registerer recibido.
type Prometheus struct {
	Transitions       *prometheus.CounterVec
	State             *prometheus.GaugeVec
	Logins            prometheus.Counter
	Logouts           prometheus.Counter
	UnitsCreated      *prometheus.CounterVec
	OperationsStarted *prometheus.CounterVec
	OperationsEnded   *prometheus.CounterVec
	StageDuration     *prometheus.HistogramVec
	Passports         prometheus.Counter
	ExternalFailures  *prometheus.CounterVec
}

// New reg nil => prometheus.DefaultRegisterer.
func New(reg prometheus.Registerer) *Prometheus {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Prometheus{
		Transitions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "workbench_state_transitions_total",
			Help: "Transiciones de estado de la estación",
		}, []string{"from", "to"}),
		State: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "workbench_state",
			Help: "1 para el estado actual de la estación",
		}, []string{"state"}),
		Logins: f.NewCounter(prometheus.CounterOpts{
			Name: "workbench_logins_total",
			Help: "Inicios de sesión de operarios",
		}),
		Logouts: f.NewCounter(prometheus.CounterOpts{
			Name: "workbench_logouts_total",
			Help: "Cierres de sesión de operarios",
		}),
		UnitsCreated: f.NewCounterVec(prometheus.CounterOpts{
			Name: "workbench_units_created_total",
			Help: "Unidades creadas por esquema",
		}, []string{"schema_id"}),
		OperationsStarted: f.NewCounterVec(prometheus.CounterOpts{
			Name: "workbench_operations_started_total",
			Help: "Etapas iniciadas por esquema",
		}, []string{"schema_id"}),
		OperationsEnded: f.NewCounterVec(prometheus.CounterOpts{
			Name: "workbench_operations_ended_total",
			Help: "Etapas terminadas por esquema",
		}, []string{"schema_id", "premature"}),
		StageDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "workbench_stage_duration_seconds",
			Help:    "Duración de cada etapa terminada",
			Buckets: []float64{30, 60, 120, 300, 600, 1200, 1800, 3600},
		}, []string{"stage"}),
		Passports: f.NewCounter(prometheus.CounterOpts{
			Name: "workbench_passports_generated_total",
			Help: "Pasaportes publicados",
		}),
		ExternalFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "workbench_external_failures_total",
			Help: "Fallos de colaboradores externos",
		}, []string{"service"}),
	}
}

func (p *Prometheus) Transition(from, to state.State) {
	p.Transitions.WithLabelValues(string(from), string(to)).Inc()
	for _, s := range state.States() {
		v := 0.0
		if s == to {
			v = 1
		}
		p.State.WithLabelValues(string(s)).Set(v)
	}
}

func (p *Prometheus) LoggedIn(*entity.Employee)  { p.Logins.Inc() }
func (p *Prometheus) LoggedOut(*entity.Employee) { p.Logouts.Inc() }

func (p *Prometheus) UnitCreated(u *entity.Unit) {
	p.UnitsCreated.WithLabelValues(u.SchemaID).Inc()
}

func (p *Prometheus) OperationStarted(u *entity.Unit) {
	p.OperationsStarted.WithLabelValues(u.SchemaID).Inc()
}

// OperationEnded cuenta la etapa y observa la duración de la última etapa cerrada.
func (p *Prometheus) OperationEnded(u *entity.Unit, premature bool) {
	p.OperationsEnded.WithLabelValues(u.SchemaID, strconv.FormatBool(premature)).Inc()
	if st := lastClosed(u); st != nil {
		p.StageDuration.WithLabelValues(st.Name).Observe(st.SessionEndTime.Sub(*st.SessionStartTime).Seconds())
	}
}

func (p *Prometheus) PassportGenerated(*entity.Unit) { p.Passports.Inc() }

func (p *Prometheus) ExternalFailure(service string) {
	p.ExternalFailures.WithLabelValues(service).Inc()
}

func lastClosed(u *entity.Unit) *entity.ProductionStage {
	var last *entity.ProductionStage
	for i := range u.OperationStages {
		st := &u.OperationStages[i]
		if st.SessionStartTime == nil || st.SessionEndTime == nil {
			continue
		}
		if last == nil || st.SessionEndTime.After(*last.SessionEndTime) {
			last = st
		}
	}
	return last
}
