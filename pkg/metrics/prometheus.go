package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain repository.Metrics using Prometheus.
type Recorder struct {
	evaluations  *prometheus.CounterVec
	signalLevels *prometheus.CounterVec
	composites   *prometheus.CounterVec
	riskBudget   *prometheus.GaugeVec
	errorsTotal  *prometheus.CounterVec
	latency      *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		evaluations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "volsentry_evaluations_total",
				Help: "Total number of decision-engine evaluations",
			},
			[]string{"symbol"},
		),
		signalLevels: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "volsentry_signal_levels_total",
				Help: "Signal evaluations by signal key and level",
			},
			[]string{"signal", "level"},
		),
		composites: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "volsentry_composites_total",
				Help: "Composite verdicts by name",
			},
			[]string{"composite"},
		),
		riskBudget: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "volsentry_risk_budget_dollars",
				Help: "Last computed risk budget per symbol",
			},
			[]string{"symbol"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "volsentry_errors_total",
				Help: "Total number of collaborator errors",
			},
			[]string{"type"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "volsentry_evaluation_duration_seconds",
				Help:    "Duration of one full pipeline evaluation",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"symbol"},
		),
	}
}

// RecordEvaluation counts one pipeline run and observes its latency.
func (r *Recorder) RecordEvaluation(symbol string, seconds float64) {
	r.evaluations.WithLabelValues(symbol).Inc()
	r.latency.WithLabelValues(symbol).Observe(seconds)
}

// RecordSignalLevel counts one signal evaluation at a level.
func (r *Recorder) RecordSignalLevel(signal, level string) {
	r.signalLevels.WithLabelValues(signal, level).Inc()
}

// RecordComposite counts a composite verdict.
func (r *Recorder) RecordComposite(name string) {
	r.composites.WithLabelValues(name).Inc()
}

// RecordRiskBudget records the last risk budget for a symbol.
func (r *Recorder) RecordRiskBudget(symbol string, budget float64) {
	r.riskBudget.WithLabelValues(symbol).Set(budget)
}

// RecordError records a collaborator error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}
