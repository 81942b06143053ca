package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for the query pipeline.
type Metrics struct {
	Requests       *prometheus.CounterVec
	StageDuration  *prometheus.HistogramVec
	RerankOutcomes *prometheus.CounterVec
}

// New registers the collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "search_requests_total",
			Help: "Search requests by retrieval mode and response status.",
		}, []string{"mode", "status"}),
		StageDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "search_stage_duration_seconds",
			Help:    "Wall-clock duration of each pipeline stage.",
			Buckets: prometheus.DefBuckets,
		}, []string{"stage"}),
		RerankOutcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "search_rerank_outcomes_total",
			Help: "Rerank stage outcomes: applied, skipped or failed.",
		}, []string{"outcome"}),
	}
}

// ObserveStage records a stage duration in seconds.
func (m *Metrics) ObserveStage(stage string, seconds float64) {
	if m == nil {
		return
	}
	m.StageDuration.WithLabelValues(stage).Observe(seconds)
}
