package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Analysis captures orchestrator level counters. A nil *Analysis is a no-op.
type Analysis struct {
	Outcomes    *prometheus.CounterVec
	CacheLookup *prometheus.CounterVec
	SharedWaits prometheus.Counter
	Compute     prometheus.Histogram
}

// NewAnalysis registers the analysis collectors on reg.
func NewAnalysis(reg prometheus.Registerer) *Analysis {
	factory := promauto.With(reg)
	return &Analysis{
		Outcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "destiny_analyses_total",
			Help: "Completed analysis requests by type, tier and outcome",
		}, []string{"type", "tier", "outcome"}),
		CacheLookup: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "destiny_cache_lookups_total",
			Help: "Result cache lookups by result",
		}, []string{"result"}), // hit, miss, error
		SharedWaits: factory.NewCounter(prometheus.CounterOpts{
			Name: "destiny_shared_computations_total",
			Help: "Requests that attached to an in-flight computation",
		}),
		Compute: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "destiny_compute_duration_seconds",
			Help:    "Duration of a full engine computation",
			Buckets: []float64{0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.05},
		}),
	}
}

// IncOutcome records a finished request.
func (m *Analysis) IncOutcome(analysisType, tier, outcome string) {
	if m != nil {
		m.Outcomes.WithLabelValues(analysisType, tier, outcome).Inc()
	}
}

// IncCacheLookup records the outcome of a cache read.
func (m *Analysis) IncCacheLookup(result string) {
	if m != nil {
		m.CacheLookup.WithLabelValues(result).Inc()
	}
}

// IncShared records a caller that reused another caller's computation.
func (m *Analysis) IncShared() {
	if m != nil {
		m.SharedWaits.Inc()
	}
}

// ObserveCompute records one engine run.
func (m *Analysis) ObserveCompute(d time.Duration) {
	if m != nil {
		m.Compute.Observe(d.Seconds())
	}
}
