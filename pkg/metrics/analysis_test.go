package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestAnalysisCounters(t *testing.T) {
	m := NewAnalysis(prometheus.NewRegistry())

	m.IncOutcome("natal", "free", "success")
	m.IncOutcome("natal", "free", "success")
	m.IncCacheLookup("hit")
	m.IncShared()
	m.ObserveCompute(time.Millisecond)

	require.Equal(t, 2.0, testutil.ToFloat64(m.Outcomes.WithLabelValues("natal", "free", "success")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.CacheLookup.WithLabelValues("hit")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.SharedWaits))
}

func TestNilAnalysisIsNoop(t *testing.T) {
	var m *Analysis
	require.NotPanics(t, func() {
		m.IncOutcome("daily", "premium", "error")
		m.IncCacheLookup("miss")
		m.IncShared()
		m.ObserveCompute(time.Second)
	})
}
