package metrics

import (
	"bytes"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsRegistry(t *testing.T) {
	// Initialize the registry
	InitRegistry()
	registry := GetRegistry()

	assert.NotNil(t, registry)
	assert.IsType(t, &prometheus.Registry{}, registry)
	assert.Same(t, registry, InitRegistry())
}

func TestRecordEstimation(t *testing.T) {
	InitRegistry()
	before := testutil.ToFloat64(EstimationsTotal.WithLabelValues("success"))

	RecordEstimation(0.0001, 42, 0.0476, 1.09)

	assert.Equal(t, before+1, testutil.ToFloat64(EstimationsTotal.WithLabelValues("success")))
	assert.Equal(t, 0.0476, testutil.ToFloat64(LastOverround))
	assert.Equal(t, 1.09, testutil.ToFloat64(LastExponent))
}

func TestRecordEstimationFailure(t *testing.T) {
	InitRegistry()

	tests := []struct {
		name   string
		reason string
	}{
		{name: "missing field", reason: "missing_field"},
		{name: "invalid odds", reason: "invalid_odds"},
		{name: "calibration", reason: "calibration"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := testutil.ToFloat64(ValidationFailuresTotal.WithLabelValues(tt.reason))
			RecordEstimationFailure(tt.reason)
			assert.Equal(t, before+1, testutil.ToFloat64(ValidationFailuresTotal.WithLabelValues(tt.reason)))
		})
	}
}

func TestRecordCacheLookup(t *testing.T) {
	InitRegistry()
	hits := testutil.ToFloat64(CacheLookupsTotal.WithLabelValues("hit"))
	misses := testutil.ToFloat64(CacheLookupsTotal.WithLabelValues("miss"))

	RecordCacheLookup(true)
	RecordCacheLookup(false)
	RecordCacheLookup(false)

	assert.Equal(t, hits+1, testutil.ToFloat64(CacheLookupsTotal.WithLabelValues("hit")))
	assert.Equal(t, misses+2, testutil.ToFloat64(CacheLookupsTotal.WithLabelValues("miss")))
}

func TestRecordCachedEstimation(t *testing.T) {
	InitRegistry()
	before := testutil.ToFloat64(EstimationsTotal.WithLabelValues("success"))

	RecordCachedEstimation()

	assert.Equal(t, before+1, testutil.ToFloat64(EstimationsTotal.WithLabelValues("success")))
}

func TestRecordSimulation(t *testing.T) {
	InitRegistry()
	before := testutil.ToFloat64(SimulatedMatchesTotal)

	RecordSimulation(1000, 1.5)

	assert.Equal(t, before+1000, testutil.ToFloat64(SimulatedMatchesTotal))
	assert.Equal(t, 1.5, testutil.ToFloat64(LastSimulationDeviation))
}

func TestWriteText(t *testing.T) {
	InitRegistry()
	RecordEstimation(0.0002, 30, 0.05, 1.1)

	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf))
	assert.Contains(t, buf.String(), "odds_estimator_estimations_total")
	assert.Contains(t, buf.String(), "odds_estimator_calibration_iterations_bucket")
}

func BenchmarkRecordEstimation(b *testing.B) {
	InitRegistry()

	for i := 0; i < b.N; i++ {
		RecordEstimation(0.0001, 40, 0.05, 1.1)
	}
}
