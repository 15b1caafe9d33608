// Package metrics provides the centralized Prometheus metrics registry for the estimator.
package metrics

import (
	"fmt"
	"io"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	EstimationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "odds_estimator",
		Name:      "estimations_total",
		Help:      "Total number of estimations by status",
	}, []string{"status"})
	ValidationFailuresTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "odds_estimator",
		Name:      "validation_failures_total",
		Help:      "Total number of rejected odds inputs by reason",
	}, []string{"reason"})
	CacheLookupsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "odds_estimator",
		Name:      "cache_lookups_total",
		Help:      "Total number of estimate cache lookups by result",
	}, []string{"result"})
	SimulatedMatchesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "odds_estimator",
		Name:      "simulated_matches_total",
		Help:      "Total number of match results drawn by monte carlo simulation",
	})
)

// Gauge metrics
var (
	LastOverround = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "odds_estimator",
		Name:      "last_overround",
		Help:      "Bookmaker overround of the most recently estimated market",
	})
	LastExponent = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "odds_estimator",
		Name:      "last_exponent",
		Help:      "Calibrated power exponent of the most recently estimated market",
	})
	LastSimulationDeviation = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "odds_estimator",
		Name:      "last_simulation_deviation",
		Help:      "Largest distance in standard errors between simulated and expected returns",
	})
)

// Histogram metrics
var (
	CalibrationIterations = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "odds_estimator",
		Name:      "calibration_iterations",
		Help:      "Golden-section iterations needed to calibrate the power exponent",
		Buckets:   []float64{10, 20, 30, 40, 50, 75, 100, 250, 1000, 5000},
	})
	EstimationDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "odds_estimator",
		Name:      "estimation_duration_seconds",
		Help:      "Duration of single market estimations in seconds",
		Buckets:   []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01},
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		// Register counter metrics
		registry.MustRegister(EstimationsTotal)
		registry.MustRegister(ValidationFailuresTotal)
		registry.MustRegister(CacheLookupsTotal)
		registry.MustRegister(SimulatedMatchesTotal)

		// Register gauge metrics
		registry.MustRegister(LastOverround)
		registry.MustRegister(LastExponent)
		registry.MustRegister(LastSimulationDeviation)

		// Register histogram metrics
		registry.MustRegister(CalibrationIterations)
		registry.MustRegister(EstimationDuration)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// WriteText dumps every registered metric in the Prometheus text format.
func WriteText(w io.Writer) error {
	families, err := GetRegistry().Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("failed to write metric %s: %w", mf.GetName(), err)
		}
	}
	return nil
}

// RecordEstimation records a successful estimation.
func RecordEstimation(durationSeconds float64, iterations int, overround, exponent float64) {
	EstimationsTotal.WithLabelValues("success").Inc()
	EstimationDuration.Observe(durationSeconds)
	CalibrationIterations.Observe(float64(iterations))
	LastOverround.Set(overround)
	LastExponent.Set(exponent)
}

// RecordCachedEstimation records a successful estimation served from cache.
func RecordCachedEstimation() {
	EstimationsTotal.WithLabelValues("success").Inc()
}

// RecordEstimationFailure records a failed estimation.
// reason should be one of: "missing_field", "invalid_odds", "calibration"
func RecordEstimationFailure(reason string) {
	EstimationsTotal.WithLabelValues("failure").Inc()
	ValidationFailuresTotal.WithLabelValues(reason).Inc()
}

// RecordCacheLookup records a cache hit or miss.
func RecordCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	CacheLookupsTotal.WithLabelValues(result).Inc()
}

// RecordSimulation records a completed monte carlo run.
func RecordSimulation(iterations int, maxDeviation float64) {
	SimulatedMatchesTotal.Add(float64(iterations))
	LastSimulationDeviation.Set(maxDeviation)
}
