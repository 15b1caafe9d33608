// Package logger provides estimation-specific logging.
package logger

import (
	"github.com/sirupsen/logrus"
	"github.com/yourusername/odds-estimator/internal/models"
)

// EstimationLogger provides dedicated logging for odds estimation.
type EstimationLogger struct {
	*logrus.Entry
}

// NewEstimationLogger creates a new estimation logger.
func NewEstimationLogger(baseLogger *logrus.Logger) *EstimationLogger {
	return &EstimationLogger{
		Entry: baseLogger.WithField("component", "estimator"),
	}
}

// LogEstimation logs a completed estimation.
func (el *EstimationLogger) LogEstimation(estimate *models.Estimate, durationMs float64) {
	best, bestExpected := estimate.GetBestExpected()
	el.WithFields(logrus.Fields{
		"estimate_id":            estimate.ID.String(),
		"match":                  estimate.Match,
		"overround":              estimate.Overround,
		"margin_pct":             estimate.GetMargin(),
		"best_outcome":           string(best),
		"best_expected":          bestExpected,
		"exponent":               estimate.Calibration.Exponent,
		"iterations":             estimate.Calibration.Iterations,
		"residual":               estimate.Calibration.Residual,
		"probability_home":       estimate.Probability.Home,
		"probability_draw":       estimate.Probability.Draw,
		"probability_away":       estimate.Probability.Away,
		"estimation_duration_ms": durationMs,
	}).Info("Estimation completed")
}

// LogCacheHit logs an estimate served from cache.
func (el *EstimationLogger) LogCacheHit(match string, odds models.MatchOdds) {
	el.WithFields(logrus.Fields{
		"match":     match,
		"odds_home": odds.Home,
		"odds_draw": odds.Draw,
		"odds_away": odds.Away,
		"cache_hit": true,
	}).Debug("Estimate served from cache")
}

// LogValidationFailure logs rejected odds input.
func (el *EstimationLogger) LogValidationFailure(match, reason string, err error) {
	el.WithFields(logrus.Fields{
		"match":      match,
		"event_type": "validation_failure",
		"reason":     reason,
	}).WithError(err).Warn("Odds rejected")
}

// LogBatchSummary logs the result of a batch run.
func (el *EstimationLogger) LogBatchSummary(total, succeeded, failed int, durationMs float64) {
	el.WithFields(logrus.Fields{
		"matches_total":     total,
		"matches_succeeded": succeeded,
		"matches_failed":    failed,
		"batch_duration_ms": durationMs,
	}).Info("Batch estimation completed")
}

// LogCacheStats logs estimate cache statistics.
func (el *EstimationLogger) LogCacheStats(hits, misses uint64, hitRatio float64, items int) {
	el.WithFields(logrus.Fields{
		"cache_hits":      hits,
		"cache_misses":    misses,
		"cache_hit_ratio": hitRatio,
		"cache_items":     items,
	}).Debug("Estimate cache statistics")
}

// LogSimulation logs a completed monte carlo run against its estimate.
func (el *EstimationLogger) LogSimulation(estimate *models.Estimate, iterations int, seed int64, maxDeviation, durationMs float64) {
	el.WithFields(logrus.Fields{
		"estimate_id":            estimate.ID.String(),
		"match":                  estimate.Match,
		"iterations":             iterations,
		"seed":                   seed,
		"max_deviation":          maxDeviation,
		"simulation_duration_ms": durationMs,
	}).Info("Simulation completed")
}
