package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/odds-estimator/internal/config"
	"github.com/yourusername/odds-estimator/internal/estimator"
	"github.com/yourusername/odds-estimator/internal/logger"
	"github.com/yourusername/odds-estimator/internal/metrics"
	"github.com/yourusername/odds-estimator/internal/models"
	"github.com/yourusername/odds-estimator/internal/optimize"
	"github.com/yourusername/odds-estimator/internal/simulation"
)

// Failure reasons reported to metrics and logs
const (
	reasonMissingField = "missing_field"
	reasonInvalidOdds  = "invalid_odds"
	reasonCalibration  = "calibration"
)

// Result pairs a calibrated estimator with its summary record
type Result struct {
	Estimator *estimator.ProbabilityEstimator
	Estimate  *models.Estimate
	Cached    bool
}

// SimulationResult pairs an estimate with its monte carlo replay
type SimulationResult struct {
	*Result
	Simulation simulation.MonteCarloResult
	Deviation  models.OutcomeValues
}

// BatchResult is the outcome of one match within a batch
type BatchResult struct {
	Match  string
	Result *Result
	Err    error
}

// EstimationService runs estimations with caching, logging and metrics
type EstimationService struct {
	solver     optimize.Settings
	simulation simulation.MonteCarloConfig
	cache      *EstimateCache
	logger     *logger.EstimationLogger
}

// NewEstimationService creates a service from configuration
func NewEstimationService(cfg *config.Config, log *logrus.Logger) *EstimationService {
	metrics.InitRegistry()

	s := &EstimationService{
		solver:     cfg.SolverSettings(),
		simulation: cfg.MonteCarloConfig(),
		logger:     logger.NewEstimationLogger(log),
	}
	if cfg.Cache.Enabled {
		s.cache = NewEstimateCache(cfg.CacheTTL(), cfg.Cache.MaxSize)
	}
	return s
}

// Cache returns the estimate cache, or nil when caching is disabled
func (s *EstimationService) Cache() *EstimateCache {
	return s.cache
}

// Estimate validates the odds of a single market and estimates it
func (s *EstimationService) Estimate(ctx context.Context, match string, odds map[string]float64) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	matchOdds, err := models.ParseMatchOdds(odds)
	if err != nil {
		s.recordFailure(match, err)
		return nil, err
	}

	if s.cache != nil {
		cached, hit := s.cache.Get(NewCacheKey(matchOdds))
		metrics.RecordCacheLookup(hit)
		if hit {
			metrics.RecordCachedEstimation()
			s.logger.LogCacheHit(match, matchOdds)
			return &Result{Estimator: cached, Estimate: cached.Summary(match), Cached: true}, nil
		}
	}

	start := time.Now()
	e, err := estimator.New(odds, estimator.WithSolver(s.solver))
	if err != nil {
		s.recordFailure(match, err)
		return nil, fmt.Errorf("failed to estimate %s: %w", match, err)
	}
	elapsed := time.Since(start)

	estimate := e.Summary(match)
	metrics.RecordEstimation(elapsed.Seconds(), estimate.Calibration.Iterations, estimate.Overround, estimate.Calibration.Exponent)
	s.logger.LogEstimation(estimate, float64(elapsed.Microseconds())/1000)

	if s.cache != nil {
		s.cache.Set(NewCacheKey(matchOdds), e)
	}
	return &Result{Estimator: e, Estimate: estimate}, nil
}

// EstimateBatch estimates every match in order. A failing match does not
// stop the batch; cancellation marks the remaining matches with ctx.Err().
func (s *EstimationService) EstimateBatch(ctx context.Context, matches []config.MatchConfig) []BatchResult {
	start := time.Now()
	results := make([]BatchResult, 0, len(matches))
	failed := 0

	for _, match := range matches {
		result, err := s.Estimate(ctx, match.Name, match.Odds)
		if err != nil {
			failed++
		}
		results = append(results, BatchResult{Match: match.Name, Result: result, Err: err})
	}

	s.logger.LogBatchSummary(len(matches), len(matches)-failed, failed, float64(time.Since(start).Microseconds())/1000)
	if s.cache != nil {
		hits, misses, ratio := s.cache.Stats()
		s.logger.LogCacheStats(hits, misses, ratio, s.cache.ItemCount())
	}
	return results
}

// Simulate estimates a market and replays it with monte carlo draws.
// Zero fields in override fall back to the configured simulation settings.
func (s *EstimationService) Simulate(ctx context.Context, match string, odds map[string]float64, override simulation.MonteCarloConfig) (*SimulationResult, error) {
	result, err := s.Estimate(ctx, match, odds)
	if err != nil {
		return nil, err
	}

	cfg := s.simulation
	if override.Iterations > 0 {
		cfg.Iterations = override.Iterations
	}
	if override.Seed != 0 {
		cfg.Seed = override.Seed
	}

	start := time.Now()
	sim, err := simulation.RunMonteCarlo(ctx, result.Estimator, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to simulate %s: %w", match, err)
	}

	deviation := sim.Deviation(result.Estimator.Expected())
	maxDeviation := math.Max(deviation.Home, math.Max(deviation.Draw, deviation.Away))
	metrics.RecordSimulation(sim.Iterations, maxDeviation)
	s.logger.LogSimulation(result.Estimate, sim.Iterations, sim.Seed, maxDeviation, float64(time.Since(start).Microseconds())/1000)

	return &SimulationResult{Result: result, Simulation: sim, Deviation: deviation}, nil
}

func (s *EstimationService) recordFailure(match string, err error) {
	reason := failureReason(err)
	metrics.RecordEstimationFailure(reason)
	s.logger.LogValidationFailure(match, reason, err)
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, models.ErrMissingField):
		return reasonMissingField
	case errors.Is(err, models.ErrInvalidOdds):
		return reasonInvalidOdds
	default:
		return reasonCalibration
	}
}
