// Package estimator derives outcome probabilities, expected returns and
// variances from the decimal odds of a three-way market.
package estimator

import (
	"fmt"
	"math"

	"github.com/yourusername/odds-estimator/internal/models"
	"github.com/yourusername/odds-estimator/internal/optimize"
)

// ProbabilityEstimator holds the calibrated statistics of one market.
// All values are computed by New and never change afterwards.
type ProbabilityEstimator struct {
	odds        models.MatchOdds
	implied     models.OutcomeValues
	probability models.OutcomeValues
	expected    models.OutcomeValues
	variance    models.OutcomeValues
	calibration models.Calibration
}

// Option configures estimator construction
type Option func(*options)

type options struct {
	solver optimize.Settings
}

// WithSolver overrides the golden-section search settings
func WithSolver(settings optimize.Settings) Option {
	return func(o *options) {
		o.solver = settings
	}
}

// New validates the odds and estimates probability, expected return and variance.
func New(odds map[string]float64, opts ...Option) (*ProbabilityEstimator, error) {
	o := options{solver: optimize.DefaultSettings()}
	for _, opt := range opts {
		opt(&o)
	}

	matchOdds, err := models.ParseMatchOdds(odds)
	if err != nil {
		return nil, err
	}

	e := &ProbabilityEstimator{
		odds:    matchOdds,
		implied: matchOdds.ImpliedProbabilities(),
	}
	if err := e.estimateProbability(o.solver); err != nil {
		return nil, err
	}
	e.estimateExpected()
	e.estimateVariance()
	return e, nil
}

// estimateProbability applies the power method: find k such that the
// implied probabilities raised to k sum to one.
func (e *ProbabilityEstimator) estimateProbability(settings optimize.Settings) error {
	inv := e.implied
	residual := func(k float64) float64 {
		r := 1 - (math.Pow(inv.Home, k) + math.Pow(inv.Draw, k) + math.Pow(inv.Away, k))
		return r * r
	}

	result, err := optimize.Golden(residual, settings)
	if err != nil {
		return fmt.Errorf("failed to calibrate power exponent: %w", err)
	}

	k := result.X
	e.probability = inv.Map(func(_ models.Outcome, p float64) float64 {
		return math.Pow(p, k)
	})
	e.calibration = models.Calibration{
		Exponent:   k,
		Residual:   result.F,
		Iterations: result.Iterations,
		FuncEvals:  result.FuncEvals,
		Bracket:    [3]float64{result.Bracket.A, result.Bracket.B, result.Bracket.C},
	}
	return nil
}

func (e *ProbabilityEstimator) estimateExpected() {
	e.expected = e.probability.Map(func(o models.Outcome, p float64) float64 {
		return p * e.odds.Values().Get(o)
	})
}

// estimateVariance treats each outcome as a Bernoulli trial
func (e *ProbabilityEstimator) estimateVariance() {
	e.variance = e.probability.Map(func(_ models.Outcome, p float64) float64 {
		return p * (1 - p)
	})
}

// Odds returns the validated input odds
func (e *ProbabilityEstimator) Odds() models.OutcomeValues {
	return e.odds.Values()
}

// Probability returns the calibrated probability of each outcome
func (e *ProbabilityEstimator) Probability() models.OutcomeValues {
	return e.probability
}

// Expected returns the expected payout per unit stake of each outcome
func (e *ProbabilityEstimator) Expected() models.OutcomeValues {
	return e.expected
}

// Variance returns the Bernoulli variance of each outcome
func (e *ProbabilityEstimator) Variance() models.OutcomeValues {
	return e.variance
}

// FairOdds returns the margin-free decimal odds, 1/probability
func (e *ProbabilityEstimator) FairOdds() models.OutcomeValues {
	return e.probability.Map(func(_ models.Outcome, p float64) float64 {
		return 1 / p
	})
}

// Exponent returns the calibrated power exponent k
func (e *ProbabilityEstimator) Exponent() float64 {
	return e.calibration.Exponent
}

// Overround returns the bookmaker margin implied by the input odds
func (e *ProbabilityEstimator) Overround() float64 {
	return e.odds.Overround()
}

// Calibration returns details of the exponent search
func (e *ProbabilityEstimator) Calibration() models.Calibration {
	return e.calibration
}
