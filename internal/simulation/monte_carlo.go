// Package simulation replays calibrated markets to check derived statistics empirically.
package simulation

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/yourusername/odds-estimator/internal/models"
)

const (
	defaultIterations = 10000
	cancelCheckEvery  = 4096
)

// Market is a calibrated three-way market
type Market interface {
	Odds() models.OutcomeValues
	Probability() models.OutcomeValues
}

// MonteCarloConfig configures monte carlo simulation
type MonteCarloConfig struct {
	Iterations int
	Seed       int64
}

// MonteCarloResult represents simulated outcome statistics. Returns are per
// unit stake placed on each outcome in every iteration.
type MonteCarloResult struct {
	Iterations    int                  `json:"iterations"`
	Seed          int64                `json:"seed"`
	Frequency     models.OutcomeValues `json:"frequency"`
	MeanReturn    models.OutcomeValues `json:"mean_return"`
	Variance      models.OutcomeValues `json:"variance"`
	StandardError models.OutcomeValues `json:"standard_error"`
}

// RunMonteCarlo draws match results from the market's calibrated probabilities
func RunMonteCarlo(ctx context.Context, market Market, cfg MonteCarloConfig) (MonteCarloResult, error) {
	if cfg.Iterations <= 0 {
		cfg.Iterations = defaultIterations
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	rng := rand.New(rand.NewSource(seed))
	probability := market.Probability()
	homeUpper := probability.Home
	drawUpper := probability.Home + probability.Draw

	var wins [3]int
	for i := 0; i < cfg.Iterations; i++ {
		if i%cancelCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return MonteCarloResult{}, fmt.Errorf("simulation cancelled after %d iterations: %w", i, err)
			}
		}
		// Away absorbs any residual left by the calibration
		u := rng.Float64()
		switch {
		case u < homeUpper:
			wins[0]++
		case u < drawUpper:
			wins[1]++
		default:
			wins[2]++
		}
	}

	n := float64(cfg.Iterations)
	frequency := models.OutcomeValues{
		Home: float64(wins[0]) / n,
		Draw: float64(wins[1]) / n,
		Away: float64(wins[2]) / n,
	}
	odds := market.Odds()

	return MonteCarloResult{
		Iterations: cfg.Iterations,
		Seed:       seed,
		Frequency:  frequency,
		MeanReturn: frequency.Map(func(o models.Outcome, f float64) float64 {
			return f * odds.Get(o)
		}),
		Variance: frequency.Map(func(_ models.Outcome, f float64) float64 {
			return f * (1 - f)
		}),
		StandardError: frequency.Map(func(o models.Outcome, f float64) float64 {
			return odds.Get(o) * math.Sqrt(f*(1-f)/n)
		}),
	}, nil
}

// Deviation returns how many standard errors each simulated mean return lies
// from the given expected returns
func (m MonteCarloResult) Deviation(expected models.OutcomeValues) models.OutcomeValues {
	return m.MeanReturn.Map(func(o models.Outcome, mean float64) float64 {
		se := m.StandardError.Get(o)
		if se == 0 {
			return 0
		}
		return math.Abs(mean-expected.Get(o)) / se
	})
}
