package simulation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/odds-estimator/internal/estimator"
	"github.com/yourusername/odds-estimator/internal/models"
)

type fixedMarket struct {
	odds        models.OutcomeValues
	probability models.OutcomeValues
}

func (m fixedMarket) Odds() models.OutcomeValues        { return m.odds }
func (m fixedMarket) Probability() models.OutcomeValues { return m.probability }

func TestRunMonteCarloDeterministic(t *testing.T) {
	market := fixedMarket{
		odds:        models.OutcomeValues{Home: 2, Draw: 4, Away: 4},
		probability: models.OutcomeValues{Home: 0.5, Draw: 0.25, Away: 0.25},
	}
	cfg := MonteCarloConfig{Iterations: 1000, Seed: 42}

	first, err := RunMonteCarlo(context.Background(), market, cfg)
	require.NoError(t, err)
	second, err := RunMonteCarlo(context.Background(), market, cfg)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1000, first.Iterations)
	assert.Equal(t, int64(42), first.Seed)
	assert.InDelta(t, 1.0, first.Frequency.Sum(), 1e-12)
}

func TestRunMonteCarloMatchesEstimator(t *testing.T) {
	e, err := estimator.New(map[string]float64{"home": 8.50, "draw": 5.00, "away": 1.37})
	require.NoError(t, err)

	result, err := RunMonteCarlo(context.Background(), e, MonteCarloConfig{Iterations: 200000, Seed: 7})
	require.NoError(t, err)

	for _, o := range models.Outcomes() {
		assert.InDelta(t, e.Probability().Get(o), result.Frequency.Get(o), 0.006, o)
		assert.InDelta(t, e.Variance().Get(o), result.Variance.Get(o), 0.006, o)
		assert.Less(t, result.Deviation(e.Expected()).Get(o), 5.0, o)
		assert.Greater(t, result.StandardError.Get(o), 0.0, o)
	}
}

func TestRunMonteCarloDefaults(t *testing.T) {
	market := fixedMarket{
		odds:        models.OutcomeValues{Home: 3, Draw: 3, Away: 3},
		probability: models.OutcomeValues{Home: 1.0 / 3, Draw: 1.0 / 3, Away: 1.0 / 3},
	}

	result, err := RunMonteCarlo(context.Background(), market, MonteCarloConfig{})
	require.NoError(t, err)
	assert.Equal(t, defaultIterations, result.Iterations)
	assert.NotZero(t, result.Seed)
}

func TestRunMonteCarloCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	market := fixedMarket{
		odds:        models.OutcomeValues{Home: 2, Draw: 4, Away: 4},
		probability: models.OutcomeValues{Home: 0.5, Draw: 0.25, Away: 0.25},
	}
	_, err := RunMonteCarlo(ctx, market, MonteCarloConfig{Iterations: 100, Seed: 1})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDeviationZeroStandardError(t *testing.T) {
	result := MonteCarloResult{
		MeanReturn:    models.OutcomeValues{Home: 2, Draw: 0, Away: 0},
		StandardError: models.OutcomeValues{},
	}
	assert.Equal(t, models.OutcomeValues{}, result.Deviation(models.OutcomeValues{Home: 1}))
}
