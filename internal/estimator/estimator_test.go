package estimator

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/odds-estimator/internal/models"
	"github.com/yourusername/odds-estimator/internal/optimize"
)

const tolerance = 1e-6

func exampleOdds() map[string]float64 {
	return map[string]float64{
		"home": 8.50,
		"draw": 5.00,
		"away": 1.37,
	}
}

func TestNewMissingField(t *testing.T) {
	for _, outcome := range models.Outcomes() {
		t.Run(string(outcome), func(t *testing.T) {
			odds := exampleOdds()
			delete(odds, string(outcome))

			e, err := New(odds)
			require.Error(t, err)
			assert.Nil(t, e)

			var missing *models.MissingFieldError
			require.True(t, errors.As(err, &missing))
			assert.Equal(t, outcome, missing.Outcome)
		})
	}
}

func TestNewInvalidOdds(t *testing.T) {
	odds := exampleOdds()
	odds["draw"] = 0.9

	e, err := New(odds)
	require.Error(t, err)
	assert.Nil(t, e)
	assert.ErrorIs(t, err, models.ErrInvalidOdds)
}

func TestProbabilityNormalization(t *testing.T) {
	e, err := New(exampleOdds())
	require.NoError(t, err)

	probability := e.Probability()
	for _, o := range models.Outcomes() {
		p := probability.Get(o)
		assert.Greater(t, p, 0.0, o)
		assert.Less(t, p, 1.0, o)
	}
	assert.InDelta(t, 1.0, probability.Sum(), tolerance)
	assert.InDelta(t, 0.1030723951, probability.Home, tolerance)
	assert.InDelta(t, 0.1810644483, probability.Draw, tolerance)
	assert.InDelta(t, 0.7158631566, probability.Away, tolerance)

	// Power method keeps the ordering of implied probabilities
	assert.Greater(t, probability.Away, probability.Draw)
	assert.Greater(t, probability.Draw, probability.Home)
}

func TestMarginRemovalRaisesExponent(t *testing.T) {
	e, err := New(exampleOdds())
	require.NoError(t, err)

	// With a positive overround the implied probabilities must shrink, so k > 1
	assert.Greater(t, e.Overround(), 0.0)
	assert.Greater(t, e.Exponent(), 1.0)
	assert.InDelta(t, 1.0618006634, e.Exponent(), 1e-6)
	assert.Less(t, e.Calibration().Residual, 1e-12)
	assert.Greater(t, e.Calibration().Iterations, 0)
}

func TestExpectedIdentity(t *testing.T) {
	inputs := []map[string]float64{
		exampleOdds(),
		{"home": 2.10, "draw": 3.40, "away": 3.60},
		{"home": 1.05, "draw": 15.0, "away": 41.0},
	}

	for _, odds := range inputs {
		e, err := New(odds)
		require.NoError(t, err)
		for _, o := range models.Outcomes() {
			assert.Equal(t, e.Probability().Get(o)*odds[string(o)], e.Expected().Get(o))
		}
	}
}

func TestVarianceIdentity(t *testing.T) {
	e, err := New(exampleOdds())
	require.NoError(t, err)

	for _, o := range models.Outcomes() {
		p := e.Probability().Get(o)
		assert.Equal(t, p*(1-p), e.Variance().Get(o))
		assert.LessOrEqual(t, e.Variance().Get(o), 0.25)
	}
}

func TestFairMarket(t *testing.T) {
	odds := map[string]float64{"home": 3.0, "draw": 3.0, "away": 3.0}
	e, err := New(odds)
	require.NoError(t, err)

	assert.InDelta(t, 1.0, e.Exponent(), tolerance)
	for _, o := range models.Outcomes() {
		assert.InDelta(t, 1/odds[string(o)], e.Probability().Get(o), tolerance)
		assert.InDelta(t, 1.0, e.Expected().Get(o), tolerance)
		assert.InDelta(t, 3.0, e.FairOdds().Get(o), 1e-5)
	}
}

func TestWithSolverSettings(t *testing.T) {
	settings := optimize.DefaultSettings()
	settings.Tolerance = 1e-4

	coarse, err := New(exampleOdds(), WithSolver(settings))
	require.NoError(t, err)
	fine, err := New(exampleOdds())
	require.NoError(t, err)

	assert.Less(t, coarse.Calibration().Iterations, fine.Calibration().Iterations)
	assert.InDelta(t, fine.Exponent(), coarse.Exponent(), 1e-3)
}

func TestWriteReportFormat(t *testing.T) {
	e, err := New(map[string]float64{"home": 3.0, "draw": 3.0, "away": 3.0})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, e.WriteReport(&buf))
	out := buf.String()

	require.True(t, strings.HasPrefix(out, "\nProbabilities\n{\n    \"home\": "))
	probIdx := strings.Index(out, "Probabilities")
	expIdx := strings.Index(out, "Expected gains")
	varIdx := strings.Index(out, "Variances")
	assert.True(t, probIdx < expIdx && expIdx < varIdx)

	section := out[:expIdx]
	assert.True(t, strings.Index(section, "home") < strings.Index(section, "draw"))
	assert.True(t, strings.Index(section, "draw") < strings.Index(section, "away"))
}

func TestWriteSectionsContainValues(t *testing.T) {
	e, err := New(exampleOdds())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, e.WriteVariances(&buf))

	lines := strings.SplitN(buf.String(), "\n", 3)
	require.Len(t, lines, 3)
	assert.Equal(t, "Variances", lines[1])

	var decoded models.OutcomeValues
	require.NoError(t, json.Unmarshal([]byte(lines[2]), &decoded))
	assert.Equal(t, e.Variance(), decoded)
}

func TestPresentationIsIdempotent(t *testing.T) {
	e, err := New(exampleOdds())
	require.NoError(t, err)

	before := e.Summary("")
	var first, second bytes.Buffer
	require.NoError(t, e.WriteReport(&first))
	require.NoError(t, e.WriteProbabilities(&second))
	second.Reset()
	require.NoError(t, e.WriteReport(&second))

	assert.Equal(t, first.String(), second.String())
	after := e.Summary("")
	assert.Equal(t, before.Probability, after.Probability)
	assert.Equal(t, before.Expected, after.Expected)
	assert.Equal(t, before.Variance, after.Variance)
}

func TestSummary(t *testing.T) {
	e, err := New(exampleOdds())
	require.NoError(t, err)

	summary := e.Summary("Away Town v Home FC")
	assert.NotEqual(t, summary.ID, e.Summary("").ID)
	assert.Equal(t, "Away Town v Home FC", summary.Match)
	assert.Equal(t, models.OutcomeValues{Home: 8.5, Draw: 5.0, Away: 1.37}, summary.Odds)
	assert.Equal(t, e.Exponent(), summary.Calibration.Exponent)
	assert.InDelta(t, e.Overround(), summary.Overround, 1e-15)
	assert.False(t, summary.ComputedAt.IsZero())
}
