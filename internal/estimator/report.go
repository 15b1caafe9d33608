package estimator

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/yourusername/odds-estimator/internal/models"
)

const (
	probabilitiesTitle = "Probabilities"
	expectedGainsTitle = "Expected gains"
	variancesTitle     = "Variances"
	sectionIndent      = "    "
)

// WriteProbabilities renders the probability section
func (e *ProbabilityEstimator) WriteProbabilities(w io.Writer) error {
	return WriteSection(w, probabilitiesTitle, e.probability)
}

// WriteExpectedGains renders the expected gains section
func (e *ProbabilityEstimator) WriteExpectedGains(w io.Writer) error {
	return WriteSection(w, expectedGainsTitle, e.expected)
}

// WriteVariances renders the variance section
func (e *ProbabilityEstimator) WriteVariances(w io.Writer) error {
	return WriteSection(w, variancesTitle, e.variance)
}

// WriteReport renders all three sections in order
func (e *ProbabilityEstimator) WriteReport(w io.Writer) error {
	if err := e.WriteProbabilities(w); err != nil {
		return err
	}
	if err := e.WriteExpectedGains(w); err != nil {
		return err
	}
	return e.WriteVariances(w)
}

// WriteSection renders a titled block of per-outcome values as indented JSON
func WriteSection(w io.Writer, title string, values models.OutcomeValues) error {
	data, err := json.MarshalIndent(values, "", sectionIndent)
	if err != nil {
		return fmt.Errorf("failed to render %s: %w", title, err)
	}
	if _, err := fmt.Fprintf(w, "\n%s\n%s\n", title, data); err != nil {
		return fmt.Errorf("failed to write %s: %w", title, err)
	}
	return nil
}

// Summary collects every derived statistic into a new Estimate record
func (e *ProbabilityEstimator) Summary(match string) *models.Estimate {
	return &models.Estimate{
		ID:          uuid.New(),
		Match:       match,
		Odds:        e.Odds(),
		Overround:   e.Overround(),
		Probability: e.probability,
		Expected:    e.expected,
		Variance:    e.variance,
		FairOdds:    e.FairOdds(),
		Calibration: e.calibration,
		ComputedAt:  time.Now().UTC(),
	}
}
