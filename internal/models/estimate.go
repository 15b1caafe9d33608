package models

import (
	"time"

	"github.com/google/uuid"
)

// Calibration describes how the power exponent was found
type Calibration struct {
	Exponent   float64    `json:"exponent"`
	Residual   float64    `json:"residual"`
	Iterations int        `json:"iterations"`
	FuncEvals  int        `json:"func_evals"`
	Bracket    [3]float64 `json:"bracket"`
}

// Estimate is the full result of estimating a single three-way market
type Estimate struct {
	ID          uuid.UUID     `json:"id"`
	Match       string        `json:"match,omitempty"`
	Odds        OutcomeValues `json:"odds"`
	Overround   float64       `json:"overround"`
	Probability OutcomeValues `json:"probability"`
	Expected    OutcomeValues `json:"expected"`
	Variance    OutcomeValues `json:"variance"`
	FairOdds    OutcomeValues `json:"fair_odds"`
	Calibration Calibration   `json:"calibration"`
	ComputedAt  time.Time     `json:"computed_at"`
}

// GetMargin returns the bookmaker margin as a percentage
func (e *Estimate) GetMargin() float64 {
	return e.Overround * 100
}

// GetBestExpected returns the outcome with the highest expected return per unit stake
func (e *Estimate) GetBestExpected() (Outcome, float64) {
	best := OutcomeHome
	bestValue := e.Expected.Home
	for _, o := range Outcomes()[1:] {
		if v := e.Expected.Get(o); v > bestValue {
			best = o
			bestValue = v
		}
	}
	return best, bestValue
}
