package models

import (
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Outcome identifies one of the three mutually exclusive results of a match
type Outcome string

// Outcome values of a three-way market
const (
	OutcomeHome Outcome = "home"
	OutcomeDraw Outcome = "draw"
	OutcomeAway Outcome = "away"
)

// Outcomes returns the outcomes in their fixed presentation order
func Outcomes() []Outcome {
	return []Outcome{OutcomeHome, OutcomeDraw, OutcomeAway}
}

// OutcomeValues holds one number per outcome. Field order is the rendering order.
type OutcomeValues struct {
	Home float64 `json:"home"`
	Draw float64 `json:"draw"`
	Away float64 `json:"away"`
}

// Get returns the value for the given outcome
func (v OutcomeValues) Get(o Outcome) float64 {
	switch o {
	case OutcomeHome:
		return v.Home
	case OutcomeDraw:
		return v.Draw
	case OutcomeAway:
		return v.Away
	}
	return math.NaN()
}

// Map applies fn to every outcome and returns the results
func (v OutcomeValues) Map(fn func(o Outcome, value float64) float64) OutcomeValues {
	return OutcomeValues{
		Home: fn(OutcomeHome, v.Home),
		Draw: fn(OutcomeDraw, v.Draw),
		Away: fn(OutcomeAway, v.Away),
	}
}

// Sum returns the total across outcomes
func (v OutcomeValues) Sum() float64 {
	return v.Home + v.Draw + v.Away
}

// MatchOdds represents the decimal odds quoted for a three-way market
type MatchOdds struct {
	Home float64 `json:"home" validate:"gt=1,finite"`
	Draw float64 `json:"draw" validate:"gt=1,finite"`
	Away float64 `json:"away" validate:"gt=1,finite"`
}

// Values returns the odds as an ordered outcome triple
func (m MatchOdds) Values() OutcomeValues {
	return OutcomeValues{Home: m.Home, Draw: m.Draw, Away: m.Away}
}

// ImpliedProbabilities returns 1/odds for every outcome
func (m MatchOdds) ImpliedProbabilities() OutcomeValues {
	return m.Values().Map(func(_ Outcome, odds float64) float64 {
		return 1.0 / odds
	})
}

// Overround returns the amount by which the implied probabilities exceed 1
func (m MatchOdds) Overround() float64 {
	return m.ImpliedProbabilities().Sum() - 1.0
}

var oddsValidator = newOddsValidator()

func newOddsValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("finite", validateFinite); err != nil {
		panic(fmt.Sprintf("register finite validation: %v", err))
	}
	return v
}

func validateFinite(fl validator.FieldLevel) bool {
	f := fl.Field().Float()
	return !math.IsInf(f, 0) && !math.IsNaN(f)
}

// ParseMatchOdds builds MatchOdds from a raw outcome mapping.
// Keys are checked in home, draw, away order and the first missing one is reported.
// Keys outside the three outcomes are ignored.
func ParseMatchOdds(raw map[string]float64) (MatchOdds, error) {
	for _, o := range Outcomes() {
		if _, ok := raw[string(o)]; !ok {
			return MatchOdds{}, &MissingFieldError{Outcome: o}
		}
	}

	odds := MatchOdds{
		Home: raw[string(OutcomeHome)],
		Draw: raw[string(OutcomeDraw)],
		Away: raw[string(OutcomeAway)],
	}
	if err := odds.Validate(); err != nil {
		return MatchOdds{}, err
	}
	return odds, nil
}

// Validate checks every price is a finite decimal odds value above 1
func (m MatchOdds) Validate() error {
	err := oddsValidator.Struct(m)
	if err == nil {
		return nil
	}
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok || len(validationErrors) == 0 {
		return fmt.Errorf("odds validation failed: %w", err)
	}
	// Report in outcome order regardless of validator traversal order
	failed := make(map[string]bool, len(validationErrors))
	for _, fieldError := range validationErrors {
		failed[fieldError.Field()] = true
	}
	values := m.Values()
	for _, o := range Outcomes() {
		if failed[fieldName(o)] {
			return &InvalidOddsError{Outcome: o, Value: values.Get(o)}
		}
	}
	return fmt.Errorf("odds validation failed: %w", err)
}

func fieldName(o Outcome) string {
	switch o {
	case OutcomeHome:
		return "Home"
	case OutcomeDraw:
		return "Draw"
	default:
		return "Away"
	}
}

// ParseOddsValue parses a textual decimal price such as "8.50"
func ParseOddsValue(s string) (float64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid odds %q: %w", s, err)
	}
	// Prices such as 1.37 have no exact binary form; the nearest float64 is used
	value, _ := d.Float64()
	return value, nil
}
