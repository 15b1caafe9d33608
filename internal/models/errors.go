package models

import (
	"errors"
	"fmt"
)

// Custom errors
var (
	ErrMissingField = errors.New("missing odds field")
	ErrInvalidOdds  = errors.New("invalid odds value")
)

// MissingFieldError reports an outcome absent from the supplied odds
type MissingFieldError struct {
	Outcome Outcome
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("the given data does not have the %s odd", e.Outcome)
}

// Is allows errors.Is(err, ErrMissingField)
func (e *MissingFieldError) Is(target error) bool {
	return target == ErrMissingField
}

// InvalidOddsError reports a price that is not a usable decimal odds value
type InvalidOddsError struct {
	Outcome Outcome
	Value   float64
}

func (e *InvalidOddsError) Error() string {
	return fmt.Sprintf("the %s odd must be a finite decimal price above 1, got %v", e.Outcome, e.Value)
}

// Is allows errors.Is(err, ErrInvalidOdds)
func (e *InvalidOddsError) Is(target error) bool {
	return target == ErrInvalidOdds
}
