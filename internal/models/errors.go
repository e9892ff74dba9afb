// ABOUTME: Typed errors shared by the aggregate maintainer and metric resolvers.
// ABOUTME: Malformed numbers fail loudly as ComputationError instead of becoming zero.
package models

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrComputation matches every *ComputationError via errors.Is.
	ErrComputation = errors.New("computation failure")

	// ErrTotalsMismatch is returned when a meal's totals disagree with its items.
	ErrTotalsMismatch = errors.New("meal totals do not match line items")

	// ErrDetailsMismatch is returned when workout details do not fit the workout type.
	ErrDetailsMismatch = errors.New("workout details do not match workout type")

	// ErrInvalidQuality is returned for an ingredient quality outside 1-4.
	ErrInvalidQuality = errors.New("ingredient quality must be 1-4")

	// ErrUnknownWorkoutType is returned for a type tag outside AllWorkoutTypes.
	ErrUnknownWorkoutType = errors.New("unknown workout type")
)

// ComputationError reports a numeric field that cannot take part in a computation.
type ComputationError struct {
	Field  string
	Value  float64
	Reason string
}

func (e *ComputationError) Error() string {
	return fmt.Sprintf("computation failure: %s = %v: %s", e.Field, e.Value, e.Reason)
}

// Is makes errors.Is(err, ErrComputation) true for any ComputationError.
func (e *ComputationError) Is(target error) bool {
	return target == ErrComputation
}

// CheckFinite rejects NaN and infinite values.
func CheckFinite(field string, v float64) error {
	if math.IsNaN(v) {
		return &ComputationError{Field: field, Value: v, Reason: "not a number"}
	}
	if math.IsInf(v, 0) {
		return &ComputationError{Field: field, Value: v, Reason: "infinite"}
	}
	return nil
}

// CheckAmount rejects values that are not finite or are negative.
func CheckAmount(field string, v float64) error {
	if err := CheckFinite(field, v); err != nil {
		return err
	}
	if v < 0 {
		return &ComputationError{Field: field, Value: v, Reason: "negative"}
	}
	return nil
}

func checkOptionalAmount(field string, v *float64) error {
	if v == nil {
		return nil
	}
	return CheckAmount(field, *v)
}
