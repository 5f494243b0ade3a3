package models

import (
	"errors"
	"math"

	"financer/internal/finmath"
)

// InvalidInputError reports a field that failed validation. Callers are
// expected to validate before handing records to the computation services,
// so this error always indicates bad external input, never internal state.
// It is the same type the finmath primitives return.
type InvalidInputError = finmath.InvalidInputError

// IsInvalidInput reports whether err is (or wraps) an InvalidInputError.
func IsInvalidInput(err error) bool {
	var iie *InvalidInputError
	return errors.As(err, &iie)
}

// requireFinite rejects NaN and infinities. Malformed numeric strings are the
// caller's problem; a non-finite float that made it this far is surfaced, not
// coerced.
func requireFinite(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return &InvalidInputError{Field: field, Reason: "must be a finite number"}
	}
	return nil
}

// requireNonNegative rejects NaN, infinities and negative values.
func requireNonNegative(field string, v float64) error {
	if err := requireFinite(field, v); err != nil {
		return err
	}
	if v < 0 {
		return &InvalidInputError{Field: field, Reason: "must not be negative"}
	}
	return nil
}

// requirePositiveInt rejects zero and negative counts.
func requirePositiveInt(field string, v int) error {
	if v <= 0 {
		return &InvalidInputError{Field: field, Reason: "must be greater than zero"}
	}
	return nil
}
