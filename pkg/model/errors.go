package model

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Constraint codes reported in FieldError.Constraint.
const (
	ConstraintType         = "type"
	ConstraintNull         = "null"
	ConstraintNonNegative  = "non_negative"
	ConstraintPositive     = "positive"
	ConstraintMinimum      = "minimum"
	ConstraintMaximum      = "maximum"
	ConstraintEnum         = "enum"
	ConstraintUnit         = "unit"
	ConstraintUnknownField = "unknown_field"
	ConstraintShape        = "shape"
)

// ConstraintOf maps a validation error to its constraint code.
func ConstraintOf(err error) string {
	switch {
	case errors.Is(err, ErrNotNullable):
		return ConstraintNull
	case errors.Is(err, ErrNegative):
		return ConstraintNonNegative
	case errors.Is(err, ErrNotPositive):
		return ConstraintPositive
	case errors.Is(err, ErrBelowMinimum):
		return ConstraintMinimum
	case errors.Is(err, ErrAboveMaximum):
		return ConstraintMaximum
	case errors.Is(err, ErrNotInEnum):
		return ConstraintEnum
	case errors.Is(err, ErrIncompatibleUnit):
		return ConstraintUnit
	case errors.Is(err, ErrUnknownField):
		return ConstraintUnknownField
	case errors.Is(err, ErrShapeMismatch):
		return ConstraintShape
	default:
		return ConstraintType
	}
}

// FieldError is a single field violation.
type FieldError struct {
	// Field is the mapping key of the offending field.
	Field string

	// Value is the value supplied by the caller.
	Value any

	// Constraint is the violated constraint code.
	Constraint string

	// Err is the underlying sentinel-wrapping error.
	Err error
}

// NewFieldError builds a FieldError, deriving the constraint code from err.
func NewFieldError(field string, value any, err error) *FieldError {
	return &FieldError{
		Field:      field,
		Value:      value,
		Constraint: ConstraintOf(err),
		Err:        err,
	}
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s: %v (got %v)", e.Field, e.Constraint, e.Err, e.Value)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// ValidationErrors lists every violation found while building a record.
type ValidationErrors []*FieldError

func (v ValidationErrors) Error() string {
	switch len(v) {
	case 0:
		return "no validation errors"
	case 1:
		return "validation failed: " + v[0].Error()
	}
	parts := make([]string, len(v))
	for i, e := range v {
		parts[i] = e.Error()
	}
	return fmt.Sprintf("validation failed with %d errors: %s", len(v), strings.Join(parts, "; "))
}

// Unwrap exposes the field errors to errors.Is and errors.As.
func (v ValidationErrors) Unwrap() []error {
	out := make([]error, len(v))
	for i, e := range v {
		out[i] = e
	}
	return out
}

// Fields returns the sorted, de-duplicated names of offending fields.
func (v ValidationErrors) Fields() []string {
	seen := make(map[string]bool, len(v))
	var out []string
	for _, e := range v {
		if !seen[e.Field] {
			seen[e.Field] = true
			out = append(out, e.Field)
		}
	}
	sort.Strings(out)
	return out
}

// Has returns true if field has at least one violation.
func (v ValidationErrors) Has(field string) bool {
	return v.For(field) != nil
}

// For returns the first violation for field, or nil.
func (v ValidationErrors) For(field string) *FieldError {
	for _, e := range v {
		if e.Field == field {
			return e
		}
	}
	return nil
}

// ValidationResult collects field errors across a whole record.
type ValidationResult struct {
	Errors ValidationErrors
}

// AddError records a violation for field. A nil err is ignored.
func (r *ValidationResult) AddError(field string, value any, err error) {
	if err == nil {
		return
	}
	r.Errors = append(r.Errors, NewFieldError(field, value, err))
}

// Valid returns true if no violations were recorded.
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// Err returns the collected violations as an error, or nil.
func (r *ValidationResult) Err() error {
	if r.Valid() {
		return nil
	}
	return r.Errors
}

// AsValidationErrors extracts ValidationErrors from err.
func AsValidationErrors(err error) (ValidationErrors, bool) {
	var ve ValidationErrors
	if errors.As(err, &ve) {
		return ve, true
	}
	var fe *FieldError
	if errors.As(err, &fe) {
		return ValidationErrors{fe}, true
	}
	return nil, false
}
