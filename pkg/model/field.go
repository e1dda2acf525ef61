package model

import (
	"errors"
	"fmt"
	"math"

	"github.com/r2x-project/r2x-go/pkg/units"
)

// Kind is the semantic type of a field value.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindQuantity
	KindFloatList
	KindEnum
	KindRef
	KindRange
	KindMap
	KindUUID
)

// String returns the kind name.
func (k Kind) String() string {
	names := []string{
		"unknown", "bool", "int", "float", "string", "quantity",
		"float list", "enum", "reference", "range", "map", "uuid",
	}
	if int(k) < len(names) {
		return names[k]
	}
	return "unknown"
}

// Field validation errors.
var (
	ErrTypeMismatch     = errors.New("invalid value type")
	ErrNotNullable      = errors.New("field does not accept null")
	ErrNegative         = errors.New("value must be non-negative")
	ErrNotPositive      = errors.New("value must be strictly positive")
	ErrBelowMinimum     = errors.New("value below minimum")
	ErrAboveMaximum     = errors.New("value above maximum")
	ErrNotInEnum        = errors.New("value not in enumeration")
	ErrIncompatibleUnit = errors.New("incompatible unit")
	ErrUnknownField     = errors.New("unknown field")
	ErrShapeMismatch    = errors.New("shape mismatch")
)

// FieldMetadata describes a schema field's type, bounds and default.
type FieldMetadata struct {
	// Name is the mapping key of the field.
	Name string

	// Kind is the semantic type of the value.
	Kind Kind

	// Dimension is the physical dimension for KindQuantity fields.
	Dimension units.Dimension

	// Nullable indicates if an explicit null is accepted.
	Nullable bool

	// MinValue is the lower bound (for numeric and quantity kinds).
	MinValue any

	// ExclusiveMin makes MinValue a strict bound.
	ExclusiveMin bool

	// MaxValue is the upper bound (for numeric and quantity kinds).
	MaxValue any

	// BoundUnit is the unit MinValue and MaxValue are expressed in for
	// quantity fields. Empty means the dimension's default unit.
	BoundUnit units.Unit

	// Default is the value used when the field is omitted.
	Default any

	// Enum lists the accepted members for KindEnum fields.
	Enum []string

	// Description is a human-readable description.
	Description string
}

// Unit returns the default unit for quantity fields.
func (m *FieldMetadata) Unit() units.Unit {
	return m.Dimension.DefaultUnit()
}

// HasBounds returns true if the field carries a range constraint.
func (m *FieldMetadata) HasBounds() bool {
	return m.MinValue != nil || m.MaxValue != nil
}

// CheckRange validates a magnitude against the field's bounds.
func (m *FieldMetadata) CheckRange(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: non-finite value %v", ErrTypeMismatch, v)
	}

	if m.MinValue != nil {
		min, _ := ToFloat64(m.MinValue)
		switch {
		case m.ExclusiveMin && v <= min:
			if min == 0 {
				return fmt.Errorf("%w: %v <= 0", ErrNotPositive, v)
			}
			return fmt.Errorf("%w: %v <= %v", ErrBelowMinimum, v, m.MinValue)
		case !m.ExclusiveMin && v < min:
			if min == 0 {
				return fmt.Errorf("%w: %v < 0", ErrNegative, v)
			}
			return fmt.Errorf("%w: %v < %v", ErrBelowMinimum, v, m.MinValue)
		}
	}

	if m.MaxValue != nil {
		max, _ := ToFloat64(m.MaxValue)
		if v > max {
			return fmt.Errorf("%w: %v > %v", ErrAboveMaximum, v, m.MaxValue)
		}
	}

	return nil
}

// CheckQuantity validates the dimension and bounds of a quantity.
func (m *FieldMetadata) CheckQuantity(q units.Quantity) error {
	if !q.Unit.Valid() {
		return fmt.Errorf("%w: %w: %q", ErrIncompatibleUnit, units.ErrUnknownUnit, q.Unit)
	}
	if q.Dimension() != m.Dimension {
		return fmt.Errorf("%w: %s is %s, expected %s", ErrIncompatibleUnit, q.Unit, q.Dimension(), m.Dimension)
	}
	if !m.HasBounds() {
		return nil
	}

	bu := m.BoundUnit
	if bu == units.None {
		bu = m.Unit()
	}
	v, err := units.Convert(q.Value, q.Unit, bu)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIncompatibleUnit, err)
	}
	if err := m.CheckRange(v); err != nil {
		return fmt.Errorf("%w (%s)", err, q)
	}
	return nil
}

// CheckList validates every element of a list against the field's bounds.
func (m *FieldMetadata) CheckList(values []float64) error {
	for i, v := range values {
		if err := m.CheckRange(v); err != nil {
			return fmt.Errorf("index %d: %w", i, err)
		}
	}
	return nil
}

// CheckEnum validates membership for KindEnum fields.
func (m *FieldMetadata) CheckEnum(s string) error {
	for _, e := range m.Enum {
		if e == s {
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrNotInEnum, s)
}
