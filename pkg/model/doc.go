// Package model implements field metadata and field-level validation for
// the R2X component schemas.
//
// # Field Metadata
//
// Every schema field is described by a FieldMetadata:
//
//	&model.FieldMetadata{
//	    Name:      "max_capacity",
//	    Kind:      model.KindQuantity,
//	    Dimension: units.DimPower,
//	    Nullable:  true,
//	    MinValue:  0,
//	    Default:   units.MW(0),
//	}
//
// Quantity bounds are expressed in BoundUnit (or the dimension's default
// unit), so "0 <= x" holds whatever unit the caller used.
//
// # Coercion
//
// Field values arrive from decoded case files as loosely typed Go values.
// ToNumber, ToInt, ToBool, ToString, ToFloatList and ToQuantity convert them
// into the declared semantic type or fail with ErrTypeMismatch.
//
// # Errors
//
// Violations wrap one of the sentinel errors (ErrNegative, ErrNotPositive,
// ErrBelowMinimum, ...). A FieldError tags the violation with the field name,
// the supplied value and a stable constraint code; ValidationErrors carries
// every violation of a record and supports errors.Is and errors.As.
package model
