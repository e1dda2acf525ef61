package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/r2x-project/r2x-go/pkg/units"
)

// ToFloat64 converts any Go numeric, json.Number or numeric string.
func ToFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// ToInt converts integral values. Floats are accepted only when they carry
// no fractional part.
func ToInt(v any) (int64, error) {
	switch n := v.(type) {
	case int:
		return int64(n), nil
	case int8:
		return int64(n), nil
	case int16:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case int64:
		return n, nil
	case uint:
		return int64(n), nil
	case uint8:
		return int64(n), nil
	case uint16:
		return int64(n), nil
	case uint32:
		return int64(n), nil
	case uint64:
		if n > math.MaxInt64 {
			return 0, fmt.Errorf("%w: %d overflows int64", ErrTypeMismatch, n)
		}
		return int64(n), nil
	case bool:
		return 0, fmt.Errorf("%w: expected integer, got bool", ErrTypeMismatch)
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, nil
		}
	}

	f, ok := ToFloat64(v)
	if !ok {
		return 0, fmt.Errorf("%w: expected integer, got %T", ErrTypeMismatch, v)
	}
	if f != math.Trunc(f) || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, fmt.Errorf("%w: expected integer, got %v", ErrTypeMismatch, v)
	}
	// float64(math.MaxInt64) rounds up to 2^63.
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, fmt.Errorf("%w: %v overflows int64", ErrTypeMismatch, v)
	}
	return int64(f), nil
}

// ToNativeInt is ToInt restricted to the range of int.
func ToNativeInt(v any) (int, error) {
	n, err := ToInt(v)
	if err != nil {
		return 0, err
	}
	if n < math.MinInt || n > math.MaxInt {
		return 0, fmt.Errorf("%w: %d overflows int", ErrTypeMismatch, n)
	}
	return int(n), nil
}

// ToNumber converts a numeric value and rejects booleans and non-finite
// values.
func ToNumber(v any) (float64, error) {
	if _, isBool := v.(bool); isBool {
		return 0, fmt.Errorf("%w: expected number, got bool", ErrTypeMismatch)
	}
	f, ok := ToFloat64(v)
	if !ok {
		return 0, fmt.Errorf("%w: expected number, got %T", ErrTypeMismatch, v)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: non-finite number", ErrTypeMismatch)
	}
	return f, nil
}

// ToBool accepts booleans and the integers 0 and 1.
func ToBool(v any) (bool, error) {
	if b, ok := v.(bool); ok {
		return b, nil
	}
	if s, ok := v.(string); ok {
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "true", "yes":
			return true, nil
		case "false", "no":
			return false, nil
		}
	}
	n, err := ToInt(v)
	if err != nil {
		return false, fmt.Errorf("%w: expected bool or 0/1, got %T", ErrTypeMismatch, v)
	}
	switch n {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, fmt.Errorf("%w: %d is not 0 or 1", ErrNotInEnum, n)
	}
}

// ToString accepts strings only.
func ToString(v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: expected string, got %T", ErrTypeMismatch, v)
	}
	return s, nil
}

// ToFloatList converts a list of numbers.
func ToFloatList(v any) ([]float64, error) {
	switch l := v.(type) {
	case []float64:
		out := make([]float64, len(l))
		copy(out, l)
		return out, nil
	case []int:
		out := make([]float64, len(l))
		for i, n := range l {
			out[i] = float64(n)
		}
		return out, nil
	case []any:
		out := make([]float64, len(l))
		for i, e := range l {
			f, err := ToNumber(e)
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", i, err)
			}
			out[i] = f
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: expected list of numbers, got %T", ErrTypeMismatch, v)
	}
}

// StringMap normalizes map[string]any and map[any]any (as produced by some
// YAML and CBOR decoders) to map[string]any.
func StringMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			ks, ok := k.(string)
			if !ok {
				return nil, false
			}
			out[ks] = val
		}
		return out, true
	default:
		return nil, false
	}
}

// NormalizeValue rewrites decoder-specific representations of free-form
// data into one form: json.Number and every integer type become int64 (or
// float64 when not integral), float32 becomes float64, map[any]any becomes
// map[string]any. Maps and slices are walked recursively and copied.
func NormalizeValue(v any) any {
	switch x := v.(type) {
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return i
		}
		if f, err := x.Float64(); err == nil {
			return f
		}
		return x.String()
	case float32:
		return float64(x)
	case int, int8, int16, int32, uint, uint8, uint16, uint32:
		n, _ := ToInt(x)
		return n
	case uint64:
		if x > math.MaxInt64 {
			return float64(x)
		}
		return int64(x)
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, val := range x {
			out[k] = NormalizeValue(val)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(x))
		for k, val := range x {
			out[fmt.Sprint(k)] = NormalizeValue(val)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, val := range x {
			out[i] = NormalizeValue(val)
		}
		return out
	default:
		return v
	}
}

// ToQuantity converts a value to a quantity. Bare numbers, and strings or
// mappings without a unit, take bareUnit. The dimension is not checked here;
// see FieldMetadata.CheckQuantity.
func ToQuantity(v any, bareUnit units.Unit) (units.Quantity, error) {
	switch q := v.(type) {
	case units.Quantity:
		return q, nil
	case *units.Quantity:
		if q == nil {
			return units.Quantity{}, ErrNotNullable
		}
		return *q, nil
	case bool:
		return units.Quantity{}, fmt.Errorf("%w: expected quantity, got bool", ErrTypeMismatch)
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(q), 64); err == nil {
			return units.New(f, bareUnit), nil
		}
		parsed, err := units.Parse(q)
		if err != nil {
			return units.Quantity{}, quantityError(err)
		}
		return parsed, nil
	}

	if m, ok := StringMap(v); ok {
		return quantityFromMap(m, bareUnit)
	}

	f, err := ToNumber(v)
	if err != nil {
		return units.Quantity{}, fmt.Errorf("%w: expected quantity, got %T", ErrTypeMismatch, v)
	}
	return units.New(f, bareUnit), nil
}

func quantityFromMap(m map[string]any, bareUnit units.Unit) (units.Quantity, error) {
	raw, ok := m["value"]
	if !ok {
		return units.Quantity{}, fmt.Errorf("%w: quantity mapping without value", ErrTypeMismatch)
	}
	f, err := ToNumber(raw)
	if err != nil {
		return units.Quantity{}, err
	}

	u := bareUnit
	if rawUnit, ok := m["unit"]; ok && rawUnit != nil {
		sym, err := ToString(rawUnit)
		if err != nil {
			return units.Quantity{}, err
		}
		if sym != "" {
			u, err = units.LookupUnit(sym)
			if err != nil {
				return units.Quantity{}, quantityError(err)
			}
		}
	}
	return units.New(f, u), nil
}

func quantityError(err error) error {
	if errors.Is(err, units.ErrUnknownUnit) {
		return fmt.Errorf("%w: %v", ErrIncompatibleUnit, err)
	}
	return fmt.Errorf("%w: %v", ErrTypeMismatch, err)
}
