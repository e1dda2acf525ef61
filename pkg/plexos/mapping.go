package plexos

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"reflect"

	"github.com/fxamacker/cbor/v2"
	"gopkg.in/yaml.v3"

	"github.com/r2x-project/r2x-go/pkg/model"
	"github.com/r2x-project/r2x-go/pkg/units"
)

// cborEncMode writes deterministic CBOR so encoded records can be compared
// byte for byte.
var cborEncMode cbor.EncMode

// cborDecMode decodes records into plain Go maps keyed by string.
var cborDecMode cbor.DecMode

func init() {
	var err error

	encOpts := cbor.EncOptions{
		Sort:          cbor.SortCanonical,
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
		Time:          cbor.TimeRFC3339Nano,
	}
	cborEncMode, err = encOpts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create CBOR encoder mode: %v", err))
	}

	decOpts := cbor.DecOptions{
		DupMapKey:      cbor.DupMapKeyEnforcedAPF,
		IndefLength:    cbor.IndefLengthAllowed,
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
	}
	cborDecMode, err = decOpts.DecMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create CBOR decoder mode: %v", err))
	}
}

// ToMap returns the field mapping of the generator. Feeding it back to
// NewGenerator yields an equal generator.
func (g *Generator) ToMap() map[string]any {
	out := make(map[string]any, len(fieldSpecs))
	for _, spec := range fieldSpecs {
		if v, ok := spec.encode(g); ok {
			out[spec.meta.Name] = v
		}
	}
	return out
}

// FromMap replaces g with the generator built from fields.
func (g *Generator) FromMap(fields map[string]any, opts ...Option) error {
	built, err := NewGenerator(fields, opts...)
	if err != nil {
		return err
	}
	*g = *built
	return nil
}

// MarshalJSON encodes the field mapping.
func (g *Generator) MarshalJSON() ([]byte, error) {
	return json.Marshal(g.ToMap())
}

// UnmarshalJSON decodes and validates a JSON object.
func (g *Generator) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return err
	}
	return g.FromMap(fields)
}

// MarshalYAML returns the field mapping for yaml.v3.
func (g *Generator) MarshalYAML() (any, error) {
	return g.ToMap(), nil
}

// UnmarshalYAML decodes and validates a YAML mapping.
func (g *Generator) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: generator must be a mapping", node.Line)
	}
	var fields map[string]any
	if err := node.Decode(&fields); err != nil {
		return err
	}
	return g.FromMap(fields)
}

// MarshalCBOR encodes the field mapping.
func (g *Generator) MarshalCBOR() ([]byte, error) {
	return cborEncMode.Marshal(g.ToMap())
}

// UnmarshalCBOR decodes and validates a CBOR map.
func (g *Generator) UnmarshalCBOR(data []byte) error {
	var fields map[string]any
	if err := cborDecMode.Unmarshal(data, &fields); err != nil {
		return err
	}
	return g.FromMap(fields)
}

// valuesEqual compares encoded field values. Quantities and numbers compare
// within the relative tolerance tol, whatever their Go numeric type;
// everything else exactly.
func valuesEqual(a, b any, tol float64) bool {
	switch x := a.(type) {
	case units.Quantity:
		y, ok := b.(units.Quantity)
		return ok && x.ApproxEqual(y, tol)
	case []any:
		y, ok := b.([]any)
		if !ok || len(x) != len(y) {
			return false
		}
		for i := range x {
			if !valuesEqual(x[i], y[i], tol) {
				return false
			}
		}
		return true
	case []float64:
		y, ok := b.([]float64)
		if !ok || len(x) != len(y) {
			return false
		}
		for i := range x {
			if !floatsEqual(x[i], y[i], tol) {
				return false
			}
		}
		return true
	case map[string]any:
		y, ok := b.(map[string]any)
		if !ok || len(x) != len(y) {
			return false
		}
		for k, v := range x {
			w, ok := y[k]
			if !ok || !valuesEqual(v, w, tol) {
				return false
			}
		}
		return true
	default:
		if fa, ok := numericValue(a); ok {
			fb, ok := numericValue(b)
			return ok && floatsEqual(fa, fb, tol)
		}
		return reflect.DeepEqual(a, b)
	}
}

// numericValue returns v as a float64 when v is a Go numeric type.
func numericValue(v any) (float64, bool) {
	switch v.(type) {
	case string, json.Number:
		return 0, false
	}
	return model.ToFloat64(v)
}

func floatsEqual(a, b, tol float64) bool {
	scale := math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
	return math.Abs(a-b) <= tol*scale
}
