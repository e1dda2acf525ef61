package units

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"gopkg.in/yaml.v3"
)

// quantityWire is the struct form shared by all codecs.
type quantityWire struct {
	Value float64 `json:"value" yaml:"value" cbor:"value"`
	Unit  string  `json:"unit" yaml:"unit" cbor:"unit"`
}

func (w quantityWire) quantity() (Quantity, error) {
	return NewChecked(w.Value, w.Unit)
}

// UnmarshalJSON accepts {"value": 1, "unit": "MW"}, "1 MW" or a bare number.
func (q *Quantity) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0:
		return fmt.Errorf("%w: empty JSON value", ErrInvalidQuantity)
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		parsed, err := Parse(s)
		if err != nil {
			return err
		}
		*q = parsed
		return nil
	case data[0] == '{':
		var w quantityWire
		if err := json.Unmarshal(data, &w); err != nil {
			return err
		}
		parsed, err := w.quantity()
		if err != nil {
			return err
		}
		*q = parsed
		return nil
	default:
		var v float64
		if err := json.Unmarshal(data, &v); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidQuantity, err)
		}
		*q = Quantity{Value: v}
		return nil
	}
}

// UnmarshalYAML accepts the same three forms as UnmarshalJSON.
func (q *Quantity) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		if tag := node.ShortTag(); tag == "!!int" || tag == "!!float" {
			var v float64
			if err := node.Decode(&v); err != nil {
				return err
			}
			*q = Quantity{Value: v}
			return nil
		}
		parsed, err := Parse(node.Value)
		if err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}
		*q = parsed
		return nil
	case yaml.MappingNode:
		var w quantityWire
		if err := node.Decode(&w); err != nil {
			return err
		}
		parsed, err := w.quantity()
		if err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}
		*q = parsed
		return nil
	default:
		return fmt.Errorf("line %d: %w: unexpected YAML node", node.Line, ErrInvalidQuantity)
	}
}

// UnmarshalCBOR accepts a {value, unit} map, a text string or a number.
func (q *Quantity) UnmarshalCBOR(data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("%w: empty CBOR value", ErrInvalidQuantity)
	}
	switch data[0] >> 5 {
	case 3: // text string
		var s string
		if err := cbor.Unmarshal(data, &s); err != nil {
			return err
		}
		parsed, err := Parse(s)
		if err != nil {
			return err
		}
		*q = parsed
		return nil
	case 5: // map
		var w quantityWire
		if err := cbor.Unmarshal(data, &w); err != nil {
			return err
		}
		parsed, err := w.quantity()
		if err != nil {
			return err
		}
		*q = parsed
		return nil
	default:
		var v float64
		if err := cbor.Unmarshal(data, &v); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidQuantity, err)
		}
		*q = Quantity{Value: v}
		return nil
	}
}
