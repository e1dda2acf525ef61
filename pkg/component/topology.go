package component

import (
	"fmt"

	"github.com/r2x-project/r2x-go/pkg/model"
	"github.com/r2x-project/r2x-go/pkg/units"
)

// ACBus is a network node. PLEXOS calls it a node.
type ACBus struct {
	Component

	// Number is the bus number, 0 when unknown.
	Number int

	// BaseVoltage is the nominal voltage, nil when unknown.
	BaseVoltage *units.Quantity
}

// NewACBus creates a bus with a fresh UUID.
func NewACBus(name string) *ACBus {
	return &ACBus{Component: NewComponent(name)}
}

// ParseACBus decodes a bus reference. A bare string names the bus; a
// mapping may carry name, uuid, number, category and base_voltage.
func ParseACBus(v any) (*ACBus, error) {
	if b, ok := v.(*ACBus); ok {
		if b == nil {
			return nil, fmt.Errorf("%w: nil bus", ErrInvalidComponent)
		}
		return b, nil
	}
	if name, ok := v.(string); ok {
		if name == "" {
			return nil, fmt.Errorf("%w: empty bus name", ErrInvalidComponent)
		}
		return NewACBus(name), nil
	}

	m, ok := model.StringMap(v)
	if !ok {
		return nil, fmt.Errorf("%w: bus must be a name or mapping, got %T", model.ErrTypeMismatch, v)
	}

	bus := &ACBus{}
	if raw, ok := m["name"]; ok {
		name, err := model.ToString(raw)
		if err != nil {
			return nil, fmt.Errorf("name: %w", err)
		}
		bus.Name = name
	}
	if bus.Name == "" {
		return nil, fmt.Errorf("%w: bus mapping without name", ErrInvalidComponent)
	}

	if raw, ok := m["uuid"]; ok && raw != nil {
		id, err := ParseUUID(raw)
		if err != nil {
			return nil, fmt.Errorf("uuid: %w", err)
		}
		bus.UUID = id
	} else {
		bus.Component = NewComponent(bus.Name)
	}

	if raw, ok := m["category"]; ok && raw != nil {
		cat, err := model.ToString(raw)
		if err != nil {
			return nil, fmt.Errorf("category: %w", err)
		}
		bus.Category = cat
	}

	if raw, ok := m["number"]; ok && raw != nil {
		n, err := model.ToNativeInt(raw)
		if err != nil {
			return nil, fmt.Errorf("number: %w", err)
		}
		bus.Number = n
	}

	if raw, ok := m["base_voltage"]; ok && raw != nil {
		q, err := model.ToQuantity(raw, units.Kilovolt)
		if err != nil {
			return nil, fmt.Errorf("base_voltage: %w", err)
		}
		if q.Dimension() != units.DimVoltage {
			return nil, fmt.Errorf("base_voltage: %w: %s is not a voltage", model.ErrIncompatibleUnit, q.Unit)
		}
		bus.BaseVoltage = &q
	}

	return bus, nil
}

// ToMap returns the mapping form accepted by ParseACBus.
func (b *ACBus) ToMap() map[string]any {
	m := map[string]any{
		"name": b.Name,
		"uuid": b.UUID.String(),
	}
	if b.Category != "" {
		m["category"] = b.Category
	}
	if b.Number != 0 {
		m["number"] = b.Number
	}
	if b.BaseVoltage != nil {
		m["base_voltage"] = *b.BaseVoltage
	}
	return m
}

// Equal compares buses by identity and attributes.
func (b *ACBus) Equal(other *ACBus) bool {
	if b == nil || other == nil {
		return b == other
	}
	if b.UUID != other.UUID || b.Name != other.Name || b.Number != other.Number || b.Category != other.Category {
		return false
	}
	if (b.BaseVoltage == nil) != (other.BaseVoltage == nil) {
		return false
	}
	return b.BaseVoltage == nil || b.BaseVoltage.ApproxEqual(*other.BaseVoltage, units.DefaultTolerance)
}
