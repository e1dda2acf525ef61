package component

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrInvalidComponent is returned for malformed component references.
var ErrInvalidComponent = errors.New("invalid component")

// Component carries the identity shared by every model entity.
type Component struct {
	// UUID uniquely identifies the component within a translation run.
	UUID uuid.UUID

	// Name is the source-format name (e.g. the PLEXOS object name).
	Name string

	// Category is the optional source-format category.
	Category string

	// Ext holds source-specific metadata that has no typed field.
	Ext map[string]any
}

// NewComponent creates a component with a fresh random UUID.
func NewComponent(name string) Component {
	return Component{
		UUID: uuid.New(),
		Name: name,
	}
}

// Label returns the name, falling back to the UUID for unnamed components.
func (c Component) Label() string {
	if c.Name != "" {
		return c.Name
	}
	return c.UUID.String()
}

// ParseUUID accepts a uuid.UUID or its string form.
func ParseUUID(v any) (uuid.UUID, error) {
	switch id := v.(type) {
	case uuid.UUID:
		return id, nil
	case string:
		parsed, err := uuid.Parse(id)
		if err != nil {
			return uuid.Nil, fmt.Errorf("%w: %v", ErrInvalidComponent, err)
		}
		return parsed, nil
	case []byte:
		parsed, err := uuid.FromBytes(id)
		if err != nil {
			return uuid.Nil, fmt.Errorf("%w: %v", ErrInvalidComponent, err)
		}
		return parsed, nil
	default:
		return uuid.Nil, fmt.Errorf("%w: uuid must be a string, got %T", ErrInvalidComponent, v)
	}
}

// Device is a component that can be taken in and out of service.
type Device struct {
	Component

	// Available is false when the device is out of service.
	Available bool
}

// NewDevice creates an available device with a fresh UUID.
func NewDevice(name string) Device {
	return Device{
		Component: NewComponent(name),
		Available: true,
	}
}
