package component

import (
	"fmt"

	"github.com/r2x-project/r2x-go/pkg/model"
)

// MinMax is a closed interval.
type MinMax struct {
	Min float64
	Max float64
}

// Validate checks Min <= Max.
func (m MinMax) Validate() error {
	if m.Min > m.Max {
		return fmt.Errorf("%w: min %v > max %v", model.ErrShapeMismatch, m.Min, m.Max)
	}
	return nil
}

// Contains reports whether v lies within the interval.
func (m MinMax) Contains(v float64) bool {
	return v >= m.Min && v <= m.Max
}

// ToMap returns the mapping form.
func (m MinMax) ToMap() map[string]any {
	return map[string]any{"min": m.Min, "max": m.Max}
}

// ParseMinMax decodes {min, max} or a two-element list.
func ParseMinMax(v any) (MinMax, error) {
	a, b, err := parsePair(v, "min", "max")
	if err != nil {
		return MinMax{}, err
	}
	return MinMax{Min: a, Max: b}, nil
}

// UpDown holds a pair of directional values such as ramp limits.
type UpDown struct {
	Up   float64
	Down float64
}

// ToMap returns the mapping form.
func (u UpDown) ToMap() map[string]any {
	return map[string]any{"up": u.Up, "down": u.Down}
}

// ParseUpDown decodes {up, down} or a two-element list.
func ParseUpDown(v any) (UpDown, error) {
	a, b, err := parsePair(v, "up", "down")
	if err != nil {
		return UpDown{}, err
	}
	return UpDown{Up: a, Down: b}, nil
}

// InputOutput holds a pair of values on the input and output side of a
// device, such as pump and generation efficiency.
type InputOutput struct {
	In  float64
	Out float64
}

// ToMap returns the mapping form.
func (io InputOutput) ToMap() map[string]any {
	return map[string]any{"in": io.In, "out": io.Out}
}

// ParseInputOutput decodes {in, out} or a two-element list.
func ParseInputOutput(v any) (InputOutput, error) {
	a, b, err := parsePair(v, "in", "out")
	if err != nil {
		return InputOutput{}, err
	}
	return InputOutput{In: a, Out: b}, nil
}

func parsePair(v any, first, second string) (float64, float64, error) {
	switch p := v.(type) {
	case MinMax:
		return p.Min, p.Max, nil
	case UpDown:
		return p.Up, p.Down, nil
	case InputOutput:
		return p.In, p.Out, nil
	}

	if list, err := model.ToFloatList(v); err == nil {
		if len(list) != 2 {
			return 0, 0, fmt.Errorf("%w: expected 2 elements, got %d", model.ErrShapeMismatch, len(list))
		}
		return list[0], list[1], nil
	}

	m, ok := model.StringMap(v)
	if !ok {
		return 0, 0, fmt.Errorf("%w: expected {%s, %s}, got %T", model.ErrTypeMismatch, first, second, v)
	}
	rawA, okA := m[first]
	rawB, okB := m[second]
	if !okA || !okB {
		return 0, 0, fmt.Errorf("%w: mapping needs both %s and %s", model.ErrShapeMismatch, first, second)
	}
	a, err := model.ToNumber(rawA)
	if err != nil {
		return 0, 0, fmt.Errorf("%s: %w", first, err)
	}
	b, err := model.ToNumber(rawB)
	if err != nil {
		return 0, 0, fmt.Errorf("%s: %w", second, err)
	}
	return a, b, nil
}
