package plexos

import (
	"fmt"
	"math"
	"sort"

	"github.com/r2x-project/r2x-go/pkg/component"
	"github.com/r2x-project/r2x-go/pkg/enums"
	"github.com/r2x-project/r2x-go/pkg/model"
	"github.com/r2x-project/r2x-go/pkg/units"
)

// GeneratorCommitOptimize is the generator_commit sentinel meaning the unit
// commitment is optimized the usual way.
const GeneratorCommitOptimize = -1

// DefaultBaseMVA is the per-unit base used when base_power is not set.
const DefaultBaseMVA = 1.0

// Generator is a PLEXOS generator record.
//
// Pointer fields are optional: nil means the source did not provide a value.
// MinStableLevel and ActivePower always carry a value (0 MW by default).
// MaxCapacity and ReactivePower default to zero but accept an explicit null.
type Generator struct {
	component.Device

	// Node is the bus the generator connects to. nil means unassigned.
	Node *component.ACBus

	// Fuel is the source-format fuel name.
	Fuel *string

	// Capacity and operating point.
	MaxCapacity    *units.Quantity
	MinStableLevel units.Quantity
	Units          *int
	ActivePower    units.Quantity
	ReactivePower  *units.Quantity
	BaseMVA        float64
	BasePower      *units.Quantity

	// Heat rate curve.
	LoadPoints   []float64
	HeatRate     *units.Quantity
	HeatRateBase *units.Quantity
	HeatRateIncr []float64

	// Costs.
	StartCost    *units.Quantity
	ShutdownCost *units.Quantity
	VOMPrice     *units.Quantity

	// Unit commitment and dynamics.
	MinUpTime        *units.Quantity
	MinDownTime      *units.Quantity
	MaxRampUp        *units.Quantity
	MaxRampDown      *units.Quantity
	MeanTimeToRepair *units.Quantity
	GeneratorCommit  *int
	MustRun          *bool

	// Reliability.
	ForcedOutageRate  *units.Quantity
	PlannedOutageRate *units.Quantity

	// Pump storage.
	PumpEfficiency *units.Quantity
	PumpLoad       *units.Quantity

	// Classification.
	PrimeMoverType *enums.PrimeMoverType
	UnitType       *enums.PrimeMoverType

	// Power flow limits.
	ActivePowerLimits   *component.MinMax
	ReactivePowerLimits *component.MinMax
}

// New returns a generator holding every documented default.
func New(name string) *Generator {
	maxCap := units.MW(0)
	reactive := units.MVA(0)
	return &Generator{
		Device:         component.NewDevice(name),
		MaxCapacity:    &maxCap,
		MinStableLevel: units.MW(0),
		ActivePower:    units.MW(0),
		ReactivePower:  &reactive,
		BaseMVA:        DefaultBaseMVA,
	}
}

// PercentScale selects how bare numbers in percentage fields are read.
type PercentScale uint8

const (
	// PercentScaleHundred reads 5 as 5 % (PLEXOS convention).
	PercentScaleHundred PercentScale = iota

	// PercentScaleUnit reads 0.05 as 5 %.
	PercentScaleUnit
)

// String returns the configuration name of the scale.
func (s PercentScale) String() string {
	switch s {
	case PercentScaleHundred:
		return "percent"
	case PercentScaleUnit:
		return "fraction"
	default:
		return "unknown"
	}
}

// ParsePercentScale parses "percent" or "fraction".
func ParsePercentScale(s string) (PercentScale, error) {
	switch s {
	case "percent", "":
		return PercentScaleHundred, nil
	case "fraction":
		return PercentScaleUnit, nil
	default:
		return 0, fmt.Errorf("unknown percent scale %q (want percent or fraction)", s)
	}
}

type options struct {
	percentScale       PercentScale
	disallowUnknown    bool
	skipHeatRateShapes bool
}

// Option configures NewGenerator.
type Option func(*options)

// WithPercentScale sets how bare numbers in percentage fields are read.
func WithPercentScale(s PercentScale) Option {
	return func(o *options) { o.percentScale = s }
}

// WithDisallowUnknownFields rejects keys that are not schema fields.
// By default they are ignored.
func WithDisallowUnknownFields() Option {
	return func(o *options) { o.disallowUnknown = true }
}

// WithoutHeatRateShapeCheck stops requiring load_points and heat_rate_incr
// to have the same length.
func WithoutHeatRateShapeCheck() Option {
	return func(o *options) { o.skipHeatRateShapes = true }
}

func buildOptions(opts []Option) *options {
	o := &options{}
	for _, fn := range opts {
		fn(o)
	}
	return o
}

// bareUnit is the unit given to numbers that arrive without one.
func (o *options) bareUnit(d units.Dimension) units.Unit {
	if d == units.DimPercentage && o.percentScale == PercentScaleUnit {
		return units.Fraction
	}
	return d.DefaultUnit()
}

// fieldAliases maps accepted alternative keys to schema field names.
var fieldAliases = map[string]string{
	"bus": "node",
}

// NewGenerator builds a generator from a field mapping. Omitted fields take
// their defaults. On failure it returns nil and a model.ValidationErrors
// listing every violated field.
func NewGenerator(fields map[string]any, opts ...Option) (*Generator, error) {
	o := buildOptions(opts)
	g := New("")
	result := &model.ValidationResult{}
	failed := make(map[string]bool)

	// Deterministic error order.
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := fields[key]
		name := key
		if canonical, ok := fieldAliases[key]; ok {
			if _, both := fields[canonical]; both {
				result.AddError(key, value, fmt.Errorf("%w: %s given together with %s", model.ErrShapeMismatch, key, canonical))
				failed[canonical] = true
				continue
			}
			name = canonical
		}

		spec, ok := fieldIndex[name]
		if !ok {
			if o.disallowUnknown {
				result.AddError(key, value, model.ErrUnknownField)
			}
			continue
		}

		if value == nil {
			if !spec.meta.Nullable {
				result.AddError(name, value, model.ErrNotNullable)
				failed[name] = true
				continue
			}
			spec.clear(g)
			continue
		}

		if err := spec.decode(g, value, o); err != nil {
			result.AddError(name, value, err)
			failed[name] = true
		}
	}

	for _, spec := range fieldSpecs {
		if failed[spec.meta.Name] || spec.validate == nil {
			continue
		}
		if err := spec.validate(g); err != nil {
			result.AddError(spec.meta.Name, spec.raw(g), err)
			failed[spec.meta.Name] = true
		}
	}

	if !failed["load_points"] && !failed["heat_rate_incr"] {
		result.AddError("heat_rate_incr", g.HeatRateIncr, g.checkHeatRateShape(o))
	}

	if err := result.Err(); err != nil {
		return nil, err
	}
	return g, nil
}

// Validate re-checks every field and cross-field constraint. Use it on
// generators assembled in code rather than through NewGenerator.
func (g *Generator) Validate(opts ...Option) error {
	o := buildOptions(opts)
	result := &model.ValidationResult{}
	for _, spec := range fieldSpecs {
		if spec.validate == nil {
			continue
		}
		if err := spec.validate(g); err != nil {
			result.AddError(spec.meta.Name, spec.raw(g), err)
		}
	}
	result.AddError("heat_rate_incr", g.HeatRateIncr, g.checkHeatRateShape(o))
	return result.Err()
}

func (g *Generator) checkHeatRateShape(o *options) error {
	if o.skipHeatRateShapes || g.LoadPoints == nil || g.HeatRateIncr == nil {
		return nil
	}
	if len(g.LoadPoints) != len(g.HeatRateIncr) {
		return fmt.Errorf("%w: %d heat rate increments for %d load points",
			model.ErrShapeMismatch, len(g.HeatRateIncr), len(g.LoadPoints))
	}
	return nil
}

// CommitOptimized returns true when the unit commitment is left to the
// optimizer (generator_commit unset or -1).
func (g *Generator) CommitOptimized() bool {
	return g.GeneratorCommit == nil || *g.GeneratorCommit == GeneratorCommitOptimize
}

// ThermalFuel resolves Fuel against the thermal fuel enumeration.
func (g *Generator) ThermalFuel() (enums.ThermalFuel, bool) {
	if g.Fuel == nil {
		return enums.FuelUnknown, false
	}
	f, err := enums.ParseThermalFuel(*g.Fuel)
	if err != nil {
		return enums.FuelUnknown, false
	}
	return f, true
}

// StorageTech resolves the storage technology of a storage unit (prime
// mover BA, PS, ES, ...) from its fuel, then its category.
func (g *Generator) StorageTech() (enums.StorageTech, bool) {
	if g.PrimeMoverType == nil || !g.PrimeMoverType.IsStorage() {
		return enums.StorageUnknown, false
	}
	candidates := []string{g.Category}
	if g.Fuel != nil {
		candidates = []string{*g.Fuel, g.Category}
	}
	for _, c := range candidates {
		if t, err := enums.ParseStorageTech(c); err == nil {
			return t, true
		}
	}
	return enums.StorageUnknown, false
}

// PumpPower returns the pumping (in) and generating (out) power of a pump
// storage unit in MW. It needs both pump_load and max_capacity.
func (g *Generator) PumpPower() (component.InputOutput, bool) {
	if g.PumpLoad == nil || g.MaxCapacity == nil {
		return component.InputOutput{}, false
	}
	return component.InputOutput{
		In:  g.PumpLoad.In(units.Megawatt),
		Out: g.MaxCapacity.In(units.Megawatt),
	}, true
}

// RampLimits returns max_ramp_up and max_ramp_down in MW/min. An unset
// direction is reported as +Inf.
func (g *Generator) RampLimits() (component.UpDown, bool) {
	if g.MaxRampUp == nil && g.MaxRampDown == nil {
		return component.UpDown{}, false
	}
	rate := func(q *units.Quantity) float64 {
		if q == nil {
			return math.Inf(1)
		}
		return q.In(units.MegawattPerMinute)
	}
	return component.UpDown{Up: rate(g.MaxRampUp), Down: rate(g.MaxRampDown)}, true
}

// PerUnit normalizes an active or apparent power against the generator's
// base power (base_power, or base_mva when base_power is unset).
func (g *Generator) PerUnit(q units.Quantity) (float64, error) {
	base := g.BaseMVA
	if g.BasePower != nil {
		base = g.BasePower.In(units.MegavoltAmpere)
	}
	if base <= 0 {
		return 0, fmt.Errorf("%w: base power %v MVA", model.ErrNotPositive, base)
	}

	var mag float64
	switch q.Dimension() {
	case units.DimPower:
		mag = q.In(units.Megawatt)
	case units.DimApparentPower:
		mag = q.In(units.MegavoltAmpere)
	default:
		return 0, fmt.Errorf("%w: cannot per-unitize %s", model.ErrIncompatibleUnit, q.Dimension())
	}
	return mag / base, nil
}

// Equal reports whether both generators carry the same values, comparing
// quantities within the relative tolerance tol.
func (g *Generator) Equal(other *Generator, tol float64) bool {
	if g == nil || other == nil {
		return g == other
	}
	for _, spec := range fieldSpecs {
		a, okA := spec.encode(g)
		b, okB := spec.encode(other)
		if okA != okB {
			return false
		}
		if okA && !valuesEqual(a, b, tol) {
			return false
		}
	}
	return true
}
