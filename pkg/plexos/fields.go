package plexos

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/r2x-project/r2x-go/pkg/component"
	"github.com/r2x-project/r2x-go/pkg/enums"
	"github.com/r2x-project/r2x-go/pkg/model"
	"github.com/r2x-project/r2x-go/pkg/units"
)

// fieldSpec binds a field's metadata to its storage in Generator.
type fieldSpec struct {
	meta *model.FieldMetadata

	// decode coerces a non-nil value and stores it.
	decode func(g *Generator, v any, o *options) error

	// clear stores an explicit null. Only called for nullable fields.
	clear func(g *Generator)

	// encode returns the mapping value and whether the key is present.
	encode func(g *Generator) (any, bool)

	// validate checks the stored value. nil means nothing to check.
	validate func(g *Generator) error
}

// raw returns the stored value for error reporting.
func (s *fieldSpec) raw(g *Generator) any {
	v, _ := s.encode(g)
	return v
}

var (
	fieldSpecs []*fieldSpec
	fieldIndex map[string]*fieldSpec
)

func init() {
	fieldSpecs = []*fieldSpec{
		uuidField(),
		nameField(),
		categoryField(),
		availableField(),
		extField(),
		nodeField(),
		fuelField(),
		optionalQuantity(&model.FieldMetadata{
			Name:        "max_capacity",
			Dimension:   units.DimPower,
			Nullable:    true,
			MinValue:    0,
			Default:     units.MW(0),
			Description: "Maximum output power rating of the unit",
		}, func(g *Generator) **units.Quantity { return &g.MaxCapacity }, true),
		requiredQuantity(&model.FieldMetadata{
			Name:        "min_stable_level",
			Dimension:   units.DimPower,
			MinValue:    0,
			Default:     units.MW(0),
			Description: "Minimum stable generation level",
		}, func(g *Generator) *units.Quantity { return &g.MinStableLevel }),
		optionalInt(&model.FieldMetadata{
			Name:        "units",
			MinValue:    0,
			Description: "Number of generating units",
		}, func(g *Generator) **int { return &g.Units }),
		floatList(&model.FieldMetadata{
			Name:        "load_points",
			MinValue:    0,
			Description: "Load points (MW) of the multi-point heat rate function",
		}, func(g *Generator) *[]float64 { return &g.LoadPoints }),
		optionalQuantity(&model.FieldMetadata{
			Name:        "heat_rate",
			Dimension:   units.DimHeatRate,
			MinValue:    0,
			Description: "Average heat rate at each load point",
		}, func(g *Generator) **units.Quantity { return &g.HeatRate }, false),
		optionalQuantity(&model.FieldMetadata{
			Name:        "heat_rate_base",
			Dimension:   units.DimHeatRate,
			MinValue:    0,
			Description: "No-load (base) heat rate",
		}, func(g *Generator) **units.Quantity { return &g.HeatRateBase }, false),
		floatList(&model.FieldMetadata{
			Name:        "heat_rate_incr",
			MinValue:    0,
			Description: "Incremental heat rate coefficients, one per load point",
		}, func(g *Generator) *[]float64 { return &g.HeatRateIncr }),
		optionalQuantity(&model.FieldMetadata{
			Name:        "start_cost",
			Dimension:   units.DimCurrency,
			MinValue:    0,
			Description: "Cost of starting a unit",
		}, func(g *Generator) **units.Quantity { return &g.StartCost }, false),
		optionalQuantity(&model.FieldMetadata{
			Name:        "shutdown_cost",
			Dimension:   units.DimCurrency,
			MinValue:    0,
			Description: "Cost of shutting down a unit",
		}, func(g *Generator) **units.Quantity { return &g.ShutdownCost }, false),
		optionalQuantity(&model.FieldMetadata{
			Name:        "min_up_time",
			Dimension:   units.DimTime,
			MinValue:    0,
			Description: "Minimum up time for unit commitment",
		}, func(g *Generator) **units.Quantity { return &g.MinUpTime }, false),
		optionalQuantity(&model.FieldMetadata{
			Name:        "min_down_time",
			Dimension:   units.DimTime,
			MinValue:    0,
			Description: "Minimum down time for unit commitment",
		}, func(g *Generator) **units.Quantity { return &g.MinDownTime }, false),
		optionalQuantity(&model.FieldMetadata{
			Name:        "max_ramp_up",
			Dimension:   units.DimPowerRate,
			MinValue:    0,
			Description: "Maximum ramp rate in the positive direction",
		}, func(g *Generator) **units.Quantity { return &g.MaxRampUp }, false),
		optionalQuantity(&model.FieldMetadata{
			Name:        "max_ramp_down",
			Dimension:   units.DimPowerRate,
			MinValue:    0,
			Description: "Maximum ramp rate in the negative direction",
		}, func(g *Generator) **units.Quantity { return &g.MaxRampDown }, false),
		percentage(&model.FieldMetadata{
			Name:        "pump_efficiency",
			Description: "Efficiency of the pump",
		}, func(g *Generator) **units.Quantity { return &g.PumpEfficiency }),
		optionalQuantity(&model.FieldMetadata{
			Name:        "pump_load",
			Dimension:   units.DimPower,
			MinValue:    0,
			Description: "Load of the pump",
		}, func(g *Generator) **units.Quantity { return &g.PumpLoad }, false),
		optionalQuantity(&model.FieldMetadata{
			Name:         "mean_time_to_repair",
			Dimension:    units.DimTime,
			MinValue:     0,
			ExclusiveMin: true,
			Description:  "Time to repair after an outage",
		}, func(g *Generator) **units.Quantity { return &g.MeanTimeToRepair }, false),
		optionalInt(&model.FieldMetadata{
			Name:        "generator_commit",
			MinValue:    GeneratorCommitOptimize,
			Description: "Number of units to commit; -1 optimizes commitment the usual way",
		}, func(g *Generator) **int { return &g.GeneratorCommit }),
		percentage(&model.FieldMetadata{
			Name:        "forced_outage_rate",
			Description: "Expected level of unplanned outages",
		}, func(g *Generator) **units.Quantity { return &g.ForcedOutageRate }),
		percentage(&model.FieldMetadata{
			Name:        "planned_outage_rate",
			Description: "Expected level of planned outages",
		}, func(g *Generator) **units.Quantity { return &g.PlannedOutageRate }),
		requiredQuantity(&model.FieldMetadata{
			Name:        "active_power",
			Dimension:   units.DimPower,
			MinValue:    0,
			Default:     units.MW(0),
			Description: "Initial active power set point",
		}, func(g *Generator) *units.Quantity { return &g.ActivePower }),
		optionalQuantity(&model.FieldMetadata{
			Name:        "reactive_power",
			Dimension:   units.DimApparentPower,
			Nullable:    true,
			MinValue:    0,
			Default:     units.MVA(0),
			Description: "Reactive power set point",
		}, func(g *Generator) **units.Quantity { return &g.ReactivePower }, true),
		baseMVAField(),
		optionalQuantity(&model.FieldMetadata{
			Name:         "base_power",
			Dimension:    units.DimApparentPower,
			MinValue:     0,
			ExclusiveMin: true,
			Description:  "Base power for per-unitization",
		}, func(g *Generator) **units.Quantity { return &g.BasePower }, false),
		mustRunField(),
		optionalQuantity(&model.FieldMetadata{
			Name:        "vom_price",
			Dimension:   units.DimPrice,
			MinValue:    0,
			Description: "Variable operation and maintenance price",
		}, func(g *Generator) **units.Quantity { return &g.VOMPrice }, false),
		primeMover(&model.FieldMetadata{
			Name:        "prime_mover_type",
			Description: "Prime mover technology (EIA-923)",
		}, func(g *Generator) **enums.PrimeMoverType { return &g.PrimeMoverType }),
		primeMover(&model.FieldMetadata{
			Name:        "unit_type",
			Description: "Unit technology (EIA-923 prime mover code)",
		}, func(g *Generator) **enums.PrimeMoverType { return &g.UnitType }),
		limits(&model.FieldMetadata{
			Name:        "active_power_limits",
			MinValue:    0,
			Description: "Active power output limits (MW)",
		}, func(g *Generator) **component.MinMax { return &g.ActivePowerLimits }),
		limits(&model.FieldMetadata{
			Name:        "reactive_power_limits",
			Description: "Reactive power output limits (MVA)",
		}, func(g *Generator) **component.MinMax { return &g.ReactivePowerLimits }),
	}

	fieldIndex = make(map[string]*fieldSpec, len(fieldSpecs))
	for _, s := range fieldSpecs {
		fieldIndex[s.meta.Name] = s
	}
}

// Fields returns the generator field catalog in declaration order.
func Fields() []*model.FieldMetadata {
	out := make([]*model.FieldMetadata, len(fieldSpecs))
	for i, s := range fieldSpecs {
		meta := *s.meta
		out[i] = &meta
	}
	return out
}

// Field returns the metadata of a single field.
func Field(name string) (*model.FieldMetadata, bool) {
	s, ok := fieldIndex[name]
	if !ok {
		return nil, false
	}
	meta := *s.meta
	return &meta, true
}

// Quantity fields.

func decodeQuantity(meta *model.FieldMetadata, v any, o *options) (units.Quantity, error) {
	bare := o.bareUnit(meta.Dimension)
	q, err := model.ToQuantity(v, bare)
	if err != nil {
		return units.Quantity{}, err
	}
	if q.Unit == units.None {
		q.Unit = bare
	}
	return q, nil
}

func optionalQuantity(meta *model.FieldMetadata, ptr func(*Generator) **units.Quantity, nullKept bool) *fieldSpec {
	meta.Kind = model.KindQuantity
	meta.Nullable = true
	return &fieldSpec{
		meta: meta,
		decode: func(g *Generator, v any, o *options) error {
			q, err := decodeQuantity(meta, v, o)
			if err != nil {
				return err
			}
			*ptr(g) = &q
			return nil
		},
		clear: func(g *Generator) { *ptr(g) = nil },
		encode: func(g *Generator) (any, bool) {
			q := *ptr(g)
			if q == nil {
				// A nil that differs from the default must survive a round trip.
				return nil, nullKept
			}
			return *q, true
		},
		validate: func(g *Generator) error {
			q := *ptr(g)
			if q == nil {
				return nil
			}
			return meta.CheckQuantity(*q)
		},
	}
}

func requiredQuantity(meta *model.FieldMetadata, ptr func(*Generator) *units.Quantity) *fieldSpec {
	meta.Kind = model.KindQuantity
	return &fieldSpec{
		meta: meta,
		decode: func(g *Generator, v any, o *options) error {
			q, err := decodeQuantity(meta, v, o)
			if err != nil {
				return err
			}
			*ptr(g) = q
			return nil
		},
		encode: func(g *Generator) (any, bool) {
			return *ptr(g), true
		},
		validate: func(g *Generator) error {
			return meta.CheckQuantity(*ptr(g))
		},
	}
}

func percentage(meta *model.FieldMetadata, ptr func(*Generator) **units.Quantity) *fieldSpec {
	meta.Dimension = units.DimPercentage
	meta.MinValue = 0
	meta.MaxValue = 1
	meta.BoundUnit = units.Fraction
	return optionalQuantity(meta, ptr, false)
}

// Scalar fields.

func optionalInt(meta *model.FieldMetadata, ptr func(*Generator) **int) *fieldSpec {
	meta.Kind = model.KindInt
	meta.Nullable = true
	return &fieldSpec{
		meta: meta,
		decode: func(g *Generator, v any, _ *options) error {
			n, err := model.ToNativeInt(v)
			if err != nil {
				return err
			}
			*ptr(g) = &n
			return nil
		},
		clear: func(g *Generator) { *ptr(g) = nil },
		encode: func(g *Generator) (any, bool) {
			p := *ptr(g)
			if p == nil {
				return nil, false
			}
			return *p, true
		},
		validate: func(g *Generator) error {
			p := *ptr(g)
			if p == nil {
				return nil
			}
			return meta.CheckRange(float64(*p))
		},
	}
}

func floatList(meta *model.FieldMetadata, ptr func(*Generator) *[]float64) *fieldSpec {
	meta.Kind = model.KindFloatList
	meta.Nullable = true
	return &fieldSpec{
		meta: meta,
		decode: func(g *Generator, v any, _ *options) error {
			l, err := model.ToFloatList(v)
			if err != nil {
				return err
			}
			*ptr(g) = l
			return nil
		},
		clear: func(g *Generator) { *ptr(g) = nil },
		encode: func(g *Generator) (any, bool) {
			l := *ptr(g)
			if l == nil {
				return nil, false
			}
			out := make([]float64, len(l))
			copy(out, l)
			return out, true
		},
		validate: func(g *Generator) error {
			return meta.CheckList(*ptr(g))
		},
	}
}

func primeMover(meta *model.FieldMetadata, ptr func(*Generator) **enums.PrimeMoverType) *fieldSpec {
	meta.Kind = model.KindEnum
	meta.Nullable = true
	for _, pm := range enums.AllPrimeMovers() {
		meta.Enum = append(meta.Enum, pm.String())
	}
	return &fieldSpec{
		meta: meta,
		decode: func(g *Generator, v any, _ *options) error {
			var pm enums.PrimeMoverType
			switch t := v.(type) {
			case enums.PrimeMoverType:
				pm = t
			case *enums.PrimeMoverType:
				pm = *t
			case string:
				parsed, err := enums.ParsePrimeMover(t)
				if err != nil {
					return fmt.Errorf("%w: %q", model.ErrNotInEnum, t)
				}
				pm = parsed
			default:
				return fmt.Errorf("%w: expected prime mover code, got %T", model.ErrTypeMismatch, v)
			}
			*ptr(g) = &pm
			return nil
		},
		clear: func(g *Generator) { *ptr(g) = nil },
		encode: func(g *Generator) (any, bool) {
			p := *ptr(g)
			if p == nil {
				return nil, false
			}
			return p.String(), true
		},
		validate: func(g *Generator) error {
			p := *ptr(g)
			if p == nil || p.Valid() {
				return nil
			}
			return fmt.Errorf("%w: prime mover %d", model.ErrNotInEnum, uint8(*p))
		},
	}
}

func limits(meta *model.FieldMetadata, ptr func(*Generator) **component.MinMax) *fieldSpec {
	meta.Kind = model.KindRange
	meta.Nullable = true
	return &fieldSpec{
		meta: meta,
		decode: func(g *Generator, v any, _ *options) error {
			mm, err := component.ParseMinMax(v)
			if err != nil {
				return err
			}
			*ptr(g) = &mm
			return nil
		},
		clear: func(g *Generator) { *ptr(g) = nil },
		encode: func(g *Generator) (any, bool) {
			p := *ptr(g)
			if p == nil {
				return nil, false
			}
			return p.ToMap(), true
		},
		validate: func(g *Generator) error {
			p := *ptr(g)
			if p == nil {
				return nil
			}
			if err := p.Validate(); err != nil {
				return err
			}
			if meta.HasBounds() {
				if err := meta.CheckRange(p.Min); err != nil {
					return fmt.Errorf("min: %w", err)
				}
				if err := meta.CheckRange(p.Max); err != nil {
					return fmt.Errorf("max: %w", err)
				}
			}
			return nil
		},
	}
}

// Identity and reference fields.

func uuidField() *fieldSpec {
	meta := &model.FieldMetadata{
		Name:        "uuid",
		Kind:        model.KindUUID,
		Description: "Unique identifier; generated when omitted",
	}
	return &fieldSpec{
		meta: meta,
		decode: func(g *Generator, v any, _ *options) error {
			id, err := component.ParseUUID(v)
			if err != nil {
				return fmt.Errorf("%w: %v", model.ErrTypeMismatch, err)
			}
			g.UUID = id
			return nil
		},
		encode: func(g *Generator) (any, bool) {
			return g.UUID.String(), true
		},
		validate: func(g *Generator) error {
			if g.UUID == uuid.Nil {
				return fmt.Errorf("%w: nil uuid", model.ErrTypeMismatch)
			}
			return nil
		},
	}
}

func nameField() *fieldSpec {
	meta := &model.FieldMetadata{
		Name:        "name",
		Kind:        model.KindString,
		Default:     "",
		Description: "PLEXOS object name",
	}
	return &fieldSpec{
		meta: meta,
		decode: func(g *Generator, v any, _ *options) error {
			s, err := model.ToString(v)
			if err != nil {
				return err
			}
			g.Name = s
			return nil
		},
		encode: func(g *Generator) (any, bool) {
			return g.Name, true
		},
	}
}

func categoryField() *fieldSpec {
	meta := &model.FieldMetadata{
		Name:        "category",
		Kind:        model.KindString,
		Nullable:    true,
		Description: "PLEXOS object category",
	}
	return &fieldSpec{
		meta: meta,
		decode: func(g *Generator, v any, _ *options) error {
			s, err := model.ToString(v)
			if err != nil {
				return err
			}
			g.Category = s
			return nil
		},
		clear: func(g *Generator) { g.Category = "" },
		encode: func(g *Generator) (any, bool) {
			return g.Category, g.Category != ""
		},
	}
}

func availableField() *fieldSpec {
	meta := &model.FieldMetadata{
		Name:        "available",
		Kind:        model.KindBool,
		Default:     true,
		Description: "Whether the unit is in service",
	}
	return &fieldSpec{
		meta: meta,
		decode: func(g *Generator, v any, _ *options) error {
			b, err := model.ToBool(v)
			if err != nil {
				return err
			}
			g.Available = b
			return nil
		},
		encode: func(g *Generator) (any, bool) {
			return g.Available, true
		},
	}
}

func extField() *fieldSpec {
	meta := &model.FieldMetadata{
		Name:        "ext",
		Kind:        model.KindMap,
		Nullable:    true,
		Description: "Source-specific metadata without a typed field",
	}
	return &fieldSpec{
		meta: meta,
		decode: func(g *Generator, v any, _ *options) error {
			m, ok := model.StringMap(v)
			if !ok {
				return fmt.Errorf("%w: expected mapping, got %T", model.ErrTypeMismatch, v)
			}
			g.Ext = model.NormalizeValue(m).(map[string]any)
			return nil
		},
		clear: func(g *Generator) { g.Ext = nil },
		encode: func(g *Generator) (any, bool) {
			if len(g.Ext) == 0 {
				return nil, false
			}
			out := make(map[string]any, len(g.Ext))
			for k, val := range g.Ext {
				out[k] = val
			}
			return out, true
		},
	}
}

func nodeField() *fieldSpec {
	meta := &model.FieldMetadata{
		Name:        "node",
		Kind:        model.KindRef,
		Nullable:    true,
		Description: "Bus where the generator is connected (alias: bus)",
	}
	return &fieldSpec{
		meta: meta,
		decode: func(g *Generator, v any, _ *options) error {
			bus, err := component.ParseACBus(v)
			if err != nil {
				return err
			}
			g.Node = bus
			return nil
		},
		clear: func(g *Generator) { g.Node = nil },
		encode: func(g *Generator) (any, bool) {
			if g.Node == nil {
				return nil, false
			}
			return g.Node.ToMap(), true
		},
	}
}

func fuelField() *fieldSpec {
	meta := &model.FieldMetadata{
		Name:        "fuel",
		Kind:        model.KindString,
		Nullable:    true,
		Description: "Fuel of the generator",
	}
	return &fieldSpec{
		meta: meta,
		decode: func(g *Generator, v any, _ *options) error {
			s, err := model.ToString(v)
			if err != nil {
				return err
			}
			g.Fuel = &s
			return nil
		},
		clear: func(g *Generator) { g.Fuel = nil },
		encode: func(g *Generator) (any, bool) {
			if g.Fuel == nil {
				return nil, false
			}
			return *g.Fuel, true
		},
	}
}

func baseMVAField() *fieldSpec {
	meta := &model.FieldMetadata{
		Name:        "base_mva",
		Kind:        model.KindFloat,
		MinValue:    0,
		Default:     DefaultBaseMVA,
		Description: "Base MVA used when base_power is not set",
	}
	return &fieldSpec{
		meta: meta,
		decode: func(g *Generator, v any, _ *options) error {
			f, err := model.ToNumber(v)
			if err != nil {
				return err
			}
			g.BaseMVA = f
			return nil
		},
		encode: func(g *Generator) (any, bool) {
			return g.BaseMVA, true
		},
		validate: func(g *Generator) error {
			return meta.CheckRange(g.BaseMVA)
		},
	}
}

func mustRunField() *fieldSpec {
	meta := &model.FieldMetadata{
		Name:        "must_run",
		Kind:        model.KindBool,
		Nullable:    true,
		Description: "Force the dispatch of the unit",
	}
	return &fieldSpec{
		meta: meta,
		decode: func(g *Generator, v any, _ *options) error {
			b, err := model.ToBool(v)
			if err != nil {
				return err
			}
			g.MustRun = &b
			return nil
		},
		clear: func(g *Generator) { g.MustRun = nil },
		encode: func(g *Generator) (any, bool) {
			if g.MustRun == nil {
				return nil, false
			}
			return *g.MustRun, true
		},
	}
}
