package plexos_test

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/r2x-project/r2x-go/pkg/enums"
	"github.com/r2x-project/r2x-go/pkg/model"
	"github.com/r2x-project/r2x-go/pkg/plexos"
	"github.com/r2x-project/r2x-go/pkg/units"
)

// requireViolation asserts that err carries a violation of constraint on field.
func requireViolation(t *testing.T, err error, field, constraint string) {
	t.Helper()
	require.Error(t, err)
	verrs, ok := model.AsValidationErrors(err)
	require.True(t, ok, "expected ValidationErrors, got %T: %v", err, err)
	fe := verrs.For(field)
	require.NotNil(t, fe, "no violation on %s in %v", field, verrs.Fields())
	assert.Equal(t, constraint, fe.Constraint, "field %s: %v", field, fe.Err)
}

func fullRecord() map[string]any {
	return map[string]any{
		"uuid":                  "7b5b0d4c-3f1e-4b7a-9c3d-2a1e6f0b9c11",
		"name":                  "Coal_1",
		"category":              "thermal",
		"available":             true,
		"ext":                   map[string]any{"source": "reeds", "plexos_id": 7, "weight": 1.5, "tags": []any{"base", 2}},
		"node":                  map[string]any{"name": "Node_12", "number": 12, "base_voltage": "230 kV"},
		"fuel":                  "COAL",
		"max_capacity":          "450 MW",
		"min_stable_level":      "180 MW",
		"units":                 2,
		"load_points":           []any{180, 300, 450},
		"heat_rate":             "10.2 MMBtu/MWh",
		"heat_rate_base":        "1.5 MMBtu/MWh",
		"heat_rate_incr":        []any{9.1, 9.6, 10.4},
		"start_cost":            "25000 usd",
		"shutdown_cost":         "1000 usd",
		"min_up_time":           "24 h",
		"min_down_time":         "12 h",
		"max_ramp_up":           "4 MW/min",
		"max_ramp_down":         "3.5 MW/min",
		"pump_efficiency":       nil,
		"pump_load":             nil,
		"mean_time_to_repair":   "48 h",
		"generator_commit":      -1,
		"forced_outage_rate":    6,
		"planned_outage_rate":   "4.5 %",
		"active_power":          "200 MW",
		"reactive_power":        "20 MVA",
		"base_mva":              100,
		"base_power":            "500 MVA",
		"must_run":              false,
		"vom_price":             "3.5 usd/MWh",
		"prime_mover_type":      "ST",
		"unit_type":             "st",
		"active_power_limits":   map[string]any{"min": 180, "max": 450},
		"reactive_power_limits": []any{-50, 50},
	}
}

func TestNewGenerator_Full(t *testing.T) {
	g, err := plexos.NewGenerator(fullRecord())
	require.NoError(t, err)

	assert.Equal(t, "Coal_1", g.Name)
	assert.Equal(t, "thermal", g.Category)
	assert.Equal(t, uuid.MustParse("7b5b0d4c-3f1e-4b7a-9c3d-2a1e6f0b9c11"), g.UUID)
	require.NotNil(t, g.Node)
	assert.Equal(t, "Node_12", g.Node.Name)
	assert.Equal(t, 12, g.Node.Number)
	assert.Equal(t, units.MW(450), *g.MaxCapacity)
	assert.Equal(t, units.MW(180), g.MinStableLevel)
	assert.Equal(t, 2, *g.Units)
	assert.Equal(t, []float64{180, 300, 450}, g.LoadPoints)
	assert.Equal(t, units.New(10.2, units.MMBtuPerMWh), *g.HeatRate)
	assert.Equal(t, units.New(4, units.MegawattPerMinute), *g.MaxRampUp)
	assert.Equal(t, units.Pct(6), *g.ForcedOutageRate)
	assert.Equal(t, units.Pct(4.5), *g.PlannedOutageRate)
	assert.Nil(t, g.PumpEfficiency)
	assert.Nil(t, g.PumpLoad)
	assert.Equal(t, 100.0, g.BaseMVA)
	require.NotNil(t, g.MustRun)
	assert.False(t, *g.MustRun)
	assert.Equal(t, enums.PrimeMoverST, *g.PrimeMoverType)
	assert.Equal(t, enums.PrimeMoverST, *g.UnitType)
	assert.Equal(t, 180.0, g.ActivePowerLimits.Min)
	assert.Equal(t, -50.0, g.ReactivePowerLimits.Min)
	assert.True(t, g.CommitOptimized())
	assert.Equal(t, map[string]any{
		"source":    "reeds",
		"plexos_id": int64(7),
		"weight":    1.5,
		"tags":      []any{"base", int64(2)},
	}, g.Ext)

	fuel, ok := g.ThermalFuel()
	assert.True(t, ok)
	assert.Equal(t, enums.FuelCoal, fuel)
}

func TestNewGenerator_Defaults(t *testing.T) {
	g, err := plexos.NewGenerator(map[string]any{"max_capacity": units.MW(100)})
	require.NoError(t, err)

	assert.Equal(t, units.MW(100), *g.MaxCapacity)
	assert.Equal(t, units.MW(0), g.MinStableLevel)
	assert.Nil(t, g.Node)
	assert.Equal(t, units.MW(0), g.ActivePower)
	require.NotNil(t, g.ReactivePower)
	assert.Equal(t, units.MVA(0), *g.ReactivePower)
	assert.Equal(t, plexos.DefaultBaseMVA, g.BaseMVA)
	assert.True(t, g.Available)
	assert.NotEqual(t, uuid.Nil, g.UUID)
	assert.Empty(t, g.Name)

	assert.Nil(t, g.Fuel)
	assert.Nil(t, g.Units)
	assert.Nil(t, g.LoadPoints)
	assert.Nil(t, g.HeatRate)
	assert.Nil(t, g.MeanTimeToRepair)
	assert.Nil(t, g.GeneratorCommit)
	assert.Nil(t, g.MustRun)
	assert.Nil(t, g.PrimeMoverType)
	assert.Nil(t, g.ActivePowerLimits)
	assert.True(t, g.CommitOptimized())

	_, ok := g.ThermalFuel()
	assert.False(t, ok)
}

func TestNewGenerator_EmptyMapping(t *testing.T) {
	g, err := plexos.NewGenerator(nil)
	require.NoError(t, err)
	assert.Equal(t, units.MW(0), *g.MaxCapacity)

	a, _ := plexos.NewGenerator(nil)
	assert.NotEqual(t, g.UUID, a.UUID)
}

func TestNewGenerator_NegativeMaxCapacity(t *testing.T) {
	g, err := plexos.NewGenerator(map[string]any{"max_capacity": units.MW(-10)})
	assert.Nil(t, g)
	requireViolation(t, err, "max_capacity", model.ConstraintNonNegative)
	assert.ErrorIs(t, err, model.ErrNegative)

	verrs, _ := model.AsValidationErrors(err)
	assert.Equal(t, []string{"max_capacity"}, verrs.Fields())
}

func TestNewGenerator_NonNegativeFields(t *testing.T) {
	fields := map[string]any{
		"max_capacity":        -1,
		"min_stable_level":    -1,
		"units":               -1,
		"load_points":         []any{10, -5},
		"heat_rate":           -1,
		"heat_rate_base":      -1,
		"heat_rate_incr":      []any{-0.5},
		"start_cost":          -1,
		"shutdown_cost":       -1,
		"min_up_time":         -1,
		"min_down_time":       -1,
		"max_ramp_up":         -1,
		"max_ramp_down":       -1,
		"pump_efficiency":     -1,
		"pump_load":           -1,
		"forced_outage_rate":  -1,
		"planned_outage_rate": -1,
		"active_power":        -1,
		"reactive_power":      -1,
		"base_mva":            -1,
		"vom_price":           -1,
		"active_power_limits": []any{-1, 10},
	}

	for field, value := range fields {
		t.Run(field, func(t *testing.T) {
			_, err := plexos.NewGenerator(map[string]any{field: value})
			requireViolation(t, err, field, model.ConstraintNonNegative)
		})
	}

	for field := range fields {
		t.Run(field+"/zero", func(t *testing.T) {
			value := any(0)
			if field == "load_points" || field == "heat_rate_incr" || field == "active_power_limits" {
				value = []any{0, 0}
			}
			_, err := plexos.NewGenerator(map[string]any{field: value})
			assert.NoError(t, err)
		})
	}
}

func TestNewGenerator_StrictlyPositive(t *testing.T) {
	for _, field := range []string{"mean_time_to_repair", "base_power"} {
		for _, v := range []any{0, -3} {
			_, err := plexos.NewGenerator(map[string]any{field: v})
			requireViolation(t, err, field, model.ConstraintPositive)
		}
	}

	g, err := plexos.NewGenerator(map[string]any{"mean_time_to_repair": 0.5})
	require.NoError(t, err)
	assert.Equal(t, units.Hours(0.5), *g.MeanTimeToRepair)
}

func TestNewGenerator_GeneratorCommit(t *testing.T) {
	tests := []struct {
		value any
		ok    bool
	}{
		{-1, true},
		{0, true},
		{3, true},
		{-2, false},
		{-100, false},
	}

	for _, tt := range tests {
		g, err := plexos.NewGenerator(map[string]any{"generator_commit": tt.value})
		if tt.ok {
			require.NoError(t, err, "generator_commit=%v", tt.value)
			assert.Equal(t, tt.value, *g.GeneratorCommit)
			continue
		}
		requireViolation(t, err, "generator_commit", model.ConstraintMinimum)
	}

	g, err := plexos.NewGenerator(map[string]any{"generator_commit": 2})
	require.NoError(t, err)
	assert.False(t, g.CommitOptimized())

	_, err = plexos.NewGenerator(map[string]any{"generator_commit": 1.5})
	requireViolation(t, err, "generator_commit", model.ConstraintType)
}

func TestNewGenerator_IntegerOverflow(t *testing.T) {
	for _, field := range []string{"generator_commit", "units"} {
		_, err := plexos.NewGenerator(map[string]any{field: 1e19})
		requireViolation(t, err, field, model.ConstraintType)

		verrs, _ := model.AsValidationErrors(err)
		fe := verrs.For(field)
		assert.Equal(t, 1e19, fe.Value)
		assert.ErrorContains(t, fe, "overflows")
	}

	_, err := plexos.NewGenerator(map[string]any{"node": map[string]any{"name": "N", "number": -1e19}})
	requireViolation(t, err, "node", model.ConstraintType)
}

func TestNewGenerator_Percentages(t *testing.T) {
	t.Run("PercentScale", func(t *testing.T) {
		g, err := plexos.NewGenerator(map[string]any{"forced_outage_rate": 5})
		require.NoError(t, err)
		assert.Equal(t, units.Pct(5), *g.ForcedOutageRate)
		assert.InDelta(t, 0.05, g.ForcedOutageRate.In(units.Fraction), 1e-12)
	})

	t.Run("FractionScale", func(t *testing.T) {
		g, err := plexos.NewGenerator(map[string]any{"forced_outage_rate": 0.05},
			plexos.WithPercentScale(plexos.PercentScaleUnit))
		require.NoError(t, err)
		assert.Equal(t, units.New(0.05, units.Fraction), *g.ForcedOutageRate)
		assert.InDelta(t, 5, g.ForcedOutageRate.In(units.Percent), 1e-12)
	})

	t.Run("ExplicitUnitWins", func(t *testing.T) {
		g, err := plexos.NewGenerator(map[string]any{"pump_efficiency": "80 %"},
			plexos.WithPercentScale(plexos.PercentScaleUnit))
		require.NoError(t, err)
		assert.Equal(t, units.Pct(80), *g.PumpEfficiency)
	})

	t.Run("AboveHundred", func(t *testing.T) {
		_, err := plexos.NewGenerator(map[string]any{"forced_outage_rate": 150})
		requireViolation(t, err, "forced_outage_rate", model.ConstraintMaximum)

		_, err = plexos.NewGenerator(map[string]any{"pump_efficiency": 1.2},
			plexos.WithPercentScale(plexos.PercentScaleUnit))
		requireViolation(t, err, "pump_efficiency", model.ConstraintMaximum)
	})

	t.Run("WrongDimension", func(t *testing.T) {
		_, err := plexos.NewGenerator(map[string]any{"forced_outage_rate": "5 MW"})
		requireViolation(t, err, "forced_outage_rate", model.ConstraintUnit)
	})
}

func TestParsePercentScale(t *testing.T) {
	s, err := plexos.ParsePercentScale("fraction")
	require.NoError(t, err)
	assert.Equal(t, plexos.PercentScaleUnit, s)
	assert.Equal(t, "fraction", s.String())

	s, err = plexos.ParsePercentScale("")
	require.NoError(t, err)
	assert.Equal(t, plexos.PercentScaleHundred, s)

	_, err = plexos.ParsePercentScale("permille")
	assert.Error(t, err)
}

func TestNewGenerator_Units(t *testing.T) {
	t.Run("Converted", func(t *testing.T) {
		g, err := plexos.NewGenerator(map[string]any{"max_capacity": "0.45 GW", "min_up_time": "90 min"})
		require.NoError(t, err)
		assert.InDelta(t, 450, g.MaxCapacity.In(units.Megawatt), 1e-9)
		assert.InDelta(t, 1.5, g.MinUpTime.In(units.Hour), 1e-9)
	})

	t.Run("BoundsCheckedAfterConversion", func(t *testing.T) {
		_, err := plexos.NewGenerator(map[string]any{"max_capacity": "-1 kW"})
		requireViolation(t, err, "max_capacity", model.ConstraintNonNegative)
	})

	t.Run("Incompatible", func(t *testing.T) {
		tests := map[string]any{
			"max_capacity":   "100 MWh",
			"reactive_power": "10 MW",
			"min_up_time":    units.MW(4),
			"vom_price":      "3 usd",
			"heat_rate":      map[string]any{"value": 10, "unit": "MW"},
		}
		for field, v := range tests {
			_, err := plexos.NewGenerator(map[string]any{field: v})
			requireViolation(t, err, field, model.ConstraintUnit)
		}
	})

	t.Run("UnknownSymbol", func(t *testing.T) {
		_, err := plexos.NewGenerator(map[string]any{"max_capacity": "100 furlongs"})
		requireViolation(t, err, "max_capacity", model.ConstraintUnit)
	})

	t.Run("AlternativeHeatRate", func(t *testing.T) {
		g, err := plexos.NewGenerator(map[string]any{"heat_rate": "10500 Btu/kWh"})
		require.NoError(t, err)
		assert.InDelta(t, 10.5, g.HeatRate.In(units.MMBtuPerMWh), 1e-9)
	})
}

func TestNewGenerator_Types(t *testing.T) {
	tests := []struct {
		field string
		value any
	}{
		{"name", 42},
		{"max_capacity", true},
		{"max_capacity", []any{1}},
		{"units", "two"},
		{"load_points", "1,2,3"},
		{"load_points", []any{1, "x"}},
		{"fuel", 3},
		{"unit_type", 5},
		{"uuid", "not-a-uuid"},
		{"node", 12},
		{"ext", []any{"a"}},
		{"base_mva", true},
		{"available", "maybe"},
	}

	for _, tt := range tests {
		_, err := plexos.NewGenerator(map[string]any{tt.field: tt.value})
		requireViolation(t, err, tt.field, model.ConstraintType)
	}
}

func TestNewGenerator_Nulls(t *testing.T) {
	for _, field := range []string{"min_stable_level", "active_power", "base_mva", "available", "name", "uuid"} {
		_, err := plexos.NewGenerator(map[string]any{field: nil})
		requireViolation(t, err, field, model.ConstraintNull)
	}

	g, err := plexos.NewGenerator(map[string]any{
		"max_capacity":   nil,
		"reactive_power": nil,
		"node":           nil,
		"fuel":           nil,
		"must_run":       nil,
	})
	require.NoError(t, err)
	assert.Nil(t, g.MaxCapacity)
	assert.Nil(t, g.ReactivePower)
	assert.Nil(t, g.Node)

	back, err := plexos.NewGenerator(g.ToMap())
	require.NoError(t, err)
	assert.Nil(t, back.MaxCapacity, "explicit null survives a round trip")
	assert.Nil(t, back.ReactivePower)
}

func TestNewGenerator_Enums(t *testing.T) {
	for _, pm := range enums.AllPrimeMovers() {
		g, err := plexos.NewGenerator(map[string]any{"prime_mover_type": pm.String(), "unit_type": pm})
		require.NoError(t, err, pm.String())
		assert.Equal(t, pm, *g.PrimeMoverType)
		assert.Equal(t, pm, *g.UnitType)
	}

	_, err := plexos.NewGenerator(map[string]any{"prime_mover_type": "XX"})
	requireViolation(t, err, "prime_mover_type", model.ConstraintEnum)

	_, err = plexos.NewGenerator(map[string]any{"unit_type": enums.PrimeMoverType(200)})
	requireViolation(t, err, "unit_type", model.ConstraintEnum)
}

func TestNewGenerator_MustRun(t *testing.T) {
	tests := []struct {
		value any
		want  bool
	}{
		{true, true},
		{false, false},
		{1, true},
		{0, false},
		{"yes", true},
	}
	for _, tt := range tests {
		g, err := plexos.NewGenerator(map[string]any{"must_run": tt.value})
		require.NoError(t, err)
		assert.Equal(t, tt.want, *g.MustRun, "must_run=%v", tt.value)
	}

	_, err := plexos.NewGenerator(map[string]any{"must_run": 2})
	requireViolation(t, err, "must_run", model.ConstraintEnum)
}

func TestNewGenerator_Limits(t *testing.T) {
	_, err := plexos.NewGenerator(map[string]any{"active_power_limits": map[string]any{"min": 100, "max": 50}})
	requireViolation(t, err, "active_power_limits", model.ConstraintShape)

	_, err = plexos.NewGenerator(map[string]any{"reactive_power_limits": []any{1, 2, 3}})
	requireViolation(t, err, "reactive_power_limits", model.ConstraintShape)

	g, err := plexos.NewGenerator(map[string]any{"reactive_power_limits": map[string]any{"min": -30, "max": 30}})
	require.NoError(t, err)
	assert.True(t, g.ReactivePowerLimits.Contains(0))
}

func TestNewGenerator_AllErrorsReported(t *testing.T) {
	_, err := plexos.NewGenerator(map[string]any{
		"name":                "Broken",
		"max_capacity":        -10,
		"units":               -1,
		"mean_time_to_repair": 0,
		"prime_mover_type":    "XX",
		"fuel":                7,
	})
	require.Error(t, err)

	verrs, ok := model.AsValidationErrors(err)
	require.True(t, ok)
	assert.Equal(t, []string{"fuel", "max_capacity", "mean_time_to_repair", "prime_mover_type", "units"}, verrs.Fields())
	assert.ErrorIs(t, err, model.ErrNegative)
	assert.ErrorIs(t, err, model.ErrNotPositive)
	assert.ErrorIs(t, err, model.ErrNotInEnum)
	assert.ErrorIs(t, err, model.ErrTypeMismatch)

	var fe *model.FieldError
	require.True(t, errors.As(err, &fe))
	assert.Contains(t, err.Error(), "validation failed with 5 errors")
}

func TestNewGenerator_UnknownFields(t *testing.T) {
	g, err := plexos.NewGenerator(map[string]any{"name": "G", "colour": "red"})
	require.NoError(t, err)
	assert.Equal(t, "G", g.Name)

	_, err = plexos.NewGenerator(map[string]any{"name": "G", "colour": "red"}, plexos.WithDisallowUnknownFields())
	requireViolation(t, err, "colour", model.ConstraintUnknownField)
}

func TestNewGenerator_BusAlias(t *testing.T) {
	g, err := plexos.NewGenerator(map[string]any{"bus": "Node_1"})
	require.NoError(t, err)
	require.NotNil(t, g.Node)
	assert.Equal(t, "Node_1", g.Node.Name)
	_, present := g.ToMap()["bus"]
	assert.False(t, present)

	_, err = plexos.NewGenerator(map[string]any{"bus": "Node_1", "node": "Node_2"})
	requireViolation(t, err, "bus", model.ConstraintShape)
}

func TestNewGenerator_HeatRateShape(t *testing.T) {
	fields := map[string]any{
		"load_points":    []any{100, 200, 300},
		"heat_rate_incr": []any{9.5, 10},
	}
	_, err := plexos.NewGenerator(fields)
	requireViolation(t, err, "heat_rate_incr", model.ConstraintShape)

	g, err := plexos.NewGenerator(fields, plexos.WithoutHeatRateShapeCheck())
	require.NoError(t, err)
	assert.Len(t, g.HeatRateIncr, 2)

	_, err = plexos.NewGenerator(map[string]any{"heat_rate_incr": []any{9.5}})
	assert.NoError(t, err, "increments without load points are not checked")
}

func TestGenerator_Validate(t *testing.T) {
	g := plexos.New("Manual")
	require.NoError(t, g.Validate())

	bad := units.MW(-5)
	g.MaxCapacity = &bad
	commit := -3
	g.GeneratorCommit = &commit
	g.LoadPoints = []float64{1, 2}
	g.HeatRateIncr = []float64{1}

	err := g.Validate()
	requireViolation(t, err, "max_capacity", model.ConstraintNonNegative)
	requireViolation(t, err, "generator_commit", model.ConstraintMinimum)
	requireViolation(t, err, "heat_rate_incr", model.ConstraintShape)

	assert.NoError(t, plexos.New("x").Validate(plexos.WithoutHeatRateShapeCheck()))
}

func TestGenerator_RoundTrip(t *testing.T) {
	g, err := plexos.NewGenerator(fullRecord())
	require.NoError(t, err)

	t.Run("Mapping", func(t *testing.T) {
		back, err := plexos.NewGenerator(g.ToMap())
		require.NoError(t, err)
		assert.True(t, g.Equal(back, units.DefaultTolerance))
	})

	t.Run("JSON", func(t *testing.T) {
		data, err := json.Marshal(g)
		require.NoError(t, err)

		var back plexos.Generator
		require.NoError(t, json.Unmarshal(data, &back))
		assert.True(t, g.Equal(&back, units.DefaultTolerance))
		assert.Equal(t, g.Ext, back.Ext, "ext numbers stay numbers")
	})

	t.Run("YAML", func(t *testing.T) {
		data, err := yaml.Marshal(g)
		require.NoError(t, err)

		var back plexos.Generator
		require.NoError(t, yaml.Unmarshal(data, &back))
		assert.True(t, g.Equal(&back, units.DefaultTolerance), string(data))
		assert.Equal(t, g.Ext, back.Ext)
	})

	t.Run("CBOR", func(t *testing.T) {
		data, err := cbor.Marshal(g)
		require.NoError(t, err)

		var back plexos.Generator
		require.NoError(t, cbor.Unmarshal(data, &back))
		assert.True(t, g.Equal(&back, units.DefaultTolerance))
		assert.Equal(t, g.Ext, back.Ext)
	})

	t.Run("Defaults", func(t *testing.T) {
		d := plexos.New("only-defaults")
		back, err := plexos.NewGenerator(d.ToMap())
		require.NoError(t, err)
		assert.True(t, d.Equal(back, 0))
		assert.Equal(t, d.UUID, back.UUID)
	})
}

func TestGenerator_UnmarshalInvalid(t *testing.T) {
	var g plexos.Generator
	err := json.Unmarshal([]byte(`{"max_capacity": {"value": -10, "unit": "MW"}}`), &g)
	requireViolation(t, err, "max_capacity", model.ConstraintNonNegative)

	err = yaml.Unmarshal([]byte("- a\n- b\n"), &g)
	assert.Error(t, err)
}

func TestGenerator_Equal(t *testing.T) {
	a, err := plexos.NewGenerator(map[string]any{"uuid": uuid.NewString(), "max_capacity": 100})
	require.NoError(t, err)

	b, err := plexos.NewGenerator(a.ToMap())
	require.NoError(t, err)
	near := units.MW(100 * (1 + 1e-12))
	b.MaxCapacity = &near
	assert.True(t, a.Equal(b, units.DefaultTolerance))
	assert.False(t, a.Equal(b, 0))

	b.Units = new(int)
	assert.False(t, a.Equal(b, units.DefaultTolerance))

	assert.False(t, a.Equal(nil, 1))
	var none *plexos.Generator
	assert.True(t, none.Equal(nil, 1))
}

func TestGenerator_PerUnit(t *testing.T) {
	g, err := plexos.NewGenerator(map[string]any{"base_mva": 100})
	require.NoError(t, err)

	pu, err := g.PerUnit(units.MW(50))
	require.NoError(t, err)
	assert.InDelta(t, 0.5, pu, 1e-12)

	g, err = plexos.NewGenerator(map[string]any{"base_mva": 100, "base_power": "0.2 GVA"})
	require.NoError(t, err)
	pu, err = g.PerUnit(units.MVA(50))
	require.NoError(t, err)
	assert.InDelta(t, 0.25, pu, 1e-12)

	_, err = g.PerUnit(units.MWh(1))
	assert.ErrorIs(t, err, model.ErrIncompatibleUnit)

	g.BaseMVA = 0
	g.BasePower = nil
	_, err = g.PerUnit(units.MW(1))
	assert.ErrorIs(t, err, model.ErrNotPositive)
}

func TestGenerator_StorageTech(t *testing.T) {
	tests := []struct {
		name   string
		fields map[string]any
		want   enums.StorageTech
		ok     bool
	}{
		{"FromFuel", map[string]any{"prime_mover_type": "BA", "fuel": "lib"}, enums.StorageLIB, true},
		{"FromCategory", map[string]any{"prime_mover_type": "BA", "fuel": "ELECTRICITY", "category": "FLWB"}, enums.StorageFLWB, true},
		{"Unresolved", map[string]any{"prime_mover_type": "PS", "fuel": "WATER"}, enums.StorageUnknown, false},
		{"NotStorage", map[string]any{"prime_mover_type": "ST", "fuel": "LIB"}, enums.StorageUnknown, false},
		{"NoPrimeMover", map[string]any{"fuel": "LIB"}, enums.StorageUnknown, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := plexos.NewGenerator(tt.fields)
			require.NoError(t, err)
			got, ok := g.StorageTech()
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGenerator_PumpPower(t *testing.T) {
	g, err := plexos.NewGenerator(map[string]any{
		"prime_mover_type": "PS",
		"max_capacity":     "0.3 GW",
		"pump_load":        "280 MW",
	})
	require.NoError(t, err)

	io, ok := g.PumpPower()
	require.True(t, ok)
	assert.InDelta(t, 280, io.In, 1e-9)
	assert.InDelta(t, 300, io.Out, 1e-9)

	g.PumpLoad = nil
	_, ok = g.PumpPower()
	assert.False(t, ok)
}

func TestGenerator_RampLimits(t *testing.T) {
	g, err := plexos.NewGenerator(map[string]any{"max_ramp_up": "4 MW/min", "max_ramp_down": "120 MW/h"})
	require.NoError(t, err)

	r, ok := g.RampLimits()
	require.True(t, ok)
	assert.InDelta(t, 4, r.Up, 1e-9)
	assert.InDelta(t, 2, r.Down, 1e-9)

	g.MaxRampDown = nil
	r, ok = g.RampLimits()
	require.True(t, ok)
	assert.True(t, math.IsInf(r.Down, 1))

	_, ok = plexos.New("flat").RampLimits()
	assert.False(t, ok)
}

func TestFields(t *testing.T) {
	fields := plexos.Fields()
	require.NotEmpty(t, fields)
	assert.Equal(t, "uuid", fields[0].Name)

	seen := make(map[string]bool)
	for _, f := range fields {
		assert.False(t, seen[f.Name], "duplicate field %s", f.Name)
		seen[f.Name] = true
		assert.NotEmpty(t, f.Description, f.Name)
	}
	for _, name := range []string{
		"max_capacity", "min_stable_level", "units", "load_points", "heat_rate",
		"heat_rate_base", "heat_rate_incr", "start_cost", "shutdown_cost",
		"min_up_time", "min_down_time", "max_ramp_up", "max_ramp_down",
		"pump_efficiency", "pump_load", "mean_time_to_repair", "generator_commit",
		"forced_outage_rate", "planned_outage_rate", "active_power", "reactive_power",
		"base_mva", "base_power", "must_run", "vom_price", "prime_mover_type",
		"unit_type", "active_power_limits", "reactive_power_limits", "node", "fuel",
	} {
		assert.True(t, seen[name], "missing field %s", name)
	}

	mttr, ok := plexos.Field("mean_time_to_repair")
	require.True(t, ok)
	assert.True(t, mttr.ExclusiveMin)
	assert.Equal(t, units.DimTime, mttr.Dimension)

	pm, ok := plexos.Field("prime_mover_type")
	require.True(t, ok)
	assert.Len(t, pm.Enum, len(enums.AllPrimeMovers()))

	// Returned metadata is a copy.
	mttr.Name = "changed"
	again, _ := plexos.Field("mean_time_to_repair")
	assert.Equal(t, "mean_time_to_repair", again.Name)

	_, ok = plexos.Field("bus")
	assert.False(t, ok)
}
