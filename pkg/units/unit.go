package units

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Unit errors.
var (
	ErrUnknownUnit       = errors.New("unknown unit")
	ErrIncompatibleUnits = errors.New("incompatible units")
	ErrInvalidQuantity   = errors.New("invalid quantity")
)

// Dimension is the physical dimension a unit measures.
type Dimension uint8

const (
	Dimensionless Dimension = iota
	DimPower
	DimApparentPower
	DimEnergy
	DimTime
	DimPowerRate
	DimPercentage
	DimCurrency
	DimPrice
	DimHeatRate
	DimVoltage
)

// String returns the dimension name.
func (d Dimension) String() string {
	switch d {
	case Dimensionless:
		return "dimensionless"
	case DimPower:
		return "power"
	case DimApparentPower:
		return "apparent power"
	case DimEnergy:
		return "energy"
	case DimTime:
		return "time"
	case DimPowerRate:
		return "power rate"
	case DimPercentage:
		return "percentage"
	case DimCurrency:
		return "currency"
	case DimPrice:
		return "price"
	case DimHeatRate:
		return "heat rate"
	case DimVoltage:
		return "voltage"
	default:
		return "unknown"
	}
}

// DefaultUnit returns the unit assumed for bare numbers of this dimension.
func (d Dimension) DefaultUnit() Unit {
	switch d {
	case DimPower:
		return Megawatt
	case DimApparentPower:
		return MegavoltAmpere
	case DimEnergy:
		return MegawattHour
	case DimTime:
		return Hour
	case DimPowerRate:
		return MegawattPerMinute
	case DimPercentage:
		return Percent
	case DimCurrency:
		return USD
	case DimPrice:
		return USDPerMWh
	case DimHeatRate:
		return MMBtuPerMWh
	case DimVoltage:
		return Kilovolt
	default:
		return None
	}
}

// Unit is a registered unit symbol.
type Unit string

// Registered units.
const (
	None Unit = ""

	Watt     Unit = "W"
	Kilowatt Unit = "kW"
	Megawatt Unit = "MW"
	Gigawatt Unit = "GW"

	VoltAmpere     Unit = "VA"
	KilovoltAmpere Unit = "kVA"
	MegavoltAmpere Unit = "MVA"
	GigavoltAmpere Unit = "GVA"

	WattHour     Unit = "Wh"
	KilowattHour Unit = "kWh"
	MegawattHour Unit = "MWh"
	GigawattHour Unit = "GWh"

	Second Unit = "s"
	Minute Unit = "min"
	Hour   Unit = "h"
	Day    Unit = "day"

	MegawattPerMinute Unit = "MW/min"
	MegawattPerHour   Unit = "MW/h"
	KilowattPerMinute Unit = "kW/min"
	KilowattPerSecond Unit = "kW/s"

	Percent  Unit = "%"
	Fraction Unit = "fraction"

	USD Unit = "usd"

	USDPerMWh Unit = "usd/MWh"
	USDPerKWh Unit = "usd/kWh"

	MMBtuPerMWh Unit = "MMBtu/MWh"
	GJPerMWh    Unit = "GJ/MWh"
	BtuPerKWh   Unit = "Btu/kWh"

	Volt     Unit = "V"
	Kilovolt Unit = "kV"
)

type unitInfo struct {
	dim    Dimension
	factor float64 // multiply by factor to reach the dimension's base unit
}

var registry = map[Unit]unitInfo{
	None: {Dimensionless, 1},

	Watt:     {DimPower, 1},
	Kilowatt: {DimPower, 1e3},
	Megawatt: {DimPower, 1e6},
	Gigawatt: {DimPower, 1e9},

	VoltAmpere:     {DimApparentPower, 1},
	KilovoltAmpere: {DimApparentPower, 1e3},
	MegavoltAmpere: {DimApparentPower, 1e6},
	GigavoltAmpere: {DimApparentPower, 1e9},

	WattHour:     {DimEnergy, 1},
	KilowattHour: {DimEnergy, 1e3},
	MegawattHour: {DimEnergy, 1e6},
	GigawattHour: {DimEnergy, 1e9},

	Second: {DimTime, 1},
	Minute: {DimTime, 60},
	Hour:   {DimTime, 3600},
	Day:    {DimTime, 86400},

	// Base is W/s.
	MegawattPerMinute: {DimPowerRate, 1e6 / 60},
	MegawattPerHour:   {DimPowerRate, 1e6 / 3600},
	KilowattPerMinute: {DimPowerRate, 1e3 / 60},
	KilowattPerSecond: {DimPowerRate, 1e3},

	Percent:  {DimPercentage, 0.01},
	Fraction: {DimPercentage, 1},

	USD: {DimCurrency, 1},

	USDPerMWh: {DimPrice, 1},
	USDPerKWh: {DimPrice, 1e3},

	// 1 GJ = 0.9478171203 MMBtu.
	MMBtuPerMWh: {DimHeatRate, 1},
	GJPerMWh:    {DimHeatRate, 0.9478171203},
	BtuPerKWh:   {DimHeatRate, 1e-3},

	Volt:     {DimVoltage, 1},
	Kilovolt: {DimVoltage, 1e3},
}

// aliases maps accepted spellings (lower-cased) to canonical units.
var aliases = map[string]Unit{
	"$":         USD,
	"$/mwh":     USDPerMWh,
	"$/kwh":     USDPerKWh,
	"usd/mwh":   USDPerMWh,
	"usd/kwh":   USDPerKWh,
	"hr":        Hour,
	"hrs":       Hour,
	"hour":      Hour,
	"hours":     Hour,
	"minutes":   Minute,
	"sec":       Second,
	"days":      Day,
	"percent":   Percent,
	"pct":       Percent,
	"mw/hr":     MegawattPerHour,
	"mmbtu/mwh": MMBtuPerMWh,
	"gj/mwh":    GJPerMWh,
	"btu/kwh":   BtuPerKWh,
}

// LookupUnit resolves a unit symbol or alias to its canonical Unit.
// Canonical symbols are case-sensitive (mW is not MW); aliases are not.
func LookupUnit(symbol string) (Unit, error) {
	s := strings.TrimSpace(symbol)
	if _, ok := registry[Unit(s)]; ok {
		return Unit(s), nil
	}
	if u, ok := aliases[strings.ToLower(s)]; ok {
		return u, nil
	}
	return None, fmt.Errorf("%w: %q", ErrUnknownUnit, symbol)
}

// Valid returns true if the unit is registered.
func (u Unit) Valid() bool {
	_, ok := registry[u]
	return ok
}

// Dimension returns the dimension of the unit. Unregistered units report
// Dimensionless; check Valid first when that matters.
func (u Unit) Dimension() Dimension {
	return registry[u].dim
}

// String returns the unit symbol.
func (u Unit) String() string {
	return string(u)
}

// UnitsOf returns the registered units of a dimension, sorted by factor.
func UnitsOf(d Dimension) []Unit {
	var out []Unit
	for u, info := range registry {
		if info.dim == d {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return registry[out[i]].factor < registry[out[j]].factor
	})
	return out
}

// Convert converts a magnitude from one unit to another of the same dimension.
func Convert(value float64, from, to Unit) (float64, error) {
	fi, ok := registry[from]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownUnit, from)
	}
	ti, ok := registry[to]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownUnit, to)
	}
	if fi.dim != ti.dim {
		return 0, fmt.Errorf("%w: %s (%s) to %s (%s)", ErrIncompatibleUnits, from, fi.dim, to, ti.dim)
	}
	if from == to {
		return value, nil
	}
	return value * fi.factor / ti.factor, nil
}
