package enums

import (
	"fmt"
	"strings"
)

// ThermalFuel is the primary fuel of a thermal unit.
type ThermalFuel uint8

const (
	FuelUnknown ThermalFuel = iota
	FuelCoal
	FuelNaturalGas
	FuelDistillateFuelOil
	FuelResidualFuelOil
	FuelNuclear
	FuelWoodWasteSolids
	FuelAgByproduct
	FuelMunicipalWaste
	FuelGeothermal
	FuelOther
)

var fuelNames = [...]string{
	"UNKNOWN",
	"COAL",
	"NATURAL_GAS",
	"DISTILLATE_FUEL_OIL",
	"RESIDUAL_FUEL_OIL",
	"NUCLEAR",
	"WOOD_WASTE_SOLIDS",
	"AG_BYPRODUCT",
	"MUNICIPAL_WASTE",
	"GEOTHERMAL",
	"OTHER",
}

// EIA energy source codes accepted as fuel aliases.
var fuelAliases = map[string]ThermalFuel{
	"BIT": FuelCoal,
	"SUB": FuelCoal,
	"LIG": FuelCoal,
	"RC":  FuelCoal,
	"NG":  FuelNaturalGas,
	"GAS": FuelNaturalGas,
	"DFO": FuelDistillateFuelOil,
	"RFO": FuelResidualFuelOil,
	"NUC": FuelNuclear,
	"WDS": FuelWoodWasteSolids,
	"AB":  FuelAgByproduct,
	"MSW": FuelMunicipalWaste,
	"GEO": FuelGeothermal,
	"OTH": FuelOther,
	"OIL": FuelDistillateFuelOil,
}

// ParseThermalFuel parses a fuel name or EIA energy source code.
// Separators are normalized, so "natural gas", "Natural-Gas" and
// "NATURAL_GAS" are the same fuel.
func ParseThermalFuel(s string) (ThermalFuel, error) {
	key := strings.ToUpper(strings.TrimSpace(s))
	key = strings.NewReplacer(" ", "_", "-", "_").Replace(key)
	for i := 1; i < len(fuelNames); i++ {
		if fuelNames[i] == key {
			return ThermalFuel(i), nil
		}
	}
	if f, ok := fuelAliases[key]; ok {
		return f, nil
	}
	return FuelUnknown, fmt.Errorf("%w: thermal fuel %q", ErrUnknownValue, s)
}

// Valid returns true for enumeration members.
func (f ThermalFuel) Valid() bool {
	return f > FuelUnknown && int(f) < len(fuelNames)
}

// String returns the fuel name.
func (f ThermalFuel) String() string {
	if int(f) < len(fuelNames) {
		return fuelNames[f]
	}
	return "UNKNOWN"
}

// MarshalText implements encoding.TextMarshaler.
func (f ThermalFuel) MarshalText() ([]byte, error) {
	if !f.Valid() {
		return nil, fmt.Errorf("%w: thermal fuel %d", ErrUnknownValue, uint8(f))
	}
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *ThermalFuel) UnmarshalText(text []byte) error {
	v, err := ParseThermalFuel(string(text))
	if err != nil {
		return err
	}
	*f = v
	return nil
}

// StorageTech is the technology of an energy storage unit.
type StorageTech uint8

const (
	StorageUnknown StorageTech = iota
	StoragePTES                // Pumped thermal energy storage
	StorageLIB                 // Lithium-ion battery
	StorageLAB                 // Lead-acid battery
	StorageFLWB                // Flow battery
	StorageSOES                // Solid-state energy storage
	StorageLIION               // Lithium-ion, alternate code
	StorageLEAD                // Lead, alternate code
	StorageOtherChem           // Other chemical storage
)

var storageCodes = [...]string{
	"UNKNOWN", "PTES", "LIB", "LAB", "FLWB", "SOES", "LIION", "LEAD", "OTHER_CHEM",
}

// ParseStorageTech parses a storage technology code (case-insensitive).
func ParseStorageTech(s string) (StorageTech, error) {
	code := strings.ToUpper(strings.TrimSpace(s))
	for i := 1; i < len(storageCodes); i++ {
		if storageCodes[i] == code {
			return StorageTech(i), nil
		}
	}
	return StorageUnknown, fmt.Errorf("%w: storage technology %q", ErrUnknownValue, s)
}

// Valid returns true for enumeration members.
func (s StorageTech) Valid() bool {
	return s > StorageUnknown && int(s) < len(storageCodes)
}

// String returns the technology code.
func (s StorageTech) String() string {
	if int(s) < len(storageCodes) {
		return storageCodes[s]
	}
	return "UNKNOWN"
}
