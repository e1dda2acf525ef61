package enums

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownValue is returned when a string is not a member of an enumeration.
var ErrUnknownValue = errors.New("value not in enumeration")

// PrimeMoverType is the generation technology per EIA-923.
type PrimeMoverType uint8

const (
	PrimeMoverUnknown PrimeMoverType = iota
	PrimeMoverBA                     // Energy storage, battery
	PrimeMoverBT                     // Turbines used in a binary cycle
	PrimeMoverCA                     // Combined cycle steam part
	PrimeMoverCC                     // Combined cycle total unit
	PrimeMoverCE                     // Energy storage, compressed air
	PrimeMoverCP                     // Energy storage, concentrated solar power
	PrimeMoverCS                     // Combined cycle single shaft
	PrimeMoverCT                     // Combined cycle combustion turbine part
	PrimeMoverES                     // Energy storage, other
	PrimeMoverFC                     // Fuel cell
	PrimeMoverFW                     // Energy storage, flywheel
	PrimeMoverGT                     // Combustion (gas) turbine
	PrimeMoverHA                     // Hydrokinetic, axial flow turbine
	PrimeMoverHB                     // Hydrokinetic, wave buoy
	PrimeMoverHK                     // Hydrokinetic, other
	PrimeMoverHY                     // Hydraulic turbine
	PrimeMoverIC                     // Internal combustion engine
	PrimeMoverOT                     // Other
	PrimeMoverPS                     // Pumped storage
	PrimeMoverPV                     // Photovoltaic
	PrimeMoverST                     // Steam turbine
	PrimeMoverWS                     // Wind turbine, offshore
	PrimeMoverWT                     // Wind turbine, onshore
)

var primeMoverCodes = [...]string{
	"UNKNOWN", "BA", "BT", "CA", "CC", "CE", "CP", "CS", "CT", "ES", "FC", "FW",
	"GT", "HA", "HB", "HK", "HY", "IC", "OT", "PS", "PV", "ST", "WS", "WT",
}

var primeMoverDescriptions = [...]string{
	"Unknown",
	"Energy storage, battery",
	"Turbines used in a binary cycle",
	"Combined cycle steam part",
	"Combined cycle total unit",
	"Energy storage, compressed air",
	"Energy storage, concentrated solar power",
	"Combined cycle single shaft",
	"Combined cycle combustion turbine part",
	"Energy storage, other",
	"Fuel cell",
	"Energy storage, flywheel",
	"Combustion (gas) turbine",
	"Hydrokinetic, axial flow turbine",
	"Hydrokinetic, wave buoy",
	"Hydrokinetic, other",
	"Hydraulic turbine",
	"Internal combustion engine",
	"Other",
	"Pumped storage",
	"Photovoltaic",
	"Steam turbine",
	"Wind turbine, offshore",
	"Wind turbine, onshore",
}

// ParsePrimeMover parses an EIA-923 prime mover code (case-insensitive).
// UNKNOWN is not accepted; it is the zero value, not a member.
func ParsePrimeMover(s string) (PrimeMoverType, error) {
	code := strings.ToUpper(strings.TrimSpace(s))
	for i := 1; i < len(primeMoverCodes); i++ {
		if primeMoverCodes[i] == code {
			return PrimeMoverType(i), nil
		}
	}
	return PrimeMoverUnknown, fmt.Errorf("%w: prime mover %q", ErrUnknownValue, s)
}

// AllPrimeMovers returns every member of the enumeration.
func AllPrimeMovers() []PrimeMoverType {
	out := make([]PrimeMoverType, 0, len(primeMoverCodes)-1)
	for i := 1; i < len(primeMoverCodes); i++ {
		out = append(out, PrimeMoverType(i))
	}
	return out
}

// Valid returns true for enumeration members.
func (p PrimeMoverType) Valid() bool {
	return p > PrimeMoverUnknown && int(p) < len(primeMoverCodes)
}

// String returns the EIA code.
func (p PrimeMoverType) String() string {
	if int(p) < len(primeMoverCodes) {
		return primeMoverCodes[p]
	}
	return "UNKNOWN"
}

// Description returns the EIA description of the code.
func (p PrimeMoverType) Description() string {
	if int(p) < len(primeMoverDescriptions) {
		return primeMoverDescriptions[p]
	}
	return primeMoverDescriptions[0]
}

// IsStorage returns true for storage technologies.
func (p PrimeMoverType) IsStorage() bool {
	switch p {
	case PrimeMoverBA, PrimeMoverCE, PrimeMoverCP, PrimeMoverES, PrimeMoverFW, PrimeMoverPS:
		return true
	default:
		return false
	}
}

// IsVariable returns true for weather-dependent technologies.
func (p PrimeMoverType) IsVariable() bool {
	switch p {
	case PrimeMoverPV, PrimeMoverWS, PrimeMoverWT:
		return true
	default:
		return false
	}
}

// MarshalText implements encoding.TextMarshaler.
func (p PrimeMoverType) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("%w: prime mover %d", ErrUnknownValue, uint8(p))
	}
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *PrimeMoverType) UnmarshalText(text []byte) error {
	v, err := ParsePrimeMover(string(text))
	if err != nil {
		return err
	}
	*p = v
	return nil
}
