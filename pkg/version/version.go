// Package version provides case-file schema version parsing and
// compatibility checks.
package version

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Current is the case-file schema version written by this library.
const Current = "1.0"

// ErrIncompatible is returned when a case file uses a different major version.
var ErrIncompatible = errors.New("incompatible schema version")

// SchemaVersion represents a parsed "major.minor" schema version.
type SchemaVersion struct {
	Major uint16
	Minor uint16
}

// Parse parses a "major.minor" version string.
func Parse(s string) (SchemaVersion, error) {
	parts := strings.Split(s, ".")
	if len(parts) != 2 {
		return SchemaVersion{}, fmt.Errorf("invalid version %q: expected major.minor", s)
	}

	major, err := strconv.ParseUint(parts[0], 10, 16)
	if err != nil || parts[0] == "" {
		return SchemaVersion{}, fmt.Errorf("invalid version %q: bad major component", s)
	}

	minor, err := strconv.ParseUint(parts[1], 10, 16)
	if err != nil || parts[1] == "" {
		return SchemaVersion{}, fmt.Errorf("invalid version %q: bad minor component", s)
	}

	return SchemaVersion{Major: uint16(major), Minor: uint16(minor)}, nil
}

// MustParse is like Parse but panics on error.
func MustParse(s string) SchemaVersion {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

// String returns the version as "major.minor".
func (v SchemaVersion) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// Compatible returns true if the other version has the same major version.
func (v SchemaVersion) Compatible(other SchemaVersion) bool {
	return v.Major == other.Major
}

// Newer returns true if v is a later version than other.
func (v SchemaVersion) Newer(other SchemaVersion) bool {
	if v.Major != other.Major {
		return v.Major > other.Major
	}
	return v.Minor > other.Minor
}

// Check verifies that a case file version can be read by this library.
// An empty string is treated as Current.
func Check(s string) (SchemaVersion, error) {
	current := MustParse(Current)
	if s == "" {
		return current, nil
	}
	v, err := Parse(s)
	if err != nil {
		return SchemaVersion{}, err
	}
	if !current.Compatible(v) {
		return v, fmt.Errorf("%w: case file is %s, supported %d.x", ErrIncompatible, v, current.Major)
	}
	return v, nil
}
