// Package enums holds the closed enumerations used by the model layer:
// EIA-923 prime mover codes, thermal fuels and storage technologies.
//
// Parsing is case-insensitive and rejects anything outside the set with
// ErrUnknownValue. The zero value of every enumeration is UNKNOWN and is
// never a valid member.
package enums
