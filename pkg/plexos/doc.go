// Package plexos defines the PLEXOS generator schema.
//
// A Generator is built from a loosely typed field mapping, as read from a
// YAML, JSON or CBOR case file:
//
//	g, err := plexos.NewGenerator(map[string]any{
//	    "name":         "Coal_1",
//	    "max_capacity": "450 MW",
//	    "forced_outage_rate": 6,
//	})
//
// Every field is coerced to its declared type and unit and checked against
// its bounds. Violations are collected across the whole record and returned
// together as a model.ValidationErrors, so a caller sees every bad field of
// a record at once. Omitted fields take their documented defaults.
//
// Quantities carry their unit. Bare numbers take the field's default unit
// (MW for power, h for time, and so on); percentages follow the configured
// PercentScale.
//
// ToMap, and the JSON, YAML and CBOR codecs built on it, produce a mapping
// that NewGenerator turns back into an equal generator.
//
// LoadFile and Load read whole case files, keeping the valid records and
// reporting the rejected ones; WriteFile and Encode write them back.
package plexos
