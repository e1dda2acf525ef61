// Package units implements dimensioned quantities for power-system models.
//
// A Quantity pairs a float64 magnitude with a Unit symbol. Every registered
// unit belongs to exactly one Dimension and carries a linear factor to that
// dimension's base unit, so conversion is a single multiply/divide:
//
//	q := units.MustParse("100 MW")
//	kw, _ := q.To(units.Kilowatt) // 100000 kW
//
// Converting between dimensions (power to energy, for example) fails with
// ErrIncompatibleUnits. Each dimension has a default unit used when a model
// field receives a bare number:
//
//	Power          MW
//	ApparentPower  MVA
//	Energy         MWh
//	Time           h
//	PowerRate      MW/min
//	Percentage     %
//	Currency       usd
//	Price          usd/MWh
//	HeatRate       MMBtu/MWh
//	Voltage        kV
//
// # Serialization
//
// Quantities encode as {"value": 100, "unit": "MW"} in JSON, YAML and CBOR,
// and decode from either that form or the compact string form "100 MW".
package units
