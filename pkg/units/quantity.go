package units

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// DefaultTolerance is the relative tolerance used by ApproxEqual callers that
// have no better figure.
const DefaultTolerance = 1e-9

// Quantity is a magnitude paired with a unit.
type Quantity struct {
	Value float64 `json:"value" yaml:"value" cbor:"value"`
	Unit  Unit    `json:"unit" yaml:"unit" cbor:"unit"`
}

// New returns a quantity. It does not check that the unit is registered;
// use NewChecked for untrusted input.
func New(value float64, unit Unit) Quantity {
	return Quantity{Value: value, Unit: unit}
}

// NewChecked returns a quantity after resolving the unit symbol.
func NewChecked(value float64, symbol string) (Quantity, error) {
	u, err := LookupUnit(symbol)
	if err != nil {
		return Quantity{}, err
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return Quantity{}, fmt.Errorf("%w: non-finite magnitude %v", ErrInvalidQuantity, value)
	}
	return Quantity{Value: value, Unit: u}, nil
}

// Convenience constructors for the common dimensions.

func MW(v float64) Quantity    { return New(v, Megawatt) }
func MVA(v float64) Quantity   { return New(v, MegavoltAmpere) }
func MWh(v float64) Quantity   { return New(v, MegawattHour) }
func Hours(v float64) Quantity { return New(v, Hour) }
func Pct(v float64) Quantity   { return New(v, Percent) }
func USDs(v float64) Quantity  { return New(v, USD) }

// Parse parses the compact form "<number> <unit>", e.g. "100 MW", "5%",
// "2.5 MW/min". A bare number parses as dimensionless.
func Parse(s string) (Quantity, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Quantity{}, fmt.Errorf("%w: empty string", ErrInvalidQuantity)
	}

	num, sym := splitNumber(s)
	if num == "" {
		return Quantity{}, fmt.Errorf("%w: %q has no magnitude", ErrInvalidQuantity, s)
	}
	v, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return Quantity{}, fmt.Errorf("%w: %q: %v", ErrInvalidQuantity, s, err)
	}
	return NewChecked(v, sym)
}

// MustParse is like Parse but panics on error. Intended for tests and
// package-level defaults.
func MustParse(s string) Quantity {
	q, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return q
}

// splitNumber splits s into its leading numeric part and the trailing unit.
func splitNumber(s string) (string, string) {
	if fields := strings.Fields(s); len(fields) == 2 {
		return fields[0], fields[1]
	}
	end := 0
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9', r == '.':
		case (r == '+' || r == '-') && (i == 0 || s[i-1] == 'e' || s[i-1] == 'E'):
		case (r == 'e' || r == 'E') && i > 0 && i+1 < len(s) && isExpTail(s[i+1]):
		default:
			return s[:end], strings.TrimSpace(s[end:])
		}
		end = i + 1
	}
	return s, ""
}

func isExpTail(b byte) bool {
	return (b >= '0' && b <= '9') || b == '+' || b == '-'
}

// Dimension returns the quantity's dimension.
func (q Quantity) Dimension() Dimension {
	return q.Unit.Dimension()
}

// To converts the quantity to another unit of the same dimension.
func (q Quantity) To(u Unit) (Quantity, error) {
	v, err := Convert(q.Value, q.Unit, u)
	if err != nil {
		return Quantity{}, err
	}
	return Quantity{Value: v, Unit: u}, nil
}

// In returns the magnitude expressed in unit u. It returns NaN when the
// conversion is not possible.
func (q Quantity) In(u Unit) float64 {
	v, err := Convert(q.Value, q.Unit, u)
	if err != nil {
		return math.NaN()
	}
	return v
}

// IsZero returns true if the magnitude is zero.
func (q Quantity) IsZero() bool {
	return q.Value == 0
}

// Sign returns -1, 0 or +1.
func (q Quantity) Sign() int {
	switch {
	case q.Value < 0:
		return -1
	case q.Value > 0:
		return 1
	default:
		return 0
	}
}

// ApproxEqual reports whether both quantities share a dimension and their
// magnitudes agree within the relative tolerance tol.
func (q Quantity) ApproxEqual(other Quantity, tol float64) bool {
	v, err := Convert(other.Value, other.Unit, q.Unit)
	if err != nil {
		return false
	}
	scale := math.Max(1, math.Max(math.Abs(q.Value), math.Abs(v)))
	return math.Abs(q.Value-v) <= tol*scale
}

// String returns the compact form, e.g. "100 MW".
func (q Quantity) String() string {
	num := strconv.FormatFloat(q.Value, 'g', -1, 64)
	switch q.Unit {
	case None:
		return num
	case Percent:
		return num + "%"
	default:
		return num + " " + string(q.Unit)
	}
}
