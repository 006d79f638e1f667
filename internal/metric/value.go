package metric

import "strconv"

// Kind identifies which scalar a Value holds.
type Kind uint8

const (
	// KindString is a text value.
	KindString Kind = iota + 1

	// KindFloat is a 64-bit floating point value.
	KindFloat
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindFloat:
		return "float"
	default:
		return "invalid"
	}
}

// Value is a scalar metric value: either text or a float64.
//
// Values are comparable with ==; equality is exact, with no tolerance
// applied to floats.
type Value struct {
	kind Kind
	str  string
	num  float64
}

// String returns a text Value.
func String(s string) Value {
	return Value{kind: KindString, str: s}
}

// Float returns a floating point Value.
func Float(f float64) Value {
	return Value{kind: KindFloat, num: f}
}

// Kind reports which scalar v holds. The zero Value has no valid kind.
func (v Value) Kind() Kind {
	return v.kind
}

// AsString returns the text held by v, and false if v is not a string.
func (v Value) AsString() (string, bool) {
	return v.str, v.kind == KindString
}

// AsFloat returns the number held by v, and false if v is not a float.
func (v Value) AsFloat() (float64, bool) {
	return v.num, v.kind == KindFloat
}

// String renders v for logs and test failures.
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return strconv.Quote(v.str)
	case KindFloat:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	default:
		return "<invalid>"
	}
}
