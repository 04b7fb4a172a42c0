package argo

import "math"

type valueKind uint8

const (
	kindScalar valueKind = iota + 1
	kindSequence
)

// Value is a variable payload: either a single scalar or an ordered
// sequence of readings. The zero Value holds nothing and reads as missing.
type Value struct {
	kind   valueKind
	scalar float64
	seq    []float64
}

// Scalar wraps a single reading that applies to every index.
func Scalar(v float64) Value {
	return Value{kind: kindScalar, scalar: v}
}

// Sequence wraps per-index readings.
func Sequence(vs []float64) Value {
	return Value{kind: kindSequence, seq: vs}
}

// IsScalar reports whether v broadcasts a single reading.
func (v Value) IsScalar() bool { return v.kind == kindScalar }

// IsSequence reports whether v holds per-index readings.
func (v Value) IsSequence() bool { return v.kind == kindSequence }

// Len returns the sequence length. Scalars and empty values report false.
func (v Value) Len() (int, bool) {
	if v.kind != kindSequence {
		return 0, false
	}
	return len(v.seq), true
}

// At returns the reading at index i. Scalars broadcast; sequences report
// missing past their own end.
func (v Value) At(i int) (float64, bool) {
	switch v.kind {
	case kindScalar:
		return v.scalar, true
	case kindSequence:
		if i < 0 || i >= len(v.seq) {
			return 0, false
		}
		return v.seq[i], true
	default:
		return 0, false
	}
}

// NumberAt is At plus a NaN check: only usable numbers are reported present.
func (v Value) NumberAt(i int) (float64, bool) {
	f, ok := v.At(i)
	if !ok || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

// Values returns the readings as a slice; a scalar yields one element.
func (v Value) Values() []float64 {
	switch v.kind {
	case kindScalar:
		return []float64{v.scalar}
	case kindSequence:
		return v.seq
	default:
		return nil
	}
}
