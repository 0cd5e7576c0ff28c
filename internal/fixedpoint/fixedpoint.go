// Package fixedpoint implements the scaled-integer price/quantity
// representation used throughout the book and matching core. Floats never
// cross this boundary except at conversion time, where exact
// representability at the configured scale is enforced.
package fixedpoint

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrNonPositive        = errors.New("fixedpoint: value must be positive")
	ErrNotRepresentable   = errors.New("fixedpoint: value is not exactly representable at this scale")
	ErrInvalidScale       = errors.New("fixedpoint: scale must be a positive power of ten")
)

// Scale is the number of decimal places a symbol's prices or quantities
// are stored with, expressed as 10^exponent.
type Scale struct {
	exponent int
	factor   int64
}

// NewScale builds a Scale from a power-of-ten exponent, e.g. NewScale(8)
// gives a factor of 10^8 (common for crypto spot pairs).
func NewScale(exponent int) (Scale, error) {
	if exponent < 0 || exponent > 18 {
		return Scale{}, fmt.Errorf("%w: exponent %d out of range", ErrInvalidScale, exponent)
	}
	factor := int64(1)
	for i := 0; i < exponent; i++ {
		factor *= 10
	}
	return Scale{exponent: exponent, factor: factor}, nil
}

func (s Scale) Factor() int64 { return s.factor }
func (s Scale) Exponent() int { return s.exponent }

// Value is a signed 64-bit scaled integer. Its meaning (price or quantity,
// and at what scale) is determined entirely by the caller's context; Value
// itself never carries a scale so that comparisons between two Values known
// to share a scale are plain integer comparisons.
type Value int64

// Zero is the additive identity.
const Zero Value = 0

// FromFloat64 converts f into a Value at the given scale, rejecting any
// float that is not exactly representable at that scale (per spec.md §4.1).
func FromFloat64(f float64, scale Scale) (Value, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, ErrNotRepresentable
	}
	scaled := f * float64(scale.factor)
	rounded := math.Round(scaled)
	if math.Abs(scaled-rounded) > 1e-9*math.Max(1, math.Abs(scaled)) {
		return 0, fmt.Errorf("%w: %v at scale 1e-%d", ErrNotRepresentable, f, scale.exponent)
	}
	if rounded > math.MaxInt64 || rounded < math.MinInt64 {
		return 0, ErrNotRepresentable
	}
	return Value(int64(rounded)), nil
}

// ToFloat64 renders v as a float at the given scale. Intended for display
// and external reporting only, never for comparisons or arithmetic.
func (v Value) ToFloat64(scale Scale) float64 {
	return float64(v) / float64(scale.factor)
}

func (v Value) Int64() int64 { return int64(v) }

func (v Value) Positive() bool { return v > 0 }

func (v Value) Add(other Value) Value { return v + other }
func (v Value) Sub(other Value) Value { return v - other }

func (v Value) Cmp(other Value) int {
	switch {
	case v < other:
		return -1
	case v > other:
		return 1
	default:
		return 0
	}
}

func (v Value) String() string {
	return fmt.Sprintf("%d", int64(v))
}
