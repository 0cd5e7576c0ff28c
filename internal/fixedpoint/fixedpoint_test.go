package fixedpoint

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewScale(t *testing.T) {
	s, err := NewScale(2)
	require.NoError(t, err)
	assert.Equal(t, int64(100), s.Factor())
	assert.Equal(t, 2, s.Exponent())

	_, err = NewScale(-1)
	assert.ErrorIs(t, err, ErrInvalidScale)

	_, err = NewScale(19)
	assert.ErrorIs(t, err, ErrInvalidScale)
}

func TestFromFloat64_ExactlyRepresentable(t *testing.T) {
	scale, err := NewScale(2)
	require.NoError(t, err)

	v, err := FromFloat64(100.25, scale)
	require.NoError(t, err)
	assert.Equal(t, int64(10025), v.Int64())
	assert.InDelta(t, 100.25, v.ToFloat64(scale), 1e-9)
}

func TestFromFloat64_NotRepresentable(t *testing.T) {
	scale, err := NewScale(2)
	require.NoError(t, err)

	_, err = FromFloat64(100.005, scale)
	assert.ErrorIs(t, err, ErrNotRepresentable)
}

func TestFromFloat64_RejectsNaNAndInf(t *testing.T) {
	scale, err := NewScale(2)
	require.NoError(t, err)

	_, err = FromFloat64(math.NaN(), scale)
	assert.ErrorIs(t, err, ErrNotRepresentable)

	_, err = FromFloat64(math.Inf(1), scale)
	assert.ErrorIs(t, err, ErrNotRepresentable)
}

func TestNotionalHalfToEvenRounding(t *testing.T) {
	priceScale, err := NewScale(2)
	require.NoError(t, err)
	qtyScale, err := NewScale(8)
	require.NoError(t, err)
	feeScale, err := NewScale(2)
	require.NoError(t, err)

	// price=100.00, qty=0.00125 -> notional 0.125, a tie at 2 places; rounds
	// half-to-even to 0.12 (half-up would give 0.13)
	price, err := FromFloat64(100.00, priceScale)
	require.NoError(t, err)
	qty, err := FromFloat64(0.00125, qtyScale)
	require.NoError(t, err)

	notional := NotionalValue(price, qty, priceScale, qtyScale, feeScale)
	assert.Equal(t, int64(12), notional.Int64())
}

func TestNotionalExactProduct(t *testing.T) {
	priceScale, err := NewScale(2)
	require.NoError(t, err)
	qtyScale, err := NewScale(2)
	require.NoError(t, err)
	feeScale, err := NewScale(2)
	require.NoError(t, err)

	price, err := FromFloat64(10.00, priceScale)
	require.NoError(t, err)
	qty, err := FromFloat64(3.00, qtyScale)
	require.NoError(t, err)

	notional := NotionalValue(price, qty, priceScale, qtyScale, feeScale)
	assert.Equal(t, int64(3000), notional.Int64())
}

func TestValueArithmeticAndCompare(t *testing.T) {
	a := Value(100)
	b := Value(40)

	assert.Equal(t, Value(140), a.Add(b))
	assert.Equal(t, Value(60), a.Sub(b))
	assert.Equal(t, 1, a.Cmp(b))
	assert.Equal(t, -1, b.Cmp(a))
	assert.Equal(t, 0, a.Cmp(Value(100)))
	assert.True(t, a.Positive())
	assert.False(t, Value(0).Positive())
	assert.False(t, Value(-1).Positive())
}
