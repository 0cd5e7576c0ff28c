package iceberg

import (
	"testing"

	"exchangecore/internal/book"
	"exchangecore/internal/common"
	"exchangecore/internal/fixedpoint"

	"github.com/stretchr/testify/assert"
)

func TestRefillSlicesFromHiddenReserve(t *testing.T) {
	b := book.New()
	lvl := b.Asks.GetOrCreate(fixedpoint.Value(100))

	o := &common.Order{
		ID: "ice1", Kind: common.Iceberg, Side: common.Sell,
		Quantity: fixedpoint.Value(9), FilledQty: fixedpoint.Value(3), DisplayQty: fixedpoint.Value(0),
	}

	refilled := Refill(lvl, o, fixedpoint.Value(3), 42)
	assert.True(t, refilled)
	assert.Equal(t, int64(3), o.DisplayQty.Int64())
	assert.Equal(t, uint64(42), o.SliceSeq())
	assert.Equal(t, o, lvl.Front())
}

func TestRefillClampsFinalSliceToRemainingReserve(t *testing.T) {
	b := book.New()
	lvl := b.Asks.GetOrCreate(fixedpoint.Value(100))

	o := &common.Order{
		ID: "ice1", Kind: common.Iceberg, Side: common.Sell,
		Quantity: fixedpoint.Value(8), FilledQty: fixedpoint.Value(6), DisplayQty: fixedpoint.Value(0),
	}

	refilled := Refill(lvl, o, fixedpoint.Value(3), 1)
	assert.True(t, refilled)
	assert.Equal(t, int64(2), o.DisplayQty.Int64(), "final slice must clamp to remaining reserve, not the full slice size")
}

func TestRefillNoOpWhenReserveExhausted(t *testing.T) {
	b := book.New()
	lvl := b.Asks.GetOrCreate(fixedpoint.Value(100))

	o := &common.Order{
		ID: "ice1", Kind: common.Iceberg, Side: common.Sell,
		Quantity: fixedpoint.Value(9), FilledQty: fixedpoint.Value(9), DisplayQty: fixedpoint.Value(0),
	}

	refilled := Refill(lvl, o, fixedpoint.Value(3), 1)
	assert.False(t, refilled)
	assert.Nil(t, lvl.Front())
}

func TestRefillNoOpForNonIceberg(t *testing.T) {
	b := book.New()
	lvl := b.Asks.GetOrCreate(fixedpoint.Value(100))

	o := &common.Order{ID: "limit1", Kind: common.Limit, Quantity: fixedpoint.Value(5)}

	refilled := Refill(lvl, o, fixedpoint.Value(3), 1)
	assert.False(t, refilled)
}
