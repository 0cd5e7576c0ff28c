// Package iceberg implements the refill manager of spec.md §4.6 (C8): when
// an iceberg's displayed slice is fully consumed and hidden reserve
// remains, a fresh slice is appended to the tail of the same price level
// with a new time-priority sequence, forfeiting priority against anything
// already resting there.
//
// No existing pack file implements iceberg orders; this follows the
// teacher's own level-mutation style in internal/engine/orderbook.go's
// slice-resizing logic in handleMarket, adapted to append-a-slice instead
// of drop-a-consumed-order.
package iceberg

import (
	"exchangecore/internal/book"
	"exchangecore/internal/common"
	"exchangecore/internal/fixedpoint"
)

// Refill re-slices o if it is an Iceberg whose displayed portion has just
// been fully consumed (DisplayQty == 0) and hidden reserve remains. It
// appends a fresh slot to lvl with min(original display size, remaining
// hidden reserve) visible, tagged with nextSeq as its new time-priority
// sequence, and reports whether a refill happened.
//
// The caller is responsible for having already removed the exhausted slot
// from the level (DropFront) before calling Refill, and for not calling
// Refill at all on a non-Iceberg order.
func Refill(lvl *book.PriceLevel, o *common.Order, originalDisplaySize fixedpoint.Value, nextSeq uint64) bool {
	if o.Kind != common.Iceberg {
		return false
	}
	remaining := o.RemainingQty()
	if remaining.Cmp(fixedpoint.Zero) <= 0 {
		return false
	}
	slice := originalDisplaySize
	if remaining.Cmp(slice) < 0 {
		slice = remaining
	}
	o.DisplayQty = slice
	o.ReSlice(nextSeq)
	lvl.Append(o)
	return true
}
