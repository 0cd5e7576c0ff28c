package common

import (
	"fmt"
	"time"

	"exchangecore/internal/fixedpoint"
)

// Order is the order record of spec.md §3. Post-acceptance the matching
// core mutates FilledQty, Status, LastUpdateSeq and (for Iceberg) DisplayQty
// and the slice sequence; an in-place amendment also lowers Quantity, and a
// triggered stop also gets a new Kind and CreatedSeq.
type Order struct {
	ID        string
	Account   string
	Symbol    string
	Side      Side
	Kind      Kind
	TIF       TIF
	GTDExpiry time.Time // valid only when TIF == GTD

	LimitPrice fixedpoint.Value // required for Limit/StopLimit/Iceberg/PostOnly
	StopPrice  fixedpoint.Value // required for StopMarket/StopLimit

	Quantity   fixedpoint.Value // original total quantity, > 0
	DisplayQty fixedpoint.Value // Iceberg only: current visible remaining, 0 < initial <= Quantity

	// IcebergDisplaySize is the immutable configured slice size an Iceberg
	// order refills to; DisplayQty decreases as the visible slice fills and
	// is reset to min(IcebergDisplaySize, RemainingQty()) on each refill
	// (spec.md §4.6).
	IcebergDisplaySize fixedpoint.Value

	FilledQty fixedpoint.Value // monotonic non-decreasing
	Status    Status

	CreatedSeq    uint64
	LastUpdateSeq uint64
	CreatedAt     time.Time

	// FeeScheduleRef is an opaque reference the caller may set; the engine
	// never interprets it and never computes a monetary fee (spec.md §9).
	FeeScheduleRef string

	// icebergSliceSeq tracks the CreatedSeq assigned to the current visible
	// slice, which is distinct from the order's own CreatedSeq once a
	// refill has happened (spec.md §4.6).
	icebergSliceSeq uint64
}

// RemainingQty is the total unfilled quantity, displayed or hidden.
func (o *Order) RemainingQty() fixedpoint.Value {
	return o.Quantity.Sub(o.FilledQty)
}

// DisplayedRemaining is the visible-on-book remaining quantity. For
// non-iceberg orders this equals RemainingQty.
func (o *Order) DisplayedRemaining() fixedpoint.Value {
	if o.Kind != Iceberg {
		return o.RemainingQty()
	}
	return o.DisplayQty
}

// HiddenRemaining is the iceberg reserve not currently shown on book.
func (o *Order) HiddenRemaining() fixedpoint.Value {
	if o.Kind != Iceberg {
		return fixedpoint.Zero
	}
	return o.RemainingQty().Sub(o.DisplayQty)
}

func (o *Order) IsFullyFilled() bool {
	return o.FilledQty.Cmp(o.Quantity) >= 0
}

// SliceSeq returns the CreatedSeq the current visible iceberg slice
// competes with for time priority; for non-iceberg orders it is just
// CreatedSeq.
func (o *Order) SliceSeq() uint64 {
	if o.Kind == Iceberg && o.icebergSliceSeq != 0 {
		return o.icebergSliceSeq
	}
	return o.CreatedSeq
}

// ReSlice assigns a fresh time-priority sequence to the order's visible
// iceberg slice, per spec.md §4.6: hidden reserve never inherits the
// original slice's priority.
func (o *Order) ReSlice(newSeq uint64) {
	o.icebergSliceSeq = newSeq
}

func (o Order) String() string {
	return fmt.Sprintf(
		"Order{id=%s symbol=%s side=%v kind=%v tif=%v limit=%v stop=%v qty=%v filled=%v status=%v seq=%d}",
		o.ID, o.Symbol, o.Side, o.Kind, o.TIF, o.LimitPrice, o.StopPrice,
		o.Quantity, o.FilledQty, o.Status, o.CreatedSeq,
	)
}
