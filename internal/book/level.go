// Package book implements the price-level queue and book-side container of
// spec.md §4.3: an insertion-ordered FIFO of resting orders per price,
// indexed by an ordered map of price levels per side. It owns resting
// orders outright (spec.md §3 ownership rules); callers holding a
// *common.Order obtained from a level must not mutate its quantity fields
// except through the methods here, which keep the level's aggregate
// counters correct.
package book

import "exchangecore/internal/common"

// PriceLevel is the FIFO queue of live orders resting at one price, plus
// the two running aggregates spec.md §3 names: AggregateDisplayQty (sum of
// displayed remaining) and AggregateTotalQty (sum of total remaining,
// including iceberg hidden reserve).
type PriceLevel struct {
	Price priceValue

	orders []*common.Order // FIFO, oldest (highest priority) first

	aggregateDisplayQty int64
	aggregateTotalQty   int64
}

func newPriceLevel(price priceValue) *PriceLevel {
	return &PriceLevel{Price: price}
}

// Append adds an order to the tail of the FIFO — used both for a freshly
// resting order and for an iceberg's refreshed slice, which forfeits
// priority against anything already queued (spec.md §4.6).
func (lvl *PriceLevel) Append(o *common.Order) {
	lvl.orders = append(lvl.orders, o)
	lvl.aggregateDisplayQty += o.DisplayedRemaining().Int64()
	lvl.aggregateTotalQty += o.RemainingQty().Int64()
}

// Front returns the highest-priority (oldest) live order, or nil if empty.
func (lvl *PriceLevel) Front() *common.Order {
	if len(lvl.orders) == 0 {
		return nil
	}
	return lvl.orders[0]
}

func (lvl *PriceLevel) Empty() bool { return len(lvl.orders) == 0 }

// OrderCount is the number of live orders resting at this level — an
// ambient addition mirroring the original source's OrderBookEntry (see
// SPEC_FULL.md §9).
func (lvl *PriceLevel) OrderCount() int { return len(lvl.orders) }

func (lvl *PriceLevel) AggregateDisplayQty() int64 { return lvl.aggregateDisplayQty }
func (lvl *PriceLevel) AggregateTotalQty() int64   { return lvl.aggregateTotalQty }

// Orders exposes a read-only snapshot of the FIFO for depth/debug use.
func (lvl *PriceLevel) Orders() []*common.Order {
	out := make([]*common.Order, len(lvl.orders))
	copy(out, lvl.orders)
	return out
}

// ApplyFill records a fill of qty against an order resting at this level,
// keeping the level's aggregates consistent. The caller (matching core) is
// responsible for the order's own FilledQty/Status transition before or
// after calling this, but must report the pre- and post-fill displayed
// remaining so hidden iceberg reserve is never counted as displayed.
func (lvl *PriceLevel) ApplyFill(qty, preDisplay, postDisplay int64) {
	lvl.aggregateDisplayQty -= preDisplay - postDisplay
	lvl.aggregateTotalQty -= qty
}

// DropFront removes the order currently at the front of the FIFO, taking
// its displayed and total remaining out of the aggregates — used once it is
// fully consumed, and for an iceberg whose visible slice is exhausted before
// its next slice is appended to the tail.
func (lvl *PriceLevel) DropFront() {
	if len(lvl.orders) == 0 {
		return
	}
	front := lvl.orders[0]
	lvl.aggregateDisplayQty -= front.DisplayedRemaining().Int64()
	lvl.aggregateTotalQty -= front.RemainingQty().Int64()
	lvl.orders = lvl.orders[1:]
}

// Remove deletes a specific order (by identity) from anywhere in the FIFO,
// preserving the relative order of the rest — used by cancellation, which
// must not disturb other orders' time priority (spec.md §4.4).
func (lvl *PriceLevel) Remove(o *common.Order) bool {
	for i, existing := range lvl.orders {
		if existing == o {
			lvl.aggregateDisplayQty -= existing.DisplayedRemaining().Int64()
			lvl.aggregateTotalQty -= existing.RemainingQty().Int64()
			lvl.orders = append(lvl.orders[:i], lvl.orders[i+1:]...)
			return true
		}
	}
	return false
}

// ReduceTotalQty adjusts the level's total-quantity aggregate for an
// in-place quantity amendment (spec.md §4.4(a)) that does not touch the
// order's position in the FIFO.
func (lvl *PriceLevel) ReduceTotalQty(delta int64) {
	lvl.aggregateTotalQty -= delta
}

// ReduceDisplayQty adjusts the level's display-quantity aggregate, used
// alongside ReduceTotalQty by an in-place amendment; for a non-iceberg
// order the two deltas are equal.
func (lvl *PriceLevel) ReduceDisplayQty(delta int64) {
	lvl.aggregateDisplayQty -= delta
}

// AddDisplayQty increases the displayed aggregate without touching total.
// The iceberg manager does not use it: a refilled slice re-enters the level
// through DropFront followed by Append.
func (lvl *PriceLevel) AddDisplayQty(delta int64) {
	lvl.aggregateDisplayQty += delta
}
