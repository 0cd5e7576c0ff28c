package engine

import (
	"fmt"

	"exchangecore/internal/common"
	"exchangecore/internal/events"
	"exchangecore/internal/fixedpoint"
)

// amendDownQty implements spec.md §4.4(a): an in-place reduction of a
// resting order's remaining quantity that keeps its FIFO position (and so
// its time priority) unchanged. It is the only supported amendment —
// raising quantity or moving price would need to re-queue behind existing
// priority, which spec.md does not define, so both are rejected.
func (se *SymbolEngine) amendDownQty(orderID string, newQty fixedpoint.Value) error {
	loc, ok := se.orderIndex.Get(orderID)
	if !ok {
		return ErrNotFound
	}
	side := se.book.SideFor(loc.IsBuy)
	lvl := side.LevelAt(loc.Price)
	if lvl == nil {
		return ErrNotFound
	}
	o := findInLevel(lvl, orderID)
	if o == nil {
		return ErrNotFound
	}

	remaining := o.RemainingQty()
	if !newQty.Positive() || newQty.Cmp(remaining) >= 0 {
		return fmt.Errorf("%w: amend must strictly reduce remaining quantity", ErrInvalidOrder)
	}

	preTotal := remaining.Int64()
	preDisplay := o.DisplayedRemaining().Int64()

	o.Quantity = o.FilledQty.Add(newQty)
	if o.Kind == common.Iceberg && o.DisplayQty.Cmp(newQty) > 0 {
		o.DisplayQty = newQty
	}

	lvl.ReduceTotalQty(preTotal - o.RemainingQty().Int64())
	lvl.ReduceDisplayQty(preDisplay - o.DisplayedRemaining().Int64())

	o.LastUpdateSeq = se.nextSeq()
	se.emitOrderUpdate(o)
	se.emitBookDelta(lvl, loc.IsBuy, events.DeltaChange)
	return nil
}
