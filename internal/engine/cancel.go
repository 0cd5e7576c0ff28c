package engine

import "exchangecore/internal/common"

// cancel implements spec.md §4.4 "Cancellation": a resting order is looked
// up in the main order index first, then in the stop index, and removed
// from whichever it is found in. An id that is unknown or already terminal
// yields ErrNotFound so cancellation is idempotent against a terminal
// order rather than silently succeeding twice.
func (se *SymbolEngine) cancel(orderID string) (common.Status, error) {
	if loc, ok := se.orderIndex.Get(orderID); ok {
		side := se.book.SideFor(loc.IsBuy)
		lvl := side.LevelAt(loc.Price)
		if lvl == nil {
			return 0, ErrNotFound
		}
		o := findInLevel(lvl, orderID)
		if o == nil {
			return 0, ErrNotFound
		}
		se.removeResting(o, lvl, loc.IsBuy)
		o.Status = common.Canceled
		o.LastUpdateSeq = se.nextSeq()
		se.emitOrderUpdate(o)
		return o.Status, nil
	}

	if o, ok := se.stopBook.Remove(orderID); ok {
		o.Status = common.Canceled
		o.LastUpdateSeq = se.nextSeq()
		se.emitOrderUpdate(o)
		return o.Status, nil
	}

	return 0, ErrNotFound
}
