package engine

import (
	"exchangecore/internal/book"
	"exchangecore/internal/common"
	"exchangecore/internal/events"
)

// findInLevel scans lvl's FIFO for the live order with the given id. Price
// levels are never large enough (bounded by distinct orders at one price)
// to warrant a secondary per-level index.
func findInLevel(lvl *book.PriceLevel, orderID string) *common.Order {
	for _, o := range lvl.Orders() {
		if o.ID == orderID {
			return o
		}
	}
	return nil
}

// removeResting deletes o from the book side it rests on and drops its
// order-index entry, emitting the book delta this causes. Used by cancel
// and GTD expiry, which share everything past "why the order is leaving".
func (se *SymbolEngine) removeResting(o *common.Order, lvl *book.PriceLevel, isBuy bool) {
	side := se.book.SideFor(isBuy)
	lvl.Remove(o)
	action := events.DeltaChange
	if lvl.Empty() {
		side.PruneIfEmpty(lvl)
		action = events.DeltaRemove
	}
	se.orderIndex.Delete(o.ID)
	se.emitBookDelta(lvl, isBuy, action)
}
