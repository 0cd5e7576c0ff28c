package engine

import (
	"time"

	"exchangecore/internal/common"
)

// tick expires any resting GTD order whose deadline has passed (spec.md
// §4.4 "GTD expiry"). It is driven by a cmdTick command rather than a
// background timer so expiry participates in the same single-writer
// ordering as every other book mutation (spec.md §5).
func (se *SymbolEngine) tick(now time.Time) {
	live := se.gtdOrders[:0]
	for _, o := range se.gtdOrders {
		if o.Status.IsTerminal() {
			continue
		}
		if !gtdExpired(o, now) {
			live = append(live, o)
			continue
		}

		if loc, ok := se.orderIndex.Get(o.ID); ok {
			side := se.book.SideFor(loc.IsBuy)
			if lvl := side.LevelAt(loc.Price); lvl != nil {
				se.removeResting(o, lvl, loc.IsBuy)
			}
		}
		o.Status = common.Expired
		o.LastUpdateSeq = se.nextSeq()
		se.emitExpired(o)
		se.emitOrderUpdate(o)
	}
	se.gtdOrders = live
}
