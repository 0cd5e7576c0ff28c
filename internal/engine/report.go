package engine

import (
	"exchangecore/internal/common"
	"exchangecore/internal/events"
)

// MatchReport is the output of Submit (spec.md §4.4): the (possibly
// updated) order record, the ordered trades it produced, and the ordered
// book deltas those trades and any resting caused. A stop cascade
// (spec.md §4.4 step 5) contributes its own trades and deltas into the
// same report as the submission that triggered it.
type MatchReport struct {
	Order  *common.Order
	Trades []*common.Trade
	Deltas []*events.BookDelta
}

// PriceQty is one row of a depth snapshot side.
type PriceQty struct {
	Price               int64
	AggregateDisplayQty int64
}

// DepthSnapshot is the result of the Snapshot(depth) command (spec.md §6):
// bids descending by price, asks ascending, as of EngineSeq.
type DepthSnapshot struct {
	Symbol    string
	EngineSeq uint64
	Bids      []PriceQty
	Asks      []PriceQty
}
