package engine

// snapshot builds a depth-limited view of both sides of the book (spec.md
// §6 Snapshot command). depth <= 0 returns every resting level.
func (se *SymbolEngine) snapshot(depth int) DepthSnapshot {
	snap := DepthSnapshot{Symbol: se.symbol, EngineSeq: se.seq}
	for _, lvl := range se.book.Bids.Levels(depth) {
		snap.Bids = append(snap.Bids, PriceQty{Price: lvl.Price.Int64(), AggregateDisplayQty: lvl.AggregateDisplayQty()})
	}
	for _, lvl := range se.book.Asks.Levels(depth) {
		snap.Asks = append(snap.Asks, PriceQty{Price: lvl.Price.Int64(), AggregateDisplayQty: lvl.AggregateDisplayQty()})
	}
	return snap
}
