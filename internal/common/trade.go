package common

import (
	"fmt"
	"time"

	"exchangecore/internal/fixedpoint"
)

// Trade is the immutable record of one crossing event between a resting
// maker order and the incoming taker order (spec.md §3).
type Trade struct {
	ID            string
	Symbol        string
	MakerOrderID  string
	TakerOrderID  string
	Price         fixedpoint.Value
	Quantity      fixedpoint.Value
	AggressorSide Side
	EngineSeq     uint64
	EngineTime    time.Time

	// FeeScheduleRef carries through from the taker order; the engine
	// never computes a monetary fee amount (spec.md §9).
	FeeScheduleRef string
}

func (t Trade) String() string {
	return fmt.Sprintf(
		"Trade{id=%s symbol=%s maker=%s taker=%s price=%v qty=%v aggressor=%v seq=%d}",
		t.ID, t.Symbol, t.MakerOrderID, t.TakerOrderID, t.Price, t.Quantity,
		t.AggressorSide, t.EngineSeq,
	)
}
