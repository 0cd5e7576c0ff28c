package engine

import (
	"exchangecore/internal/book"
	"exchangecore/internal/common"
	"exchangecore/internal/events"
)

func (se *SymbolEngine) emitTrade(t *common.Trade) {
	se.publisher.Publish(events.Event{Kind: events.KindTrade, Trade: t})
}

func (se *SymbolEngine) emitOrderUpdate(o *common.Order) {
	se.publisher.Publish(events.Event{
		Kind: events.KindOrderUpdate,
		OrderUpdate: &events.OrderUpdate{
			OrderID:   o.ID,
			Symbol:    o.Symbol,
			Status:    o.Status,
			FilledQty: o.FilledQty.Int64(),
			EngineSeq: se.seq,
		},
	})
}

func (se *SymbolEngine) emitBookDelta(lvl *book.PriceLevel, isBid bool, action events.DeltaAction) {
	se.publisher.Publish(events.Event{
		Kind: events.KindBookDelta,
		BookDelta: &events.BookDelta{
			Symbol:              se.symbol,
			IsBid:               isBid,
			Price:               lvl.Price.Int64(),
			AggregateDisplayQty: lvl.AggregateDisplayQty(),
			Action:              action,
			EngineSeq:           se.seq,
		},
	})
}

func (se *SymbolEngine) emitTriggered(o *common.Order) {
	se.publisher.Publish(events.Event{
		Kind:      events.KindTriggered,
		Triggered: &events.Triggered{OrderID: o.ID, Symbol: o.Symbol, EngineSeq: se.seq},
	})
}

func (se *SymbolEngine) emitExpired(o *common.Order) {
	se.publisher.Publish(events.Event{
		Kind:    events.KindExpired,
		Expired: &events.Expired{OrderID: o.ID, Symbol: o.Symbol, EngineSeq: se.seq},
	})
}
