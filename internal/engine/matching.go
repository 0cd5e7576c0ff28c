package engine

import (
	"time"

	"exchangecore/internal/book"
	"exchangecore/internal/common"
	"exchangecore/internal/engine/iceberg"
	"exchangecore/internal/engine/index"
	"exchangecore/internal/events"
	"exchangecore/internal/fixedpoint"

	"github.com/google/uuid"
)

// submit is the matching core entry point of spec.md §4.4. It assigns
// CreatedSeq at the instant of acceptance (before any matching), runs the
// full algorithm including any cascaded stop triggers, and returns the
// accumulated MatchReport. A rejection (InvalidOrder/InvalidPrice/
// WouldCross/FOKUnfillable) leaves the book byte-for-byte unchanged and
// returns a zero-trade, zero-delta report alongside the sentinel error.
func (se *SymbolEngine) submit(o *common.Order) (*MatchReport, error) {
	if err := validate(o); err != nil {
		o.Status = common.Rejected
		return &MatchReport{Order: o}, err
	}

	o.CreatedSeq = se.nextSeq()
	o.CreatedAt = time.Now()
	o.LastUpdateSeq = o.CreatedSeq
	o.Status = common.New
	if o.Kind == common.Iceberg {
		o.IcebergDisplaySize = o.DisplayQty
	}

	report := &MatchReport{Order: o}
	err := se.process(o, report)
	if err != nil {
		return &MatchReport{Order: o}, err
	}
	return report, nil
}

// process runs steps 1-5 of spec.md §4.4 for one order (either the
// original submission or a stop converted into its underlying kind), and
// recurses into newly-triggered stops so their trades/deltas land in the
// same report (step 5, "a single submission can cascade").
func (se *SymbolEngine) process(o *common.Order, report *MatchReport) error {
	// Step 1: triggered-first check.
	if o.Kind.IsStop() {
		o.Status = common.PendingTrigger
		se.stopBook.Add(o)
		se.emitOrderUpdate(o)
		return nil
	}

	opposing := se.book.Opposing(o.Side == common.Buy)

	// Step 2: PostOnly check.
	if o.Kind == common.Limit && o.TIF == common.PostOnly {
		if se.crossesImmediately(opposing, o) {
			o.Status = common.Rejected
			return ErrWouldCross
		}
	}

	// FOK atomicity: dry-run before any mutation.
	if o.TIF == common.FOK {
		if !se.dryRunFillable(o, opposing) {
			o.Status = common.Rejected
			return ErrFOKUnfillable
		}
	}

	// Step 3: crossing loop.
	se.cross(o, opposing, report)

	// Step 4: residual handling.
	se.handleResidual(o, report)

	// Step 5: post-match stop evaluation, cascading.
	if len(report.Trades) > 0 {
		fired := se.stopBook.Triggered(se.lastTradePrice)
		for _, stop := range fired {
			se.convertTriggered(stop)
			se.emitTriggered(stop)
			se.process(stop, report)
		}
	}
	return nil
}

// convertTriggered transitions a stop order into its underlying kind at
// the moment it fires (spec.md §4.5): StopMarket -> Market, StopLimit ->
// Limit at its configured limit_price. It keeps the original id/account
// and moves PendingTrigger -> New.
func (se *SymbolEngine) convertTriggered(o *common.Order) {
	switch o.Kind {
	case common.StopMarket:
		o.Kind = common.Market
	case common.StopLimit:
		o.Kind = common.Limit
	}
	o.Status = common.New
	o.CreatedSeq = se.nextSeq()
	o.LastUpdateSeq = o.CreatedSeq
}

// crossesImmediately reports whether a PostOnly limit order would trade on
// submission (spec.md §4.4 step 2).
func (se *SymbolEngine) crossesImmediately(opposing *book.Side, o *common.Order) bool {
	lvl := opposing.Best()
	if lvl == nil {
		return false
	}
	return opposing.Acceptable(lvl.Price, o.LimitPrice, o.Side == common.Buy)
}

// dryRunFillable reports whether o could be filled in full at acceptable
// prices without mutating the book (spec.md §4.4 step 4, FOK); a Market
// order accepts every price, as in cross. Because an
// iceberg's hidden reserve becomes available for matching within the same
// sweep as soon as its displayed slice is exhausted, the total liquidity
// available at a level — displayed and hidden — is exactly
// AggregateTotalQty, so summing it over acceptable levels is exact, not an
// approximation.
func (se *SymbolEngine) dryRunFillable(o *common.Order, opposing *book.Side) bool {
	need := o.Quantity
	for _, lvl := range opposing.Levels(0) {
		if o.Kind != common.Market && !opposing.Acceptable(lvl.Price, o.LimitPrice, o.Side == common.Buy) {
			break
		}
		need = need.Sub(fixedpoint.Value(lvl.AggregateTotalQty()))
		if need.Cmp(fixedpoint.Zero) <= 0 {
			return true
		}
	}
	return need.Cmp(fixedpoint.Zero) <= 0
}

// cross walks the opposing side's best price levels, consuming resting
// orders in strict FIFO order, until the taker is filled, the opposing
// side is exhausted, or (for limit-priced takers) the next level is no
// longer acceptable (spec.md §4.4 step 3).
func (se *SymbolEngine) cross(taker *common.Order, opposing *book.Side, report *MatchReport) {
	takerIsBuy := taker.Side == common.Buy
	for taker.RemainingQty().Positive() {
		lvl := opposing.Best()
		if lvl == nil {
			break
		}
		if taker.Kind != common.Market {
			if !opposing.Acceptable(lvl.Price, taker.LimitPrice, takerIsBuy) {
				break
			}
		}

		for !lvl.Empty() && taker.RemainingQty().Positive() {
			maker := lvl.Front()
			makerDisplayed := maker.DisplayedRemaining()
			matchQty := taker.RemainingQty()
			if makerDisplayed.Cmp(matchQty) < 0 {
				matchQty = makerDisplayed
			}

			preDisplay := maker.DisplayedRemaining().Int64()
			maker.FilledQty = maker.FilledQty.Add(matchQty)
			if maker.Kind == common.Iceberg {
				maker.DisplayQty = maker.DisplayQty.Sub(matchQty)
			}
			taker.FilledQty = taker.FilledQty.Add(matchQty)
			postDisplay := maker.DisplayedRemaining().Int64()
			lvl.ApplyFill(matchQty.Int64(), preDisplay, postDisplay)

			trade := se.newTrade(maker, taker, lvl.Price, matchQty)
			report.Trades = append(report.Trades, trade)
			se.lastTradePrice = lvl.Price
			se.emitTrade(trade)

			maker.LastUpdateSeq = se.seq
			taker.LastUpdateSeq = se.seq

			switch {
			case maker.IsFullyFilled():
				maker.Status = common.Filled
				lvl.DropFront()
				se.orderIndex.Delete(maker.ID)
				se.emitOrderUpdate(maker)
			case maker.Kind == common.Iceberg && !maker.DisplayQty.Positive():
				maker.Status = common.PartiallyFilled
				lvl.DropFront()
				refilled := iceberg.Refill(lvl, maker, maker.IcebergDisplaySize, se.nextSeq())
				se.emitOrderUpdate(maker)
				if refilled {
					report.Deltas = append(report.Deltas, se.deltaFor(lvl, maker.Side == common.Buy, events.DeltaChange))
					se.emitBookDelta(lvl, maker.Side == common.Buy, events.DeltaChange)
				}
			default:
				maker.Status = common.PartiallyFilled
				se.emitOrderUpdate(maker)
			}
		}

		if lvl.Empty() {
			isBid := opposing == se.book.Bids
			opposing.PruneIfEmpty(lvl)
			report.Deltas = append(report.Deltas, se.deltaFor(lvl, isBid, events.DeltaRemove))
			se.emitBookDelta(lvl, isBid, events.DeltaRemove)
		}
	}
}

func (se *SymbolEngine) deltaFor(lvl *book.PriceLevel, isBid bool, action events.DeltaAction) *events.BookDelta {
	return &events.BookDelta{
		Symbol:              se.symbol,
		IsBid:               isBid,
		Price:               lvl.Price.Int64(),
		AggregateDisplayQty: lvl.AggregateDisplayQty(),
		Action:              action,
		EngineSeq:           se.seq,
	}
}

// handleResidual applies spec.md §4.4 step 4 to whatever quantity the
// crossing loop did not consume.
func (se *SymbolEngine) handleResidual(taker *common.Order, report *MatchReport) {
	remaining := taker.RemainingQty()
	if !remaining.Positive() {
		taker.Status = common.Filled
		se.emitOrderUpdate(taker)
		return
	}

	if taker.Kind == common.Market {
		taker.Status = common.Canceled
		se.emitOrderUpdate(taker)
		return
	}

	switch taker.TIF {
	case common.IOC, common.FOK:
		taker.Status = common.Canceled
		se.emitOrderUpdate(taker)
	default: // GTC, PostOnly, GTD
		if taker.FilledQty.Positive() {
			taker.Status = common.PartiallyFilled
		} else {
			taker.Status = common.New
		}
		if taker.Kind == common.Iceberg {
			display := taker.IcebergDisplaySize
			if remaining.Cmp(display) < 0 {
				display = remaining
			}
			taker.DisplayQty = display
		}
		side := se.book.SideFor(taker.Side == common.Buy)
		lvl := side.GetOrCreate(taker.LimitPrice)
		wasEmpty := lvl.Empty()
		lvl.Append(taker)
		se.orderIndex.Put(taker.ID, index.Locator{IsBuy: taker.Side == common.Buy, Price: taker.LimitPrice})
		action := events.DeltaChange
		if wasEmpty {
			action = events.DeltaAdd
		}
		report.Deltas = append(report.Deltas, se.deltaFor(lvl, taker.Side == common.Buy, action))
		se.emitBookDelta(lvl, taker.Side == common.Buy, action)
		se.emitOrderUpdate(taker)
		if taker.TIF == common.GTD {
			se.gtdOrders = append(se.gtdOrders, taker)
		}
	}
}

func (se *SymbolEngine) newTrade(maker, taker *common.Order, price, qty fixedpoint.Value) *common.Trade {
	return &common.Trade{
		ID:             uuid.NewString(),
		Symbol:         se.symbol,
		MakerOrderID:   maker.ID,
		TakerOrderID:   taker.ID,
		Price:          price,
		Quantity:       qty,
		AggressorSide:  taker.Side,
		EngineSeq:      se.nextSeq(),
		EngineTime:     time.Now(),
		FeeScheduleRef: taker.FeeScheduleRef,
	}
}
