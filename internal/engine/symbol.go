// Package engine implements the matching core (C5) and per-symbol
// single-writer front-end (C10) of spec.md §4.4 and §4.9.
//
// Grounded on the teacher's internal/engine/engine.go (Engine.Books map,
// Trade hook) and internal/engine/orderbook.go (crossing loop shape), and
// on internal/net/server.go's gopkg.in/tomb.v2-supervised worker loop for
// the single-writer goroutine discipline of spec.md §5.
package engine

import (
	"fmt"
	"time"

	"exchangecore/internal/book"
	"exchangecore/internal/common"
	"exchangecore/internal/engine/index"
	"exchangecore/internal/engine/stops"
	"exchangecore/internal/events"
	"exchangecore/internal/fixedpoint"

	"github.com/rs/zerolog"
	tomb "gopkg.in/tomb.v2"
)

// commandQueueSize bounds the per-symbol command channel (spec.md §5).
const commandQueueSize = 1024

// SymbolEngine is the single logical engine for one symbol (spec.md §4.9):
// exactly one active worker goroutine ever touches its book, stop index,
// and order index. All public methods besides the command-submitting ones
// are unexported and only ever called from the worker goroutine itself.
type SymbolEngine struct {
	symbol string

	book       *book.Book
	stopBook   *stops.Book
	orderIndex *index.Index
	publisher  *events.Publisher

	priceScale fixedpoint.Scale
	qtyScale   fixedpoint.Scale

	seq            uint64
	lastTradePrice fixedpoint.Value
	gtdOrders      []*common.Order

	commands chan command
	logger   zerolog.Logger
}

func newSymbolEngine(symbol string, priceScale, qtyScale fixedpoint.Scale, logger zerolog.Logger) *SymbolEngine {
	return &SymbolEngine{
		symbol:     symbol,
		book:       book.New(),
		stopBook:   stops.New(),
		orderIndex: index.New(),
		publisher:  events.NewPublisher(symbol),
		priceScale: priceScale,
		qtyScale:   qtyScale,
		commands:   make(chan command, commandQueueSize),
		logger:     logger.With().Str("symbol", symbol).Logger(),
	}
}

// Subscribe registers a new event subscriber for this symbol's trade and
// book-delta stream (spec.md §4.8).
func (se *SymbolEngine) Subscribe(bufferSize int, policy events.Policy) *events.Subscriber {
	return se.publisher.Subscribe(bufferSize, policy)
}

// Run is the single-writer loop of spec.md §4.9/§5: it dequeues commands
// (the only non-matching suspension point besides a blocking publish) and
// applies them strictly in arrival order, which is therefore also
// CreatedSeq order and the canonical order of observable effects.
func (se *SymbolEngine) Run(t *tomb.Tomb) error {
	se.logger.Info().Msg("symbol engine starting")
	for {
		select {
		case <-t.Dying():
			se.logger.Info().Msg("symbol engine stopping")
			return nil
		case cmd := <-se.commands:
			se.handle(cmd)
		}
	}
}

func (se *SymbolEngine) nextSeq() uint64 {
	se.seq++
	return se.seq
}

func (se *SymbolEngine) handle(cmd command) {
	if !cmd.deadline.IsZero() && time.Now().After(cmd.deadline) {
		cmd.reply <- commandResult{err: ErrExpired}
		return
	}
	switch cmd.kind {
	case cmdSubmit:
		report, err := se.submit(cmd.order)
		cmd.reply <- commandResult{report: report, err: err}
	case cmdCancel:
		status, err := se.cancel(cmd.orderID)
		cmd.reply <- commandResult{status: status, err: err}
	case cmdAmendDownQty:
		err := se.amendDownQty(cmd.orderID, cmd.newQty)
		cmd.reply <- commandResult{err: err}
	case cmdSnapshot:
		cmd.reply <- commandResult{snapshot: se.snapshot(cmd.depth)}
	case cmdTick:
		se.tick(cmd.now)
		cmd.reply <- commandResult{}
	default:
		cmd.reply <- commandResult{err: fmt.Errorf("%w: unknown command kind %d", ErrInternal, cmd.kind)}
	}
}
