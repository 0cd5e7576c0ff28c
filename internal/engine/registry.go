package engine

import (
	"context"
	"fmt"
	"time"

	"exchangecore/internal/common"
	"exchangecore/internal/events"
	"exchangecore/internal/fixedpoint"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	tomb "gopkg.in/tomb.v2"
)

// Engine is the top-level matching engine (spec.md §3 "System"): a
// registry of one SymbolEngine per traded symbol, each running its own
// single-writer goroutine under a shared tomb so a fatal error on one
// symbol does not silently leave the others running orphaned.
//
// Grounded on the teacher's internal/engine/engine.go, which kept a
// map[AssetType]OrderBook behind one Engine value; this generalizes that
// registry from a fixed AssetType enum to arbitrary string symbols, each
// with its own command queue instead of a single shared book mutex.
type Engine struct {
	t       *tomb.Tomb
	symbols map[string]*SymbolEngine
	logger  zerolog.Logger
}

// SymbolConfig describes the fixed-point scales a symbol trades at
// (spec.md §4.1): prices and quantities are independently scaled, e.g. a
// USD pair at 1e-2 price resolution and 1e-8 quantity resolution.
type SymbolConfig struct {
	Symbol     string
	PriceScale fixedpoint.Scale
	QtyScale   fixedpoint.Scale
}

// New builds an Engine with one SymbolEngine per entry in configs, and
// starts each one's single-writer loop under t.
func New(t *tomb.Tomb, logger zerolog.Logger, configs ...SymbolConfig) (*Engine, error) {
	e := &Engine{t: t, symbols: make(map[string]*SymbolEngine, len(configs)), logger: logger}
	for _, cfg := range configs {
		if _, exists := e.symbols[cfg.Symbol]; exists {
			return nil, fmt.Errorf("%w: duplicate symbol %q", ErrInvalidOrder, cfg.Symbol)
		}
		se := newSymbolEngine(cfg.Symbol, cfg.PriceScale, cfg.QtyScale, logger)
		e.symbols[cfg.Symbol] = se
		t.Go(func() error { return se.Run(t) })
	}
	return e, nil
}

func (e *Engine) lookup(symbol string) (*SymbolEngine, error) {
	se, ok := e.symbols[symbol]
	if !ok {
		return nil, ErrUnknownSymbol
	}
	return se, nil
}

// dispatch sends cmd to the symbol's command channel and waits for either
// a reply or ctx cancellation, which is the public-API suspension point of
// spec.md §5 (distinct from the engine's own internal suspension points).
// A ctx that is already done is reported without enqueuing cmd.
func dispatch(ctx context.Context, se *SymbolEngine, cmd command) (commandResult, error) {
	if err := ctx.Err(); err != nil {
		return commandResult{}, err
	}
	cmd.reply = make(chan commandResult, 1)
	select {
	case se.commands <- cmd:
	case <-ctx.Done():
		return commandResult{}, ctx.Err()
	}
	select {
	case res := <-cmd.reply:
		return res, nil
	case <-ctx.Done():
		return commandResult{}, ctx.Err()
	}
}

// Submit accepts a new order for matching (spec.md §4.4). The caller need
// not set ID; one is minted here so every accepted order has a globally
// unique identity regardless of transport.
func (e *Engine) Submit(ctx context.Context, o *common.Order) (*MatchReport, error) {
	se, err := e.lookup(o.Symbol)
	if err != nil {
		return nil, err
	}
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	res, err := dispatch(ctx, se, command{kind: cmdSubmit, order: o})
	if err != nil {
		return nil, err
	}
	if res.err != nil {
		return res.report, res.err
	}
	return res.report, nil
}

// Cancel removes a resting or pending-trigger order by id (spec.md §4.4
// "Cancellation").
func (e *Engine) Cancel(ctx context.Context, symbol, orderID string) (common.Status, error) {
	se, err := e.lookup(symbol)
	if err != nil {
		return 0, err
	}
	res, err := dispatch(ctx, se, command{kind: cmdCancel, orderID: orderID})
	if err != nil {
		return 0, err
	}
	return res.status, res.err
}

// AmendDownQty reduces a resting order's remaining quantity in place
// (spec.md §4.4(a)).
func (e *Engine) AmendDownQty(ctx context.Context, symbol, orderID string, newQty fixedpoint.Value) error {
	se, err := e.lookup(symbol)
	if err != nil {
		return err
	}
	res, err := dispatch(ctx, se, command{kind: cmdAmendDownQty, orderID: orderID, newQty: newQty})
	if err != nil {
		return err
	}
	return res.err
}

// Snapshot returns a depth-limited view of a symbol's book (spec.md §6).
func (e *Engine) Snapshot(ctx context.Context, symbol string, depth int) (DepthSnapshot, error) {
	se, err := e.lookup(symbol)
	if err != nil {
		return DepthSnapshot{}, err
	}
	res, err := dispatch(ctx, se, command{kind: cmdSnapshot, depth: depth})
	if err != nil {
		return DepthSnapshot{}, err
	}
	return res.snapshot, res.err
}

// Tick drives GTD expiry for a symbol (spec.md §4.4 "GTD expiry"): queued
// like any other command so expiry never preempts in-flight matching.
func (e *Engine) Tick(ctx context.Context, symbol string, now time.Time) error {
	se, err := e.lookup(symbol)
	if err != nil {
		return err
	}
	_, err = dispatch(ctx, se, command{kind: cmdTick, now: now})
	return err
}

// Subscribe registers an event subscriber for a symbol's trade/book-delta
// stream (spec.md §4.8 C9).
func (e *Engine) Subscribe(symbol string, bufferSize int, policy events.Policy) (*events.Subscriber, error) {
	se, err := e.lookup(symbol)
	if err != nil {
		return nil, err
	}
	return se.Subscribe(bufferSize, policy), nil
}

// Symbols lists every symbol this engine instance is currently serving.
func (e *Engine) Symbols() []string {
	out := make([]string, 0, len(e.symbols))
	for s := range e.symbols {
		out = append(out, s)
	}
	return out
}
