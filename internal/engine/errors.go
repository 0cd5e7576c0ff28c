package engine

import "errors"

// Submission/cancellation outcome taxonomy, spec.md §7. Grounded on the
// teacher's own sentinel-error style in internal/engine/orderbook.go
// (ErrNotEnoughLiquidity, ErrRejection).
var (
	ErrInvalidOrder   = errors.New("engine: invalid order")
	ErrInvalidPrice   = errors.New("engine: invalid price")
	ErrWouldCross     = errors.New("engine: would cross (post-only)")
	ErrFOKUnfillable  = errors.New("engine: fill-or-kill order cannot be filled in full")
	ErrUnfillable     = errors.New("engine: market order has nothing to trade against")
	ErrNotFound       = errors.New("engine: order not found")
	ErrExpired        = errors.New("engine: command expired before processing")
	ErrInternal       = errors.New("engine: internal error")
	ErrUnknownSymbol  = errors.New("engine: unknown symbol")
)
