package engine

import (
	"time"

	"exchangecore/internal/common"
	"exchangecore/internal/fixedpoint"
)

type commandKind int

const (
	cmdSubmit commandKind = iota
	cmdCancel
	cmdAmendDownQty
	cmdSnapshot
	cmdTick
)

// command is one entry on a SymbolEngine's bounded channel (spec.md §6).
// A command optionally carries a client deadline (spec.md §5
// "Cancellation/timeout"); if the worker dequeues it past the deadline it
// is rejected with Expired and has no book effect.
type command struct {
	kind     commandKind
	order    *common.Order
	orderID  string
	newQty   fixedpoint.Value
	depth    int
	now      time.Time
	deadline time.Time
	reply    chan commandResult
}

type commandResult struct {
	report   *MatchReport
	status   common.Status
	snapshot DepthSnapshot
	err      error
}
