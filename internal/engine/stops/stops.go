// Package stops implements the stop/triggered book of spec.md §4.5 (C7):
// stop and stop-limit orders held outside the main book, indexed by
// stop_price, and triggered only in response to a trade moving the
// last-traded price (never via mid-cross inspection).
//
// Grounded on ccyyhlg-lightning-exchange/orderbook/price_tree_sharded.go,
// which reaches for github.com/emirpasic/gods/v2/trees/redblacktree as the
// ordered-map primitive backing a price-keyed index; the same library is
// used here for the two stop indices instead of hand-rolling a balanced
// tree, since gods/v2 already ships comparator-driven ascending/descending
// ordered iteration.
package stops

import (
	"exchangecore/internal/common"
	"exchangecore/internal/fixedpoint"

	rbt "github.com/emirpasic/gods/v2/trees/redblacktree"
)

// queue is the FIFO of pending stops that share one stop_price.
type queue struct {
	orders []*common.Order
}

// Book holds the two stop indices of spec.md §4.5: buy-stops trigger when
// the last trade price rises to meet or exceed their stop_price; sell-stops
// trigger when it falls to meet or go below theirs.
type Book struct {
	buyStops  *rbt.Tree[int64, *queue] // ascending: lowest stop triggers first as price rises
	sellStops *rbt.Tree[int64, *queue] // descending: highest stop triggers first as price falls
	byID      map[string]stopLocation
}

type stopLocation struct {
	price  int64
	isBuy  bool
	source *common.Order
}

func ascending(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func descending(a, b int64) int { return -ascending(a, b) }

func New() *Book {
	return &Book{
		buyStops:  rbt.NewWith[int64, *queue](ascending),
		sellStops: rbt.NewWith[int64, *queue](descending),
		byID:      make(map[string]stopLocation),
	}
}

func (b *Book) treeFor(side common.Side) *rbt.Tree[int64, *queue] {
	if side == common.Buy {
		return b.buyStops
	}
	return b.sellStops
}

// Add places a stop order in the index keyed by its stop price, per
// spec.md §4.4 step 1 ("Triggered-first check"). The order's status must
// already be PendingTrigger.
func (b *Book) Add(o *common.Order) {
	tree := b.treeFor(o.Side)
	key := o.StopPrice.Int64()
	q, found := tree.Get(key)
	if !found {
		q = &queue{}
		tree.Put(key, q)
	}
	q.orders = append(q.orders, o)
	b.byID[o.ID] = stopLocation{price: key, isBuy: o.Side == common.Buy, source: o}
}

// Remove deletes a pending stop by id (cancellation against the stop
// index, spec.md §4.4 "Cancellation ... For stops in the stop index, same
// but via the stop index"), returning the removed order so the caller can
// finalize its status.
func (b *Book) Remove(orderID string) (*common.Order, bool) {
	loc, ok := b.byID[orderID]
	if !ok {
		return nil, false
	}
	tree := b.buyStops
	if !loc.isBuy {
		tree = b.sellStops
	}
	var removed *common.Order
	q, found := tree.Get(loc.price)
	if found {
		for i, o := range q.orders {
			if o.ID == orderID {
				removed = o
				q.orders = append(q.orders[:i], q.orders[i+1:]...)
				break
			}
		}
		if len(q.orders) == 0 {
			tree.Remove(loc.price)
		}
	}
	delete(b.byID, orderID)
	return removed, removed != nil
}

func (b *Book) Has(orderID string) bool {
	_, ok := b.byID[orderID]
	return ok
}

// Triggered returns (and removes from the index) every stop order that
// fires against last, in trigger-priority order: buy-stops with
// stop_price <= last ascending by stop_price, then sell-stops with
// stop_price >= last descending by stop_price (spec.md §4.4 step 5).
func (b *Book) Triggered(last fixedpoint.Value) []*common.Order {
	var fired []*common.Order
	fired = append(fired, drain(b.buyStops, last.Int64(), func(key, last int64) bool { return key <= last })...)
	fired = append(fired, drain(b.sellStops, last.Int64(), func(key, last int64) bool { return key >= last })...)
	for _, o := range fired {
		delete(b.byID, o.ID)
	}
	return fired
}

func drain(tree *rbt.Tree[int64, *queue], last int64, fires func(key, last int64) bool) []*common.Order {
	var out []*common.Order
	var toRemove []int64
	for _, key := range tree.Keys() {
		if !fires(key, last) {
			break // tree.Keys() is ordered by the tree's own comparator
		}
		q, _ := tree.Get(key)
		out = append(out, q.orders...)
		toRemove = append(toRemove, key)
	}
	for _, key := range toRemove {
		tree.Remove(key)
	}
	return out
}

func (b *Book) Len() int { return len(b.byID) }
