package book

import (
	"exchangecore/internal/fixedpoint"

	"github.com/tidwall/btree"
)

// priceValue aliases fixedpoint.Value for the price key used by this
// package's btree ordering, kept distinct from quantity values only for
// documentation purposes.
type priceValue = fixedpoint.Value

// Side is the ordered index of price levels for one side of the book
// (spec.md §4.3): ascending for asks, descending for bids, with the "best"
// level cheaply available via a cached pointer invalidated on empty.
//
// Grounded on the teacher's internal/engine/orderbook.go, which keeps bids
// and asks as two github.com/tidwall/btree.BTreeG[*PriceLevel] trees with
// inverted comparators; this generalizes that shape behind a named type
// with the explicit invariants spec.md requires (empty levels removed
// immediately, best cached).
type Side struct {
	isBid bool
	tree  *btree.BTreeG[*PriceLevel]
	best  *PriceLevel // cached; nil means "recompute from tree"
}

// NewSide builds an empty book side. isBid selects descending (best =
// highest price) vs. ascending (best = lowest price) comparison.
func NewSide(isBid bool) *Side {
	var less func(a, b *PriceLevel) bool
	if isBid {
		less = func(a, b *PriceLevel) bool { return a.Price.Cmp(b.Price) > 0 }
	} else {
		less = func(a, b *PriceLevel) bool { return a.Price.Cmp(b.Price) < 0 }
	}
	return &Side{isBid: isBid, tree: btree.NewBTreeG(less)}
}

// Best returns the best price level on this side, or nil if the side is
// empty. O(1) amortized via the cached pointer.
func (s *Side) Best() *PriceLevel {
	if s.best != nil {
		return s.best
	}
	lvl, ok := s.tree.Min()
	if !ok {
		return nil
	}
	s.best = lvl
	return lvl
}

// LevelAt returns the existing level at price, or nil.
func (s *Side) LevelAt(price priceValue) *PriceLevel {
	lvl, ok := s.tree.Get(newPriceLevel(price))
	if !ok {
		return nil
	}
	return lvl
}

// GetOrCreate returns the level at price, creating an empty one if absent.
func (s *Side) GetOrCreate(price priceValue) *PriceLevel {
	if lvl, ok := s.tree.Get(newPriceLevel(price)); ok {
		return lvl
	}
	lvl := newPriceLevel(price)
	s.tree.Set(lvl)
	s.best = nil
	return lvl
}

// PruneIfEmpty removes lvl from the tree if it has no live orders left,
// keeping "best" correct per spec.md §4.3.
func (s *Side) PruneIfEmpty(lvl *PriceLevel) {
	if !lvl.Empty() {
		return
	}
	s.tree.Delete(lvl)
	if s.best == lvl {
		s.best = nil
	}
}

// InvalidateBest forces the next Best() call to recompute from the tree;
// used after any structural mutation.
func (s *Side) InvalidateBest() {
	s.best = nil
}

// Acceptable reports whether a resting price at this side is acceptable
// for a limit-priced taker walking the opposing side: for a buy taker
// walking asks, best_ask <= limit; for a sell taker walking bids,
// best_bid >= limit (spec.md §4.4 step 3).
func (s *Side) Acceptable(restingPrice, takerLimit priceValue, takerIsBuy bool) bool {
	if takerIsBuy {
		return restingPrice.Cmp(takerLimit) <= 0
	}
	return restingPrice.Cmp(takerLimit) >= 0
}

// Levels returns up to depth levels in priority order (best first), or all
// levels when depth <= 0, for depth snapshots and tests. O(depth).
func (s *Side) Levels(depth int) []*PriceLevel {
	var out []*PriceLevel
	s.tree.Scan(func(lvl *PriceLevel) bool {
		out = append(out, lvl)
		return depth <= 0 || len(out) < depth
	})
	return out
}

// Len reports the number of distinct price levels on this side.
func (s *Side) Len() int { return s.tree.Len() }

// CrossesWith reports whether this side's best crosses against the other
// side's best (no-crossed-book invariant check helper, spec.md §3
// invariant 3). The receiver must be the bid side.
func (s *Side) CrossesWith(asks *Side) bool {
	bestBid := s.Best()
	bestAsk := asks.Best()
	if bestBid == nil || bestAsk == nil {
		return false
	}
	return bestBid.Price.Cmp(bestAsk.Price) >= 0
}
