// Package index implements the order index of spec.md §4.7 (C6): a map
// from order id to a non-owning locator describing where the order rests.
// The book side (internal/book) owns the order; this package only ever
// holds a weak reference, never extending the order's lifetime past its
// removal from the book.
//
// Grounded on ccyyhlg-lightning-exchange/orderbook/orderbook.go's
// `orders map[string]*domain.Order`, generalized here to store a locator
// (side, price) instead of the order pointer itself, matching
// spec.md §3's "non-owning reference" ownership rule.
package index

import "exchangecore/internal/fixedpoint"

// Locator records which side an order rests on and at which price. The
// level is looked up by that price, and the order is then found by scanning
// the level's FIFO.
type Locator struct {
	IsBuy bool
	Price fixedpoint.Value
}

// Index is the order_id -> locator map. It is only ever touched by the
// single writer goroutine owning the book, so it needs no internal
// synchronization (spec.md §5).
type Index struct {
	locators map[string]Locator
}

func New() *Index {
	return &Index{locators: make(map[string]Locator)}
}

func (ix *Index) Put(orderID string, loc Locator) {
	ix.locators[orderID] = loc
}

func (ix *Index) Get(orderID string) (Locator, bool) {
	loc, ok := ix.locators[orderID]
	return loc, ok
}

func (ix *Index) Delete(orderID string) {
	delete(ix.locators, orderID)
}

func (ix *Index) Len() int { return len(ix.locators) }

// Has reports whether orderID currently has a live locator; an id that is
// unknown or already terminal has none.
func (ix *Index) Has(orderID string) bool {
	_, ok := ix.locators[orderID]
	return ok
}
