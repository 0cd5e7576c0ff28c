package book

import (
	"testing"

	"exchangecore/internal/fixedpoint"

	"github.com/stretchr/testify/assert"
)

func TestBidSideOrdersDescending(t *testing.T) {
	side := NewSide(true)
	side.GetOrCreate(fixedpoint.Value(100))
	side.GetOrCreate(fixedpoint.Value(105))
	side.GetOrCreate(fixedpoint.Value(95))

	levels := side.Levels(0)
	assert.Equal(t, int64(105), levels[0].Price.Int64())
	assert.Equal(t, int64(100), levels[1].Price.Int64())
	assert.Equal(t, int64(95), levels[2].Price.Int64())
	assert.Equal(t, int64(105), side.Best().Price.Int64())
}

func TestAskSideOrdersAscending(t *testing.T) {
	side := NewSide(false)
	side.GetOrCreate(fixedpoint.Value(100))
	side.GetOrCreate(fixedpoint.Value(105))
	side.GetOrCreate(fixedpoint.Value(95))

	levels := side.Levels(0)
	assert.Equal(t, int64(95), levels[0].Price.Int64())
	assert.Equal(t, int64(100), levels[1].Price.Int64())
	assert.Equal(t, int64(105), levels[2].Price.Int64())
	assert.Equal(t, int64(95), side.Best().Price.Int64())
}

func TestSidePruneIfEmptyInvalidatesBest(t *testing.T) {
	side := NewSide(false)
	lvl := side.GetOrCreate(fixedpoint.Value(95))
	lvl.Append(testOrder("a", 10))
	assert.Equal(t, lvl, side.Best())

	lvl.Remove(lvl.Front())
	side.PruneIfEmpty(lvl)
	assert.Nil(t, side.Best())
	assert.Equal(t, 0, side.Len())
}

func TestSideAcceptable(t *testing.T) {
	asks := NewSide(false)
	// buy taker walking asks: resting price must be <= taker limit
	assert.True(t, asks.Acceptable(fixedpoint.Value(100), fixedpoint.Value(101), true))
	assert.False(t, asks.Acceptable(fixedpoint.Value(102), fixedpoint.Value(101), true))

	bids := NewSide(true)
	// sell taker walking bids: resting price must be >= taker limit
	assert.True(t, bids.Acceptable(fixedpoint.Value(100), fixedpoint.Value(99), false))
	assert.False(t, bids.Acceptable(fixedpoint.Value(98), fixedpoint.Value(99), false))
}

func TestBookNoCrossedBook(t *testing.T) {
	b := New()
	b.Bids.GetOrCreate(fixedpoint.Value(100))
	b.Asks.GetOrCreate(fixedpoint.Value(101))
	assert.True(t, b.NoCrossedBook())

	b.Bids.GetOrCreate(fixedpoint.Value(102))
	assert.False(t, b.NoCrossedBook())
}
