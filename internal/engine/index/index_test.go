package index

import (
	"testing"

	"exchangecore/internal/fixedpoint"

	"github.com/stretchr/testify/assert"
)

func TestIndexPutGetDelete(t *testing.T) {
	ix := New()
	assert.False(t, ix.Has("o1"))

	ix.Put("o1", Locator{IsBuy: true, Price: fixedpoint.Value(100)})
	loc, ok := ix.Get("o1")
	assert.True(t, ok)
	assert.True(t, loc.IsBuy)
	assert.Equal(t, int64(100), loc.Price.Int64())
	assert.Equal(t, 1, ix.Len())

	ix.Delete("o1")
	assert.False(t, ix.Has("o1"))
	assert.Equal(t, 0, ix.Len())
}

func TestIndexGetMissing(t *testing.T) {
	ix := New()
	_, ok := ix.Get("missing")
	assert.False(t, ok)
}
