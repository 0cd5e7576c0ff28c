package engine

import (
	"context"
	"testing"
	"time"

	"exchangecore/internal/common"
	"exchangecore/internal/fixedpoint"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tomb "gopkg.in/tomb.v2"
)

func newTestRegistry(t *testing.T, symbols ...string) *Engine {
	t.Helper()
	scale, err := fixedpoint.NewScale(2)
	require.NoError(t, err)

	var configs []SymbolConfig
	for _, s := range symbols {
		configs = append(configs, SymbolConfig{Symbol: s, PriceScale: scale, QtyScale: scale})
	}

	tb, ctx := tomb.WithContext(context.Background())
	eng, err := New(tb, zerolog.Nop(), configs...)
	require.NoError(t, err)

	t.Cleanup(func() {
		tb.Kill(nil)
		_ = tb.Wait()
	})
	_ = ctx
	return eng
}

func TestEngineSubmitMintsIDWhenAbsent(t *testing.T) {
	eng := newTestRegistry(t, "AAPL")
	ctx := context.Background()

	o := &common.Order{
		Symbol: "AAPL", Side: common.Buy, Kind: common.Limit, TIF: common.GTC,
		LimitPrice: fixedpoint.Value(100), Quantity: fixedpoint.Value(5),
	}
	report, err := eng.Submit(ctx, o)
	require.NoError(t, err)
	assert.NotEmpty(t, report.Order.ID)
}

func TestEngineUnknownSymbolRejected(t *testing.T) {
	eng := newTestRegistry(t, "AAPL")
	ctx := context.Background()

	_, err := eng.Submit(ctx, &common.Order{Symbol: "MSFT", Kind: common.Limit,
		LimitPrice: fixedpoint.Value(100), Quantity: fixedpoint.Value(5)})
	assert.ErrorIs(t, err, ErrUnknownSymbol)
}

func TestEngineSymbolsAreIsolated(t *testing.T) {
	eng := newTestRegistry(t, "AAPL", "MSFT")
	ctx := context.Background()

	_, err := eng.Submit(ctx, &common.Order{
		Symbol: "AAPL", Side: common.Buy, Kind: common.Limit, TIF: common.GTC,
		LimitPrice: fixedpoint.Value(100), Quantity: fixedpoint.Value(5),
	})
	require.NoError(t, err)

	snapAAPL, err := eng.Snapshot(ctx, "AAPL", 0)
	require.NoError(t, err)
	assert.Len(t, snapAAPL.Bids, 1)

	snapMSFT, err := eng.Snapshot(ctx, "MSFT", 0)
	require.NoError(t, err)
	assert.Empty(t, snapMSFT.Bids)
}

func TestEngineCancelRoundTrip(t *testing.T) {
	eng := newTestRegistry(t, "AAPL")
	ctx := context.Background()

	o := &common.Order{
		ID: "o1", Symbol: "AAPL", Side: common.Buy, Kind: common.Limit, TIF: common.GTC,
		LimitPrice: fixedpoint.Value(100), Quantity: fixedpoint.Value(5),
	}
	_, err := eng.Submit(ctx, o)
	require.NoError(t, err)

	status, err := eng.Cancel(ctx, "AAPL", "o1")
	require.NoError(t, err)
	assert.Equal(t, common.Canceled, status)
}

func TestEngineSubmitRespectsContextDeadline(t *testing.T) {
	eng := newTestRegistry(t, "AAPL")
	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	time.Sleep(time.Millisecond)

	_, err := eng.Submit(ctx, &common.Order{
		Symbol: "AAPL", Side: common.Buy, Kind: common.Limit, TIF: common.GTC,
		LimitPrice: fixedpoint.Value(100), Quantity: fixedpoint.Value(5),
	})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
