package transport

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tomb "gopkg.in/tomb.v2"
)

func TestPoolProcessesAllTasks(t *testing.T) {
	pool := NewPool(3, zerolog.Nop())
	var processed int64

	tb, _ := tomb.WithContext(context.Background())
	pool.Run(tb, func(t *tomb.Tomb, task Task) error {
		atomic.AddInt64(&processed, 1)
		return nil
	})

	const n = 20
	for i := 0; i < n; i++ {
		pool.Add(i)
	}

	require.Eventually(t, func() bool {
		return atomic.LoadInt64(&processed) == n
	}, time.Second, time.Millisecond)

	tb.Kill(nil)
	_ = tb.Wait()
}

func TestPoolWorkerExitsOnHandlerError(t *testing.T) {
	pool := NewPool(1, zerolog.Nop())
	boom := assert.AnError

	tb, _ := tomb.WithContext(context.Background())
	pool.Run(tb, func(t *tomb.Tomb, task Task) error {
		return boom
	})

	pool.Add("task")

	err := tb.Wait()
	assert.ErrorIs(t, err, boom)
}
