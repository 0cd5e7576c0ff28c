// Package transport adapts the teacher's worker-pool pattern into a
// generic bounded task pool used by internal/net to service inbound
// connections without spawning one goroutine per client (spec.md §6.1,
// ambient transport — not part of the matching core).
//
// Grounded on saiputravu-Exchange/internal/worker.go's WorkerPool: a fixed
// number of tomb.v2-supervised workers pulling tasks off one channel.
package transport

import (
	"github.com/rs/zerolog"
	tomb "gopkg.in/tomb.v2"
)

const taskQueueSize = 256

// Task is one unit of work handed to the pool, e.g. a net.Conn with one
// inbound message to read.
type Task = any

// Handler processes one Task; a non-nil error is fatal to the pool's tomb.
type Handler func(t *tomb.Tomb, task Task) error

// Pool runs a fixed number of workers draining a shared task channel.
type Pool struct {
	size   int
	tasks  chan Task
	logger zerolog.Logger
}

// NewPool builds a pool of size workers with a task buffer of
// taskQueueSize.
func NewPool(size int, logger zerolog.Logger) *Pool {
	return &Pool{size: size, tasks: make(chan Task, taskQueueSize), logger: logger}
}

// Add enqueues a task, blocking if the pool's buffer is full.
func (p *Pool) Add(task Task) {
	p.tasks <- task
}

// Run starts size workers under t and returns without waiting for them;
// the workers stop when t is dying. Each worker
// loops picking up the next task rather than exiting after one, unlike the
// teacher's original worker (which re-spawned a goroutine per task); this
// avoids a goroutine-per-connection amplification under churn.
func (p *Pool) Run(t *tomb.Tomb, handle Handler) {
	p.logger.Info().Int("workers", p.size).Msg("starting transport pool")
	for i := 0; i < p.size; i++ {
		t.Go(func() error { return p.worker(t, handle) })
	}
}

func (p *Pool) worker(t *tomb.Tomb, handle Handler) error {
	for {
		select {
		case <-t.Dying():
			return nil
		case task := <-p.tasks:
			if err := handle(t, task); err != nil {
				p.logger.Error().Err(err).Msg("transport worker exiting on error")
				return err
			}
		}
	}
}
