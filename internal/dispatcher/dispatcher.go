// Package dispatcher manages worker fan-out over the task queue.
package dispatcher

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dfurtado/sitesearch/internal/search"
	"github.com/dfurtado/sitesearch/internal/worker"
)

// Dispatcher fans queue work out to a bounded pool of workers.
type Dispatcher struct {
	queue   search.TaskQueue
	workers []*worker.Worker
	wg      sync.WaitGroup
}

// New creates a Dispatcher.
func New(queue search.TaskQueue, workers []*worker.Worker) *Dispatcher {
	return &Dispatcher{
		queue:   queue,
		workers: workers,
	}
}

// Run starts all workers and blocks until the context finishes. Call Wait
// afterwards to give workers a bounded grace period to exit.
func (d *Dispatcher) Run(ctx context.Context) {
	for _, w := range d.workers {
		d.wg.Add(1)
		go func(wk *worker.Worker) {
			defer d.wg.Done()
			wk.Run(ctx)
		}(w)
	}
	<-ctx.Done()
}

// TryEnqueue proxies to the underlying queue without blocking.
func (d *Dispatcher) TryEnqueue(task search.Task) error {
	if err := d.queue.TryEnqueue(task); err != nil {
		return fmt.Errorf("queue enqueue: %w", err)
	}
	return nil
}

// Wait blocks until every worker has exited or the grace period elapses.
// It reports false when stragglers were abandoned.
func (d *Dispatcher) Wait(grace time.Duration) bool {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return true
	case <-time.After(grace):
		return false
	}
}
