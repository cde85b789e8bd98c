// Package memory provides the in-memory task queue backing the worker pool.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dfurtado/sitesearch/internal/search"
)

// ErrQueueFull signals that the pool cannot accept more work right now.
// Submission fails fast rather than blocking the caller.
var ErrQueueFull = errors.New("task queue full")

// Queue is a bounded in-memory queue with fail-fast enqueue. With capacity 0
// a TryEnqueue only succeeds while a worker is ready to receive, which makes
// saturation visible the moment every worker is busy.
type Queue struct {
	ch      chan search.Task
	closeMu sync.Mutex
	closed  bool
}

// NewQueue constructs a queue with the provided capacity.
func NewQueue(capacity int) *Queue {
	return &Queue{
		ch: make(chan search.Task, capacity),
	}
}

// TryEnqueue hands a task off without blocking. It returns ErrQueueFull when
// no worker can take the task immediately and the buffer is full.
func (q *Queue) TryEnqueue(task search.Task) error {
	q.closeMu.Lock()
	defer q.closeMu.Unlock()
	if q.closed {
		return errors.New("queue closed")
	}
	select {
	case q.ch <- task:
		return nil
	default:
		return ErrQueueFull
	}
}

// Dequeue pops the next task, respecting context cancellation.
func (q *Queue) Dequeue(ctx context.Context) (search.Task, error) {
	select {
	case <-ctx.Done():
		return search.Task{}, fmt.Errorf("dequeue canceled: %w", ctx.Err())
	case task, ok := <-q.ch:
		if !ok {
			return search.Task{}, errors.New("queue closed")
		}
		return task, nil
	}
}

// Close closes the underlying channel for shutdown. Safe to call twice.
func (q *Queue) Close() {
	q.closeMu.Lock()
	defer q.closeMu.Unlock()
	if q.closed {
		return
	}
	close(q.ch)
	q.closed = true
}
