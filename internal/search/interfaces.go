package search

import (
	"context"
	"time"
)

// Fetcher retrieves the raw content of a URL. Implementations retry
// internally; an error means the URL yielded no content and the caller
// should move on.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// TaskQueue hands crawl tasks to the worker pool. TryEnqueue must not block:
// it either hands the task off or fails immediately.
type TaskQueue interface {
	TryEnqueue(task Task) error
	Dequeue(ctx context.Context) (Task, error)
}

// Clock returns the current time (swappable for testing).
type Clock interface {
	Now() time.Time
}

// IDGenerator produces search identifiers.
type IDGenerator interface {
	NewID() (string, error)
}
