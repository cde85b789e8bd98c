// Package worker runs crawl traversals pulled from the task queue.
package worker

import (
	"context"

	"go.uber.org/zap"

	"github.com/dfurtado/sitesearch/internal/metrics"
	"github.com/dfurtado/sitesearch/internal/search"
)

// Worker consumes queued searches and runs the crawl engine for each, one at
// a time. Within a worker the traversal is strictly sequential; parallelism
// comes from running several workers.
type Worker struct {
	queue  search.TaskQueue
	engine *search.Engine
	logger *zap.Logger
}

// New constructs a Worker.
func New(queue search.TaskQueue, engine *search.Engine, logger *zap.Logger) *Worker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Worker{
		queue:  queue,
		engine: engine,
		logger: logger,
	}
}

// Run blocks, consuming tasks until the context finishes.
func (w *Worker) Run(ctx context.Context) {
	for {
		task, err := w.queue.Dequeue(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			w.logger.Error("queue dequeue failed", zap.Error(err))
			continue
		}
		w.runSearch(ctx, task.Search)
	}
}

func (w *Worker) runSearch(ctx context.Context, s *search.Search) {
	w.logger.Info("crawl started",
		zap.String("search_id", s.ID()),
		zap.String("keyword", s.Keyword()),
	)
	metrics.IncActiveCrawls()
	defer metrics.DecActiveCrawls()

	w.engine.Crawl(ctx, s)
	metrics.ObserveSearch(string(s.Status()))
}
