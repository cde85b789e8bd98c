package search

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/dfurtado/sitesearch/internal/metrics"
)

// EngineConfig controls one engine shared by all searches.
type EngineConfig struct {
	// BaseURL seeds every traversal and anchors domain scoping.
	BaseURL string
	// PollInterval is how long the loop sleeps when the frontier is empty.
	PollInterval time.Duration
	// MaxEmptyPolls bounds consecutive empty polls before the loop exits.
	MaxEmptyPolls int
	// VisitedLimit is the exploration ceiling: once this many URLs have been
	// visited, links are only followed from pages that matched the keyword.
	VisitedLimit int
	// LimitResults enables the early stop once MaxResults matches are stored.
	LimitResults bool
	MaxResults   int
}

// Engine drives one search's breadth-first traversal to completion. A single
// Engine is shared by all workers; per-search state lives in the frontier and
// the Search itself.
type Engine struct {
	fetcher Fetcher
	links   *LinkExtractor
	cfg     EngineConfig
	logger  *zap.Logger
}

// NewEngine constructs an Engine.
func NewEngine(fetcher Fetcher, links *LinkExtractor, cfg EngineConfig, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 100 * time.Millisecond
	}
	return &Engine{
		fetcher: fetcher,
		links:   links,
		cfg:     cfg,
		logger:  logger,
	}
}

// Crawl runs the breadth-first traversal for one search. It blocks until a
// termination condition fires: the frontier drains past the empty-poll
// threshold, the result cap is reached, or the context is canceled. Whatever
// the exit reason, the search always ends up done.
func (e *Engine) Crawl(ctx context.Context, s *Search) {
	start := time.Now()
	keyword := strings.ToLower(s.Keyword())
	f := newFrontier(e.cfg.BaseURL)
	processed := 0

	// The sole place a search is guaranteed to reach its terminal state.
	defer func() {
		s.SetStatus(StatusDone)
		e.logger.Info("crawl finished",
			zap.String("search_id", s.ID()),
			zap.Duration("duration", time.Since(start)),
			zap.Int("matches", s.MatchCount()),
			zap.Int("processed", processed),
		)
	}()

	emptyPolls := 0
	for (f.pendingCount() > 0 || emptyPolls < e.cfg.MaxEmptyPolls) && ctx.Err() == nil {
		url, ok := f.pop()
		if !ok {
			if !sleepInterruptible(ctx, e.cfg.PollInterval) {
				return
			}
			emptyPolls++
			continue
		}
		emptyPolls = 0

		if f.isVisited(url) {
			continue
		}
		f.markVisited(url)
		processed++

		content, err := e.fetcher.Fetch(ctx, url)
		if err != nil {
			// A single page's failure never aborts the search.
			metrics.ObservePage(false)
			e.logger.Warn("fetch failed",
				zap.String("search_id", s.ID()),
				zap.String("url", url),
				zap.Error(err),
			)
			continue
		}
		metrics.ObservePage(true)

		// Single idempotent predicate per page; the result feeds both the
		// match recording and the link-expansion decision below.
		matched := strings.Contains(strings.ToLower(content), keyword)
		if matched {
			if s.AddMatch(url) {
				metrics.ObserveMatch()
			}
			e.logger.Info("keyword match",
				zap.String("search_id", s.ID()),
				zap.String("url", url),
			)
			if e.cfg.LimitResults && s.MatchCount() >= e.cfg.MaxResults {
				e.logger.Info("result cap reached, stopping crawl",
					zap.String("search_id", s.ID()),
					zap.Int("max_results", e.cfg.MaxResults),
				)
				return
			}
		}

		if matched || f.visitedCount() < e.cfg.VisitedLimit {
			added := 0
			for _, link := range e.links.Extract(content, url) {
				if f.push(link) {
					added++
				}
			}
			if added > 0 {
				e.logger.Debug("links enqueued",
					zap.String("search_id", s.ID()),
					zap.String("url", url),
					zap.Int("count", added),
				)
			}
		}
	}
}

// sleepInterruptible waits for d or until the context ends; it reports false
// when interrupted.
func sleepInterruptible(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
