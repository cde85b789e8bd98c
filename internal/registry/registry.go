// Package registry owns the search map and schedules traversal tasks onto
// the worker pool.
package registry

import (
	"errors"
	"fmt"
	"sync"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/dfurtado/sitesearch/internal/search"
)

// Keyword length bounds, inclusive.
const (
	MinKeywordLen = 4
	MaxKeywordLen = 32
)

// Errors surfaced synchronously to submitters. ErrInvalidKeyword carries the
// exact message exposed by the API.
var (
	ErrInvalidKeyword = errors.New("Keyword must be between 4 and 32 characters.")
	ErrPoolSaturated  = errors.New("crawler is at capacity, try again later")
	ErrNotFound       = errors.New("search not found")
)

// Submitter hands a traversal task to the worker pool without blocking.
// *dispatcher.Dispatcher satisfies it.
type Submitter interface {
	TryEnqueue(task search.Task) error
}

// Registry creates searches, exposes lookup by ID, and is the exclusive
// owner of the search map for the process lifetime. Searches are never
// evicted; all state is in-memory and lost on restart.
type Registry struct {
	mu        sync.RWMutex
	searches  map[string]*search.Search
	submitter Submitter
	idGen     search.IDGenerator
	clock     search.Clock
	logger    *zap.Logger
}

// New constructs a Registry.
func New(submitter Submitter, idGen search.IDGenerator, clock search.Clock, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		searches:  make(map[string]*search.Search),
		submitter: submitter,
		idGen:     idGen,
		clock:     clock,
		logger:    logger,
	}
}

// Submit validates the keyword, creates a Search, and hands its traversal to
// the worker pool. On ErrPoolSaturated no search is registered; submission
// never blocks the caller.
func (r *Registry) Submit(keyword string) (*search.Search, error) {
	if err := validateKeyword(keyword); err != nil {
		r.logger.Warn("keyword validation failed",
			zap.String("keyword", keyword),
			zap.Int("length", utf8.RuneCountInString(keyword)),
		)
		return nil, err
	}

	id, err := r.idGen.NewID()
	if err != nil {
		return nil, fmt.Errorf("generate search id: %w", err)
	}
	s := search.NewSearch(id, keyword, r.clock)

	now := r.clock.Now()
	if err := r.submitter.TryEnqueue(search.Task{Search: s, Submitted: now}); err != nil {
		r.logger.Warn("pool saturated, rejecting search",
			zap.String("keyword", keyword),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %w", ErrPoolSaturated, err)
	}

	r.mu.Lock()
	r.searches[id] = s
	r.mu.Unlock()

	r.logger.Info("search submitted",
		zap.String("search_id", id),
		zap.String("keyword", keyword),
	)
	return s, nil
}

// Lookup returns the search for the given ID, or ErrNotFound.
func (r *Registry) Lookup(id string) (*search.Search, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.searches[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

// MarkAllDone flips every active search to done. It runs during shutdown so
// polling clients always observe completion, including for searches that
// were queued but never started.
func (r *Registry) MarkAllDone() {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, s := range r.searches {
		if s.Status() == search.StatusActive {
			r.logger.Debug("marking search done during shutdown",
				zap.String("search_id", s.ID()),
			)
			s.SetStatus(search.StatusDone)
		}
	}
}

func validateKeyword(keyword string) error {
	n := utf8.RuneCountInString(keyword)
	if n < MinKeywordLen || n > MaxKeywordLen {
		return ErrInvalidKeyword
	}
	return nil
}
