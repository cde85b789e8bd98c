package search

import (
	"sync"
	"time"
)

// Status represents the lifecycle state of a search. The external
// representation is lowercase, so the values double as wire values.
type Status string

// Search status values. A search only ever moves forward: active -> done.
const (
	StatusActive Status = "active"
	StatusDone   Status = "done"
)

// Search is the mutable record of one keyword crawl: its identifier, the
// immutable keyword, the ordered set of matched URLs, and its status.
//
// The traversal task is the sole writer during the active phase; any number
// of goroutines may read concurrently while polling.
type Search struct {
	mu      sync.RWMutex
	id      string
	keyword string
	urls    []string
	seen    map[string]struct{}
	status  Status
	updated time.Time
	clock   Clock
}

// NewSearch creates an active Search with an empty match list.
func NewSearch(id, keyword string, clock Clock) *Search {
	return &Search{
		id:      id,
		keyword: keyword,
		seen:    make(map[string]struct{}),
		status:  StatusActive,
		updated: clock.Now(),
		clock:   clock,
	}
}

// ID returns the externally visible search identifier.
func (s *Search) ID() string { return s.id }

// Keyword returns the keyword this search was created with.
func (s *Search) Keyword() string { return s.keyword }

// Status returns the current lifecycle state.
func (s *Search) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// UpdatedAt returns the time of the last mutation.
func (s *Search) UpdatedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.updated
}

// AddMatch records a matched URL in discovery order. It is idempotent: a URL
// already present leaves the list unchanged. Returns true if the URL was new.
func (s *Search) AddMatch(url string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.seen[url]; ok {
		return false
	}
	s.seen[url] = struct{}{}
	s.urls = append(s.urls, url)
	s.updated = s.clock.Now()
	return true
}

// MatchCount returns the number of matches recorded internally, ignoring any
// visibility cap.
func (s *Search) MatchCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.urls)
}

// Matches returns a snapshot of the matched URLs. A limit > 0 caps the
// returned slice; internal growth past the cap is still tracked. The result
// is always non-nil and safe for the caller to retain.
func (s *Search) Matches(limit int) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := len(s.urls)
	if limit > 0 && n > limit {
		n = limit
	}
	out := make([]string, n)
	copy(out, s.urls[:n])
	return out
}

// SetStatus advances the lifecycle state. Transitions only move forward;
// attempts to revert an already done search are ignored.
func (s *Search) SetStatus(status Status) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status == StatusDone {
		return
	}
	s.status = status
	s.updated = s.clock.Now()
}

// Task wraps a search ready to be handed to a worker.
type Task struct {
	Search    *Search
	Submitted time.Time
}
