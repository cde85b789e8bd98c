package search

import (
	"sync"
	"testing"
	"time"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Unix(1000, 0).UTC()}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestSearchAddMatchIdempotent(t *testing.T) {
	t.Parallel()

	s := NewSearch("abc12345", "golang", newFakeClock())
	if !s.AddMatch("http://site.test/a") {
		t.Fatal("first AddMatch should report a new URL")
	}
	if s.AddMatch("http://site.test/a") {
		t.Fatal("second AddMatch of same URL should be a no-op")
	}
	if got := s.MatchCount(); got != 1 {
		t.Fatalf("MatchCount() = %d, want 1", got)
	}
}

func TestSearchMatchesSnapshotAndCap(t *testing.T) {
	t.Parallel()

	s := NewSearch("abc12345", "golang", newFakeClock())
	s.AddMatch("http://site.test/1")
	s.AddMatch("http://site.test/2")
	s.AddMatch("http://site.test/3")

	all := s.Matches(0)
	if len(all) != 3 {
		t.Fatalf("Matches(0) returned %d urls, want 3", len(all))
	}
	capped := s.Matches(2)
	if len(capped) != 2 {
		t.Fatalf("Matches(2) returned %d urls, want 2", len(capped))
	}
	// Discovery order preserved.
	if capped[0] != "http://site.test/1" || capped[1] != "http://site.test/2" {
		t.Fatalf("unexpected capped order: %v", capped)
	}
	// Snapshot must not alias internal state.
	all[0] = "mutated"
	if s.Matches(0)[0] != "http://site.test/1" {
		t.Fatal("Matches snapshot aliases internal slice")
	}
}

func TestSearchMatchesNeverNil(t *testing.T) {
	t.Parallel()

	s := NewSearch("abc12345", "golang", newFakeClock())
	if s.Matches(0) == nil {
		t.Fatal("Matches should return an empty slice, not nil")
	}
}

func TestSearchStatusForwardOnly(t *testing.T) {
	t.Parallel()

	s := NewSearch("abc12345", "golang", newFakeClock())
	if got := s.Status(); got != StatusActive {
		t.Fatalf("initial status = %s, want %s", got, StatusActive)
	}
	s.SetStatus(StatusDone)
	if got := s.Status(); got != StatusDone {
		t.Fatalf("status = %s, want %s", got, StatusDone)
	}
	s.SetStatus(StatusActive)
	if got := s.Status(); got != StatusDone {
		t.Fatalf("status reverted to %s; done must be terminal", got)
	}
}

func TestSearchUpdatedAtTracksMutations(t *testing.T) {
	t.Parallel()

	clk := newFakeClock()
	s := NewSearch("abc12345", "golang", clk)
	created := s.UpdatedAt()

	clk.advance(time.Minute)
	s.AddMatch("http://site.test/a")
	if !s.UpdatedAt().After(created) {
		t.Fatal("AddMatch should bump the last-update timestamp")
	}

	afterMatch := s.UpdatedAt()
	clk.advance(time.Minute)
	s.SetStatus(StatusDone)
	if !s.UpdatedAt().After(afterMatch) {
		t.Fatal("SetStatus should bump the last-update timestamp")
	}
}

func TestSearchConcurrentReadersSingleWriter(t *testing.T) {
	t.Parallel()

	s := NewSearch("abc12345", "golang", newFakeClock())
	done := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-done:
					return
				default:
				}
				_ = s.Status()
				_ = s.Matches(10)
				_ = s.MatchCount()
			}
		}()
	}

	for i := 0; i < 200; i++ {
		s.AddMatch("http://site.test/" + string(rune('a'+i%26)))
	}
	s.SetStatus(StatusDone)
	close(done)
	wg.Wait()

	if got := s.Status(); got != StatusDone {
		t.Fatalf("status = %s, want %s", got, StatusDone)
	}
}
