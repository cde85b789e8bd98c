package search

import "testing"

func TestFrontierSeedAndPop(t *testing.T) {
	t.Parallel()

	f := newFrontier("http://site.test/")
	if f.pendingCount() != 1 {
		t.Fatalf("pendingCount() = %d, want 1", f.pendingCount())
	}
	url, ok := f.pop()
	if !ok || url != "http://site.test/" {
		t.Fatalf("pop() = %q, %v", url, ok)
	}
	if f.pendingCount() != 0 {
		t.Fatalf("pendingCount() after pop = %d, want 0", f.pendingCount())
	}
	if _, ok := f.pop(); ok {
		t.Fatal("pop() on empty frontier should report false")
	}
}

func TestFrontierPushDeduplicates(t *testing.T) {
	t.Parallel()

	f := newFrontier("http://site.test/")
	if f.push("http://site.test/") {
		t.Fatal("pushing a pending URL should be rejected")
	}
	if !f.push("http://site.test/a") {
		t.Fatal("pushing a fresh URL should succeed")
	}
	if f.push("http://site.test/a") {
		t.Fatal("pushing a pending duplicate should be rejected")
	}
}

func TestFrontierVisitedNeverRequeued(t *testing.T) {
	t.Parallel()

	f := newFrontier("http://site.test/")
	url, _ := f.pop()
	f.markVisited(url)
	if !f.isVisited(url) {
		t.Fatal("markVisited did not record the URL")
	}
	if f.push(url) {
		t.Fatal("a visited URL must not re-enter the frontier")
	}
	if f.visitedCount() != 1 {
		t.Fatalf("visitedCount() = %d, want 1", f.visitedCount())
	}
}

func TestFrontierFIFOOrder(t *testing.T) {
	t.Parallel()

	f := newFrontier("http://site.test/1")
	f.push("http://site.test/2")
	f.push("http://site.test/3")
	want := []string{"http://site.test/1", "http://site.test/2", "http://site.test/3"}
	for _, w := range want {
		got, ok := f.pop()
		if !ok || got != w {
			t.Fatalf("pop() = %q, want %q", got, w)
		}
	}
}
