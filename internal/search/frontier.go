package search

// frontier holds the URLs discovered but not yet fetched for one search.
// It pairs a FIFO queue with a pending set mirroring queue membership and a
// visited set of URLs already fetched. Invariants: a URL enters visited at
// most once, and pending/visited are disjoint once a URL has been dequeued.
//
// A frontier is exclusively owned by the single traversal goroutine for its
// search and needs no locking.
type frontier struct {
	queue   []string
	pending map[string]struct{}
	visited map[string]struct{}
}

func newFrontier(seed string) *frontier {
	f := &frontier{
		pending: make(map[string]struct{}),
		visited: make(map[string]struct{}),
	}
	f.push(seed)
	return f
}

// push enqueues a URL unless it is already pending or visited.
// Returns true if the URL was added.
func (f *frontier) push(url string) bool {
	if _, ok := f.visited[url]; ok {
		return false
	}
	if _, ok := f.pending[url]; ok {
		return false
	}
	f.queue = append(f.queue, url)
	f.pending[url] = struct{}{}
	return true
}

// pop dequeues the oldest URL and removes it from the pending set.
func (f *frontier) pop() (string, bool) {
	if len(f.queue) == 0 {
		return "", false
	}
	url := f.queue[0]
	f.queue = f.queue[1:]
	delete(f.pending, url)
	return url, true
}

func (f *frontier) markVisited(url string) {
	f.visited[url] = struct{}{}
}

func (f *frontier) isVisited(url string) bool {
	_, ok := f.visited[url]
	return ok
}

func (f *frontier) pendingCount() int { return len(f.pending) }

func (f *frontier) visitedCount() int { return len(f.visited) }
