package crawler

import "sync"

// Entry is one unit of crawl work: a discovered URL waiting for a worker.
type Entry struct {
	// Identity is the normalized URL key the entry is deduplicated under.
	Identity string

	// RawURL is the link as discovered, used for the actual fetch.
	RawURL string

	// Hop is the link distance from the nearest seed. Seeds have hop 0.
	// Once set at discovery time the value never changes.
	Hop int

	// DiscoveredFrom is the identity of the page that linked here.
	// Empty for seeds.
	DiscoveredFrom string
}

// Frontier holds discovered-but-unvisited URLs in FIFO order together
// with the visited set. The two are disjoint: Take moves an identity from
// the queue into the visited set in a single critical section, so no
// identity can be dispatched twice even when multiple workers discover
// the same link concurrently.
//
// Breadth-first ordering falls out of FIFO order: hop h+1 entries are
// only ever produced by processing a hop-h entry, so all hop-h entries
// are queued before any hop-(h+1) entry.
type Frontier struct {
	// mu protects all fields below. None of the methods perform I/O
	// while holding it.
	mu sync.Mutex

	// maxHops is the inclusive hop bound; offers beyond it are no-ops.
	maxHops int

	// queue is the FIFO of pending entries.
	queue []Entry

	// queued tracks identities currently in the queue.
	queued map[string]bool

	// visited tracks identities already handed to a worker. Dispatched
	// but failed still counts as visited, which bounds retries to zero.
	visited map[string]bool
}

// NewFrontier creates an empty frontier with the given hop bound.
func NewFrontier(maxHops int) *Frontier {
	return &Frontier{
		maxHops: maxHops,
		queue:   make([]Entry, 0),
		queued:  make(map[string]bool),
		visited: make(map[string]bool),
	}
}

// Seed inserts raw seed URLs at hop 0, deduplicating by identity.
// Unparseable or non-http(s) seeds are skipped. Returns the number of
// entries actually inserted.
func (f *Frontier) Seed(rawURLs []string) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	inserted := 0
	for _, raw := range rawURLs {
		identity, err := Normalize(raw, nil)
		if err != nil {
			continue
		}
		if f.offerLocked(Entry{Identity: identity, RawURL: raw, Hop: 0}) {
			inserted++
		}
	}
	return inserted
}

// Offer inserts a discovered link if its hop distance is within bounds
// and its identity is neither queued nor visited. Returns false for the
// expected steady-state no-ops (duplicate or hop overflow); that is not
// an error condition.
func (f *Frontier) Offer(identity, rawURL, discoveredFrom string, hop int) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.offerLocked(Entry{
		Identity:       identity,
		RawURL:         rawURL,
		Hop:            hop,
		DiscoveredFrom: discoveredFrom,
	})
}

// offerLocked inserts an entry. Callers must hold f.mu.
func (f *Frontier) offerLocked(e Entry) bool {
	if e.Hop > f.maxHops {
		return false
	}
	if f.queued[e.Identity] || f.visited[e.Identity] {
		return false
	}

	f.queue = append(f.queue, e)
	f.queued[e.Identity] = true
	return true
}

// Take removes and returns the oldest entry, recording its identity into
// the visited set in the same step. The false return means "nothing
// available right now", not "crawl finished": in-flight workers may still
// offer more entries.
func (f *Frontier) Take() (Entry, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.queue) == 0 {
		return Entry{}, false
	}

	e := f.queue[0]
	f.queue = f.queue[1:]
	delete(f.queued, e.Identity)
	f.visited[e.Identity] = true
	return e, true
}

// Pending returns the number of entries waiting to be taken.
func (f *Frontier) Pending() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queue)
}

// VisitedCount returns the number of identities dispatched so far.
func (f *Frontier) VisitedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.visited)
}

// Seen returns the number of distinct identities encountered, whether
// visited or still pending.
func (f *Frontier) Seen() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.visited) + len(f.queue)
}
