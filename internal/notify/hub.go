package notify

import (
	"sync"
	"time"
)

// idleGrace keeps a freshly fetched broadcaster alive long enough for the
// request that asked for it to publish.
const idleGrace = time.Minute

type hubEntry struct {
	b       *Broadcaster
	touched time.Time
}

// Hub owns one Broadcaster per session. A session plays the role of the
// browser tab: toasts never leak between users.
type Hub struct {
	mu      sync.Mutex
	timeout time.Duration
	byKey   map[string]*hubEntry
	now     func() time.Time
}

func NewHub(timeout time.Duration) *Hub {
	return &Hub{timeout: timeout, byKey: map[string]*hubEntry{}, now: time.Now}
}

func (h *Hub) For(sessionID string) *Broadcaster {
	h.mu.Lock()
	defer h.mu.Unlock()
	e, ok := h.byKey[sessionID]
	if !ok {
		e = &hubEntry{b: NewBroadcaster(h.timeout)}
		h.byKey[sessionID] = e
	}
	e.touched = h.now()
	return e.b
}

// Drop discards a session's broadcaster and closes its subscribers.
func (h *Hub) Drop(sessionID string) {
	h.mu.Lock()
	e, ok := h.byKey[sessionID]
	delete(h.byKey, sessionID)
	h.mu.Unlock()
	if ok {
		e.b.closeAll()
	}
}

func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.byKey)
}

// PruneIdle drops broadcasters that have nothing to show, nobody listening
// and no recent For call, e.g. those left behind by sessions that simply
// expired.
func (h *Hub) PruneIdle() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	cutoff := h.now().Add(-idleGrace)
	pruned := 0
	for key, e := range h.byKey {
		if e.touched.After(cutoff) {
			continue
		}
		if e.b.Idle() {
			delete(h.byKey, key)
			pruned++
		}
	}
	return pruned
}
