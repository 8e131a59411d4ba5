package audit

import (
	"context"
	"strings"
	"sync"
	"time"
)

// MemoryStore keeps the newest events up to a fixed capacity.
type MemoryStore struct {
	mu       sync.Mutex
	capacity int
	events   []Event
}

func NewMemoryStore(capacity int) *MemoryStore {
	if capacity <= 0 {
		capacity = 1000
	}
	return &MemoryStore{capacity: capacity}
}

func (s *MemoryStore) Insert(_ context.Context, evt Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, evt)
	if over := len(s.events) - s.capacity; over > 0 {
		s.events = append([]Event(nil), s.events[over:]...)
	}
	return nil
}

func (s *MemoryStore) Count(_ context.Context, filter Filter) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, evt := range s.events {
		if matches(evt, filter) {
			n++
		}
	}
	return n, nil
}

func (s *MemoryStore) List(_ context.Context, filter Filter, limit, offset int) ([]Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Event
	skipped := 0
	for i := len(s.events) - 1; i >= 0; i-- {
		evt := s.events[i]
		if !matches(evt, filter) {
			continue
		}
		if skipped < offset {
			skipped++
			continue
		}
		out = append(out, evt)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *MemoryStore) DeleteBefore(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.events[:0]
	for _, evt := range s.events {
		if !evt.CreatedAt.Before(cutoff) {
			kept = append(kept, evt)
		}
	}
	removed := int64(len(s.events) - len(kept))
	s.events = kept
	return removed, nil
}

func matches(evt Event, filter Filter) bool {
	if filter.Action != "" && evt.Action != filter.Action {
		return false
	}
	if filter.Actor != "" && evt.ActorID != filter.Actor && !strings.EqualFold(evt.ActorEmail, filter.Actor) {
		return false
	}
	return true
}
