package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

const subscriberBuffer = 8

type Toast struct {
	ID        string    `json:"id"`
	Level     Level     `json:"level"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Broadcaster shows at most one toast at a time. A new toast replaces the
// visible one; a toast disappears after the timeout or when dismissed.
type Broadcaster struct {
	mu      sync.Mutex
	timeout time.Duration
	current *Toast
	subs    map[int]chan Toast
	nextSub int
	now     func() time.Time
}

func NewBroadcaster(timeout time.Duration) *Broadcaster {
	return &Broadcaster{
		timeout: timeout,
		subs:    map[int]chan Toast{},
		now:     time.Now,
	}
}

func (b *Broadcaster) Publish(level Level, message string) Toast {
	now := b.now()
	toast := Toast{
		ID:        uuid.NewString(),
		Level:     level,
		Message:   message,
		CreatedAt: now,
		ExpiresAt: now.Add(b.timeout),
	}

	b.mu.Lock()
	b.current = &toast
	for _, ch := range b.subs {
		select {
		case ch <- toast:
		default:
		}
	}
	b.mu.Unlock()
	return toast
}

func (b *Broadcaster) Success(message string) Toast { return b.Publish(LevelSuccess, message) }
func (b *Broadcaster) Info(message string) Toast    { return b.Publish(LevelInfo, message) }
func (b *Broadcaster) Warning(message string) Toast { return b.Publish(LevelWarning, message) }
func (b *Broadcaster) Error(message string) Toast   { return b.Publish(LevelError, message) }

// Current returns the visible toast, if one has not yet timed out or been dismissed.
func (b *Broadcaster) Current() (Toast, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.current == nil {
		return Toast{}, false
	}
	if !b.now().Before(b.current.ExpiresAt) {
		b.current = nil
		return Toast{}, false
	}
	return *b.current, true
}

// Dismiss hides the visible toast early. Dismissing a replaced toast is a no-op.
func (b *Broadcaster) Dismiss(id string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.current == nil || b.current.ID != id {
		return false
	}
	b.current = nil
	return true
}

// Subscribe delivers every later toast. Slow subscribers miss toasts rather
// than block publishers. The returned func unsubscribes.
func (b *Broadcaster) Subscribe() (<-chan Toast, func()) {
	ch := make(chan Toast, subscriberBuffer)
	b.mu.Lock()
	id := b.nextSub
	b.nextSub++
	b.subs[id] = ch
	b.mu.Unlock()

	return ch, func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if _, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(ch)
		}
	}
}

func (b *Broadcaster) closeAll() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
	b.current = nil
}

// Idle reports a broadcaster with no visible toast and no subscribers.
func (b *Broadcaster) Idle() bool {
	if _, ok := b.Current(); ok {
		return false
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs) == 0
}
