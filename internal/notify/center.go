package notify

import (
	"sync"
	"time"

	"github.com/segmentio/ksuid"
)

type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindInfo    Kind = "info"
)

const (
	// DefaultLimit caps how many notifications stay on screen at once.
	DefaultLimit = 5
	// DefaultTTL is how long a notification stays visible unless dismissed.
	DefaultTTL = 3500 * time.Millisecond
)

// Notification is a transient user-facing status message. It removes itself
// after the center's TTL or when dismissed; it is never persisted.
type Notification struct {
	ID        string
	Title     string
	Message   string
	Kind      Kind
	CreatedAt time.Time
}

// Center is the in-memory notification queue, newest first. Each entry owns a
// removal timer keyed by its ID, so expiring or dismissing one entry never
// disturbs the timers of the others.
type Center struct {
	mu     sync.Mutex
	items  []Notification
	timers map[string]*time.Timer
	limit  int
	ttl    time.Duration
}

func NewCenter() *Center {
	return NewCenterWith(DefaultLimit, DefaultTTL)
}

func NewCenterWith(limit int, ttl time.Duration) *Center {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Center{
		timers: make(map[string]*time.Timer),
		limit:  limit,
		ttl:    ttl,
	}
}

// Push enqueues a notification at the front, evicting the oldest beyond the
// cap, and schedules its own removal.
func (c *Center) Push(message string, kind Kind, title string) Notification {
	n := Notification{
		ID:        ksuid.New().String(),
		Title:     title,
		Message:   message,
		Kind:      kind,
		CreatedAt: time.Now(),
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = append([]Notification{n}, c.items...)
	for len(c.items) > c.limit {
		oldest := c.items[len(c.items)-1]
		c.items = c.items[:len(c.items)-1]
		c.stopTimerLocked(oldest.ID)
	}

	c.timers[n.ID] = time.AfterFunc(c.ttl, func() { c.expire(n.ID) })
	return n
}

// Dismiss removes a notification ahead of its TTL and cancels its timer.
func (c *Center) Dismiss(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopTimerLocked(id)
	c.removeLocked(id)
}

// Items returns the current list, newest first.
func (c *Center) Items() []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Notification, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Center) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Close cancels every pending timer. Used on shutdown.
func (c *Center) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for id, t := range c.timers {
		t.Stop()
		delete(c.timers, id)
	}
	c.items = nil
}

func (c *Center) expire(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// The entry may already be gone via dismissal or cap eviction.
	delete(c.timers, id)
	c.removeLocked(id)
}

func (c *Center) removeLocked(id string) {
	for i, n := range c.items {
		if n.ID == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return
		}
	}
}

func (c *Center) stopTimerLocked(id string) {
	if t, ok := c.timers[id]; ok {
		t.Stop()
		delete(c.timers, id)
	}
}
