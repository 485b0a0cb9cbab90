// Package eventlog keeps a bounded, most-recent-first record of guard
// activity for the extension's audit view.
package eventlog

import (
	"sync"
	"time"

	"kasbah/internal/guard/models"
)

// Log is a fixed-capacity circular buffer of events, read newest first.
// Appends and the eviction they trigger are O(1) and happen inside one
// critical section, so readers never observe the log above capacity.
type Log struct {
	mu       sync.RWMutex
	buf      []models.Event
	head     int // index of the newest event when count > 0
	count    int
	capacity int
	clock    func() time.Time
}

// Option configures the Log.
type Option func(*Log)

// WithClock overrides the timestamp source for deterministic tests.
func WithClock(clock func() time.Time) Option {
	return func(l *Log) {
		if clock != nil {
			l.clock = clock
		}
	}
}

// New creates a Log holding at most capacity events.
func New(capacity int, opts ...Option) *Log {
	if capacity <= 0 {
		capacity = 1
	}
	l := &Log{
		buf:      make([]models.Event, capacity),
		capacity: capacity,
		clock:    time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Record prepends an event; once the buffer is full the oldest entry is
// overwritten in place.
func (l *Log) Record(kind models.EventKind, data any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.head = (l.head - 1 + l.capacity) % l.capacity
	l.buf[l.head] = models.Event{
		Timestamp: l.clock(),
		Kind:      kind,
		Data:      data,
	}
	if l.count < l.capacity {
		l.count++
	}
}

// Snapshot returns a copy of the log, newest first.
func (l *Log) Snapshot() []models.Event {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]models.Event, l.count)
	for i := 0; i < l.count; i++ {
		out[i] = l.buf[(l.head+i)%l.capacity]
	}
	return out
}

// Len reports the current number of retained events.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.count
}
