// Package history keeps a bounded, newest-first record of past analyses.
package history

import (
	"fmt"
	"sync"
	"time"

	"emotion-detector/domain/emotion"
)

// DefaultCapacity is the number of entries kept when no capacity is configured.
const DefaultCapacity = 10

// Entry is a single past analysis.
type Entry struct {
	Timestamp  time.Time
	Label      emotion.Label
	Confidence float64
	Demo       bool
}

// NewEntry creates an entry from a prediction.
func NewEntry(ts time.Time, p *emotion.Prediction) Entry {
	return Entry{
		Timestamp:  ts,
		Label:      p.Label(),
		Confidence: p.Confidence(),
		Demo:       p.IsDemo(),
	}
}

// TimeText formats the timestamp as HH:MM:SS.
func (e Entry) TimeText() string {
	return e.Timestamp.Format("15:04:05")
}

// ConfidenceText formats the confidence with one decimal, e.g. "40.0%".
func (e Entry) ConfidenceText() string {
	return fmt.Sprintf("%.1f%%", e.Confidence)
}

// History is an append-only list that evicts its oldest entry once full.
type History struct {
	entries  []Entry // newest first
	capacity int
	mu       sync.RWMutex
}

// New creates a history holding at most capacity entries.
// Capacities below 1 fall back to DefaultCapacity.
func New(capacity int) *History {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	return &History{
		entries:  make([]Entry, 0, capacity),
		capacity: capacity,
	}
}

// Add records an entry as the newest, evicting the oldest if full.
func (h *History) Add(e Entry) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.entries) < h.capacity {
		h.entries = append(h.entries, Entry{})
	}
	copy(h.entries[1:], h.entries[:len(h.entries)-1])
	h.entries[0] = e
}

// Entries returns a copy of all entries, newest first.
func (h *History) Entries() []Entry {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]Entry, len(h.entries))
	copy(out, h.entries)
	return out
}

// Len returns the number of entries.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.entries)
}

// Cap returns the maximum number of entries.
func (h *History) Cap() int {
	return h.capacity
}
