// Package trail keeps a short history of launch angles so a renderer can draw
// fading copies of recent paths. It stores angles, not geometry: each entry is
// re-traced on demand.
package trail

import (
	"sync"
	"time"

	lin "github.com/sgreben/piecewiselinear"
)

// Entry is one launch angle and when it was fired
type Entry struct {
	AngleDeg float64
	At       time.Time
}

// History is a bounded ring buffer of entries. The oldest entry is overwritten once it is full.
type History struct {
	mu      sync.Mutex
	entries []Entry
	next    int
	full    bool
	maxAge  time.Duration
	fade    lin.Function
}

// New returns a History holding at most capacity entries.
//
// Entries older than maxAge are fully transparent and are dropped by Prune.
// A zero maxAge never expires entries and fades them by position instead.
func New(capacity int, maxAge time.Duration) *History {
	if capacity < 1 {
		capacity = 1
	}
	return &History{
		entries: make([]Entry, capacity),
		maxAge:  maxAge,
		// Opacity as a function of normalized age
		fade: lin.Function{
			X: []float64{0, 0.5, 1},
			Y: []float64{1, 0.4, 0},
		},
	}
}

// Cap returns the maximum number of entries
func (h *History) Cap() int {
	return len(h.entries)
}

// Len returns the number of stored entries
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.lenLocked()
}

func (h *History) lenLocked() int {
	if h.full {
		return len(h.entries)
	}
	return h.next
}

// Push records an angle fired at the given time
func (h *History) Push(angleDeg float64, at time.Time) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries[h.next] = Entry{AngleDeg: angleDeg, At: at}
	h.next = (h.next + 1) % len(h.entries)
	if h.next == 0 {
		h.full = true
	}
}

// Entries returns stored entries from oldest to newest
func (h *History) Entries() []Entry {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.entriesLocked()
}

func (h *History) entriesLocked() []Entry {
	n := h.lenLocked()
	out := make([]Entry, 0, n)
	start := 0
	if h.full {
		start = h.next
	}
	for i := 0; i < n; i++ {
		out = append(out, h.entries[(start+i)%len(h.entries)])
	}
	return out
}

// Prune drops entries older than maxAge relative to now
func (h *History) Prune(now time.Time) {
	if h.maxAge <= 0 {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	kept := make([]Entry, 0, h.lenLocked())
	for _, e := range h.entriesLocked() {
		if now.Sub(e.At) <= h.maxAge {
			kept = append(kept, e)
		}
	}
	for i := range h.entries {
		h.entries[i] = Entry{}
	}
	copy(h.entries, kept)
	h.next = len(kept) % len(h.entries)
	h.full = len(kept) == len(h.entries)
}

// Reset removes all entries
func (h *History) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i := range h.entries {
		h.entries[i] = Entry{}
	}
	h.next = 0
	h.full = false
}

// Opacity returns how visible e should be at time now, from 1 (new) to 0 (expired)
func (h *History) Opacity(e Entry, now time.Time) float64 {
	if h.maxAge <= 0 {
		return 1
	}
	age := float64(now.Sub(e.At)) / float64(h.maxAge)
	if age <= 0 {
		return 1
	}
	if age >= 1 {
		return 0
	}
	return h.fade.At(age)
}

// Faded pairs an entry with its opacity
type Faded struct {
	Entry
	Opacity float64
}

// Snapshot returns entries oldest to newest with their opacity at now.
//
// Without a maxAge, opacity ramps linearly with position so the newest entry is fully opaque.
func (h *History) Snapshot(now time.Time) []Faded {
	entries := h.Entries()
	out := make([]Faded, len(entries))
	for i, e := range entries {
		var opacity float64
		if h.maxAge > 0 {
			opacity = h.Opacity(e, now)
		} else {
			opacity = float64(i+1) / float64(len(entries))
		}
		out[i] = Faded{Entry: e, Opacity: opacity}
	}
	return out
}
