package httpclient

import (
	"context"
	"slices"
	"sync"
	"sync/atomic"
	"time"
)

// HistoryEntry is one recorded response.
type HistoryEntry struct {
	Response   *Response `json:"response"`
	RecordedAt time.Time `json:"recorded_at"`
}

// HistoryStore persists history entries in call order.
type HistoryStore interface {
	// Append records entry. An entry whose response ID is already stored
	// refreshes that entry's timestamp in place.
	Append(ctx context.Context, entry HistoryEntry) error
	// Entries returns a snapshot in recording order.
	Entries(ctx context.Context) ([]HistoryEntry, error)
	Len(ctx context.Context) (int, error)
	Clear(ctx context.Context) error
}

// MemoryHistory is an in-process HistoryStore. With a positive max the
// oldest entries are evicted once the cap is exceeded.
type MemoryHistory struct {
	mu      sync.Mutex
	max     int
	entries []HistoryEntry
	index   map[string]int
}

// NewMemoryHistory creates a store holding at most max entries; max <= 0
// means unbounded.
func NewMemoryHistory(max int) *MemoryHistory {
	return &MemoryHistory{max: max, index: make(map[string]int)}
}

func (h *MemoryHistory) Append(_ context.Context, entry HistoryEntry) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if i, ok := h.index[entry.Response.ID]; ok {
		h.entries[i].RecordedAt = entry.RecordedAt
		return nil
	}
	h.index[entry.Response.ID] = len(h.entries)
	h.entries = append(h.entries, entry)

	if h.max > 0 && len(h.entries) > h.max {
		drop := len(h.entries) - h.max
		h.entries = slices.Delete(h.entries, 0, drop)
		h.reindex()
	}
	return nil
}

func (h *MemoryHistory) reindex() {
	clear(h.index)
	for i, e := range h.entries {
		h.index[e.Response.ID] = i
	}
}

func (h *MemoryHistory) Entries(_ context.Context) ([]HistoryEntry, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return slices.Clone(h.entries), nil
}

func (h *MemoryHistory) Len(_ context.Context) (int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries), nil
}

func (h *MemoryHistory) Clear(_ context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = nil
	clear(h.index)
	return nil
}

// HistoryRecorder records responses into a store while enabled.
type HistoryRecorder struct {
	store   HistoryStore
	enabled atomic.Bool
	now     func() time.Time
}

// NewHistoryRecorder creates a recorder over store. A nil store gets an
// unbounded MemoryHistory.
func NewHistoryRecorder(store HistoryStore, enabled bool) *HistoryRecorder {
	if store == nil {
		store = NewMemoryHistory(0)
	}
	r := &HistoryRecorder{store: store, now: time.Now}
	r.enabled.Store(enabled)
	return r
}

// Enabled reports whether Record stores responses.
func (r *HistoryRecorder) Enabled() bool { return r.enabled.Load() }

// SetEnabled toggles recording. Existing entries are kept.
func (r *HistoryRecorder) SetEnabled(on bool) { r.enabled.Store(on) }

// Record stores resp with the current time. It is a no-op while disabled.
func (r *HistoryRecorder) Record(ctx context.Context, resp *Response) error {
	if !r.Enabled() || resp == nil {
		return nil
	}
	if err := r.store.Append(ctx, HistoryEntry{Response: resp.Clone(), RecordedAt: r.now()}); err != nil {
		return NewHistoryError(err)
	}
	return nil
}

// Entries returns a snapshot of the recorded entries. Responses are copies;
// mutating them leaves the store untouched.
func (r *HistoryRecorder) Entries(ctx context.Context) ([]HistoryEntry, error) {
	entries, err := r.store.Entries(ctx)
	if err != nil {
		return nil, err
	}
	for i := range entries {
		entries[i].Response = entries[i].Response.Clone()
	}
	return entries, nil
}

func (r *HistoryRecorder) Len(ctx context.Context) (int, error) {
	return r.store.Len(ctx)
}

func (r *HistoryRecorder) Clear(ctx context.Context) error {
	return r.store.Clear(ctx)
}

// Store returns the backing store.
func (r *HistoryRecorder) Store() HistoryStore { return r.store }
