package httpclient

import (
	"context"
	"errors"
	"testing"
	"time"
)

func newTestResponse(id string) *Response {
	return &Response{ID: id, StatusCode: 200}
}

func historyIDs(t *testing.T, s HistoryStore) []string {
	t.Helper()
	entries, err := s.Entries(context.Background())
	if err != nil {
		t.Fatalf("Entries: %v", err)
	}
	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.Response.ID
	}
	return ids
}

func TestMemoryHistory_OrderAndRefresh(t *testing.T) {
	ctx := context.Background()
	h := NewMemoryHistory(0)
	t0 := time.Unix(100, 0)

	for i, id := range []string{"a", "b", "c"} {
		_ = h.Append(ctx, HistoryEntry{Response: newTestResponse(id), RecordedAt: t0.Add(time.Duration(i) * time.Second)})
	}
	_ = h.Append(ctx, HistoryEntry{Response: newTestResponse("a"), RecordedAt: t0.Add(time.Hour)})

	if got := historyIDs(t, h); len(got) != 3 || got[0] != "a" || got[2] != "c" {
		t.Fatalf("unexpected order %v", got)
	}
	entries, _ := h.Entries(ctx)
	if !entries[0].RecordedAt.Equal(t0.Add(time.Hour)) {
		t.Errorf("expected refreshed timestamp, got %v", entries[0].RecordedAt)
	}
}

func TestMemoryHistory_Cap(t *testing.T) {
	ctx := context.Background()
	h := NewMemoryHistory(2)
	for _, id := range []string{"a", "b", "c", "d"} {
		_ = h.Append(ctx, HistoryEntry{Response: newTestResponse(id)})
	}
	got := historyIDs(t, h)
	if len(got) != 2 || got[0] != "c" || got[1] != "d" {
		t.Fatalf("expected [c d], got %v", got)
	}

	// Evicted IDs are new again; surviving ones refresh in place.
	_ = h.Append(ctx, HistoryEntry{Response: newTestResponse("d")})
	if n, _ := h.Len(ctx); n != 2 {
		t.Errorf("expected 2 entries, got %d", n)
	}
}

func TestMemoryHistory_EntriesSnapshotAndClear(t *testing.T) {
	ctx := context.Background()
	h := NewMemoryHistory(0)
	_ = h.Append(ctx, HistoryEntry{Response: newTestResponse("a")})

	snap, _ := h.Entries(ctx)
	_ = h.Append(ctx, HistoryEntry{Response: newTestResponse("b")})
	if len(snap) != 1 {
		t.Errorf("snapshot changed after append: %d", len(snap))
	}

	if err := h.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if n, _ := h.Len(ctx); n != 0 {
		t.Errorf("expected empty history, got %d", n)
	}
}

func TestHistoryRecorder_Toggle(t *testing.T) {
	ctx := context.Background()
	fixed := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	r := NewHistoryRecorder(nil, false)
	r.now = func() time.Time { return fixed }

	_ = r.Record(ctx, newTestResponse("ignored"))
	if n, _ := r.Len(ctx); n != 0 {
		t.Fatalf("disabled recorder stored %d entries", n)
	}

	r.SetEnabled(true)
	if err := r.Record(ctx, newTestResponse("kept")); err != nil {
		t.Fatalf("Record: %v", err)
	}
	entries, _ := r.Entries(ctx)
	if len(entries) != 1 || !entries[0].RecordedAt.Equal(fixed) {
		t.Errorf("unexpected entries %+v", entries)
	}
}

type failingStore struct{ MemoryHistory }

func (f *failingStore) Append(context.Context, HistoryEntry) error { return errors.New("disk full") }

func TestHistoryRecorder_StoreError(t *testing.T) {
	r := NewHistoryRecorder(&failingStore{}, true)
	err := r.Record(context.Background(), newTestResponse("a"))
	var e *Error
	if !errors.As(err, &e) || e.Code != ErrCodeHistory {
		t.Errorf("expected history error, got %v", err)
	}
}
