package service

import (
	"context"
	"sync"
)

// selectionTracker remembers the latest import started by each client session.
// Starting a new import cancels the previous one of the same session, and a
// finished import whose generation is no longer the latest is stale.
type selectionTracker struct {
	mu       sync.Mutex
	next     uint64
	sessions map[string]*selection
}

type selection struct {
	generation uint64
	cancel     context.CancelFunc
}

func newSelectionTracker() *selectionTracker {
	return &selectionTracker{sessions: make(map[string]*selection)}
}

// begin starts a new generation for sessionID. The returned release func must
// be called once the import has finished. An empty sessionID is never tracked.
func (t *selectionTracker) begin(ctx context.Context, sessionID string) (context.Context, uint64, func()) {
	ctx, cancel := context.WithCancel(ctx)
	if sessionID == "" {
		return ctx, 0, cancel
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if prev, ok := t.sessions[sessionID]; ok {
		prev.cancel()
	}
	t.next++
	gen := t.next
	t.sessions[sessionID] = &selection{generation: gen, cancel: cancel}

	release := func() {
		cancel()
		t.mu.Lock()
		defer t.mu.Unlock()
		if cur, ok := t.sessions[sessionID]; ok && cur.generation == gen {
			delete(t.sessions, sessionID)
		}
	}
	return ctx, gen, release
}

// current reports whether gen is still the latest generation of sessionID.
func (t *selectionTracker) current(sessionID string, gen uint64) bool {
	if sessionID == "" {
		return true
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	cur, ok := t.sessions[sessionID]
	return ok && cur.generation == gen
}
