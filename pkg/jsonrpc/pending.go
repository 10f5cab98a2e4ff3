package jsonrpc

import (
	"sync"

	"github.com/richard-senior/gomcp/pkg/mcperr"
)

// pendingEntry is the type-erased awaiter the pending table holds: a
// resume closure typed to the concrete Result at installation time, plus
// a single-shot guard so a second resume attempt is a silent no-op. This
// holds on the error path too: the table has no logger and records nothing
// about a second attempt.
type pendingEntry struct {
	resume func(result Value, err *mcperr.Error)
	done   chan struct{}
	fired  bool
}

// PendingTable maps request ID to suspended awaiter (spec §2, §3).
// Invariants enforced here: at most one entry per ID at any time (Install
// replaces, it never stacks); an entry is removed the instant it is
// resumed or the table is drained.
type PendingTable struct {
	mu      sync.Mutex
	entries map[string]*pendingEntry
}

func NewPendingTable() *PendingTable {
	return &PendingTable{entries: make(map[string]*pendingEntry)}
}

// Install adds an awaiter for id, replacing any entry already held for the
// same id.
func (t *PendingTable) Install(id ID, resume func(result Value, err *mcperr.Error)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries[id.String()] = &pendingEntry{resume: resume, done: make(chan struct{})}
}

// Resume looks up id, invokes its resume closure exactly once, and removes
// the entry. Returns false if no entry was found for id (spec scenario S5:
// unknown IDs are logged by the caller, not here).
func (t *PendingTable) Resume(id ID, result Value, err *mcperr.Error) bool {
	t.mu.Lock()
	entry, ok := t.entries[id.String()]
	if ok {
		delete(t.entries, id.String())
	}
	t.mu.Unlock()
	if !ok {
		return false
	}
	t.fire(entry, result, err)
	return true
}

func (t *PendingTable) fire(entry *pendingEntry, result Value, err *mcperr.Error) {
	if entry.fired {
		return
	}
	entry.fired = true
	close(entry.done)
	entry.resume(result, err)
}

// Remove deletes the entry for id without resuming it. pkg/mcp calls it
// when writing a request fails, so no awaiter is left for a frame that
// never went out; a cancelled wait does not remove its entry.
func (t *PendingTable) Remove(id ID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.entries, id.String())
}

// Drain resumes every outstanding awaiter with err and empties the table,
// used on disconnect (spec §4.2 "Cancellation").
func (t *PendingTable) Drain(err *mcperr.Error) {
	t.mu.Lock()
	entries := t.entries
	t.entries = make(map[string]*pendingEntry)
	t.mu.Unlock()

	for _, entry := range entries {
		t.fire(entry, Value{}, err)
	}
}

// Len reports the number of outstanding awaiters.
func (t *PendingTable) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}
