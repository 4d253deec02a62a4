package reactive

import (
	"time"

	"github.com/google/uuid"
)

// DefaultHistoryDepth caps the change log when no explicit depth is
// configured.
const DefaultHistoryDepth = 100

// HistoryEntry records one externally observable, value-changing write.
type HistoryEntry struct {
	ID        string
	Timestamp time.Time
	Key       string
	Previous  any
	Value     any

	obj Object
	p   *Proxy
}

// Object returns the underlying plain object the write landed on (not the
// proxy).
func (e HistoryEntry) Object() Object {
	return e.obj
}

// History is an append-only, capped ring of change entries with a parallel
// redo stack. All replay operations funnel through one primitive: write to
// the underlying object through the normal set path while recording is
// suspended.
type History struct {
	in        *Instance
	enabled   bool
	suspended bool
	maxDepth  int
	entries   []HistoryEntry
	redo      []HistoryEntry
}

func newHistory(in *Instance, settings HistorySettings) *History {
	depth := settings.MaxDepth
	if depth <= 0 {
		depth = DefaultHistoryDepth
	}
	return &History{
		in:       in,
		enabled:  settings.Enabled,
		maxDepth: depth,
	}
}

// Enable turns recording on or off; disabling clears both stacks
// immediately. A positive maxDepth adjusts the ring cap, trimming oldest
// entries if needed; zero keeps the current cap.
func (h *History) Enable(enabled bool, maxDepth int) {
	h.enabled = enabled
	if maxDepth > 0 {
		h.maxDepth = maxDepth
		h.entries = trimFront(h.entries, maxDepth)
		h.redo = trimFront(h.redo, maxDepth)
	}
	if !enabled {
		h.entries = nil
		h.redo = nil
	}
}

func (h *History) Enabled() bool {
	return h.enabled
}

func (h *History) Len() int {
	return len(h.entries)
}

func (h *History) RedoLen() int {
	return len(h.redo)
}

// Entries returns a copy of the log, oldest first.
func (h *History) Entries() []HistoryEntry {
	out := make([]HistoryEntry, len(h.entries))
	copy(out, h.entries)
	return out
}

// record appends a forward write. Any redo history diverges at that point
// and is discarded.
func (h *History) record(p *Proxy, key string, prev, value any) {
	if !h.enabled || h.suspended {
		return
	}
	h.entries = append(h.entries, HistoryEntry{
		ID:        uuid.NewString(),
		Timestamp: time.Now(),
		Key:       key,
		Previous:  prev,
		Value:     value,
		obj:       p.effective(),
		p:         p,
	})
	h.entries = trimFront(h.entries, h.maxDepth)
	h.redo = h.redo[:0]
}

// apply is the suspended-recording write primitive every replay operation
// uses.
func (h *History) apply(e HistoryEntry, value any) {
	h.suspended = true
	defer func() { h.suspended = false }()
	h.in.setValue(e.p, e.Key, value, false)
}

// Undo pops the most recent entry, restores its previous value and pushes
// the entry onto the redo stack. Reports whether anything was undone.
func (h *History) Undo() bool {
	n := len(h.entries)
	if n == 0 {
		return false
	}
	e := h.entries[n-1]
	h.entries = h.entries[:n-1]
	h.apply(e, e.Previous)
	h.redo = trimFront(append(h.redo, e), h.maxDepth)
	return true
}

// UndoTo pops entries until the log length equals index; UndoTo(0) undoes
// everything.
func (h *History) UndoTo(index int) {
	if index < 0 {
		index = 0
	}
	for len(h.entries) > index {
		h.Undo()
	}
}

// Redo re-applies the most recently undone entry.
func (h *History) Redo() bool {
	n := len(h.redo)
	if n == 0 {
		return false
	}
	e := h.redo[n-1]
	h.redo = h.redo[:n-1]
	h.apply(e, e.Value)
	h.entries = trimFront(append(h.entries, e), h.maxDepth)
	return true
}

// RedoAll drains the entire redo stack.
func (h *History) RedoAll() {
	for h.Redo() {
	}
}

// Revert undoes exactly the entry at index and removes only that entry,
// leaving the rest of the log and its order intact.
func (h *History) Revert(index int) bool {
	if index < 0 || index >= len(h.entries) {
		return false
	}
	e := h.entries[index]
	h.apply(e, e.Previous)
	h.entries = append(h.entries[:index], h.entries[index+1:]...)
	return true
}

// Snapshot returns the id of the most recent entry, or the empty string
// when the log is empty (the sentinel meaning "the original state").
func (h *History) Snapshot() string {
	if len(h.entries) == 0 {
		return ""
	}
	return h.entries[len(h.entries)-1].ID
}

// Restore undoes entries from the end of the log back to, but not
// including, the entry identified by id. Restore("") undoes the whole log.
// Redo history diverging from the restored point is discarded.
func (h *History) Restore(id string) {
	for len(h.entries) > 0 && h.entries[len(h.entries)-1].ID != id {
		h.Undo()
	}
	h.redo = nil
}

// Clear empties both stacks. The entry count is itself observable, so a
// re-render is requested.
func (h *History) Clear() {
	h.entries = nil
	h.redo = nil
	h.in.requestRender()
}

func trimFront(entries []HistoryEntry, max int) []HistoryEntry {
	if len(entries) <= max {
		return entries
	}
	return entries[len(entries)-max:]
}
