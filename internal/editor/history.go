package editor

// EntryKind tags an undo entry.
type EntryKind int

const (
	// KindEdit records prior field values for a time or text edit.
	KindEdit EntryKind = iota
	// KindDelete records a deletion. For the deferred policy only the id is
	// needed; for the immediate policy the removed segment and its original
	// index are carried so undo can re-insert it in order.
	KindDelete
)

// Entry is one reversible operation on the undo stack.
type Entry struct {
	Kind      EntryKind
	SegmentID int
	Prev      FieldPatch // KindEdit
	Removed   *Segment   // KindDelete, immediate policy only
	Index     int        // KindDelete, immediate policy only
}

// History is the session-local undo stack. Strictly LIFO, unbounded, lost on
// exit. There is no redo.
type History struct {
	entries []Entry
}

// Push appends an entry.
func (h *History) Push(e Entry) {
	h.entries = append(h.entries, e)
}

// Pop removes and returns the most recent entry.
func (h *History) Pop() (Entry, bool) {
	if len(h.entries) == 0 {
		return Entry{}, false
	}
	e := h.entries[len(h.entries)-1]
	h.entries = h.entries[:len(h.entries)-1]
	return e, true
}

// CanUndo reports whether the stack is non-empty. Drives the undo control.
func (h *History) CanUndo() bool { return len(h.entries) > 0 }

// Len returns the stack depth.
func (h *History) Len() int { return len(h.entries) }

// PurgeDeletes drops the delete entries for the given ids. Called once
// those deletions are confirmed server-side: a stale undo must not try to
// resurrect a segment the backend no longer has. Delete entries for ids
// still pending stay undoable.
func (h *History) PurgeDeletes(ids []int) {
	finalized := make(map[int]bool, len(ids))
	for _, id := range ids {
		finalized[id] = true
	}
	kept := h.entries[:0]
	for _, e := range h.entries {
		if e.Kind == KindDelete && finalized[e.SegmentID] {
			continue
		}
		kept = append(kept, e)
	}
	h.entries = kept
}
