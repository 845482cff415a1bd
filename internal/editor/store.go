// Package editor holds the chunk-local editing engine: the segment working
// set, undo history, selection, and save coordination. It is free of UI and
// network dependencies so every piece can be tested headless.
package editor

import (
	"fmt"

	"segedit/internal/api"
)

// DeletePolicy selects how Delete behaves. It is fixed when the store is
// constructed; there is one strategy, not two code paths.
type DeletePolicy int

const (
	// DeleteDeferred marks segments for deletion; they are removed from the
	// backend only when the pending set is finalized.
	DeleteDeferred DeletePolicy = iota
	// DeleteImmediate removes segments from the working set at once.
	DeleteImmediate
)

// Segment is a working-set entry: the wire segment plus session-local state.
type Segment struct {
	api.Segment
	MarkedForDeletion bool
}

// FieldPatch is a partial set of editable segment fields. Nil means "leave
// untouched". It doubles as the inverse patch recorded by the undo history.
type FieldPatch struct {
	StartSec *float64
	EndSec   *float64
	Text     *string
}

// IsEmpty reports whether the patch carries no fields.
func (p FieldPatch) IsEmpty() bool {
	return p.StartSec == nil && p.EndSec == nil && p.Text == nil
}

// ToUpdate converts the patch to its wire representation.
func (p FieldPatch) ToUpdate() api.SegmentUpdate {
	return api.SegmentUpdate{StartSec: p.StartSec, EndSec: p.EndSec, Text: p.Text}
}

// Store owns the authoritative in-memory segment list for the currently
// loaded chunk. Exactly one chunk's segments are resident at a time.
type Store struct {
	segments []Segment
	policy   DeletePolicy
}

// NewStore creates an empty store with the given delete policy.
func NewStore(policy DeletePolicy) *Store {
	return &Store{policy: policy}
}

// Policy returns the delete policy fixed at construction.
func (s *Store) Policy() DeletePolicy { return s.policy }

// Load replaces the entire working set. Loading an empty set is an error:
// a chunk with no segments means the fetch went wrong, and committing it
// would silently blank the editor.
func (s *Store) Load(segs []api.Segment) error {
	if len(segs) == 0 {
		return fmt.Errorf("no segments to load")
	}
	loaded := make([]Segment, len(segs))
	for i, seg := range segs {
		loaded[i] = Segment{Segment: seg}
	}
	s.segments = loaded
	return nil
}

// Len returns the number of resident segments, including marked ones.
func (s *Store) Len() int { return len(s.segments) }

// Segments returns the working set. Callers must treat it as read-only;
// mutations go through the store methods so history and views stay in step.
func (s *Store) Segments() []Segment { return s.segments }

// At returns a pointer to the segment at index i, or nil out of bounds.
func (s *Store) At(i int) *Segment {
	if i < 0 || i >= len(s.segments) {
		return nil
	}
	return &s.segments[i]
}

// ByID looks up a segment by id, returning the segment and its index.
func (s *Store) ByID(id int) (*Segment, int, bool) {
	for i := range s.segments {
		if int(s.segments[i].ID) == id {
			return &s.segments[i], i, true
		}
	}
	return nil, -1, false
}

// UpdateFields applies a partial mutation in place and returns the inverse
// patch holding the prior values of exactly the fields that were set.
func (s *Store) UpdateFields(id int, patch FieldPatch) (FieldPatch, bool) {
	seg, _, ok := s.ByID(id)
	if !ok {
		return FieldPatch{}, false
	}

	var prev FieldPatch
	if patch.StartSec != nil {
		v := seg.StartSec
		prev.StartSec = &v
		seg.StartSec = *patch.StartSec
	}
	if patch.EndSec != nil {
		v := seg.EndSec
		prev.EndSec = &v
		seg.EndSec = *patch.EndSec
	}
	if patch.Text != nil {
		v := seg.Text
		prev.Text = &v
		seg.Text = *patch.Text
	}
	return prev, true
}

// MarkDeleted sets the soft-delete flag. Idempotent.
func (s *Store) MarkDeleted(id int) bool {
	seg, _, ok := s.ByID(id)
	if !ok {
		return false
	}
	seg.MarkedForDeletion = true
	return true
}

// UnmarkDeleted clears the soft-delete flag. Idempotent.
func (s *Store) UnmarkDeleted(id int) bool {
	seg, _, ok := s.ByID(id)
	if !ok {
		return false
	}
	seg.MarkedForDeletion = false
	return true
}

// Remove hard-removes a segment, returning it together with its original
// index so an undo can put it back between its original neighbors.
func (s *Store) Remove(id int) (Segment, int, bool) {
	_, idx, ok := s.ByID(id)
	if !ok {
		return Segment{}, -1, false
	}
	removed := s.segments[idx]
	s.segments = append(s.segments[:idx], s.segments[idx+1:]...)
	return removed, idx, true
}

// Restore re-inserts a previously removed segment at a specific index,
// preserving the relative order of all other elements.
func (s *Store) Restore(seg Segment, at int) {
	if at < 0 {
		at = 0
	}
	if at > len(s.segments) {
		at = len(s.segments)
	}
	s.segments = append(s.segments, Segment{})
	copy(s.segments[at+1:], s.segments[at:])
	s.segments[at] = seg
}
