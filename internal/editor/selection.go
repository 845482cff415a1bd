package editor

// Selection tracks the currently selected segment by id. Ids are already
// normalized to ints at the wire boundary, so lookups never depend on
// coercive comparison.
type Selection struct {
	id    int
	valid bool
}

// Select looks the id up in the store and makes it current. A miss clears
// the selection instead of failing, so dependent controls can simply
// disable themselves.
func (sel *Selection) Select(s *Store, id int) (*Segment, bool) {
	seg, _, ok := s.ByID(id)
	if !ok {
		sel.Clear()
		return nil, false
	}
	sel.id = id
	sel.valid = true
	return seg, true
}

// Current returns the selected segment id, if any.
func (sel *Selection) Current() (int, bool) {
	return sel.id, sel.valid
}

// Clear drops the selection.
func (sel *Selection) Clear() {
	sel.id = 0
	sel.valid = false
}

// Index returns the selected segment's index in the store, or -1.
func (sel *Selection) Index(s *Store) int {
	if !sel.valid {
		return -1
	}
	_, idx, ok := s.ByID(sel.id)
	if !ok {
		return -1
	}
	return idx
}

// Navigate moves the selection to the adjacent index (dir is -1 or +1),
// marked-deleted segments included. No-op at the array bounds or when
// nothing is selected; returns the new selection id.
func (sel *Selection) Navigate(s *Store, dir int) (int, bool) {
	idx := sel.Index(s)
	if idx < 0 {
		return 0, false
	}
	next := idx + dir
	if next < 0 || next >= s.Len() {
		return sel.id, sel.valid
	}
	seg := s.At(next)
	sel.id = int(seg.ID)
	sel.valid = true
	return sel.id, true
}

// NextUndeleted finds the nearest segment not marked for deletion, scanning
// forward from the selected index and then backward. Used to auto-advance
// after a deferred delete.
func (sel *Selection) NextUndeleted(s *Store) (int, bool) {
	idx := sel.Index(s)
	if idx < 0 {
		return 0, false
	}
	for i := idx + 1; i < s.Len(); i++ {
		if !s.At(i).MarkedForDeletion {
			return int(s.At(i).ID), true
		}
	}
	for i := idx - 1; i >= 0; i-- {
		if !s.At(i).MarkedForDeletion {
			return int(s.At(i).ID), true
		}
	}
	return 0, false
}
