package editor

import (
	"context"
	"fmt"
)

// Deleter issues a permanent segment deletion against the backend.
type Deleter interface {
	DeleteSegment(ctx context.Context, id int) error
}

// Coordinator tracks the unsaved-changes flag and the set of segments
// marked for deletion but not yet confirmed removed server-side. Field
// edits are fired immediately by the caller; deletions are batched here
// until an explicit finalize. The coordinator is not safe for concurrent
// use: callers drain the network with DrainDeletes over a Pending()
// snapshot and fold the outcome back in with ApplyDeleted, all on the
// same goroutine that calls every other method.
type Coordinator struct {
	pending map[int]struct{}
	order   []int // drain in mark order
	unsaved bool
}

// NewCoordinator creates a coordinator with an empty pending set.
func NewCoordinator() *Coordinator {
	return &Coordinator{pending: make(map[int]struct{})}
}

// MarkUnsaved records that a local mutation happened. Cleared only by a
// successful SaveAll.
func (c *Coordinator) MarkUnsaved() { c.unsaved = true }

// Unsaved reports whether local mutations exist that the backend may not
// have. Gates the exit confirmation.
func (c *Coordinator) Unsaved() bool { return c.unsaved }

// AddPending queues a segment id for deletion at finalize. Idempotent.
func (c *Coordinator) AddPending(id int) {
	if _, ok := c.pending[id]; ok {
		return
	}
	c.pending[id] = struct{}{}
	c.order = append(c.order, id)
	c.unsaved = true
}

// RemovePending drops an id from the pending set, e.g. on undo of a delete.
func (c *Coordinator) RemovePending(id int) {
	if _, ok := c.pending[id]; !ok {
		return
	}
	delete(c.pending, id)
	kept := c.order[:0]
	for _, v := range c.order {
		if v != id {
			kept = append(kept, v)
		}
	}
	c.order = kept
}

// IsPending reports whether the id is queued for deletion.
func (c *Coordinator) IsPending(id int) bool {
	_, ok := c.pending[id]
	return ok
}

// PendingCount returns the number of queued deletions.
func (c *Coordinator) PendingCount() int { return len(c.order) }

// Pending returns the queued ids in mark order.
func (c *Coordinator) Pending() []int {
	out := make([]int, len(c.order))
	copy(out, c.order)
	return out
}

// DrainDeletes issues one delete call per id, sequentially, aborting the
// remaining batch on the first failure and returning the ids deleted so
// far. It works over a snapshot and touches no coordinator state, so it is
// safe to run off the event loop.
func DrainDeletes(ctx context.Context, d Deleter, ids []int) ([]int, error) {
	var deleted []int
	for _, id := range ids {
		if err := d.DeleteSegment(ctx, id); err != nil {
			return deleted, fmt.Errorf("delete segment %d: %w", id, err)
		}
		deleted = append(deleted, id)
	}
	return deleted, nil
}

// ApplyDeleted folds a drain's outcome back in: confirmed ids leave the
// pending set, and a complete drain clears the set and the unsaved flag.
// After a partial failure the remainder stays queued, so a retry resends
// only what is still pending. The caller is responsible for purging the
// confirmed ids' delete entries from the undo history.
func (c *Coordinator) ApplyDeleted(deleted []int, complete bool) {
	for _, id := range deleted {
		c.RemovePending(id)
	}
	if complete {
		c.pending = make(map[int]struct{})
		c.order = nil
		c.unsaved = false
	}
}
