package app

import (
	"fmt"
	"math"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"segedit/internal/api"
	"segedit/internal/editor"
)

func testChunkSegments() []api.Segment {
	return []api.Segment{
		{ID: 1, ChunkID: 1, StartSec: 0.0, EndSec: 2.5, Text: "first"},
		{ID: 2, ChunkID: 1, StartSec: 2.5, EndSec: 4.0, Text: "", GapType: "silence"},
		{ID: 3, ChunkID: 1, StartSec: 4.0, EndSec: 7.25, Text: "third"},
	}
}

// loadedModel builds a model with one chunk's segments resident, the first
// segment selected, as if startup and the initial loads completed.
func loadedModel(t *testing.T, policy editor.DeletePolicy) Model {
	t.Helper()

	m := New(nil, policy)
	m.width = 100
	m.height = 30
	m.chunks = []api.Chunk{
		{ID: 1, FilePath: "/audio/chunk_001.mp4", StartTime: 0, EndTime: 600},
		{ID: 2, FilePath: "/audio/chunk_002.mp4", StartTime: 600, EndTime: 1200},
	}
	m.chunkIdx = 0
	m.duration = 600
	m.loading = false
	if err := m.store.Load(testChunkSegments()); err != nil {
		t.Fatalf("load: %v", err)
	}
	m.selectSegment(1)
	return m
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(msg)
	return updated.(Model), cmd
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewModel(t *testing.T) {
	m := New(nil, editor.DeleteDeferred)
	if !m.loading {
		t.Error("new model should be loading")
	}
	if m.mode != ModeNormal {
		t.Error("new model should start in normal mode")
	}
	if m.coord.Unsaved() {
		t.Error("new model should have no unsaved changes")
	}
}

func TestSegmentsLoadedSelectsFirst(t *testing.T) {
	m := loadedModel(t, editor.DeleteDeferred)
	m.loading = true

	m, _ = update(t, m, SegmentsLoadedMsg{ChunkID: 1, Segments: testChunkSegments()})

	if m.loading {
		t.Error("loading should be cleared")
	}
	if id, ok := m.sel.Current(); !ok || id != 1 {
		t.Errorf("selection = %d/%v, want 1", id, ok)
	}
	if m.zoom <= 0 {
		t.Errorf("zoom = %v, selection should center the viewport", m.zoom)
	}
	if len(m.regions) != 3 {
		t.Errorf("regions = %d, want 3", len(m.regions))
	}
}

func TestStaleSegmentLoadIgnored(t *testing.T) {
	m := loadedModel(t, editor.DeleteDeferred)

	// A late response for chunk 2 arrives while chunk 1 is current.
	m, _ = update(t, m, SegmentsLoadedMsg{ChunkID: 2, Segments: []api.Segment{
		{ID: 99, ChunkID: 2, StartSec: 600, EndSec: 601, Text: "stale"},
	}})

	if m.store.Len() != 3 {
		t.Errorf("store len = %d, stale load must not replace the working set", m.store.Len())
	}
}

func TestEmptySegmentLoadAborts(t *testing.T) {
	m := loadedModel(t, editor.DeleteDeferred)

	m, _ = update(t, m, SegmentsLoadedMsg{ChunkID: 1, Segments: nil})

	if m.errorMessage == "" {
		t.Error("empty load should surface an error")
	}
	if m.store.Len() != 3 {
		t.Error("empty load must not clear the working set")
	}
}

func TestNavigationKeys(t *testing.T) {
	m := loadedModel(t, editor.DeleteDeferred)

	m, _ = update(t, m, keyRunes("j"))
	if id, _ := m.sel.Current(); id != 2 {
		t.Errorf("after j, selection = %d, want 2", id)
	}

	m, _ = update(t, m, keyRunes("k"))
	if id, _ := m.sel.Current(); id != 1 {
		t.Errorf("after k, selection = %d, want 1", id)
	}

	// Clamped at the top.
	m, _ = update(t, m, keyRunes("k"))
	if id, _ := m.sel.Current(); id != 1 {
		t.Errorf("k at first segment = %d, want 1", id)
	}

	m, _ = update(t, m, keyRunes("G"))
	if id, _ := m.sel.Current(); id != 3 {
		t.Errorf("after G, selection = %d, want 3", id)
	}
	m, _ = update(t, m, keyRunes("g"))
	if id, _ := m.sel.Current(); id != 1 {
		t.Errorf("after g, selection = %d, want 1", id)
	}
}

func TestResizeLiveDoesNotTouchStore(t *testing.T) {
	m := loadedModel(t, editor.DeleteDeferred)
	m.selectSegment(2)

	m, _ = update(t, m, keyRunes("r"))
	if m.mode != ModeResize {
		t.Fatal("r should enter resize mode")
	}

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyRight})
	if cmd != nil {
		t.Error("live resize must not fire network commands")
	}

	seg, _, _ := m.store.ByID(2)
	if seg.StartSec != 2.5 {
		t.Errorf("store start = %v, live resize must not commit", seg.StartSec)
	}
	if m.history.CanUndo() {
		t.Error("live resize must not push history")
	}

	// The visual region does move.
	for _, r := range m.regions {
		if r.SegmentID == 2 && math.Abs(r.Start-2.55) > 1e-9 {
			t.Errorf("live region start = %v, want ~2.55", r.Start)
		}
	}
}

func TestResizeCommitThenUndo(t *testing.T) {
	m := loadedModel(t, editor.DeleteDeferred)
	m.selectSegment(2)

	m, _ = update(t, m, keyRunes("r"))
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRight}) // start += 0.05
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if m.mode != ModeNormal {
		t.Error("enter should leave resize mode")
	}
	if cmd == nil {
		t.Fatal("commit should fire a save command")
	}

	seg, _, _ := m.store.ByID(2)
	if math.Abs(seg.StartSec-2.55) > 1e-9 {
		t.Errorf("store start = %v, want ~2.55", seg.StartSec)
	}
	if !m.history.CanUndo() {
		t.Fatal("commit should push an undo entry")
	}
	if !m.coord.Unsaved() {
		t.Error("commit should set the unsaved flag")
	}
	if !strings.Contains(m.View(), "2.55") {
		t.Error("table should reflect the new start time")
	}

	// Undo restores the exact prior value and re-issues the save.
	m, cmd = update(t, m, keyRunes("u"))
	if cmd == nil {
		t.Fatal("undo of an edit should fire a corrective save")
	}
	seg, _, _ = m.store.ByID(2)
	if seg.StartSec != 2.5 {
		t.Errorf("store start after undo = %v, want 2.5", seg.StartSec)
	}
	if m.history.CanUndo() {
		t.Error("stack should be empty after undo")
	}
}

func TestResizeEscapeReverts(t *testing.T) {
	m := loadedModel(t, editor.DeleteDeferred)
	m.selectSegment(2)

	m, _ = update(t, m, keyRunes("r"))
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRight})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})

	if m.mode != ModeNormal {
		t.Error("esc should leave resize mode")
	}
	for _, r := range m.regions {
		if r.SegmentID == 2 && r.Start != 2.5 {
			t.Errorf("region start = %v, esc should rebuild from the store", r.Start)
		}
	}
}

func TestResizeUnchangedCommitIsNoop(t *testing.T) {
	m := loadedModel(t, editor.DeleteDeferred)
	m.selectSegment(2)

	m, _ = update(t, m, keyRunes("r"))
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if cmd != nil {
		t.Error("committing unchanged bounds should not fire a save")
	}
	if m.history.CanUndo() {
		t.Error("no-op commit must not push history")
	}
}

func TestEditTextCommit(t *testing.T) {
	m := loadedModel(t, editor.DeleteDeferred)
	m.selectSegment(3)

	m, _ = update(t, m, keyRunes("t"))
	if m.mode != ModeEdit || m.editField != FieldText {
		t.Fatalf("t should enter text edit, mode=%v field=%v", m.mode, m.editField)
	}
	if m.input.Value() != "third" {
		t.Errorf("input seeded with %q, want current text", m.input.Value())
	}

	m, _ = update(t, m, keyRunes("!"))
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if cmd == nil {
		t.Fatal("text commit should fire a save")
	}
	seg, _, _ := m.store.ByID(3)
	if seg.Text != "third!" {
		t.Errorf("text = %q, want %q", seg.Text, "third!")
	}
	if !m.history.CanUndo() {
		t.Error("text commit should push an undo entry")
	}
	if m.saveState != SaveSaving {
		t.Error("commit should show the saving status")
	}
}

func TestEditTextNoopSkipped(t *testing.T) {
	m := loadedModel(t, editor.DeleteDeferred)
	m.selectSegment(3)

	m, _ = update(t, m, keyRunes("t"))
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter}) // unchanged value

	if cmd != nil {
		t.Error("no-op text edit should not fire a save")
	}
	if m.history.CanUndo() {
		t.Error("no-op text edit must not push history")
	}
}

func TestEditTimeTwoDecimalNoop(t *testing.T) {
	m := loadedModel(t, editor.DeleteDeferred)
	m.selectSegment(3)

	// The cell shows "4.00"; committing it unchanged is a no-op even though
	// the stored float may differ below display precision.
	seg, _, _ := m.store.ByID(3)
	seg.StartSec = 4.0001

	m, _ = update(t, m, keyRunes("s"))
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if cmd != nil {
		t.Error("2-decimal-equal time edit should not fire a save")
	}
	if m.history.CanUndo() {
		t.Error("2-decimal-equal time edit must not push history")
	}
}

func TestEditTimeRejectsInvalid(t *testing.T) {
	m := loadedModel(t, editor.DeleteDeferred)
	m.selectSegment(3)

	m, _ = update(t, m, keyRunes("e"))
	m.input.SetValue("3.0") // end before start (start is 4.0)
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if cmd != nil {
		t.Error("invalid time order should not fire a save")
	}
	if m.errorMessage == "" {
		t.Error("invalid time order should surface an error")
	}
	seg, _, _ := m.store.ByID(3)
	if seg.EndSec != 7.25 {
		t.Errorf("end = %v, invalid edit must not commit", seg.EndSec)
	}
}

func TestDeleteDeferredThenUndo(t *testing.T) {
	m := loadedModel(t, editor.DeleteDeferred)
	m.selectSegment(2)

	m, _ = update(t, m, keyRunes("x"))

	seg, idx, _ := m.store.ByID(2)
	if !seg.MarkedForDeletion {
		t.Fatal("x should mark the segment")
	}
	if idx != 1 {
		t.Errorf("index = %d, soft delete must not reorder", idx)
	}
	if !m.coord.IsPending(2) {
		t.Error("deletion should be queued")
	}
	if id, _ := m.sel.Current(); id != 3 {
		t.Errorf("selection = %d, should auto-advance to next undeleted", id)
	}

	// Pressing x again on the marked segment is a no-op.
	m.selectSegment(2)
	m, _ = update(t, m, keyRunes("x"))
	if m.history.Len() != 1 {
		t.Errorf("history = %d, delete of a marked segment must be disabled", m.history.Len())
	}

	m, _ = update(t, m, keyRunes("u"))
	seg, _, _ = m.store.ByID(2)
	if seg.MarkedForDeletion {
		t.Error("undo should unmark the segment")
	}
	if m.coord.IsPending(2) {
		t.Error("undo should drop the pending deletion")
	}
	if id, _ := m.sel.Current(); id != 2 {
		t.Errorf("selection = %d, undo should re-select the segment", id)
	}
}

func TestDeleteImmediateThenUndo(t *testing.T) {
	m := loadedModel(t, editor.DeleteImmediate)
	m.selectSegment(2)

	m, _ = update(t, m, keyRunes("x"))

	if m.store.Len() != 2 {
		t.Fatalf("store len = %d, want 2 after immediate delete", m.store.Len())
	}
	if !m.coord.IsPending(2) {
		t.Error("immediate delete still defers the network call to save-all")
	}
	if id, _ := m.sel.Current(); id != 3 {
		t.Errorf("selection = %d, want the segment that took index 1", id)
	}

	m, _ = update(t, m, keyRunes("u"))

	if m.store.Len() != 3 {
		t.Fatalf("store len = %d, undo should restore the segment", m.store.Len())
	}
	if got := int(m.store.At(1).ID); got != 2 {
		t.Errorf("segment at index 1 = %d, undo must restore the original position", got)
	}
	if m.coord.IsPending(2) {
		t.Error("undo should drop the pending deletion")
	}
}

func TestUndoMissingSegmentDiscarded(t *testing.T) {
	m := loadedModel(t, editor.DeleteDeferred)
	m.history.Push(editor.Entry{Kind: editor.KindEdit, SegmentID: 999,
		Prev: editor.FieldPatch{Text: api.StringPtr("ghost")}})

	m, cmd := update(t, m, keyRunes("u"))

	if cmd != nil {
		t.Error("undo of a vanished segment should not fire a save")
	}
	if m.history.CanUndo() {
		t.Error("the stale entry should be discarded")
	}
}

func TestUndoEmptyStack(t *testing.T) {
	m := loadedModel(t, editor.DeleteDeferred)
	m, cmd := update(t, m, keyRunes("u"))
	if cmd != nil {
		t.Error("undo with an empty stack should be a no-op")
	}
	if m.statusText == "" {
		t.Error("empty undo should show a neutral message")
	}
}

func TestSaveAllSuccessFinalizes(t *testing.T) {
	m := loadedModel(t, editor.DeleteDeferred)
	m.selectSegment(2)
	m, _ = update(t, m, keyRunes("x"))
	m.savingAll = true

	m, _ = update(t, m, SaveAllDoneMsg{Deleted: []int{2}})

	if m.savingAll {
		t.Error("savingAll should be cleared")
	}
	if m.store.Len() != 2 {
		t.Errorf("store len = %d, finalized segments leave the working set", m.store.Len())
	}
	if m.history.CanUndo() {
		t.Error("delete entries must be purged after finalize")
	}
	if m.saveState != SaveSaved {
		t.Errorf("saveState = %v, want saved", m.saveState)
	}
}

func TestSaveAllKeyTakesSnapshotOnly(t *testing.T) {
	m := loadedModel(t, editor.DeleteDeferred)
	m.selectSegment(2)
	m, _ = update(t, m, keyRunes("x"))

	m, cmd := update(t, m, keyRunes("w"))

	if !m.savingAll {
		t.Fatal("w should start the drain")
	}
	if cmd == nil {
		t.Fatal("w should fire the drain command")
	}
	// The command works over a snapshot; pending state changes only when
	// the done message lands on the event loop.
	if !m.coord.IsPending(2) {
		t.Error("pending set must not change before the drain completes")
	}
	if m.store.Len() != 3 {
		t.Error("working set must not change before the drain completes")
	}
}

func TestSaveAllNoPendingClearsUnsaved(t *testing.T) {
	m := loadedModel(t, editor.DeleteDeferred)
	m.coord.MarkUnsaved() // a field edit happened; it autosaved already

	m, cmd := update(t, m, keyRunes("w"))

	if m.savingAll {
		t.Error("nothing pending: no drain should start")
	}
	if m.coord.Unsaved() {
		t.Error("save-all with nothing pending should clear the unsaved flag")
	}
	if m.saveState != SaveSaved {
		t.Errorf("saveState = %v, want saved", m.saveState)
	}
	if cmd == nil {
		t.Error("saved status should schedule its own clear")
	}
}

func TestUndoWaitsDuringSaveAll(t *testing.T) {
	m := loadedModel(t, editor.DeleteDeferred)
	m.selectSegment(2)
	m, _ = update(t, m, keyRunes("x"))
	m, _ = update(t, m, keyRunes("w"))
	if !m.savingAll {
		t.Fatal("w should start the drain")
	}

	m, _ = update(t, m, keyRunes("u"))

	if m.history.Len() != 1 {
		t.Error("undo must not pop history while the drain is in flight")
	}
	if !m.coord.IsPending(2) {
		t.Error("undo must not touch the pending set while the drain is in flight")
	}
	seg, _, _ := m.store.ByID(2)
	if !seg.MarkedForDeletion {
		t.Error("undo must not unmark while the drain is in flight")
	}
}

func TestSaveAllFailureKeepsState(t *testing.T) {
	m := loadedModel(t, editor.DeleteDeferred)
	m.selectSegment(2)
	m, _ = update(t, m, keyRunes("x"))
	m.savingAll = true

	m, _ = update(t, m, SaveAllDoneMsg{Err: fmt.Errorf("backend down")})

	if m.store.Len() != 3 {
		t.Error("failed save-all must not remove segments")
	}
	if !m.coord.Unsaved() {
		t.Error("failed save-all must keep the unsaved flag")
	}
	if m.saveState != SaveError {
		t.Errorf("saveState = %v, want error", m.saveState)
	}
}

func TestSaveAllPartialFailureFinalizesConfirmed(t *testing.T) {
	m := loadedModel(t, editor.DeleteDeferred)
	m, _ = update(t, m, keyRunes("x")) // marks 1, advances to 2
	m.selectSegment(2)
	m, _ = update(t, m, keyRunes("x")) // marks 2, advances to 3
	m.savingAll = true

	// The backend deleted segment 1, then the drain failed on segment 2.
	m, _ = update(t, m, SaveAllDoneMsg{Deleted: []int{1}, Err: fmt.Errorf("backend down")})

	if _, _, ok := m.store.ByID(1); ok {
		t.Error("a confirmed deletion must leave the working set even on partial failure")
	}
	if m.coord.IsPending(1) {
		t.Error("a confirmed deletion must leave the pending set")
	}
	if !m.coord.IsPending(2) {
		t.Error("the unconfirmed deletion must stay queued for retry")
	}
	if m.history.Len() != 1 {
		t.Fatalf("history = %d, only the unconfirmed delete should remain undoable", m.history.Len())
	}

	// Undo reverses the unconfirmed deletion, not the finalized one.
	m, _ = update(t, m, keyRunes("u"))
	seg, _, _ := m.store.ByID(2)
	if seg.MarkedForDeletion {
		t.Error("undo should unmark the unconfirmed segment")
	}
	m, _ = update(t, m, keyRunes("u"))
	if _, _, ok := m.store.ByID(1); ok {
		t.Error("undo must not resurrect a segment the backend already deleted")
	}
}

func TestSaveDoneTransitions(t *testing.T) {
	m := loadedModel(t, editor.DeleteDeferred)

	m, cmd := update(t, m, SaveDoneMsg{SegmentID: 1})
	if m.saveState != SaveSaved {
		t.Errorf("saveState = %v, want saved", m.saveState)
	}
	if cmd == nil {
		t.Error("saved status should schedule its own clear")
	}

	m, _ = update(t, m, ClearSaveStatusMsg{})
	if m.saveState != SaveIdle {
		t.Errorf("saveState = %v, want idle after clear", m.saveState)
	}

	m, _ = update(t, m, SaveDoneMsg{SegmentID: 1, Err: fmt.Errorf("boom")})
	if m.saveState != SaveError {
		t.Errorf("saveState = %v, want error", m.saveState)
	}
	// Errors are sticky; the timed clear only removes "saved".
	m, _ = update(t, m, ClearSaveStatusMsg{})
	if m.saveState != SaveError {
		t.Error("error status must not be cleared by the saved-status timer")
	}
}

func TestQuitGuard(t *testing.T) {
	m := loadedModel(t, editor.DeleteDeferred)
	m.coord.MarkUnsaved()

	m, cmd := update(t, m, keyRunes("q"))
	if cmd != nil {
		t.Error("quit with unsaved changes should not quit outright")
	}
	if m.mode != ModeConfirmQuit {
		t.Fatal("quit with unsaved changes should ask for confirmation")
	}

	m, _ = update(t, m, keyRunes("n"))
	if m.mode != ModeNormal {
		t.Error("n should cancel the quit")
	}

	m, _ = update(t, m, keyRunes("q"))
	_, cmd = update(t, m, keyRunes("y"))
	if cmd == nil {
		t.Error("y should confirm the quit")
	}
}

func TestChunkNavigation(t *testing.T) {
	m := loadedModel(t, editor.DeleteDeferred)

	m, cmd := update(t, m, keyRunes("n"))
	if m.chunkIdx != 1 {
		t.Errorf("chunkIdx = %d, want 1", m.chunkIdx)
	}
	if cmd == nil {
		t.Error("chunk switch should fire load commands")
	}
	if !m.loading {
		t.Error("chunk switch should enter loading state")
	}
	if _, ok := m.sel.Current(); ok {
		t.Error("chunk switch should clear the selection")
	}

	// Clamped at the last chunk.
	m.loading = false
	m, _ = update(t, m, keyRunes("n"))
	if m.chunkIdx != 1 {
		t.Errorf("chunkIdx = %d, navigation past the last chunk is a no-op", m.chunkIdx)
	}
}

func TestViewRendersWithSize(t *testing.T) {
	m := loadedModel(t, editor.DeleteDeferred)
	view := m.View()
	if view == "" || view == "Initializing..." {
		t.Error("loaded view should render content")
	}
	if !strings.Contains(view, "first") || !strings.Contains(view, "third") {
		t.Error("view should contain segment text")
	}
}

func TestTruncatePreservesStyledCells(t *testing.T) {
	styled := "id 42 " + "\x1b[38;5;220m" + strings.Repeat("a", 40) + "\x1b[0m"

	got := truncateToWidth(styled, 10)

	if w := lipgloss.Width(got); w != 10 {
		t.Errorf("visible width = %d, want 10", w)
	}
	if !strings.Contains(got, "\x1b[38;5;220m") {
		t.Error("truncation must not cut through the escape sequence")
	}
	if !strings.HasSuffix(strings.TrimSuffix(got, "\x1b[0m"), "…") &&
		!strings.HasSuffix(got, "…") {
		t.Errorf("truncated row should end with an ellipsis, got %q", got)
	}

	short := "plain row"
	if truncateToWidth(short, 20) != short {
		t.Error("rows that fit must pass through unchanged")
	}
}

func TestViewWithoutSize(t *testing.T) {
	m := New(nil, editor.DeleteDeferred)
	if m.View() != "Initializing..." {
		t.Errorf("view without size = %q", m.View())
	}
}
