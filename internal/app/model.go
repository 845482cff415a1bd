package app

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"segedit/internal/api"
	"segedit/internal/editor"
	"segedit/internal/wave"
)

// Mode is the input mode of the editor.
type Mode int

const (
	ModeNormal Mode = iota
	ModeResize
	ModeEdit
	ModeConfirmQuit
)

// EditField identifies which table cell is being edited in place.
type EditField int

const (
	FieldText EditField = iota
	FieldStart
	FieldEnd
)

// SaveState is the transient autosave indicator.
type SaveState int

const (
	SaveIdle SaveState = iota
	SaveSaving
	SaveSaved
	SaveError
)

const (
	resizeStepFine   = 0.05
	resizeStepCoarse = 0.5
	minSegmentSpan   = 0.01
	saveStatusDelay  = 3 * time.Second
)

// Model is the root bubbletea model: it owns the editing engine and keeps
// the region overlay and segment table consistent with the store.
type Model struct {
	client *api.Client

	// Engine
	store   *editor.Store
	history editor.History
	sel     editor.Selection
	coord   *editor.Coordinator

	// Project
	projectName string
	chunks      []api.Chunk
	chunkIdx    int
	loading     bool

	// Waveform
	regions   []wave.Region
	peaks     []float64
	duration  float64
	audioPath string
	player    *wave.Player
	zoom      float64
	scroll    float64

	// Interaction
	mode        Mode
	editField   EditField
	input       textinput.Model
	resizeStart float64 // live global seconds, uncommitted
	resizeEnd   float64

	// Save feedback
	saveState  SaveState
	saveDetail string
	savingAll  bool

	// UI
	width        int
	height       int
	statusText   string
	errorMessage string
}

// New creates a model wired to the given backend client.
func New(client *api.Client, policy editor.DeletePolicy) Model {
	ti := textinput.New()
	ti.CharLimit = 500

	return Model{
		client:     client,
		store:      editor.NewStore(policy),
		coord:      editor.NewCoordinator(),
		player:     &wave.Player{},
		input:      ti,
		statusText: "Loading chunks...",
		loading:    true,
	}
}

// Init returns the initial command — fetch project info and chunk list.
func (m Model) Init() tea.Cmd {
	return loadChunksCmd(m.client)
}

// currentChunk returns the loaded chunk's metadata, or nil before startup
// finishes.
func (m *Model) currentChunk() *api.Chunk {
	if m.chunkIdx < 0 || m.chunkIdx >= len(m.chunks) {
		return nil
	}
	return &m.chunks[m.chunkIdx]
}

func (m *Model) laneWidth() int {
	if m.width == 0 {
		return 80
	}
	return max(20, m.width-2)
}

// loadChunksCmd fetches project info and the chunk list.
func loadChunksCmd(client *api.Client) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		// Project name is optional; its absence is not fatal.
		info, _ := client.Project(ctx)
		chunks, err := client.Chunks(ctx)
		if err != nil {
			return LoadErrorMsg{Err: err}
		}
		if len(chunks) == 0 {
			return LoadErrorMsg{Err: fmt.Errorf("backend returned no chunks")}
		}
		return ChunksLoadedMsg{Project: info.Name, Chunks: chunks}
	}
}

// loadSegmentsCmd fetches one chunk's segments.
func loadSegmentsCmd(client *api.Client, chunkID int) tea.Cmd {
	return func() tea.Msg {
		segs, err := client.Segments(context.Background(), chunkID)
		if err != nil {
			return LoadErrorMsg{Err: err}
		}
		return SegmentsLoadedMsg{ChunkID: chunkID, Segments: segs}
	}
}

// downloadAudioCmd fetches the chunk's audio to a local cache directory.
func downloadAudioCmd(client *api.Client, chunkID int) tea.Cmd {
	return func() tea.Msg {
		dir := filepath.Join(os.TempDir(), "segedit-audio")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return AudioReadyMsg{ChunkID: chunkID} // lane degrades to flat line
		}
		path, err := client.DownloadAudio(context.Background(), chunkID, dir)
		if err != nil {
			return AudioReadyMsg{ChunkID: chunkID}
		}
		return AudioReadyMsg{ChunkID: chunkID, Path: path}
	}
}

// peaksCmd decodes waveform peaks from the downloaded audio.
func peaksCmd(path string, chunkID, buckets int) tea.Cmd {
	return func() tea.Msg {
		if !wave.FFmpegAvailable() {
			return PeaksReadyMsg{ChunkID: chunkID}
		}
		peaks, duration, err := wave.Peaks(context.Background(), path, buckets)
		if err != nil {
			return PeaksReadyMsg{ChunkID: chunkID}
		}
		return PeaksReadyMsg{ChunkID: chunkID, Peaks: peaks, Duration: duration}
	}
}

// saveFieldCmd fires a partial segment update. Fire-and-forget: the caller
// does not block further edits on its completion.
func saveFieldCmd(client *api.Client, id int, patch editor.FieldPatch) tea.Cmd {
	return func() tea.Msg {
		_, err := client.UpdateSegment(context.Background(), id, patch.ToUpdate())
		return SaveDoneMsg{SegmentID: id, Err: err}
	}
}

// saveAllCmd drains a snapshot of the pending-deletion set sequentially.
// The command goroutine only issues network calls; every coordinator and
// store mutation happens in the SaveAllDoneMsg handler on the event loop.
func saveAllCmd(client *api.Client, ids []int) tea.Cmd {
	return func() tea.Msg {
		deleted, err := editor.DrainDeletes(context.Background(), client, ids)
		return SaveAllDoneMsg{Deleted: deleted, Err: err}
	}
}

// clearSaveStatusCmd fires after a delay to clear the "saved" indicator.
func clearSaveStatusCmd() tea.Cmd {
	return tea.Tick(saveStatusDelay, func(time.Time) tea.Msg {
		return ClearSaveStatusMsg{}
	})
}

// Update processes messages and returns the updated model and any commands.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.rezoomToSelection()
		return m, nil

	case ChunksLoadedMsg:
		m.projectName = msg.Project
		m.chunks = msg.Chunks
		m.chunkIdx = 0
		return m.loadCurrentChunk()

	case SegmentsLoadedMsg:
		if c := m.currentChunk(); c == nil || c.ID != msg.ChunkID {
			return m, nil // stale load from a chunk we already left
		}
		m.loading = false
		if err := m.store.Load(msg.Segments); err != nil {
			m.errorMessage = fmt.Sprintf("chunk %d: %v", msg.ChunkID, err)
			m.statusText = ""
			return m, nil
		}
		m.errorMessage = ""
		m.statusText = ""
		first := m.store.At(0)
		m.selectSegment(int(first.ID))
		return m, nil

	case LoadErrorMsg:
		m.loading = false
		m.errorMessage = msg.Err.Error()
		m.statusText = ""
		return m, nil

	case AudioReadyMsg:
		if c := m.currentChunk(); c == nil || c.ID != msg.ChunkID || msg.Path == "" {
			return m, nil
		}
		m.audioPath = msg.Path
		return m, peaksCmd(msg.Path, msg.ChunkID, m.laneWidth()*4)

	case PeaksReadyMsg:
		if c := m.currentChunk(); c == nil || c.ID != msg.ChunkID || len(msg.Peaks) == 0 {
			return m, nil
		}
		m.peaks = msg.Peaks
		if msg.Duration > 0 {
			m.duration = msg.Duration
		}
		m.rebuildRegions()
		return m, nil

	case SaveDoneMsg:
		if msg.Err != nil {
			// Local state is not rolled back; it stays ahead of the server
			// until the user re-triggers the edit.
			m.saveState = SaveError
			m.saveDetail = msg.Err.Error()
			return m, nil
		}
		m.saveState = SaveSaved
		m.saveDetail = ""
		return m, clearSaveStatusCmd()

	case SaveAllDoneMsg:
		m.savingAll = false
		m.coord.ApplyDeleted(msg.Deleted, msg.Err == nil)
		// Even a partial drain is final for the ids it deleted: they leave
		// the working set and their undo entries are retired, so undo cannot
		// resurrect a segment the backend no longer has. Unconfirmed
		// deletions stay marked, pending, and undoable.
		m.finalizeDeletes(msg.Deleted)
		if msg.Err != nil {
			m.saveState = SaveError
			m.saveDetail = msg.Err.Error()
			return m, nil
		}
		m.saveState = SaveSaved
		m.saveDetail = ""
		return m, clearSaveStatusCmd()

	case ClearSaveStatusMsg:
		if m.saveState == SaveSaved {
			m.saveState = SaveIdle
		}
		return m, nil
	}

	if m.mode == ModeEdit {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

// loadCurrentChunk kicks off segment and audio loads for the chunk at
// chunkIdx. The previous chunk's working set stays until the new one
// arrives; in-flight saves for old segments are safe because updates
// target globally unique ids.
func (m Model) loadCurrentChunk() (tea.Model, tea.Cmd) {
	c := m.currentChunk()
	if c == nil {
		return m, nil
	}
	m.loading = true
	m.statusText = fmt.Sprintf("Loading chunk %d...", c.ID)
	m.peaks = nil
	m.audioPath = ""
	m.duration = c.EndTime - c.StartTime
	m.zoom = 0
	m.scroll = 0
	m.regions = nil
	m.sel.Clear()
	return m, tea.Batch(
		loadSegmentsCmd(m.client, c.ID),
		downloadAudioCmd(m.client, c.ID),
	)
}

// rebuildRegions recreates the visual overlay from store state. Called on
// load, selection change, and any committed or undone mutation.
func (m *Model) rebuildRegions() {
	c := m.currentChunk()
	if c == nil {
		m.regions = nil
		return
	}
	selID, _ := m.sel.Current()
	m.regions = wave.Project(m.store.Segments(), c.StartTime, m.duration, selID)
}

// selectSegment makes the id current, re-renders its treatment, and
// centers the viewport on it. A miss clears the selection and dependent
// state instead of failing.
func (m *Model) selectSegment(id int) {
	seg, ok := m.sel.Select(m.store, id)
	if !ok {
		m.rebuildRegions()
		return
	}
	c := m.currentChunk()
	if c != nil {
		res := editor.ZoomToSegment(seg.StartSec-c.StartTime, seg.EndSec-c.StartTime,
			m.duration, float64(m.laneWidth()))
		m.zoom = res.Zoom
		m.scroll = res.Scroll
	}
	m.rebuildRegions()
}

// rezoomToSelection recenters after a viewport size change.
func (m *Model) rezoomToSelection() {
	if id, ok := m.sel.Current(); ok {
		m.selectSegment(id)
	}
}

// handleKey processes key presses according to the current mode.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case ModeConfirmQuit:
		return m.handleConfirmQuitKey(msg)
	case ModeEdit:
		return m.handleEditKey(msg)
	case ModeResize:
		return m.handleResizeKey(msg)
	}
	return m.handleNormalKey(msg)
}

func (m Model) handleConfirmQuitKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case KeyConfirmY:
		return m, tea.Quit
	case KeyConfirmN, KeyEscape:
		m.mode = ModeNormal
	}
	return m, nil
}

func (m Model) handleNormalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case KeyQuit, KeyQuitUpper, KeyCtrlC:
		if m.coord.Unsaved() {
			m.mode = ModeConfirmQuit
			return m, nil
		}
		m.player.Stop()
		return m, tea.Quit

	case KeyJ, KeyDown:
		if id, ok := m.sel.Navigate(m.store, 1); ok {
			m.selectSegment(id)
		}
		return m, nil

	case KeyK, KeyUp:
		if id, ok := m.sel.Navigate(m.store, -1); ok {
			m.selectSegment(id)
		}
		return m, nil

	case KeyFirstSeg:
		if m.store.Len() > 0 {
			m.selectSegment(int(m.store.At(0).ID))
		}
		return m, nil

	case KeyLastSeg:
		if m.store.Len() > 0 {
			m.selectSegment(int(m.store.At(m.store.Len() - 1).ID))
		}
		return m, nil

	case KeyNextChunk:
		if m.chunkIdx < len(m.chunks)-1 && !m.loading {
			m.chunkIdx++
			return m.loadCurrentChunk()
		}
		return m, nil

	case KeyPrevChunk:
		if m.chunkIdx > 0 && !m.loading {
			m.chunkIdx--
			return m.loadCurrentChunk()
		}
		return m, nil

	case KeyEnter:
		if id, ok := m.sel.Current(); ok {
			m.selectSegment(id) // re-center
		}
		return m, nil

	case KeySpace:
		return m.playSelection()

	case KeyEditText:
		return m.beginEdit(FieldText)

	case KeyEditStart:
		return m.beginEdit(FieldStart)

	case KeyEditEnd:
		return m.beginEdit(FieldEnd)

	case KeyResize:
		return m.beginResize()

	case KeyDelete:
		return m.deleteSelection()

	case KeyUndo:
		return m.undo()

	case KeySaveAll:
		if m.savingAll {
			return m, nil
		}
		if m.coord.PendingCount() == 0 {
			// Nothing queued: field edits already autosaved, so report saved
			// without issuing any calls.
			m.coord.ApplyDeleted(nil, true)
			m.saveState = SaveSaved
			m.saveDetail = ""
			return m, clearSaveStatusCmd()
		}
		m.savingAll = true
		m.saveState = SaveSaving
		m.saveDetail = fmt.Sprintf("deleting %d segment(s)", m.coord.PendingCount())
		return m, saveAllCmd(m.client, m.coord.Pending())
	}

	return m, nil
}

// playSelection plays the selected segment's audio range.
func (m Model) playSelection() (tea.Model, tea.Cmd) {
	id, ok := m.sel.Current()
	if !ok || m.audioPath == "" {
		return m, nil
	}
	seg, _, ok := m.store.ByID(id)
	if !ok {
		return m, nil
	}
	c := m.currentChunk()
	if c == nil {
		return m, nil
	}
	start := seg.StartSec - c.StartTime
	if start < 0 {
		start = 0
	}
	dur := seg.EndSec - seg.StartSec
	if err := m.player.PlayRange(m.audioPath, start, dur); err != nil {
		m.statusText = "playback unavailable"
	}
	return m, nil
}

// beginEdit opens a text input over the selected segment's cell.
func (m Model) beginEdit(field EditField) (tea.Model, tea.Cmd) {
	id, ok := m.sel.Current()
	if !ok || m.savingAll {
		return m, nil
	}
	seg, _, ok := m.store.ByID(id)
	if !ok {
		return m, nil
	}

	m.mode = ModeEdit
	m.editField = field
	switch field {
	case FieldText:
		m.input.SetValue(seg.Text)
	case FieldStart:
		m.input.SetValue(formatSec(seg.StartSec))
	case FieldEnd:
		m.input.SetValue(formatSec(seg.EndSec))
	}
	m.input.CursorEnd()
	return m, m.input.Focus()
}

func (m Model) handleEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case KeyEscape:
		m.mode = ModeNormal
		m.input.Blur()
		return m, nil
	case KeyEnter:
		return m.commitEdit()
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// commitEdit applies the cell edit: push inverse, mutate store, refresh
// the row, and fire the autosave. No-op edits are skipped entirely.
func (m Model) commitEdit() (tea.Model, tea.Cmd) {
	m.mode = ModeNormal
	m.input.Blur()

	id, ok := m.sel.Current()
	if !ok {
		return m, nil
	}
	seg, _, ok := m.store.ByID(id)
	if !ok {
		return m, nil
	}

	var patch editor.FieldPatch
	switch m.editField {
	case FieldText:
		v := m.input.Value()
		if v == seg.Text {
			return m, nil
		}
		patch.Text = &v

	case FieldStart, FieldEnd:
		v, err := strconv.ParseFloat(m.input.Value(), 64)
		if err != nil {
			m.errorMessage = fmt.Sprintf("not a number: %q", m.input.Value())
			return m, nil
		}
		// Table cells display two decimals, so equality is judged at that
		// precision; a region resize commits at full float precision.
		if m.editField == FieldStart {
			if sameAt2Dec(v, seg.StartSec) {
				return m, nil
			}
			if v >= seg.EndSec {
				m.errorMessage = "start must be before end"
				return m, nil
			}
			patch.StartSec = &v
		} else {
			if sameAt2Dec(v, seg.EndSec) {
				return m, nil
			}
			if v <= seg.StartSec {
				m.errorMessage = "end must be after start"
				return m, nil
			}
			patch.EndSec = &v
		}
	}

	m.errorMessage = ""
	return m.commitPatch(id, patch)
}

// commitPatch is the single commit path for field edits from any entry
// point: store mutation, history push, region/table refresh, autosave.
func (m Model) commitPatch(id int, patch editor.FieldPatch) (tea.Model, tea.Cmd) {
	prev, ok := m.store.UpdateFields(id, patch)
	if !ok {
		return m, nil
	}
	m.history.Push(editor.Entry{Kind: editor.KindEdit, SegmentID: id, Prev: prev})
	m.coord.MarkUnsaved()
	m.rebuildRegions()
	m.saveState = SaveSaving
	m.saveDetail = ""
	return m, saveFieldCmd(m.client, id, patch)
}

// beginResize enters region-resize mode with live bounds seeded from the
// store.
func (m Model) beginResize() (tea.Model, tea.Cmd) {
	id, ok := m.sel.Current()
	if !ok || m.savingAll {
		return m, nil
	}
	seg, _, ok := m.store.ByID(id)
	if !ok {
		return m, nil
	}
	m.mode = ModeResize
	m.resizeStart = seg.StartSec
	m.resizeEnd = seg.EndSec
	return m, nil
}

func (m Model) handleResizeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	id, ok := m.sel.Current()
	if !ok {
		m.mode = ModeNormal
		return m, nil
	}

	switch msg.String() {
	case KeyEscape:
		// Revert the live values; the store was never touched.
		m.mode = ModeNormal
		m.rebuildRegions()
		return m, nil

	case KeyEnter:
		return m.commitResize(id)

	case KeyLeft:
		m.adjustLive(-resizeStepFine, 0)
	case KeyRight:
		m.adjustLive(resizeStepFine, 0)
	case "shift+left":
		m.adjustLive(-resizeStepCoarse, 0)
	case "shift+right":
		m.adjustLive(resizeStepCoarse, 0)
	case KeyDown:
		m.adjustLive(0, -resizeStepFine)
	case KeyUp:
		m.adjustLive(0, resizeStepFine)
	case "shift+down":
		m.adjustLive(0, -resizeStepCoarse)
	case "shift+up":
		m.adjustLive(0, resizeStepCoarse)
	default:
		return m, nil
	}

	// Live update: visual region and time cells only. No store writes, no
	// history, no network until the resize is committed.
	if c := m.currentChunk(); c != nil {
		wave.UpdateRegion(m.regions, id, m.resizeStart-c.StartTime, m.resizeEnd-c.StartTime)
	}
	return m, nil
}

// adjustLive nudges the uncommitted bounds, keeping start < end and both
// ends inside the chunk window.
func (m *Model) adjustLive(dStart, dEnd float64) {
	c := m.currentChunk()
	if c == nil {
		return
	}
	lo := c.StartTime
	hi := c.StartTime + m.duration

	if dStart != 0 {
		v := m.resizeStart + dStart
		if v < lo {
			v = lo
		}
		if v > m.resizeEnd-minSegmentSpan {
			v = m.resizeEnd - minSegmentSpan
		}
		m.resizeStart = v
	}
	if dEnd != 0 {
		v := m.resizeEnd + dEnd
		if v > hi {
			v = hi
		}
		if v < m.resizeStart+minSegmentSpan {
			v = m.resizeStart + minSegmentSpan
		}
		m.resizeEnd = v
	}
}

// commitResize ends the resize: inverse pushed with prior values, store
// updated, table refreshed, autosave fired. Unchanged bounds (full float
// equality for drag commits) are dropped from the patch.
func (m Model) commitResize(id int) (tea.Model, tea.Cmd) {
	m.mode = ModeNormal
	seg, _, ok := m.store.ByID(id)
	if !ok {
		return m, nil
	}

	var patch editor.FieldPatch
	if m.resizeStart != seg.StartSec {
		v := m.resizeStart
		patch.StartSec = &v
	}
	if m.resizeEnd != seg.EndSec {
		v := m.resizeEnd
		patch.EndSec = &v
	}
	if patch.IsEmpty() {
		m.rebuildRegions()
		return m, nil
	}
	return m.commitPatch(id, patch)
}

// deleteSelection applies the store's delete policy to the selected
// segment and advances the selection.
func (m Model) deleteSelection() (tea.Model, tea.Cmd) {
	id, ok := m.sel.Current()
	if !ok || m.savingAll {
		return m, nil
	}
	seg, idx, ok := m.store.ByID(id)
	if !ok {
		return m, nil
	}

	switch m.store.Policy() {
	case editor.DeleteDeferred:
		if seg.MarkedForDeletion {
			return m, nil // delete control is disabled for marked segments
		}
		m.store.MarkDeleted(id)
		m.coord.AddPending(id)
		m.history.Push(editor.Entry{Kind: editor.KindDelete, SegmentID: id})
		if next, ok := m.sel.NextUndeleted(m.store); ok {
			m.selectSegment(next)
		} else {
			m.rebuildRegions()
		}

	case editor.DeleteImmediate:
		removed, at, ok := m.store.Remove(id)
		if !ok {
			return m, nil
		}
		m.coord.AddPending(id)
		m.history.Push(editor.Entry{
			Kind:      editor.KindDelete,
			SegmentID: id,
			Removed:   &removed,
			Index:     at,
		})
		if m.store.Len() > 0 {
			if idx >= m.store.Len() {
				idx = m.store.Len() - 1
			}
			m.selectSegment(int(m.store.At(idx).ID))
		} else {
			m.sel.Clear()
			m.rebuildRegions()
		}
	}
	return m, nil
}

// undo pops the most recent entry and reverse-applies it. Entries whose
// segment has vanished are discarded without error; the undo control state
// is simply recomputed from the remaining stack.
func (m Model) undo() (tea.Model, tea.Cmd) {
	// While a save-all drain is in flight the pending set must not change
	// under it, so undo waits like the other mutating keys.
	if m.savingAll {
		return m, nil
	}
	entry, ok := m.history.Pop()
	if !ok {
		m.statusText = "nothing to undo"
		return m, nil
	}

	switch entry.Kind {
	case editor.KindEdit:
		if _, ok := m.store.UpdateFields(entry.SegmentID, entry.Prev); !ok {
			return m, nil // segment gone; entry discarded
		}
		m.coord.MarkUnsaved()
		m.selectSegment(entry.SegmentID)
		// The undo is itself persisted: re-issue the update with the
		// restored values rather than leaving the server ahead.
		m.saveState = SaveSaving
		return m, saveFieldCmd(m.client, entry.SegmentID, entry.Prev)

	case editor.KindDelete:
		if entry.Removed != nil {
			m.store.Restore(*entry.Removed, entry.Index)
			m.coord.RemovePending(entry.SegmentID)
			m.selectSegment(entry.SegmentID)
			return m, nil
		}
		if !m.store.UnmarkDeleted(entry.SegmentID) {
			return m, nil
		}
		m.coord.RemovePending(entry.SegmentID)
		m.selectSegment(entry.SegmentID)
		return m, nil
	}
	return m, nil
}

// finalizeDeletes completes a drain for the ids the backend confirmed:
// they leave the working set and their delete entries become unreversible.
func (m *Model) finalizeDeletes(deleted []int) {
	for _, id := range deleted {
		m.store.Remove(id)
	}
	m.history.PurgeDeletes(deleted)

	if _, ok := m.sel.Current(); !ok || m.sel.Index(m.store) < 0 {
		if m.store.Len() > 0 {
			m.selectSegment(int(m.store.At(0).ID))
			return
		}
		m.sel.Clear()
	}
	m.rebuildRegions()
}

// formatSec renders a global-timeline time the way the table shows it.
func formatSec(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// sameAt2Dec compares two times at the table's display precision.
func sameAt2Dec(a, b float64) bool {
	return math.Round(a*100) == math.Round(b*100)
}
