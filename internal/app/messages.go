package app

import "segedit/internal/api"

// ChunksLoadedMsg carries the chunk list and project info fetched at startup.
type ChunksLoadedMsg struct {
	Project string
	Chunks  []api.Chunk
}

// SegmentsLoadedMsg carries one chunk's segments.
type SegmentsLoadedMsg struct {
	ChunkID  int
	Segments []api.Segment
}

// LoadErrorMsg is sent when a chunk or segment fetch fails. The operation
// aborts; no partial state is committed.
type LoadErrorMsg struct {
	Err error
}

// AudioReadyMsg reports that a chunk's audio was downloaded locally.
type AudioReadyMsg struct {
	ChunkID int
	Path    string
}

// PeaksReadyMsg carries waveform peaks decoded from a chunk's audio.
type PeaksReadyMsg struct {
	ChunkID  int
	Peaks    []float64
	Duration float64
}

// SaveDoneMsg reports the outcome of one field save.
type SaveDoneMsg struct {
	SegmentID int
	Err       error
}

// SaveAllDoneMsg reports the outcome of draining the pending-deletion set.
type SaveAllDoneMsg struct {
	Deleted []int
	Err     error
}

// ClearSaveStatusMsg clears the transient "saved" indicator after a delay.
type ClearSaveStatusMsg struct{}
