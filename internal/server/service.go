// Package server implements the segment editor backend: a CSV-backed
// segment service, an append-only edit journal, and the HTTP API consumed
// by the TUI.
package server

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"segedit/internal/api"
)

// csvTable is a CSV file held in memory with its original column order, so
// columns this service does not understand survive a rewrite untouched.
type csvTable struct {
	header []string
	rows   [][]string
	col    map[string]int
}

func readTable(path string) (*csvTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s: missing header row", path)
	}

	t := &csvTable{header: records[0], rows: records[1:], col: make(map[string]int)}
	for i, name := range t.header {
		t.col[name] = i
	}
	return t, nil
}

func (t *csvTable) get(row []string, name string) string {
	i, ok := t.col[name]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}

func (t *csvTable) set(row []string, name, value string) {
	if i, ok := t.col[name]; ok && i < len(row) {
		row[i] = value
	}
}

func (t *csvTable) getFloat(row []string, name string) float64 {
	v, _ := strconv.ParseFloat(t.get(row, name), 64)
	return v
}

func (t *csvTable) getInt(row []string, name string) int {
	v, _ := strconv.ParseFloat(t.get(row, name), 64)
	return int(v)
}

// Service manages a project's segments.csv and chunks_metadata.csv.
type Service struct {
	projectPath  string
	segmentsPath string
	chunksPath   string
	backupDir    string

	mu       sync.Mutex
	segments *csvTable
	chunks   []api.Chunk
}

// OpenProject opens a project directory. The segments file must exist; the
// chunk metadata is required for audio lookup but loaded lazily.
func OpenProject(projectPath string) (*Service, error) {
	s := &Service{
		projectPath:  projectPath,
		segmentsPath: filepath.Join(projectPath, "transcriptions", "segments.csv"),
		chunksPath:   filepath.Join(projectPath, "chunks", "chunks_metadata.csv"),
		backupDir:    filepath.Join(projectPath, "transcriptions", "backups"),
	}
	if _, err := os.Stat(s.segmentsPath); err != nil {
		return nil, fmt.Errorf("project %s: %w", filepath.Base(projectPath), err)
	}
	return s, nil
}

// ProjectName returns the project directory name.
func (s *Service) ProjectName() string { return filepath.Base(s.projectPath) }

// ProjectPath returns the project directory.
func (s *Service) ProjectPath() string { return s.projectPath }

func (s *Service) loadSegmentsLocked(force bool) error {
	if s.segments != nil && !force {
		return nil
	}
	t, err := readTable(s.segmentsPath)
	if err != nil {
		return err
	}
	s.segments = t
	return nil
}

func (s *Service) loadChunksLocked() error {
	if s.chunks != nil {
		return nil
	}
	t, err := readTable(s.chunksPath)
	if err != nil {
		return err
	}
	chunks := make([]api.Chunk, 0, len(t.rows))
	for _, row := range t.rows {
		chunks = append(chunks, api.Chunk{
			ID:        t.getInt(row, "Chunk ID"),
			FilePath:  t.get(row, "File Path"),
			StartTime: t.getFloat(row, "Start Time (s)"),
			EndTime:   t.getFloat(row, "End Time (s)"),
		})
	}
	s.chunks = chunks
	return nil
}

func (s *Service) segmentFromRow(row []string) api.Segment {
	t := s.segments
	return api.Segment{
		ID:       api.SegmentID(t.getInt(row, "segment_id")),
		ChunkID:  t.getInt(row, "chunk_id"),
		StartSec: t.getFloat(row, "start_sec"),
		EndSec:   t.getFloat(row, "end_sec"),
		Text:     t.get(row, "text"),
		Language: t.get(row, "language"),
		GapType:  t.get(row, "gap_type"),
		Speaker:  t.get(row, "speaker"),
	}
}

func (s *Service) findRowLocked(segmentID int) int {
	for i, row := range s.segments.rows {
		if s.segments.getInt(row, "segment_id") == segmentID {
			return i
		}
	}
	return -1
}

// AllChunks returns all chunk metadata in file order.
func (s *Service) AllChunks() ([]api.Chunk, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.loadChunksLocked(); err != nil {
		return nil, err
	}
	out := make([]api.Chunk, len(s.chunks))
	copy(out, s.chunks)
	return out, nil
}

// Chunk returns one chunk by id.
func (s *Service) Chunk(chunkID int) (api.Chunk, bool, error) {
	chunks, err := s.AllChunks()
	if err != nil {
		return api.Chunk{}, false, err
	}
	for _, c := range chunks {
		if c.ID == chunkID {
			return c, true, nil
		}
	}
	return api.Chunk{}, false, nil
}

// ChunkFilePath returns the audio file path for a chunk.
func (s *Service) ChunkFilePath(chunkID int) (string, bool, error) {
	c, ok, err := s.Chunk(chunkID)
	if err != nil || !ok {
		return "", ok, err
	}
	return c.FilePath, true, nil
}

// AllSegments returns every segment in file order.
func (s *Service) AllSegments() ([]api.Segment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.loadSegmentsLocked(false); err != nil {
		return nil, err
	}
	out := make([]api.Segment, 0, len(s.segments.rows))
	for _, row := range s.segments.rows {
		out = append(out, s.segmentFromRow(row))
	}
	return out, nil
}

// SegmentsByChunk returns the segments belonging to one chunk.
func (s *Service) SegmentsByChunk(chunkID int) ([]api.Segment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.loadSegmentsLocked(false); err != nil {
		return nil, err
	}
	var out []api.Segment
	for _, row := range s.segments.rows {
		if s.segments.getInt(row, "chunk_id") == chunkID {
			out = append(out, s.segmentFromRow(row))
		}
	}
	return out, nil
}

// Segment returns one segment by id.
func (s *Service) Segment(segmentID int) (api.Segment, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.loadSegmentsLocked(false); err != nil {
		return api.Segment{}, false, err
	}
	i := s.findRowLocked(segmentID)
	if i < 0 {
		return api.Segment{}, false, nil
	}
	return s.segmentFromRow(s.segments.rows[i]), true, nil
}

// UpdateSegment applies a partial update and persists the file. Returns
// the updated segment, or ok=false when the id is unknown.
func (s *Service) UpdateSegment(segmentID int, upd api.SegmentUpdate) (api.Segment, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	// Reload to pick up external edits before writing.
	if err := s.loadSegmentsLocked(true); err != nil {
		return api.Segment{}, false, err
	}
	i := s.findRowLocked(segmentID)
	if i < 0 {
		return api.Segment{}, false, nil
	}

	row := s.segments.rows[i]
	if upd.StartSec != nil {
		s.segments.set(row, "start_sec", formatFloat(*upd.StartSec))
	}
	if upd.EndSec != nil {
		s.segments.set(row, "end_sec", formatFloat(*upd.EndSec))
	}
	if upd.Text != nil {
		s.segments.set(row, "text", *upd.Text)
	}

	if err := s.saveWithBackupLocked(); err != nil {
		return api.Segment{}, false, err
	}
	return s.segmentFromRow(row), true, nil
}

// DeleteSegment removes a segment row and persists the file.
func (s *Service) DeleteSegment(segmentID int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.loadSegmentsLocked(true); err != nil {
		return false, err
	}
	i := s.findRowLocked(segmentID)
	if i < 0 {
		return false, nil
	}
	s.segments.rows = append(s.segments.rows[:i], s.segments.rows[i+1:]...)
	if err := s.saveWithBackupLocked(); err != nil {
		return false, err
	}
	return true, nil
}

// saveWithBackupLocked copies the current file to a timestamped backup,
// then writes the new contents via a temp file and atomic rename.
func (s *Service) saveWithBackupLocked() error {
	if err := os.MkdirAll(s.backupDir, 0o755); err != nil {
		return fmt.Errorf("create backup dir: %w", err)
	}
	stamp := time.Now().Format("20060102_150405")
	backup := filepath.Join(s.backupDir, "segments_"+stamp+".csv")
	if err := copyFile(s.segmentsPath, backup); err != nil {
		return fmt.Errorf("backup segments: %w", err)
	}

	tmp := s.segmentsPath + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	w := csv.NewWriter(f)
	if err := w.Write(s.segments.header); err != nil {
		f.Close()
		return fmt.Errorf("write header: %w", err)
	}
	if err := w.WriteAll(s.segments.rows); err != nil {
		f.Close()
		return fmt.Errorf("write rows: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("flush csv: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp, s.segmentsPath); err != nil {
		return fmt.Errorf("replace segments file: %w", err)
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
