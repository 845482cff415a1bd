// Package api provides the wire types and HTTP client for the segment
// editor backend.
package api

import (
	"fmt"
	"strconv"
	"strings"
)

// SegmentID is a globally unique segment identifier. Backends have been
// observed emitting ids both as JSON numbers and as quoted strings, so it
// normalizes either form to an int at the wire boundary.
type SegmentID int

// UnmarshalJSON accepts 42, "42", and 42.0.
func (id *SegmentID) UnmarshalJSON(data []byte) error {
	s := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if s == "" || s == "null" {
		*id = 0
		return nil
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("parse segment id %q: %w", s, err)
	}
	*id = SegmentID(int(n))
	return nil
}

// Chunk is a fixed contiguous slice of the source recording with its own
// audio file and timeline offset. Immutable once fetched.
type Chunk struct {
	ID        int     `json:"chunk_id"`
	FilePath  string  `json:"file_path"`
	StartTime float64 `json:"start_time"`
	EndTime   float64 `json:"end_time"`
}

// Segment is a time-bounded span within the full recording. Times are
// global-timeline seconds, not chunk-relative.
type Segment struct {
	ID       SegmentID `json:"segment_id"`
	ChunkID  int       `json:"chunk_id"`
	StartSec float64   `json:"start_sec"`
	EndSec   float64   `json:"end_sec"`
	Text     string    `json:"text"`
	Language string    `json:"language,omitempty"`
	GapType  string    `json:"gap_type,omitempty"`
	Speaker  string    `json:"speaker,omitempty"`
}

// IsGap reports whether the segment marks a non-speech gap.
func (s Segment) IsGap() bool { return s.GapType != "" }

// SegmentUpdate is a partial update; nil fields are left untouched.
type SegmentUpdate struct {
	StartSec *float64 `json:"start_sec,omitempty"`
	EndSec   *float64 `json:"end_sec,omitempty"`
	Text     *string  `json:"text,omitempty"`
}

// IsEmpty reports whether the update carries no fields.
func (u SegmentUpdate) IsEmpty() bool {
	return u.StartSec == nil && u.EndSec == nil && u.Text == nil
}

// ProjectInfo describes the project being edited.
type ProjectInfo struct {
	Name        string  `json:"name"`
	Path        string  `json:"path,omitempty"`
	DurationSec float64 `json:"duration_sec,omitempty"`
}

// ProjectList is the envelope returned by GET /api/projects.
type ProjectList struct {
	Projects []ProjectInfo `json:"projects"`
	Total    int           `json:"total"`
}

// ChunkList is the envelope returned by GET /api/chunks.
type ChunkList struct {
	Chunks []Chunk `json:"chunks"`
	Total  int     `json:"total"`
}

// SegmentList is the envelope returned by GET /api/segments.
type SegmentList struct {
	Segments []Segment `json:"segments"`
	Total    int       `json:"total"`
}

// UpdateResult is the envelope returned by PUT /api/segments/{id}.
type UpdateResult struct {
	Success bool    `json:"success"`
	Segment Segment `json:"segment"`
}

// DeleteResult is the envelope returned by DELETE /api/segments/{id}.
type DeleteResult struct {
	Success   bool      `json:"success"`
	DeletedID SegmentID `json:"deleted_segment_id"`
}

// Float64Ptr returns a pointer to a float64 value. Convenience for building updates.
func Float64Ptr(f float64) *float64 { return &f }

// StringPtr returns a pointer to a string value. Convenience for building updates.
func StringPtr(s string) *string { return &s }
