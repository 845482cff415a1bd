// Package wave projects segments onto the chunk-local waveform lane and
// brokers access to external audio tooling (ffmpeg for peaks, ffplay for
// playback). Regions are never authoritative; they are rebuilt from the
// segment store whenever it changes.
package wave

import "segedit/internal/editor"

// RegionKind selects a region's visual treatment.
type RegionKind int

const (
	KindNormal RegionKind = iota
	KindGap
	KindSelected
	KindDeleted
)

// Region is the visual projection of one segment in chunk-local seconds.
type Region struct {
	SegmentID int
	Start     float64
	End       float64
	Kind      RegionKind
}

// Project converts the working set to regions. Local coordinates are the
// segment's global times minus the chunk offset, clamped to
// [0, duration]; segments wholly outside the chunk window are omitted.
// Deletion treatment overrides selection, which overrides gap.
func Project(segs []editor.Segment, chunkStart, duration float64, selectedID int) []Region {
	var regions []Region
	for i := range segs {
		seg := &segs[i]
		start := seg.StartSec - chunkStart
		end := seg.EndSec - chunkStart
		if end < 0 || start > duration {
			continue
		}
		if start < 0 {
			start = 0
		}
		if end > duration {
			end = duration
		}

		kind := KindNormal
		if seg.IsGap() {
			kind = KindGap
		}
		if selectedID == int(seg.ID) {
			kind = KindSelected
		}
		if seg.MarkedForDeletion {
			kind = KindDeleted
		}

		regions = append(regions, Region{
			SegmentID: int(seg.ID),
			Start:     start,
			End:       end,
			Kind:      kind,
		})
	}
	return regions
}

// UpdateRegion rewrites one region's bounds in place. Used for live visual
// updates during an in-progress resize, before the store is committed.
func UpdateRegion(regions []Region, segmentID int, start, end float64) {
	for i := range regions {
		if regions[i].SegmentID == segmentID {
			regions[i].Start = start
			regions[i].End = end
			return
		}
	}
}
