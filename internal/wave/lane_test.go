package wave

import "testing"

func TestColumnsFitAll(t *testing.T) {
	peaks := []float64{0.1, 0.9, 0.2, 0.5}
	regions := []Region{{SegmentID: 1, Start: 0, End: 50, Kind: KindSelected}}

	// 100s at 100 columns: zoom = 1 col/s, no scroll.
	cols := Columns(peaks, regions, 100, 100, 1, 0)
	if len(cols) != 100 {
		t.Fatalf("cols = %d, want 100", len(cols))
	}

	// Column 10 sits in the first region and in the first peak bucket.
	if !cols[10].InRegion || cols[10].Kind != KindSelected {
		t.Errorf("col 10 = %+v, want selected region", cols[10])
	}
	if cols[10].Amp != 0.1 {
		t.Errorf("col 10 amp = %v, want 0.1", cols[10].Amp)
	}

	// Column 75 is outside every region.
	if cols[75].InRegion {
		t.Errorf("col 75 should be outside regions")
	}

	// The region's end boundary falls on column 50.
	if !cols[50].Boundary {
		t.Error("col 50 should carry a boundary")
	}
}

func TestColumnsZoomAndScroll(t *testing.T) {
	regions := []Region{{SegmentID: 1, Start: 10, End: 12, Kind: KindNormal}}

	// zoom 250 cols/s, scroll 2250: the window shows [9, 13)s over 1000 cols.
	cols := Columns(nil, regions, 100, 1000, 250, 2250)

	// 11s (the segment midpoint) maps to column (11*250 - 2250) = 500.
	if !cols[500].InRegion {
		t.Error("col 500 should be inside the region")
	}
	// 9.5s maps to column 125, before the region starts.
	if cols[125].InRegion {
		t.Error("col 125 should be outside the region")
	}
}

func TestColumnsDegenerate(t *testing.T) {
	if cols := Columns(nil, nil, 0, 10, 1, 0); len(cols) != 10 {
		t.Errorf("zero duration should still yield width columns")
	}
	if cols := Columns(nil, nil, 100, 0, 1, 0); len(cols) != 0 {
		t.Errorf("zero width should yield no columns, got %d", len(cols))
	}
}

func TestGlyphRange(t *testing.T) {
	if Glyph(0) != ' ' {
		t.Errorf("glyph(0) = %q, want space", Glyph(0))
	}
	if Glyph(1) != '█' {
		t.Errorf("glyph(1) = %q, want full block", Glyph(1))
	}
	if Glyph(-1) != ' ' || Glyph(2) != '█' {
		t.Error("glyph should clamp out-of-range amplitudes")
	}
}
