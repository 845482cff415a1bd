package wave

// Column is one terminal cell of the waveform lane: the peak amplitude in
// its time slice, the kind of the region covering it, and whether a region
// boundary falls on it. Pure data; the app layer applies styling.
type Column struct {
	Amp      float64
	Kind     RegionKind
	InRegion bool
	Boundary bool
}

// Columns maps the visible window onto width terminal columns. zoom is
// columns per second and scroll the left edge in columns, mirroring the
// pixel-based convention of the zoom math.
func Columns(peaks []float64, regions []Region, duration float64, width int, zoom, scroll float64) []Column {
	cols := make([]Column, width)
	if width <= 0 || zoom <= 0 || duration <= 0 {
		return cols
	}

	for c := 0; c < width; c++ {
		t0 := (scroll + float64(c)) / zoom
		t1 := (scroll + float64(c) + 1) / zoom
		if t0 >= duration {
			break
		}

		cols[c].Amp = windowPeak(peaks, duration, t0, t1)

		mid := (t0 + t1) / 2
		for _, r := range regions {
			if mid >= r.Start && mid < r.End {
				cols[c].InRegion = true
				cols[c].Kind = r.Kind
			}
			if (r.Start >= t0 && r.Start < t1) || (r.End >= t0 && r.End < t1) {
				cols[c].Boundary = true
			}
		}
	}
	return cols
}

// windowPeak returns the maximum bucket amplitude within [t0, t1).
func windowPeak(peaks []float64, duration, t0, t1 float64) float64 {
	if len(peaks) == 0 {
		return 0
	}
	perBucket := duration / float64(len(peaks))
	lo := int(t0 / perBucket)
	hi := int(t1 / perBucket)
	if lo < 0 {
		lo = 0
	}
	if hi >= len(peaks) {
		hi = len(peaks) - 1
	}
	var peak float64
	for i := lo; i <= hi && i < len(peaks); i++ {
		if peaks[i] > peak {
			peak = peaks[i]
		}
	}
	return peak
}

var blockGlyphs = []rune(" ▁▂▃▄▅▆▇█")

// Glyph maps an amplitude in [0, 1] to a block glyph.
func Glyph(amp float64) rune {
	if amp < 0 {
		amp = 0
	}
	if amp > 1 {
		amp = 1
	}
	idx := int(amp * float64(len(blockGlyphs)-1))
	return blockGlyphs[idx]
}
