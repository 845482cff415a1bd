package editor

// MaxZoom is the magnification ceiling in pixels per second.
const MaxZoom = 500.0

// zoomTargetFraction is the share of the viewport a zoomed-to segment
// should occupy.
const zoomTargetFraction = 0.5

// ZoomResult is a zoom level and horizontal scroll offset, both in pixels.
type ZoomResult struct {
	Zoom   float64 // pixels per second
	Scroll float64 // pixels from the start of the chunk
}

// ZoomToSegment computes the zoom at which the segment occupies half the
// viewport, clamped between fit-the-whole-duration and MaxZoom, and a
// scroll offset centering the segment's temporal midpoint. Pure function of
// its arguments; the rendering layer applies the result.
func ZoomToSegment(startSec, endSec, totalDuration, viewportWidth float64) ZoomResult {
	if totalDuration <= 0 || viewportWidth <= 0 {
		return ZoomResult{}
	}

	fitAll := viewportWidth / totalDuration
	span := endSec - startSec

	zoom := MaxZoom
	if span > 0 {
		zoom = viewportWidth / (span / zoomTargetFraction)
	}
	if zoom < fitAll {
		zoom = fitAll
	}
	if zoom > MaxZoom {
		zoom = MaxZoom
	}

	mid := (startSec + endSec) / 2
	scroll := mid*zoom - viewportWidth/2

	maxScroll := zoom*totalDuration - viewportWidth
	if maxScroll < 0 {
		maxScroll = 0
	}
	if scroll < 0 {
		scroll = 0
	}
	if scroll > maxScroll {
		scroll = maxScroll
	}

	return ZoomResult{Zoom: zoom, Scroll: scroll}
}
