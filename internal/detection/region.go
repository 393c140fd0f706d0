package detection

import (
	"fmt"
	"image"
)

// CircleRegion is a circular area of interest in pixel coordinates.
//
// Regions are produced by a CandidateDetector, filtered by the Reduce step
// and finally exposed by the Locator. Any region returned by a detector has
// Radius > 0.
type CircleRegion struct {
	CenterX int `json:"center_x"`
	CenterY int `json:"center_y"`
	Radius  int `json:"radius"`
}

// Bounds returns the unclamped square enclosing the circle, with an
// exclusive bottom-right corner at center+radius.
func (c CircleRegion) Bounds() image.Rectangle {
	return image.Rect(c.CenterX-c.Radius, c.CenterY-c.Radius, c.CenterX+c.Radius, c.CenterY+c.Radius)
}

func (c CircleRegion) String() string {
	return fmt.Sprintf("(%d, %d, r=%d)", c.CenterX, c.CenterY, c.Radius)
}

// PixelRange is a closed-open interval [Start, End) of pixel coordinates on
// one axis. Start <= End is the common case but is not enforced; an
// inverted range covers no pixels.
type PixelRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns the number of pixels covered by the range.
func (r PixelRange) Len() int {
	if r.End <= r.Start {
		return 0
	}
	return r.End - r.Start
}

// Clamp limits both endpoints to [lo, hi].
func (r PixelRange) Clamp(lo, hi int) PixelRange {
	return PixelRange{Start: clampInt(r.Start, lo, hi), End: clampInt(r.End, lo, hi)}
}

func (r PixelRange) String() string {
	return fmt.Sprintf("Start Pixel: %d, End Pixel: %d", r.Start, r.End)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
