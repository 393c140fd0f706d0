package detection

import (
	"image"

	"github.com/ironsheep/xai-saliency-mcp/internal/imaging"
)

// DefaultWhiteThreshold is the per-component minimum a candidate centre pixel
// must reach to be considered tumour tissue.
const DefaultWhiteThreshold uint8 = 130

// Reducer narrows detector candidates down to at most one region.
type Reducer struct {
	threshold imaging.RGBColor
}

// NewReducer creates a Reducer that keeps candidates whose centre pixel has
// R, G and B all >= threshold.
func NewReducer(threshold uint8) *Reducer {
	return &Reducer{threshold: imaging.RGBColor{R: threshold, G: threshold, B: threshold}}
}

// Threshold returns the per-component brightness floor.
func (r *Reducer) Threshold() uint8 {
	return r.threshold.R
}

// Reduce picks the best tumour candidate.
//
// Candidates are first filtered to those whose centre pixel is bright on
// every channel. Of the survivors, the one with the whitest centre wins,
// comparing (R, G, B) lexicographically; on an exact tie the earlier
// candidate is kept. Centres outside the image are discarded.
//
// The result has zero or one element. Candidate coordinates are relative to
// img.Bounds().Min, matching CandidateDetector output.
func (r *Reducer) Reduce(candidates []CircleRegion, img image.Image) []CircleRegion {
	if len(candidates) == 0 || img == nil {
		return nil
	}
	origin := img.Bounds().Min

	var (
		best      CircleRegion
		bestColor imaging.RGBColor
		found     bool
	)
	for _, c := range candidates {
		col, err := imaging.RGBAt(img, origin.X+c.CenterX, origin.Y+c.CenterY)
		if err != nil {
			continue
		}
		if !col.AtLeast(r.threshold) {
			continue
		}
		if !found || col.Whiter(bestColor) {
			best, bestColor, found = c, col, true
		}
	}

	if !found {
		return nil
	}
	return []CircleRegion{best}
}

// Reduce applies the default Reducer.
func Reduce(candidates []CircleRegion, img image.Image) []CircleRegion {
	return NewReducer(DefaultWhiteThreshold).Reduce(candidates, img)
}
