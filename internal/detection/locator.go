package detection

import (
	"fmt"
	"image"

	"github.com/ironsheep/xai-saliency-mcp/internal/imaging"
)

// Location is the outcome of locating a tumour in one scan.
//
// Found is false when no candidate survived reduction; Region is then the
// zero value and PixelRanges must not be called.
type Location struct {
	Found  bool         `json:"found"`
	Region CircleRegion `json:"region"`
	Width  int          `json:"width"`
	Height int          `json:"height"`
}

// PixelRanges returns the horizontal and vertical scan ranges covering the
// region's bounding square, clamped to [0, Width] and [0, Height]. Both are
// half-open, so every covered pixel is inside the image.
//
// It panics if no region was found.
func (l Location) PixelRanges() (x, y PixelRange) {
	if !l.Found {
		panic("detection: PixelRanges called on an empty location")
	}
	r := l.Region
	x = PixelRange{Start: r.CenterX - r.Radius, End: r.CenterX + r.Radius}.Clamp(0, l.Width)
	y = PixelRange{Start: r.CenterY - r.Radius, End: r.CenterY + r.Radius}.Clamp(0, l.Height)
	return x, y
}

func (l Location) String() string {
	if !l.Found {
		return "no tumour region"
	}
	return "tumour region " + l.Region.String()
}

// Locator finds the single most likely tumour region in a scan using only
// geometric and colour cues.
//
// A Locator holds no per-image state and is safe for concurrent use.
type Locator struct {
	detector CandidateDetector
	reducer  *Reducer
}

// NewLocator creates a Locator. Nil arguments select NewDetector with
// DefaultHoughParams and a Reducer with DefaultWhiteThreshold.
func NewLocator(detector CandidateDetector, reducer *Reducer) *Locator {
	if detector == nil {
		detector = NewDetector(DefaultHoughParams())
	}
	if reducer == nil {
		reducer = NewReducer(DefaultWhiteThreshold)
	}
	return &Locator{detector: detector, reducer: reducer}
}

// Candidates returns the unreduced detector output for img.
func (l *Locator) Candidates(img image.Image) ([]CircleRegion, error) {
	if err := imaging.Validate(img); err != nil {
		return nil, err
	}
	return l.detector.Detect(img), nil
}

// Locate detects candidate circles in img and reduces them to at most one
// region. Not finding a tumour is not an error.
func (l *Locator) Locate(img image.Image) (Location, error) {
	loc, _, err := l.LocateWithCandidates(img)
	return loc, err
}

// LocateWithCandidates is Locate that also returns the unreduced candidates
// it reduced. The detector runs once.
func (l *Locator) LocateWithCandidates(img image.Image) (Location, []CircleRegion, error) {
	candidates, err := l.Candidates(img)
	if err != nil {
		return Location{}, nil, fmt.Errorf("locate tumour: %w", err)
	}

	bounds := img.Bounds()
	loc := Location{Width: bounds.Dx(), Height: bounds.Dy()}
	if reduced := l.reducer.Reduce(candidates, img); len(reduced) > 0 {
		loc.Found = true
		loc.Region = reduced[0]
	}
	return loc, candidates, nil
}

// HasTumor reports whether Locate finds a region in img.
func (l *Locator) HasTumor(img image.Image) (bool, error) {
	loc, err := l.Locate(img)
	if err != nil {
		return false, err
	}
	return loc.Found, nil
}
