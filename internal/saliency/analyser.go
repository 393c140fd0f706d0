package saliency

import (
	"errors"
	"fmt"
	"image"

	"github.com/ironsheep/xai-saliency-mcp/internal/detection"
	"github.com/ironsheep/xai-saliency-mcp/internal/imaging"
)

// ErrFrameMismatch is returned when an explanation does not share the
// coordinate frame of the scan it explains.
var ErrFrameMismatch = errors.New("explanation and scan dimensions differ")

// Analyser scores one explanation image against its original scan.
//
// All work happens in NewAnalyser; accessors only read the stored results.
type Analyser struct {
	method   Method
	location detection.Location
	whole    ConfusionCounts
	region   *ConfusionCounts
	scores   ScoreSet
}

// NewAnalyser locates the tumour in original, scans explanation over the
// whole image and over the tumour's bounding square, and scores the result.
// A nil locator uses detection defaults.
func NewAnalyser(original, explanation image.Image, m Method, loc *detection.Locator) (*Analyser, error) {
	if err := imaging.Validate(original); err != nil {
		return nil, fmt.Errorf("original image: %w", err)
	}
	if err := imaging.Validate(explanation); err != nil {
		return nil, fmt.Errorf("explanation image: %w", err)
	}
	ob, eb := original.Bounds(), explanation.Bounds()
	if ob.Dx() != eb.Dx() || ob.Dy() != eb.Dy() {
		return nil, fmt.Errorf("%w: scan %dx%d, explanation %dx%d",
			ErrFrameMismatch, ob.Dx(), ob.Dy(), eb.Dx(), eb.Dy())
	}
	if !m.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownMethod, int(m))
	}
	if loc == nil {
		loc = detection.NewLocator(nil, nil)
	}

	location, err := loc.Locate(original)
	if err != nil {
		return nil, err
	}
	return AnalyseLocated(location, explanation, m)
}

// AnalyseLocated scores explanation against a tumour location found
// earlier, so one scan can be located once and scored for several methods.
// The explanation must match the located scan's dimensions.
func AnalyseLocated(location detection.Location, explanation image.Image, m Method) (*Analyser, error) {
	if err := imaging.Validate(explanation); err != nil {
		return nil, fmt.Errorf("explanation image: %w", err)
	}
	eb := explanation.Bounds()
	if eb.Dx() != location.Width || eb.Dy() != location.Height {
		return nil, fmt.Errorf("%w: scan %dx%d, explanation %dx%d",
			ErrFrameMismatch, location.Width, location.Height, eb.Dx(), eb.Dy())
	}
	if !m.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownMethod, int(m))
	}

	whole, err := Scan(explanation, m)
	if err != nil {
		return nil, fmt.Errorf("scan explanation: %w", err)
	}

	a := &Analyser{method: m, location: location, whole: whole}
	if location.Found {
		xr, yr := location.PixelRanges()
		region, err := ScanRange(explanation, xr, yr, m)
		if err != nil {
			return nil, fmt.Errorf("scan tumour region: %w", err)
		}
		a.region = &region
	}
	a.scores = Score(a.whole, a.region)
	return a, nil
}

// Method returns the explanation method the analyser scored.
func (a *Analyser) Method() Method { return a.method }

// HasTumor reports whether a tumour region was located in the scan.
func (a *Analyser) HasTumor() bool { return a.location.Found }

// Location returns the tumour location in the scan.
func (a *Analyser) Location() detection.Location { return a.location }

// WholeCounts returns the confusion counts over the full explanation.
func (a *Analyser) WholeCounts() ConfusionCounts { return a.whole }

// RegionCounts returns the counts inside the tumour region, or false when
// no tumour was located.
func (a *Analyser) RegionCounts() (ConfusionCounts, bool) {
	if a.region == nil {
		return ConfusionCounts{}, false
	}
	return *a.region, true
}

func (a *Analyser) Scores() ScoreSet   { return a.scores }
func (a *Analyser) Precision() float64 { return a.scores.Precision }
func (a *Analyser) Recall() float64    { return a.scores.Recall }
func (a *Analyser) Accuracy() float64  { return a.scores.Accuracy }
func (a *Analyser) F1() float64        { return a.scores.F1 }

// Results returns a multi-line human readable summary.
func (a *Analyser) Results() string {
	return fmt.Sprintf("Method: %s\n%s\n%s", a.method.DisplayName(), a.location, a.scores.Summary())
}
