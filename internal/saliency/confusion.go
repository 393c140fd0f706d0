package saliency

import (
	"fmt"
	"image"

	"github.com/ironsheep/xai-saliency-mcp/internal/detection"
	"github.com/ironsheep/xai-saliency-mcp/internal/imaging"
)

// ConfusionCounts tallies classified pixels over one scan rectangle.
//
// Total is the rectangle's pixel count and includes neutral pixels, so
// Positive + Negative <= Total.
type ConfusionCounts struct {
	Positive int `json:"positive"`
	Negative int `json:"negative"`
	Total    int `json:"total"`
}

// Neutral returns the number of pixels that were neither positive nor
// negative.
func (c ConfusionCounts) Neutral() int {
	return c.Total - c.Positive - c.Negative
}

func (c ConfusionCounts) String() string {
	return fmt.Sprintf("positive=%d negative=%d total=%d", c.Positive, c.Negative, c.Total)
}

// Scan classifies every pixel of img.
func Scan(img image.Image, m Method) (ConfusionCounts, error) {
	if err := imaging.Validate(img); err != nil {
		return ConfusionCounts{}, err
	}
	b := img.Bounds()
	return ScanRange(img,
		detection.PixelRange{Start: 0, End: b.Dx()},
		detection.PixelRange{Start: 0, End: b.Dy()},
		m)
}

// ScanRange classifies the pixels in [xr.Start, xr.End) x [yr.Start, yr.End).
//
// Ranges are relative to img.Bounds().Min and are intersected with the
// image, so no pixel outside it is read. Alpha is dropped from 4-component
// pixels before classification.
func ScanRange(img image.Image, xr, yr detection.PixelRange, m Method) (ConfusionCounts, error) {
	if err := imaging.Validate(img); err != nil {
		return ConfusionCounts{}, err
	}
	if !m.Valid() {
		return ConfusionCounts{}, fmt.Errorf("%w: %d", ErrUnknownMethod, int(m))
	}

	b := img.Bounds()
	xr = xr.Clamp(0, b.Dx())
	yr = yr.Clamp(0, b.Dy())

	counts := ConfusionCounts{Total: xr.Len() * yr.Len()}
	for y := yr.Start; y < yr.End; y++ {
		for x := xr.Start; x < xr.End; x++ {
			px := imaging.StripAlpha(imaging.PixelComponents(img, b.Min.X+x, b.Min.Y+y))
			class, err := Classify(px, m)
			if err != nil {
				return ConfusionCounts{}, fmt.Errorf("pixel (%d,%d): %w", x, y, err)
			}
			switch class {
			case Positive:
				counts.Positive++
			case Negative:
				counts.Negative++
			}
		}
	}
	return counts, nil
}
