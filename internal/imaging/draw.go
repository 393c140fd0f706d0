package imaging

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// DefaultHighlightColor is the outline color used for located regions.
const DefaultHighlightColor = "#FF0000"

// DefaultHighlightThickness is the outline width in pixels.
const DefaultHighlightThickness = 4

// ParseHexColor parses "#RRGGBB" (or "#RGB") into an opaque color.
func ParseHexColor(hex string) (color.NRGBA, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid color %q: %w", hex, err)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}, nil
}

// HighlightRegion returns a copy of img with a circle outline of the given
// center and radius drawn on it. The input image is never modified.
//
// Parameters:
//   - cx, cy, radius: circle in image coordinates.
//   - hexColor: outline color ("#RRGGBB"); empty means DefaultHighlightColor.
//   - thickness: outline width in pixels; values < 1 mean DefaultHighlightThickness.
func HighlightRegion(img image.Image, cx, cy, radius int, hexColor string, thickness int) (*image.NRGBA, error) {
	if err := Validate(img); err != nil {
		return nil, err
	}
	if hexColor == "" {
		hexColor = DefaultHighlightColor
	}
	if thickness < 1 {
		thickness = DefaultHighlightThickness
	}
	line, err := ParseHexColor(hexColor)
	if err != nil {
		return nil, err
	}

	// Clone re-bases the copy at (0, 0).
	origin := img.Bounds().Min
	out := imaging.Clone(img)
	cx -= origin.X
	cy -= origin.Y

	half := float64(thickness) / 2
	reach := radius + thickness
	area := image.Rect(cx-reach, cy-reach, cx+reach+1, cy+reach+1).Intersect(out.Bounds())

	for y := area.Min.Y; y < area.Max.Y; y++ {
		for x := area.Min.X; x < area.Max.X; x++ {
			dx := float64(x - cx)
			dy := float64(y - cy)
			if math.Abs(math.Hypot(dx, dy)-float64(radius)) <= half {
				out.SetNRGBA(x, y, line)
			}
		}
	}

	return out, nil
}
