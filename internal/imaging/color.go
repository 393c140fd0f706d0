package imaging

import (
	"fmt"
	"image"
	"image/color"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// RGBColor represents an RGB color with 8-bit components.
type RGBColor struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
}

// Components returns the color as a three-component slice.
func (c RGBColor) Components() []uint8 {
	return []uint8{c.R, c.G, c.B}
}

// Hex returns the color in "#RRGGBB" form.
func (c RGBColor) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// AtLeast reports whether every component is >= the matching component of t.
func (c RGBColor) AtLeast(t RGBColor) bool {
	return c.R >= t.R && c.G >= t.G && c.B >= t.B
}

// Whiter reports whether c compares strictly greater than o, comparing R,
// then G, then B.
func (c RGBColor) Whiter(o RGBColor) bool {
	if c.R != o.R {
		return c.R > o.R
	}
	if c.G != o.G {
		return c.G > o.G
	}
	return c.B > o.B
}

// RGBAColor represents an RGBA color with 8-bit components including alpha.
type RGBAColor struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
	A uint8 `json:"a"` // Alpha/opacity component (0-255)
}

// HSLColor represents a color in HSL (Hue, Saturation, Lightness) color space.
type HSLColor struct {
	H int `json:"h"` // Hue: 0-360 degrees
	S int `json:"s"` // Saturation: 0-100 percent
	L int `json:"l"` // Lightness: 0-100 percent
}

// ColorResult contains a color value in multiple representations.
type ColorResult struct {
	Hex  string    `json:"hex"`  // Hex format "#RRGGBB" (no alpha)
	RGB  RGBColor  `json:"rgb"`  // RGB components
	RGBA RGBAColor `json:"rgba"` // RGBA components with alpha
	HSL  HSLColor  `json:"hsl"`  // HSL representation
}

// HasAlpha reports whether the image's pixels are read with an alpha component.
func HasAlpha(img image.Image) bool {
	switch img.(type) {
	case *image.RGBA, *image.NRGBA, *image.RGBA64, *image.NRGBA64:
		return true
	}
	return false
}

// PixelComponents returns the un-premultiplied 8-bit components of the
// pixel at (x, y): R, G, B for opaque color models and R, G, B, A when the
// image carries an alpha channel.
//
// No bounds checking is performed; caller must ensure coordinates are valid.
func PixelComponents(img image.Image, x, y int) []uint8 {
	c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
	if HasAlpha(img) {
		return []uint8{c.R, c.G, c.B, c.A}
	}
	return []uint8{c.R, c.G, c.B}
}

// StripAlpha returns the first three components of a four-component pixel.
// Three-component input is returned unchanged.
func StripAlpha(components []uint8) []uint8 {
	if len(components) == 4 {
		return components[:3]
	}
	return components
}

// RGBAt returns the RGB color at (x, y), ignoring alpha.
func RGBAt(img image.Image, x, y int) (RGBColor, error) {
	if !(image.Point{X: x, Y: y}).In(img.Bounds()) {
		return RGBColor{}, fmt.Errorf("coordinates (%d,%d) outside image bounds", x, y)
	}
	c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
	return RGBColor{R: c.R, G: c.G, B: c.B}, nil
}

// SampleColor extracts the color value at a specific pixel coordinate.
//
// Returns an error if coordinates are outside the image bounds. The Hex
// format excludes alpha; use RGBA.A to get transparency information.
func SampleColor(img image.Image, x, y int) (*ColorResult, error) {
	if !(image.Point{X: x, Y: y}).In(img.Bounds()) {
		return nil, fmt.Errorf("coordinates (%d,%d) outside image bounds", x, y)
	}

	c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
	rgb := RGBColor{R: c.R, G: c.G, B: c.B}

	cf, _ := colorful.MakeColor(color.NRGBA{R: c.R, G: c.G, B: c.B, A: 255})
	h, s, l := cf.Hsl()

	return &ColorResult{
		Hex:  rgb.Hex(),
		RGB:  rgb,
		RGBA: RGBAColor{R: c.R, G: c.G, B: c.B, A: c.A},
		HSL:  HSLColor{H: int(h), S: int(s * 100), L: int(l * 100)},
	}, nil
}
