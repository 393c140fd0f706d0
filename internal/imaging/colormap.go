package imaging

import (
	"fmt"
	"image"
	"image/color"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// viridisStops are evenly spaced anchor colors of the viridis colormap.
var viridisStops = []string{"#440154", "#3B528B", "#21918C", "#5EC962", "#FDE725"}

// viridisLUT maps an 8-bit intensity to its viridis color.
var viridisLUT = buildViridisLUT()

func buildViridisLUT() [256]colorful.Color {
	stops := make([]colorful.Color, len(viridisStops))
	for i, hex := range viridisStops {
		c, err := colorful.Hex(hex)
		if err != nil {
			panic(err)
		}
		stops[i] = c
	}

	var lut [256]colorful.Color
	segments := float64(len(stops) - 1)
	for v := 0; v < 256; v++ {
		pos := float64(v) / 255 * segments
		i := int(pos)
		if i >= len(stops)-1 {
			lut[v] = stops[len(stops)-1]
			continue
		}
		lut[v] = stops[i].BlendRgb(stops[i+1], pos-float64(i))
	}
	return lut
}

// Viridis returns the viridis colormap color for an intensity in [0, 255].
func Viridis(v uint8) color.NRGBA {
	r, g, b := viridisLUT[v].Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}
}

// RenderHeatmapOverlay colorizes a heatmap with the viridis colormap and
// blends it over target: out = alpha*target + (1-alpha)*viridis(heat).
//
// The heatmap's luminance is used as intensity. Both images must have the
// same dimensions. The result has no alpha channel semantics (A = 255).
func RenderHeatmapOverlay(target, heatmap image.Image, alpha float64) (*image.NRGBA, error) {
	if err := Validate(target); err != nil {
		return nil, err
	}
	if err := Validate(heatmap); err != nil {
		return nil, err
	}
	tb, hb := target.Bounds(), heatmap.Bounds()
	if tb.Dx() != hb.Dx() || tb.Dy() != hb.Dy() {
		return nil, fmt.Errorf("heatmap %dx%d does not match target %dx%d", hb.Dx(), hb.Dy(), tb.Dx(), tb.Dy())
	}
	if alpha < 0 {
		alpha = 0
	}
	if alpha > 1 {
		alpha = 1
	}

	heat := Grayscale(heatmap)
	out := image.NewNRGBA(image.Rect(0, 0, tb.Dx(), tb.Dy()))
	for y := 0; y < tb.Dy(); y++ {
		for x := 0; x < tb.Dx(); x++ {
			t := color.NRGBAModel.Convert(target.At(tb.Min.X+x, tb.Min.Y+y)).(color.NRGBA)
			h := Viridis(heat.GrayAt(x, y).Y)
			out.SetNRGBA(x, y, color.NRGBA{
				R: blendChannel(t.R, h.R, alpha),
				G: blendChannel(t.G, h.G, alpha),
				B: blendChannel(t.B, h.B, alpha),
				A: 255,
			})
		}
	}
	return out, nil
}

func blendChannel(a, b uint8, alpha float64) uint8 {
	v := alpha*float64(a) + (1-alpha)*float64(b) + 0.5
	if v > 255 {
		return 255
	}
	return uint8(v)
}
