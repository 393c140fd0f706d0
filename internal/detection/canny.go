package detection

import (
	"image"
	"math"
)

// gradientField holds the Sobel responses of a grayscale image together with
// the binary Canny edge map derived from them. All slices are row-major with
// width*height entries.
type gradientField struct {
	width, height int
	dx, dy        []float64
	edges         []bool
}

// at returns the index of (x, y) in the field slices.
func (g *gradientField) at(x, y int) int {
	return y*g.width + x
}

// cannyEdges runs Canny edge detection on an already smoothed image.
//
// The steps are:
//
//  1. Sobel 3x3 derivatives with replicated borders.
//  2. L1 gradient magnitude |dx| + |dy|.
//  3. Non-maximum suppression along the quantised gradient direction.
//  4. Hysteresis: pixels above high seed edges, pixels above low are kept
//     only when 8-connected to a seed.
//
// Thresholds are on the raw 8-bit Sobel scale, so high=100 means a
// magnitude of 100 summed over the 3x3 kernel.
func cannyEdges(gray *image.Gray, low, high float64) *gradientField {
	bounds := gray.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	g := &gradientField{
		width:  w,
		height: h,
		dx:     make([]float64, w*h),
		dy:     make([]float64, w*h),
		edges:  make([]bool, w*h),
	}
	if w < 3 || h < 3 {
		return g
	}

	pix := func(x, y int) float64 {
		x = clampInt(x, 0, w-1)
		y = clampInt(y, 0, h-1)
		return float64(gray.Pix[y*gray.Stride+x])
	}

	mag := make([]float64, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			gx := -pix(x-1, y-1) + pix(x+1, y-1) -
				2*pix(x-1, y) + 2*pix(x+1, y) -
				pix(x-1, y+1) + pix(x+1, y+1)
			gy := -pix(x-1, y-1) - 2*pix(x, y-1) - pix(x+1, y-1) +
				pix(x-1, y+1) + 2*pix(x, y+1) + pix(x+1, y+1)
			i := g.at(x, y)
			g.dx[i] = gx
			g.dy[i] = gy
			mag[i] = math.Abs(gx) + math.Abs(gy)
		}
	}

	// Non-maximum suppression. Border pixels never become edges.
	const (
		tan22 = 0.41421356237 // tan(22.5°)
		tan67 = 2.41421356237 // tan(67.5°)
	)
	candidate := make([]bool, w*h)
	strong := make([]bool, w*h)
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			i := g.at(x, y)
			m := mag[i]
			if m <= low {
				continue
			}

			ax, ay := math.Abs(g.dx[i]), math.Abs(g.dy[i])
			var before, after float64
			switch {
			case ay <= ax*tan22:
				// Horizontal gradient: compare left and right.
				before, after = mag[i-1], mag[i+1]
			case ay >= ax*tan67:
				// Vertical gradient: compare up and down.
				before, after = mag[i-w], mag[i+w]
			case (g.dx[i] > 0) == (g.dy[i] > 0):
				before, after = mag[i-w-1], mag[i+w+1]
			default:
				before, after = mag[i-w+1], mag[i+w-1]
			}

			if m > before && m >= after {
				candidate[i] = true
				if m > high {
					strong[i] = true
				}
			}
		}
	}

	// Hysteresis with an explicit stack, 8-connectivity.
	stack := make([]int, 0, 256)
	for i, s := range strong {
		if s {
			g.edges[i] = true
			stack = append(stack, i)
		}
	}
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		x, y := i%w, i/w
		for ny := y - 1; ny <= y+1; ny++ {
			for nx := x - 1; nx <= x+1; nx++ {
				if nx < 0 || ny < 0 || nx >= w || ny >= h {
					continue
				}
				j := g.at(nx, ny)
				if candidate[j] && !g.edges[j] {
					g.edges[j] = true
					stack = append(stack, j)
				}
			}
		}
	}

	return g
}

// image returns the edge map as white edges on black.
func (g *gradientField) image() *image.Gray {
	out := image.NewGray(image.Rect(0, 0, g.width, g.height))
	for i, e := range g.edges {
		if e {
			out.Pix[i] = 255
		}
	}
	return out
}
