package detection

import (
	"image"
	"math"
	"sort"

	"github.com/ironsheep/xai-saliency-mcp/internal/imaging"
)

// CandidateDetector finds candidate circular regions in an image.
//
// Implementations must be deterministic: the same image always yields the
// same candidates in the same order. An image without circles yields an
// empty slice, never an error.
type CandidateDetector interface {
	Detect(img image.Image) []CircleRegion
}

// HoughParams configures the gradient Hough circle transform.
type HoughParams struct {
	// DP is the inverse ratio of accumulator resolution to image resolution.
	DP float64 `yaml:"dp" json:"dp"`

	// MinDist is the minimum distance in pixels between accepted centres.
	MinDist float64 `yaml:"min_dist" json:"min_dist"`

	// CannyThreshold is the upper Canny threshold; the lower one is half.
	CannyThreshold float64 `yaml:"canny_threshold" json:"canny_threshold"`

	// AccumulatorThreshold is the vote count a centre must exceed.
	AccumulatorThreshold int `yaml:"accumulator_threshold" json:"accumulator_threshold"`

	MinRadius int `yaml:"min_radius" json:"min_radius"`
	MaxRadius int `yaml:"max_radius" json:"max_radius"`

	// BlurSize and BlurSigma describe the Gaussian pre-filter.
	BlurSize  int     `yaml:"blur_size" json:"blur_size"`
	BlurSigma float64 `yaml:"blur_sigma" json:"blur_sigma"`
}

// DefaultHoughParams returns the parameters tuned for 240x240 MRI slices.
func DefaultHoughParams() HoughParams {
	return HoughParams{
		DP:                   1.5,
		MinDist:              20,
		CannyThreshold:       100,
		AccumulatorThreshold: 30,
		MinRadius:            35,
		MaxRadius:            60,
		BlurSize:             9,
		BlurSigma:            2,
	}
}

// HoughDetector is a pure Go gradient Hough circle detector.
type HoughDetector struct {
	params HoughParams
}

// NewHoughDetector creates a detector. Zero or negative DP falls back to 1.
func NewHoughDetector(params HoughParams) *HoughDetector {
	if params.DP <= 0 {
		params.DP = 1
	}
	if params.MinRadius < 0 {
		params.MinRadius = 0
	}
	return &HoughDetector{params: params}
}

// Params returns the detector configuration.
func (d *HoughDetector) Params() HoughParams {
	return d.params
}

// Detect finds circles in img.
//
// # Algorithm (gradient Hough transform)
//
//  1. Grayscale (BT.601) and Gaussian blur.
//  2. Canny edges with thresholds CannyThreshold/2 and CannyThreshold.
//  3. Every edge pixel votes along its gradient line, in both directions,
//     for radii in [MinRadius, MaxRadius]. The accumulator is DP times
//     coarser than the image; cell c covers pixels [(c-0.5)*DP, (c+0.5)*DP)
//     and maps back to the centre c*DP.
//  4. Cells above AccumulatorThreshold that are local maxima become centre
//     candidates, strongest first.
//  5. Centres closer than MinDist to an accepted one are skipped.
//  6. Edge distances from the centre are binned in runs no wider than DP;
//     the densest run (support per unit radius) gives the radius, and the
//     circle is accepted if that run has more than AccumulatorThreshold
//     pixels.
//
// Returned centres and radii are rounded half to even. Coordinates are
// relative to img.Bounds().Min.
func (d *HoughDetector) Detect(img image.Image) []CircleRegion {
	if img == nil || img.Bounds().Empty() {
		return nil
	}
	p := d.params

	gray := imaging.Grayscale(img)
	blurred := imaging.GaussianBlur(gray, p.BlurSize, p.BlurSigma)
	field := cannyEdges(blurred, p.CannyThreshold/2, p.CannyThreshold)

	acc, points := d.vote(field)
	centres := acc.peaks(p.AccumulatorThreshold)
	return d.fitRadii(centres, points, field.width, field.height)
}

// EdgeMap returns the Canny edges Detect votes from, white on black, with
// the origin at (0, 0).
func (d *HoughDetector) EdgeMap(img image.Image) *image.Gray {
	if img == nil || img.Bounds().Empty() {
		return image.NewGray(image.Rect(0, 0, 0, 0))
	}
	p := d.params
	blurred := imaging.GaussianBlur(imaging.Grayscale(img), p.BlurSize, p.BlurSigma)
	return cannyEdges(blurred, p.CannyThreshold/2, p.CannyThreshold).image()
}

type edgePoint struct {
	x, y float64
}

// accumulator is a vote grid with a one-cell border on every side so that
// peak detection never needs bounds checks.
type accumulator struct {
	cols, rows int // interior size
	votes      []int
}

func newAccumulator(cols, rows int) *accumulator {
	return &accumulator{cols: cols, rows: rows, votes: make([]int, (cols+2)*(rows+2))}
}

func (a *accumulator) index(cx, cy int) int {
	return (cy+1)*(a.cols+2) + cx + 1
}

// vote casts votes for every edge pixel and returns the accumulator plus the
// list of edge points used for radius estimation.
func (d *HoughDetector) vote(field *gradientField) (*accumulator, []edgePoint) {
	p := d.params
	idp := 1 / p.DP
	acc := newAccumulator(int(math.Ceil(float64(field.width)*idp)), int(math.Ceil(float64(field.height)*idp)))

	var points []edgePoint
	for y := 0; y < field.height; y++ {
		for x := 0; x < field.width; x++ {
			i := field.at(x, y)
			if !field.edges[i] {
				continue
			}
			vx, vy := field.dx[i], field.dy[i]
			mag := math.Hypot(vx, vy)
			if mag == 0 {
				continue
			}
			points = append(points, edgePoint{x: float64(x), y: float64(y)})

			sx, sy := vx*idp/mag, vy*idp/mag
			x0, y0 := float64(x)*idp, float64(y)*idp
			for dir := 0; dir < 2; dir++ {
				ax := x0 + float64(p.MinRadius)*sx
				ay := y0 + float64(p.MinRadius)*sy
				for r := p.MinRadius; r <= p.MaxRadius; r++ {
					cx, cy := int(math.Floor(ax+0.5)), int(math.Floor(ay+0.5))
					if cx < 0 || cy < 0 || cx >= acc.cols || cy >= acc.rows {
						break
					}
					acc.votes[acc.index(cx, cy)]++
					ax += sx
					ay += sy
				}
				sx, sy = -sx, -sy
			}
		}
	}
	return acc, points
}

type centreCell struct {
	cx, cy int
	votes  int
}

// peaks returns cells above threshold that beat their left and upper
// neighbours strictly and their right and lower neighbours or tie them.
// The result is sorted by votes descending, scan order on ties.
func (a *accumulator) peaks(threshold int) []centreCell {
	var out []centreCell
	stride := a.cols + 2
	for cy := 0; cy < a.rows; cy++ {
		for cx := 0; cx < a.cols; cx++ {
			i := a.index(cx, cy)
			v := a.votes[i]
			if v > threshold &&
				v > a.votes[i-1] && v >= a.votes[i+1] &&
				v > a.votes[i-stride] && v >= a.votes[i+stride] {
				out = append(out, centreCell{cx: cx, cy: cy, votes: v})
			}
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].votes > out[j].votes
	})
	return out
}

func (d *HoughDetector) fitRadii(centres []centreCell, points []edgePoint, width, height int) []CircleRegion {
	p := d.params
	minDist := math.Max(p.MinDist, p.DP)
	minDist2 := minDist * minDist
	maxRadius := float64(p.MaxRadius)
	if p.MaxRadius <= 0 {
		maxRadius = float64(max(width, height))
	}
	minR2 := float64(p.MinRadius * p.MinRadius)
	maxR2 := maxRadius * maxRadius

	type fitted struct {
		x, y, r float64
	}
	var accepted []fitted
	dists := make([]float64, 0, len(points))

	for _, c := range centres {
		cx := float64(c.cx) * p.DP
		cy := float64(c.cy) * p.DP

		tooClose := false
		for _, a := range accepted {
			if (cx-a.x)*(cx-a.x)+(cy-a.y)*(cy-a.y) < minDist2 {
				tooClose = true
				break
			}
		}
		if tooClose {
			continue
		}

		dists = dists[:0]
		for _, pt := range points {
			dx, dy := pt.x-cx, pt.y-cy
			d2 := dx*dx + dy*dy
			if d2 >= minR2 && d2 <= maxR2 {
				dists = append(dists, math.Sqrt(d2))
			}
		}
		if len(dists) == 0 {
			continue
		}
		sort.Float64s(dists)

		r, support := densestRun(dists, p.DP)
		if support > p.AccumulatorThreshold {
			accepted = append(accepted, fitted{x: cx, y: cy, r: r})
		}
	}

	regions := make([]CircleRegion, 0, len(accepted))
	for _, a := range accepted {
		regions = append(regions, CircleRegion{
			CenterX: int(math.RoundToEven(a.x)),
			CenterY: int(math.RoundToEven(a.y)),
			Radius:  int(math.RoundToEven(a.r)),
		})
	}
	return regions
}

// densestRun splits sorted distances into runs whose spread does not exceed
// width and returns the median distance and size of the run with the most
// members per unit radius. Earlier runs win ties.
func densestRun(sorted []float64, width float64) (radius float64, support int) {
	start := 0
	for j := 1; j <= len(sorted); j++ {
		if j < len(sorted) && sorted[j]-sorted[start] <= width {
			continue
		}
		count := j - start
		median := sorted[(start+j-1)/2]
		if support == 0 || float64(count)*radius > float64(support)*median {
			radius = median
			support = count
		}
		start = j
	}
	return radius, support
}
