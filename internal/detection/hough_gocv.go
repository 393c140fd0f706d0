//go:build gocv

package detection

import (
	"image"
	"math"

	"gocv.io/x/gocv"
)

// Backend names the circle transform implementation compiled in.
const Backend = "opencv"

// NewDetector returns the OpenCV-backed CandidateDetector.
func NewDetector(params HoughParams) CandidateDetector {
	if params.DP <= 0 {
		params.DP = 1
	}
	return &OpenCVDetector{params: params}
}

// OpenCVDetector runs cv::HoughCircles through gocv. It exists for parity
// checks against the pure Go HoughDetector and needs OpenCV 4 at build time.
type OpenCVDetector struct {
	params HoughParams
}

// Detect finds circles in img. Conversion failures yield no candidates.
func (d *OpenCVDetector) Detect(img image.Image) []CircleRegion {
	if img == nil || img.Bounds().Empty() {
		return nil
	}
	p := d.params

	rgb, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return nil
	}
	defer rgb.Close()

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(rgb, &gray, gocv.ColorBGRToGray)

	blurred := gocv.NewMat()
	defer blurred.Close()
	size := p.BlurSize
	if size%2 == 0 {
		size++
	}
	gocv.GaussianBlur(gray, &blurred, image.Point{X: size, Y: size}, p.BlurSigma, p.BlurSigma, gocv.BorderDefault)

	circles := gocv.NewMat()
	defer circles.Close()
	gocv.HoughCirclesWithParams(blurred, &circles, gocv.HoughGradient, p.DP, p.MinDist,
		p.CannyThreshold, float64(p.AccumulatorThreshold), p.MinRadius, p.MaxRadius)

	if circles.Empty() || circles.Cols() == 0 {
		return nil
	}

	regions := make([]CircleRegion, 0, circles.Cols())
	for i := 0; i < circles.Cols(); i++ {
		regions = append(regions, CircleRegion{
			CenterX: int(math.RoundToEven(float64(circles.GetFloatAt(0, i*3)))),
			CenterY: int(math.RoundToEven(float64(circles.GetFloatAt(0, i*3+1)))),
			Radius:  int(math.RoundToEven(float64(circles.GetFloatAt(0, i*3+2)))),
		})
	}
	return regions
}
