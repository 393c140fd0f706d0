//go:build !gocv

package detection

// Backend names the circle transform implementation compiled in.
const Backend = "go"

// NewDetector returns the default CandidateDetector for this build.
func NewDetector(params HoughParams) CandidateDetector {
	return NewHoughDetector(params)
}
