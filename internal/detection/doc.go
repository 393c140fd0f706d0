// Package detection locates the tumour region in a brain MRI slice.
//
// Detection is a two stage pipeline:
//
//  1. A CandidateDetector proposes circular regions. The default is
//     HoughDetector, a pure Go gradient Hough circle transform; building with
//     the gocv tag swaps in an OpenCV backend with the same parameters.
//  2. A Reducer keeps candidates whose centre pixel is bright on every
//     channel and picks the one with the whitest centre.
//
// Locator ties the two together and reports the result as a Location whose
// PixelRanges feed the saliency scoring stage.
//
// # Coordinate System
//
// All coordinates use the standard image convention:
//   - Origin (0, 0) at top-left corner
//   - X increases rightward
//   - Y increases downward
//
// Regions are expressed relative to the image's Bounds().Min.
//
// # Thread Safety
//
// HoughDetector, Reducer and Locator carry only configuration and may be
// shared between goroutines.
package detection
