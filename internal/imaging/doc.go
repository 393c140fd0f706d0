// Package imaging provides the image plumbing shared by the tumour locator
// and the saliency scoring engine.
//
// This package loads scans and explanation overlays from disk, exposes
// per-pixel colour access in the component layout the classifier expects,
// prepares raw MRI slices into the fixed 240x240 analysis frame and renders
// the located tumour region onto a copy of a scan.
// All operations work with standard Go image.Image types and use a coordinate
// system where (0,0) is at the top-left corner, X increases rightward, and Y
// increases downward.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - For regions, (x1,y1) is inclusive (top-left), (x2,y2) is exclusive (bottom-right)
//
// # Pixel Components
//
// PixelComponents returns three components (R, G, B) for opaque colour
// models and four (R, G, B, A) for images that carry an alpha channel.
// Components are un-premultiplied 8-bit values. Callers that need a plain
// RGB triple must strip the alpha component explicitly; the saliency
// classifier rejects four-component input.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. Individual image operations
// are stateless and can be called concurrently on different images. None of
// the functions in this package mutate their input images.
//
// # Error Handling
//
// Images that cannot be decoded, nil images and zero-area images are
// reported as ErrMalformedImage. Out-of-bounds coordinates are reported as
// plain errors.
package imaging
