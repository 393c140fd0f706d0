package imaging

import (
	"image"
	"math"

	"github.com/anthonynsimon/bild/convolution"
	"github.com/anthonynsimon/bild/effect"
)

// Grayscale converts an image to single-channel luminance using ITU-R BT.601
// weights (0.299*R + 0.587*G + 0.114*B). The result is re-based at (0, 0).
func Grayscale(img image.Image) *image.Gray {
	return rgbaToGray(effect.GrayscaleWithWeights(img, 0.299, 0.587, 0.114))
}

// GaussianBlur smooths an image with a separable size x size Gaussian kernel
// and returns the luminance of the result, re-based at (0, 0).
//
// A non-positive sigma is derived from the kernel size as
// 0.3*((size-1)*0.5 - 1) + 0.8. Border pixels use replicated edge values.
// Each pass rounds to the nearest level, so flat areas keep their value.
func GaussianBlur(img image.Image, size int, sigma float64) *image.Gray {
	if size < 1 {
		size = 1
	}
	if size%2 == 0 {
		size++
	}
	if sigma <= 0 {
		sigma = 0.3*((float64(size)-1)*0.5-1) + 0.8
	}

	k := convolution.NewKernel(size, 1)
	half := size / 2
	for i := 0; i < size; i++ {
		x := float64(i - half)
		k.Matrix[i] = math.Exp(-(x * x) / (2 * sigma * sigma))
	}
	normK := k.Normalized()

	// Convolve truncates each pass to uint8; the bias turns that into rounding.
	opts := convolution.Options{Bias: 0.5, Wrap: false, KeepAlpha: true}
	result := convolution.Convolve(img, normK, &opts)
	result = convolution.Convolve(result, normK.Transposed(), &opts)

	return rgbaToGray(result)
}

// rgbaToGray copies the red channel of an RGBA image whose channels are
// already equal into a Gray image with origin (0, 0).
func rgbaToGray(src *image.RGBA) *image.Gray {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	dst := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dst.Pix[y*dst.Stride+x] = src.Pix[y*src.Stride+x*4]
		}
	}
	return dst
}
