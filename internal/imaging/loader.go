package imaging

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"os"
	"path/filepath"
	"sync"

	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/tiff" // Register TIFF format decoder
)

// ErrMalformedImage is returned when an image cannot be decoded or when an
// absent (nil) or empty image is handed to an analysis step.
var ErrMalformedImage = errors.New("malformed image")

// decoded is a cache entry: the image plus the format name its decoder
// registered under.
type decoded struct {
	img    image.Image
	format string
}

// ImageCache keeps decoded scans and explanation overlays keyed by path.
//
// The MCP server answers several tools about the same slice in a row
// (locate, highlight, analyse); the cache keeps each file decoded once.
// Cached images are shared and must be treated as read-only.
//
// ImageCache is safe for concurrent use by multiple goroutines.
//
// # Example Usage
//
//	cache := imaging.NewImageCache()
//	img, err := cache.Load("/data/Brats18_2013_2_1/jpg/output-087.jpg")
//	if err != nil {
//	    return err
//	}
//	cache.Evict("/data/Brats18_2013_2_1/jpg/output-087.jpg")
type ImageCache struct {
	mu      sync.RWMutex
	entries map[string]decoded
}

// NewImageCache creates an empty cache.
func NewImageCache() *ImageCache {
	return &ImageCache{entries: make(map[string]decoded)}
}

// Load returns the decoded image at path, reading it on first use.
//
// Supported formats are PNG, JPEG, GIF, BMP and TIFF. A file that exists but
// cannot be decoded is reported as ErrMalformedImage.
func (c *ImageCache) Load(path string) (image.Image, error) {
	e, err := c.entry(path)
	if err != nil {
		return nil, err
	}
	return e.img, nil
}

func (c *ImageCache) entry(path string) (decoded, error) {
	c.mu.RLock()
	e, ok := c.entries[path]
	c.mu.RUnlock()
	if ok {
		return e, nil
	}

	img, format, err := decodeFile(path)
	if err != nil {
		return decoded{}, err
	}
	e = decoded{img: img, format: format}

	c.mu.Lock()
	// A concurrent load of the same path may have won; keep the first copy
	// so every caller shares one image.
	if prev, ok := c.entries[path]; ok {
		e = prev
	} else {
		c.entries[path] = e
	}
	c.mu.Unlock()
	return e, nil
}

// Len returns the number of cached images.
func (c *ImageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Clear drops every cached image.
func (c *ImageCache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]decoded)
	c.mu.Unlock()
}

// Evict drops the image cached for path, if any.
func (c *ImageCache) Evict(path string) {
	c.mu.Lock()
	delete(c.entries, path)
	c.mu.Unlock()
}

// Decode reads and decodes a single image file without caching it.
func Decode(path string) (image.Image, error) {
	img, _, err := decodeFile(path)
	return img, err
}

func decodeFile(path string) (image.Image, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, "", fmt.Errorf("%w: failed to decode %s: %v", ErrMalformedImage, filepath.Base(path), err)
	}
	if err := Validate(img); err != nil {
		return nil, "", fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return img, format, nil
}

// Validate reports ErrMalformedImage for nil or zero-area images.
func Validate(img image.Image) error {
	if img == nil {
		return fmt.Errorf("%w: image is absent", ErrMalformedImage)
	}
	if img.Bounds().Empty() {
		return fmt.Errorf("%w: image has no pixels", ErrMalformedImage)
	}
	return nil
}

// Size is the width and height of an image in pixels.
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// ScanInfo describes an image file as the analysis pipeline sees it.
type ScanInfo struct {
	Size

	// Format is the name of the decoder that read the file ("png", "jpeg",
	// "gif", "bmp" or "tiff"), independent of the file extension.
	Format string `json:"format"`

	// ColorDepth is "8-bit" or "16-bit" per channel.
	ColorDepth string `json:"color_depth"`

	// HasAlpha reports whether pixels are read with four components.
	// Overlays saved with an alpha channel need it stripped before
	// classification.
	HasAlpha bool `json:"has_alpha"`

	// Neutral is true when every pixel has equal R, G and B: a raw slice
	// or a Grad-CAM heatmap rather than a coloured explanation overlay.
	Neutral bool `json:"neutral"`

	// AnalysisFrame is true when the image already has the
	// DefaultScanSize x DefaultScanSize shape the locator is tuned for.
	AnalysisFrame bool `json:"analysis_frame"`

	FileSizeBytes int64 `json:"file_size_bytes"`
}

// LoadScanInfo loads path through the cache and describes it.
func LoadScanInfo(cache *ImageCache, path string) (*ScanInfo, error) {
	e, err := cache.entry(path)
	if err != nil {
		return nil, err
	}
	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	colorDepth := "8-bit"
	switch e.img.(type) {
	case *image.RGBA64, *image.NRGBA64, *image.Gray16:
		colorDepth = "16-bit"
	}

	size := sizeOf(e.img)
	return &ScanInfo{
		Size:          size,
		Format:        e.format,
		ColorDepth:    colorDepth,
		HasAlpha:      HasAlpha(e.img),
		Neutral:       isNeutral(e.img),
		AnalysisFrame: size.Width == DefaultScanSize && size.Height == DefaultScanSize,
		FileSizeBytes: stat.Size(),
	}, nil
}

// Dimensions loads path through the cache and returns its size.
func Dimensions(cache *ImageCache, path string) (Size, error) {
	img, err := cache.Load(path)
	if err != nil {
		return Size{}, err
	}
	return sizeOf(img), nil
}

func sizeOf(img image.Image) Size {
	b := img.Bounds()
	return Size{Width: b.Dx(), Height: b.Dy()}
}

func isNeutral(img image.Image) bool {
	switch img.(type) {
	case *image.Gray, *image.Gray16:
		return true
	}
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := img.At(x, y).RGBA()
			if r != g || g != bl {
				return false
			}
		}
	}
	return true
}
