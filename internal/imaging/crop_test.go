package imaging

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"path/filepath"
	"testing"
)

// quadrantImage paints the four quadrants red, green, blue and white.
func quadrantImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var c color.RGBA
			switch {
			case x < w/2 && y < h/2:
				c = color.RGBA{255, 0, 0, 255}
			case y < h/2:
				c = color.RGBA{0, 255, 0, 255}
			case x < w/2:
				c = color.RGBA{0, 0, 255, 255}
			default:
				c = color.RGBA{255, 255, 255, 255}
			}
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func decodeEncoded(t *testing.T, e *EncodedImage) image.Image {
	t.Helper()
	data, err := base64.StdEncoding.DecodeString(e.ImageBase64)
	if err != nil {
		t.Fatalf("invalid base64: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("invalid PNG: %v", err)
	}
	return img
}

func TestEncodePNG(t *testing.T) {
	e, err := EncodePNG(quadrantImage(20, 10))
	if err != nil {
		t.Fatalf("EncodePNG failed: %v", err)
	}
	if e.Width != 20 || e.Height != 10 || e.MimeType != "image/png" {
		t.Errorf("got %+v", e)
	}
	if b := decodeEncoded(t, e).Bounds(); b.Dx() != 20 || b.Dy() != 10 {
		t.Errorf("decoded bounds %v", b)
	}
}

func TestCropRect(t *testing.T) {
	img := quadrantImage(100, 100)

	e, err := CropRect(img, image.Rect(50, 50, 100, 100), 1)
	if err != nil {
		t.Fatalf("CropRect failed: %v", err)
	}
	if e.Width != 50 || e.Height != 50 {
		t.Errorf("size %dx%d, want 50x50", e.Width, e.Height)
	}
	r, g, b, _ := decodeEncoded(t, e).At(10, 10).RGBA()
	if r>>8 != 255 || g>>8 != 255 || b>>8 != 255 {
		t.Errorf("cropped quadrant is not white: %d,%d,%d", r>>8, g>>8, b>>8)
	}

	scaled, err := CropRect(img, image.Rect(0, 0, 50, 50), 2)
	if err != nil {
		t.Fatal(err)
	}
	if scaled.Width != 100 || scaled.Height != 100 {
		t.Errorf("scaled size %dx%d, want 100x100", scaled.Width, scaled.Height)
	}
}

func TestCropRectErrors(t *testing.T) {
	img := quadrantImage(40, 40)
	for _, rect := range []image.Rectangle{
		image.Rect(10, 10, 10, 20),
		image.Rect(-1, 0, 10, 10),
		image.Rect(30, 30, 41, 40),
	} {
		if _, err := CropRect(img, rect, 1); err == nil {
			t.Errorf("CropRect(%v) should fail", rect)
		}
	}
}

func TestSavePNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.png")
	if err := SavePNG(quadrantImage(8, 8), path); err != nil {
		t.Fatalf("SavePNG failed: %v", err)
	}
	img, err := Decode(path)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if img.Bounds().Dx() != 8 {
		t.Errorf("width %d, want 8", img.Bounds().Dx())
	}
}
