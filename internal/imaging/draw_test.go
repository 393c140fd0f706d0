package imaging

import (
	"image"
	"image/color"
	"testing"
)

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.NRGBA
	}{
		{"#FF0000", color.NRGBA{R: 255, A: 255}},
		{"#00ff7f", color.NRGBA{G: 255, B: 127, A: 255}},
		{"#FFF", color.NRGBA{R: 255, G: 255, B: 255, A: 255}},
	}
	for _, tt := range tests {
		got, err := ParseHexColor(tt.in)
		if err != nil {
			t.Fatalf("ParseHexColor(%q) failed: %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseHexColor(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if _, err := ParseHexColor("red"); err == nil {
		t.Error("expected error for a named color")
	}
}

func TestHighlightRegion(t *testing.T) {
	src := uniformNRGBA(image.Rect(0, 0, 100, 100), color.NRGBA{A: 255})
	out, err := HighlightRegion(src, 50, 50, 20, "#00FF00", 2)
	if err != nil {
		t.Fatalf("HighlightRegion failed: %v", err)
	}

	green := color.NRGBA{G: 255, A: 255}
	if got := out.NRGBAAt(70, 50); got != green {
		t.Errorf("rim pixel = %v, want green", got)
	}
	if got := out.NRGBAAt(50, 30); got != green {
		t.Errorf("top rim pixel = %v, want green", got)
	}
	if got := out.NRGBAAt(50, 50); got == green {
		t.Error("centre should not be drawn")
	}
	if got := src.NRGBAAt(70, 50); got == green {
		t.Error("input image was modified")
	}
}

func TestHighlightRegionOffsetAndDefaults(t *testing.T) {
	src := uniformNRGBA(image.Rect(10, 10, 110, 110), color.NRGBA{A: 255})
	out, err := HighlightRegion(src, 60, 60, 20, "", 0)
	if err != nil {
		t.Fatalf("HighlightRegion failed: %v", err)
	}
	if out.Bounds().Min != (image.Point{}) {
		t.Fatalf("output not re-based: %v", out.Bounds())
	}
	// Circle centre (60, 60) in source coordinates is (50, 50) in the output.
	if got := out.NRGBAAt(70, 50); got != (color.NRGBA{R: 255, A: 255}) {
		t.Errorf("rim pixel = %v, want default red", got)
	}
}

func TestHighlightRegionErrors(t *testing.T) {
	if _, err := HighlightRegion(nil, 1, 1, 1, "", 1); err == nil {
		t.Error("expected error for nil image")
	}
	src := uniformNRGBA(image.Rect(0, 0, 10, 10), color.NRGBA{A: 255})
	if _, err := HighlightRegion(src, 5, 5, 3, "#GGGGGG", 1); err == nil {
		t.Error("expected error for invalid color")
	}
}
