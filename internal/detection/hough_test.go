package detection

import (
	"image"
	"image/color"
	"testing"
)

// solidImage returns a w x h RGBA image filled with c.
func solidImage(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

// diskImage returns a 240x240 dark scan with a filled bright disk.
func diskImage(cx, cy, radius int, fill color.RGBA) *image.RGBA {
	img := solidImage(240, 240, color.RGBA{R: 20, G: 20, B: 20, A: 255})
	for y := 0; y < 240; y++ {
		for x := 0; x < 240; x++ {
			dx, dy := x-cx, y-cy
			if dx*dx+dy*dy <= radius*radius {
				img.SetRGBA(x, y, fill)
			}
		}
	}
	return img
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func TestDefaultHoughParams(t *testing.T) {
	p := DefaultHoughParams()
	if p.DP != 1.5 || p.MinDist != 20 || p.CannyThreshold != 100 || p.AccumulatorThreshold != 30 {
		t.Errorf("unexpected transform parameters: %+v", p)
	}
	if p.MinRadius != 35 || p.MaxRadius != 60 {
		t.Errorf("radius window = [%d, %d], want [35, 60]", p.MinRadius, p.MaxRadius)
	}
	if p.BlurSize != 9 || p.BlurSigma != 2 {
		t.Errorf("blur = %dx%d sigma %v, want 9x9 sigma 2", p.BlurSize, p.BlurSize, p.BlurSigma)
	}
}

func TestNewHoughDetectorFixesDP(t *testing.T) {
	d := NewHoughDetector(HoughParams{DP: 0, MinRadius: -3})
	if d.Params().DP != 1 {
		t.Errorf("DP = %v, want 1", d.Params().DP)
	}
	if d.Params().MinRadius != 0 {
		t.Errorf("MinRadius = %d, want 0", d.Params().MinRadius)
	}
}

func TestHoughDetectUniformGray(t *testing.T) {
	d := NewHoughDetector(DefaultHoughParams())
	img := solidImage(240, 240, color.RGBA{R: 100, G: 100, B: 100, A: 255})

	if got := d.Detect(img); len(got) != 0 {
		t.Errorf("Detect() on uniform gray = %v, want none", got)
	}
}

func TestHoughDetectNil(t *testing.T) {
	d := NewHoughDetector(DefaultHoughParams())
	if got := d.Detect(nil); len(got) != 0 {
		t.Errorf("Detect(nil) = %v, want none", got)
	}
}

func TestHoughDetectDisk(t *testing.T) {
	d := NewHoughDetector(DefaultHoughParams())
	img := diskImage(120, 120, 40, color.RGBA{R: 200, G: 200, B: 200, A: 255})

	got := d.Detect(img)
	if len(got) != 1 {
		t.Fatalf("Detect() returned %d circles, want 1: %v", len(got), got)
	}
	c := got[0]
	if abs(c.CenterX-120) > 3 || abs(c.CenterY-120) > 3 {
		t.Errorf("centre = (%d, %d), want within 3px of (120, 120)", c.CenterX, c.CenterY)
	}
	if c.Radius < 36 || c.Radius > 44 {
		t.Errorf("radius = %d, want 36..44", c.Radius)
	}
}

func TestHoughDetectCentreUnbiased(t *testing.T) {
	d := NewHoughDetector(DefaultHoughParams())
	tests := []CircleRegion{
		{CenterX: 120, CenterY: 120, Radius: 40},
		{CenterX: 100, CenterY: 130, Radius: 45},
		{CenterX: 118, CenterY: 123, Radius: 42},
	}
	for _, want := range tests {
		img := diskImage(want.CenterX, want.CenterY, want.Radius, color.RGBA{R: 200, G: 200, B: 200, A: 255})
		got := d.Detect(img)
		if len(got) != 1 {
			t.Errorf("%v: Detect() returned %v, want one circle", want, got)
			continue
		}
		if got[0] != want {
			t.Errorf("Detect() = %v, want %v", got[0], want)
		}
	}
}

func TestHoughDetectDeterministic(t *testing.T) {
	d := NewHoughDetector(DefaultHoughParams())
	img := diskImage(100, 130, 45, color.RGBA{R: 220, G: 220, B: 220, A: 255})

	first := d.Detect(img)
	for i := 0; i < 3; i++ {
		again := d.Detect(img)
		if len(again) != len(first) {
			t.Fatalf("run %d: %d circles, first run had %d", i, len(again), len(first))
		}
		for j := range first {
			if again[j] != first[j] {
				t.Errorf("run %d: circle %d = %v, want %v", i, j, again[j], first[j])
			}
		}
	}
}

func TestHoughDetectIgnoresSmallDisk(t *testing.T) {
	d := NewHoughDetector(DefaultHoughParams())
	img := diskImage(120, 120, 10, color.RGBA{R: 200, G: 200, B: 200, A: 255})

	if got := d.Detect(img); len(got) != 0 {
		t.Errorf("Detect() = %v, want none for a radius below MinRadius", got)
	}
}

func TestDensestRun(t *testing.T) {
	tests := []struct {
		name        string
		dists       []float64
		width       float64
		wantRadius  float64
		wantSupport int
	}{
		{"single", []float64{40}, 1.5, 40, 1},
		{"one run", []float64{39.5, 40, 40.2, 40.8}, 1.5, 40, 4},
		{"denser second run", []float64{36, 50, 50.1, 50.2, 50.3}, 1.5, 50.1, 4},
		{"tie keeps earlier", []float64{40, 40.5, 60, 60.5}, 1, 40, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, n := densestRun(tt.dists, tt.width)
			if r != tt.wantRadius || n != tt.wantSupport {
				t.Errorf("densestRun = (%v, %d), want (%v, %d)", r, n, tt.wantRadius, tt.wantSupport)
			}
		})
	}
}

func TestEdgeMap(t *testing.T) {
	d := NewHoughDetector(DefaultHoughParams())

	edges := d.EdgeMap(diskImage(120, 120, 40, color.RGBA{R: 240, G: 240, B: 240, A: 255}))
	if b := edges.Bounds(); b.Dx() != 240 || b.Dy() != 240 {
		t.Fatalf("bounds = %v", b)
	}
	if edges.GrayAt(120, 120).Y != 0 {
		t.Error("centre of the disk should not be an edge")
	}
	onRing := 0
	for x := 75; x <= 85; x++ {
		if edges.GrayAt(x, 120).Y == 255 {
			onRing++
		}
	}
	if onRing == 0 {
		t.Error("expected an edge near the left rim of the disk")
	}

	flat := d.EdgeMap(solidImage(50, 50, color.RGBA{R: 90, G: 90, B: 90, A: 255}))
	for _, v := range flat.Pix {
		if v != 0 {
			t.Fatal("uniform image produced edges")
		}
	}

	if empty := d.EdgeMap(nil); !empty.Bounds().Empty() {
		t.Errorf("nil image gave bounds %v", empty.Bounds())
	}
}
