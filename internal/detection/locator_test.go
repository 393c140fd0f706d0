package detection

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/ironsheep/xai-saliency-mcp/internal/imaging"
)

// fixedDetector returns the same candidates for every image.
type fixedDetector []CircleRegion

func (f fixedDetector) Detect(image.Image) []CircleRegion {
	return append([]CircleRegion(nil), f...)
}

func TestLocateNilImage(t *testing.T) {
	_, err := NewLocator(nil, nil).Locate(nil)
	if !errors.Is(err, imaging.ErrMalformedImage) {
		t.Errorf("Locate(nil) error = %v, want ErrMalformedImage", err)
	}
	if _, err := NewLocator(nil, nil).HasTumor(image.NewRGBA(image.Rectangle{})); !errors.Is(err, imaging.ErrMalformedImage) {
		t.Errorf("HasTumor(empty) error = %v, want ErrMalformedImage", err)
	}
}

func TestLocateUniformGray(t *testing.T) {
	img := solidImage(240, 240, color.RGBA{R: 128, G: 128, B: 128, A: 255})
	loc, err := NewLocator(nil, nil).Locate(img)
	if err != nil {
		t.Fatalf("Locate failed: %v", err)
	}
	if loc.Found {
		t.Errorf("Locate() found %v on a uniform image", loc.Region)
	}
	if loc.Width != 240 || loc.Height != 240 {
		t.Errorf("size = %dx%d, want 240x240", loc.Width, loc.Height)
	}
}

func TestLocateDisk(t *testing.T) {
	img := diskImage(120, 120, 40, color.RGBA{R: 200, G: 200, B: 200, A: 255})
	l := NewLocator(NewHoughDetector(DefaultHoughParams()), nil)

	has, err := l.HasTumor(img)
	if err != nil {
		t.Fatalf("HasTumor failed: %v", err)
	}
	if !has {
		t.Fatal("HasTumor() = false, want true")
	}

	loc, _ := l.Locate(img)
	xr, yr := loc.PixelRanges()
	for _, r := range []PixelRange{xr, yr} {
		if abs(r.Start-80) > 6 || abs(r.End-160) > 6 {
			t.Errorf("range %v, want about [80, 160)", r)
		}
	}
}

func TestLocateDarkDiskRejected(t *testing.T) {
	img := diskImage(120, 120, 40, color.RGBA{R: 120, G: 120, B: 120, A: 255})
	l := NewLocator(NewHoughDetector(DefaultHoughParams()), nil)

	cands, err := l.Candidates(img)
	if err != nil {
		t.Fatalf("Candidates failed: %v", err)
	}
	if len(cands) == 0 {
		t.Fatal("expected the detector to propose the disk")
	}
	if has, _ := l.HasTumor(img); has {
		t.Error("HasTumor() = true for a disk darker than the threshold")
	}
}

func TestPixelRangesClamped(t *testing.T) {
	tests := []struct {
		name   string
		region CircleRegion
		wantX  PixelRange
		wantY  PixelRange
	}{
		{"interior", CircleRegion{CenterX: 120, CenterY: 120, Radius: 40}, PixelRange{80, 160}, PixelRange{80, 160}},
		{"top left", CircleRegion{CenterX: 10, CenterY: 20, Radius: 40}, PixelRange{0, 50}, PixelRange{0, 60}},
		{"bottom right", CircleRegion{CenterX: 230, CenterY: 200, Radius: 40}, PixelRange{190, 240}, PixelRange{160, 240}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := solidImage(240, 240, color.RGBA{R: 255, G: 255, B: 255, A: 255})
			loc, err := NewLocator(fixedDetector{tt.region}, nil).Locate(img)
			if err != nil {
				t.Fatalf("Locate failed: %v", err)
			}
			xr, yr := loc.PixelRanges()
			if xr != tt.wantX || yr != tt.wantY {
				t.Errorf("PixelRanges() = %v, %v; want %v, %v", xr, yr, tt.wantX, tt.wantY)
			}
		})
	}
}

func TestPixelRangesPanicsWhenEmpty(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("PixelRanges on an empty location did not panic")
		}
	}()
	Location{}.PixelRanges()
}

func TestLocationString(t *testing.T) {
	if got := (Location{}).String(); got != "no tumour region" {
		t.Errorf("String() = %q", got)
	}
	loc := Location{Found: true, Region: CircleRegion{CenterX: 1, CenterY: 2, Radius: 3}}
	if got := loc.String(); got != "tumour region (1, 2, r=3)" {
		t.Errorf("String() = %q", got)
	}
}

// countingDetector records how often Detect runs.
type countingDetector struct {
	fixedDetector
	calls int
}

func (c *countingDetector) Detect(img image.Image) []CircleRegion {
	c.calls++
	return c.fixedDetector.Detect(img)
}

func TestLocateWithCandidatesDetectsOnce(t *testing.T) {
	img := solidImage(240, 240, color.RGBA{R: 40, G: 40, B: 40, A: 255})
	img.Set(60, 60, color.RGBA{R: 220, G: 220, B: 220, A: 255})
	det := &countingDetector{fixedDetector: fixedDetector{
		{CenterX: 30, CenterY: 30, Radius: 40},
		{CenterX: 60, CenterY: 60, Radius: 45},
	}}
	l := NewLocator(det, nil)

	loc, candidates, err := l.LocateWithCandidates(img)
	if err != nil {
		t.Fatalf("LocateWithCandidates failed: %v", err)
	}
	if det.calls != 1 {
		t.Errorf("detector ran %d times, want 1", det.calls)
	}
	if len(candidates) != 2 {
		t.Errorf("got %d candidates, want 2", len(candidates))
	}
	if !loc.Found || loc.Region != (CircleRegion{CenterX: 60, CenterY: 60, Radius: 45}) {
		t.Errorf("location = %+v", loc)
	}

	if _, _, err := l.LocateWithCandidates(nil); !errors.Is(err, imaging.ErrMalformedImage) {
		t.Errorf("nil image error = %v", err)
	}
}
