package saliency

import (
	"errors"
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/ironsheep/xai-saliency-mcp/internal/detection"
	"github.com/ironsheep/xai-saliency-mcp/internal/imaging"
)

// scanWithDisk returns a dark 240x240 scan with a bright disk of radius 40
// centred at (120, 120).
func scanWithDisk() *image.RGBA {
	img := filledRGBA(240, 240, color.RGBA{R: 20, G: 20, B: 20, A: 255})
	for y := 0; y < 240; y++ {
		for x := 0; x < 240; x++ {
			dx, dy := x-120, y-120
			if dx*dx+dy*dy <= 40*40 {
				img.SetRGBA(x, y, color.RGBA{R: 200, G: 200, B: 200, A: 255})
			}
		}
	}
	return img
}

func TestAnalyserGrayScan(t *testing.T) {
	gray := filledRGBA(240, 240, color.RGBA{R: 128, G: 128, B: 128, A: 255})

	a, err := NewAnalyser(gray, gray, LIME, nil)
	if err != nil {
		t.Fatalf("NewAnalyser failed: %v", err)
	}
	if a.HasTumor() {
		t.Error("HasTumor() = true on a uniform scan")
	}
	if got := a.WholeCounts(); got != (ConfusionCounts{Total: 57600}) {
		t.Errorf("WholeCounts() = %v, want 0/0/57600", got)
	}
	if _, ok := a.RegionCounts(); ok {
		t.Error("RegionCounts() reported a region")
	}
	if a.Precision() != 0 || a.Recall() != 0 {
		t.Errorf("precision, recall = %v, %v; want 0, 0", a.Precision(), a.Recall())
	}
}

func TestAnalyserLimeAllPositive(t *testing.T) {
	scan := scanWithDisk()
	explanation := filledRGBA(240, 240, color.RGBA{R: 150, G: 200, B: 50, A: 255})

	a, err := NewAnalyser(scan, explanation, LIME, detection.NewLocator(detection.NewHoughDetector(detection.DefaultHoughParams()), nil))
	if err != nil {
		t.Fatalf("NewAnalyser failed: %v", err)
	}
	if !a.HasTumor() {
		t.Fatal("HasTumor() = false, want true")
	}

	region, ok := a.RegionCounts()
	if !ok {
		t.Fatal("RegionCounts() missing")
	}
	if region.Negative != 0 {
		t.Errorf("region negative = %d, want 0", region.Negative)
	}
	if a.Scores().TruePositive != region.Total {
		t.Errorf("tp = %d, want region total %d", a.Scores().TruePositive, region.Total)
	}
	if a.Recall() != 1 {
		t.Errorf("recall = %v, want 1", a.Recall())
	}
	if a.Method() != LIME {
		t.Errorf("Method() = %v", a.Method())
	}
	if !a.Location().Found {
		t.Error("Location().Found = false")
	}
}

func TestAnalyserResults(t *testing.T) {
	gray := filledRGBA(50, 50, color.RGBA{R: 1, G: 1, B: 1, A: 255})
	a, err := NewAnalyser(gray, gray, GradCAM, nil)
	if err != nil {
		t.Fatalf("NewAnalyser failed: %v", err)
	}
	out := a.Results()
	for _, want := range []string{"Grad-CAM", "no tumour region", "Precision Score", "Recall Score"} {
		if !strings.Contains(out, want) {
			t.Errorf("Results() missing %q:\n%s", want, out)
		}
	}
}

func TestAnalyserErrors(t *testing.T) {
	good := filledRGBA(10, 10, color.RGBA{A: 255})
	other := filledRGBA(12, 10, color.RGBA{A: 255})

	if _, err := NewAnalyser(nil, good, LIME, nil); !errors.Is(err, imaging.ErrMalformedImage) {
		t.Errorf("nil original: error = %v", err)
	}
	if _, err := NewAnalyser(good, nil, LIME, nil); !errors.Is(err, imaging.ErrMalformedImage) {
		t.Errorf("nil explanation: error = %v", err)
	}
	if _, err := NewAnalyser(good, other, LIME, nil); !errors.Is(err, ErrFrameMismatch) {
		t.Errorf("size mismatch: error = %v", err)
	}
	if _, err := NewAnalyser(good, good, Method(3), nil); !errors.Is(err, ErrUnknownMethod) {
		t.Errorf("bad method: error = %v", err)
	}
}

func TestAnalyseLocatedReusesLocation(t *testing.T) {
	loc := detection.Location{Found: true, Region: detection.CircleRegion{CenterX: 10, CenterY: 10, Radius: 5}, Width: 20, Height: 20}
	explanation := filledRGBA(20, 20, color.RGBA{R: 220, G: 20, B: 20, A: 255})

	a, err := AnalyseLocated(loc, explanation, SHAP)
	if err != nil {
		t.Fatalf("AnalyseLocated failed: %v", err)
	}
	region, ok := a.RegionCounts()
	if !ok || region != (ConfusionCounts{Positive: 100, Total: 100}) {
		t.Errorf("region = %v, %v; want 100 positive of 100", region, ok)
	}
	if a.WholeCounts().Positive != 400 {
		t.Errorf("whole positive = %d, want 400", a.WholeCounts().Positive)
	}

	if _, err := AnalyseLocated(loc, filledRGBA(21, 20, color.RGBA{A: 255}), SHAP); !errors.Is(err, ErrFrameMismatch) {
		t.Errorf("mismatch error = %v", err)
	}
}
