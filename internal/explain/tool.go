// Package explain provides the explanation tools whose output is scored.
//
// The set of tools is closed: LimeTool, ShapTool and GradCAMTool are the only
// implementations of Tool. Explanations are produced offline by the model
// tooling; these tools load or render the stored artefacts so that every
// explanation arrives tagged with the method that produced it.
//
// Overlays are stored as <dir>/<method>/<sample id>.png.
package explain

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"

	img "github.com/ironsheep/xai-saliency-mcp/internal/imaging"
	"github.com/ironsheep/xai-saliency-mcp/internal/saliency"
)

// ErrOverlayNotFound is returned when no stored explanation exists for a
// sample.
var ErrOverlayNotFound = errors.New("explanation overlay not found")

// Sample is the scan an explanation is requested for.
type Sample struct {
	// ID names the stored overlay file.
	ID string

	// Scan is the prepared scan. Explanations are returned in its frame.
	Scan image.Image
}

// Tool produces the explanation image for a sample.
type Tool interface {
	// Method tags every explanation this tool returns.
	Method() saliency.Method

	// Explain returns an explanation with the same dimensions as s.Scan.
	Explain(ctx context.Context, s Sample) (image.Image, error)

	sealed()
}

// New returns the tool for m. background is only used by SHAP.
func New(m saliency.Method, dir string, background []Sample) (Tool, error) {
	switch m {
	case saliency.LIME:
		return NewLimeTool(dir), nil
	case saliency.SHAP:
		return NewShapTool(dir, background), nil
	case saliency.GradCAM:
		return NewGradCAMTool(dir), nil
	}
	return nil, fmt.Errorf("%w: %d", saliency.ErrUnknownMethod, int(m))
}

// ForMethods builds one tool per method, in order.
func ForMethods(dir string, background []Sample, methods ...saliency.Method) ([]Tool, error) {
	tools := make([]Tool, 0, len(methods))
	for _, m := range methods {
		t, err := New(m, dir, background)
		if err != nil {
			return nil, err
		}
		tools = append(tools, t)
	}
	return tools, nil
}

// OverlayPath returns where the overlay for id and m is stored.
func OverlayPath(dir string, m saliency.Method, id string) string {
	return filepath.Join(dir, m.String(), id+".png")
}

// loadOverlay reads a stored overlay and brings it into the scan's frame.
// Overlays are resized with nearest-neighbour sampling so that colours stay
// exactly as rendered.
func loadOverlay(ctx context.Context, dir string, m saliency.Method, s Sample) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := img.Validate(s.Scan); err != nil {
		return nil, fmt.Errorf("sample %s: %w", s.ID, err)
	}

	path := OverlayPath(dir, m, s.ID)
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrOverlayNotFound, path)
	}
	overlay, err := img.Decode(path)
	if err != nil {
		return nil, err
	}

	sb, ob := s.Scan.Bounds(), overlay.Bounds()
	if sb.Dx() != ob.Dx() || sb.Dy() != ob.Dy() {
		return imaging.Resize(overlay, sb.Dx(), sb.Dy(), imaging.NearestNeighbor), nil
	}
	return overlay, nil
}
