package explain

import (
	"context"
	"image"

	img "github.com/ironsheep/xai-saliency-mcp/internal/imaging"
	"github.com/ironsheep/xai-saliency-mcp/internal/saliency"
)

// DefaultHeatmapAlpha is the weight of the scan in the Grad-CAM blend.
const DefaultHeatmapAlpha = 0.5

// GradCAMTool renders Grad-CAM overlays from stored grayscale class
// activation heatmaps: the heatmap is coloured with viridis and blended
// over the scan.
type GradCAMTool struct {
	dir   string
	alpha float64
}

// NewGradCAMTool creates a GradCAMTool reading heatmaps under dir.
func NewGradCAMTool(dir string) *GradCAMTool {
	return &GradCAMTool{dir: dir, alpha: DefaultHeatmapAlpha}
}

func (t *GradCAMTool) Method() saliency.Method { return saliency.GradCAM }

func (t *GradCAMTool) Explain(ctx context.Context, s Sample) (image.Image, error) {
	heatmap, err := loadOverlay(ctx, t.dir, saliency.GradCAM, s)
	if err != nil {
		return nil, err
	}
	return img.RenderHeatmapOverlay(s.Scan, heatmap, t.alpha)
}

func (t *GradCAMTool) sealed() {}
