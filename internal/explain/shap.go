package explain

import (
	"context"
	"image"

	"github.com/ironsheep/xai-saliency-mcp/internal/saliency"
)

// ShapTool loads SHAP overlays.
//
// SHAP attributions are computed against a background set of samples. The
// overlays are rendered ahead of time, so the set only records which
// samples served as background; their Scan fields may be nil. The set is
// fixed when the tool is built and the sample being explained never joins it.
type ShapTool struct {
	dir        string
	background []Sample
}

// NewShapTool creates a ShapTool. The background slice is copied.
func NewShapTool(dir string, background []Sample) *ShapTool {
	return &ShapTool{dir: dir, background: append([]Sample(nil), background...)}
}

// Background returns a copy of the background sample set.
func (t *ShapTool) Background() []Sample {
	return append([]Sample(nil), t.background...)
}

func (t *ShapTool) Method() saliency.Method { return saliency.SHAP }

func (t *ShapTool) Explain(ctx context.Context, s Sample) (image.Image, error) {
	return loadOverlay(ctx, t.dir, saliency.SHAP, s)
}

func (t *ShapTool) sealed() {}
