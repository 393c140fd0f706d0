package explain

import (
	"context"
	"image"

	"github.com/ironsheep/xai-saliency-mcp/internal/saliency"
)

// LimeTool loads LIME superpixel overlays.
type LimeTool struct {
	dir string
}

// NewLimeTool creates a LimeTool reading overlays under dir.
func NewLimeTool(dir string) *LimeTool {
	return &LimeTool{dir: dir}
}

func (t *LimeTool) Method() saliency.Method { return saliency.LIME }

func (t *LimeTool) Explain(ctx context.Context, s Sample) (image.Image, error) {
	return loadOverlay(ctx, t.dir, saliency.LIME, s)
}

func (t *LimeTool) sealed() {}
