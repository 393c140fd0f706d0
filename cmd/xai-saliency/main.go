// Package main provides the xai-saliency CLI.
//
// xai-saliency scores how well saliency explanations (LIME, SHAP, Grad-CAM)
// of a brain tumour classifier point at the tumour itself. Without a
// sub-command it serves the MCP tools over stdio.
//
// Usage:
//
//	xai-saliency                      # MCP server on stdio
//	xai-saliency locate slice.jpg
//	xai-saliency analyse slice.jpg lime.png --method lime
//	xai-saliency evaluate --dataset ./brats --overlays ./overlays
//
// See --help for all available options.
package main

func main() {
	Execute()
}
