package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func pathProperty(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": description,
	}
}

var prepareProperty = map[string]interface{}{
	"type":        "boolean",
	"description": "Skull-strip, crop and resize the scan to 240x240 before locating. Default false",
	"default":     false,
}

var methodProperty = map[string]interface{}{
	"type":        "string",
	"description": "Explanation method that produced the overlay",
	"enum":        []string{"lime", "shap", "gradcam"},
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Basic Image Information
		{
			Name:        "image_load",
			Description: "Load a scan or explanation overlay and describe it: dimensions, decoded format, alpha channel, whether it is neutral (grayscale) and whether it is already a 240x240 analysis frame.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty("Absolute path to the image file"),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_dimensions",
			Description: "Get the width and height of an image file.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty("Absolute path to the image file"),
				},
				"required": []string{"path"},
			},
		},

		// Tumour Localisation
		{
			Name:        "saliency_locate_tumor",
			Description: "Locate the brightest circular region of an MRI slice. Returns the circle, the pixel ranges of its bounding square and all circle candidates considered.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":    pathProperty("Absolute path to the MRI slice"),
					"prepare": prepareProperty,
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "saliency_has_tumor",
			Description: "Report whether a tumour region can be located in an MRI slice.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":    pathProperty("Absolute path to the MRI slice"),
					"prepare": prepareProperty,
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "saliency_highlight_tumor",
			Description: "Draw the located tumour region on the slice and return it as base64-encoded PNG, optionally saving it to disk.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":        pathProperty("Absolute path to the MRI slice"),
					"prepare":     prepareProperty,
					"output_path": pathProperty("Optional .png path to also write the highlighted image to"),
					"color": map[string]interface{}{
						"type":        "string",
						"description": "Outline color as #RRGGBB. Default #FF0000",
					},
					"thickness": map[string]interface{}{
						"type":        "integer",
						"description": "Outline width in pixels. Default 4",
						"default":     4,
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "saliency_crop_tumor",
			Description: "Crop the bounding square of the located tumour region and return it as base64-encoded PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":    pathProperty("Absolute path to the MRI slice"),
					"prepare": prepareProperty,
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Optional scale factor (e.g., 2.0 to double size). Default 1.0",
						"default":     1.0,
					},
				},
				"required": []string{"path"},
			},
		},

		{
			Name:        "saliency_edge_map",
			Description: "Return the Canny edge map the circle detector votes from, as base64-encoded PNG (white edges on black). Useful to see why a tumour was or was not located.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":    pathProperty("Absolute path to the MRI slice"),
					"prepare": prepareProperty,
				},
				"required": []string{"path"},
			},
		},

		// Saliency Scoring
		{
			Name:        "saliency_classify_pixel",
			Description: "Classify one pixel of an explanation overlay as positive, negative or neutral for the given method.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":   pathProperty("Absolute path to the explanation overlay"),
					"x":      map[string]interface{}{"type": "integer", "description": "X coordinate"},
					"y":      map[string]interface{}{"type": "integer", "description": "Y coordinate"},
					"method": methodProperty,
				},
				"required": []string{"path", "x", "y", "method"},
			},
		},
		{
			Name:        "saliency_analyse",
			Description: "Score an explanation overlay against the tumour located in the original slice. Returns precision, recall, accuracy, F1 and the underlying pixel counts.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"original_path":    pathProperty("Absolute path to the original MRI slice"),
					"explanation_path": pathProperty("Absolute path to the explanation overlay, same size as the (prepared) slice"),
					"method":           methodProperty,
					"prepare":          prepareProperty,
				},
				"required": []string{"original_path", "explanation_path", "method"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
