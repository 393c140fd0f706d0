package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"

	"github.com/ironsheep/xai-saliency-mcp/internal/detection"
	"github.com/ironsheep/xai-saliency-mcp/internal/imaging"
	"github.com/ironsheep/xai-saliency-mcp/internal/saliency"
)

// errNoTumour is returned by tools that need a located region.
var errNoTumour = errors.New("no tumour region located")

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "saliency_analyse").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		s.log.Warn().Err(err).Str("tool", params.Name).Msg("tool failed")
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "image_load":
		return s.handleImageLoad(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)

	case "saliency_locate_tumor":
		return s.handleLocateTumor(args)
	case "saliency_has_tumor":
		return s.handleHasTumor(args)
	case "saliency_highlight_tumor":
		return s.handleHighlightTumor(args)
	case "saliency_crop_tumor":
		return s.handleCropTumor(args)
	case "saliency_edge_map":
		return s.handleEdgeMap(args)

	case "saliency_classify_pixel":
		return s.handleClassifyPixel(args)
	case "saliency_analyse":
		return s.handleAnalyse(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	e := &MCPError{Code: code, Message: message}
	if data != "" {
		e.Data = data
	}
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error:   e,
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure it returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

func decodeArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 {
		return errors.New("missing arguments")
	}
	return json.Unmarshal(args, v)
}

// loadScan returns the cached image at path, prepared when asked.
func (s *Server) loadScan(path string, prepare bool) (image.Image, error) {
	img, err := s.cache.Load(path)
	if err != nil {
		return nil, err
	}
	if !prepare {
		return img, nil
	}
	return imaging.PrepareScan(img, imaging.DefaultScanSize)
}

// === Basic Image Information Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadScanInfo(s.cache, a.Path)
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return imaging.Dimensions(s.cache, a.Path)
}

// === Tumour Localisation Handlers ===

type scanArgs struct {
	Path    string `json:"path"`
	Prepare bool   `json:"prepare"`
}

// LocateResult describes the located tumour of one slice.
type LocateResult struct {
	Found      bool                     `json:"found"`
	Region     *detection.CircleRegion  `json:"region,omitempty"`
	XRange     *detection.PixelRange    `json:"x_range,omitempty"`
	YRange     *detection.PixelRange    `json:"y_range,omitempty"`
	Width      int                      `json:"width"`
	Height     int                      `json:"height"`
	Candidates []detection.CircleRegion `json:"candidates"`
}

func newLocateResult(loc detection.Location, candidates []detection.CircleRegion) *LocateResult {
	if candidates == nil {
		candidates = []detection.CircleRegion{}
	}
	r := &LocateResult{
		Found:      loc.Found,
		Width:      loc.Width,
		Height:     loc.Height,
		Candidates: candidates,
	}
	if loc.Found {
		region := loc.Region
		xr, yr := loc.PixelRanges()
		r.Region, r.XRange, r.YRange = &region, &xr, &yr
	}
	return r
}

func (s *Server) handleLocateTumor(args json.RawMessage) (interface{}, error) {
	var a scanArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	img, err := s.loadScan(a.Path, a.Prepare)
	if err != nil {
		return nil, err
	}
	loc, candidates, err := s.locator.LocateWithCandidates(img)
	if err != nil {
		return nil, err
	}
	return newLocateResult(loc, candidates), nil
}

func (s *Server) handleHasTumor(args json.RawMessage) (interface{}, error) {
	var a scanArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	img, err := s.loadScan(a.Path, a.Prepare)
	if err != nil {
		return nil, err
	}
	found, err := s.locator.HasTumor(img)
	if err != nil {
		return nil, err
	}
	return map[string]bool{"has_tumor": found}, nil
}

type highlightArgs struct {
	scanArgs
	OutputPath string `json:"output_path"`
	Color      string `json:"color"`
	Thickness  int    `json:"thickness"`
}

// HighlightResult is the highlighted slice plus the region drawn on it.
type HighlightResult struct {
	Region     detection.CircleRegion `json:"region"`
	OutputPath string                 `json:"output_path,omitempty"`
	*imaging.EncodedImage
}

func (s *Server) handleHighlightTumor(args json.RawMessage) (interface{}, error) {
	var a highlightArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Color == "" {
		a.Color = s.highlightColor
	}
	img, err := s.loadScan(a.Path, a.Prepare)
	if err != nil {
		return nil, err
	}
	loc, err := s.locator.Locate(img)
	if err != nil {
		return nil, err
	}
	if !loc.Found {
		return nil, errNoTumour
	}

	r := loc.Region
	out, err := imaging.HighlightRegion(img, r.CenterX, r.CenterY, r.Radius, a.Color, a.Thickness)
	if err != nil {
		return nil, err
	}
	if a.OutputPath != "" {
		if err := imaging.SavePNG(out, a.OutputPath); err != nil {
			return nil, err
		}
	}
	encoded, err := imaging.EncodePNG(out)
	if err != nil {
		return nil, err
	}
	return &HighlightResult{Region: r, OutputPath: a.OutputPath, EncodedImage: encoded}, nil
}

type cropArgs struct {
	scanArgs
	Scale float64 `json:"scale"`
}

func (s *Server) handleCropTumor(args json.RawMessage) (interface{}, error) {
	var a cropArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	img, err := s.loadScan(a.Path, a.Prepare)
	if err != nil {
		return nil, err
	}
	loc, err := s.locator.Locate(img)
	if err != nil {
		return nil, err
	}
	if !loc.Found {
		return nil, errNoTumour
	}
	xr, yr := loc.PixelRanges()
	origin := img.Bounds().Min
	rect := image.Rect(xr.Start, yr.Start, xr.End, yr.End).Add(origin)
	return imaging.CropRect(img, rect, a.Scale)
}

func (s *Server) handleEdgeMap(args json.RawMessage) (interface{}, error) {
	var a scanArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	img, err := s.loadScan(a.Path, a.Prepare)
	if err != nil {
		return nil, err
	}
	if err := imaging.Validate(img); err != nil {
		return nil, err
	}
	return imaging.EncodePNG(detection.NewHoughDetector(s.detector).EdgeMap(img))
}

// === Saliency Scoring Handlers ===

type classifyPixelArgs struct {
	Path   string `json:"path"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Method string `json:"method"`
}

// ClassifyResult is the class of one explanation pixel.
type ClassifyResult struct {
	Method string           `json:"method"`
	X      int              `json:"x"`
	Y      int              `json:"y"`
	RGB    imaging.RGBColor `json:"rgb"`
	Hex    string           `json:"hex"`
	Class  string           `json:"class"`
}

func (s *Server) handleClassifyPixel(args json.RawMessage) (interface{}, error) {
	var a classifyPixelArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	m, err := saliency.ParseMethod(a.Method)
	if err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	sample, err := imaging.SampleColor(img, a.X, a.Y)
	if err != nil {
		return nil, err
	}
	class, err := saliency.Classify(imaging.StripAlpha(imaging.PixelComponents(img, a.X, a.Y)), m)
	if err != nil {
		return nil, err
	}
	return &ClassifyResult{
		Method: m.String(),
		X:      a.X,
		Y:      a.Y,
		RGB:    sample.RGB,
		Hex:    sample.Hex,
		Class:  class.String(),
	}, nil
}

type analyseArgs struct {
	OriginalPath    string `json:"original_path"`
	ExplanationPath string `json:"explanation_path"`
	Method          string `json:"method"`
	Prepare         bool   `json:"prepare"`
}

// AnalyseResult is the fidelity score of one explanation.
type AnalyseResult struct {
	Method       string                    `json:"method"`
	Location     *LocateResult             `json:"location"`
	WholeCounts  saliency.ConfusionCounts  `json:"whole_counts"`
	RegionCounts *saliency.ConfusionCounts `json:"region_counts,omitempty"`
	Scores       saliency.ScoreSet         `json:"scores"`
	Summary      string                    `json:"summary"`
}

func (s *Server) handleAnalyse(args json.RawMessage) (interface{}, error) {
	var a analyseArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	m, err := saliency.ParseMethod(a.Method)
	if err != nil {
		return nil, err
	}
	original, err := s.loadScan(a.OriginalPath, a.Prepare)
	if err != nil {
		return nil, err
	}
	explanation, err := s.cache.Load(a.ExplanationPath)
	if err != nil {
		return nil, err
	}

	an, err := saliency.NewAnalyser(original, explanation, m, s.locator)
	if err != nil {
		return nil, err
	}
	res := &AnalyseResult{
		Method:      m.String(),
		Location:    newLocateResult(an.Location(), nil),
		WholeCounts: an.WholeCounts(),
		Scores:      an.Scores(),
		Summary:     an.Results(),
	}
	if rc, ok := an.RegionCounts(); ok {
		res.RegionCounts = &rc
	}
	return res, nil
}
