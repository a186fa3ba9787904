package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"

	"github.com/ironsheep/cardscan/internal/extract"
	"github.com/ironsheep/cardscan/internal/imaging"
	"github.com/ironsheep/cardscan/internal/pipeline"
)

const (
	defaultThickness      = 2
	defaultProbeThreshold = 128
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "card_analyze").
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
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	args := params.Arguments
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}

	result, err := s.executeTool(ctx, params.Name, args)
	if err != nil {
		s.logger.Warn("tool failed", "tool", params.Name, "error", err)
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
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "image_load":
		return s.handleImageLoad(args)

	case "card_analyze":
		return s.handleCardAnalyze(ctx, args)
	case "card_extract_stats":
		return s.handleCardExtractStats(ctx, args)

	case "card_crop_region":
		return s.handleCardCropRegion(args)
	case "card_region_overlay":
		return s.handleCardRegionOverlay(args)
	case "card_suggest_regions":
		return s.handleCardSuggestRegions(args)
	case "image_probe_luminance":
		return s.handleImageProbeLuminance(args)

	case "ocr_info":
		return s.handleOCRInfo()

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure it returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Image Handlers ===

type imageLoadArgs struct {
	Path   string `json:"path"`
	Reload bool   `json:"reload"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Reload {
		s.cache.Evict(a.Path)
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

// === Extraction Handlers ===

type cardAnalyzeArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleCardAnalyze(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a cardAnalyzeArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return s.pipeline.AnalyzeCardImage(ctx, img)
}

type cardExtractStatsArgs struct {
	Paths []string `json:"paths"`
}

// StatsResult is the card_extract_stats payload.
type StatsResult struct {
	Stats   extract.StatMap   `json:"stats"`
	Found   int               `json:"found"`
	Missing []extract.StatKey `json:"missing"`
}

func (s *Server) handleCardExtractStats(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a cardExtractStatsArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if len(a.Paths) == 0 {
		return nil, pipeline.ErrNoImages
	}

	images := make([]image.Image, len(a.Paths))
	for i, path := range a.Paths {
		img, err := s.cache.Load(path)
		if err != nil {
			return nil, err
		}
		images[i] = img
	}

	stats, err := s.pipeline.ExtractStatsImages(ctx, images)
	if err != nil {
		return nil, err
	}

	return &StatsResult{Stats: stats, Found: len(stats), Missing: s.pipeline.MissingStats(stats)}, nil
}

// === Layout Tuning Handlers ===

// regionArgs is an explicit region or a configured region name.
type regionArgs struct {
	Region    string   `json:"region"`
	X         *float64 `json:"x"`
	Y         *float64 `json:"y"`
	W         *float64 `json:"w"`
	H         *float64 `json:"h"`
	Binarize  bool     `json:"binarize"`
	Threshold *int     `json:"threshold"`
	Scale     float64  `json:"scale"`
}

func (r regionArgs) explicit() bool {
	return r.X != nil || r.Y != nil || r.W != nil || r.H != nil
}

// resolve returns the named region or builds one from the explicit fields.
// A threshold argument overrides the named region's threshold.
func (s *Server) resolve(r regionArgs) (imaging.Region, error) {
	if r.Region != "" {
		if r.explicit() {
			return imaging.Region{}, errors.New("give either region or x/y/w/h, not both")
		}
		region, err := s.pipeline.FindRegion(r.Region)
		if err != nil {
			return imaging.Region{}, err
		}
		if r.Threshold != nil {
			region.Threshold = *r.Threshold
		}
		return region, nil
	}

	if r.X == nil || r.Y == nil || r.W == nil || r.H == nil {
		return imaging.Region{}, errors.New("region name or all of x, y, w, h required")
	}
	region := imaging.Region{
		X:        *r.X,
		Y:        *r.Y,
		W:        *r.W,
		H:        *r.H,
		Binarize: r.Binarize,
		Scale:    r.Scale,
	}
	if r.Threshold != nil {
		region.Threshold = *r.Threshold
	} else {
		region.Threshold = defaultProbeThreshold
	}
	return region, nil
}

type cardCropRegionArgs struct {
	Path string `json:"path"`
	regionArgs
}

func (s *Server) handleCardCropRegion(args json.RawMessage) (interface{}, error) {
	var a cardCropRegionArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	region, err := s.resolve(a.regionArgs)
	if err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.Crop(img, region)
}

type cardRegionOverlayArgs struct {
	Path      string `json:"path"`
	Layout    string `json:"layout"`
	Thickness int    `json:"thickness"`
}

func (s *Server) handleCardRegionOverlay(args json.RawMessage) (interface{}, error) {
	var a cardRegionOverlayArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Layout == "" {
		a.Layout = pipeline.LayoutCard
	}
	if a.Thickness == 0 {
		a.Thickness = defaultThickness
	}

	regions, err := s.pipeline.Layout(a.Layout)
	if err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.RegionOverlay(img, regions, a.Thickness)
}

type cardSuggestRegionsArgs struct {
	Path          string  `json:"path"`
	MinConfidence float64 `json:"min_confidence"`
}

// SuggestResult is the card_suggest_regions payload.
type SuggestResult struct {
	Blocks []imaging.TextBlock `json:"blocks"`
	Count  int                 `json:"count"`
}

func (s *Server) handleCardSuggestRegions(args json.RawMessage) (interface{}, error) {
	var a cardSuggestRegionsArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.MinConfidence == 0 {
		a.MinConfidence = 0.5
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	blocks := imaging.FindTextBlocks(img, a.MinConfidence)
	if blocks == nil {
		blocks = []imaging.TextBlock{}
	}
	return &SuggestResult{Blocks: blocks, Count: len(blocks)}, nil
}

type imageProbeLuminanceArgs struct {
	Path string `json:"path"`
	PX   *int   `json:"px"`
	PY   *int   `json:"py"`
	regionArgs
}

func (s *Server) handleImageProbeLuminance(args json.RawMessage) (interface{}, error) {
	var a imageProbeLuminanceArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	if a.PX != nil || a.PY != nil {
		if a.PX == nil || a.PY == nil {
			return nil, errors.New("both px and py are required for a point probe")
		}
		threshold := defaultProbeThreshold
		if a.Threshold != nil {
			threshold = *a.Threshold
		}
		return imaging.ProbePoint(img, *a.PX, *a.PY, threshold)
	}

	region, err := s.resolve(a.regionArgs)
	if err != nil {
		return nil, err
	}
	return imaging.ProbeRegion(img, region, region.Threshold)
}

// === Backend Handlers ===

func (s *Server) handleOCRInfo() (interface{}, error) {
	if s.backend == nil {
		return nil, errors.New("recognition backend does not report info")
	}
	return s.backend.Info()
}
