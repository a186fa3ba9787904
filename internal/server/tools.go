package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func pathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the screenshot file",
	}
}

// regionProperties describes an explicit fractional region.
func regionProperties() map[string]interface{} {
	return map[string]interface{}{
		"x": map[string]interface{}{
			"type":        "number",
			"description": "Left edge as a fraction of image width (0-1)",
		},
		"y": map[string]interface{}{
			"type":        "number",
			"description": "Top edge as a fraction of image height (0-1)",
		},
		"w": map[string]interface{}{
			"type":        "number",
			"description": "Width as a fraction of image width (0-1]",
		},
		"h": map[string]interface{}{
			"type":        "number",
			"description": "Height as a fraction of image height (0-1]",
		},
		"binarize": map[string]interface{}{
			"type":        "boolean",
			"description": "Threshold the crop to black text on white",
		},
		"threshold": map[string]interface{}{
			"type":        "integer",
			"description": "Luminance threshold 0-255 used when binarize is set",
		},
		"scale": map[string]interface{}{
			"type":        "number",
			"description": "Optional upscale factor applied before thresholding",
		},
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Image
		{
			Name:        "image_load",
			Description: "Load a screenshot and return its dimensions, detected format and size. The decoded image is cached for later calls.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"reload": map[string]interface{}{
						"type":        "boolean",
						"description": "Drop any cached copy and read the file again. Default false",
						"default":     false,
					},
				},
				"required": []string{"path"},
			},
		},

		// Extraction
		{
			Name:        "card_analyze",
			Description: "Read a full card screenshot and return the recognized full text, player name, team, nationality and card edition. Fields that could not be found are null.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "card_extract_stats",
			Description: "Read one or more stat-page screenshots and return the merged ability scores. The first image that yields a stat wins.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"paths": map[string]interface{}{
						"type":        "array",
						"description": "Absolute paths to stat-page screenshots, in priority order",
						"items":       map[string]interface{}{"type": "string"},
						"minItems":    1,
					},
				},
				"required": []string{"paths"},
			},
		},

		// Layout tuning
		{
			Name:        "card_crop_region",
			Description: "Crop a region exactly as the recognizer sees it (scaled and binarized) and return it as base64-encoded PNG. Give a configured region name, or an explicit region.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withEntries(regionProperties(), map[string]interface{}{
					"path": pathProperty(),
					"region": map[string]interface{}{
						"type":        "string",
						"description": "Configured region name: full, name, profile, edition or stats",
					},
				}),
				"required": []string{"path"},
			},
		},
		{
			Name:        "card_region_overlay",
			Description: "Draw the configured regions of a layout on the screenshot and return it as base64-encoded PNG. Regions that do not fit the image are reported with an error.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"layout": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"card", "stats"},
						"description": "Which layout to draw. Default card",
						"default":     "card",
					},
					"thickness": map[string]interface{}{
						"type":        "integer",
						"description": "Outline thickness in pixels. Default 2",
						"default":     2,
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "card_suggest_regions",
			Description: "Find areas of a screenshot that look like lines of text and return them as fractional regions, ready to paste into a layout.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"min_confidence": map[string]interface{}{
						"type":        "number",
						"description": "Minimum confidence threshold (0-1, default 0.5)",
						"default":     0.5,
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_probe_luminance",
			Description: "Report the luminance of a pixel, or summary statistics for a region, and whether it counts as ink at a threshold. Use this to pick binarization thresholds.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withEntries(regionProperties(), map[string]interface{}{
					"path": pathProperty(),
					"px": map[string]interface{}{
						"type":        "integer",
						"description": "Pixel X coordinate for a point probe",
					},
					"py": map[string]interface{}{
						"type":        "integer",
						"description": "Pixel Y coordinate for a point probe",
					},
					"region": map[string]interface{}{
						"type":        "string",
						"description": "Configured region name to probe instead of a point",
					},
					"threshold": map[string]interface{}{
						"type":        "integer",
						"description": "Luminance threshold 0-255. Default 128, or the region's own threshold",
					},
				}),
				"required": []string{"path"},
			},
		},

		// Backend
		{
			Name:        "ocr_info",
			Description: "Report the recognition backend, its version, the installed languages and the per-call timeout.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
	}
}

func withEntries(base, extra map[string]interface{}) map[string]interface{} {
	for k, v := range extra {
		base[k] = v
	}
	return base
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
