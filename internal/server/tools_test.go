package server

import (
	"context"
	"testing"

	"github.com/ironsheep/cardscan/internal/ocr"
)

func TestGetToolDefinitions(t *testing.T) {
	tools := GetToolDefinitions()

	expectedTools := []string{
		"image_load",
		"card_analyze",
		"card_extract_stats",
		"card_crop_region",
		"card_region_overlay",
		"card_suggest_regions",
		"image_probe_luminance",
		"ocr_info",
	}

	if len(tools) != len(expectedTools) {
		t.Errorf("tool count: got %d, want %d", len(tools), len(expectedTools))
	}

	toolMap := make(map[string]Tool)
	for _, tool := range tools {
		if _, dup := toolMap[tool.Name]; dup {
			t.Errorf("duplicate tool %s", tool.Name)
		}
		toolMap[tool.Name] = tool
	}
	for _, name := range expectedTools {
		if _, ok := toolMap[name]; !ok {
			t.Errorf("Expected tool %s not found", name)
		}
	}
}

func TestToolDefinitions_Structure(t *testing.T) {
	for _, tool := range GetToolDefinitions() {
		t.Run(tool.Name, func(t *testing.T) {
			if tool.Description == "" {
				t.Error("Tool description is empty")
			}
			if tool.InputSchema["type"] != "object" {
				t.Errorf("InputSchema type: got %v, want 'object'", tool.InputSchema["type"])
			}
			props, ok := tool.InputSchema["properties"].(map[string]interface{})
			if !ok {
				t.Fatal("InputSchema properties should be a map")
			}

			required, _ := tool.InputSchema["required"].([]string)
			for _, name := range required {
				if _, ok := props[name]; !ok {
					t.Errorf("required property %q is not declared", name)
				}
			}
		})
	}
}

func TestToolDefinitions_RequiredPath(t *testing.T) {
	toolsRequiringPath := []string{
		"image_load",
		"card_analyze",
		"card_crop_region",
		"card_region_overlay",
		"card_suggest_regions",
		"image_probe_luminance",
	}

	toolMap := make(map[string]Tool)
	for _, tool := range GetToolDefinitions() {
		toolMap[tool.Name] = tool
	}

	for _, name := range toolsRequiringPath {
		t.Run(name, func(t *testing.T) {
			required, ok := toolMap[name].InputSchema["required"].([]string)
			if !ok {
				t.Fatal("required should be a string slice")
			}
			found := false
			for _, r := range required {
				if r == "path" {
					found = true
				}
			}
			if !found {
				t.Error("path should be required")
			}
		})
	}
}

func TestToolDefinitions_RegionProperties(t *testing.T) {
	for _, name := range []string{"card_crop_region", "image_probe_luminance"} {
		t.Run(name, func(t *testing.T) {
			var tool Tool
			for _, candidate := range GetToolDefinitions() {
				if candidate.Name == name {
					tool = candidate
				}
			}
			props := tool.InputSchema["properties"].(map[string]interface{})
			for _, key := range []string{"region", "x", "y", "w", "h", "threshold"} {
				if _, ok := props[key]; !ok {
					t.Errorf("missing property %q", key)
				}
			}
		})
	}
}

func TestHandleToolsList(t *testing.T) {
	s := newTestServer(t, ocr.NewMockEngine())
	resp := s.handleRequest(context.Background(), &MCPRequest{JSONRPC: "2.0", ID: 1, Method: "tools/list"})

	if resp == nil || resp.Error != nil {
		t.Fatalf("unexpected response: %+v", resp)
	}
	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatal("Result should be a map")
	}
	tools, ok := result["tools"].([]Tool)
	if !ok {
		t.Fatal("tools should be a slice of Tool")
	}
	if len(tools) != len(GetToolDefinitions()) {
		t.Errorf("tools: got %d, want %d", len(tools), len(GetToolDefinitions()))
	}
}
