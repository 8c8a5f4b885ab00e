package server

import (
	"testing"
)

func toolByName(t *testing.T, name string) Tool {
	t.Helper()
	for _, tool := range GetToolDefinitions() {
		if tool.Name == name {
			return tool
		}
	}
	t.Fatalf("%s tool not found", name)
	return Tool{}
}

func TestGetToolDefinitions(t *testing.T) {
	tools := GetToolDefinitions()

	if len(tools) == 0 {
		t.Fatal("GetToolDefinitions returned empty slice")
	}

	expectedTools := []string{
		"recipe_load",
		"recipe_resize",
		"recipe_set_category",
		"recipe_set_threshold",
		"recipe_auto_threshold",
		"recipe_pointer",
		"recipe_draw_region",
		"recipe_regions",
		"recipe_remove_region",
		"recipe_clear_regions",
		"recipe_render",
		"recipe_suggest_regions",
		"recipe_extract",
		"recipe_edit_line",
		"recipe_set_details",
		"recipe_proceed",
		"recipe_back",
		"recipe_export",
		"recipe_status",
	}

	toolMap := make(map[string]Tool)
	for _, tool := range tools {
		if _, dup := toolMap[tool.Name]; dup {
			t.Errorf("tool %s defined twice", tool.Name)
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
	tools := GetToolDefinitions()

	for _, tool := range tools {
		t.Run(tool.Name, func(t *testing.T) {
			if tool.Name == "" {
				t.Error("Tool name is empty")
			}
			if tool.Description == "" {
				t.Error("Tool description is empty")
			}
			if tool.InputSchema == nil {
				t.Fatal("Tool InputSchema is nil")
			}

			schemaType, ok := tool.InputSchema["type"]
			if !ok {
				t.Error("InputSchema missing 'type' field")
			}
			if schemaType != "object" {
				t.Errorf("InputSchema type: got %v, want 'object'", schemaType)
			}

			props, ok := tool.InputSchema["properties"].(map[string]interface{})
			if !ok {
				t.Fatal("InputSchema properties should be a map")
			}

			// Every required parameter must be declared
			if required, ok := tool.InputSchema["required"].([]string); ok {
				for _, r := range required {
					if _, ok := props[r]; !ok {
						t.Errorf("required parameter %q has no property", r)
					}
				}
			}
		})
	}
}

func TestToolDefinitions_DrawRegionCoordinates(t *testing.T) {
	tool := toolByName(t, "recipe_draw_region")

	required, ok := tool.InputSchema["required"].([]string)
	if !ok {
		t.Fatal("required should be a string slice")
	}

	expectedRequired := map[string]bool{"x1": true, "y1": true, "x2": true, "y2": true}
	for _, r := range required {
		delete(expectedRequired, r)
	}
	for missing := range expectedRequired {
		t.Errorf("recipe_draw_region should require '%s' parameter", missing)
	}
}

func TestToolDefinitions_Enums(t *testing.T) {
	tests := []struct {
		tool  string
		param string
		want  []string
	}{
		{"recipe_set_category", "category", []string{"ingredient", "instruction"}},
		{"recipe_suggest_regions", "category", []string{"ingredient", "instruction"}},
		{"recipe_pointer", "event", []string{"down", "move", "up", "leave"}},
		{"recipe_edit_line", "section", []string{"ingredients", "instructions"}},
		{"recipe_edit_line", "op", []string{"add", "edit", "remove"}},
	}

	for _, tt := range tests {
		t.Run(tt.tool+"."+tt.param, func(t *testing.T) {
			props := toolByName(t, tt.tool).InputSchema["properties"].(map[string]interface{})
			param, ok := props[tt.param].(map[string]interface{})
			if !ok {
				t.Fatalf("%s property should exist and be a map", tt.param)
			}
			enum, ok := param["enum"].([]string)
			if !ok {
				t.Fatal("property should have enum")
			}

			enumMap := make(map[string]bool)
			for _, e := range enum {
				enumMap[e] = true
			}
			for _, w := range tt.want {
				if !enumMap[w] {
					t.Errorf("Expected '%s' in enum", w)
				}
			}
		})
	}
}

func TestToolDefinitions_OptionalDefaults(t *testing.T) {
	toolDefaults := map[string]map[string]interface{}{
		"recipe_regions":         {"include_crops": false},
		"recipe_render":          {"grid_spacing": 0, "show_coordinates": true, "grid_color": "#FF000080"},
		"recipe_suggest_regions": {"use_ocr": false, "min_confidence": 0.3, "max_regions": 20, "commit": false},
	}

	for toolName, expectedDefaults := range toolDefaults {
		props := toolByName(t, toolName).InputSchema["properties"].(map[string]interface{})

		for paramName, expectedDefault := range expectedDefaults {
			param, ok := props[paramName].(map[string]interface{})
			if !ok {
				t.Errorf("%s.%s: parameter not found or not a map", toolName, paramName)
				continue
			}

			actualDefault, ok := param["default"]
			if !ok {
				t.Errorf("%s.%s: missing default value", toolName, paramName)
				continue
			}
			if actualDefault != expectedDefault {
				t.Errorf("%s.%s: default got %v (%T), want %v (%T)",
					toolName, paramName, actualDefault, actualDefault, expectedDefault, expectedDefault)
			}
		}
	}
}

func TestHandleToolsList(t *testing.T) {
	s := newTestServer(t, widthEngine)
	req := &MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
	}

	resp := s.handleToolsList(req)

	if resp == nil {
		t.Fatal("handleToolsList returned nil")
	}
	if resp.Error != nil {
		t.Fatalf("Unexpected error: %v", resp.Error)
	}

	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatal("Result should be a map")
	}

	toolsList, ok := result["tools"].([]Tool)
	if !ok {
		t.Fatal("tools should be a slice of Tool")
	}

	expected := GetToolDefinitions()
	if len(toolsList) != len(expected) {
		t.Errorf("Tool count: got %d, want %d", len(toolsList), len(expected))
	}
}
