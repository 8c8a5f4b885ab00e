package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// noArgs is the schema of a tool that takes no arguments
func noArgs() map[string]interface{} {
	return map[string]interface{}{
		"type":       "object",
		"properties": map[string]interface{}{},
	}
}

// categorySchema describes a region category argument
func categorySchema(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"enum":        []string{"ingredient", "instruction"},
		"description": description,
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Image
		{
			Name:        "recipe_load",
			Description: "Load a photo of a recipe and start selecting regions. Replaces any previous image and clears all regions. Returns the image dimensions, format and display scale.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file (PNG, JPEG, GIF, BMP, TIFF or WebP)",
					},
					"data_base64": map[string]interface{}{
						"type":        "string",
						"description": "Image file contents as base64, instead of path",
					},
				},
			},
		},
		{
			Name:        "recipe_resize",
			Description: "Set the display container width. Images wider than the container are shown downscaled; pointer coordinates are in display pixels.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"container_width": map[string]interface{}{
						"type":        "integer",
						"description": "Container width in screen pixels (0 shows the image at full size)",
					},
				},
				"required": []string{"container_width"},
			},
		},
		{
			Name:        "recipe_set_threshold",
			Description: "Set the black/white threshold used by the preview. Pixels with luma at or above the threshold become white.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"threshold": map[string]interface{}{
						"type":        "integer",
						"description": "Threshold 0-255; out-of-range values are clamped",
					},
				},
				"required": []string{"threshold"},
			},
		},
		{
			Name:        "recipe_auto_threshold",
			Description: "Pick a preview threshold for the loaded image automatically (Otsu's method) and apply it.",
			InputSchema: noArgs(),
		},
		{
			Name:        "recipe_render",
			Description: "Render the selection preview as a base64-encoded PNG: the thresholded image with every region outlined in its category colour (ingredients blue, instructions green) and numbered. An optional grid labels display coordinates for pointer events.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"grid_spacing": map[string]interface{}{
						"type":        "integer",
						"description": "Spacing between grid lines in display pixels (default 0, no grid)",
						"default":     0,
					},
					"show_coordinates": map[string]interface{}{
						"type":        "boolean",
						"description": "Label grid intersections with their coordinates (default true)",
						"default":     true,
					},
					"grid_color": map[string]interface{}{
						"type":        "string",
						"description": "Grid colour as hex #RRGGBB or #RRGGBBAA (default semi-transparent red)",
						"default":     "#FF000080",
					},
				},
			},
		},

		// Regions
		{
			Name:        "recipe_set_category",
			Description: "Choose whether new regions are ingredients or instructions.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"category": categorySchema("Category for regions drawn from now on"),
				},
				"required": []string{"category"},
			},
		},
		{
			Name:        "recipe_pointer",
			Description: "Send one pointer event in display pixels. down starts a region, move resizes it, up or leave commits it. Regions with no area are discarded.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"event": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"down", "move", "up", "leave"},
						"description": "Pointer event",
					},
					"x": map[string]interface{}{
						"type":        "number",
						"description": "X position in display pixels. Required for down and move; optional for up",
					},
					"y": map[string]interface{}{
						"type":        "number",
						"description": "Y position in display pixels. Required for down and move; optional for up",
					},
				},
				"required": []string{"event"},
			},
		},
		{
			Name:        "recipe_draw_region",
			Description: "Draw a whole region from one display corner to the other with the active category. The rectangle is clamped to the image.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"x1": map[string]interface{}{"type": "number", "description": "Start X in display pixels"},
					"y1": map[string]interface{}{"type": "number", "description": "Start Y in display pixels"},
					"x2": map[string]interface{}{"type": "number", "description": "End X in display pixels"},
					"y2": map[string]interface{}{"type": "number", "description": "End Y in display pixels"},
				},
				"required": []string{"x1", "y1", "x2", "y2"},
			},
		},
		{
			Name:        "recipe_regions",
			Description: "List committed regions in the order they were drawn, with their image-space rectangles and any recognized text. Pass an id to fetch a single region.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"id": map[string]interface{}{
						"type":        "string",
						"description": "Only return the region with this id",
					},
					"include_crops": map[string]interface{}{
						"type":        "boolean",
						"description": "Include each region's cropped pixels as base64 PNG (default false)",
						"default":     false,
					},
				},
			},
		},
		{
			Name:        "recipe_remove_region",
			Description: "Delete one committed region.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"id": map[string]interface{}{
						"type":        "string",
						"description": "Region id from recipe_regions",
					},
				},
				"required": []string{"id"},
			},
		},
		{
			Name:        "recipe_clear_regions",
			Description: "Delete every committed region.",
			InputSchema: noArgs(),
		},
		{
			Name:        "recipe_suggest_regions",
			Description: "Find likely text blocks on the loaded image, in reading order. Optionally commit them as regions.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"use_ocr": map[string]interface{}{
						"type":        "boolean",
						"description": "Ask Tesseract for text blocks instead of the fast edge heuristic (default false)",
						"default":     false,
					},
					"min_confidence": map[string]interface{}{
						"type":        "number",
						"description": "Minimum confidence 0.0-1.0 (default 0.3)",
						"default":     0.3,
					},
					"max_regions": map[string]interface{}{
						"type":        "integer",
						"description": "Maximum number of suggestions (default 20)",
						"default":     20,
					},
					"commit": map[string]interface{}{
						"type":        "boolean",
						"description": "Commit every suggestion as a region (default false)",
						"default":     false,
					},
					"category": categorySchema("Category for committed suggestions (default: the active category)"),
				},
			},
		},

		// Recognition and editing
		{
			Name:        "recipe_extract",
			Description: "Run OCR on every region and build the recipe: ingredient regions yield one line per text line, instruction regions one line per paragraph. Fails as a whole if any region fails, leaving the regions unchanged.",
			InputSchema: noArgs(),
		},
		{
			Name:        "recipe_edit_line",
			Description: "Add, edit or remove an ingredient or instruction line of the extracted recipe. Editing a line to empty text removes it.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"section": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"ingredients", "instructions"},
						"description": "List to change",
					},
					"op": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"add", "edit", "remove"},
						"description": "Operation",
					},
					"index": map[string]interface{}{
						"type":        "integer",
						"description": "0-based line index for edit and remove",
					},
					"text": map[string]interface{}{
						"type":        "string",
						"description": "Line text for add and edit",
					},
				},
				"required": []string{"section", "op"},
			},
		},
		{
			Name:        "recipe_set_details",
			Description: "Set the recipe title and the prep time, cook time and servings notes.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"title":     map[string]interface{}{"type": "string", "description": "Recipe title (unchanged if omitted)"},
					"prep_time": map[string]interface{}{"type": "string", "description": "Preparation time, e.g. 15 minutes"},
					"cook_time": map[string]interface{}{"type": "string", "description": "Cooking time, e.g. 30 minutes"},
					"servings":  map[string]interface{}{"type": "string", "description": "Number of servings"},
				},
			},
		},

		// Wizard
		{
			Name:        "recipe_proceed",
			Description: "Move to the next wizard step (upload, select, edit, details, preview) if the current one is complete.",
			InputSchema: noArgs(),
		},
		{
			Name:        "recipe_back",
			Description: "Move to the previous wizard step. Regions and the recipe are kept.",
			InputSchema: noArgs(),
		},
		{
			Name:        "recipe_export",
			Description: "Render the recipe as Markdown and optionally write it to a file.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path of a .md file to write (optional)",
					},
				},
			},
		},
		{
			Name:        "recipe_status",
			Description: "Report the wizard step, loaded image, display scale, threshold, active category, region count, busy flag, current recipe and OCR engine version.",
			InputSchema: noArgs(),
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
