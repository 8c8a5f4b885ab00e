// Package server implements the MCP (Model Context Protocol) server for the
// recipe OCR wizard.
//
// This package provides a JSON-RPC 2.0 server that drives one wizard session:
// a client loads a photo of a recipe, marks ingredient and instruction regions
// on it, runs OCR over those regions, corrects the text and exports a Markdown
// recipe.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Image:
//   - recipe_load: Load a photo (path or base64) and start selecting
//   - recipe_resize: Set the display container width
//   - recipe_set_threshold: Set the black/white preview threshold
//   - recipe_auto_threshold: Pick a threshold automatically
//   - recipe_render: Render the preview with region overlays as PNG
//
// Regions:
//   - recipe_set_category: Choose ingredient or instruction for new regions
//   - recipe_pointer: Send a down/move/up/leave pointer event
//   - recipe_draw_region: Draw a whole region in one call
//   - recipe_regions: List committed regions
//   - recipe_remove_region: Delete one region
//   - recipe_clear_regions: Delete every region
//   - recipe_suggest_regions: Propose text blocks, optionally committing them
//
// Recognition and editing:
//   - recipe_extract: OCR every region and build the recipe
//   - recipe_edit_line: Add, edit or remove a recipe line
//   - recipe_set_details: Set title, prep time, cook time and servings
//
// Wizard:
//   - recipe_proceed, recipe_back: Move between steps
//   - recipe_export: Render (and optionally write) the Markdown
//   - recipe_status: Report the session state
//
// # Coordinates
//
// Pointer and draw coordinates are display pixels: the loaded image is shown
// scaled down to the container width. Region rectangles are reported in
// source image pixels.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: The Go error string
//
// # Usage
//
//	srv := server.New(cfg, ocr.NewTesseractFactory(opts), logger)
//	if err := srv.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
package server
