package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"strings"

	"github.com/google/uuid"

	"github.com/ironsheep/recipe-ocr-mcp/internal/canvas"
	"github.com/ironsheep/recipe-ocr-mcp/internal/imaging"
	"github.com/ironsheep/recipe-ocr-mcp/internal/ocr"
	"github.com/ironsheep/recipe-ocr-mcp/internal/recipe"
	"github.com/ironsheep/recipe-ocr-mcp/internal/selection"
	"github.com/ironsheep/recipe-ocr-mcp/internal/wizard"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "recipe_load", "recipe_extract").
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

	result, err := s.executeTool(ctx, params.Name, params.Arguments)
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
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Applies default values for optional parameters
//  3. Calls the matching wizard session operation
//  4. Returns a JSON-friendly view of the result or the error
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Image
	case "recipe_load":
		return s.handleLoad(args)
	case "recipe_resize":
		return s.handleResize(args)
	case "recipe_set_threshold":
		return s.handleSetThreshold(args)
	case "recipe_auto_threshold":
		return s.handleAutoThreshold(args)
	case "recipe_render":
		return s.handleRender(args)

	// Regions
	case "recipe_set_category":
		return s.handleSetCategory(args)
	case "recipe_pointer":
		return s.handlePointer(args)
	case "recipe_draw_region":
		return s.handleDrawRegion(args)
	case "recipe_regions":
		return s.handleRegions(args)
	case "recipe_remove_region":
		return s.handleRemoveRegion(args)
	case "recipe_clear_regions":
		return s.handleClearRegions(args)
	case "recipe_suggest_regions":
		return s.handleSuggestRegions(ctx, args)

	// Recognition and editing
	case "recipe_extract":
		return s.handleExtract(ctx, args)
	case "recipe_edit_line":
		return s.handleEditLine(args)
	case "recipe_set_details":
		return s.handleSetDetails(args)

	// Wizard
	case "recipe_proceed":
		return s.handleProceed(args)
	case "recipe_back":
		return s.handleBack(args)
	case "recipe_export":
		return s.handleExport(args)
	case "recipe_status":
		return s.handleStatus(args)

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
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// decodeArgs unmarshals tool arguments. Tools without required arguments may
// be called with none at all.
func decodeArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 || string(args) == "null" {
		return nil
	}
	if err := json.Unmarshal(args, v); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

// regionView is a committed region as reported to the client.
type regionView struct {
	ID              uuid.UUID            `json:"id"`
	Number          int                  `json:"number"`
	Category        selection.Category   `json:"category"`
	Origin          selection.ImagePoint `json:"origin"`
	Extent          selection.Extent     `json:"extent"`
	RecognizedLines []string             `json:"recognized_lines"`
	CropWidth       int                  `json:"crop_width"`
	CropHeight      int                  `json:"crop_height"`
	CropBase64      string               `json:"crop_base64,omitempty"`
}

func viewRegion(r selection.Region, number int, includeCrop bool) regionView {
	v := regionView{
		ID:              r.ID,
		Number:          number,
		Category:        r.Category,
		Origin:          r.Origin,
		Extent:          r.Extent,
		RecognizedLines: r.RecognizedLines,
	}
	if r.Crop != nil {
		v.CropWidth, v.CropHeight = r.Crop.Width, r.Crop.Height
		if includeCrop {
			v.CropBase64 = r.Crop.Base64()
		}
	}
	return v
}

// === Image Handlers ===

type loadArgs struct {
	Path       string `json:"path"`
	DataBase64 string `json:"data_base64"`
}

type loadResult struct {
	*imaging.ImageInfo
	Scale float64     `json:"scale"`
	Step  wizard.Step `json:"step"`
}

func (s *Server) handleLoad(args json.RawMessage) (interface{}, error) {
	var a loadArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}

	var (
		info *imaging.ImageInfo
		err  error
	)
	switch {
	case a.Path != "" && a.DataBase64 != "":
		return nil, errors.New("pass either path or data_base64, not both")
	case a.Path != "":
		info, err = s.session.LoadImage(a.Path)
	case a.DataBase64 != "":
		data, derr := base64.StdEncoding.DecodeString(a.DataBase64)
		if derr != nil {
			return nil, fmt.Errorf("failed to decode base64: %w", derr)
		}
		info, err = s.session.LoadImageBytes(data)
	default:
		return nil, errors.New("path or data_base64 is required")
	}
	if err != nil {
		return nil, err
	}

	st := s.session.Status()
	return loadResult{ImageInfo: info, Scale: st.Scale, Step: st.Step}, nil
}

type resizeArgs struct {
	ContainerWidth int `json:"container_width"`
}

func (s *Server) handleResize(args json.RawMessage) (interface{}, error) {
	var a resizeArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.ContainerWidth < 0 {
		return nil, fmt.Errorf("container_width must be >= 0, got %d", a.ContainerWidth)
	}
	scale, err := s.session.Resize(a.ContainerWidth)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"container_width": a.ContainerWidth,
		"scale":           scale,
	}, nil
}

type thresholdArgs struct {
	Threshold *int `json:"threshold"`
}

func (s *Server) handleSetThreshold(args json.RawMessage) (interface{}, error) {
	var a thresholdArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Threshold == nil {
		return nil, errors.New("threshold is required")
	}
	return map[string]interface{}{"threshold": s.session.SetThreshold(*a.Threshold)}, nil
}

func (s *Server) handleAutoThreshold(args json.RawMessage) (interface{}, error) {
	t, err := s.session.AutoThreshold()
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"threshold": t}, nil
}

// renderResult mirrors the crop payload: a PNG as base64 plus its size
type renderResult struct {
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	Scale       float64 `json:"scale"`
	Threshold   uint8   `json:"threshold"`
	Regions     int     `json:"regions"`
	GridSpacing int     `json:"grid_spacing,omitempty"`
	MimeType    string  `json:"mime_type"`
	ImageBase64 string  `json:"image_base64"`
}

type renderArgs struct {
	GridSpacing     int    `json:"grid_spacing"`
	ShowCoordinates *bool  `json:"show_coordinates"`
	GridColor       string `json:"grid_color"`
}

func (s *Server) handleRender(args json.RawMessage) (interface{}, error) {
	var a renderArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.GridSpacing < 0 {
		return nil, fmt.Errorf("grid_spacing must be >= 0, got %d", a.GridSpacing)
	}
	if a.ShowCoordinates == nil {
		showCoordinates := true
		a.ShowCoordinates = &showCoordinates
	}
	if a.GridColor == "" {
		a.GridColor = canvas.DefaultGridColor
	}

	frame, err := s.session.Frame()
	if err != nil {
		return nil, err
	}

	var out image.Image = frame
	if a.GridSpacing > 0 {
		out = canvas.WithGrid(frame, canvas.GridOptions{
			Spacing:     a.GridSpacing,
			Coordinates: *a.ShowCoordinates,
			Color:       a.GridColor,
		})
	}

	snap, err := imaging.EncodeSnapshot(out)
	if err != nil {
		return nil, err
	}

	st := s.session.Status()
	return renderResult{
		Width:       snap.Width,
		Height:      snap.Height,
		Scale:       st.Scale,
		Threshold:   st.Threshold,
		Regions:     st.Regions,
		GridSpacing: a.GridSpacing,
		MimeType:    snap.MimeType,
		ImageBase64: snap.Base64(),
	}, nil
}

// === Region Handlers ===

type categoryArgs struct {
	Category string `json:"category"`
}

func (s *Server) handleSetCategory(args json.RawMessage) (interface{}, error) {
	var a categoryArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	cat, err := selection.ParseCategory(a.Category)
	if err != nil {
		return nil, err
	}
	if err := s.session.SetCategory(cat); err != nil {
		return nil, err
	}
	return map[string]interface{}{"category": cat}, nil
}

type pointerArgs struct {
	Event string   `json:"event"`
	X     *float64 `json:"x"`
	Y     *float64 `json:"y"`
}

// point returns the event position, or false when either coordinate is absent.
func (a pointerArgs) point() (selection.ScreenPoint, bool) {
	if a.X == nil || a.Y == nil {
		return selection.ScreenPoint{}, false
	}
	return selection.ScreenPoint{X: *a.X, Y: *a.Y}, true
}

func (s *Server) handlePointer(args json.RawMessage) (interface{}, error) {
	var a pointerArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	event := strings.ToLower(a.Event)
	p, hasPoint := a.point()

	var (
		committed *selection.Region
		err       error
	)
	switch event {
	case "down", "move":
		if !hasPoint {
			return nil, fmt.Errorf("%s event requires both x and y", event)
		}
		if event == "down" {
			err = s.session.PointerDown(p)
		} else {
			err = s.session.PointerMove(p)
		}
	case "up":
		// A release without a position commits the extent of the last move
		if hasPoint {
			err = s.session.PointerMove(p)
		}
		if err == nil {
			committed, err = s.session.PointerUp()
		}
	case "leave":
		committed, err = s.session.PointerLeave()
	default:
		return nil, fmt.Errorf("invalid event %q: use down, move, up or leave", a.Event)
	}
	if err != nil {
		return nil, err
	}

	st := s.session.Status()
	result := map[string]interface{}{
		"drawing": st.Drawing,
		"pending": st.Pending,
		"regions": st.Regions,
	}
	if committed != nil {
		result["committed"] = viewRegion(*committed, st.Regions, false)
	}
	return result, nil
}

type drawRegionArgs struct {
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
}

func (s *Server) handleDrawRegion(args json.RawMessage) (interface{}, error) {
	var a drawRegionArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	r, err := s.session.DrawRegion(selection.ScreenPoint{X: a.X1, Y: a.Y1}, selection.ScreenPoint{X: a.X2, Y: a.Y2})
	if err != nil {
		return nil, err
	}
	n := len(s.session.Regions())
	if r == nil {
		return map[string]interface{}{"committed": false, "regions": n}, nil
	}
	return map[string]interface{}{"committed": true, "region": viewRegion(*r, n, false), "regions": n}, nil
}

type regionsArgs struct {
	ID           string `json:"id"`
	IncludeCrops bool   `json:"include_crops"`
}

func (s *Server) handleRegions(args json.RawMessage) (interface{}, error) {
	var a regionsArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.ID != "" {
		id, err := uuid.Parse(a.ID)
		if err != nil {
			return nil, fmt.Errorf("invalid region id %q: %w", a.ID, err)
		}
		r, n, err := s.session.Region(id)
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{"count": 1, "regions": []regionView{viewRegion(r, n, a.IncludeCrops)}}, nil
	}
	regions := s.session.Regions()
	views := make([]regionView, len(regions))
	for i, r := range regions {
		views[i] = viewRegion(r, i+1, a.IncludeCrops)
	}
	return map[string]interface{}{"count": len(views), "regions": views}, nil
}

type removeRegionArgs struct {
	ID string `json:"id"`
}

func (s *Server) handleRemoveRegion(args json.RawMessage) (interface{}, error) {
	var a removeRegionArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	id, err := uuid.Parse(a.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid region id %q: %w", a.ID, err)
	}
	if err := s.session.RemoveRegion(id); err != nil {
		return nil, err
	}
	return map[string]interface{}{"removed": id, "regions": len(s.session.Regions())}, nil
}

func (s *Server) handleClearRegions(args json.RawMessage) (interface{}, error) {
	if err := s.session.ClearRegions(); err != nil {
		return nil, err
	}
	return map[string]interface{}{"regions": 0}, nil
}

type suggestArgs struct {
	UseOCR        bool    `json:"use_ocr"`
	MinConfidence float64 `json:"min_confidence"`
	MaxRegions    int     `json:"max_regions"`
	Commit        bool    `json:"commit"`
	Category      string  `json:"category"`
}

func (s *Server) handleSuggestRegions(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a suggestArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.MinConfidence == 0 {
		a.MinConfidence = 0.3
	}
	if a.MaxRegions == 0 {
		a.MaxRegions = 20
	}

	opts := wizard.SuggestOptions{
		UseOCR:        a.UseOCR,
		MinConfidence: a.MinConfidence,
		MaxRegions:    a.MaxRegions,
		Commit:        a.Commit,
	}
	if a.Category != "" {
		cat, err := selection.ParseCategory(a.Category)
		if err != nil {
			return nil, err
		}
		opts.Category = cat
	}

	suggestions, committed, err := s.session.SuggestRegions(ctx, opts)
	if err != nil {
		return nil, err
	}

	result := map[string]interface{}{
		"count":       len(suggestions),
		"suggestions": suggestions,
	}
	if a.Commit {
		total := len(s.session.Regions())
		views := make([]regionView, len(committed))
		for i, r := range committed {
			views[i] = viewRegion(r, total-len(committed)+i+1, false)
		}
		result["committed"] = views
	}
	return result, nil
}

// === Recognition and Editing Handlers ===

func (s *Server) handleExtract(ctx context.Context, args json.RawMessage) (interface{}, error) {
	res, err := s.session.Extract(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"ingredients":  res.Ingredients,
		"instructions": res.Instructions,
		"regions":      len(res.Regions),
		"step":         s.session.Status().Step,
	}, nil
}

type editLineArgs struct {
	Section string `json:"section"`
	Op      string `json:"op"`
	Index   int    `json:"index"`
	Text    string `json:"text"`
}

func (s *Server) handleEditLine(args json.RawMessage) (interface{}, error) {
	var a editLineArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	section, err := recipe.ParseSection(a.Section)
	if err != nil {
		return nil, err
	}
	return s.session.EditLine(section, wizard.LineOp(strings.ToLower(a.Op)), a.Index, a.Text)
}

type detailsArgs struct {
	Title    *string `json:"title"`
	PrepTime string  `json:"prep_time"`
	CookTime string  `json:"cook_time"`
	Servings string  `json:"servings"`
}

func (s *Server) handleSetDetails(args json.RawMessage) (interface{}, error) {
	var a detailsArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Title != nil {
		if _, err := s.session.SetTitle(*a.Title); err != nil {
			return nil, err
		}
	}
	return s.session.SetDetails(a.PrepTime, a.CookTime, a.Servings)
}

// === Wizard Handlers ===

func (s *Server) handleProceed(args json.RawMessage) (interface{}, error) {
	step, err := s.session.Proceed()
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"step": step}, nil
}

func (s *Server) handleBack(args json.RawMessage) (interface{}, error) {
	step, err := s.session.Back()
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"step": step}, nil
}

type exportArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleExport(args json.RawMessage) (interface{}, error) {
	var a exportArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	md, err := s.session.Export(a.Path)
	if err != nil {
		return nil, err
	}
	result := map[string]interface{}{"markdown": md}
	if a.Path != "" {
		result["path"] = a.Path
	}
	return result, nil
}

type statusResult struct {
	wizard.Status
	Engine ocr.Info `json:"engine"`
}

func (s *Server) handleStatus(args json.RawMessage) (interface{}, error) {
	return statusResult{
		Status: s.session.Status(),
		Engine: ocr.EngineInfo(ocr.Options{Language: s.cfg.Language, TessdataPrefix: s.cfg.TessdataPrefix}),
	}, nil
}
