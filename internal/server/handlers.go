package server

import (
	"encoding/json"
	"fmt"

	"github.com/ironsheep/plotter-strips/internal/config"
	"github.com/ironsheep/plotter-strips/internal/export"
	"github.com/ironsheep/plotter-strips/internal/imaging"
	"github.com/ironsheep/plotter-strips/internal/layout"
	"github.com/ironsheep/plotter-strips/internal/plotter"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "strip_render").
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
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}

	switch name {
	case "image_load":
		return s.handleImageLoad(args)

	// Strip jobs
	case "strip_plan":
		return s.handleStripPlan(args)
	case "strip_render":
		return s.handleStripRender(args)

	// Settings
	case "settings_get":
		return s.handleSettingsGet(args)
	case "settings_update":
		return s.handleSettingsUpdate(args)

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

// dpiOr returns dpi, or the configured source resolution when dpi is unset.
func (s *Server) dpiOr(dpi float64) float64 {
	if dpi == 0 {
		return s.settings.SourceDPI
	}
	return dpi
}

// === Image Handlers ===

type imageLoadArgs struct {
	Path   string  `json:"path"`
	DPI    float64 `json:"dpi"`
	Reload bool    `json:"reload"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Reload {
		s.cache.Evict(a.Path)
	}
	return imaging.LoadImageInfo(s.cache, a.Path, s.dpiOr(a.DPI))
}

// === Strip Job Handlers ===

type stripJobArgs struct {
	Path         string             `json:"path"`
	DPI          float64            `json:"dpi"`
	Region       *imaging.CutRegion `json:"region"`
	Count        int                `json:"count"`
	PrinterWidth float64            `json:"printer_width"`
}

// request turns tool arguments into a pipeline request, filling unset
// fields from the settings.
func (s *Server) request(a stripJobArgs) (plotter.Request, error) {
	img, err := s.cache.Load(a.Path, s.dpiOr(a.DPI))
	if err != nil {
		return plotter.Request{}, err
	}

	printer := s.settings.Constraint()
	if a.PrinterWidth != 0 {
		printer.MaxWidthInches = a.PrinterWidth
	}

	req := plotter.Request{
		Source:  img,
		Count:   a.Count,
		Printer: printer,
		Overlay: s.settings.Overlay(),
	}
	if a.Region != nil {
		req.Region = *a.Region
	}
	return req, nil
}

type sizeInfo struct {
	WidthPx      int     `json:"width_px"`
	HeightPx     int     `json:"height_px"`
	WidthInches  float64 `json:"width_inches"`
	HeightInches float64 `json:"height_inches"`
}

func sizeOf(img *imaging.Image) sizeInfo {
	return sizeInfo{
		WidthPx:      img.Width(),
		HeightPx:     img.Height(),
		WidthInches:  img.WidthInches(),
		HeightInches: img.HeightInches(),
	}
}

type stripPlanResult struct {
	Region       sizeInfo         `json:"region"`
	Count        int              `json:"count"`
	PrinterWidth float64          `json:"printer_width"`
	Chosen       layout.Summary   `json:"chosen"`
	Candidates   []layout.Summary `json:"candidates"`
}

func (s *Server) handleStripPlan(args json.RawMessage) (interface{}, error) {
	var a stripJobArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	req, err := s.request(a)
	if err != nil {
		return nil, err
	}

	cut, plan, candidates, err := plotter.Plan(req)
	if err != nil {
		return nil, err
	}

	return &stripPlanResult{
		Region:       sizeOf(cut),
		Count:        req.Count,
		PrinterWidth: req.Printer.MaxWidthInches,
		Chosen:       layout.Summarize(plan),
		Candidates:   layout.SummarizeAll(candidates),
	}, nil
}

type stripRenderArgs struct {
	stripJobArgs
	Output string `json:"output"`
}

type stripRenderResult struct {
	Output string         `json:"output"`
	Format export.Format  `json:"format"`
	Mosaic sizeInfo       `json:"mosaic"`
	Plan   layout.Summary `json:"plan"`
}

func (s *Server) handleStripRender(args json.RawMessage) (interface{}, error) {
	var a stripRenderArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Output == "" {
		return nil, fmt.Errorf("output path is required")
	}
	req, err := s.request(a.stripJobArgs)
	if err != nil {
		return nil, err
	}

	res, err := plotter.Process(req)
	if err != nil {
		return nil, err
	}
	if err := export.Write(a.Output, res.Mosaic); err != nil {
		return nil, err
	}

	return &stripRenderResult{
		Output: a.Output,
		Format: export.FormatFor(a.Output),
		Mosaic: sizeOf(res.Mosaic),
		Plan:   layout.Summarize(res.Plan),
	}, nil
}

// === Settings Handlers ===

type settingsResult struct {
	Path     string          `json:"path"`
	Settings config.Settings `json:"settings"`
}

func (s *Server) handleSettingsGet(args json.RawMessage) (interface{}, error) {
	return &settingsResult{Path: s.settingsPath, Settings: s.settings}, nil
}

func (s *Server) handleSettingsUpdate(args json.RawMessage) (interface{}, error) {
	var flags struct {
		Reset bool `json:"reset"`
	}
	if err := json.Unmarshal(args, &flags); err != nil {
		return nil, err
	}

	// A reset lands on disk even if the fields given with it are rejected.
	if flags.Reset {
		defaults, err := config.Reset(s.settingsPath)
		if err != nil {
			return nil, err
		}
		s.settings = defaults
	}

	next := s.settings
	if err := json.Unmarshal(args, &next); err != nil {
		return nil, err
	}

	if err := config.Save(s.settingsPath, next); err != nil {
		return nil, err
	}
	s.settings = next

	return &settingsResult{Path: s.settingsPath, Settings: s.settings}, nil
}
