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
		"description": "Absolute path to the source image (png, jpg, jpeg, gif or svg)",
	}
}

func dpiProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "number",
		"description": "Resolution of the source in pixels per inch. Defaults to the source_dpi setting",
	}
}

func regionProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "object",
		"description": "Part of the image to print, in pixels. Omit to use the whole image",
		"properties": map[string]interface{}{
			"left":   map[string]interface{}{"type": "integer"},
			"top":    map[string]interface{}{"type": "integer"},
			"width":  map[string]interface{}{"type": "integer"},
			"height": map[string]interface{}{"type": "integer"},
		},
		"required": []string{"left", "top", "width", "height"},
	}
}

// stripJobProperties are shared by strip_plan and strip_render.
func stripJobProperties() map[string]interface{} {
	return map[string]interface{}{
		"path":   pathProperty(),
		"dpi":    dpiProperty(),
		"region": regionProperty(),
		"count": map[string]interface{}{
			"type":        "integer",
			"description": "Number of equal strips to cut the region into (top to bottom)",
			"minimum":     1,
		},
		"printer_width": map[string]interface{}{
			"type":        "number",
			"description": "Printable width in inches. Defaults to the printer_width setting",
		},
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	render := stripJobProperties()
	render["output"] = map[string]interface{}{
		"type":        "string",
		"description": "Where to write the mosaic. A .png extension writes PNG, anything else a PDF sized in inches",
	}

	return []Tool{
		{
			Name:        "image_load",
			Description: "Load an image file and return its size in pixels and inches at the given resolution.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"dpi":  dpiProperty(),
					"reload": map[string]interface{}{
						"type":        "boolean",
						"description": "Drop cached renditions and read the file again",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "strip_plan",
			Description: "Evaluate the lengthwise, crosswise and mixed strip arrangements for a region and report the one using the least paper.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": stripJobProperties(),
				"required":   []string{"path", "count"},
			},
		},
		{
			Name:        "strip_render",
			Description: "Cut a region into strips, lay them out on the cheapest arrangement, draw numbered cut marks and save the mosaic.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": render,
				"required":   []string{"path", "count", "output"},
			},
		},
		{
			Name:        "settings_get",
			Description: "Return the current printer and cut mark settings.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
		{
			Name:        "settings_update",
			Description: "Change and persist settings. Only the given fields change; reset restores the defaults first.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"reset":             map[string]interface{}{"type": "boolean", "description": "Restore defaults before applying the other fields"},
					"printer_width":     map[string]interface{}{"type": "number", "description": "Printable width in inches"},
					"line_length":       map[string]interface{}{"type": "number", "description": "Cut line length in inches"},
					"line_width":        map[string]interface{}{"type": "number", "description": "Cut line thickness in inches"},
					"text_top_margin":   map[string]interface{}{"type": "number", "description": "Gap between cut line and label in inches"},
					"text_right_margin": map[string]interface{}{"type": "number", "description": "Gap between label and right edge in inches"},
					"text_size":         map[string]interface{}{"type": "number", "description": "Label height in inches"},
					"color_alpha":       map[string]interface{}{"type": "integer", "description": "Mark opacity, 0-255"},
					"source_dpi":        map[string]interface{}{"type": "number", "description": "Resolution assumed for source files"},
				},
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
