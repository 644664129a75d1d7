package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func prop(typ, description string) map[string]interface{} {
	return map[string]interface{}{"type": typ, "description": description}
}

func noArgs() map[string]interface{} {
	return map[string]interface{}{
		"type":       "object",
		"properties": map[string]interface{}{},
	}
}

// regionProps are the optional window-relative rectangle arguments.
func regionProps() map[string]interface{} {
	return map[string]interface{}{
		"x1": prop("integer", "Left edge X coordinate, window-relative (0-based)"),
		"y1": prop("integer", "Top edge Y coordinate, window-relative (0-based)"),
		"x2": prop("integer", "Right edge X coordinate (exclusive)"),
		"y2": prop("integer", "Bottom edge Y coordinate (exclusive)"),
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	frameProps := regionProps()
	frameProps["scale"] = map[string]interface{}{
		"type":        "number",
		"description": "Optional scale factor for a region capture (e.g., 2.0 to double size). Default 1.0",
		"default":     1.0,
	}

	return []Tool{
		// Markers
		{
			Name:        "markers_locate",
			Description: "Find every registered marker image inside the window's search strip. Returns window-relative regions sorted top to bottom, each tagged with the match pass that found it. Results are cached briefly; set refresh to start a new evaluation step.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"refresh": map[string]interface{}{
						"type":        "boolean",
						"description": "Force a new match pass and hold it until the next refresh. Default false",
						"default":     false,
					},
				},
			},
		},
		{
			Name:        "markers_list",
			Description: "List registered markers with their size, file time and the region and pass they were last located in. A last_pass older than current_pass means the region is stale.",
			InputSchema: noArgs(),
		},
		{
			Name:        "markers_rescan",
			Description: "Rescan the marker directory now: load new images, reload changed ones and unload deleted ones.",
			InputSchema: noArgs(),
		},
		{
			Name:        "marker_find",
			Description: "Find one located marker by name fragment or by index (top to bottom, wrapping; -1 is the lowest).",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"name":  prop("string", "Substring of the marker's file name"),
					"index": prop("integer", "Position in the top-to-bottom order; used when name is empty"),
				},
			},
		},

		// Window and coordinates
		{
			Name:        "window_resolve",
			Description: "Resolve the tracked window: its screen rectangle and the monitor it is on.",
			InputSchema: noArgs(),
		},
		{
			Name:        "coords_convert",
			Description: "Convert a point between window-relative, monitor-relative and screen coordinates.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"x": prop("integer", "X coordinate"),
					"y": prop("integer", "Y coordinate"),
					"from": map[string]interface{}{
						"type":        "string",
						"description": "Source coordinate space",
						"enum":        []string{"window", "monitor", "screen"},
					},
					"to": map[string]interface{}{
						"type":        "string",
						"description": "Target coordinate space",
						"enum":        []string{"window", "monitor", "screen"},
					},
					"corner": map[string]interface{}{
						"type":        "string",
						"description": "Window corner that window coordinates are measured from. Default tl",
						"enum":        []string{"tl", "tr", "br", "bl"},
						"default":     "tl",
					},
				},
				"required": []string{"x", "y", "from", "to"},
			},
		},
		{
			Name:        "frame_snapshot",
			Description: "Capture the window as base64-encoded PNG. Without a region, returns the marker search strip with every located marker outlined; with a region, returns that window-relative area clipped to the window.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": frameProps,
			},
		},

		// Anchor
		{
			Name:        "anchor_locate",
			Description: "Locate the anchor control near the configured window corner. Returns its center in screen and window coordinates.",
			InputSchema: noArgs(),
		},
		{
			Name:        "anchor_state",
			Description: "Report whether the anchor control is showing its active (red) state.",
			InputSchema: noArgs(),
		},

		// Labels
		{
			Name:        "marker_read_label",
			Description: "Read the text label printed to the right of a located marker using OCR.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"name": prop("string", "Substring of the marker's file name"),
				},
				"required": []string{"name"},
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
