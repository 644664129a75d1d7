package server

import (
	"encoding/json"
	"fmt"

	"github.com/ironsheep/screen-marker-mcp/internal/geometry"
	"github.com/ironsheep/screen-marker-mcp/internal/imaging"
	"github.com/ironsheep/screen-marker-mcp/internal/locator"
	"github.com/ironsheep/screen-marker-mcp/internal/markers"
	"github.com/ironsheep/screen-marker-mcp/internal/matcher"
	"github.com/ironsheep/screen-marker-mcp/internal/session"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "markers_locate").
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
		s.logger.Debug("tool failed", "tool", params.Name, "error", err)
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
	switch name {
	// Markers
	case "markers_locate":
		return s.handleMarkersLocate(args)
	case "markers_list":
		return s.handleMarkersList(args)
	case "markers_rescan":
		return s.handleMarkersRescan(args)
	case "marker_find":
		return s.handleMarkerFind(args)

	// Window and coordinates
	case "window_resolve":
		return s.handleWindowResolve(args)
	case "coords_convert":
		return s.handleCoordsConvert(args)
	case "frame_snapshot":
		return s.handleFrameSnapshot(args)

	// Anchor
	case "anchor_locate":
		return s.handleAnchorLocate(args)
	case "anchor_state":
		return s.handleAnchorState(args)

	// Labels
	case "marker_read_label":
		return s.handleMarkerReadLabel(args)

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

// decodeArgs unmarshals tool arguments. Tools without required arguments
// accept a missing arguments object.
func decodeArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 || string(args) == "null" {
		return nil
	}
	return json.Unmarshal(args, v)
}

// === Marker Handlers ===

type markersLocateArgs struct {
	Refresh bool `json:"refresh"`
}

type markersLocateResult struct {
	Markers []matcher.Located `json:"markers"`
	Count   int               `json:"count"`
	Pass    uint64            `json:"pass"`
}

func (s *Server) handleMarkersLocate(args json.RawMessage) (interface{}, error) {
	var a markersLocateArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Refresh {
		s.svc.Update()
	}
	located, err := s.svc.LocateMarkers()
	if err != nil {
		return nil, err
	}
	return &markersLocateResult{Markers: located, Count: len(located), Pass: s.svc.CurrentPass()}, nil
}

type markersListResult struct {
	Markers     []session.MarkerInfo `json:"markers"`
	Count       int                  `json:"count"`
	CurrentPass uint64               `json:"current_pass"`
	Watch       session.WatchStats   `json:"watch"`
}

func (s *Server) handleMarkersList(args json.RawMessage) (interface{}, error) {
	ms := s.svc.Markers()
	return &markersListResult{
		Markers:     ms,
		Count:       len(ms),
		CurrentPass: s.svc.CurrentPass(),
		Watch:       s.svc.WatchStats(),
	}, nil
}

func (s *Server) handleMarkersRescan(args json.RawMessage) (interface{}, error) {
	report, err := s.svc.Rescan()
	if err != nil {
		return nil, err
	}
	return struct {
		markers.ScanReport
		Changed bool `json:"changed"`
	}{report, report.Changed()}, nil
}

type markerFindArgs struct {
	Name  string `json:"name"`
	Index int    `json:"index"`
}

type markerFindResult struct {
	Found  bool             `json:"found"`
	Marker *matcher.Located `json:"marker,omitempty"`
}

func (s *Server) handleMarkerFind(args json.RawMessage) (interface{}, error) {
	var a markerFindArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	var (
		loc matcher.Located
		ok  bool
		err error
	)
	if a.Name != "" {
		loc, ok, err = s.svc.ByName(a.Name)
	} else {
		loc, ok, err = s.svc.ByIndex(a.Index)
	}
	if err != nil {
		return nil, err
	}
	if !ok {
		return &markerFindResult{Found: false}, nil
	}
	return &markerFindResult{Found: true, Marker: &loc}, nil
}

// === Window and Coordinate Handlers ===

func (s *Server) handleWindowResolve(args json.RawMessage) (interface{}, error) {
	st, err := s.svc.Window()
	if err != nil {
		return nil, err
	}
	return &st, nil
}

type coordsConvertArgs struct {
	X      int    `json:"x"`
	Y      int    `json:"y"`
	From   string `json:"from"`
	To     string `json:"to"`
	Corner string `json:"corner"`
}

type coordsConvertResult struct {
	X     int    `json:"x"`
	Y     int    `json:"y"`
	Space string `json:"space"`
}

func (s *Server) handleCoordsConvert(args json.RawMessage) (interface{}, error) {
	var a coordsConvertArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	corner, err := geometry.ParseCorner(a.Corner)
	if err != nil {
		return nil, err
	}
	st, err := s.svc.Window()
	if err != nil {
		return nil, err
	}
	p, err := convertPoint(st, geometry.Pt(a.X, a.Y), a.From, a.To, corner)
	if err != nil {
		return nil, err
	}
	return &coordsConvertResult{X: p.X, Y: p.Y, Space: a.To}, nil
}

// convertPoint goes through screen coordinates.
func convertPoint(st locator.WindowState, p geometry.Point, from, to string, corner geometry.Corner) (geometry.Point, error) {
	var screen geometry.Point
	switch from {
	case "window":
		screen = st.WindowToScreen(p, corner)
	case "monitor":
		screen = st.MonitorToScreen(p)
	case "screen":
		screen = p
	default:
		return geometry.Point{}, fmt.Errorf("unknown coordinate space: %q (use window, monitor or screen)", from)
	}
	switch to {
	case "window":
		return st.ScreenToWindow(screen, corner), nil
	case "monitor":
		return st.ScreenToMonitor(screen), nil
	case "screen":
		return screen, nil
	default:
		return geometry.Point{}, fmt.Errorf("unknown coordinate space: %q (use window, monitor or screen)", to)
	}
}

type frameSnapshotArgs struct {
	X1    *int    `json:"x1"`
	Y1    *int    `json:"y1"`
	X2    *int    `json:"x2"`
	Y2    *int    `json:"y2"`
	Scale float64 `json:"scale"`
}

// region returns the requested rectangle, or nil when none was given.
func (a frameSnapshotArgs) region() (*geometry.Rect, error) {
	set := 0
	for _, v := range []*int{a.X1, a.Y1, a.X2, a.Y2} {
		if v != nil {
			set++
		}
	}
	switch set {
	case 0:
		return nil, nil
	case 4:
		r, err := geometry.FromLTRB(*a.X1, *a.Y1, *a.X2, *a.Y2)
		if err != nil {
			return nil, err
		}
		return &r, nil
	default:
		return nil, fmt.Errorf("region needs all of x1, y1, x2 and y2")
	}
}

type frameCaptureResult struct {
	*imaging.EncodedImage
	Region geometry.Rect `json:"region"`
}

func (s *Server) handleFrameSnapshot(args json.RawMessage) (interface{}, error) {
	var a frameSnapshotArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	region, err := a.region()
	if err != nil {
		return nil, err
	}
	if region == nil {
		return s.svc.Snapshot()
	}

	if a.Scale == 0 {
		a.Scale = 1.0
	}
	img, captured, err := s.svc.Capture(region)
	if err != nil {
		return nil, err
	}
	enc, err := imaging.Crop(img, geometry.Rect{Max: captured.Size()}, a.Scale)
	if err != nil {
		return nil, err
	}
	return &frameCaptureResult{EncodedImage: enc, Region: captured}, nil
}

// === Anchor Handlers ===

func (s *Server) handleAnchorLocate(args json.RawMessage) (interface{}, error) {
	info, err := s.svc.Anchor()
	if err != nil {
		return nil, err
	}
	return &info, nil
}

func (s *Server) handleAnchorState(args json.RawMessage) (interface{}, error) {
	active, err := s.svc.AnchorActive()
	if err != nil {
		return nil, err
	}
	return map[string]bool{"active": active}, nil
}

// === Label Handlers ===

type markerReadLabelArgs struct {
	Name string `json:"name"`
}

func (s *Server) handleMarkerReadLabel(args json.RawMessage) (interface{}, error) {
	var a markerReadLabelArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Name == "" {
		return nil, fmt.Errorf("name is required")
	}
	return s.svc.ReadLabel(a.Name)
}
