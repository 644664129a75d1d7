// Package server implements the MCP (Model Context Protocol) server for the
// screen marker tools.
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
// Markers:
//   - markers_locate: Find registered marker images in the window
//   - markers_list: Registered markers and where each was last seen
//   - markers_rescan: Reload the marker directory
//   - marker_find: One located marker by name or index
//
// Window and coordinates:
//   - window_resolve: Window rectangle and monitor
//   - coords_convert: Convert between window, monitor and screen space
//   - frame_snapshot: Annotated search strip or a window region as PNG
//
// Anchor:
//   - anchor_locate: Position of the anchor control
//   - anchor_state: Whether the anchor shows its active colour
//
// Labels:
//   - marker_read_label: OCR of the text next to a marker
//
// Marker regions and frame captures are measured from the top-left of the part
// of the window that is on its monitor. coords_convert measures window
// coordinates from the chosen corner of the full window rectangle; the two
// agree whenever the window lies entirely on one monitor.
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
//	srv := server.New(sess, server.Options{Version: version})
//	if err := srv.Run(ctx, os.Stdin, os.Stdout); err != nil {
//	    return err
//	}
package server
