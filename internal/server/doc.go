// Package server exposes the color analyzer as MCP (Model Context Protocol)
// tools.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//   - Logs: stderr, through logrus
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
//   - color_analyze_image: analyze an inline data URL or base64 image
//   - color_analyze_file: analyze an image file on disk
//   - color_classify_hsv: name an HSV triple directly
//
// Files analyzed with color_analyze_file are cached as decoded grids for the
// lifetime of the process and re-read when their size or mtime changes.
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
//	svc := service.NewColorService(cfg.ROIHalfWidth, log)
//	if err := server.New(svc, log).Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
