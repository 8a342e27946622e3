// Package server implements the MCP (Model Context Protocol) server for plotter-strips.
//
// This package provides a JSON-RPC 2.0 server that exposes the strip pipeline
// as tools, so an MCP client can plan and render plotter mosaics.
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
//   - image_load: Load an image and report its size in pixels and inches
//   - strip_plan: Evaluate the three strip arrangements and pick the shortest
//   - strip_render: Compose the mosaic with cut marks and write PNG or PDF
//   - settings_get: Show the printer and cut mark settings
//   - settings_update: Change, reset and persist settings
//
// # Image Caching
//
// Loaded images are cached by path and resolution for the lifetime of the
// process, so planning and then rendering the same file decodes it once.
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
//	srv := server.New()
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
