// Package server implements the MCP (Model Context Protocol) server for
// saliency evaluation tools.
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
// Basic Image Information:
//   - image_load: Load image and get metadata
//   - image_dimensions: Get width and height
//
// Tumour Localisation:
//   - saliency_locate_tumor: Locate the tumour circle and its pixel ranges
//   - saliency_has_tumor: Report whether a tumour was located
//   - saliency_highlight_tumor: Draw the located region on the slice
//   - saliency_crop_tumor: Crop the region's bounding square
//   - saliency_edge_map: Show the edges the circle detector votes from
//
// Saliency Scoring:
//   - saliency_classify_pixel: Classify one explanation pixel
//   - saliency_analyse: Score an explanation against the located tumour
//
// Tools that take a slice accept "prepare": true to run the scan through
// skull stripping and resizing first, matching the batch evaluation.
//
// # Image Caching
//
// Loaded images are cached by path for the lifetime of the process.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with code
// -32000 and the Go error string as data. Diagnostics are logged to stderr
// so they never corrupt the protocol stream on stdout.
//
// # Usage
//
//	srv := server.New(server.WithLogger(logger))
//	if err := srv.Run(); err != nil {
//	    return err
//	}
package server
