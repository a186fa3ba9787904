// Package server implements the MCP (Model Context Protocol) server for card
// screenshot extraction.
//
// The server speaks JSON-RPC 2.0 over stdio:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Logs go to the configured slog handler, never to stdout.
//
// Supported MCP methods are initialize, notifications/initialized,
// tools/list, tools/call and ping.
//
// # Tools
//
// Extraction:
//   - card_analyze: name, team, nationality and edition from a card screenshot
//   - card_extract_stats: merged ability scores from stat-page screenshots
//
// Layout tuning:
//   - card_crop_region: a region exactly as the recognizer sees it
//   - card_region_overlay: configured regions drawn on the screenshot
//   - card_suggest_regions: text-like areas as ready-made regions
//   - image_probe_luminance: pixel or region luminance against a threshold
//
// Other:
//   - image_load: load and cache a screenshot, report its metadata
//   - ocr_info: recognition backend version and installed languages
//
// Requests are handled one at a time, so each extraction owns its
// recognition sessions for the duration of the call.
//
// # Image Caching
//
// Decoded screenshots are cached by path for the lifetime of the server.
// image_load with reload set drops the cached copy first.
//
// # Error Handling
//
// Tool failures are returned as JSON-RPC errors with code -32000 and the Go
// error string as data. Fields that simply were not found are null in a
// successful result.
package server
