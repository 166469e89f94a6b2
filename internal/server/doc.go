// Package server implements the MCP (Model Context Protocol) server for accent
// map capture and review.
//
// The server exposes two halves of the same tool. Respondent sessions drive
// the drawing and editing state machine one pointer event or questionnaire
// action at a time; review tools aggregate the areas of many submitted
// records into a grid heatmap and answer lasso and per-cell questions.
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
// Capture Sessions:
//   - session_create: Start a session on a blank canvas
//   - session_pointer: Pointer down, move, drag and up
//   - session_save: Submit the open questionnaire
//   - session_cancel: Close the questionnaire without saving
//   - session_edit_mode: Enter or leave edit mode
//   - session_select: Select an area by id or position
//   - session_delete: Delete the selected area
//   - session_edit: Reopen the questionnaire of the selected area
//   - session_resize: Change the view width
//   - session_state: Report areas, draft and questionnaire
//   - session_export: Submission payload with paper.js paths
//   - session_close: Discard a session
//
// Review:
//   - records_load: Load respondent records from a JSON file
//   - review_heatmap: Per-cell counts and colours
//   - review_cell: Detail of the cell under a point
//   - review_lasso: Areas overlapping a lasso polygon
//   - review_render: Heatmap or overview as a base64 PNG
//
// Tool input schemas are reflected from the argument structs with
// invopop/jsonschema.
//
// # Sessions
//
// Sessions live in a Registry keyed by a UUID. A call that runs into the
// capacity limit succeeds and carries a notice instead of failing, matching
// what a respondent sees in the browser.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// Questionnaire validation failures are not errors: session_save reports the
// invalid fields and leaves the questionnaire open.
//
// # Usage
//
//	cfg, err := config.FromEnv()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	srv := server.New(cfg)
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
