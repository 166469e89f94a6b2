package server

import (
	"encoding/json"
	"fmt"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "session_create", "review_heatmap").
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
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Applies configured defaults for optional parameters
//  3. Runs the call against a capture session or the loaded record set
//  4. Returns the result or error
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Capture Sessions
	case "session_create":
		return s.handleSessionCreate(args)
	case "session_pointer":
		return s.handleSessionPointer(args)
	case "session_save":
		return s.handleSessionSave(args)
	case "session_cancel":
		return s.handleSessionCancel(args)
	case "session_edit_mode":
		return s.handleSessionEditMode(args)
	case "session_select":
		return s.handleSessionSelect(args)
	case "session_delete":
		return s.handleSessionDelete(args)
	case "session_edit":
		return s.handleSessionEdit(args)
	case "session_resize":
		return s.handleSessionResize(args)
	case "session_state":
		return s.handleSessionState(args)
	case "session_export":
		return s.handleSessionExport(args)
	case "session_close":
		return s.handleSessionClose(args)

	// Review
	case "records_load":
		return s.handleRecordsLoad(args)
	case "review_heatmap":
		return s.handleReviewHeatmap(args)
	case "review_cell":
		return s.handleReviewCell(args)
	case "review_lasso":
		return s.handleReviewLasso(args)
	case "review_render":
		return s.handleReviewRender(args)

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

// decodeArgs unmarshals tool arguments. Missing arguments decode as the zero
// value.
func decodeArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 || string(args) == "null" {
		return nil
	}
	if err := json.Unmarshal(args, v); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}
