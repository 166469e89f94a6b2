package server

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// toolSpec pairs a tool with the argument struct its schema is reflected from.
type toolSpec struct {
	name        string
	description string
	args        interface{}
}

var toolSpecs = []toolSpec{
	// Capture Sessions
	{
		name:        "session_create",
		description: "Start a respondent drawing session on a blank canvas. The canvas height is 1.25 times its width. Returns the session id used by every other session tool.",
		args:        sessionCreateArgs{},
	},
	{
		name:        "session_pointer",
		description: "Send pointer input to a session in view coordinates. 'down' starts a stroke (or selects in edit mode), 'move' and 'drag' extend it, 'up' closes and simplifies it and opens the questionnaire if it encloses an area.",
		args:        sessionPointerArgs{},
	},
	{
		name:        "session_save",
		description: "Submit the open questionnaire. Invalid answers are reported per field and the questionnaire stays open.",
		args:        sessionSaveArgs{},
	},
	{
		name:        "session_cancel",
		description: "Close the open questionnaire without saving. A new polygon is discarded; an edited area keeps its previous answers.",
		args:        sessionArgs{},
	},
	{
		name:        "session_edit_mode",
		description: "Enter or leave edit mode. Edit mode needs at least one saved area.",
		args:        sessionEditModeArgs{},
	},
	{
		name:        "session_select",
		description: "In edit mode select an area by id or by the topmost area under a point. Without either the selection is cleared.",
		args:        sessionSelectArgs{},
	},
	{
		name:        "session_delete",
		description: "Delete the selected area.",
		args:        sessionArgs{},
	},
	{
		name:        "session_edit",
		description: "Open the questionnaire for the selected area pre-filled with its current answers.",
		args:        sessionArgs{},
	},
	{
		name:        "session_resize",
		description: "Change the session's view width. Saved areas keep their canonical coordinates and are reported at the new size.",
		args:        sessionResizeArgs{},
	},
	{
		name:        "session_state",
		description: "Report a session's state: saved areas in view coordinates plus the draft polygon and questionnaire when open.",
		args:        sessionArgs{},
	},
	{
		name:        "session_export",
		description: "Export the saved areas as the submission payload: questionnaire answers and paper.js path strings in canonical coordinates.",
		args:        sessionArgs{},
	},
	{
		name:        "session_close",
		description: "Discard a session.",
		args:        sessionArgs{},
	},

	// Review
	{
		name:        "records_load",
		description: "Load the respondent records to review from a JSON file. Replaces any records loaded before.",
		args:        recordsLoadArgs{},
	},
	{
		name:        "review_heatmap",
		description: "Grid the review canvas and aggregate every cell. Returns per-cell counts and colours in the given mode plus an occupancy summary.",
		args:        reviewArgs{},
	},
	{
		name:        "review_cell",
		description: "Report the cell under a point: its count and mean ratings and colour and the areas overlapping it with the record each came from.",
		args:        reviewCellArgs{},
	},
	{
		name:        "review_lasso",
		description: "Return every area that overlaps a lasso polygon drawn in review view coordinates.",
		args:        reviewLassoArgs{},
	},
	{
		name:        "review_render",
		description: "Render the review canvas to a base64 PNG: either the heatmap or an overview of every area. An optional lasso highlights the areas it selects.",
		args:        reviewRenderArgs{},
	},
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	tools := make([]Tool, 0, len(toolSpecs))
	for _, t := range toolSpecs {
		tools = append(tools, Tool{
			Name:        t.name,
			Description: t.description,
			InputSchema: generateSchema(t.args),
		})
	}
	return tools
}

// generateSchema reflects an argument struct into a JSON schema object.
func generateSchema(v interface{}) map[string]interface{} {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties:  false,
		DoNotReference:             true,
		RequiredFromJSONSchemaTags: true,
	}
	schema := reflector.Reflect(v)
	m, err := schemaToMap(schema)
	if err != nil {
		panic(fmt.Sprintf("tool schema for %T: %v", v, err))
	}
	delete(m, "$schema")
	delete(m, "$id")
	return m
}

func schemaToMap(schema *jsonschema.Schema) (map[string]interface{}, error) {
	b, err := schema.MarshalJSON()
	if err != nil {
		return nil, err
	}
	var m map[string]interface{}
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	return m, nil
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
