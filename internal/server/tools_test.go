package server

import (
	"testing"
)

func TestGetToolDefinitions(t *testing.T) {
	tools := GetToolDefinitions()

	expectedTools := []string{
		"session_create",
		"session_pointer",
		"session_save",
		"session_cancel",
		"session_edit_mode",
		"session_select",
		"session_delete",
		"session_edit",
		"session_resize",
		"session_state",
		"session_export",
		"session_close",
		"records_load",
		"review_heatmap",
		"review_cell",
		"review_lasso",
		"review_render",
	}

	toolMap := make(map[string]Tool)
	for _, tool := range tools {
		if _, dup := toolMap[tool.Name]; dup {
			t.Errorf("duplicate tool %s", tool.Name)
		}
		toolMap[tool.Name] = tool
	}

	for _, name := range expectedTools {
		if _, ok := toolMap[name]; !ok {
			t.Errorf("Expected tool %s not found", name)
		}
	}
	if len(tools) != len(expectedTools) {
		t.Errorf("got %d tools, want %d", len(tools), len(expectedTools))
	}
}

func TestToolDefinitions_Structure(t *testing.T) {
	for _, tool := range GetToolDefinitions() {
		t.Run(tool.Name, func(t *testing.T) {
			if tool.Description == "" {
				t.Error("Tool description is empty")
			}
			if tool.InputSchema["type"] != "object" {
				t.Errorf("InputSchema.type: got %v, want object", tool.InputSchema["type"])
			}
			if _, ok := tool.InputSchema["properties"].(map[string]interface{}); !ok {
				t.Error("InputSchema.properties should be a map")
			}
			if tool.InputSchema["additionalProperties"] != false {
				t.Errorf("additionalProperties: got %v, want false", tool.InputSchema["additionalProperties"])
			}
			if _, ok := tool.InputSchema["$schema"]; ok {
				t.Error("InputSchema should not carry $schema")
			}
		})
	}
}

func requiredFields(tool Tool) map[string]bool {
	out := make(map[string]bool)
	list, _ := tool.InputSchema["required"].([]interface{})
	for _, r := range list {
		out[r.(string)] = true
	}
	return out
}

func TestToolDefinitions_RequiredFields(t *testing.T) {
	tests := []struct {
		tool     string
		required []string
		optional []string
	}{
		{"session_create", nil, []string{"width", "capacity", "tolerance"}},
		{"session_pointer", []string{"session", "event"}, []string{"x", "y", "path"}},
		{"session_save", []string{"session", "form"}, nil},
		{"session_select", []string{"session"}, []string{"id", "x", "y"}},
		{"review_heatmap", nil, []string{"mode", "viewWidth", "filter", "grid"}},
		{"review_cell", []string{"x", "y"}, []string{"mode", "filter"}},
		{"review_lasso", []string{"lasso"}, []string{"viewWidth"}},
		{"review_render", nil, []string{"kind", "region", "lasso", "background"}},
	}

	tools := make(map[string]Tool)
	for _, tool := range GetToolDefinitions() {
		tools[tool.Name] = tool
	}

	for _, tt := range tests {
		t.Run(tt.tool, func(t *testing.T) {
			tool := tools[tt.tool]
			props := tool.InputSchema["properties"].(map[string]interface{})
			required := requiredFields(tool)
			for _, name := range tt.required {
				if _, ok := props[name]; !ok {
					t.Errorf("property %s missing", name)
				}
				if !required[name] {
					t.Errorf("%s should be required", name)
				}
			}
			for _, name := range tt.optional {
				if _, ok := props[name]; !ok {
					t.Errorf("property %s missing", name)
				}
				if required[name] {
					t.Errorf("%s should be optional", name)
				}
			}
		})
	}
}

func TestToolDefinitions_PointerEventEnum(t *testing.T) {
	for _, tool := range GetToolDefinitions() {
		if tool.Name != "session_pointer" {
			continue
		}
		event := tool.InputSchema["properties"].(map[string]interface{})["event"].(map[string]interface{})
		enum, _ := event["enum"].([]interface{})
		if len(enum) != 4 {
			t.Errorf("event enum: got %v, want 4 values", enum)
		}
		return
	}
	t.Fatal("session_pointer not defined")
}
