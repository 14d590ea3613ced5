package llm

import "testing"

func TestGeminiModelMapping(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"gemini-flash", "gemini-2.0-flash"},
		{"gemini-pro", "gemini-2.0-pro"},
		{"gemini-2.5-flash", "gemini-2.5-flash"},
	}
	for _, tt := range tests {
		if got := resolveModel(tt.input, geminiModels); got != tt.expected {
			t.Errorf("resolveModel(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestBuildGeminiSchema_BehaviouralRubric(t *testing.T) {
	score := map[string]any{"type": "integer", "minimum": 0, "maximum": 5}
	def := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"situation": score,
			"task":      score,
			"action":    score,
			"result":    score,
			"feedback":  map[string]any{"type": "string", "description": "Short constructive feedback"},
			"source": map[string]any{
				"type": "string",
				"enum": []any{"llm", "offline"},
			},
			"strengths": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
		},
		"required": []any{"situation", "task", "action", "result", "feedback"},
	}

	schema := buildGeminiSchema(def)

	if schema.Type != "OBJECT" {
		t.Fatalf("expected OBJECT type, got %s", schema.Type)
	}
	if len(schema.Properties) != 7 {
		t.Fatalf("expected 7 properties, got %d", len(schema.Properties))
	}
	if schema.Properties["situation"].Type != "INTEGER" {
		t.Fatalf("expected INTEGER for situation, got %s", schema.Properties["situation"].Type)
	}
	if schema.Properties["feedback"].Description != "Short constructive feedback" {
		t.Fatalf("description lost: %q", schema.Properties["feedback"].Description)
	}
	if len(schema.Properties["source"].Enum) != 2 {
		t.Fatalf("expected 2 enum values, got %d", len(schema.Properties["source"].Enum))
	}
	if schema.Properties["strengths"].Items.Type != "STRING" {
		t.Fatalf("expected STRING items, got %s", schema.Properties["strengths"].Items.Type)
	}
	if len(schema.Required) != 5 {
		t.Fatalf("expected 5 required fields, got %d", len(schema.Required))
	}
}

func TestMapGeminiType_UnknownDefaultsToString(t *testing.T) {
	if got := mapGeminiType("null"); got != "STRING" {
		t.Fatalf("expected STRING, got %s", got)
	}
}
