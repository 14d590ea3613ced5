package questiongen

import "github.com/abhisek/interviewer/internal/llm"

// QuestionSchema defines the JSON schema for LLM question generation responses.
var QuestionSchema = &llm.Schema{
	Name:        "interview-question",
	Description: "A single interview question with an optional canonical answer",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"question_text": map[string]any{
				"type":        "string",
				"description": "The question put to the candidate, in plain text",
			},
			"expected_answer": map[string]any{
				"type":        "string",
				"description": "The short canonical answer (a number or a word). Empty for open-ended questions.",
			},
			"difficulty": map[string]any{
				"type":        "integer",
				"minimum":     1,
				"maximum":     5,
				"description": "Self-assessed difficulty from 1 (easy) to 5 (hard)",
			},
		},
		"required":             []any{"question_text", "expected_answer", "difficulty"},
		"additionalProperties": false,
	},
}
