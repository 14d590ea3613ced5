package grading

import (
	"github.com/abhisek/interviewer/internal/interview"
	"github.com/abhisek/interviewer/internal/llm"
)

// rubricSchema builds the response schema for a round. Scores are plain
// numbers; out-of-range values are clamped after parsing.
func rubricSchema(name, description string, keys []string) *llm.Schema {
	props := map[string]any{
		"feedback": map[string]any{
			"type":        "string",
			"description": "Concise feedback for the candidate",
		},
	}
	required := []any{}
	for _, k := range keys {
		props[k] = map[string]any{
			"type":        "number",
			"description": "Score from 0 to 5",
		}
		required = append(required, k)
	}
	required = append(required, "feedback")

	return &llm.Schema{
		Name:        name,
		Description: description,
		Definition: map[string]any{
			"type":                 "object",
			"properties":           props,
			"required":             required,
			"additionalProperties": false,
		},
	}
}

// RubricSchemas holds the response schema for each question-bearing round.
var RubricSchemas = map[interview.Round]*llm.Schema{
	interview.RoundBehavioural: rubricSchema("behavioural-rubric",
		"STAR method scores for a behavioural answer", KeysFor(interview.RoundBehavioural)),
	interview.RoundLogical: rubricSchema("logical-rubric",
		"Scores for a logical reasoning answer", KeysFor(interview.RoundLogical)),
	interview.RoundAptitude: rubricSchema("aptitude-rubric",
		"Scores for a quantitative aptitude answer", KeysFor(interview.RoundAptitude)),
}
