package questiongen

import (
	"strings"
	"unicode/utf8"

	"github.com/abhisek/interviewer/internal/interview"
)

const (
	maxQuestionLen = 500
	maxAnswerLen   = 100
)

// StructuralValidator checks that a question is well-formed.
type StructuralValidator struct{}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(q *Question, input GenerateInput) *ValidationError {
	fail := func(msg string) *ValidationError {
		return &ValidationError{Validator: v.Name(), Message: msg, Retryable: true}
	}

	text := strings.TrimSpace(q.Text)
	if text == "" {
		return fail("question text is empty")
	}
	if utf8.RuneCountInString(text) > maxQuestionLen {
		return fail("question text too long")
	}
	if q.Difficulty != 0 && (q.Difficulty < 1 || q.Difficulty > 5) {
		return fail("difficulty out of range")
	}

	if input.Round == interview.RoundBehavioural && q.ExpectedAnswer != "" {
		return fail("behavioural questions have no canonical answer")
	}
	if strings.ContainsAny(q.ExpectedAnswer, "\n\r") {
		return fail("expected answer spans multiple lines")
	}
	if utf8.RuneCountInString(q.ExpectedAnswer) > maxAnswerLen {
		return fail("expected answer too long")
	}
	return nil
}
