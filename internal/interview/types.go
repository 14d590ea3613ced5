package interview

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// QuestionSource records which generator produced a question.
type QuestionSource string

const (
	SourceOffline  QuestionSource = "offline"
	SourceLLM      QuestionSource = "llm"
	SourceFallback QuestionSource = "fallback"
)

// DefaultDifficulty is assigned to questions that carry no difficulty tag.
const DefaultDifficulty = 1

// Question is a single prompt put to the candidate. Immutable once appended
// to a session.
type Question struct {
	ID         string `json:"id"`
	Text       string `json:"text"`
	Round      Round  `json:"round"`
	Difficulty int    `json:"difficulty"`

	// ExpectedAnswer is the canonical answer for closed-form questions.
	// Empty for open-ended questions. Persisted with the session but never
	// exposed to clients; see Public.
	ExpectedAnswer string `json:"expected_answer,omitempty"`

	// Source is the generator that produced this question.
	Source QuestionSource `json:"source,omitempty"`
}

// PublicQuestion is the client-facing view of a Question.
type PublicQuestion struct {
	ID         string `json:"id"`
	Text       string `json:"text"`
	Round      Round  `json:"round"`
	Difficulty int    `json:"difficulty"`
}

// Public returns the question without its expected answer.
func (q Question) Public() PublicQuestion {
	return PublicQuestion{
		ID:         q.ID,
		Text:       q.Text,
		Round:      q.Round,
		Difficulty: q.Difficulty,
	}
}

// NewQuestion builds a question with a fresh ID and the default difficulty.
func NewQuestion(text string, round Round, expected string, source QuestionSource) Question {
	return Question{
		ID:             uuid.NewString(),
		Text:           text,
		Round:          round,
		Difficulty:     DefaultDifficulty,
		ExpectedAnswer: expected,
		Source:         source,
	}
}

// Answer is the candidate's raw response to one question.
type Answer struct {
	QuestionID string    `json:"question_id"`
	Text       string    `json:"text"`
	Timestamp  time.Time `json:"timestamp"`
}

// Evaluation is the scored outcome of grading one answer.
type Evaluation struct {
	// Score is the mean of Breakdown on a 0-5 scale, or 0 when Breakdown is empty.
	Score     float64            `json:"score"`
	Feedback  string             `json:"feedback"`
	Breakdown map[string]float64 `json:"criteria_breakdown"`
}

// NewEvaluation derives the score from the breakdown.
func NewEvaluation(breakdown map[string]float64, feedback string) Evaluation {
	if breakdown == nil {
		breakdown = map[string]float64{}
	}
	var sum float64
	for _, v := range breakdown {
		sum += v
	}
	var score float64
	if len(breakdown) > 0 {
		score = sum / float64(len(breakdown))
	}
	return Evaluation{Score: score, Feedback: feedback, Breakdown: breakdown}
}

// NormalizeText folds question text for duplicate detection.
func NormalizeText(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
