package questiongen

import (
	"context"

	"github.com/abhisek/interviewer/internal/interview"
)

// Generator produces interview questions for a round.
type Generator interface {
	// Generate produces a single question for the given input context.
	// All configured validators are run before returning.
	Generate(ctx context.Context, input GenerateInput) (*Question, error)
}

// Question is a generated question before it is attached to a session.
type Question struct {
	// Text is the prompt shown to the candidate.
	Text string

	// ExpectedAnswer is the canonical answer for questions that have one.
	// Empty for open-ended questions.
	ExpectedAnswer string

	// Difficulty is the self-assessed difficulty (1-5). Zero means default.
	Difficulty int

	// Source records which backend produced the question.
	Source interview.QuestionSource
}

// GenerateInput holds all context needed to generate a question.
type GenerateInput struct {
	// Round is the round the question is for.
	Round interview.Round

	// CandidateName is included in LLM prompts when known.
	CandidateName string

	// PriorQuestions contains the text of questions already asked in this
	// session. Used for deduplication in the prompt.
	PriorQuestions []string
}

// InputFor builds a GenerateInput from the session's current state.
func InputFor(sess *interview.Session) GenerateInput {
	prior := make([]string, 0, len(sess.Questions))
	for _, q := range sess.Questions {
		prior = append(prior, q.Text)
	}
	return GenerateInput{
		Round:          sess.CurrentRound,
		CandidateName:  sess.CandidateName,
		PriorQuestions: prior,
	}
}
