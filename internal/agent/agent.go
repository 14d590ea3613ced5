// Package agent pairs a question generator with a grader for each round.
package agent

import (
	"context"

	"github.com/abhisek/interviewer/internal/grading"
	"github.com/abhisek/interviewer/internal/interview"
	"github.com/abhisek/interviewer/internal/questiongen"
)

// Agent owns question generation and grading for one round.
type Agent interface {
	GenerateQuestion(ctx context.Context, sess *interview.Session) (*questiongen.Question, error)

	// EvaluateAnswer never fails; see grading.Grader.
	EvaluateAnswer(ctx context.Context, q interview.Question, answer string) grading.Result
}

// RoundAgent is the standard Agent built from a Generator and a Grader.
type RoundAgent struct {
	Round     interview.Round
	Generator questiongen.Generator
	Grader    grading.Grader
}

func (a *RoundAgent) GenerateQuestion(ctx context.Context, sess *interview.Session) (*questiongen.Question, error) {
	input := questiongen.InputFor(sess)
	input.Round = a.Round
	return a.Generator.Generate(ctx, input)
}

func (a *RoundAgent) EvaluateAnswer(ctx context.Context, q interview.Question, answer string) grading.Result {
	return a.Grader.Grade(ctx, q, answer)
}

// Table maps each question-bearing round to its agent.
type Table [interview.NumRounds]Agent

// For returns the agent for r. Finished and unknown rounds have none.
func (t *Table) For(r interview.Round) (Agent, bool) {
	i := r.Index()
	if i < 0 || t[i] == nil {
		return nil, false
	}
	return t[i], true
}

// Set installs a for round r. Rounds without a slot are ignored.
func (t *Table) Set(r interview.Round, a Agent) {
	if i := r.Index(); i >= 0 {
		t[i] = a
	}
}
