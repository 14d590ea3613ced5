package grading

import (
	"context"

	"go.uber.org/zap"

	"github.com/abhisek/interviewer/internal/interview"
	"github.com/abhisek/interviewer/internal/llm"
	"github.com/abhisek/interviewer/internal/logger"
)

// Fallback grades with a primary Evaluator and falls back to a local grader
// when the primary fails.
type Fallback struct {
	primary   Evaluator
	secondary Grader
	log       *zap.Logger
}

// NewFallback creates a Fallback grader.
func NewFallback(primary Evaluator, secondary Grader, log *zap.Logger) *Fallback {
	return &Fallback{primary: primary, secondary: secondary, log: logger.OrNop(log)}
}

func (g *Fallback) Name() string { return g.primary.Name() + "+" + g.secondary.Name() }

func (g *Fallback) Grade(ctx context.Context, q interview.Question, answer string) Result {
	res, err := g.primary.Evaluate(ctx, q, answer)
	if err == nil {
		return res
	}
	g.log.Warn("answer grading failed, using fallback grader",
		zap.String(logger.FieldRound, string(q.Round)),
		zap.String("grader", g.secondary.Name()),
		zap.String("reason", llm.Reason(err)),
		zap.Error(err))
	return g.secondary.Grade(ctx, q, answer)
}

// ByAnswer routes questions with an expected answer to Closed and the rest
// to Open. A nil Open grader yields a zero-confidence result.
type ByAnswer struct {
	Closed Grader
	Open   Grader
}

func (g ByAnswer) Name() string { return "by-answer" }

func (g ByAnswer) Grade(ctx context.Context, q interview.Question, answer string) Result {
	if q.ExpectedAnswer != "" {
		return g.Closed.Grade(ctx, q, answer)
	}
	if g.Open == nil {
		return Unavailable(q.Round, g.Name(), "This open-ended question could not be graded automatically.")
	}
	return g.Open.Grade(ctx, q, answer)
}
