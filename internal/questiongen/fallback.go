package questiongen

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/interviewer/internal/interview"
	"github.com/abhisek/interviewer/internal/llm"
	"github.com/abhisek/interviewer/internal/logger"
)

// FallbackGenerator runs a primary generator under a timeout and switches to
// a secondary generator when the primary fails.
type FallbackGenerator struct {
	primary   Generator
	secondary Generator
	timeout   time.Duration
	log       *zap.Logger
}

// NewFallback creates a FallbackGenerator. A non-positive timeout disables
// the deadline on the primary.
func NewFallback(primary, secondary Generator, timeout time.Duration, log *zap.Logger) *FallbackGenerator {
	return &FallbackGenerator{
		primary:   primary,
		secondary: secondary,
		timeout:   timeout,
		log:       logger.OrNop(log),
	}
}

func (g *FallbackGenerator) Generate(ctx context.Context, input GenerateInput) (*Question, error) {
	pctx := ctx
	if g.timeout > 0 {
		var cancel context.CancelFunc
		pctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	q, err := g.primary.Generate(pctx, input)
	if err == nil {
		return q, nil
	}

	g.log.Warn("question generation failed, using fallback",
		zap.String(logger.FieldRound, string(input.Round)),
		zap.String("reason", llm.Reason(err)),
		zap.Error(err))

	q, ferr := g.secondary.Generate(ctx, input)
	if ferr != nil {
		return nil, ferr
	}
	q.Source = interview.SourceFallback
	return q, nil
}
