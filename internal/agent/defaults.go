package agent

import (
	"go.uber.org/zap"

	"github.com/abhisek/interviewer/internal/grading"
	"github.com/abhisek/interviewer/internal/interview"
	"github.com/abhisek/interviewer/internal/llm"
	"github.com/abhisek/interviewer/internal/questiongen"
)

// Options configures NewDefaultTable.
type Options struct {
	// Provider enables LLM generation and rubric grading when non-nil.
	Provider llm.Provider

	// Offline is the deterministic generator used directly or as fallback.
	Offline questiongen.Generator

	// GenConfig tunes the LLM generator.
	GenConfig questiongen.Config

	// RubricConfig tunes the LLM grader.
	RubricConfig grading.RubricConfig

	Logger *zap.Logger
}

// NewDefaultTable builds the standard agents. Without a provider everything
// runs offline: template questions, exact-match and STAR grading.
func NewDefaultTable(opts Options) (*Table, error) {
	offline := opts.Offline
	if offline == nil {
		g, err := questiongen.NewOffline()
		if err != nil {
			return nil, err
		}
		offline = g
	}

	gen := offline
	var rubric *grading.Rubric
	if opts.Provider != nil {
		llmGen := questiongen.NewLLM(opts.Provider, opts.GenConfig)
		gen = questiongen.NewFallback(llmGen, offline, opts.GenConfig.Timeout, opts.Logger)
		rubric = grading.NewRubric(opts.Provider, opts.RubricConfig)
	}

	var behavioural grading.Grader = grading.STARHeuristic{}
	closed := grading.ByAnswer{Closed: grading.ExactMatch{}}
	if rubric != nil {
		behavioural = grading.NewFallback(rubric, grading.STARHeuristic{}, opts.Logger)
		closed.Open = rubric
	}

	t := &Table{}
	t.Set(interview.RoundBehavioural, &RoundAgent{Round: interview.RoundBehavioural, Generator: gen, Grader: behavioural})
	t.Set(interview.RoundLogical, &RoundAgent{Round: interview.RoundLogical, Generator: gen, Grader: closed})
	t.Set(interview.RoundAptitude, &RoundAgent{Round: interview.RoundAptitude, Generator: gen, Grader: closed})
	return t, nil
}
