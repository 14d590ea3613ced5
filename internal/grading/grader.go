// Package grading scores candidate answers. Every grader returns a Result
// and never an error; failures degrade to a zero breakdown with feedback.
package grading

import (
	"context"

	"github.com/abhisek/interviewer/internal/interview"
)

// Grader scores one answer.
type Grader interface {
	Name() string
	Grade(ctx context.Context, q interview.Question, answer string) Result
}

// Evaluator is a grader that can fail. Fallback turns it into a Grader.
type Evaluator interface {
	Name() string
	Evaluate(ctx context.Context, q interview.Question, answer string) (Result, error)
}

// Result is the outcome of grading one answer.
type Result struct {
	// Breakdown holds per-criterion scores on a 0-5 scale.
	Breakdown map[string]float64

	Feedback string

	// Detected lists the STAR components found by the heuristic grader.
	Detected []string

	// GraderName identifies the grader that produced the result.
	GraderName string

	// Confident is false when the result is a placeholder for a failed grade.
	Confident bool
}

// Evaluation converts the result to the stored form.
func (r Result) Evaluation() interview.Evaluation {
	return interview.NewEvaluation(r.Breakdown, r.Feedback)
}

// Breakdown keys per round.
const (
	KeySituation    = "situation"
	KeyTask         = "task"
	KeyAction       = "action"
	KeyResult       = "result"
	KeyCorrectness  = "correctness"
	KeyLogicQuality = "logic_quality"
	KeyAccuracy     = "accuracy"
	KeyMethodology  = "methodology"
)

// KeysFor returns the breakdown keys graded in round r.
func KeysFor(r interview.Round) []string {
	switch r {
	case interview.RoundBehavioural:
		return []string{KeySituation, KeyTask, KeyAction, KeyResult}
	case interview.RoundLogical:
		return []string{KeyCorrectness, KeyLogicQuality}
	case interview.RoundAptitude:
		return []string{KeyAccuracy, KeyMethodology}
	default:
		return nil
	}
}

// uniform builds a breakdown with every key set to v.
func uniform(keys []string, v float64) map[string]float64 {
	out := make(map[string]float64, len(keys))
	for _, k := range keys {
		out[k] = v
	}
	return out
}

// Unavailable is the zero-confidence result used when an answer cannot be graded.
func Unavailable(r interview.Round, name, feedback string) Result {
	return Result{
		Breakdown:  uniform(KeysFor(r), 0),
		Feedback:   feedback,
		GraderName: name,
	}
}

func clampScore(v float64) float64 {
	return min(5, max(0, v))
}
