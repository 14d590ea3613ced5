package grading

import (
	"context"
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/abhisek/interviewer/internal/interview"
)

var numberPattern = regexp.MustCompile(`[-+]?\d*\.\d+|\d+`)

// ExactMatch grades closed-form answers against the question's expected answer.
type ExactMatch struct{}

func (ExactMatch) Name() string { return "exact-match" }

func (g ExactMatch) Grade(_ context.Context, q interview.Question, answer string) Result {
	if q.ExpectedAnswer == "" {
		return Unavailable(q.Round, g.Name(), "This question has no reference answer, so it could not be graded automatically.")
	}

	keys := KeysFor(q.Round)
	if Matches(answer, q.ExpectedAnswer) {
		return Result{
			Breakdown:  uniform(keys, 5),
			Feedback:   "Correct! Your calculation/logic is spot on.",
			GraderName: g.Name(),
			Confident:  true,
		}
	}
	return Result{
		Breakdown:  uniform(keys, 1),
		Feedback:   fmt.Sprintf("Incorrect. The correct answer was %s.", q.ExpectedAnswer),
		GraderName: g.Name(),
		Confident:  true,
	}
}

// Matches reports whether answer contains the expected answer. Numeric
// expected answers must appear as a whole number token; anything else is a
// case-insensitive substring match.
func Matches(answer, expected string) bool {
	got := strings.ToLower(strings.TrimSpace(answer))
	want := strings.ToLower(strings.TrimSpace(expected))

	if isNumeric(want) {
		return slices.Contains(numberPattern.FindAllString(got, -1), want)
	}
	return strings.Contains(got, want)
}

// isNumeric accepts digits with at most one decimal point.
func isNumeric(s string) bool {
	s = strings.Replace(s, ".", "", 1)
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
