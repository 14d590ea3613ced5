package grading

import (
	"context"
	"fmt"
	"strings"

	"github.com/abhisek/interviewer/internal/interview"
)

// starGroup is one STAR component with the phrases that signal it.
type starGroup struct {
	key        string
	label      string
	indicators []string
}

var starGroups = []starGroup{
	{KeySituation, "Context established", []string{"situation", "when", "time", "project", "problem", "conflict"}},
	{KeyTask, "Task defined", []string{"task", "responsibility", "goal", "needed to", "had to"}},
	{KeyAction, "Action described", []string{"action", "i did", "decided", "took", "spoke", "created"}},
	{KeyResult, "Result shared", []string{"result", "outcome", "finally", "success", "learned"}},
}

// STARHeuristic grades behavioural answers by STAR keyword coverage and length.
type STARHeuristic struct{}

func (STARHeuristic) Name() string { return "star-heuristic" }

func (g STARHeuristic) Grade(_ context.Context, _ interview.Question, answer string) Result {
	text := strings.ToLower(answer)

	score := 0
	var parts, detected []string
	for _, grp := range starGroups {
		for _, ind := range grp.indicators {
			if strings.Contains(text, ind) {
				score++
				parts = append(parts, grp.label)
				detected = append(detected, grp.key)
				break
			}
		}
	}

	switch words := len(strings.Fields(text)); {
	case words < 10:
		score = 1
		parts = []string{"Answer way too short"}
	case words < 30:
		score = min(score, 2)
		parts = append(parts, "Could be more detailed")
	case words > 50:
		score++
		parts = append(parts, "Good amount of detail")
	}
	score = min(5, max(1, score))

	var feedback string
	switch {
	case score >= 4:
		feedback = fmt.Sprintf("Strong answer! You covered: %s. Well done.", strings.Join(parts, ", "))
	case score >= 3:
		feedback = fmt.Sprintf("Decent answer. You covered: %s. Try to elaborate more on the Result.", strings.Join(parts, ", "))
	default:
		feedback = "Answer needs improvement. Make sure to use the STAR method (Situation, Task, Action, Result)."
	}

	return Result{
		Breakdown:  uniform(KeysFor(interview.RoundBehavioural), float64(score)),
		Feedback:   feedback,
		Detected:   detected,
		GraderName: g.Name(),
		Confident:  true,
	}
}
