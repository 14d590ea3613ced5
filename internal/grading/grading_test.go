package grading

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/abhisek/interviewer/internal/interview"
	"github.com/abhisek/interviewer/internal/llm"
)

func question(round interview.Round, expected string) interview.Question {
	return interview.NewQuestion("What is 6 * 7?", round, expected, interview.SourceOffline)
}

func TestExactMatch(t *testing.T) {
	tests := []struct {
		name     string
		round    interview.Round
		answer   string
		expected string
		want     float64
	}{
		{"number inside sentence", interview.RoundAptitude, "the answer is 42", "42", 5},
		{"wrong number", interview.RoundAptitude, "41", "42", 1},
		{"partial number is not a match", interview.RoundAptitude, "420", "42", 1},
		{"decimal", interview.RoundAptitude, "It comes to 7.5 units", "7.5", 5},
		{"word substring", interview.RoundLogical, "I think it is cbu.", "CBU", 5},
		{"word case-insensitive", interview.RoundLogical, "  his SON ", "Son", 5},
		{"word mismatch", interview.RoundLogical, "daughter", "Son", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ExactMatch{}.Grade(context.Background(), question(tt.round, tt.expected), tt.answer)
			require.Len(t, res.Breakdown, 2)
			for k, v := range res.Breakdown {
				assert.Equal(t, tt.want, v, "key %s", k)
			}
			assert.Equal(t, tt.want, res.Evaluation().Score)
			assert.True(t, res.Confident)
		})
	}
}

func TestExactMatch_KeysAndFeedback(t *testing.T) {
	res := ExactMatch{}.Grade(context.Background(), question(interview.RoundAptitude, "42"), "the answer is 42")
	assert.Equal(t, map[string]float64{KeyAccuracy: 5, KeyMethodology: 5}, res.Breakdown)
	assert.Equal(t, "Correct! Your calculation/logic is spot on.", res.Feedback)

	res = ExactMatch{}.Grade(context.Background(), question(interview.RoundLogical, "42"), "41")
	assert.Equal(t, map[string]float64{KeyCorrectness: 1, KeyLogicQuality: 1}, res.Breakdown)
	assert.Equal(t, "Incorrect. The correct answer was 42.", res.Feedback)
}

func TestExactMatch_NoExpectedAnswer(t *testing.T) {
	res := ExactMatch{}.Grade(context.Background(), question(interview.RoundLogical, ""), "anything")
	assert.False(t, res.Confident)
	assert.Zero(t, res.Evaluation().Score)
	assert.Len(t, res.Breakdown, 2)
}

func TestIsNumeric(t *testing.T) {
	for s, want := range map[string]bool{"42": true, "7.5": true, "1.2.3": false, "": false, ".": false, "-3": false, "CBU": false} {
		assert.Equal(t, want, isNumeric(s), s)
	}
}

func TestSTARHeuristic_TooShort(t *testing.T) {
	res := STARHeuristic{}.Grade(context.Background(), interview.Question{}, "I fixed the problem and learned a lot.")
	assert.Equal(t, 1.0, res.Evaluation().Score)
	assert.Equal(t, "Answer needs improvement. Make sure to use the STAR method (Situation, Task, Action, Result).", res.Feedback)
}

func TestSTARHeuristic_LongCompleteAnswer(t *testing.T) {
	answer := "There was a situation on my last project where the release was slipping. " +
		"My task was to get the payment service back on schedule, and I had to do it without extra people. " +
		"I decided to split the work into smaller pieces, spoke to each engineer about blockers, and took over the reviews myself. " +
		"The result was that we shipped two days early and I learned how much clear ownership matters."
	require.Greater(t, len(strings.Fields(answer)), 50)

	res := STARHeuristic{}.Grade(context.Background(), interview.Question{}, answer)
	assert.Equal(t, 5.0, res.Evaluation().Score)
	assert.ElementsMatch(t, []string{KeySituation, KeyTask, KeyAction, KeyResult}, res.Detected)
	assert.Equal(t, "Strong answer! You covered: Context established, Task defined, Action described, Result shared, Good amount of detail. Well done.", res.Feedback)
	for _, k := range KeysFor(interview.RoundBehavioural) {
		assert.Equal(t, 5.0, res.Breakdown[k])
	}
}

func TestSTARHeuristic_MediumCappedAtTwo(t *testing.T) {
	// 10-29 words caps the score at 2 even with every component present.
	answer := "In that situation my task was clear, I decided to act and the result was a success for everyone involved."
	words := len(strings.Fields(answer))
	require.GreaterOrEqual(t, words, 10)
	require.Less(t, words, 30)

	res := STARHeuristic{}.Grade(context.Background(), interview.Question{}, answer)
	assert.Equal(t, 2.0, res.Evaluation().Score)
	assert.Len(t, res.Detected, 4)
}

func TestSTARHeuristic_DecentAnswer(t *testing.T) {
	// 30-50 words with three components scores 3.
	answer := "There was a problem with our build pipeline that slowed everyone down every single morning. " +
		"I decided to rewrite the caching layer over a weekend and then walked the team through the change. " +
		"We finally had builds that ran in minutes."
	words := len(strings.Fields(answer))
	require.GreaterOrEqual(t, words, 30)
	require.LessOrEqual(t, words, 50)

	res := STARHeuristic{}.Grade(context.Background(), interview.Question{}, answer)
	assert.Equal(t, 3.0, res.Evaluation().Score)
	assert.True(t, strings.HasPrefix(res.Feedback, "Decent answer. You covered: Context established, Action described, Result shared."))
}

func rubricReply(body string) llm.MockResponse {
	return llm.MockResponse{Content: json.RawMessage(body)}
}

func TestRubric_ParsesAndClamps(t *testing.T) {
	mock := llm.NewMockProvider(rubricReply(`{"situation":4,"task":7,"action":-1,"result":3,"feedback":" Good structure. "}`))
	g := NewRubric(mock, DefaultRubricConfig())

	res := g.Grade(context.Background(), interview.Question{Text: "Tell me about a conflict.", Round: interview.RoundBehavioural}, "...")
	assert.Equal(t, map[string]float64{KeySituation: 4, KeyTask: 5, KeyAction: 0, KeyResult: 3}, res.Breakdown)
	assert.Equal(t, "Good structure.", res.Feedback)
	assert.Equal(t, 3.0, res.Evaluation().Score)

	assert.Equal(t, 1, mock.CallsFor(llm.PurposeGrading))
	req := mock.Calls[0]
	assert.Equal(t, RubricSchemas[interview.RoundBehavioural], req.Schema)
	assert.Contains(t, req.System, "STAR")
}

func TestRubric_IncludesReferenceAnswer(t *testing.T) {
	mock := llm.NewMockProvider(rubricReply(`{"accuracy":5,"methodology":4,"feedback":"ok"}`))
	NewRubric(mock, DefaultRubricConfig()).Grade(context.Background(), question(interview.RoundAptitude, "42"), "42, since 6*7")

	msg := mock.Calls[0].Messages[0].Content
	assert.Contains(t, msg, "Reference answer: 42")
	assert.Contains(t, msg, "Answer: 42, since 6*7")
}

func TestRubric_Failures(t *testing.T) {
	tests := []struct {
		name string
		resp llm.MockResponse
	}{
		{"provider error", llm.MockResponse{Err: errors.New("quota")}},
		{"malformed json", rubricReply(`Great answer!`)},
		{"missing key", rubricReply(`{"correctness":4,"feedback":"ok"}`)},
		{"wrong type", rubricReply(`{"correctness":"high","logic_quality":3,"feedback":"ok"}`)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewRubric(llm.NewMockProvider(tt.resp), DefaultRubricConfig())
			q := interview.Question{Text: "Why are manhole covers round?", Round: interview.RoundLogical}

			_, err := g.Evaluate(context.Background(), q, "so they do not fall in")
			require.Error(t, err)

			g = NewRubric(llm.NewMockProvider(tt.resp), DefaultRubricConfig())
			res := g.Grade(context.Background(), q, "so they do not fall in")
			assert.False(t, res.Confident)
			assert.Equal(t, map[string]float64{KeyCorrectness: 0, KeyLogicQuality: 0}, res.Breakdown)
			assert.NotEmpty(t, res.Feedback)
		})
	}
}

func TestRubric_UnknownRound(t *testing.T) {
	mock := llm.NewMockProvider()
	_, err := NewRubric(mock, DefaultRubricConfig()).Evaluate(context.Background(), interview.Question{Round: interview.RoundFinished}, "x")
	require.Error(t, err)
	assert.Zero(t, mock.CallCount())
}

func TestFallback_UsesSecondaryOnError(t *testing.T) {
	core, observed := observer.New(zapcore.WarnLevel)
	rubric := NewRubric(llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrProviderUnavailable{}}), DefaultRubricConfig())
	g := NewFallback(rubric, STARHeuristic{}, zap.New(core))

	res := g.Grade(context.Background(), interview.Question{Round: interview.RoundBehavioural}, "too short")
	assert.Equal(t, "star-heuristic", res.GraderName)
	assert.Equal(t, 1.0, res.Evaluation().Score)
	assert.Equal(t, 1, observed.FilterMessage("answer grading failed, using fallback grader").Len())
	assert.Equal(t, "llm-rubric+star-heuristic", g.Name())
}

func TestFallback_PrimarySucceeds(t *testing.T) {
	rubric := NewRubric(llm.NewMockProvider(rubricReply(`{"situation":5,"task":5,"action":5,"result":5,"feedback":"Excellent."}`)), DefaultRubricConfig())
	res := NewFallback(rubric, STARHeuristic{}, nil).Grade(context.Background(), interview.Question{Round: interview.RoundBehavioural}, "short")
	assert.Equal(t, "llm-rubric", res.GraderName)
	assert.Equal(t, 5.0, res.Evaluation().Score)
}

func TestByAnswer(t *testing.T) {
	g := ByAnswer{Closed: ExactMatch{}}

	res := g.Grade(context.Background(), question(interview.RoundAptitude, "42"), "42")
	assert.Equal(t, "exact-match", res.GraderName)

	res = g.Grade(context.Background(), question(interview.RoundAptitude, ""), "about 40")
	assert.False(t, res.Confident)
	assert.Equal(t, map[string]float64{KeyAccuracy: 0, KeyMethodology: 0}, res.Breakdown)

	open := NewRubric(llm.NewMockProvider(rubricReply(`{"accuracy":3,"methodology":4,"feedback":"ok"}`)), DefaultRubricConfig())
	g.Open = open
	res = g.Grade(context.Background(), question(interview.RoundAptitude, ""), "about 40")
	assert.Equal(t, 3.5, res.Evaluation().Score)
}

func TestRubricSchemas_Shape(t *testing.T) {
	for _, r := range interview.Rounds {
		s := RubricSchemas[r]
		require.NotNil(t, s, "round %s", r)
		props := s.Definition["properties"].(map[string]any)
		assert.Len(t, props, len(KeysFor(r))+1)
		assert.Contains(t, props, "feedback")
	}
}

func TestDefaultRubricConfig_TimeoutIsShort(t *testing.T) {
	assert.Equal(t, 5*time.Second, DefaultRubricConfig().Timeout)
}
