package agent

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/interviewer/internal/grading"
	"github.com/abhisek/interviewer/internal/interview"
	"github.com/abhisek/interviewer/internal/llm"
	"github.com/abhisek/interviewer/internal/questiongen"
)

func newTable(t *testing.T, opts Options) *Table {
	t.Helper()
	tbl, err := NewDefaultTable(opts)
	require.NoError(t, err)
	return tbl
}

func seeded(t *testing.T, seed uint64) questiongen.Generator {
	t.Helper()
	g, err := questiongen.NewOffline(questiongen.WithSeed(seed))
	require.NoError(t, err)
	return g
}

func TestTable_For(t *testing.T) {
	tbl := newTable(t, Options{Offline: seeded(t, 1)})

	for _, r := range interview.Rounds {
		a, ok := tbl.For(r)
		require.True(t, ok, "round %s", r)
		require.NotNil(t, a)
	}
	_, ok := tbl.For(interview.RoundFinished)
	assert.False(t, ok)
	_, ok = tbl.For(interview.Round("bogus"))
	assert.False(t, ok)

	var empty Table
	_, ok = empty.For(interview.RoundLogical)
	assert.False(t, ok)
}

func TestOfflineTable_GeneratesForSessionRound(t *testing.T) {
	tbl := newTable(t, Options{Offline: seeded(t, 9)})
	sess := interview.NewSession("Ada", time.Now())
	sess.CurrentRound = interview.RoundAptitude

	a, _ := tbl.For(interview.RoundAptitude)
	q, err := a.GenerateQuestion(context.Background(), sess)
	require.NoError(t, err)
	assert.NotEmpty(t, q.Text)
	assert.NotEmpty(t, q.ExpectedAnswer)
}

func TestOfflineTable_Grading(t *testing.T) {
	tbl := newTable(t, Options{})

	b, _ := tbl.For(interview.RoundBehavioural)
	res := b.EvaluateAnswer(context.Background(), interview.Question{Round: interview.RoundBehavioural}, "short")
	assert.Equal(t, "star-heuristic", res.GraderName)

	l, _ := tbl.For(interview.RoundLogical)
	res = l.EvaluateAnswer(context.Background(),
		interview.NewQuestion("2, 4, 6, 8, ...?", interview.RoundLogical, "10", interview.SourceOffline), "it's 10")
	assert.Equal(t, 5.0, res.Evaluation().Score)

	// Open-ended questions cannot be graded offline.
	res = l.EvaluateAnswer(context.Background(),
		interview.NewQuestion("Why are manhole covers round?", interview.RoundLogical, "", interview.SourceOffline), "shape")
	assert.False(t, res.Confident)
	assert.Zero(t, res.Evaluation().Score)
}

func TestLLMTable_UsesRubricForOpenEnded(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: json.RawMessage(`{"correctness":4,"logic_quality":4,"feedback":"Solid."}`)},
	)
	tbl := newTable(t, Options{
		Provider:     mock,
		GenConfig:    questiongen.DefaultConfig(),
		RubricConfig: grading.DefaultRubricConfig(),
	})

	l, _ := tbl.For(interview.RoundLogical)
	res := l.EvaluateAnswer(context.Background(),
		interview.NewQuestion("Why are manhole covers round?", interview.RoundLogical, "", interview.SourceLLM), "so they cannot fall through")
	assert.Equal(t, 4.0, res.Evaluation().Score)
	assert.Equal(t, "Solid.", res.Feedback)
}

func TestLLMTable_FallsBackOffline(t *testing.T) {
	mock := llm.NewMockProvider() // every call fails
	tbl := newTable(t, Options{
		Provider:     mock,
		Offline:      seeded(t, 4),
		GenConfig:    questiongen.DefaultConfig(),
		RubricConfig: grading.DefaultRubricConfig(),
	})
	sess := interview.NewSession("", time.Now())

	b, _ := tbl.For(interview.RoundBehavioural)
	q, err := b.GenerateQuestion(context.Background(), sess)
	require.NoError(t, err)
	assert.Equal(t, interview.SourceFallback, q.Source)
	assert.Equal(t, 1, mock.CallCount(), "a failed LLM call goes straight to the offline generator")

	res := b.EvaluateAnswer(context.Background(), interview.Question{Round: interview.RoundBehavioural}, "short")
	assert.Equal(t, "star-heuristic", res.GraderName)
}
