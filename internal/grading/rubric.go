package grading

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/abhisek/interviewer/internal/interview"
	"github.com/abhisek/interviewer/internal/llm"
)

// RubricConfig holds configuration for the LLM rubric grader.
type RubricConfig struct {
	MaxTokens   int
	Temperature float64

	// Timeout bounds one grading call. Zero means no extra bound.
	Timeout time.Duration
}

// DefaultRubricConfig returns sensible defaults.
func DefaultRubricConfig() RubricConfig {
	return RubricConfig{
		MaxTokens:   384,
		Temperature: 0.2,
		Timeout:     5 * time.Second,
	}
}

// Rubric grades answers with an LLM against a per-round rubric.
type Rubric struct {
	provider llm.Provider
	cfg      RubricConfig
}

// NewRubric creates an LLM rubric grader.
func NewRubric(provider llm.Provider, cfg RubricConfig) *Rubric {
	return &Rubric{provider: provider, cfg: cfg}
}

func (g *Rubric) Name() string { return "llm-rubric" }

// Grade never fails; errors produce a zero breakdown.
func (g *Rubric) Grade(ctx context.Context, q interview.Question, answer string) Result {
	res, err := g.Evaluate(ctx, q, answer)
	if err != nil {
		return Unavailable(q.Round, g.Name(), "Automatic grading was unavailable for this answer, so no score was awarded.")
	}
	return res
}

// Evaluate sends the answer to the LLM and parses the rubric scores.
func (g *Rubric) Evaluate(ctx context.Context, q interview.Question, answer string) (Result, error) {
	schema, ok := RubricSchemas[q.Round]
	if !ok {
		return Result{}, fmt.Errorf("no rubric for round %q", q.Round)
	}
	ctx = llm.WithRound(llm.WithPurpose(ctx, llm.PurposeGrading), string(q.Round))
	if g.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.cfg.Timeout)
		defer cancel()
	}

	userMsg, err := buildRubricMessage(q, answer)
	if err != nil {
		return Result{}, fmt.Errorf("build rubric prompt: %w", err)
	}

	resp, err := g.provider.Generate(ctx, llm.Request{
		System:      rubricSystemPrompts[q.Round],
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: userMsg}},
		Schema:      schema,
		MaxTokens:   g.cfg.MaxTokens,
		Temperature: g.cfg.Temperature,
	})
	if err != nil {
		return Result{}, fmt.Errorf("LLM grading failed: %w", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(resp.Content, &raw); err != nil {
		return Result{}, fmt.Errorf("failed to parse rubric response: %w", err)
	}

	breakdown := make(map[string]float64)
	for _, k := range KeysFor(q.Round) {
		v, ok := raw[k].(float64)
		if !ok {
			return Result{}, fmt.Errorf("rubric response missing %q", k)
		}
		breakdown[k] = clampScore(v)
	}
	feedback, _ := raw["feedback"].(string)

	return Result{
		Breakdown:  breakdown,
		Feedback:   strings.TrimSpace(feedback),
		GraderName: g.Name(),
		Confident:  true,
	}, nil
}

var rubricSystemPrompts = map[interview.Round]string{
	interview.RoundBehavioural: `You are a behavioural interview expert. Evaluate the candidate's answer using the STAR method.
Score each of situation, task, action and result from 0 to 5 and give concise feedback.`,
	interview.RoundLogical: `You are an interviewer evaluating a logical reasoning answer.
Score correctness and logic_quality from 0 to 5 and give concise feedback.`,
	interview.RoundAptitude: `You are an interviewer evaluating a quantitative aptitude answer.
Score accuracy and methodology from 0 to 5 and give concise feedback.`,
}

var rubricUserTemplate = template.Must(template.New("rubric").Parse(`Question: {{.Question.Text}}
{{if .Question.ExpectedAnswer}}Reference answer: {{.Question.ExpectedAnswer}}
{{end}}Answer: {{.Answer}}`))

func buildRubricMessage(q interview.Question, answer string) (string, error) {
	var buf bytes.Buffer
	err := rubricUserTemplate.Execute(&buf, struct {
		Question interview.Question
		Answer   string
	}{q, answer})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
