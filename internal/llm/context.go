package llm

import "context"

// Purposes label LLM calls in logs and in the request event table.
const (
	PurposeQuestion = "question-gen"
	PurposeGrading  = "answer-grading"
	PurposeUnknown  = "unknown"
)

type callKey struct{}

// callInfo says why a request is made and for which round.
type callInfo struct {
	purpose string
	round   string
}

func callFrom(ctx context.Context) callInfo {
	c, _ := ctx.Value(callKey{}).(callInfo)
	return c
}

// WithPurpose labels requests made with ctx.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	c := callFrom(ctx)
	c.purpose = purpose
	return context.WithValue(ctx, callKey{}, c)
}

// WithRound records the interview round a request serves.
func WithRound(ctx context.Context, round string) context.Context {
	c := callFrom(ctx)
	c.round = round
	return context.WithValue(ctx, callKey{}, c)
}

// PurposeFrom returns the purpose label, or PurposeUnknown.
func PurposeFrom(ctx context.Context) string {
	if p := callFrom(ctx).purpose; p != "" {
		return p
	}
	return PurposeUnknown
}

// RoundFrom returns the round recorded by WithRound, or "".
func RoundFrom(ctx context.Context) string {
	return callFrom(ctx).round
}
