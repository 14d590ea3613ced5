package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"testing"
	"time"
)

func TestMockProvider_FIFO(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"question_text":"first"}`), Usage: Usage{InputTokens: 12, OutputTokens: 4, TotalTokens: 16}},
		MockResponse{Content: json.RawMessage(`{"question_text":"second"}`)},
	)

	first, err := mock.Generate(context.Background(), Request{System: "interviewer"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(first.Content) != `{"question_text":"first"}` {
		t.Fatalf("unexpected content: %s", first.Content)
	}
	if first.Usage.TotalTokens != 16 {
		t.Fatalf("expected 16 total tokens, got %d", first.Usage.TotalTokens)
	}

	second, err := mock.Generate(context.Background(), Request{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(second.Content) != `{"question_text":"second"}` {
		t.Fatalf("unexpected content: %s", second.Content)
	}

	if mock.CallCount() != 2 {
		t.Fatalf("expected 2 calls, got %d", mock.CallCount())
	}
	if mock.Calls[0].System != "interviewer" {
		t.Fatalf("first call not recorded: %+v", mock.Calls[0])
	}
}

func TestMockProvider_EmptyQueue(t *testing.T) {
	_, err := NewMockProvider().Generate(context.Background(), Request{})
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected ErrProviderUnavailable, got %T", err)
	}
}

func TestMockProvider_ConfiguredError(t *testing.T) {
	mock := NewMockProvider(MockResponse{Err: &ErrRateLimit{RetryAfter: time.Second}})
	_, err := mock.Generate(context.Background(), Request{})
	var rl *ErrRateLimit
	if !errors.As(err, &rl) {
		t.Fatalf("expected ErrRateLimit, got %T", err)
	}
	if rl.RetryAfter != time.Second {
		t.Fatalf("retry-after lost: %v", rl.RetryAfter)
	}
}

func TestPurposeContext(t *testing.T) {
	ctx := context.Background()
	if p := PurposeFrom(ctx); p != "unknown" {
		t.Fatalf("expected 'unknown', got %q", p)
	}
	ctx = WithPurpose(ctx, PurposeGrading)
	if p := PurposeFrom(ctx); p != "answer-grading" {
		t.Fatalf("expected 'answer-grading', got %q", p)
	}
	if r := RoundFrom(ctx); r != "" {
		t.Fatalf("expected no round, got %q", r)
	}

	ctx = WithRound(ctx, "logical")
	if PurposeFrom(ctx) != PurposeGrading || RoundFrom(ctx) != "logical" {
		t.Fatalf("round lost the purpose: %q/%q", PurposeFrom(ctx), RoundFrom(ctx))
	}
	ctx = WithPurpose(ctx, PurposeQuestion)
	if PurposeFrom(ctx) != PurposeQuestion || RoundFrom(ctx) != "logical" {
		t.Fatalf("purpose lost the round: %q/%q", PurposeFrom(ctx), RoundFrom(ctx))
	}
}

func TestReason(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{&ErrProviderUnavailable{Err: context.DeadlineExceeded}, "timeout"},
		{fmt.Errorf("LLM generation failed: %w", context.Canceled), "cancelled"},
		{&ErrRateLimit{Err: errors.New("429")}, "rate_limited"},
		{&ErrMaxTokensExceeded{}, "truncated"},
		{fmt.Errorf("wrapped: %w", &ErrInvalidResponse{Err: errors.New("bad")}), "invalid_response"},
		{&ErrProviderUnavailable{}, "unavailable"},
		{errors.New("boom"), "error"},
	}
	for _, tt := range tests {
		if got := Reason(tt.err); got != tt.want {
			t.Errorf("Reason(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestStatusError(t *testing.T) {
	var rl *ErrRateLimit
	if !errors.As(statusError(http.StatusTooManyRequests, errors.New("slow down")), &rl) {
		t.Fatal("429 should map to ErrRateLimit")
	}
	for _, code := range []int{http.StatusBadRequest, http.StatusUnauthorized, http.StatusServiceUnavailable} {
		var unavail *ErrProviderUnavailable
		if !errors.As(statusError(code, errors.New("nope")), &unavail) {
			t.Fatalf("%d should map to ErrProviderUnavailable", code)
		}
	}
}

func TestMockProvider_DelayHitsTimeout(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`{}`), Delay: time.Second})
	p := WithTimeout(mock, 20*time.Millisecond)

	ctx := WithPurpose(context.Background(), PurposeQuestion)
	_, err := p.Generate(ctx, Request{})
	if Reason(err) != "timeout" {
		t.Fatalf("expected a timeout, got %v", err)
	}
	if mock.CallsFor(PurposeQuestion) != 1 || mock.CallsFor(PurposeGrading) != 0 {
		t.Fatalf("calls not tracked by purpose: %d/%d", mock.CallsFor(PurposeQuestion), mock.CallsFor(PurposeGrading))
	}
}

func TestMockProvider_EmptyQueueFails(t *testing.T) {
	_, err := NewMockProvider().Generate(context.Background(), Request{})
	if Reason(err) != "unavailable" {
		t.Fatalf("expected unavailable, got %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"gemini without key", Config{Provider: "gemini"}, true},
		{"gemini with key", Config{Provider: "gemini", Gemini: GeminiConfig{APIKey: "g"}}, false},
		{"openrouter without key", Config{Provider: "openrouter"}, true},
		{"anthropic with key", Config{Provider: "anthropic", Anthropic: AnthropicConfig{APIKey: "a"}}, false},
		{"mock needs no key", Config{Provider: "mock"}, false},
		{"unknown provider", Config{Provider: "yagpt"}, true},
		{"timeout under the bound", Config{Provider: "mock", Timeout: 9 * time.Second}, false},
		{"timeout at the bound", Config{Provider: "mock", Timeout: 10 * time.Second}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfigFromEnv_OverridesDefaults(t *testing.T) {
	cfg, err := configFromEnv(map[string]string{
		"INTERVIEWER_LLM_PROVIDER":   "openai",
		"INTERVIEWER_OPENAI_API_KEY": "sk-test",
		"INTERVIEWER_OPENAI_MODEL":   "gpt-4.1-mini",
		"INTERVIEWER_LLM_TIMEOUT":    "3s",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Provider != "openai" || cfg.OpenAI.APIKey != "sk-test" || cfg.OpenAI.Model != "gpt-4.1-mini" {
		t.Fatalf("openai settings not parsed: %+v", cfg.OpenAI)
	}
	if cfg.Timeout != 3*time.Second {
		t.Fatalf("expected 3s timeout, got %v", cfg.Timeout)
	}
	// Unset values keep their defaults.
	if cfg.Gemini.Model != "gemini-flash" {
		t.Fatalf("expected default gemini model, got %q", cfg.Gemini.Model)
	}
}

func TestConfigFromEnv_BadDuration(t *testing.T) {
	if _, err := configFromEnv(map[string]string{"INTERVIEWER_LLM_TIMEOUT": "soon"}); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestDefaultConfig_TimeoutIsSingleDigitSeconds(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Timeout != 5*time.Second {
		t.Fatalf("expected 5s default timeout, got %v", cfg.Timeout)
	}
}

func TestDiscoverConfig_GoogleKey(t *testing.T) {
	for _, k := range []string{"GEMINI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY"} {
		t.Setenv(k, "")
	}
	t.Setenv("GOOGLE_API_KEY", "google-key")

	cfg, ok := DiscoverConfig()
	if !ok {
		t.Fatal("expected a discovered config")
	}
	if cfg.Provider != "gemini" || cfg.Gemini.APIKey != "google-key" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestDiscoverConfig_None(t *testing.T) {
	for _, k := range []string{"GEMINI_API_KEY", "GOOGLE_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY"} {
		t.Setenv(k, "")
	}
	if _, ok := DiscoverConfig(); ok {
		t.Fatal("expected no provider")
	}
}

func TestNewProvider_Mock(t *testing.T) {
	p, err := NewProvider(context.Background(), Config{Provider: "mock"}, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ModelID() != "mock" {
		t.Fatalf("expected mock provider, got %q", p.ModelID())
	}
}

func TestNewProvider_MissingKey(t *testing.T) {
	if _, err := NewProvider(context.Background(), Config{Provider: "anthropic"}, nil, nil); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestLookupCost(t *testing.T) {
	c := LookupCost("gpt-4o-mini")
	if c == nil {
		t.Fatal("expected pricing for gpt-4o-mini")
	}
	if got := c.Cost(1_000_000, 1_000_000); math.Abs(got-0.75) > 1e-9 {
		t.Fatalf("expected $0.75, got %v", got)
	}
	if LookupCost("google/gemini-2.0-flash") == nil {
		t.Fatal("vendor prefix should be ignored")
	}
	if LookupCost("no-such-model") != nil {
		t.Fatal("unknown model should have no pricing")
	}
}
