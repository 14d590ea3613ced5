package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/abhisek/interviewer/internal/interview"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
		{"busy_timeout", "5000"},
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestOpen_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reopen.db")
	ctx := context.Background()

	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	sess := interview.NewSession("Ada", time.Now())
	if err := s.Sessions().Create(ctx, sess); err != nil {
		t.Fatalf("create: %v", err)
	}
	s.Close()

	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	if _, err := s.Sessions().Get(ctx, sess.ID); err != nil {
		t.Fatalf("session lost across reopen: %v", err)
	}
}

func TestMigrate_CreatesSchemaIdempotently(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := migrate(ctx, s.DB()); err != nil {
		t.Fatalf("second migrate: %v", err)
	}

	for _, name := range []string{
		tableSessions, tableLLMEvents, tableSessionEvents, tableSequence,
		"idx_sessions_updated", "idx_llm_purpose", "idx_session_events_session",
	} {
		var n int
		err := s.DB().QueryRowContext(ctx,
			`SELECT COUNT(*) FROM sqlite_master WHERE name = ?`, name).Scan(&n)
		if err != nil {
			t.Fatalf("lookup %s: %v", name, err)
		}
		if n != 1 {
			t.Errorf("expected %s to exist once, found %d", name, n)
		}
	}
}

func TestSequenceCounter(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		got, err := s.seq.Next(ctx)
		if err != nil {
			t.Fatalf("next: %v", err)
		}
		if got != want {
			t.Fatalf("Next() = %d, want %d", got, want)
		}
	}
}

func TestDefaultDBPath(t *testing.T) {
	dir := t.TempDir()

	t.Setenv("INTERVIEWER_DB", filepath.Join(dir, "custom", "x.db"))
	p, err := DefaultDBPath()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p != filepath.Join(dir, "custom", "x.db") {
		t.Fatalf("env override ignored: %s", p)
	}

	t.Setenv("INTERVIEWER_DB", "")
	t.Setenv("XDG_DATA_HOME", dir)
	p, err = DefaultDBPath()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p != filepath.Join(dir, "interviewer", "interviewer.db") {
		t.Fatalf("unexpected XDG path: %s", p)
	}
}

func TestLLMEvents(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	events := []LLMRequestEventData{
		{Provider: "openai", Model: "gpt-4o-mini", Purpose: "question-gen", InputTokens: 100, OutputTokens: 20, LatencyMs: 300, Success: true},
		{Provider: "openai", Model: "gpt-4o-mini", Purpose: "answer-grading", InputTokens: 50, OutputTokens: 10, LatencyMs: 100, Success: true},
		{Provider: "openai", Model: "gpt-4o-mini", Purpose: "answer-grading", InputTokens: 70, OutputTokens: 30, LatencyMs: 200, Success: false, ErrorMessage: "timeout"},
	}
	for _, e := range events {
		if err := repo.AppendLLMRequest(ctx, e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	got, err := repo.QueryLLMEvents(ctx, QueryOpts{Limit: 2})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 events, got %d", len(got))
	}
	if got[0].ErrorMessage != "timeout" || got[0].Success {
		t.Fatalf("expected newest event first, got %+v", got[0])
	}
	if got[0].Sequence <= got[1].Sequence {
		t.Fatalf("sequence not increasing: %d <= %d", got[0].Sequence, got[1].Sequence)
	}

	filtered, err := repo.QueryLLMEvents(ctx, QueryOpts{Purpose: "question-gen"})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(filtered) != 1 || filtered[0].InputTokens != 100 {
		t.Fatalf("purpose filter failed: %+v", filtered)
	}

	one, err := repo.GetLLMEvent(ctx, filtered[0].ID)
	if err != nil || one == nil {
		t.Fatalf("get: %v", err)
	}
	if one.Purpose != "question-gen" {
		t.Fatalf("unexpected event: %+v", one)
	}

	missing, err := repo.GetLLMEvent(ctx, 9999)
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil for missing event, got %+v", missing)
	}
}

func TestLLMUsage(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	for _, e := range []LLMRequestEventData{
		{Model: "a", Purpose: "answer-grading", InputTokens: 10, OutputTokens: 1, LatencyMs: 100},
		{Model: "a", Purpose: "answer-grading", InputTokens: 20, OutputTokens: 2, LatencyMs: 300},
		{Model: "b", Purpose: "question-gen", InputTokens: 5, OutputTokens: 5, LatencyMs: 50},
	} {
		if err := repo.AppendLLMRequest(ctx, e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	byPurpose, err := repo.LLMUsageByPurpose(ctx)
	if err != nil {
		t.Fatalf("usage by purpose: %v", err)
	}
	if len(byPurpose) != 2 {
		t.Fatalf("expected 2 purposes, got %+v", byPurpose)
	}
	grading := byPurpose[0]
	if grading.Purpose != "answer-grading" || grading.Calls != 2 || grading.InputTokens != 30 || grading.AvgLatencyMs != 200 {
		t.Fatalf("unexpected grading usage: %+v", grading)
	}

	byModel, err := repo.LLMUsageByModel(ctx)
	if err != nil {
		t.Fatalf("usage by model: %v", err)
	}
	if len(byModel) != 2 || byModel[1].Model != "b" || byModel[1].OutputTokens != 5 {
		t.Fatalf("unexpected model usage: %+v", byModel)
	}
}

func TestSessionEvents(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	steps := []SessionEventData{
		{SessionID: "s1", Action: ActionStarted, Round: "behavioural"},
		{SessionID: "s2", Action: ActionStarted, Round: "behavioural"},
		{SessionID: "s1", Action: ActionGraded, Round: "behavioural", QuestionID: "q1", Score: 3.5},
	}
	for _, e := range steps {
		if err := repo.AppendSessionEvent(ctx, e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	got, err := repo.SessionEvents(ctx, "s1")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 events for s1, got %d", len(got))
	}
	if got[1].Action != ActionGraded || got[1].Score != 3.5 || got[1].QuestionID != "q1" {
		t.Fatalf("unexpected event: %+v", got[1])
	}
}

func TestPruneEvents(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	old := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return old }
	if err := repo.AppendLLMRequest(ctx, LLMRequestEventData{Model: "m", Purpose: "p"}); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := repo.AppendSessionEvent(ctx, SessionEventData{SessionID: "s", Action: ActionStarted}); err != nil {
		t.Fatalf("append: %v", err)
	}
	repo.now = time.Now
	if err := repo.AppendLLMRequest(ctx, LLMRequestEventData{Model: "m", Purpose: "p"}); err != nil {
		t.Fatalf("append: %v", err)
	}

	n, err := repo.PruneEvents(ctx, old.Add(time.Hour))
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 pruned events, got %d", n)
	}
	left, _ := repo.QueryLLMEvents(ctx, QueryOpts{})
	if len(left) != 1 {
		t.Fatalf("expected 1 remaining event, got %d", len(left))
	}
}
