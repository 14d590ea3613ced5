package telegram

import (
	"context"
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/abhisek/interviewer/internal/agent"
	"github.com/abhisek/interviewer/internal/orchestrator"
	"github.com/abhisek/interviewer/internal/questiongen"
	"github.com/abhisek/interviewer/internal/store"
)

type fakeSender struct {
	sent []string
	docs []tgbotapi.FileBytes
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	switch v := c.(type) {
	case tgbotapi.MessageConfig:
		f.sent = append(f.sent, v.Text)
	case tgbotapi.DocumentConfig:
		f.docs = append(f.docs, v.File.(tgbotapi.FileBytes))
	}
	return tgbotapi.Message{}, nil
}

func (f *fakeSender) last() string {
	if len(f.sent) == 0 {
		return ""
	}
	return f.sent[len(f.sent)-1]
}

func newTestBot(t *testing.T) (*Bot, *fakeSender) {
	t.Helper()
	offline, err := questiongen.NewOffline(questiongen.WithSeed(5))
	if err != nil {
		t.Fatalf("offline generator: %v", err)
	}
	table, err := agent.NewDefaultTable(agent.Options{Offline: offline})
	if err != nil {
		t.Fatalf("agent table: %v", err)
	}
	orch := orchestrator.New(store.NewMemorySessions(), table)
	fs := &fakeSender{}
	return newBot(fs, orch, nil), fs
}

func command(chatID int64, cmd string) *tgbotapi.Message {
	return &tgbotapi.Message{
		Chat:     &tgbotapi.Chat{ID: chatID},
		From:     &tgbotapi.User{FirstName: "Ada", LastName: "Lovelace"},
		Text:     "/" + cmd,
		Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(cmd) + 1}},
	}
}

func text(chatID int64, s string) *tgbotapi.Message {
	return &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: chatID}, Text: s}
}

func TestBot_FullInterview(t *testing.T) {
	b, fs := newTestBot(t)
	ctx := context.Background()

	b.handleMessage(ctx, command(1, "start"))
	if !strings.Contains(fs.last(), "Hi Ada Lovelace!") || !strings.Contains(fs.last(), "[Behavioural round]") {
		t.Fatalf("unexpected greeting: %q", fs.last())
	}

	for i := 0; i < 8; i++ {
		b.handleMessage(ctx, text(1, "I took action and the result was success"))
		if !strings.HasPrefix(fs.last(), "Score: ") {
			t.Fatalf("answer %d: expected feedback, got %q", i+1, fs.last())
		}
	}

	b.handleMessage(ctx, text(1, "final answer 7"))
	n := len(fs.sent)
	if !strings.Contains(fs.sent[n-2], "Interview finished. Thank you!") {
		t.Fatalf("expected completion, got %q", fs.sent[n-2])
	}
	if !strings.HasPrefix(fs.sent[n-1], "Scorecard") || !strings.Contains(fs.sent[n-1], "Overall: ") {
		t.Fatalf("expected scorecard, got %q", fs.sent[n-1])
	}

	b.handleMessage(ctx, command(1, "report"))
	if len(fs.docs) != 1 {
		t.Fatalf("expected a report document, got %d", len(fs.docs))
	}
	if !strings.HasPrefix(fs.docs[0].Name, "report_") || !strings.HasSuffix(fs.docs[0].Name, ".md") {
		t.Fatalf("unexpected report name %q", fs.docs[0].Name)
	}
	if !strings.Contains(string(fs.docs[0].Bytes), "# Interview Report for Ada Lovelace") {
		t.Fatal("report content missing title")
	}
}

func TestBot_NoSession(t *testing.T) {
	b, fs := newTestBot(t)
	ctx := context.Background()

	for _, m := range []*tgbotapi.Message{text(2, "hello"), command(2, "score"), command(2, "report")} {
		b.handleMessage(ctx, m)
		if fs.last() != msgNoSession {
			t.Fatalf("expected no-session reply, got %q", fs.last())
		}
	}
}

func TestBot_StopAndHelp(t *testing.T) {
	b, fs := newTestBot(t)
	ctx := context.Background()

	b.handleMessage(ctx, command(3, "start"))
	if _, ok := b.sessionFor(3); !ok {
		t.Fatal("session not stored")
	}

	b.handleMessage(ctx, command(3, "score"))
	if !strings.Contains(fs.last(), "Behavioural: 0.00") {
		t.Fatalf("unexpected scorecard: %q", fs.last())
	}

	b.handleMessage(ctx, command(3, "stop"))
	if fs.last() != msgStopped {
		t.Fatalf("unexpected reply: %q", fs.last())
	}
	if _, ok := b.sessionFor(3); ok {
		t.Fatal("session should be forgotten")
	}

	b.handleMessage(ctx, command(3, "whatever"))
	if fs.last() != msgHelp {
		t.Fatalf("expected help, got %q", fs.last())
	}
}

func TestBot_ExpiredSession(t *testing.T) {
	b, fs := newTestBot(t)
	b.setSession(4, "gone")

	b.handleMessage(context.Background(), text(4, "answer"))
	if !strings.Contains(fs.last(), "expired") {
		t.Fatalf("unexpected reply: %q", fs.last())
	}
	if _, ok := b.sessionFor(4); ok {
		t.Fatal("expired session should be dropped")
	}
}

func TestCandidateName(t *testing.T) {
	tests := []struct {
		user *tgbotapi.User
		want string
	}{
		{nil, ""},
		{&tgbotapi.User{FirstName: "Ada"}, "Ada"},
		{&tgbotapi.User{UserName: "ada99"}, "ada99"},
	}
	for _, tt := range tests {
		if got := candidateName(tt.user); got != tt.want {
			t.Errorf("candidateName(%+v) = %q, want %q", tt.user, got, tt.want)
		}
	}
}
