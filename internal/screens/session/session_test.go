package session

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/interviewer/internal/interview"
	"github.com/abhisek/interviewer/internal/orchestrator"
	"github.com/abhisek/interviewer/internal/report"
	"github.com/abhisek/interviewer/internal/router"
	"github.com/abhisek/interviewer/internal/scoring"
	"github.com/abhisek/interviewer/internal/screen"
)

// mockService implements orchestrator.Service with scripted actions.
type mockService struct {
	startErr error
	actions  []*interview.Action
	answers  []string
}

func (m *mockService) Start(_ context.Context, _ string) (*orchestrator.StartResult, error) {
	if m.startErr != nil {
		return nil, m.startErr
	}
	return &orchestrator.StartResult{SessionID: "s-1", InitialAction: m.pop()}, nil
}

func (m *mockService) NextAction(_ context.Context, _ string, answer *string) (*interview.Action, error) {
	if answer != nil {
		m.answers = append(m.answers, *answer)
	}
	if len(m.actions) == 0 {
		return nil, errors.New("no more actions")
	}
	return m.pop(), nil
}

func (m *mockService) pop() *interview.Action {
	a := m.actions[0]
	m.actions = m.actions[1:]
	return a
}

func (m *mockService) Session(context.Context, string) (*interview.Session, error) {
	return nil, orchestrator.ErrNotFound
}

func (m *mockService) Scorecard(context.Context, string) (scoring.Scorecard, error) {
	return scoring.Scorecard{}, nil
}

func (m *mockService) ExportReport(context.Context, string, report.Format) ([]byte, error) {
	return nil, nil
}

type doneScreen struct{ id string }

func (d *doneScreen) Init() tea.Cmd                           { return nil }
func (d *doneScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return d, nil }
func (d *doneScreen) View(int, int) string                    { return "done " + d.id }
func (d *doneScreen) Title() string                           { return "Done" }

func question(id, text string, round interview.Round) *interview.Action {
	return &interview.Action{
		Status:   interview.StatusInProgress,
		Round:    round,
		Question: &interview.PublicQuestion{ID: id, Text: text, Round: round},
	}
}

func newTestScreen(svc *mockService) *SessionScreen {
	return New(svc, "Ada", func(id string, _ *interview.Action) screen.Screen {
		return &doneScreen{id: id}
	})
}

// run executes cmd and feeds the resulting message back into the screen.
func run(t *testing.T, s *SessionScreen, cmd tea.Cmd) tea.Cmd {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	_, next := s.Update(cmd())
	return next
}

func typeAnswer(s *SessionScreen, text string) {
	for _, r := range text {
		s.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
}

func TestStartShowsFirstQuestion(t *testing.T) {
	svc := &mockService{actions: []*interview.Action{
		question("q1", "Tell me about a conflict.", interview.RoundBehavioural),
	}}
	s := newTestScreen(svc)

	run(t, s, s.start())

	if s.SessionID() != "s-1" {
		t.Fatalf("session id = %q", s.SessionID())
	}
	if s.Status() != "Q 1/9" {
		t.Errorf("Status = %q, want Q 1/9", s.Status())
	}
	if s.Title() != "Behavioural round" {
		t.Errorf("Title = %q", s.Title())
	}
	if !strings.Contains(s.View(100, 30), "Tell me about a conflict.") {
		t.Error("question not rendered")
	}
}

func TestSubmitAnswerAdvances(t *testing.T) {
	svc := &mockService{actions: []*interview.Action{
		question("q1", "first", interview.RoundBehavioural),
		{
			Status:   interview.StatusInProgress,
			Round:    interview.RoundBehavioural,
			Question: &interview.PublicQuestion{ID: "q2", Text: "second"},
			Feedback: &interview.Evaluation{Score: 4, Feedback: "Good structure."},
		},
	}}
	s := newTestScreen(svc)
	run(t, s, s.start())

	typeAnswer(s, "I listened")
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if !s.busy {
		t.Error("screen should be busy while the answer is graded")
	}
	run(t, s, cmd)

	if len(svc.answers) != 1 || svc.answers[0] != "I listened" {
		t.Fatalf("answers = %v", svc.answers)
	}
	if s.Status() != "Q 2/9" {
		t.Errorf("Status = %q, want Q 2/9", s.Status())
	}
	view := s.View(100, 30)
	if !strings.Contains(view, "4.0/5") || !strings.Contains(view, "Good structure.") {
		t.Errorf("feedback not rendered:\n%s", view)
	}
	if s.input.Value() != "" {
		t.Error("input should be cleared for the next question")
	}
}

func TestBlankAnswerNotSubmitted(t *testing.T) {
	svc := &mockService{actions: []*interview.Action{question("q1", "first", interview.RoundLogical)}}
	s := newTestScreen(svc)
	run(t, s, s.start())

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd != nil {
		t.Fatal("blank answer should not be sent")
	}
	if !strings.Contains(s.View(100, 30), "Type an answer") {
		t.Error("expected a hint to type an answer")
	}
}

func TestSubmitIgnoredWhileBusy(t *testing.T) {
	svc := &mockService{actions: []*interview.Action{question("q1", "first", interview.RoundLogical)}}
	s := newTestScreen(svc)
	run(t, s, s.start())

	typeAnswer(s, "42")
	if _, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter}); cmd == nil {
		t.Fatal("first Enter should submit")
	}
	if _, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter}); cmd != nil {
		t.Fatal("second Enter while busy should be ignored")
	}
}

func TestCompletionReplacesScreen(t *testing.T) {
	svc := &mockService{actions: []*interview.Action{
		question("q1", "last", interview.RoundAptitude),
		{Status: interview.StatusCompleted, Message: interview.CompletedMessage},
	}}
	s := newTestScreen(svc)
	run(t, s, s.start())

	typeAnswer(s, "12")
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	next := run(t, s, cmd)
	if next == nil {
		t.Fatal("expected a replace command")
	}
	msg, ok := next().(router.ReplaceScreenMsg)
	if !ok {
		t.Fatalf("expected ReplaceScreenMsg, got %T", next())
	}
	if msg.Screen.View(0, 0) != "done s-1" {
		t.Errorf("completion screen = %q", msg.Screen.View(0, 0))
	}
}

func TestStartError(t *testing.T) {
	s := newTestScreen(&mockService{startErr: errors.New("store offline")})
	run(t, s, s.start())

	if !strings.Contains(s.View(100, 30), "store offline") {
		t.Error("start error not shown")
	}
	if _, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter}); cmd != nil {
		t.Error("no session, nothing to submit")
	}
}

func TestActionErrorUnlocksInput(t *testing.T) {
	svc := &mockService{actions: []*interview.Action{question("q1", "first", interview.RoundLogical)}}
	s := newTestScreen(svc)
	run(t, s, s.start())

	typeAnswer(s, "x")
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	run(t, s, cmd)

	if s.busy || s.input.Locked() {
		t.Error("input should accept a retry after an error")
	}
	if !strings.Contains(s.View(100, 30), "no more actions") {
		t.Error("error not shown")
	}
}
