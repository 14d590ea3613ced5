package session

import (
	"context"
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/interviewer/internal/interview"
	"github.com/abhisek/interviewer/internal/orchestrator"
	"github.com/abhisek/interviewer/internal/router"
	"github.com/abhisek/interviewer/internal/screen"
	"github.com/abhisek/interviewer/internal/ui/components"
	"github.com/abhisek/interviewer/internal/ui/layout"
)

const (
	// answerTimeout bounds one orchestrator call, which may include an LLM
	// grading and a question generation.
	answerTimeout = 2 * time.Minute

	maxAnswerLen = 2000
)

// TotalQuestions is the number of questions in a full interview.
const TotalQuestions = orchestrator.QuestionsPerRound * interview.NumRounds

// SessionScreen runs one interview against an orchestrator.Service.
type SessionScreen struct {
	svc       orchestrator.Service
	candidate string
	onDone    func(sessionID string, final *interview.Action) screen.Screen

	sessionID    string
	question     *interview.PublicQuestion
	round        interview.Round
	asked        int
	lastFeedback *interview.Evaluation
	busy         bool
	errMsg       string
	input        components.TextInput
}

var _ screen.Screen = (*SessionScreen)(nil)
var _ screen.KeyHintProvider = (*SessionScreen)(nil)
var _ screen.StatusProvider = (*SessionScreen)(nil)

// New creates an interview screen for candidate. onDone builds the screen
// shown after the final action.
func New(svc orchestrator.Service, candidate string, onDone func(sessionID string, final *interview.Action) screen.Screen) *SessionScreen {
	return &SessionScreen{
		svc:       svc,
		candidate: candidate,
		onDone:    onDone,
		busy:      true,
		input:     components.NewTextInput("Type your answer...", maxAnswerLen, 60),
	}
}

func (s *SessionScreen) Init() tea.Cmd {
	return tea.Batch(s.start(), s.input.Init())
}

func (s *SessionScreen) Title() string {
	if s.round.Valid() && s.round != interview.RoundFinished {
		return s.round.Label() + " round"
	}
	return "Interview"
}

func (s *SessionScreen) Status() string {
	if s.asked == 0 {
		return ""
	}
	return fmt.Sprintf("Q %d/%d", s.asked, TotalQuestions)
}

func (s *SessionScreen) KeyHints() []layout.KeyHint {
	if s.busy {
		return []layout.KeyHint{{Key: "Ctrl+C", Description: "Quit"}}
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "Submit answer"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

// SessionID returns the session identifier once the interview has started.
func (s *SessionScreen) SessionID() string {
	return s.sessionID
}

func (s *SessionScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case startedMsg:
		if msg.Err != nil {
			s.busy = false
			s.errMsg = "Could not start the interview: " + msg.Err.Error()
			return s, nil
		}
		s.sessionID = msg.Result.SessionID
		return s.apply(msg.Result.InitialAction)

	case actionMsg:
		if msg.Err != nil {
			s.busy = false
			s.input.Unlock()
			s.errMsg = "Something went wrong: " + msg.Err.Error()
			return s, nil
		}
		return s.apply(msg.Action)

	case tea.KeyPressMsg:
		if msg.String() == "enter" {
			return s, s.submit()
		}
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

// apply renders an orchestrator action: a new question, or the hand-off to
// the completion screen.
func (s *SessionScreen) apply(action *interview.Action) (screen.Screen, tea.Cmd) {
	s.busy = false
	s.errMsg = ""
	if action.Feedback != nil {
		s.lastFeedback = action.Feedback
	}

	if action.Completed() {
		s.round = interview.RoundFinished
		next := s.onDone(s.sessionID, action)
		return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
	}

	if action.Question != nil && (s.question == nil || s.question.ID != action.Question.ID) {
		s.asked++
	}
	s.question = action.Question
	s.round = action.Round
	s.input.Unlock()
	return s, nil
}

func (s *SessionScreen) submit() tea.Cmd {
	if s.busy || s.sessionID == "" {
		return nil
	}
	answer := s.input.Value()
	if answer == "" {
		s.errMsg = "Type an answer before pressing Enter."
		return nil
	}
	s.busy = true
	s.errMsg = ""
	s.input.Lock()

	svc, id := s.svc, s.sessionID
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), answerTimeout)
		defer cancel()
		action, err := svc.NextAction(ctx, id, &answer)
		return actionMsg{Action: action, Err: err}
	}
}

func (s *SessionScreen) start() tea.Cmd {
	svc, name := s.svc, s.candidate
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), answerTimeout)
		defer cancel()
		res, err := svc.Start(ctx, name)
		return startedMsg{Result: res, Err: err}
	}
}
