// Package orchestrator runs the interview state machine. It is the only
// writer of session state: every transport goes through NextAction.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/interviewer/internal/agent"
	"github.com/abhisek/interviewer/internal/interview"
	"github.com/abhisek/interviewer/internal/logger"
	"github.com/abhisek/interviewer/internal/questiongen"
	"github.com/abhisek/interviewer/internal/report"
	"github.com/abhisek/interviewer/internal/scoring"
	"github.com/abhisek/interviewer/internal/store"
)

const (
	// QuestionsPerRound is the number of questions asked before a round advances.
	QuestionsPerRound = 3

	// MaxGenerateAttempts bounds duplicate avoidance per question.
	MaxGenerateAttempts = 3

	// PlaceholderQuestion is asked when no question could be generated.
	PlaceholderQuestion = "Error: No agent for this round."
)

// ErrNotFound is returned for unknown session IDs. It is store.ErrNotFound,
// so either sentinel matches with errors.Is.
var ErrNotFound = store.ErrNotFound

// StartResult is returned by Start.
type StartResult struct {
	SessionID     string            `json:"session_id"`
	InitialAction *interview.Action `json:"initial_action"`
}

// Service is the orchestrator surface used by transports.
type Service interface {
	Start(ctx context.Context, candidateName string) (*StartResult, error)
	NextAction(ctx context.Context, sessionID string, answer *string) (*interview.Action, error)
	Session(ctx context.Context, sessionID string) (*interview.Session, error)
	Scorecard(ctx context.Context, sessionID string) (scoring.Scorecard, error)
	ExportReport(ctx context.Context, sessionID string, format report.Format) ([]byte, error)
}

var _ Service = (*Orchestrator)(nil)

// Orchestrator drives sessions through the rounds.
type Orchestrator struct {
	store  store.SessionStore
	agents *agent.Table
	events store.SessionEventRecorder
	log    *zap.Logger
	now    func() time.Time
	locks  *keyedMutex
}

// New creates an orchestrator over the given store and agents.
func New(st store.SessionStore, agents *agent.Table, opts ...Option) *Orchestrator {
	if agents == nil {
		agents = &agent.Table{}
	}
	o := &Orchestrator{
		store:  st,
		agents: agents,
		log:    zap.NewNop(),
		now:    time.Now,
		locks:  newKeyedMutex(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Start creates a session and returns it with the first question.
func (o *Orchestrator) Start(ctx context.Context, candidateName string) (*StartResult, error) {
	sess := interview.NewSession(strings.TrimSpace(candidateName), o.now())
	if err := o.store.Create(ctx, sess); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	o.record(ctx, store.SessionEventData{
		SessionID: sess.ID,
		Action:    store.ActionStarted,
		Round:     string(sess.CurrentRound),
	})
	o.log.Info("interview started", logger.SessionFields(sess.ID, string(sess.CurrentRound))...)

	action, err := o.NextAction(ctx, sess.ID, nil)
	if err != nil {
		return nil, err
	}
	return &StartResult{SessionID: sess.ID, InitialAction: action}, nil
}

// NextAction grades the submitted answer, if any, then advances the round
// when it is full and returns the next question. A nil answer while a
// question is pending returns that question again.
func (o *Orchestrator) NextAction(ctx context.Context, sessionID string, answer *string) (*interview.Action, error) {
	unlock := o.locks.Lock(sessionID)
	defer unlock()

	sess, err := o.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	log := logger.WithFields(o.log, logger.SessionFields(sess.ID, string(sess.CurrentRound))...)

	var feedback *interview.Evaluation
	if answer != nil {
		ev, graded := o.grade(ctx, sess, *answer, log)
		if graded {
			feedback = &ev
			if err := o.save(ctx, sess); err != nil {
				return nil, err
			}
		}
	}

	if sess.IsCompleted {
		return completedAction(sess, feedback), nil
	}

	if pending, ok := sess.PendingQuestion(); ok {
		pub := pending.Public()
		return &interview.Action{
			Status:   interview.StatusInProgress,
			Question: &pub,
			Round:    sess.CurrentRound,
		}, nil
	}

	if sess.QuestionsInRound(sess.CurrentRound) >= QuestionsPerRound {
		from := sess.CurrentRound
		sess.CurrentRound = from.Next()
		if sess.CurrentRound == interview.RoundFinished {
			sess.Complete()
		}
		if err := o.save(ctx, sess); err != nil {
			return nil, err
		}
		log.Info("round advanced",
			zap.String("from", string(from)),
			zap.String("to", string(sess.CurrentRound)))

		if sess.IsCompleted {
			o.record(ctx, store.SessionEventData{SessionID: sess.ID, Action: store.ActionCompleted, Round: string(from)})
			return completedAction(sess, feedback), nil
		}
		o.record(ctx, store.SessionEventData{SessionID: sess.ID, Action: store.ActionAdvanced, Round: string(sess.CurrentRound)})
	}

	q := o.generate(ctx, sess, log)
	sess.Questions = append(sess.Questions, q)
	if err := o.save(ctx, sess); err != nil {
		return nil, err
	}
	o.record(ctx, store.SessionEventData{
		SessionID:  sess.ID,
		Action:     store.ActionAsked,
		Round:      string(q.Round),
		QuestionID: q.ID,
	})

	pub := q.Public()
	return &interview.Action{
		Status:   interview.StatusInProgress,
		Question: &pub,
		Round:    sess.CurrentRound,
		Feedback: feedback,
	}, nil
}

// grade records the answer to the pending question and scores it. It
// reports false when there is nothing to answer.
func (o *Orchestrator) grade(ctx context.Context, sess *interview.Session, text string, log *zap.Logger) (interview.Evaluation, bool) {
	pending, ok := sess.PendingQuestion()
	if !ok {
		log.Info("answer ignored, no pending question")
		return interview.Evaluation{}, false
	}
	q := *pending

	sess.Answers = append(sess.Answers, interview.Answer{
		QuestionID: q.ID,
		Text:       text,
		Timestamp:  o.now(),
	})

	var ev interview.Evaluation
	if ag, ok := o.agents.For(q.Round); ok {
		res := ag.EvaluateAnswer(ctx, q, text)
		ev = res.Evaluation()
		log.Debug("answer graded",
			zap.String("grader", res.GraderName),
			zap.Float64("score", ev.Score),
			zap.Bool("confident", res.Confident))
	} else {
		ev = interview.NewEvaluation(nil, "No grader is available for this round.")
		log.Error("no agent for question round", zap.String("question_round", string(q.Round)))
	}
	sess.Scores[q.ID] = ev

	o.record(ctx, store.SessionEventData{
		SessionID:  sess.ID,
		Action:     store.ActionGraded,
		Round:      string(q.Round),
		QuestionID: q.ID,
		Score:      ev.Score,
	})
	return ev, true
}

// generate asks the round's agent for a question the session has not seen.
// After MaxGenerateAttempts collisions the last candidate is accepted.
func (o *Orchestrator) generate(ctx context.Context, sess *interview.Session, log *zap.Logger) interview.Question {
	round := sess.CurrentRound
	ag, ok := o.agents.For(round)
	if !ok {
		log.Error("no agent for round")
		return interview.NewQuestion(PlaceholderQuestion, round, "", interview.SourceOffline)
	}

	asked := sess.AskedTexts()
	var last *questiongen.Question
	for attempt := 1; attempt <= MaxGenerateAttempts; attempt++ {
		cand, err := ag.GenerateQuestion(ctx, sess)
		if err == nil && (cand == nil || strings.TrimSpace(cand.Text) == "") {
			err = errors.New("empty question")
		}
		if err != nil {
			log.Warn("question generation failed", zap.Int("attempt", attempt), zap.Error(err))
			if ctx.Err() != nil {
				break
			}
			continue
		}

		last = cand
		if _, dup := asked[interview.NormalizeText(cand.Text)]; !dup {
			return buildQuestion(cand, round)
		}
		log.Debug("duplicate question generated", zap.Int("attempt", attempt))
	}

	if last == nil {
		log.Error("no question generated, using placeholder")
		return interview.NewQuestion(PlaceholderQuestion, round, "", interview.SourceOffline)
	}

	log.Warn("exhausted retries, accepting duplicate question",
		zap.String("error_kind", "ExhaustedRetries"),
		zap.Int("attempts", MaxGenerateAttempts))
	return buildQuestion(last, round)
}

func buildQuestion(c *questiongen.Question, round interview.Round) interview.Question {
	source := c.Source
	if source == "" {
		source = interview.SourceOffline
	}
	q := interview.NewQuestion(strings.TrimSpace(c.Text), round, strings.TrimSpace(c.ExpectedAnswer), source)
	if c.Difficulty > 0 {
		q.Difficulty = c.Difficulty
	}
	return q
}

func completedAction(sess *interview.Session, feedback *interview.Evaluation) *interview.Action {
	return &interview.Action{
		Status:   interview.StatusCompleted,
		Round:    interview.RoundFinished,
		Feedback: feedback,
		Message:  interview.CompletedMessage,
		Session:  sess.Public(),
	}
}

// Session returns a copy of the stored session.
func (o *Orchestrator) Session(ctx context.Context, sessionID string) (*interview.Session, error) {
	return o.load(ctx, sessionID)
}

// Scorecard computes the scorecard of a session, finished or not.
func (o *Orchestrator) Scorecard(ctx context.Context, sessionID string) (scoring.Scorecard, error) {
	sess, err := o.load(ctx, sessionID)
	if err != nil {
		return scoring.Scorecard{}, err
	}
	return scoring.Calculate(sess), nil
}

// ExportReport renders the session report in the given format.
func (o *Orchestrator) ExportReport(ctx context.Context, sessionID string, format report.Format) ([]byte, error) {
	sess, err := o.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return report.Render(sess, scoring.Calculate(sess), format)
}

func (o *Orchestrator) load(ctx context.Context, id string) (*interview.Session, error) {
	sess, err := o.store.Get(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("session %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", id, err)
	}
	return sess, nil
}

func (o *Orchestrator) save(ctx context.Context, sess *interview.Session) error {
	sess.UpdatedAt = o.now()
	if err := o.store.Put(ctx, sess); err != nil {
		return fmt.Errorf("persist session %s: %w", sess.ID, err)
	}
	return nil
}

func (o *Orchestrator) record(ctx context.Context, data store.SessionEventData) {
	if o.events == nil {
		return
	}
	if err := o.events.AppendSessionEvent(context.WithoutCancel(ctx), data); err != nil {
		o.log.Warn("failed to record session event", zap.String("action", data.Action), zap.Error(err))
	}
}
