package store

import (
	"context"
	"errors"
	"time"

	"github.com/abhisek/interviewer/internal/interview"
)

var (
	// ErrNotFound is returned when a session does not exist.
	ErrNotFound = errors.New("session not found")

	// ErrExists is returned by Create when the session ID is taken.
	ErrExists = errors.New("session already exists")
)

// SessionStore persists interview sessions. Implementations give per-key
// atomicity for Get and Put; callers own read-modify-write ordering.
type SessionStore interface {
	// Create stores a new session. Returns ErrExists if the ID is taken.
	Create(ctx context.Context, sess *interview.Session) error

	// Get loads a session. Returns ErrNotFound if it does not exist.
	Get(ctx context.Context, id string) (*interview.Session, error)

	// Put replaces the stored session.
	Put(ctx context.Context, sess *interview.Session) error
}

// SessionPruner is implemented by stores that can delete old sessions.
type SessionPruner interface {
	// PruneSessions deletes completed sessions last updated before cutoff.
	PruneSessions(ctx context.Context, cutoff time.Time) (int64, error)
}

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit   int    // max results (0 = unlimited)
	Purpose string // LLM events only; empty matches all
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// EventRepo provides append access to LLM request events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error
}

// Session event actions.
const (
	ActionStarted   = "started"
	ActionAsked     = "asked"
	ActionGraded    = "graded"
	ActionAdvanced  = "advanced"
	ActionCompleted = "completed"
)

// SessionEventData describes one step of an interview.
type SessionEventData struct {
	SessionID  string
	Action     string
	Round      string
	QuestionID string
	Score      float64
}

// SessionEventRecorder receives interview progress events.
type SessionEventRecorder interface {
	AppendSessionEvent(ctx context.Context, data SessionEventData) error
}
