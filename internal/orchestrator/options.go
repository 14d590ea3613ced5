package orchestrator

import (
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/interviewer/internal/store"
)

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithClock overrides the time source used for answer and session timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		if now != nil {
			o.now = now
		}
	}
}

// WithLogger sets the zap logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *Orchestrator) {
		if l != nil {
			o.log = l
		}
	}
}

// WithEvents records session progress to r. Recording failures are logged
// and never fail a call.
func WithEvents(r store.SessionEventRecorder) Option {
	return func(o *Orchestrator) {
		o.events = r
	}
}
