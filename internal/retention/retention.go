// Package retention prunes finished sessions and old events on a cron
// schedule.
package retention

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/abhisek/interviewer/internal/store"
)

// EventPruner deletes events recorded before a cutoff.
type EventPruner interface {
	PruneEvents(ctx context.Context, cutoff time.Time) (int64, error)
}

// Policy says how long data is kept. A zero duration keeps data forever.
type Policy struct {
	Sessions time.Duration
	Events   time.Duration
}

// Result reports what one pass deleted.
type Result struct {
	Sessions int64
	Events   int64
}

// Pruner applies a Policy to the stores it is given. Either store may be nil.
type Pruner struct {
	sessions store.SessionPruner
	events   EventPruner
	policy   Policy
	now      func() time.Time
	log      *zap.Logger
}

// NewPruner creates a pruner. log may be nil.
func NewPruner(sessions store.SessionPruner, events EventPruner, policy Policy, log *zap.Logger) *Pruner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Pruner{sessions: sessions, events: events, policy: policy, now: time.Now, log: log}
}

// Run performs one pruning pass.
func (p *Pruner) Run(ctx context.Context) (Result, error) {
	var res Result
	now := p.now()

	if p.sessions != nil && p.policy.Sessions > 0 {
		n, err := p.sessions.PruneSessions(ctx, now.Add(-p.policy.Sessions))
		if err != nil {
			return res, fmt.Errorf("prune sessions: %w", err)
		}
		res.Sessions = n
	}

	if p.events != nil && p.policy.Events > 0 {
		n, err := p.events.PruneEvents(ctx, now.Add(-p.policy.Events))
		if err != nil {
			return res, fmt.Errorf("prune events: %w", err)
		}
		res.Events = n
	}

	p.log.Info("retention pass finished",
		zap.Int64("sessions", res.Sessions),
		zap.Int64("events", res.Events))
	return res, nil
}

// Scheduler runs a Pruner on a cron schedule in UTC.
type Scheduler struct {
	cron   *cron.Cron
	pruner *Pruner
	ctx    context.Context
	cancel context.CancelFunc
	log    *zap.Logger
}

// NewScheduler registers p under spec, a standard five-field cron
// expression or a descriptor such as "@daily".
func NewScheduler(spec string, p *Pruner, log *zap.Logger) (*Scheduler, error) {
	if log == nil {
		log = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		cron:   cron.New(cron.WithLocation(time.UTC)),
		pruner: p,
		ctx:    ctx,
		cancel: cancel,
		log:    log,
	}

	if _, err := s.cron.AddFunc(spec, s.tick); err != nil {
		cancel()
		return nil, fmt.Errorf("schedule %q: %w", spec, err)
	}
	return s, nil
}

func (s *Scheduler) tick() {
	if _, err := s.pruner.Run(s.ctx); err != nil {
		s.log.Error("retention pass failed", zap.Error(err))
	}
}

// Start begins running in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info("retention scheduler started", zap.Time("next_run", s.Next()))
}

// Next returns the next scheduled run, or the zero time before Start.
func (s *Scheduler) Next() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}

// Stop waits for a running pass to finish and cancels future ones.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.cancel()
	s.log.Info("retention scheduler stopped")
}
