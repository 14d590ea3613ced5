package cmd

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/abhisek/interviewer/internal/agent"
	"github.com/abhisek/interviewer/internal/config"
	"github.com/abhisek/interviewer/internal/grading"
	"github.com/abhisek/interviewer/internal/interview"
	"github.com/abhisek/interviewer/internal/llm"
	"github.com/abhisek/interviewer/internal/logger"
	"github.com/abhisek/interviewer/internal/orchestrator"
	"github.com/abhisek/interviewer/internal/questiongen"
	"github.com/abhisek/interviewer/internal/retention"
	"github.com/abhisek/interviewer/internal/store"
)

// runtime holds everything a transport needs to serve interviews.
type runtime struct {
	cfg     *config.Config
	log     *zap.Logger
	backend *store.Backend
	svc     *orchestrator.Orchestrator
	pruner  *retention.Pruner
}

// runtimeOptions tweaks setup for commands with special output needs.
type runtimeOptions struct {
	// logOutput is a zap output path. "none" disables logging.
	logOutput string
}

// newRuntime loads config, opens the session backend and builds the
// orchestrator. The LLM provider is optional: without one every round
// runs offline.
func newRuntime(ctx context.Context, opts runtimeOptions) (*runtime, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	log := zap.NewNop()
	if opts.logOutput != "none" {
		out := opts.logOutput
		if out == "" {
			out = "stderr"
		}
		if log, err = logger.NewWithOutput(cfg.Log.JSON, cfg.Log.Debug, out); err != nil {
			return nil, fmt.Errorf("init logger: %w", err)
		}
	}

	backend, err := store.OpenBackend(ctx, store.BackendOptions{
		Kind:        cfg.Store.Backend,
		DBPath:      cfg.Store.DBPath,
		RedisURL:    cfg.Store.RedisURL,
		RedisPrefix: cfg.Store.RedisPrefix,
		RedisTTL:    cfg.Store.RedisTTL,
	})
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Store.Backend, err)
	}
	log.Debug("session store opened", zap.String("backend", cfg.Store.Backend))

	offline, err := offlineGenerator(cfg.Interview)
	if err != nil {
		backend.Close()
		return nil, err
	}

	genCfg := questiongen.DefaultConfig()
	genCfg.Timeout = cfg.Interview.GenerationTimeout
	rubricCfg := grading.DefaultRubricConfig()
	rubricCfg.Timeout = cfg.Interview.GradingTimeout

	table, err := agent.NewDefaultTable(agent.Options{
		Provider:     buildProvider(ctx, cfg, backend, log),
		Offline:      offline,
		GenConfig:    genCfg,
		RubricConfig: rubricCfg,
		Logger:       log,
	})
	if err != nil {
		backend.Close()
		return nil, err
	}

	orchOpts := []orchestrator.Option{orchestrator.WithLogger(log)}
	var events retention.EventPruner
	if backend.Events != nil {
		orchOpts = append(orchOpts, orchestrator.WithEvents(backend.Events))
		events = backend.Events
	}

	var sessions store.SessionPruner
	if p, ok := backend.Pruner(); ok {
		sessions = p
	}

	return &runtime{
		cfg:     cfg,
		log:     log,
		backend: backend,
		svc:     orchestrator.New(backend.Sessions, table, orchOpts...),
		pruner: retention.NewPruner(sessions, events, retention.Policy{
			Sessions: cfg.Retention.Sessions,
			Events:   cfg.Retention.Events,
		}, log),
	}, nil
}

// Close flushes the logger and closes the backend.
func (r *runtime) Close() {
	if err := r.backend.Close(); err != nil {
		r.log.Warn("failed to close store", zap.Error(err))
	}
	_ = r.log.Sync()
}

// startRetention runs the pruner on the configured cron schedule. The
// returned stop function is always safe to call.
func (r *runtime) startRetention() (func(), error) {
	if !r.cfg.Retention.Enabled {
		return func() {}, nil
	}
	sched, err := retention.NewScheduler(r.cfg.Retention.Schedule, r.pruner, r.log)
	if err != nil {
		return nil, err
	}
	sched.Start()
	return sched.Stop, nil
}

func buildProvider(ctx context.Context, cfg *config.Config, backend *store.Backend, log *zap.Logger) llm.Provider {
	if cfg.Interview.DisableLLM {
		log.Info("LLM disabled by config, running offline")
		return nil
	}

	var repo store.EventRepo
	if backend.Events != nil {
		repo = backend.Events
	}

	provider, err := llm.NewProviderFromEnv(ctx, repo, log)
	switch {
	case errors.Is(err, llm.ErrNotConfigured):
		log.Info("no LLM provider configured, running offline")
		return nil
	case err != nil:
		log.Warn("LLM provider unavailable, running offline", zap.Error(err))
		return nil
	}
	log.Info("LLM provider ready", zap.String(logger.FieldModel, provider.ModelID()))
	return provider
}

func offlineGenerator(ic config.InterviewConfig) (*questiongen.OfflineGenerator, error) {
	mode, err := questiongen.ParseMode(ic.OfflineMode)
	if err != nil {
		return nil, err
	}

	opts := []questiongen.OfflineOption{questiongen.WithMode(mode)}
	if ic.Seed != 0 {
		opts = append(opts, questiongen.WithSeed(ic.Seed))
	}
	if len(ic.LogicalKinds) > 0 {
		opts = append(opts, questiongen.WithRoundKinds(interview.RoundLogical, ic.LogicalKinds...))
	}
	if len(ic.AptitudeKinds) > 0 {
		opts = append(opts, questiongen.WithRoundKinds(interview.RoundAptitude, ic.AptitudeKinds...))
	}
	return questiongen.NewOffline(opts...)
}
