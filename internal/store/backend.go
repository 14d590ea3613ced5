package store

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Backend names accepted by OpenBackend.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// BackendOptions selects and configures the session backend.
type BackendOptions struct {
	Kind        string
	DBPath      string
	RedisURL    string
	RedisPrefix string
	RedisTTL    time.Duration
}

// Backend bundles the session store with the optional SQLite event log.
// Events is nil unless the SQLite backend is in use.
type Backend struct {
	Sessions SessionStore
	Events   *Events

	closers []func() error
}

// Pruner returns the session pruner, if the backend supports one.
func (b *Backend) Pruner() (SessionPruner, bool) {
	p, ok := b.Sessions.(SessionPruner)
	return p, ok
}

// Close releases every resource opened by OpenBackend.
func (b *Backend) Close() error {
	var errs []error
	for _, c := range b.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}

// OpenBackend opens the session store named by opts.Kind.
func OpenBackend(ctx context.Context, opts BackendOptions) (*Backend, error) {
	switch opts.Kind {
	case BackendMemory, "":
		return &Backend{Sessions: NewMemorySessions()}, nil

	case BackendSQLite:
		path := opts.DBPath
		if path == "" {
			var err error
			if path, err = DefaultDBPath(); err != nil {
				return nil, err
			}
		} else if err := EnsureDir(path); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
		s, err := Open(path)
		if err != nil {
			return nil, err
		}
		return &Backend{
			Sessions: s.Sessions(),
			Events:   s.EventRepo(),
			closers:  []func() error{s.Close},
		}, nil

	case BackendRedis:
		if opts.RedisURL == "" {
			return nil, errors.New("redis backend requires a url")
		}
		r, err := OpenRedis(ctx, opts.RedisURL, opts.RedisPrefix, opts.RedisTTL)
		if err != nil {
			return nil, err
		}
		return &Backend{Sessions: r, closers: []func() error{r.Close}}, nil

	default:
		return nil, fmt.Errorf("unknown store backend %q", opts.Kind)
	}
}
