package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/abhisek/interviewer/internal/interview"
)

// DefaultRedisPrefix namespaces session keys.
const DefaultRedisPrefix = "interviewer:"

// RedisSessions stores each session as a JSON string under
// <prefix>session:<id>. Expiry is handled by Redis via TTL, so there is
// no pruner.
type RedisSessions struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

var _ SessionStore = (*RedisSessions)(nil)

// NewRedisSessions wraps a client. A zero ttl keeps sessions forever.
func NewRedisSessions(client redis.UniversalClient, prefix string, ttl time.Duration) *RedisSessions {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisSessions{client: client, prefix: prefix, ttl: ttl}
}

// OpenRedis connects to the server at url (redis://...) and pings it.
func OpenRedis(ctx context.Context, url, prefix string, ttl time.Duration) (*RedisSessions, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return NewRedisSessions(client, prefix, ttl), nil
}

func (r *RedisSessions) key(id string) string {
	return r.prefix + "session:" + id
}

func (r *RedisSessions) Create(ctx context.Context, sess *interview.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	ok, err := r.client.SetNX(ctx, r.key(sess.ID), data, r.ttl).Result()
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	if !ok {
		return ErrExists
	}
	return nil
}

func (r *RedisSessions) Get(ctx context.Context, id string) (*interview.Session, error) {
	data, err := r.client.Get(ctx, r.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	var sess interview.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	return &sess, nil
}

// Put overwrites the session and refreshes its TTL.
func (r *RedisSessions) Put(ctx context.Context, sess *interview.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := r.client.Set(ctx, r.key(sess.ID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("put session: %w", err)
	}
	return nil
}

// Close closes the underlying client.
func (r *RedisSessions) Close() error {
	return r.client.Close()
}
