package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/interviewer/internal/interview"
)

// SQLiteSessions stores sessions as JSON documents keyed by ID, with the
// fields needed for pruning lifted into columns.
type SQLiteSessions struct {
	db *sql.DB
}

var _ SessionStore = (*SQLiteSessions)(nil)
var _ SessionPruner = (*SQLiteSessions)(nil)

func (s *SQLiteSessions) Create(ctx context.Context, sess *interview.Session) error {
	if _, err := s.Get(ctx, sess.ID); err == nil {
		return ErrExists
	} else if !errors.Is(err, ErrNotFound) {
		return err
	}
	return s.write(ctx, sess, false)
}

func (s *SQLiteSessions) Get(ctx context.Context, id string) (*interview.Session, error) {
	b := builder()
	query, args := b.Select("data").
		From(b.Table(tableSessions)).
		Where(entsql.EQ("id", id)).
		Query()

	var data string
	err := s.db.QueryRowContext(ctx, query, args...).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query session: %w", err)
	}

	var sess interview.Session
	if err := json.Unmarshal([]byte(data), &sess); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	return &sess, nil
}

func (s *SQLiteSessions) Put(ctx context.Context, sess *interview.Session) error {
	return s.write(ctx, sess, true)
}

func (s *SQLiteSessions) write(ctx context.Context, sess *interview.Session, upsert bool) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	ins := builder().Insert(tableSessions).
		Columns("id", "candidate_name", "current_round", "is_completed", "data", "created_at", "updated_at").
		Values(sess.ID, sess.CandidateName, string(sess.CurrentRound), sess.IsCompleted, string(data),
			sess.CreatedAt.UnixMilli(), sess.UpdatedAt.UnixMilli())
	if upsert {
		ins = ins.OnConflict(entsql.ConflictColumns("id"), entsql.ResolveWithNewValues())
	}

	query, args := ins.Query()
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

// PruneSessions deletes completed sessions last updated before cutoff.
func (s *SQLiteSessions) PruneSessions(ctx context.Context, cutoff time.Time) (int64, error) {
	query, args := builder().Delete(tableSessions).
		Where(entsql.And(
			entsql.EQ("is_completed", true),
			entsql.LT("updated_at", cutoff.UnixMilli()),
		)).
		Query()

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("prune sessions: %w", err)
	}
	return res.RowsAffected()
}

// Count returns the number of stored sessions.
func (s *SQLiteSessions) Count(ctx context.Context) (int, error) {
	b := builder()
	query, args := b.Select(entsql.Count("*")).From(b.Table(tableSessions)).Query()

	var n int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count sessions: %w", err)
	}
	return n, nil
}
