package store

import (
	"context"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// SessionEvent is a stored interview progress event.
type SessionEvent struct {
	Sequence  int64
	Timestamp time.Time
	SessionEventData
}

func (r *Events) AppendSessionEvent(ctx context.Context, data SessionEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	query, args := builder().Insert(tableSessionEvents).
		Columns("sequence", "timestamp", "session_id", "action", "round", "question_id", "score").
		Values(seqNum, r.now().UnixMilli(), data.SessionID, data.Action, data.Round, data.QuestionID, data.Score).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save session event: %w", err)
	}
	return nil
}

// SessionEvents returns the events of one session in sequence order.
func (r *Events) SessionEvents(ctx context.Context, sessionID string) ([]SessionEvent, error) {
	b := builder()
	query, args := b.Select("sequence", "timestamp", "session_id", "action", "round", "question_id", "score").
		From(b.Table(tableSessionEvents)).
		Where(entsql.EQ("session_id", sessionID)).
		OrderBy("sequence").
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query session events: %w", err)
	}
	defer rows.Close()

	var out []SessionEvent
	for rows.Next() {
		var (
			e  SessionEvent
			ts int64
		)
		if err := rows.Scan(&e.Sequence, &ts, &e.SessionID, &e.Action, &e.Round, &e.QuestionID, &e.Score); err != nil {
			return nil, fmt.Errorf("scan session event: %w", err)
		}
		e.Timestamp = time.UnixMilli(ts)
		out = append(out, e)
	}
	return out, rows.Err()
}
