// Package pgmq is a thin client for the pgmq Postgres extension.
package pgmq

import (
	"context"
	"database/sql"
	"fmt"
)

// Queue is a named pgmq queue.
type Queue struct {
	db   *sql.DB
	name string
}

// NewQueue returns a handle on queue name backed by db.
func NewQueue(db *sql.DB, name string) *Queue {
	return &Queue{db: db, name: name}
}

func (q *Queue) Name() string { return q.name }

// Message represents a single pgmq message.
type Message struct {
	ID     int64  // message identifier
	ReadCt int    // number of times the message has been read
	Data   []byte // raw JSON payload
}

// Send pushes a JSON payload onto the queue and returns its message id.
func (q *Queue) Send(ctx context.Context, payload []byte) (int64, error) {
	var id int64
	if err := q.db.QueryRowContext(ctx, "SELECT pgmq.send($1, $2::jsonb, 0)", q.name, string(payload)).Scan(&id); err != nil {
		return 0, fmt.Errorf("pgmq send to %s failed: %w", q.name, err)
	}
	return id, nil
}

// ReadWithPoll reads up to maxMessages, blocking up to timeoutSec seconds. Read
// messages stay invisible for visibilitySec seconds.
func (q *Queue) ReadWithPoll(ctx context.Context, visibilitySec, timeoutSec, maxMessages int) ([]*Message, error) {
	rows, err := q.db.QueryContext(ctx,
		"SELECT msg_id, read_ct, message FROM pgmq.read_with_poll($1, $2, $3, $4)",
		q.name, visibilitySec, maxMessages, timeoutSec)
	if err != nil {
		return nil, fmt.Errorf("pgmq read_with_poll on %s failed: %w", q.name, err)
	}
	defer rows.Close()

	var msgs []*Message
	for rows.Next() {
		m := &Message{}
		if err := rows.Scan(&m.ID, &m.ReadCt, &m.Data); err != nil {
			return nil, fmt.Errorf("pgmq read scan failed: %w", err)
		}
		msgs = append(msgs, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pgmq read rows error: %w", err)
	}
	return msgs, nil
}

// Delete removes a processed message.
func (q *Queue) Delete(ctx context.Context, msgID int64) error {
	if _, err := q.db.ExecContext(ctx, "SELECT pgmq.delete($1, $2::bigint)", q.name, msgID); err != nil {
		return fmt.Errorf("pgmq delete on %s failed: %w", q.name, err)
	}
	return nil
}

// Archive moves a message to the queue's archive table, keeping it for inspection.
func (q *Queue) Archive(ctx context.Context, msgID int64) error {
	if _, err := q.db.ExecContext(ctx, "SELECT pgmq.archive($1, $2::bigint)", q.name, msgID); err != nil {
		return fmt.Errorf("pgmq archive on %s failed: %w", q.name, err)
	}
	return nil
}
