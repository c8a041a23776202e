package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"gurukul/internal/model"
)

var (
	ErrAlreadyJoined = errors.New("already joined")
	ErrEventFull     = errors.New("event is full")
)

type EventRepository interface {
	ListUpcoming(ctx context.Context, now time.Time) ([]model.Event, error)
	CreateEvent(ctx context.Context, e *model.Event) error
	GetEventByID(ctx context.Context, id string) (*model.Event, error)
	// JoinEvent adds a participant, returning ErrAlreadyJoined or ErrEventFull when it cannot
	JoinEvent(ctx context.Context, eventID, userID string) error
}

type eventRepo struct {
	db *sql.DB
}

func NewEventRepo(db *sql.DB) EventRepository {
	return &eventRepo{db: db}
}

const eventColumns = `id, title, description, start_date, end_date, location, is_virtual, organizer_id,
	max_participants, current_participants, category, created_at`

func scanEvent(row interface{ Scan(...any) error }, e *model.Event) error {
	return row.Scan(&e.ID, &e.Title, &e.Description, &e.StartDate, &e.EndDate, &e.Location, &e.IsVirtual,
		&e.OrganizerID, &e.MaxParticipants, &e.CurrentParticipants, &e.Category, &e.CreatedAt)
}

func (r *eventRepo) ListUpcoming(ctx context.Context, now time.Time) ([]model.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE end_date >= $1 ORDER BY start_date ASC`
	rows, err := r.db.QueryContext(ctx, query, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := []model.Event{}
	for rows.Next() {
		var e model.Event
		if err := scanEvent(rows, &e); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *eventRepo) CreateEvent(ctx context.Context, e *model.Event) error {
	query := `
		INSERT INTO events (title, description, start_date, end_date, location, is_virtual, organizer_id,
		                    max_participants, category)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, current_participants, created_at
	`
	return r.db.QueryRowContext(ctx, query, e.Title, e.Description, e.StartDate, e.EndDate, e.Location,
		e.IsVirtual, e.OrganizerID, e.MaxParticipants, e.Category).
		Scan(&e.ID, &e.CurrentParticipants, &e.CreatedAt)
}

func (r *eventRepo) GetEventByID(ctx context.Context, id string) (*model.Event, error) {
	var e model.Event
	if err := scanEvent(r.db.QueryRowContext(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1`, id), &e); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}

// JoinEvent claims a seat with a conditional UPDATE so concurrent joins cannot overfill the event
func (r *eventRepo) JoinEvent(ctx context.Context, eventID, userID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO event_participants (event_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (event_id, user_id) DO NOTHING
	`, eventID, userID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return ErrAlreadyJoined
	}

	res, err = tx.ExecContext(ctx, `
		UPDATE events
		SET current_participants = current_participants + 1
		WHERE id = $1 AND (max_participants IS NULL OR current_participants < max_participants)
	`, eventID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return ErrEventFull
	}
	return tx.Commit()
}
