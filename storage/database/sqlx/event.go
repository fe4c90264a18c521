package sqlxrepos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/frostwarlord/portal/core"
	"github.com/frostwarlord/portal/core/event"
)

// soonest event first
var eventOrdering = core.DBOrdering{Field: "start_time", Ascending: true}

type eventRow struct {
	ID          string      `db:"id"`
	Title       string      `db:"title"`
	Description null.String `db:"description"`
	StartTime   time.Time   `db:"start_time"`
	EndTime     time.Time   `db:"end_time"`
	EventType   string      `db:"event_type"`
	IsPublic    bool        `db:"is_public"`
	CreatedBy   string      `db:"created_by"`
	CreatedAt   time.Time   `db:"created_at"`
	UpdatedAt   time.Time   `db:"updated_at"`
}

func (r eventRow) unpack() event.Event {
	return event.Event{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description.String,
		StartTime:   r.StartTime,
		EndTime:     r.EndTime,
		EventType:   r.EventType,
		IsPublic:    r.IsPublic,
		CreatedBy:   r.CreatedBy,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

type eventRepository struct {
	db *sqlx.DB
}

var _ event.Repository = (*eventRepository)(nil) // interface compliance check

func NewEventRepository(db *sqlx.DB) *eventRepository {
	return &eventRepository{db: db}
}

func (repo eventRepository) CreateEvent(ctx context.Context, evt event.Event) (event.Event, error) {
	evt.ID = uuid.New().String()
	row := eventRow{
		ID:          evt.ID,
		Title:       evt.Title,
		Description: null.NewString(evt.Description, evt.Description != ""),
		StartTime:   evt.StartTime.UTC(),
		EndTime:     evt.EndTime.UTC(),
		EventType:   evt.EventType,
		IsPublic:    evt.IsPublic,
		CreatedBy:   evt.CreatedBy,
		CreatedAt:   evt.CreatedAt.UTC(),
		UpdatedAt:   evt.UpdatedAt.UTC(),
	}
	_, err := repo.db.NamedExecContext(ctx, `
		INSERT INTO events (
			id, title, description, start_time, end_time,
			event_type, is_public, created_by, created_at, updated_at
		) VALUES (
			:id, :title, :description, :start_time, :end_time,
			:event_type, :is_public, :created_by, :created_at, :updated_at
		)`, row)
	if err != nil {
		return event.Event{}, errors.Wrap(err, "inserting event")
	}
	return evt, nil
}

func (repo eventRepository) QueryEventsFrom(ctx context.Context, from time.Time) ([]event.Event, error) {
	var rows []eventRow
	err := repo.db.SelectContext(ctx, &rows,
		`SELECT * FROM events WHERE start_time >= $1 ORDER BY `+eventOrdering.String(), from.UTC())
	if err != nil {
		return nil, errors.Wrap(err, "querying events")
	}
	events := make([]event.Event, len(rows))
	for i, row := range rows {
		events[i] = row.unpack()
	}
	return events, nil
}
