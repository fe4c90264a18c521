package event

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/frostwarlord/portal/core/user"
)

var nowFunc = time.Now // mockable

type (
	Repository interface {
		CreateEvent(ctx context.Context, evt Event) (Event, error)
		// QueryEventsFrom returns events starting at or after `from`,
		// earliest first.
		QueryEventsFrom(ctx context.Context, from time.Time) ([]Event, error)
	}

	Service interface {
		// QueryUpcoming excludes events whose start time has already passed.
		QueryUpcoming(ctx context.Context) ([]Event, error)
		Create(ctx context.Context, ne NewEvent, creator user.User) (Event, error)
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (svc *service) QueryUpcoming(ctx context.Context) ([]Event, error) {
	return svc.repo.QueryEventsFrom(ctx, nowFunc().UTC())
}

func (svc *service) Create(ctx context.Context, ne NewEvent, creator user.User) (Event, error) {
	now := nowFunc().UTC()
	isPublic := true
	if ne.IsPublic != nil {
		isPublic = *ne.IsPublic
	}
	evt := Event{
		Title:       ne.Title,
		Description: ne.Description,
		StartTime:   ne.StartTime.UTC(),
		EndTime:     ne.EndTime.UTC(),
		CreatedBy:   creator.ID,
		EventType:   ne.EventType,
		IsPublic:    isPublic,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	evt, err := svc.repo.CreateEvent(ctx, evt)
	return evt, errors.Wrap(err, "creating event")
}
