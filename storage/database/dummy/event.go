package dummydb

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/frostwarlord/portal/core/event"
)

type eventRepository struct {
	db *eventTable
}

var _ event.Repository = (*eventRepository)(nil) // interface compliance check

func NewEventRepository(db *DB) *eventRepository {
	return &eventRepository{db: db.event}
}

func (repo *eventRepository) CreateEvent(ctx context.Context, evt event.Event) (event.Event, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	evt.ID = uuid.New().String()
	repo.db.table[evt.ID] = &evt
	return evt, nil
}

func (repo *eventRepository) QueryEventsFrom(ctx context.Context, from time.Time) ([]event.Event, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	fromUTC := from.UTC()
	var events []event.Event
	for _, evt := range repo.db.table {
		if !evt.StartTime.Before(fromUTC) {
			events = append(events, *evt)
		}
	}
	sort.Slice(events, func(i, j int) bool { return events[i].StartTime.Before(events[j].StartTime) })
	return events, nil
}
