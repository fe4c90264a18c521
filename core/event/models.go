package event

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/frostwarlord/portal/core"
)

type Event struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	StartTime   time.Time `json:"start_time"` // UTC
	EndTime     time.Time `json:"end_time"`   // UTC
	CreatedBy   string    `json:"created_by"`
	EventType   string    `json:"event_type"`
	IsPublic    bool      `json:"is_public"`
	CreatedAt   time.Time `json:"created_at"` // UTC
	UpdatedAt   time.Time `json:"updated_at"` // UTC
}

// NewEvent contains information needed to schedule a new Event.
type NewEvent struct {
	Title       string    `json:"title" validate:"required"`
	Description string    `json:"description"`
	StartTime   time.Time `json:"start_time" validate:"required"`
	EndTime     time.Time `json:"end_time" validate:"required,gtfield=StartTime"`
	EventType   string    `json:"event_type" validate:"required"`
	IsPublic    *bool     `json:"is_public"`
}

func (ne *NewEvent) Validate(validate *validator.Validate) error {
	ne.Title = core.CleanString(ne.Title)
	ne.Description = core.CleanString(ne.Description)
	ne.EventType = core.CleanString(ne.EventType)
	return validate.Struct(ne)
}
