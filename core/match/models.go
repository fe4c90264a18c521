package match

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/frostwarlord/portal/core"
)

// Match results
const (
	ResultWin     = "win"
	ResultLoss    = "loss"
	ResultDraw    = "draw"
	ResultPending = "pending"
)

type Match struct {
	ID            string    `json:"id"`
	Opponent      string    `json:"opponent"`
	MatchDate     time.Time `json:"match_date"` // UTC
	Result        string    `json:"match_result"`
	OurScore      *int      `json:"our_score,omitempty"`
	OpponentScore *int      `json:"opponent_score,omitempty"`
	Notes         string    `json:"notes,omitempty"`
	RecordedBy    string    `json:"recorded_by"`
	CreatedAt     time.Time `json:"created_at"` // UTC
}

// NewMatch contains information needed to record a Match result.
type NewMatch struct {
	Opponent      string    `json:"opponent" validate:"required"`
	MatchDate     time.Time `json:"match_date" validate:"required"`
	Result        string    `json:"match_result" validate:"omitempty,oneof=win loss draw pending"`
	OurScore      *int      `json:"our_score" validate:"omitempty,min=0"`
	OpponentScore *int      `json:"opponent_score" validate:"omitempty,min=0"`
	Notes         string    `json:"notes"`
}

func (nm *NewMatch) Validate(validate *validator.Validate) error {
	nm.Opponent = core.CleanString(nm.Opponent)
	nm.Result = core.CleanString(nm.Result, true /* lower */)
	nm.Notes = core.CleanString(nm.Notes)
	return validate.Struct(nm)
}
