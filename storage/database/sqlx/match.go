package sqlxrepos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/frostwarlord/portal/core"
	"github.com/frostwarlord/portal/core/match"
)

// most recent match first
var matchOrdering = core.DBOrdering{Field: "match_date"}

type matchRow struct {
	ID            string      `db:"id"`
	Opponent      string      `db:"opponent"`
	MatchDate     time.Time   `db:"match_date"`
	Result        string      `db:"match_result"`
	OurScore      null.Int    `db:"our_score"`
	OpponentScore null.Int    `db:"opponent_score"`
	Notes         null.String `db:"notes"`
	RecordedBy    string      `db:"recorded_by"`
	CreatedAt     time.Time   `db:"created_at"`
}

func (r matchRow) unpack() match.Match {
	m := match.Match{
		ID:         r.ID,
		Opponent:   r.Opponent,
		MatchDate:  r.MatchDate,
		Result:     r.Result,
		Notes:      r.Notes.String,
		RecordedBy: r.RecordedBy,
		CreatedAt:  r.CreatedAt,
	}
	if r.OurScore.Valid {
		score := r.OurScore.Int
		m.OurScore = &score
	}
	if r.OpponentScore.Valid {
		score := r.OpponentScore.Int
		m.OpponentScore = &score
	}
	return m
}

type matchRepository struct {
	db *sqlx.DB
}

var _ match.Repository = (*matchRepository)(nil) // interface compliance check

func NewMatchRepository(db *sqlx.DB) *matchRepository {
	return &matchRepository{db: db}
}

func (repo matchRepository) CreateMatch(ctx context.Context, m match.Match) (match.Match, error) {
	m.ID = uuid.New().String()
	row := matchRow{
		ID:         m.ID,
		Opponent:   m.Opponent,
		MatchDate:  m.MatchDate.UTC(),
		Result:     m.Result,
		Notes:      null.NewString(m.Notes, m.Notes != ""),
		RecordedBy: m.RecordedBy,
		CreatedAt:  m.CreatedAt.UTC(),
	}
	if m.OurScore != nil {
		row.OurScore = null.IntFrom(*m.OurScore)
	}
	if m.OpponentScore != nil {
		row.OpponentScore = null.IntFrom(*m.OpponentScore)
	}
	_, err := repo.db.NamedExecContext(ctx, `
		INSERT INTO matches (
			id, opponent, match_date, match_result, our_score, opponent_score,
			notes, recorded_by, created_at
		) VALUES (
			:id, :opponent, :match_date, :match_result, :our_score, :opponent_score,
			:notes, :recorded_by, :created_at
		)`, row)
	if err != nil {
		return match.Match{}, errors.Wrap(err, "inserting match")
	}
	return m, nil
}

func (repo matchRepository) QueryMatches(ctx context.Context) ([]match.Match, error) {
	var rows []matchRow
	err := repo.db.SelectContext(ctx, &rows, `SELECT * FROM matches ORDER BY `+matchOrdering.String())
	if err != nil {
		return nil, errors.Wrap(err, "querying matches")
	}
	matches := make([]match.Match, len(rows))
	for i, row := range rows {
		matches[i] = row.unpack()
	}
	return matches, nil
}
