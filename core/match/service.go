package match

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/frostwarlord/portal/core/user"
)

type (
	Repository interface {
		CreateMatch(ctx context.Context, m Match) (Match, error)
		// QueryMatches returns all recorded matches, most recent match first.
		QueryMatches(ctx context.Context) ([]Match, error)
	}

	Service interface {
		Query(ctx context.Context) ([]Match, error)
		Create(ctx context.Context, nm NewMatch, recorder user.User) (Match, error)
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (svc *service) Query(ctx context.Context) ([]Match, error) {
	return svc.repo.QueryMatches(ctx)
}

func (svc *service) Create(ctx context.Context, nm NewMatch, recorder user.User) (Match, error) {
	result := nm.Result
	if result == "" {
		result = ResultPending
	}
	m := Match{
		Opponent:      nm.Opponent,
		MatchDate:     nm.MatchDate.UTC(),
		Result:        result,
		OurScore:      nm.OurScore,
		OpponentScore: nm.OpponentScore,
		Notes:         nm.Notes,
		RecordedBy:    recorder.ID,
		CreatedAt:     time.Now().UTC(),
	}
	m, err := svc.repo.CreateMatch(ctx, m)
	return m, errors.Wrap(err, "creating match")
}
