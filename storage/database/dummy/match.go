package dummydb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/frostwarlord/portal/core/match"
)

type matchRepository struct {
	db *matchTable
}

var _ match.Repository = (*matchRepository)(nil) // interface compliance check

func NewMatchRepository(db *DB) *matchRepository {
	return &matchRepository{db: db.match}
}

func (repo *matchRepository) CreateMatch(ctx context.Context, m match.Match) (match.Match, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	m.ID = uuid.New().String()
	repo.db.table[m.ID] = &m
	return m, nil
}

func (repo *matchRepository) QueryMatches(ctx context.Context) ([]match.Match, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	matches := make([]match.Match, 0, len(repo.db.table))
	for _, m := range repo.db.table {
		matches = append(matches, *m)
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].MatchDate.After(matches[j].MatchDate) })
	return matches, nil
}
