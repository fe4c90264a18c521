package dummydb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/frostwarlord/portal/core/chat"
)

type chatRepository struct {
	db    *messageTable
	users *userTable
}

var _ chat.Repository = (*chatRepository)(nil) // interface compliance check

func NewChatRepository(db *DB) *chatRepository {
	return &chatRepository{db: db.message, users: db.user}
}

func (repo *chatRepository) CreateMessage(ctx context.Context, msg chat.Message) (chat.Message, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	msg.ID = uuid.New().String()
	repo.db.table[msg.ID] = &msg
	return msg, nil
}

func (repo *chatRepository) QueryMessages(ctx context.Context, limit int) ([]chat.Message, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	msgs := make([]chat.Message, 0, len(repo.db.table))
	for _, msg := range repo.db.table {
		m := *msg
		repo.users.RLock()
		if usr, ok := repo.users.table[m.SenderID]; ok {
			m.SenderName = usr.Name
			m.SenderProfilePicture = usr.ProfilePicture
		}
		repo.users.RUnlock()
		msgs = append(msgs, m)
	}
	sort.Slice(msgs, func(i, j int) bool { return msgs[i].CreatedAt.Before(msgs[j].CreatedAt) })
	if len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}
	return msgs, nil
}
