package chat

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/frostwarlord/portal/core"
	"github.com/frostwarlord/portal/core/user"
)

var ErrEmptyMessage = errors.New("empty message")

type (
	Repository interface {
		CreateMessage(ctx context.Context, msg Message) (Message, error)
		// QueryMessages returns the last `limit` messages, oldest first.
		QueryMessages(ctx context.Context, limit int) ([]Message, error)
	}

	Service interface {
		// History replays the most recent persisted messages, oldest first.
		History(ctx context.Context) ([]Message, error)
		Save(ctx context.Context, content string, sender user.User) (Message, error)
	}

	service struct {
		repo Repository
		conf *core.Config
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, conf *core.Config) Service {
	return &service{repo: repo, conf: conf}
}

func (svc *service) History(ctx context.Context) ([]Message, error) {
	return svc.repo.QueryMessages(ctx, svc.conf.ChatHistoryLimit)
}

func (svc *service) Save(ctx context.Context, content string, sender user.User) (Message, error) {
	content = core.CleanString(content)
	if content == "" {
		return Message{}, ErrEmptyMessage
	}
	msg := Message{
		Content:   content,
		SenderID:  sender.ID,
		CreatedAt: time.Now().UTC(),
	}
	msg, err := svc.repo.CreateMessage(ctx, msg)
	if err != nil {
		return Message{}, errors.Wrap(err, "creating message")
	}
	msg.SenderName = sender.Name
	msg.SenderProfilePicture = sender.ProfilePicture
	return msg, nil
}
