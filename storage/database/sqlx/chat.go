package sqlxrepos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/frostwarlord/portal/core/chat"
)

type messageRow struct {
	ID                   string      `db:"id"`
	Content              string      `db:"content"`
	SenderID             string      `db:"sender_id"`
	IsRead               bool        `db:"is_read"`
	CreatedAt            time.Time   `db:"created_at"`
	SenderName           null.String `db:"sender_name"`
	SenderProfilePicture null.String `db:"sender_profile_picture"`
}

func (r messageRow) unpack() chat.Message {
	return chat.Message{
		ID:                   r.ID,
		Content:              r.Content,
		SenderID:             r.SenderID,
		IsRead:               r.IsRead,
		CreatedAt:            r.CreatedAt,
		SenderName:           r.SenderName.String,
		SenderProfilePicture: r.SenderProfilePicture.String,
	}
}

type chatRepository struct {
	db *sqlx.DB
}

var _ chat.Repository = (*chatRepository)(nil) // interface compliance check

func NewChatRepository(db *sqlx.DB) *chatRepository {
	return &chatRepository{db: db}
}

func (repo chatRepository) CreateMessage(ctx context.Context, msg chat.Message) (chat.Message, error) {
	msg.ID = uuid.New().String()
	_, err := repo.db.ExecContext(ctx, `
		INSERT INTO messages (id, content, sender_id, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		msg.ID, msg.Content, msg.SenderID, msg.IsRead, msg.CreatedAt.UTC())
	if err != nil {
		return chat.Message{}, errors.Wrap(err, "inserting message")
	}
	return msg, nil
}

// QueryMessages returns the latest `limit` messages in chronological order.
func (repo chatRepository) QueryMessages(ctx context.Context, limit int) ([]chat.Message, error) {
	var rows []messageRow
	err := repo.db.SelectContext(ctx, &rows, `
		SELECT latest.*, u.name AS sender_name, u.profile_picture AS sender_profile_picture
		FROM (
			SELECT * FROM messages ORDER BY created_at DESC LIMIT $1
		) latest
		LEFT JOIN users u ON u.id = latest.sender_id
		ORDER BY latest.created_at ASC`, limit)
	if err != nil {
		return nil, errors.Wrap(err, "querying messages")
	}
	msgs := make([]chat.Message, len(rows))
	for i, row := range rows {
		msgs[i] = row.unpack()
	}
	return msgs, nil
}
