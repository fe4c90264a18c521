package chat

import "time"

// Message is a chat entry. Messages are append-only: there is no edit or
// delete path.
type Message struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	SenderID  string    `json:"sender_id"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"` // UTC

	// joined sender profile
	SenderName           string `json:"sender_name"`
	SenderProfilePicture string `json:"sender_profile_picture,omitempty"`
}
