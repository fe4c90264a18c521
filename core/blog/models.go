package blog

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/frostwarlord/portal/core"
)

type Post struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	ImageURL    string    `json:"image_url,omitempty"`
	AuthorID    string    `json:"author_id"`
	Slug        string    `json:"slug"`
	IsPublished bool      `json:"is_published"`
	ViewCount   int       `json:"view_count"`
	CreatedAt   time.Time `json:"created_at"` // UTC
	UpdatedAt   time.Time `json:"updated_at"` // UTC
}

type Comment struct {
	ID        string    `json:"id"`
	PostID    string    `json:"post_id"`
	UserID    string    `json:"user_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at"` // UTC

	// author info, joined on read
	UserName           string `json:"user_name,omitempty"`
	UserProfilePicture string `json:"user_profile_picture,omitempty"`
}

// NewPost contains information needed to publish a new Post.
type NewPost struct {
	Title    string `json:"title" validate:"required"`
	Content  string `json:"content" validate:"required"`
	ImageURL string `json:"image_url" validate:"omitempty,url"`
	Slug     string `json:"slug" validate:"required,slug"`
}

func (np *NewPost) Validate(validate *validator.Validate) error {
	np.Title = core.CleanString(np.Title)
	np.Content = core.CleanString(np.Content)
	np.ImageURL = core.CleanString(np.ImageURL)
	np.Slug = core.CleanString(np.Slug, true /* lower */)
	return validate.Struct(np)
}

// NewComment contains information needed to attach a Comment to a Post.
type NewComment struct {
	PostID  string `json:"post_id" validate:"required"`
	Content string `json:"content" validate:"required"`
}

func (nc *NewComment) Validate(validate *validator.Validate) error {
	nc.PostID = core.CleanString(nc.PostID)
	nc.Content = core.CleanString(nc.Content)
	return validate.Struct(nc)
}
