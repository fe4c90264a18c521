package sqlxrepos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/frostwarlord/portal/core/blog"
)

type postRow struct {
	ID          string      `db:"id"`
	Title       string      `db:"title"`
	Content     string      `db:"content"`
	ImageURL    null.String `db:"image_url"`
	AuthorID    string      `db:"author_id"`
	Slug        string      `db:"slug"`
	IsPublished bool        `db:"is_published"`
	ViewCount   int         `db:"view_count"`
	CreatedAt   time.Time   `db:"created_at"`
	UpdatedAt   time.Time   `db:"updated_at"`
}

func (r postRow) unpack() blog.Post {
	return blog.Post{
		ID:          r.ID,
		Title:       r.Title,
		Content:     r.Content,
		ImageURL:    r.ImageURL.String,
		AuthorID:    r.AuthorID,
		Slug:        r.Slug,
		IsPublished: r.IsPublished,
		ViewCount:   r.ViewCount,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

type commentRow struct {
	ID                 string      `db:"id"`
	PostID             string      `db:"post_id"`
	UserID             string      `db:"user_id"`
	Content            string      `db:"content"`
	CreatedAt          time.Time   `db:"created_at"`
	UpdatedAt          time.Time   `db:"updated_at"`
	UserName           null.String `db:"user_name"`
	UserProfilePicture null.String `db:"user_profile_picture"`
}

func (r commentRow) unpack() blog.Comment {
	return blog.Comment{
		ID:                 r.ID,
		PostID:             r.PostID,
		UserID:             r.UserID,
		Content:            r.Content,
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
		UserName:           r.UserName.String,
		UserProfilePicture: r.UserProfilePicture.String,
	}
}

type blogRepository struct {
	db *sqlx.DB
}

var _ blog.Repository = (*blogRepository)(nil) // interface compliance check

func NewBlogRepository(db *sqlx.DB) *blogRepository {
	return &blogRepository{db: db}
}

func (repo blogRepository) CheckSlugUniqueness(ctx context.Context, slug string) error {
	var exists bool
	err := repo.db.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM posts WHERE slug = $1)`, slug)
	if err != nil {
		return errors.Wrap(err, "checking slug uniqueness")
	}
	if exists {
		return blog.ErrSlugExists
	}
	return nil
}

func (repo blogRepository) CreatePost(ctx context.Context, post blog.Post) (blog.Post, error) {
	post.ID = uuid.New().String()
	row := postRow{
		ID:          post.ID,
		Title:       post.Title,
		Content:     post.Content,
		ImageURL:    null.NewString(post.ImageURL, post.ImageURL != ""),
		AuthorID:    post.AuthorID,
		Slug:        post.Slug,
		IsPublished: post.IsPublished,
		ViewCount:   post.ViewCount,
		CreatedAt:   post.CreatedAt.UTC(),
		UpdatedAt:   post.UpdatedAt.UTC(),
	}
	_, err := repo.db.NamedExecContext(ctx, `
		INSERT INTO posts (
			id, title, content, image_url, author_id, slug,
			is_published, view_count, created_at, updated_at
		) VALUES (
			:id, :title, :content, :image_url, :author_id, :slug,
			:is_published, :view_count, :created_at, :updated_at
		)`, row)
	if err != nil {
		return blog.Post{}, errors.Wrap(err, "inserting post")
	}
	return post, nil
}

func (repo blogRepository) QueryPublishedPosts(ctx context.Context) ([]blog.Post, error) {
	var rows []postRow
	err := repo.db.SelectContext(ctx, &rows,
		`SELECT * FROM posts WHERE is_published = TRUE ORDER BY created_at DESC`)
	if err != nil {
		return nil, errors.Wrap(err, "querying published posts")
	}
	posts := make([]blog.Post, len(rows))
	for i, row := range rows {
		posts[i] = row.unpack()
	}
	return posts, nil
}

func (repo blogRepository) GetPostBySlug(ctx context.Context, slug string) (blog.Post, error) {
	var row postRow
	err := repo.db.GetContext(ctx, &row, `SELECT * FROM posts WHERE slug = $1`, slug)
	if err != nil {
		return blog.Post{}, trapNoRowsErr(err, blog.ErrPostNotFound, "getting post by slug")
	}
	return row.unpack(), nil
}

func (repo blogRepository) GetPostByID(ctx context.Context, id string) (blog.Post, error) {
	if _, err := uuid.Parse(id); err != nil {
		return blog.Post{}, blog.ErrPostNotFound
	}
	var row postRow
	err := repo.db.GetContext(ctx, &row, `SELECT * FROM posts WHERE id = $1`, id)
	if err != nil {
		return blog.Post{}, trapNoRowsErr(err, blog.ErrPostNotFound, "getting post by id")
	}
	return row.unpack(), nil
}

func (repo blogRepository) IncrementPostViews(ctx context.Context, id string) (int, error) {
	var count int
	err := repo.db.GetContext(ctx, &count,
		`UPDATE posts SET view_count = view_count + 1, updated_at = $2 WHERE id = $1 RETURNING view_count`,
		id, time.Now().UTC())
	if err != nil {
		return 0, trapNoRowsErr(err, blog.ErrPostNotFound, "incrementing post views")
	}
	return count, nil
}

func (repo blogRepository) CreateComment(ctx context.Context, comment blog.Comment) (blog.Comment, error) {
	comment.ID = uuid.New().String()
	_, err := repo.db.ExecContext(ctx, `
		INSERT INTO comments (id, post_id, user_id, content, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		comment.ID, comment.PostID, comment.UserID, comment.Content,
		comment.CreatedAt.UTC(), comment.UpdatedAt.UTC())
	if err != nil {
		return blog.Comment{}, errors.Wrap(err, "inserting comment")
	}
	return comment, nil
}

func (repo blogRepository) QueryCommentsByPost(ctx context.Context, postID string) ([]blog.Comment, error) {
	var rows []commentRow
	err := repo.db.SelectContext(ctx, &rows, `
		SELECT c.id, c.post_id, c.user_id, c.content, c.created_at, c.updated_at,
		       u.name AS user_name, u.profile_picture AS user_profile_picture
		FROM comments c
		LEFT JOIN users u ON u.id = c.user_id
		WHERE c.post_id = $1
		ORDER BY c.created_at ASC`, postID)
	if err != nil {
		return nil, errors.Wrap(err, "querying comments")
	}
	comments := make([]blog.Comment, len(rows))
	for i, row := range rows {
		comments[i] = row.unpack()
	}
	return comments, nil
}
