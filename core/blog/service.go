package blog

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/frostwarlord/portal/core"
	"github.com/frostwarlord/portal/core/user"
)

var (
	// errors
	ErrPostNotFound = errors.New("post not found")
	ErrSlugExists   = errors.New("slug already in use")
)

type (
	Repository interface {
		CheckSlugUniqueness(ctx context.Context, slug string) error
		CreatePost(ctx context.Context, post Post) (Post, error)
		// QueryPublishedPosts returns published posts, newest first.
		QueryPublishedPosts(ctx context.Context) ([]Post, error)
		GetPostBySlug(ctx context.Context, slug string) (Post, error)
		GetPostByID(ctx context.Context, id string) (Post, error)
		// IncrementPostViews bumps the view counter atomically at the store
		// and returns the new count.
		IncrementPostViews(ctx context.Context, id string) (int, error)
		CreateComment(ctx context.Context, cmt Comment) (Comment, error)
		// QueryCommentsByPost returns a post's comments joined with their
		// author's name and picture, oldest first.
		QueryCommentsByPost(ctx context.Context, postID string) ([]Comment, error)
	}

	Service interface {
		QueryPublished(ctx context.Context) ([]Post, error)
		// GetBySlug returns the post and counts the read as a view.
		GetBySlug(ctx context.Context, slug string) (Post, error)
		CreatePost(ctx context.Context, np NewPost, author user.User) (Post, error)
		Comments(ctx context.Context, postID string) ([]Comment, error)
		// CommentsBySlug resolves the post without counting a view.
		CommentsBySlug(ctx context.Context, slug string) ([]Comment, error)
		CreateComment(ctx context.Context, nc NewComment, author user.User) (Comment, error)
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (svc *service) QueryPublished(ctx context.Context) ([]Post, error) {
	return svc.repo.QueryPublishedPosts(ctx)
}

func (svc *service) GetBySlug(ctx context.Context, slug string) (Post, error) {
	post, err := svc.repo.GetPostBySlug(ctx, core.CleanString(slug, true /* lower */))
	if err != nil {
		return Post{}, err
	}
	count, err := svc.repo.IncrementPostViews(ctx, post.ID)
	if err != nil {
		return Post{}, errors.Wrap(err, "incrementing view count")
	}
	post.ViewCount = count
	return post, nil
}

func (svc *service) CreatePost(ctx context.Context, np NewPost, author user.User) (Post, error) {
	if err := svc.repo.CheckSlugUniqueness(ctx, np.Slug); err != nil {
		if err == ErrSlugExists {
			return Post{}, core.NewValidationError(err, core.FieldError{Field: "slug", Error: err.Error()})
		}
		return Post{}, err
	}

	now := time.Now().UTC()
	post := Post{
		Title:       np.Title,
		Content:     np.Content,
		ImageURL:    np.ImageURL,
		AuthorID:    author.ID,
		Slug:        np.Slug,
		IsPublished: true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	post, err := svc.repo.CreatePost(ctx, post)
	return post, errors.Wrap(err, "creating post")
}

func (svc *service) Comments(ctx context.Context, postID string) ([]Comment, error) {
	post, err := svc.repo.GetPostByID(ctx, core.CleanString(postID))
	if err != nil {
		return nil, err
	}
	return svc.repo.QueryCommentsByPost(ctx, post.ID)
}

func (svc *service) CommentsBySlug(ctx context.Context, slug string) ([]Comment, error) {
	post, err := svc.repo.GetPostBySlug(ctx, core.CleanString(slug, true /* lower */))
	if err != nil {
		return nil, err
	}
	return svc.repo.QueryCommentsByPost(ctx, post.ID)
}

func (svc *service) CreateComment(ctx context.Context, nc NewComment, author user.User) (Comment, error) {
	post, err := svc.repo.GetPostByID(ctx, nc.PostID)
	if err != nil {
		return Comment{}, err
	}
	nc.PostID = post.ID

	now := time.Now().UTC()
	cmt := Comment{
		PostID:    nc.PostID,
		UserID:    author.ID,
		Content:   nc.Content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	cmt, err = svc.repo.CreateComment(ctx, cmt)
	if err != nil {
		return Comment{}, errors.Wrap(err, "creating comment")
	}
	cmt.UserName = author.Name
	cmt.UserProfilePicture = author.ProfilePicture
	return cmt, nil
}
