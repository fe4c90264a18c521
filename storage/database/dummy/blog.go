package dummydb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/frostwarlord/portal/core/blog"
)

type blogRepository struct {
	posts    *postTable
	comments *commentTable
	users    *userTable
}

var _ blog.Repository = (*blogRepository)(nil) // interface compliance check

func NewBlogRepository(db *DB) *blogRepository {
	return &blogRepository{posts: db.post, comments: db.comment, users: db.user}
}

func (repo *blogRepository) CheckSlugUniqueness(ctx context.Context, slug string) error {
	repo.posts.RLock()
	defer repo.posts.RUnlock()

	for _, post := range repo.posts.table {
		if post.Slug == slug {
			return blog.ErrSlugExists
		}
	}
	return nil
}

func (repo *blogRepository) CreatePost(ctx context.Context, post blog.Post) (blog.Post, error) {
	repo.posts.Lock()
	defer repo.posts.Unlock()

	post.ID = uuid.New().String()
	repo.posts.table[post.ID] = &post
	return post, nil
}

func (repo *blogRepository) QueryPublishedPosts(ctx context.Context) ([]blog.Post, error) {
	repo.posts.RLock()
	defer repo.posts.RUnlock()

	posts := make([]blog.Post, 0, len(repo.posts.table))
	for _, post := range repo.posts.table {
		if post.IsPublished {
			posts = append(posts, *post)
		}
	}
	sort.Slice(posts, func(i, j int) bool { return posts[i].CreatedAt.After(posts[j].CreatedAt) })
	return posts, nil
}

func (repo *blogRepository) GetPostBySlug(ctx context.Context, slug string) (blog.Post, error) {
	repo.posts.RLock()
	defer repo.posts.RUnlock()

	for _, post := range repo.posts.table {
		if post.Slug == slug {
			return *post, nil
		}
	}
	return blog.Post{}, blog.ErrPostNotFound
}

func (repo *blogRepository) GetPostByID(ctx context.Context, id string) (blog.Post, error) {
	repo.posts.RLock()
	defer repo.posts.RUnlock()

	if post, ok := repo.posts.table[id]; ok {
		return *post, nil
	}
	return blog.Post{}, blog.ErrPostNotFound
}

func (repo *blogRepository) IncrementPostViews(ctx context.Context, id string) (int, error) {
	repo.posts.Lock()
	defer repo.posts.Unlock()

	post, ok := repo.posts.table[id]
	if !ok {
		return 0, blog.ErrPostNotFound
	}
	post.ViewCount++
	return post.ViewCount, nil
}

func (repo *blogRepository) CreateComment(ctx context.Context, comment blog.Comment) (blog.Comment, error) {
	repo.comments.Lock()
	defer repo.comments.Unlock()

	comment.ID = uuid.New().String()
	repo.comments.table[comment.ID] = &comment
	return comment, nil
}

func (repo *blogRepository) QueryCommentsByPost(ctx context.Context, postID string) ([]blog.Comment, error) {
	repo.comments.RLock()
	defer repo.comments.RUnlock()

	var comments []blog.Comment
	for _, comment := range repo.comments.table {
		if comment.PostID != postID {
			continue
		}
		cmt := *comment
		repo.users.RLock()
		if usr, ok := repo.users.table[cmt.UserID]; ok {
			cmt.UserName = usr.Name
			cmt.UserProfilePicture = usr.ProfilePicture
		}
		repo.users.RUnlock()
		comments = append(comments, cmt)
	}
	sort.Slice(comments, func(i, j int) bool { return comments[i].CreatedAt.Before(comments[j].CreatedAt) })
	return comments, nil
}
