package blog

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/frostwarlord/portal/core"
	"github.com/frostwarlord/portal/core/user"
)

type fakeRepo struct {
	posts    map[string]*Post
	comments map[string]*Comment
	pkCount  int
}

var _ Repository = (*fakeRepo)(nil)

func newFakeRepo() *fakeRepo {
	return &fakeRepo{posts: make(map[string]*Post), comments: make(map[string]*Comment)}
}

func (repo *fakeRepo) nextID() string {
	repo.pkCount++
	return strconv.Itoa(repo.pkCount)
}

func (repo *fakeRepo) CheckSlugUniqueness(ctx context.Context, slug string) error {
	for _, post := range repo.posts {
		if post.Slug == slug {
			return ErrSlugExists
		}
	}
	return nil
}

func (repo *fakeRepo) CreatePost(ctx context.Context, post Post) (Post, error) {
	post.ID = repo.nextID()
	repo.posts[post.ID] = &post
	return post, nil
}

func (repo *fakeRepo) QueryPublishedPosts(ctx context.Context) ([]Post, error) {
	var posts []Post
	for _, post := range repo.posts {
		if post.IsPublished {
			posts = append(posts, *post)
		}
	}
	return posts, nil
}

func (repo *fakeRepo) GetPostBySlug(ctx context.Context, slug string) (Post, error) {
	for _, post := range repo.posts {
		if post.Slug == slug {
			return *post, nil
		}
	}
	return Post{}, ErrPostNotFound
}

func (repo *fakeRepo) GetPostByID(ctx context.Context, id string) (Post, error) {
	if post, ok := repo.posts[id]; ok {
		return *post, nil
	}
	return Post{}, ErrPostNotFound
}

func (repo *fakeRepo) IncrementPostViews(ctx context.Context, id string) (int, error) {
	post, ok := repo.posts[id]
	if !ok {
		return 0, ErrPostNotFound
	}
	post.ViewCount++
	return post.ViewCount, nil
}

func (repo *fakeRepo) CreateComment(ctx context.Context, cmt Comment) (Comment, error) {
	cmt.ID = repo.nextID()
	repo.comments[cmt.ID] = &cmt
	return cmt, nil
}

func (repo *fakeRepo) QueryCommentsByPost(ctx context.Context, postID string) ([]Comment, error) {
	var comments []Comment
	for _, cmt := range repo.comments {
		if cmt.PostID == postID {
			comments = append(comments, *cmt)
		}
	}
	return comments, nil
}

var author = user.User{ID: "u1", Name: "Kai", ProfilePicture: "https://cdn.test.cd/kai.png"}

func TestService_CreatePost(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newFakeRepo())

	post, err := svc.CreatePost(ctx, NewPost{Title: "Season recap", Content: "...", Slug: "season-recap"}, author)
	if err != nil {
		t.Fatalf("CreatePost() failed: %v", err)
	}
	if post.AuthorID != author.ID {
		t.Errorf("AuthorID = %q, want %q", post.AuthorID, author.ID)
	}
	if !post.IsPublished {
		t.Error("new post is not published")
	}
	if post.ViewCount != 0 {
		t.Errorf("ViewCount = %d, want 0", post.ViewCount)
	}

	// duplicate slug is a field-level validation error
	_, err = svc.CreatePost(ctx, NewPost{Title: "Another", Content: "...", Slug: "season-recap"}, author)
	vErr, ok := err.(*core.ValidationError)
	if !ok {
		t.Fatalf("CreatePost() error = %T, want *core.ValidationError", err)
	}
	if len(vErr.Fields) != 1 || vErr.Fields[0].Field != "slug" {
		t.Errorf("unexpected field errors: %+v", vErr.Fields)
	}
}

func TestService_GetBySlug_countsView(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newFakeRepo())

	created, err := svc.CreatePost(ctx, NewPost{Title: "T", Content: "...", Slug: "t"}, author)
	if err != nil {
		t.Fatalf("CreatePost() failed: %v", err)
	}

	for want := 1; want <= 3; want++ {
		post, err := svc.GetBySlug(ctx, "t")
		if err != nil {
			t.Fatalf("GetBySlug() failed: %v", err)
		}
		if post.ViewCount != want {
			t.Errorf("ViewCount = %d, want %d", post.ViewCount, want)
		}
	}

	// slug lookups are case-normalized
	if _, err = svc.GetBySlug(ctx, " T "); err != nil {
		t.Errorf("GetBySlug() with unclean slug failed: %v", err)
	}

	if _, err = svc.GetBySlug(ctx, "nope"); err != ErrPostNotFound {
		t.Errorf("GetBySlug() error = %v, want ErrPostNotFound", err)
	}
	_ = created
}

func TestService_comments(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	svc := NewService(repo)

	post, err := svc.CreatePost(ctx, NewPost{Title: "T", Content: "...", Slug: "t"}, author)
	if err != nil {
		t.Fatalf("CreatePost() failed: %v", err)
	}

	cmt, err := svc.CreateComment(ctx, NewComment{PostID: post.ID, Content: "gg"}, author)
	if err != nil {
		t.Fatalf("CreateComment() failed: %v", err)
	}
	if cmt.UserName != author.Name || cmt.UserProfilePicture != author.ProfilePicture {
		t.Errorf("comment not joined with author profile: %+v", cmt)
	}
	if cmt.CreatedAt.IsZero() {
		t.Error("CreatedAt not set")
	}

	comments, err := svc.CommentsBySlug(ctx, "t")
	if err != nil {
		t.Fatalf("CommentsBySlug() failed: %v", err)
	}
	if len(comments) != 1 {
		t.Fatalf("got %d comments, want 1", len(comments))
	}

	// listing comments must not count a view
	refreshed, _ := repo.GetPostBySlug(ctx, "t")
	if refreshed.ViewCount != 0 {
		t.Errorf("ViewCount = %d after listing comments, want 0", refreshed.ViewCount)
	}

	if _, err = svc.CommentsBySlug(ctx, "nope"); err != ErrPostNotFound {
		t.Errorf("CommentsBySlug() error = %v, want ErrPostNotFound", err)
	}
}

func TestService_QueryPublished(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	svc := NewService(repo)

	if _, err := svc.CreatePost(ctx, NewPost{Title: "A", Content: "...", Slug: "a"}, author); err != nil {
		t.Fatalf("CreatePost() failed: %v", err)
	}
	// drafts stay hidden
	draft := Post{Title: "Draft", Content: "...", Slug: "draft", IsPublished: false, CreatedAt: time.Now().UTC()}
	if _, err := repo.CreatePost(ctx, draft); err != nil {
		t.Fatalf("CreatePost() failed: %v", err)
	}

	posts, err := svc.QueryPublished(ctx)
	if err != nil {
		t.Fatalf("QueryPublished() failed: %v", err)
	}
	if len(posts) != 1 || posts[0].Slug != "a" {
		t.Errorf("QueryPublished() = %+v, want only the published post", posts)
	}
}
