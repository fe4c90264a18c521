package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/frostwarlord/portal/core/blog"
)

type blogApi struct {
	deps ServerDeps
}

func registerBlogAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := blogApi{deps: deps}

	g.GET("/posts", api.query)
	g.GET("/posts/:slug", api.retrieve)
	g.POST("/posts", api.create, jwt)

	g.GET("/posts/:slug/comments", api.queryComments)
	g.GET("/comments", api.queryCommentsByPost)
	g.POST("/comments", api.createComment, jwt)
}

// Handlers

func (api *blogApi) query(ctx echo.Context) error {
	posts, err := api.deps.BlogSvc.QueryPublished(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying posts")
	}
	if posts == nil {
		posts = []blog.Post{}
	}
	return ctx.JSON(http.StatusOK, posts)
}

func (api *blogApi) retrieve(ctx echo.Context) error {
	post, err := api.deps.BlogSvc.GetBySlug(ctx.Request().Context(), ctx.Param("slug"))
	if err != nil {
		if errors.Cause(err) == blog.ErrPostNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "getting post by slug")
	}
	return ctx.JSON(http.StatusOK, post)
}

func (api *blogApi) create(ctx echo.Context) error {
	var data blog.NewPost
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewPost")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	author, err := getContextUser(ctx, api.deps.UserSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	post, err := api.deps.BlogSvc.CreatePost(ctx.Request().Context(), data, author)
	if err != nil {
		return errors.Wrap(err, "creating post")
	}

	return ctx.JSON(http.StatusCreated, post)
}

func (api *blogApi) queryComments(ctx echo.Context) error {
	comments, err := api.deps.BlogSvc.CommentsBySlug(ctx.Request().Context(), ctx.Param("slug"))
	if err != nil {
		if errors.Cause(err) == blog.ErrPostNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "querying comments")
	}
	if comments == nil {
		comments = []blog.Comment{}
	}
	return ctx.JSON(http.StatusOK, comments)
}

func (api *blogApi) queryCommentsByPost(ctx echo.Context) error {
	comments, err := api.deps.BlogSvc.Comments(ctx.Request().Context(), ctx.QueryParam("post_id"))
	if err != nil {
		if errors.Cause(err) == blog.ErrPostNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "querying comments")
	}
	if comments == nil {
		comments = []blog.Comment{}
	}
	return ctx.JSON(http.StatusOK, comments)
}

func (api *blogApi) createComment(ctx echo.Context) error {
	var data blog.NewComment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewComment")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	author, err := getContextUser(ctx, api.deps.UserSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	comment, err := api.deps.BlogSvc.CreateComment(ctx.Request().Context(), data, author)
	if err != nil {
		if errors.Cause(err) == blog.ErrPostNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "creating comment")
	}

	return ctx.JSON(http.StatusCreated, comment)
}
