package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/frostwarlord/portal/core/upload"
)

type uploadApi struct {
	deps ServerDeps
}

func registerUploadAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := uploadApi{deps: deps}

	g.GET("/uploads", api.query)
	g.POST("/uploads", api.create, jwt)
}

func (api *uploadApi) query(ctx echo.Context) error {
	uploads, err := api.deps.UploadSvc.Query(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying uploads")
	}
	if uploads == nil {
		uploads = []upload.Upload{}
	}
	return ctx.JSON(http.StatusOK, uploads)
}

func (api *uploadApi) create(ctx echo.Context) error {
	var data upload.NewUpload
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewUpload")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	uploader, err := getContextUser(ctx, api.deps.UserSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	up, err := api.deps.UploadSvc.Create(ctx.Request().Context(), data, uploader)
	if err != nil {
		return errors.Wrap(err, "creating upload")
	}

	return ctx.JSON(http.StatusCreated, up)
}
