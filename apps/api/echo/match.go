package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/frostwarlord/portal/core/match"
)

type matchApi struct {
	deps ServerDeps
}

func registerMatchAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := matchApi{deps: deps}

	g.GET("/matches", api.query)
	g.POST("/matches", api.create, jwt)
}

func (api *matchApi) query(ctx echo.Context) error {
	matches, err := api.deps.MatchSvc.Query(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying matches")
	}
	if matches == nil {
		matches = []match.Match{}
	}
	return ctx.JSON(http.StatusOK, matches)
}

func (api *matchApi) create(ctx echo.Context) error {
	var data match.NewMatch
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewMatch")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	recorder, err := getContextUser(ctx, api.deps.UserSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	m, err := api.deps.MatchSvc.Create(ctx.Request().Context(), data, recorder)
	if err != nil {
		return errors.Wrap(err, "creating match")
	}

	return ctx.JSON(http.StatusCreated, m)
}
