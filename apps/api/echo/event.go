package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/frostwarlord/portal/core/event"
)

type eventApi struct {
	deps ServerDeps
}

func registerEventAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := eventApi{deps: deps}

	g.GET("/events", api.query)
	g.POST("/events", api.create, jwt)
}

func (api *eventApi) query(ctx echo.Context) error {
	events, err := api.deps.EventSvc.QueryUpcoming(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying events")
	}
	if events == nil {
		events = []event.Event{}
	}
	return ctx.JSON(http.StatusOK, events)
}

func (api *eventApi) create(ctx echo.Context) error {
	var data event.NewEvent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewEvent")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	creator, err := getContextUser(ctx, api.deps.UserSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	evt, err := api.deps.EventSvc.Create(ctx.Request().Context(), data, creator)
	if err != nil {
		return errors.Wrap(err, "creating event")
	}

	return ctx.JSON(http.StatusCreated, evt)
}
