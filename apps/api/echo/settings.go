package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/tatame-app/tatame/apps/di"
	"github.com/tatame-app/tatame/core/news"
	"github.com/tatame-app/tatame/core/settings"
)

type settingsApi struct {
	svc *settings.Service
}

func registerSettingsAPI(g *echo.Group, jwt echo.MiddlewareFunc, svcs di.Services) {
	api := settingsApi{svc: svcs.Settings}

	sg := g.Group("/settings")
	sg.GET("", api.retrieve)
	sg.PUT("", api.update, jwt, generalAdminOnly)
}

func (api *settingsApi) retrieve(ctx echo.Context) error {
	ts, err := api.svc.Get(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "getting settings")
	}
	return ctx.JSON(http.StatusOK, ts)
}

func (api *settingsApi) update(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	var data settings.ThemeSettings
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ThemeSettings")
	}

	ts, err := api.svc.Update(ctx.Request().Context(), claims.UserID, data)
	if err != nil {
		return errors.Wrap(err, "updating settings")
	}
	return ctx.JSON(http.StatusOK, ts)
}

type newsApi struct {
	svc *news.Service
}

func registerNewsAPI(g *echo.Group, svcs di.Services) {
	api := newsApi{svc: svcs.News}
	g.GET("/news", api.feed)
}

func (api *newsApi) feed(ctx echo.Context) error {
	items, err := api.svc.Feed(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying news")
	}
	if items == nil {
		items = []news.News{}
	}
	return ctx.JSON(http.StatusOK, items)
}
