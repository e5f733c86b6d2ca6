package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/tatame-app/tatame/apps/di"
	"github.com/tatame-app/tatame/core"
	"github.com/tatame-app/tatame/core/dashboard"
	"github.com/tatame-app/tatame/core/user"
)

type dashboardApi struct {
	svc    *dashboard.Service
	usrSvc *user.Service
}

func registerDashboardAPI(g *echo.Group, jwt echo.MiddlewareFunc, svcs di.Services) {
	api := dashboardApi{svc: svcs.Dashboard, usrSvc: svcs.User}
	g.GET("/dashboard", api.summary, jwt)
}

func (api *dashboardApi) summary(ctx echo.Context) error {
	ctxUsr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	academyID, err := requestedAcademy(ctx, ctxUsr)
	if err != nil {
		return err
	}

	sum, err := api.svc.Summarize(ctx.Request().Context(), academyID, core.Today())
	if err != nil {
		return errors.Wrap(err, "summarizing dashboard")
	}
	return ctx.JSON(http.StatusOK, sum)
}
