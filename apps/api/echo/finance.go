package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/tatame-app/tatame/apps/di"
	"github.com/tatame-app/tatame/core/finance"
	"github.com/tatame-app/tatame/core/user"
	"github.com/tatame-app/tatame/services/export"
)

type financeApi struct {
	svc    *finance.Service
	usrSvc *user.Service
}

func registerFinanceAPI(g *echo.Group, jwt echo.MiddlewareFunc, svcs di.Services) {
	api := financeApi{svc: svcs.Finance, usrSvc: svcs.User}

	fg := g.Group("/finance", jwt, adminsOnly)
	fg.GET("/status", api.status)
	fg.GET("/export", api.export)
}

func (api *financeApi) computeStatus(ctx echo.Context) (finance.Status, error) {
	ctxUsr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return finance.Status{}, errors.Wrap(err, "getting context user")
	}
	academyID, err := requestedAcademy(ctx, ctxUsr)
	if err != nil {
		return finance.Status{}, err
	}
	today, err := dateParam(ctx, "date")
	if err != nil {
		return finance.Status{}, err
	}

	status, err := api.svc.Status(ctx.Request().Context(), academyID, today)
	if err != nil {
		return finance.Status{}, errors.Wrap(err, "computing finance status")
	}
	return status, nil
}

func (api *financeApi) status(ctx echo.Context) error {
	status, err := api.computeStatus(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, status)
}

func (api *financeApi) export(ctx echo.Context) error {
	status, err := api.computeStatus(ctx)
	if err != nil {
		return err
	}

	wb, err := export.NewWorkbook(export.FinanceSheets(status))
	if err != nil {
		return errors.Wrap(err, "building finance workbook")
	}
	return sendWorkbook(ctx, wb, export.Filename("finance", status.Date))
}
