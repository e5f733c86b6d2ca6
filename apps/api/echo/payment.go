package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/tatame-app/tatame/apps/di"
	"github.com/tatame-app/tatame/core/payment"
	"github.com/tatame-app/tatame/core/user"
)

type paymentApi struct {
	svc    *payment.Service
	usrSvc *user.Service
}

func registerPaymentAPI(g *echo.Group, jwt echo.MiddlewareFunc, svcs di.Services) {
	api := paymentApi{svc: svcs.Payment, usrSvc: svcs.User}
	g.GET("/payments", api.query, jwt)
}

func (api *paymentApi) query(ctx echo.Context) error {
	ctxUsr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	var filter payment.QueryFilter
	if err := ctx.Bind(&filter); err != nil {
		return ctx.JSON(http.StatusOK, []payment.Payment{})
	}
	if ctxUsr.IsStudent() {
		if !ctxUsr.StudentID.Valid {
			return ctx.JSON(http.StatusOK, []payment.Payment{})
		}
		filter.StudentID = ctxUsr.StudentID.Int
	}
	if filter.AcademyID, err = scopedAcademy(ctxUsr, filter.AcademyID); err != nil {
		return err
	}

	payments, err := api.svc.Query(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "querying payments")
	}
	if payments == nil {
		payments = []payment.Payment{}
	}
	return ctx.JSON(http.StatusOK, payments)
}
