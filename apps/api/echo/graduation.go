package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/tatame-app/tatame/apps/di"
	"github.com/tatame-app/tatame/core/graduation"
)

type graduationApi struct {
	svc *graduation.Service
}

func registerGraduationAPI(g *echo.Group, jwt echo.MiddlewareFunc, svcs di.Services) {
	api := graduationApi{svc: svcs.Graduation}

	gg := g.Group("/graduations", jwt)
	gg.GET("", api.query)
	gg.POST("", api.create, generalAdminOnly)
	gg.PUT("/reorder", api.reorder, generalAdminOnly)
	gg.PUT("/:id", api.update, generalAdminOnly)
	gg.DELETE("/:id", api.destroy, generalAdminOnly)
}

func (api *graduationApi) query(ctx echo.Context) error {
	ordering := new(Ordering)
	ordering.Bind(ctx, graduation.OrderingFields)

	grads, err := api.svc.Query(ctx.Request().Context(), ordering.Orderings)
	if err != nil {
		return errors.Wrap(err, "querying graduations")
	}
	if grads == nil {
		grads = []graduation.Graduation{}
	}
	return ctx.JSON(http.StatusOK, grads)
}

func (api *graduationApi) create(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	var data graduation.NewGraduation
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewGraduation")
	}

	grad, err := api.svc.Create(ctx.Request().Context(), claims.UserID, data)
	if err != nil {
		return errors.Wrap(err, "creating graduation")
	}
	return ctx.JSON(http.StatusCreated, grad)
}

func (api *graduationApi) update(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	var data graduation.UpdateGraduation
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateGraduation")
	}

	grad, err := api.svc.Update(ctx.Request().Context(), claims.UserID, id, data)
	if err != nil {
		return errors.Wrap(err, "updating graduation")
	}
	return ctx.JSON(http.StatusOK, grad)
}

func (api *graduationApi) destroy(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	if err := api.svc.Delete(ctx.Request().Context(), claims.UserID, id); err != nil {
		return errors.Wrap(err, "deleting graduation")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *graduationApi) reorder(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	var data graduation.ReorderRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ReorderRequest")
	}

	grads, err := api.svc.Reorder(ctx.Request().Context(), claims.UserID, data)
	if err != nil {
		return errors.Wrap(err, "reordering graduations")
	}
	return ctx.JSON(http.StatusOK, grads)
}
