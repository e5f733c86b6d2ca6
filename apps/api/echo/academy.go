package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/tatame-app/tatame/apps/di"
	"github.com/tatame-app/tatame/core/academy"
	"github.com/tatame-app/tatame/core/user"
)

var errObjNotFoundInCtx = errors.New("object not found in echo.Context")

const contextObjectKey = "object"

type academyApi struct {
	svc    *academy.Service
	usrSvc *user.Service
}

type AcademyResponse struct {
	academy.Academy
	Admin *user.User `json:"admin,omitempty"`
}

func registerAcademyAPI(g *echo.Group, jwt echo.MiddlewareFunc, svcs di.Services) {
	api := academyApi{svc: svcs.Academy, usrSvc: svcs.User}

	ag := g.Group("/academies", jwt)
	ag.GET("", api.query)
	ag.POST("", api.create, generalAdminOnly)

	// detail endpoints
	dg := ag.Group("/:id", api.objectMiddleware)
	dg.GET("", api.retrieve)
	dg.PUT("", api.update, adminsOnly)
	dg.DELETE("", api.destroy, generalAdminOnly)
}

func (api *academyApi) query(ctx echo.Context) error {
	ctxUsr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	filter := new(academy.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []academy.Academy{})
	}
	filter.Clean()
	if filter.ID, err = scopedAcademy(ctxUsr, 0); err != nil {
		return err
	}
	ordering := new(Ordering)
	ordering.Bind(ctx, academy.OrderingFields)

	academies, err := api.svc.Query(ctx.Request().Context(), filter, ordering.Orderings)
	if err != nil {
		return errors.Wrap(err, "querying academies")
	}
	if academies == nil {
		academies = []academy.Academy{}
	}
	return ctx.JSON(http.StatusOK, academies)
}

func (api *academyApi) create(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	var data academy.NewAcademy
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAcademy")
	}

	acad, admin, err := api.svc.Create(ctx.Request().Context(), claims.UserID, data)
	if err != nil {
		return errors.Wrap(err, "creating academy")
	}
	return ctx.JSON(http.StatusCreated, AcademyResponse{Academy: acad, Admin: &admin})
}

func (api *academyApi) retrieve(ctx echo.Context) error {
	acad, ok := ctx.Get(contextObjectKey).(academy.Academy)
	if !ok {
		return errors.Wrap(errObjNotFoundInCtx, "retrieving academy from context")
	}
	return ctx.JSON(http.StatusOK, acad)
}

func (api *academyApi) update(ctx echo.Context) error {
	acad, ok := ctx.Get(contextObjectKey).(academy.Academy)
	if !ok {
		return errors.Wrap(errObjNotFoundInCtx, "retrieving academy from context")
	}
	ctxUsr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	if !ctxUsr.CanManageAcademy(null.IntFrom(acad.ID)) {
		return errHttpForbidden
	}

	var data academy.UpdateAcademy
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateAcademy")
	}

	acad, err = api.svc.Update(ctx.Request().Context(), ctxUsr.ID, acad.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating academy")
	}
	return ctx.JSON(http.StatusOK, acad)
}

func (api *academyApi) destroy(ctx echo.Context) error {
	acad, ok := ctx.Get(contextObjectKey).(academy.Academy)
	if !ok {
		return errors.Wrap(errObjNotFoundInCtx, "retrieving academy from context")
	}
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	if err := api.svc.Delete(ctx.Request().Context(), claims.UserID, acad.ID); err != nil {
		return errors.Wrap(err, "deleting academy")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// objectMiddleware loads the academy of the URL; users of other academies get a 404.
func (api *academyApi) objectMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		id, err := idParam(ctx)
		if err != nil {
			return err
		}
		ctxUsr, err := getContextUser(ctx, api.usrSvc)
		if err != nil {
			return errors.Wrap(err, "getting context user")
		}
		if !canRead(ctxUsr, null.IntFrom(id)) {
			return errHttpNotFound
		}

		acad, err := api.svc.GetByID(ctx.Request().Context(), id)
		if err != nil {
			return errors.Wrap(err, "finding academy by ID")
		}
		ctx.Set(contextObjectKey, acad)
		return next(ctx)
	}
}
