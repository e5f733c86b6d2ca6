package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/tatame-app/tatame/apps/di"
	"github.com/tatame-app/tatame/core/professor"
	"github.com/tatame-app/tatame/core/user"
)

type professorApi struct {
	svc    *professor.Service
	usrSvc *user.Service
}

func registerProfessorAPI(g *echo.Group, jwt echo.MiddlewareFunc, svcs di.Services) {
	api := professorApi{svc: svcs.Professor, usrSvc: svcs.User}

	pg := g.Group("/professors", jwt, adminsOnly)
	pg.GET("", api.query)
	pg.POST("", api.create)

	dg := pg.Group("/:id", api.objectMiddleware)
	dg.GET("", api.retrieve)
	dg.PUT("", api.update)
	dg.DELETE("", api.destroy)
}

func (api *professorApi) query(ctx echo.Context) error {
	ctxUsr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	filter := new(professor.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []professor.Professor{})
	}
	filter.Clean()
	if filter.AcademyID, err = scopedAcademy(ctxUsr, filter.AcademyID); err != nil {
		return err
	}
	ordering := new(Ordering)
	ordering.Bind(ctx, professor.OrderingFields)

	profs, err := api.svc.Query(ctx.Request().Context(), filter, ordering.Orderings)
	if err != nil {
		return errors.Wrap(err, "querying professors")
	}
	if profs == nil {
		profs = []professor.Professor{}
	}
	return ctx.JSON(http.StatusOK, profs)
}

func (api *professorApi) create(ctx echo.Context) error {
	ctxUsr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	var data professor.NewProfessor
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewProfessor")
	}
	if !ctxUsr.IsGeneralAdmin() {
		data.AcademyID = ctxUsr.AcademyID
	}

	prof, err := api.svc.Create(ctx.Request().Context(), ctxUsr.ID, data)
	if err != nil {
		return errors.Wrap(err, "creating professor")
	}
	return ctx.JSON(http.StatusCreated, prof)
}

func (api *professorApi) retrieve(ctx echo.Context) error {
	prof, ok := ctx.Get(contextObjectKey).(professor.Professor)
	if !ok {
		return errors.Wrap(errObjNotFoundInCtx, "retrieving professor from context")
	}
	return ctx.JSON(http.StatusOK, prof)
}

func (api *professorApi) update(ctx echo.Context) error {
	prof, ok := ctx.Get(contextObjectKey).(professor.Professor)
	if !ok {
		return errors.Wrap(errObjNotFoundInCtx, "retrieving professor from context")
	}
	ctxUsr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	var data professor.UpdateProfessor
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateProfessor")
	}
	if !ctxUsr.IsGeneralAdmin() {
		data.AcademyID = ctxUsr.AcademyID
	}

	prof, err = api.svc.Update(ctx.Request().Context(), ctxUsr.ID, prof.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating professor")
	}
	return ctx.JSON(http.StatusOK, prof)
}

func (api *professorApi) destroy(ctx echo.Context) error {
	prof, ok := ctx.Get(contextObjectKey).(professor.Professor)
	if !ok {
		return errors.Wrap(errObjNotFoundInCtx, "retrieving professor from context")
	}
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	if err := api.svc.Delete(ctx.Request().Context(), claims.UserID, prof.ID); err != nil {
		return errors.Wrap(err, "deleting professor")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *professorApi) objectMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		id, err := idParam(ctx)
		if err != nil {
			return err
		}
		ctxUsr, err := getContextUser(ctx, api.usrSvc)
		if err != nil {
			return errors.Wrap(err, "getting context user")
		}

		prof, err := api.svc.GetByID(ctx.Request().Context(), id)
		if err != nil {
			return errors.Wrap(err, "finding professor by ID")
		}
		if !canRead(ctxUsr, prof.AcademyID) {
			return errHttpNotFound
		}
		ctx.Set(contextObjectKey, prof)
		return next(ctx)
	}
}
