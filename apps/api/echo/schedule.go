package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/tatame-app/tatame/apps/di"
	"github.com/tatame-app/tatame/core/schedule"
	"github.com/tatame-app/tatame/core/student"
	"github.com/tatame-app/tatame/core/user"
)

type scheduleApi struct {
	svc    *schedule.Service
	usrSvc *user.Service
	stuSvc *student.Service
}

func registerScheduleAPI(g *echo.Group, jwt echo.MiddlewareFunc, svcs di.Services) {
	api := scheduleApi{svc: svcs.Schedule, usrSvc: svcs.User, stuSvc: svcs.Student}

	sg := g.Group("/schedules", jwt)
	sg.GET("", api.query)
	sg.POST("", api.create, adminsOnly)

	dg := sg.Group("/:id", api.objectMiddleware)
	dg.GET("", api.retrieve)
	dg.PUT("", api.update, adminsOnly)
	dg.DELETE("", api.destroy, adminsOnly)
	dg.GET("/eligible-students", api.eligibleStudents, adminsOnly)
}

func (api *scheduleApi) query(ctx echo.Context) error {
	ctxUsr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	filter := new(schedule.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []schedule.ClassSchedule{})
	}
	if filter.AcademyID, err = scopedAcademy(ctxUsr, filter.AcademyID); err != nil {
		return err
	}
	ordering := new(Ordering)
	ordering.Bind(ctx, schedule.OrderingFields)

	schedules, err := api.svc.Query(ctx.Request().Context(), filter, ordering.Orderings)
	if err != nil {
		return errors.Wrap(err, "querying schedules")
	}
	if schedules == nil {
		schedules = []schedule.ClassSchedule{}
	}
	return ctx.JSON(http.StatusOK, schedules)
}

func (api *scheduleApi) create(ctx echo.Context) error {
	ctxUsr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	var data schedule.NewSchedule
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSchedule")
	}
	if !ctxUsr.IsGeneralAdmin() {
		data.AcademyID = ctxUsr.AcademyID.Int
	}

	cs, err := api.svc.Create(ctx.Request().Context(), ctxUsr.ID, data)
	if err != nil {
		return errors.Wrap(err, "creating schedule")
	}
	return ctx.JSON(http.StatusCreated, cs)
}

func (api *scheduleApi) retrieve(ctx echo.Context) error {
	cs, ok := ctx.Get(contextObjectKey).(schedule.ClassSchedule)
	if !ok {
		return errors.Wrap(errObjNotFoundInCtx, "retrieving schedule from context")
	}
	return ctx.JSON(http.StatusOK, cs)
}

func (api *scheduleApi) update(ctx echo.Context) error {
	cs, ok := ctx.Get(contextObjectKey).(schedule.ClassSchedule)
	if !ok {
		return errors.Wrap(errObjNotFoundInCtx, "retrieving schedule from context")
	}
	ctxUsr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	var data schedule.UpdateSchedule
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateSchedule")
	}
	if !ctxUsr.IsGeneralAdmin() {
		data.AcademyID = ctxUsr.AcademyID.Int
	}

	cs, err = api.svc.Update(ctx.Request().Context(), ctxUsr.ID, cs.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating schedule")
	}
	return ctx.JSON(http.StatusOK, cs)
}

func (api *scheduleApi) destroy(ctx echo.Context) error {
	cs, ok := ctx.Get(contextObjectKey).(schedule.ClassSchedule)
	if !ok {
		return errors.Wrap(errObjNotFoundInCtx, "retrieving schedule from context")
	}
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	if err := api.svc.Delete(ctx.Request().Context(), claims.UserID, cs.ID); err != nil {
		return errors.Wrap(err, "deleting schedule")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// eligibleStudents lists the students of the class's academy whose belt meets its requirement.
func (api *scheduleApi) eligibleStudents(ctx echo.Context) error {
	cs, ok := ctx.Get(contextObjectKey).(schedule.ClassSchedule)
	if !ok {
		return errors.Wrap(errObjNotFoundInCtx, "retrieving schedule from context")
	}

	students, err := api.stuSvc.QueryEligible(ctx.Request().Context(), cs.AcademyID, cs.RequiredGraduationID)
	if err != nil {
		return errors.Wrap(err, "querying eligible students")
	}
	return ctx.JSON(http.StatusOK, students)
}

func (api *scheduleApi) objectMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		id, err := idParam(ctx)
		if err != nil {
			return err
		}
		ctxUsr, err := getContextUser(ctx, api.usrSvc)
		if err != nil {
			return errors.Wrap(err, "getting context user")
		}

		cs, err := api.svc.GetByID(ctx.Request().Context(), id)
		if err != nil {
			return errors.Wrap(err, "finding schedule by ID")
		}
		if !canRead(ctxUsr, null.IntFrom(cs.AcademyID)) {
			return errHttpNotFound
		}
		ctx.Set(contextObjectKey, cs)
		return next(ctx)
	}
}
