package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/tatame-app/tatame/apps/di"
	"github.com/tatame-app/tatame/core"
	"github.com/tatame-app/tatame/core/attendance"
	"github.com/tatame-app/tatame/core/schedule"
	"github.com/tatame-app/tatame/core/student"
	"github.com/tatame-app/tatame/core/user"
)

type attendanceApi struct {
	svc      *attendance.Service
	usrSvc   *user.Service
	schedSvc *schedule.Service
	stuSvc   *student.Service
}

func registerAttendanceAPI(g *echo.Group, jwt echo.MiddlewareFunc, svcs di.Services) {
	api := attendanceApi{svc: svcs.Attendance, usrSvc: svcs.User, schedSvc: svcs.Schedule, stuSvc: svcs.Student}

	ag := g.Group("/attendance", jwt)
	ag.GET("", api.query)
	ag.POST("", api.save, adminsOnly)
	ag.POST("/batch", api.saveBatch, adminsOnly)
	ag.DELETE("/:id", api.destroy, adminsOnly)
}

func (api *attendanceApi) query(ctx echo.Context) error {
	ctxUsr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	filter := new(attendance.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []attendance.Record{})
	}
	if ctxUsr.IsStudent() {
		if !ctxUsr.StudentID.Valid {
			return ctx.JSON(http.StatusOK, []attendance.Record{})
		}
		filter.StudentID = ctxUsr.StudentID.Int
	}
	if filter.AcademyID, err = scopedAcademy(ctxUsr, filter.AcademyID); err != nil {
		return err
	}

	records, err := api.svc.Query(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "querying attendance")
	}
	if records == nil {
		records = []attendance.Record{}
	}
	return ctx.JSON(http.StatusOK, records)
}

func (api *attendanceApi) save(ctx echo.Context) error {
	ctxUsr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	var data attendance.SaveRecord
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SaveRecord")
	}
	if err := api.checkRefs(ctx, ctxUsr, data); err != nil {
		return err
	}

	rec, err := api.svc.Save(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "saving attendance")
	}
	return ctx.JSON(http.StatusOK, rec)
}

func (api *attendanceApi) saveBatch(ctx echo.Context) error {
	ctxUsr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	var data attendance.BatchRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to BatchRequest")
	}
	for _, sr := range data.Records {
		if err := api.checkRefs(ctx, ctxUsr, sr); err != nil {
			return err
		}
	}

	records, err := api.svc.SaveBatch(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "saving attendance batch")
	}
	return ctx.JSON(http.StatusOK, records)
}

func (api *attendanceApi) destroy(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	ctxUsr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	rec, err := api.svc.GetByID(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "finding attendance by ID")
	}
	cs, err := api.schedSvc.GetByID(ctx.Request().Context(), rec.ScheduleID)
	if err != nil {
		return errors.Wrap(err, "finding schedule by ID")
	}
	if !ctxUsr.CanManageAcademy(null.IntFrom(cs.AcademyID)) {
		return errHttpNotFound
	}

	if err := api.svc.Delete(ctx.Request().Context(), ctxUsr.ID, id); err != nil {
		return errors.Wrap(err, "deleting attendance")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// checkRefs ensures the class and the student of sr exist and belong to an academy ctxUsr manages.
// Zero IDs are left to the record validation.
func (api *attendanceApi) checkRefs(ctx echo.Context, ctxUsr user.User, sr attendance.SaveRecord) error {
	if sr.ScheduleID > 0 {
		cs, err := api.schedSvc.GetByID(ctx.Request().Context(), sr.ScheduleID)
		if err != nil {
			if errors.Cause(err) == schedule.ErrNotFound {
				return core.NewFieldError("scheduleId", err.Error())
			}
			return errors.Wrap(err, "finding schedule by ID")
		}
		if !ctxUsr.CanManageAcademy(null.IntFrom(cs.AcademyID)) {
			return errHttpForbidden
		}
	}
	if sr.StudentID > 0 {
		stu, err := api.stuSvc.GetByID(ctx.Request().Context(), sr.StudentID)
		if err != nil {
			if errors.Cause(err) == student.ErrNotFound {
				return core.NewFieldError("studentId", err.Error())
			}
			return errors.Wrap(err, "finding student by ID")
		}
		if !ctxUsr.CanManageAcademy(stu.AcademyID) {
			return errHttpForbidden
		}
	}
	return nil
}
