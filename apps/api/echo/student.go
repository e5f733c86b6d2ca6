package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/tatame-app/tatame/apps/di"
	"github.com/tatame-app/tatame/core"
	"github.com/tatame-app/tatame/core/academy"
	"github.com/tatame-app/tatame/core/graduation"
	"github.com/tatame-app/tatame/core/payment"
	"github.com/tatame-app/tatame/core/student"
	"github.com/tatame-app/tatame/core/user"
	"github.com/tatame-app/tatame/services/export"
)

type studentApi struct {
	svc     *student.Service
	usrSvc  *user.Service
	acadSvc *academy.Service
	gradSvc *graduation.Service
	paySvc  *payment.Service
}

func registerStudentAPI(g *echo.Group, jwt echo.MiddlewareFunc, svcs di.Services) {
	api := studentApi{
		svc:     svcs.Student,
		usrSvc:  svcs.User,
		acadSvc: svcs.Academy,
		gradSvc: svcs.Graduation,
		paySvc:  svcs.Payment,
	}

	sg := g.Group("/students", jwt)
	sg.GET("", api.query)
	sg.POST("", api.create, adminsOnly)
	sg.GET("/export", api.export, adminsOnly)

	// detail endpoints
	dg := sg.Group("/:id", api.objectMiddleware)
	dg.GET("", api.retrieve)
	dg.PUT("", api.update, adminsOnly)
	dg.DELETE("", api.destroy, adminsOnly)
	dg.GET("/payments", api.payments)
}

// Handlers

func (api *studentApi) query(ctx echo.Context) error {
	ctxUsr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	// students only ever see themselves
	if ctxUsr.IsStudent() {
		if !ctxUsr.StudentID.Valid {
			return ctx.JSON(http.StatusOK, []student.Student{})
		}
		stu, err := api.svc.GetByID(ctx.Request().Context(), ctxUsr.StudentID.Int)
		if err != nil {
			return errors.Wrap(err, "finding student by ID")
		}
		return ctx.JSON(http.StatusOK, []student.Student{stu})
	}

	students, err := api.queryScoped(ctx, ctxUsr)
	if err == errHttpBadFilter {
		return ctx.JSON(http.StatusOK, []student.Student{})
	}
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, students)
}

// queryScoped returns errHttpBadFilter when the query string does not bind.
func (api *studentApi) queryScoped(ctx echo.Context, ctxUsr user.User) ([]student.Student, error) {
	filter := new(student.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return nil, errHttpBadFilter
	}
	filter.Clean()
	var err error
	if filter.AcademyID, err = scopedAcademy(ctxUsr, filter.AcademyID); err != nil {
		return nil, err
	}
	ordering := new(Ordering)
	ordering.Bind(ctx, student.OrderingFields)

	students, err := api.svc.Query(ctx.Request().Context(), filter, ordering.Orderings)
	if err != nil {
		return nil, errors.Wrap(err, "querying students")
	}
	if students == nil {
		students = []student.Student{}
	}
	return students, nil
}

func (api *studentApi) create(ctx echo.Context) error {
	ctxUsr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	var data student.NewStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewStudent")
	}
	if !ctxUsr.IsGeneralAdmin() {
		data.AcademyID = ctxUsr.AcademyID
	}

	stu, err := api.svc.Create(ctx.Request().Context(), ctxUsr.ID, data)
	if err != nil {
		return errors.Wrap(err, "creating student")
	}
	return ctx.JSON(http.StatusCreated, stu)
}

func (api *studentApi) retrieve(ctx echo.Context) error {
	stu, ok := ctx.Get(contextObjectKey).(student.Student)
	if !ok {
		return errors.Wrap(errObjNotFoundInCtx, "retrieving student from context")
	}
	return ctx.JSON(http.StatusOK, stu)
}

func (api *studentApi) update(ctx echo.Context) error {
	stu, ok := ctx.Get(contextObjectKey).(student.Student)
	if !ok {
		return errors.Wrap(errObjNotFoundInCtx, "retrieving student from context")
	}
	ctxUsr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	var data student.UpdateStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateStudent")
	}
	// academy admins cannot move students out of their academy
	if !ctxUsr.IsGeneralAdmin() {
		data.AcademyID = ctxUsr.AcademyID
	}

	stu, err = api.svc.Update(ctx.Request().Context(), ctxUsr.ID, stu.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating student")
	}
	return ctx.JSON(http.StatusOK, stu)
}

func (api *studentApi) destroy(ctx echo.Context) error {
	stu, ok := ctx.Get(contextObjectKey).(student.Student)
	if !ok {
		return errors.Wrap(errObjNotFoundInCtx, "retrieving student from context")
	}
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	if err := api.svc.Delete(ctx.Request().Context(), claims.UserID, stu.ID); err != nil {
		return errors.Wrap(err, "deleting student")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *studentApi) payments(ctx echo.Context) error {
	stu, ok := ctx.Get(contextObjectKey).(student.Student)
	if !ok {
		return errors.Wrap(errObjNotFoundInCtx, "retrieving student from context")
	}

	payments, err := api.paySvc.Query(ctx.Request().Context(), payment.QueryFilter{StudentID: stu.ID})
	if err != nil {
		return errors.Wrap(err, "querying payments")
	}
	if payments == nil {
		payments = []payment.Payment{}
	}
	return ctx.JSON(http.StatusOK, payments)
}

// export sends the (filtered) roster as an Excel workbook.
func (api *studentApi) export(ctx echo.Context) error {
	ctxUsr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	students, err := api.queryScoped(ctx, ctxUsr)
	if err != nil {
		return err
	}

	grads, err := api.gradSvc.Index(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "getting graduations")
	}
	acadFilter := new(academy.QueryFilter)
	if acadFilter.ID, err = scopedAcademy(ctxUsr, 0); err != nil {
		return err
	}
	academies, err := api.acadSvc.Query(ctx.Request().Context(), acadFilter, nil)
	if err != nil {
		return errors.Wrap(err, "querying academies")
	}
	names := make(map[int]string, len(academies))
	for _, acad := range academies {
		names[acad.ID] = acad.Name
	}

	wb, err := export.NewWorkbook([]export.Sheet{export.RosterSheet(students, grads, names)})
	if err != nil {
		return errors.Wrap(err, "building roster workbook")
	}
	return sendWorkbook(ctx, wb, export.Filename("students", core.Today()))
}

// objectMiddleware loads the student of the URL. Admins see the students of their academy,
// students only themselves; anything else is a 404.
func (api *studentApi) objectMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		id, err := idParam(ctx)
		if err != nil {
			return err
		}
		ctxUsr, err := getContextUser(ctx, api.usrSvc)
		if err != nil {
			return errors.Wrap(err, "getting context user")
		}
		if ctxUsr.IsStudent() && !(ctxUsr.StudentID.Valid && ctxUsr.StudentID.Int == id) {
			return errHttpNotFound
		}

		stu, err := api.svc.GetByID(ctx.Request().Context(), id)
		if err != nil {
			return errors.Wrap(err, "finding student by ID")
		}
		if ctxUsr.IsAdmin() && !canRead(ctxUsr, stu.AcademyID) {
			return errHttpNotFound
		}
		ctx.Set(contextObjectKey, stu)
		return next(ctx)
	}
}
