package schedule

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/tatame-app/tatame/core"
	"github.com/tatame-app/tatame/core/activity"
)

var ErrNotFound = errors.New("schedule not found")

type (
	Repository interface {
		CreateSchedule(ctx context.Context, s ClassSchedule, exec ...core.DBExecutor) (ClassSchedule, error)
		QuerySchedules(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering, exec ...core.DBExecutor) ([]ClassSchedule, error)
		GetSchedule(ctx context.Context, id int, exec ...core.DBExecutor) (ClassSchedule, error)
		UpdateSchedule(ctx context.Context, s ClassSchedule, exec ...core.DBExecutor) (ClassSchedule, error)
		DeleteSchedule(ctx context.Context, id int, exec ...core.DBExecutor) error
	}

	Service struct {
		db       core.Transactor
		repo     Repository
		logSvc   *activity.Service
		validate *validator.Validate
	}
)

func NewService(db core.Transactor, repo Repository, logSvc *activity.Service, validate *validator.Validate) *Service {
	return &Service{db: db, repo: repo, logSvc: logSvc, validate: validate}
}

func (svc *Service) Query(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]ClassSchedule, error) {
	return svc.repo.QuerySchedules(ctx, filter, ordering)
}

func (svc *Service) GetByID(ctx context.Context, id int) (ClassSchedule, error) {
	return svc.repo.GetSchedule(ctx, id)
}

func (svc *Service) Create(ctx context.Context, actorID int, ns NewSchedule) (ClassSchedule, error) {
	ns.Clean()
	if err := svc.validate.Struct(ns); err != nil {
		return ClassSchedule{}, err
	}

	var sched ClassSchedule
	err := svc.db.WithinTx(ctx, func(exec core.DBExecutor) error {
		var err error
		if sched, err = svc.repo.CreateSchedule(ctx, fromInput(ns, 0), exec); err != nil {
			return errors.Wrap(err, "creating schedule")
		}
		return svc.logSvc.Record(ctx, actorID, activity.ActionScheduleCreated, "class "+sched.ClassName, exec)
	})
	return sched, err
}

func (svc *Service) Update(ctx context.Context, actorID, id int, us UpdateSchedule) (ClassSchedule, error) {
	if _, err := svc.repo.GetSchedule(ctx, id); err != nil {
		return ClassSchedule{}, err
	}
	us.Clean()
	if err := svc.validate.Struct(us); err != nil {
		return ClassSchedule{}, err
	}

	var sched ClassSchedule
	err := svc.db.WithinTx(ctx, func(exec core.DBExecutor) error {
		var err error
		if sched, err = svc.repo.UpdateSchedule(ctx, fromInput(us, id), exec); err != nil {
			return errors.Wrap(err, "updating schedule")
		}
		return svc.logSvc.Record(ctx, actorID, activity.ActionScheduleUpdated, "class "+sched.ClassName, exec)
	})
	return sched, err
}

func (svc *Service) Delete(ctx context.Context, actorID, id int) error {
	sched, err := svc.repo.GetSchedule(ctx, id)
	if err != nil {
		return err
	}
	return svc.db.WithinTx(ctx, func(exec core.DBExecutor) error {
		if err := svc.repo.DeleteSchedule(ctx, id, exec); err != nil {
			return errors.Wrap(err, "deleting schedule")
		}
		return svc.logSvc.Record(ctx, actorID, activity.ActionScheduleDeleted, "class "+sched.ClassName, exec)
	})
}

func fromInput(ns NewSchedule, id int) ClassSchedule {
	return ClassSchedule{
		ID:                   id,
		ClassName:            ns.ClassName,
		DayOfWeek:            ns.DayOfWeek,
		StartTime:            ns.StartTime,
		EndTime:              ns.EndTime,
		ProfessorID:          ns.ProfessorID,
		AssistantIDs:         ns.AssistantIDs,
		AcademyID:            ns.AcademyID,
		RequiredGraduationID: ns.RequiredGraduationID,
	}
}
