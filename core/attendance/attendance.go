// Package attendance records who showed up to which class on which day.
package attendance

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/tatame-app/tatame/core"
	"github.com/tatame-app/tatame/core/activity"
)

// Statuses
const (
	StatusPresent = "present"
	StatusAbsent  = "absent"
)

var ErrNotFound = errors.New("attendance record not found")

// Record is unique per (StudentID, ScheduleID, Date).
type Record struct {
	ID         int       `json:"id" db:"id"`
	StudentID  int       `json:"studentId" db:"student_id"`
	ScheduleID int       `json:"scheduleId" db:"schedule_id"`
	Date       core.Date `json:"date" db:"date"`
	Status     string    `json:"status" db:"status"`
}

// SaveRecord contains the information needed to save an attendance record.
type SaveRecord struct {
	StudentID  int       `json:"studentId" validate:"required,gt=0"`
	ScheduleID int       `json:"scheduleId" validate:"required,gt=0"`
	Date       core.Date `json:"date"`
	Status     string    `json:"status" validate:"required,oneof=present absent"`
}

func (sr *SaveRecord) Clean() {
	sr.Status = core.CleanString(sr.Status, true /* lower */)
}

func (sr SaveRecord) Validate(validate *validator.Validate) error {
	if err := validate.Struct(sr); err != nil {
		return err
	}
	if sr.Date.IsZero() {
		return core.NewFieldError("date", "this field is required")
	}
	return nil
}

type BatchRequest struct {
	Records []SaveRecord `json:"records" validate:"required,min=1"`
}

type QueryFilter struct {
	StudentID  int       `query:"studentId"`
	ScheduleID int       `query:"scheduleId"`
	AcademyID  int       `query:"academyId"`
	Date       core.Date `query:"date"`
}

type (
	Repository interface {
		// UpsertRecord inserts r, or overwrites the status of the record sharing its natural key.
		UpsertRecord(ctx context.Context, r Record, exec ...core.DBExecutor) (Record, error)
		QueryRecords(ctx context.Context, filter *QueryFilter, exec ...core.DBExecutor) ([]Record, error)
		GetRecord(ctx context.Context, id int, exec ...core.DBExecutor) (Record, error)
		DeleteRecord(ctx context.Context, id int, exec ...core.DBExecutor) error
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

func (svc *Service) Query(ctx context.Context, filter *QueryFilter) ([]Record, error) {
	return svc.repo.QueryRecords(ctx, filter)
}

func (svc *Service) GetByID(ctx context.Context, id int) (Record, error) {
	return svc.repo.GetRecord(ctx, id)
}

// Save upserts one record.
func (svc *Service) Save(ctx context.Context, sr SaveRecord) (Record, error) {
	sr.Clean()
	if err := sr.Validate(svc.validate); err != nil {
		return Record{}, err
	}
	rec, err := svc.repo.UpsertRecord(ctx, fromInput(sr))
	if err != nil {
		return Record{}, errors.Wrap(err, "saving attendance")
	}
	return rec, nil
}

// SaveBatch upserts every record in a single transaction; nothing is saved if one is invalid.
func (svc *Service) SaveBatch(ctx context.Context, req BatchRequest) ([]Record, error) {
	if err := svc.validate.Struct(req); err != nil {
		return nil, err
	}
	for i := range req.Records {
		req.Records[i].Clean()
		if err := req.Records[i].Validate(svc.validate); err != nil {
			return nil, err
		}
	}

	saved := make([]Record, 0, len(req.Records))
	err := svc.db.WithinTx(ctx, func(exec core.DBExecutor) error {
		for _, sr := range req.Records {
			rec, err := svc.repo.UpsertRecord(ctx, fromInput(sr), exec)
			if err != nil {
				return errors.Wrap(err, "saving attendance")
			}
			saved = append(saved, rec)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

func (svc *Service) Delete(ctx context.Context, actorID, id int) error {
	rec, err := svc.repo.GetRecord(ctx, id)
	if err != nil {
		return err
	}
	return svc.db.WithinTx(ctx, func(exec core.DBExecutor) error {
		if err := svc.repo.DeleteRecord(ctx, id, exec); err != nil {
			return errors.Wrap(err, "deleting attendance")
		}
		details := fmt.Sprintf("student #%d, schedule #%d on %s", rec.StudentID, rec.ScheduleID, rec.Date)
		return svc.logSvc.Record(ctx, actorID, activity.ActionAttendanceDeleted, details, exec)
	})
}

func fromInput(sr SaveRecord) Record {
	return Record{
		StudentID:  sr.StudentID,
		ScheduleID: sr.ScheduleID,
		Date:       sr.Date,
		Status:     sr.Status,
	}
}
