package finance

import (
	"context"

	"github.com/pkg/errors"

	"github.com/tatame-app/tatame/core"
	"github.com/tatame-app/tatame/core/settings"
	"github.com/tatame-app/tatame/core/student"
)

type Service struct {
	stuSvc       *student.Service
	settingsRepo settings.Repository
}

func NewService(stuSvc *student.Service, settingsRepo settings.Repository) *Service {
	return &Service{stuSvc: stuSvc, settingsRepo: settingsRepo}
}

// Status classifies the unpaid students of academyID (0 = every academy) as of today.
func (svc *Service) Status(ctx context.Context, academyID int, today core.Date) (Status, error) {
	ts, err := svc.settingsRepo.GetSettings(ctx)
	if err != nil {
		return Status{}, errors.Wrap(err, "getting settings")
	}
	students, err := svc.stuSvc.Query(ctx, &student.QueryFilter{AcademyID: academyID, PaymentStatus: student.PaymentUnpaid}, nil)
	if err != nil {
		return Status{}, errors.Wrap(err, "querying unpaid students")
	}
	th := Thresholds{ReminderDays: ts.ReminderDaysBefore, OverdueDays: ts.OverdueDaysAfter}
	return Classify(students, today, th), nil
}
