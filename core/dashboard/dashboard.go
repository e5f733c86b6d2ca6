// Package dashboard aggregates the counters shown on the landing page of each role.
package dashboard

import (
	"context"

	"github.com/pkg/errors"

	"github.com/tatame-app/tatame/core"
	"github.com/tatame-app/tatame/core/academy"
	"github.com/tatame-app/tatame/core/finance"
	"github.com/tatame-app/tatame/core/professor"
	"github.com/tatame-app/tatame/core/schedule"
	"github.com/tatame-app/tatame/core/student"
)

type Summary struct {
	Students       int `json:"students"`
	PaidStudents   int `json:"paidStudents"`
	UnpaidStudents int `json:"unpaidStudents"`
	Competitors    int `json:"competitors"`
	Academies      int `json:"academies"`
	Professors     int `json:"professors"`
	Schedules      int `json:"schedules"`
	TodaySchedules int `json:"todaySchedules"`
	Reminders      int `json:"reminders"`
	Overdue        int `json:"overdue"`
}

type Service struct {
	stuSvc   *student.Service
	acadSvc  *academy.Service
	profSvc  *professor.Service
	schedSvc *schedule.Service
	finSvc   *finance.Service
}

func NewService(
	stuSvc *student.Service,
	acadSvc *academy.Service,
	profSvc *professor.Service,
	schedSvc *schedule.Service,
	finSvc *finance.Service,
) *Service {
	return &Service{stuSvc: stuSvc, acadSvc: acadSvc, profSvc: profSvc, schedSvc: schedSvc, finSvc: finSvc}
}

// Summarize counts the records of academyID (0 = every academy) as of today.
func (svc *Service) Summarize(ctx context.Context, academyID int, today core.Date) (Summary, error) {
	var sum Summary

	students, err := svc.stuSvc.Query(ctx, &student.QueryFilter{AcademyID: academyID}, nil)
	if err != nil {
		return sum, err
	}
	sum.Students = len(students)
	for _, s := range students {
		if s.IsPaid() {
			sum.PaidStudents++
		} else {
			sum.UnpaidStudents++
		}
		if s.Competitor {
			sum.Competitors++
		}
	}

	if academyID == 0 {
		academies, err := svc.acadSvc.Query(ctx, &academy.QueryFilter{}, nil)
		if err != nil {
			return sum, errors.Wrap(err, "querying academies")
		}
		sum.Academies = len(academies)
	} else {
		sum.Academies = 1
	}

	profs, err := svc.profSvc.Query(ctx, &professor.QueryFilter{AcademyID: academyID}, nil)
	if err != nil {
		return sum, errors.Wrap(err, "querying professors")
	}
	sum.Professors = len(profs)

	schedules, err := svc.schedSvc.Query(ctx, &schedule.QueryFilter{AcademyID: academyID}, nil)
	if err != nil {
		return sum, errors.Wrap(err, "querying schedules")
	}
	sum.Schedules = len(schedules)
	weekday := int(today.Weekday())
	for _, cs := range schedules {
		if cs.DayOfWeek == weekday {
			sum.TodaySchedules++
		}
	}

	status, err := svc.finSvc.Status(ctx, academyID, today)
	if err != nil {
		return sum, err
	}
	sum.Reminders = len(status.Reminders)
	sum.Overdue = len(status.Overdue)
	return sum, nil
}
