// Package activity keeps the append-only audit trail of administrative actions.
package activity

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/tatame-app/tatame/core"
)

// LatestLimit is the number of entries surfaced by Latest.
const LatestLimit = 100

// Actions
const (
	ActionAcademyRegistered   = "academy_registered"
	ActionAcademyCreated      = "academy_created"
	ActionAcademyUpdated      = "academy_updated"
	ActionAcademyDeleted      = "academy_deleted"
	ActionStudentCreated      = "student_created"
	ActionStudentUpdated      = "student_updated"
	ActionStudentDeleted      = "student_deleted"
	ActionPaymentRegistered   = "payment_registered"
	ActionProfessorCreated    = "professor_created"
	ActionProfessorUpdated    = "professor_updated"
	ActionProfessorDeleted    = "professor_deleted"
	ActionProfessorAutoCreate = "professor_auto_created"
	ActionGraduationCreated   = "graduation_created"
	ActionGraduationUpdated   = "graduation_updated"
	ActionGraduationDeleted   = "graduation_deleted"
	ActionGraduationsReorder  = "graduations_reordered"
	ActionScheduleCreated     = "schedule_created"
	ActionScheduleUpdated     = "schedule_updated"
	ActionScheduleDeleted     = "schedule_deleted"
	ActionAttendanceDeleted   = "attendance_deleted"
	ActionSettingsUpdated     = "settings_updated"
)

type Log struct {
	ID        int       `json:"id" db:"id"`
	ActorID   null.Int  `json:"actorId" db:"actor_id"`
	Action    string    `json:"action" db:"action"`
	Timestamp time.Time `json:"timestamp" db:"timestamp"` // UTC
	Details   string    `json:"details" db:"details"`
}

type (
	Repository interface {
		CreateLog(ctx context.Context, l Log, exec ...core.DBExecutor) (Log, error)
		// QueryLogs returns at most limit logs, most recent first.
		QueryLogs(ctx context.Context, limit int, exec ...core.DBExecutor) ([]Log, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Record appends a log entry. actorID 0 means the system itself acted.
func (svc *Service) Record(ctx context.Context, actorID int, action, details string, exec ...core.DBExecutor) error {
	l := Log{
		ActorID:   null.NewInt(actorID, actorID > 0),
		Action:    action,
		Timestamp: core.NowFunc().UTC(),
		Details:   details,
	}
	if _, err := svc.repo.CreateLog(ctx, l, exec...); err != nil {
		return errors.Wrap(err, fmt.Sprintf("recording %s", action))
	}
	return nil
}

func (svc *Service) Latest(ctx context.Context) ([]Log, error) {
	return svc.repo.QueryLogs(ctx, LatestLimit)
}
