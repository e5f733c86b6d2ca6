package sqlxrepos

import (
	"context"

	"github.com/pkg/errors"

	"github.com/tatame-app/tatame/core"
	"github.com/tatame-app/tatame/core/schedule"
)

const scheduleAssistantsTable = "schedule_assistants"

type scheduleRepository struct {
	repository
}

var _ schedule.Repository = (*scheduleRepository)(nil) // interface compliance check

func NewScheduleRepository(exec core.DBExecutor) *scheduleRepository {
	return &scheduleRepository{repository{exec: exec}}
}

func (repo scheduleRepository) withAssistants(ctx context.Context, exe core.DBExecutor, schedules []schedule.ClassSchedule) error {
	ids := make([]int, 0, len(schedules))
	for _, cs := range schedules {
		ids = append(ids, cs.ID)
	}
	links, err := loadLinks(ctx, exe, scheduleAssistantsTable, "schedule_id", ids)
	if err != nil {
		return err
	}
	for i := range schedules {
		schedules[i].AssistantIDs = links[schedules[i].ID]
		if schedules[i].AssistantIDs == nil {
			schedules[i].AssistantIDs = []int{}
		}
	}
	return nil
}

func (repo scheduleRepository) CreateSchedule(ctx context.Context, cs schedule.ClassSchedule, exec ...core.DBExecutor) (schedule.ClassSchedule, error) {
	exe := repo.getExec(exec)
	id, err := insert(ctx, exe,
		`INSERT INTO class_schedules (class_name, day_of_week, start_time, end_time, professor_id, academy_id,
		required_graduation_id) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		cs.ClassName, cs.DayOfWeek, cs.StartTime, cs.EndTime, cs.ProfessorID, cs.AcademyID, cs.RequiredGraduationID,
	)
	if err != nil {
		return schedule.ClassSchedule{}, errors.Wrap(err, "inserting schedule")
	}
	cs.ID = id
	if err := replaceLinks(ctx, exe, scheduleAssistantsTable, "schedule_id", cs.ID, cs.AssistantIDs); err != nil {
		return schedule.ClassSchedule{}, err
	}
	return cs, nil
}

func (repo scheduleRepository) QuerySchedules(ctx context.Context, filter *schedule.QueryFilter, ordering []core.DBOrdering, exec ...core.DBExecutor) ([]schedule.ClassSchedule, error) {
	exe := repo.getExec(exec)
	var conds conditions
	if filter != nil {
		if filter.AcademyID != 0 {
			conds.add("academy_id = ?", filter.AcademyID)
		}
		if filter.DayOfWeek != nil {
			conds.add("day_of_week = ?", *filter.DayOfWeek)
		}
		if filter.ProfessorID != 0 {
			conds.add("professor_id = ?", filter.ProfessorID)
		}
	}

	schedules := make([]schedule.ClassSchedule, 0)
	q := "SELECT * FROM class_schedules" + conds.String() + orderBy(ordering,
		core.DBOrdering{Field: "day_of_week", Ascending: true}, core.DBOrdering{Field: "start_time", Ascending: true})
	if err := selectAll(ctx, exe, &schedules, q, conds.args...); err != nil {
		return nil, errors.Wrap(err, "querying schedules")
	}
	if err := repo.withAssistants(ctx, exe, schedules); err != nil {
		return nil, err
	}
	return schedules, nil
}

func (repo scheduleRepository) GetSchedule(ctx context.Context, id int, exec ...core.DBExecutor) (schedule.ClassSchedule, error) {
	exe := repo.getExec(exec)
	schedules := make([]schedule.ClassSchedule, 1)
	if err := get(ctx, exe, &schedules[0], "SELECT * FROM class_schedules WHERE id = ?", id); err != nil {
		return schedule.ClassSchedule{}, trapNoRowsErr(err, schedule.ErrNotFound, "getting schedule")
	}
	if err := repo.withAssistants(ctx, exe, schedules); err != nil {
		return schedule.ClassSchedule{}, err
	}
	return schedules[0], nil
}

func (repo scheduleRepository) UpdateSchedule(ctx context.Context, cs schedule.ClassSchedule, exec ...core.DBExecutor) (schedule.ClassSchedule, error) {
	exe := repo.getExec(exec)
	err := execute(ctx, exe,
		`UPDATE class_schedules SET class_name = ?, day_of_week = ?, start_time = ?, end_time = ?, professor_id = ?,
		academy_id = ?, required_graduation_id = ? WHERE id = ?`,
		cs.ClassName, cs.DayOfWeek, cs.StartTime, cs.EndTime, cs.ProfessorID, cs.AcademyID, cs.RequiredGraduationID, cs.ID,
	)
	if err != nil {
		return schedule.ClassSchedule{}, errors.Wrap(err, "updating schedule")
	}
	if err := replaceLinks(ctx, exe, scheduleAssistantsTable, "schedule_id", cs.ID, cs.AssistantIDs); err != nil {
		return schedule.ClassSchedule{}, err
	}
	return cs, nil
}

func (repo scheduleRepository) DeleteSchedule(ctx context.Context, id int, exec ...core.DBExecutor) error {
	if err := execute(ctx, repo.getExec(exec), "DELETE FROM class_schedules WHERE id = ?", id); err != nil {
		return errors.Wrap(err, "deleting schedule")
	}
	return nil
}
