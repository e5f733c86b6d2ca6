package inmemdb

import (
	"context"

	"github.com/tatame-app/tatame/core"
	"github.com/tatame-app/tatame/core/schedule"
)

type scheduleRepository struct {
	db *DB
}

var _ schedule.Repository = (*scheduleRepository)(nil) // interface compliance check

func NewScheduleRepository(db *DB) *scheduleRepository {
	return &scheduleRepository{db: db}
}

func scheduleColumn(cs schedule.ClassSchedule, name string) interface{} {
	switch name {
	case "id":
		return cs.ID
	case "class_name":
		return cs.ClassName
	case "day_of_week":
		return cs.DayOfWeek
	case "start_time":
		return cs.StartTime
	}
	return nil
}

func (repo *scheduleRepository) CreateSchedule(_ context.Context, cs schedule.ClassSchedule, _ ...core.DBExecutor) (schedule.ClassSchedule, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	cs.ID = repo.db.nextID("schedules")
	cs.AssistantIDs = copyIDs(cs.AssistantIDs)
	repo.db.schedules[cs.ID] = cs
	return cs, nil
}

func (repo *scheduleRepository) QuerySchedules(_ context.Context, filter *schedule.QueryFilter, ordering []core.DBOrdering, _ ...core.DBExecutor) ([]schedule.ClassSchedule, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	schedules := make([]schedule.ClassSchedule, 0, len(repo.db.schedules))
	for _, cs := range repo.db.schedules {
		if filter != nil {
			if filter.AcademyID != 0 && cs.AcademyID != filter.AcademyID {
				continue
			}
			if filter.DayOfWeek != nil && cs.DayOfWeek != *filter.DayOfWeek {
				continue
			}
			if filter.ProfessorID != 0 && (!cs.ProfessorID.Valid || cs.ProfessorID.Int != filter.ProfessorID) {
				continue
			}
		}
		cs.AssistantIDs = copyIDs(cs.AssistantIDs)
		schedules = append(schedules, cs)
	}
	if len(ordering) == 0 {
		ordering = []core.DBOrdering{{Field: "day_of_week", Ascending: true}, {Field: "start_time", Ascending: true}}
	}
	sortRows(schedules, ordering, scheduleColumn)
	return schedules, nil
}

func (repo *scheduleRepository) GetSchedule(_ context.Context, id int, _ ...core.DBExecutor) (schedule.ClassSchedule, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if cs, ok := repo.db.schedules[id]; ok {
		cs.AssistantIDs = copyIDs(cs.AssistantIDs)
		return cs, nil
	}
	return schedule.ClassSchedule{}, schedule.ErrNotFound
}

func (repo *scheduleRepository) UpdateSchedule(_ context.Context, cs schedule.ClassSchedule, _ ...core.DBExecutor) (schedule.ClassSchedule, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.schedules[cs.ID]; !ok {
		return schedule.ClassSchedule{}, schedule.ErrNotFound
	}
	cs.AssistantIDs = copyIDs(cs.AssistantIDs)
	repo.db.schedules[cs.ID] = cs
	return cs, nil
}

func (repo *scheduleRepository) DeleteSchedule(_ context.Context, id int, _ ...core.DBExecutor) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()
	repo.db.deleteSchedule(id)
	return nil
}
