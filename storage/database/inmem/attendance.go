package inmemdb

import (
	"context"
	"sort"

	"github.com/tatame-app/tatame/core"
	"github.com/tatame-app/tatame/core/attendance"
)

type attendanceRepository struct {
	db *DB
}

var _ attendance.Repository = (*attendanceRepository)(nil) // interface compliance check

func NewAttendanceRepository(db *DB) *attendanceRepository {
	return &attendanceRepository{db: db}
}

func (repo *attendanceRepository) UpsertRecord(_ context.Context, r attendance.Record, _ ...core.DBExecutor) (attendance.Record, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for id, existing := range repo.db.attendance {
		if existing.StudentID == r.StudentID && existing.ScheduleID == r.ScheduleID && existing.Date.Equal(r.Date) {
			existing.Status = r.Status
			repo.db.attendance[id] = existing
			return existing, nil
		}
	}
	r.ID = repo.db.nextID("attendance")
	repo.db.attendance[r.ID] = r
	return r, nil
}

func (repo *attendanceRepository) QueryRecords(_ context.Context, filter *attendance.QueryFilter, _ ...core.DBExecutor) ([]attendance.Record, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	records := make([]attendance.Record, 0, len(repo.db.attendance))
	for _, r := range repo.db.attendance {
		if filter != nil {
			if filter.StudentID != 0 && r.StudentID != filter.StudentID {
				continue
			}
			if filter.ScheduleID != 0 && r.ScheduleID != filter.ScheduleID {
				continue
			}
			if filter.AcademyID != 0 {
				if cs, ok := repo.db.schedules[r.ScheduleID]; !ok || cs.AcademyID != filter.AcademyID {
					continue
				}
			}
			if !filter.Date.IsZero() && !r.Date.Equal(filter.Date) {
				continue
			}
		}
		records = append(records, r)
	}
	sort.Slice(records, func(i, j int) bool {
		if !records[i].Date.Equal(records[j].Date) {
			return records[i].Date.After(records[j].Date)
		}
		return records[i].ID < records[j].ID
	})
	return records, nil
}

func (repo *attendanceRepository) GetRecord(_ context.Context, id int, _ ...core.DBExecutor) (attendance.Record, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if r, ok := repo.db.attendance[id]; ok {
		return r, nil
	}
	return attendance.Record{}, attendance.ErrNotFound
}

func (repo *attendanceRepository) DeleteRecord(_ context.Context, id int, _ ...core.DBExecutor) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()
	delete(repo.db.attendance, id)
	return nil
}
