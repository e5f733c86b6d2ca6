package sqlxrepos

import (
	"context"

	"github.com/pkg/errors"

	"github.com/tatame-app/tatame/core"
	"github.com/tatame-app/tatame/core/attendance"
)

type attendanceRepository struct {
	repository
}

var _ attendance.Repository = (*attendanceRepository)(nil) // interface compliance check

func NewAttendanceRepository(exec core.DBExecutor) *attendanceRepository {
	return &attendanceRepository{repository{exec: exec}}
}

func (repo attendanceRepository) UpsertRecord(ctx context.Context, r attendance.Record, exec ...core.DBExecutor) (attendance.Record, error) {
	exe := repo.getExec(exec)
	q := "INSERT INTO attendance_records (student_id, schedule_id, date, status) VALUES (?, ?, ?, ?)"
	if isPostgres(exe) {
		q += " ON CONFLICT (student_id, schedule_id, date) DO UPDATE SET status = EXCLUDED.status"
	} else {
		q += " ON DUPLICATE KEY UPDATE status = VALUES(status)"
	}
	if err := execute(ctx, exe, q, r.StudentID, r.ScheduleID, r.Date, r.Status); err != nil {
		return attendance.Record{}, errors.Wrap(err, "upserting attendance record")
	}

	var saved attendance.Record
	err := get(ctx, exe, &saved,
		"SELECT * FROM attendance_records WHERE student_id = ? AND schedule_id = ? AND date = ?",
		r.StudentID, r.ScheduleID, r.Date,
	)
	if err != nil {
		return attendance.Record{}, errors.Wrap(err, "reading upserted attendance record")
	}
	return saved, nil
}

func (repo attendanceRepository) QueryRecords(ctx context.Context, filter *attendance.QueryFilter, exec ...core.DBExecutor) ([]attendance.Record, error) {
	var conds conditions
	if filter != nil {
		if filter.StudentID != 0 {
			conds.add("ar.student_id = ?", filter.StudentID)
		}
		if filter.ScheduleID != 0 {
			conds.add("ar.schedule_id = ?", filter.ScheduleID)
		}
		if filter.AcademyID != 0 {
			conds.add("cs.academy_id = ?", filter.AcademyID)
		}
		if !filter.Date.IsZero() {
			conds.add("ar.date = ?", filter.Date)
		}
	}

	records := make([]attendance.Record, 0)
	q := "SELECT ar.* FROM attendance_records ar JOIN class_schedules cs ON cs.id = ar.schedule_id" +
		conds.String() + " ORDER BY ar.date DESC, ar.id"
	if err := selectAll(ctx, repo.getExec(exec), &records, q, conds.args...); err != nil {
		return nil, errors.Wrap(err, "querying attendance records")
	}
	return records, nil
}

func (repo attendanceRepository) GetRecord(ctx context.Context, id int, exec ...core.DBExecutor) (attendance.Record, error) {
	var r attendance.Record
	if err := get(ctx, repo.getExec(exec), &r, "SELECT * FROM attendance_records WHERE id = ?", id); err != nil {
		return attendance.Record{}, trapNoRowsErr(err, attendance.ErrNotFound, "getting attendance record")
	}
	return r, nil
}

func (repo attendanceRepository) DeleteRecord(ctx context.Context, id int, exec ...core.DBExecutor) error {
	if err := execute(ctx, repo.getExec(exec), "DELETE FROM attendance_records WHERE id = ?", id); err != nil {
		return errors.Wrap(err, "deleting attendance record")
	}
	return nil
}
