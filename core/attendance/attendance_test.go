package attendance_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"github.com/tatame-app/tatame/core"
	"github.com/tatame-app/tatame/core/attendance"
	"github.com/tatame-app/tatame/testutil"
)

func TestService_Save(t *testing.T) {
	env := testutil.NewEnv()
	ctx := context.Background()
	acad, _ := testutil.CreateAcademy(t, env, "Atos", "atos@tatame.app", "S3cret!pass")
	stu := testutil.CreateStudent(t, env, testutil.NewStudent("Rui Costa", "rui@tatame.app", "71428793860", acad.ID))
	cs := testutil.CreateSchedule(t, env, "Fundamentals", acad.ID, 1, null.Int{})
	day := core.NewDate(2024, time.March, 4)

	first, err := env.Svcs.Attendance.Save(ctx, attendance.SaveRecord{StudentID: stu.ID, ScheduleID: cs.ID, Date: day, Status: "present"})
	require.NoError(t, err)
	second, err := env.Svcs.Attendance.Save(ctx, attendance.SaveRecord{StudentID: stu.ID, ScheduleID: cs.ID, Date: day, Status: " ABSENT "})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	records, err := env.Svcs.Attendance.Query(ctx, &attendance.QueryFilter{ScheduleID: cs.ID})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, attendance.StatusAbsent, records[0].Status)

	other, err := env.Svcs.Attendance.Save(ctx, attendance.SaveRecord{StudentID: stu.ID, ScheduleID: cs.ID, Date: day.AddDays(7), Status: "present"})
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, other.ID)

	tests := []struct {
		name string
		in   attendance.SaveRecord
	}{
		{name: "missing date", in: attendance.SaveRecord{StudentID: stu.ID, ScheduleID: cs.ID, Status: "present"}},
		{name: "bad status", in: attendance.SaveRecord{StudentID: stu.ID, ScheduleID: cs.ID, Date: day, Status: "late"}},
		{name: "missing student", in: attendance.SaveRecord{ScheduleID: cs.ID, Date: day, Status: "present"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.Svcs.Attendance.Save(ctx, tt.in)
			assert.Error(t, err)
		})
	}
}

func TestService_SaveBatch(t *testing.T) {
	env := testutil.NewEnv()
	ctx := context.Background()
	acad, _ := testutil.CreateAcademy(t, env, "Atos", "atos@tatame.app", "S3cret!pass")
	s1 := testutil.CreateStudent(t, env, testutil.NewStudent("Rui Costa", "rui@tatame.app", "71428793860", acad.ID))
	s2 := testutil.CreateStudent(t, env, testutil.NewStudent("Ana Souza", "ana@tatame.app", "86288366757", acad.ID))
	cs := testutil.CreateSchedule(t, env, "No-Gi", acad.ID, 3, null.Int{})
	day := core.NewDate(2024, time.March, 6)

	_, err := env.Svcs.Attendance.SaveBatch(ctx, attendance.BatchRequest{Records: []attendance.SaveRecord{
		{StudentID: s1.ID, ScheduleID: cs.ID, Date: day, Status: "present"},
		{StudentID: s2.ID, ScheduleID: cs.ID, Status: "present"},
	}})
	assert.True(t, core.IsValidationError(err))
	records, err := env.Svcs.Attendance.Query(ctx, &attendance.QueryFilter{Date: day})
	require.NoError(t, err)
	assert.Empty(t, records, "an invalid batch saves nothing")

	saved, err := env.Svcs.Attendance.SaveBatch(ctx, attendance.BatchRequest{Records: []attendance.SaveRecord{
		{StudentID: s1.ID, ScheduleID: cs.ID, Date: day, Status: "present"},
		{StudentID: s2.ID, ScheduleID: cs.ID, Date: day, Status: "absent"},
		{StudentID: s1.ID, ScheduleID: cs.ID, Date: day, Status: "absent"},
	}})
	require.NoError(t, err)
	assert.Len(t, saved, 3)

	records, err = env.Svcs.Attendance.Query(ctx, &attendance.QueryFilter{AcademyID: acad.ID, Date: day})
	require.NoError(t, err)
	require.Len(t, records, 2)
	for _, r := range records {
		assert.Equal(t, attendance.StatusAbsent, r.Status)
	}

	_, err = env.Svcs.Attendance.SaveBatch(ctx, attendance.BatchRequest{})
	assert.Error(t, err)
}

func TestService_Delete(t *testing.T) {
	env := testutil.NewEnv()
	ctx := context.Background()
	acad, _ := testutil.CreateAcademy(t, env, "Atos", "atos@tatame.app", "S3cret!pass")
	stu := testutil.CreateStudent(t, env, testutil.NewStudent("Rui Costa", "rui@tatame.app", "71428793860", acad.ID))
	cs := testutil.CreateSchedule(t, env, "Fundamentals", acad.ID, 1, null.Int{})

	rec, err := env.Svcs.Attendance.Save(ctx, attendance.SaveRecord{StudentID: stu.ID, ScheduleID: cs.ID, Date: core.Today(), Status: "present"})
	require.NoError(t, err)
	require.NoError(t, env.Svcs.Attendance.Delete(ctx, 0, rec.ID))

	_, err = env.Svcs.Attendance.GetByID(ctx, rec.ID)
	assert.Equal(t, attendance.ErrNotFound, err)
}
