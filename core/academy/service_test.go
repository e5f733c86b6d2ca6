package academy_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"github.com/tatame-app/tatame/core"
	"github.com/tatame-app/tatame/core/academy"
	"github.com/tatame-app/tatame/core/schedule"
	"github.com/tatame-app/tatame/core/user"
	"github.com/tatame-app/tatame/testutil"
)

func TestService_Create(t *testing.T) {
	env := testutil.NewEnv()
	ctx := context.Background()
	testutil.CreateAdmin(t, env, "Helio", "helio@tatame.app", "S3cret!pass")

	acad, admin := testutil.CreateAcademy(t, env, "Checkmat", "checkmat@tatame.app", "S3cret!pass")
	assert.Equal(t, user.RoleAcademyAdmin, admin.Role)
	assert.Equal(t, null.IntFrom(acad.ID), admin.AcademyID)
	assert.Equal(t, acad.Email, admin.Email)

	tests := []struct {
		name  string
		email string
	}{
		{name: "academy email", email: "CHECKMAT@tatame.app"},
		{name: "user email", email: "helio@tatame.app"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := env.Svcs.Academy.Create(ctx, 0, academy.NewAcademy{Name: "Dup", Email: tt.email, Password: "S3cret!pass"})
			require.True(t, core.IsValidationError(err))
			assert.Equal(t, "email", err.(*core.ValidationError).Fields[0].Field)
		})
	}

	academies, err := env.Svcs.Academy.Query(ctx, nil, nil)
	require.NoError(t, err)
	assert.Len(t, academies, 1)
}

func TestService_Update(t *testing.T) {
	env := testutil.NewEnv()
	ctx := context.Background()
	acad, admin := testutil.CreateAcademy(t, env, "Checkmat", "checkmat@tatame.app", "S3cret!pass")

	updated, err := env.Svcs.Academy.Update(ctx, admin.ID, acad.ID, academy.UpdateAcademy{
		Name:  "Checkmat HQ",
		Email: "hq@tatame.app",
	})
	require.NoError(t, err)
	assert.Equal(t, "Checkmat HQ", updated.Name)

	usr, err := env.Svcs.User.GetByID(ctx, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, "hq@tatame.app", usr.Email, "the academy admin follows the academy email")

	_, err = env.Svcs.Academy.Update(ctx, admin.ID, 999, academy.UpdateAcademy{Name: "x", Email: "x@tatame.app"})
	assert.Equal(t, academy.ErrNotFound, err)
}

func TestService_Delete(t *testing.T) {
	env := testutil.NewEnv()
	ctx := context.Background()
	acad, admin := testutil.CreateAcademy(t, env, "Checkmat", "checkmat@tatame.app", "S3cret!pass")
	other, _ := testutil.CreateAcademy(t, env, "Alliance", "alliance@tatame.app", "S3cret!pass")
	stu := testutil.CreateStudent(t, env, testutil.NewStudent("Rui Costa", "rui@tatame.app", "52998224725", acad.ID))
	prof := testutil.CreateProfessor(t, env, "Leo Vieira", "11144477735", acad.ID)
	testutil.CreateSchedule(t, env, "Fundamentals", acad.ID, 1, null.Int{})
	kept := testutil.CreateSchedule(t, env, "Open mat", other.ID, 6, null.Int{})

	require.NoError(t, env.Svcs.Academy.Delete(ctx, 0, acad.ID))

	_, err := env.Svcs.Academy.GetByID(ctx, acad.ID)
	assert.Equal(t, academy.ErrNotFound, err)
	_, err = env.Svcs.User.GetByID(ctx, admin.ID)
	assert.Equal(t, user.ErrNotFound, err)

	schedules, err := env.Svcs.Schedule.Query(ctx, &schedule.QueryFilter{}, nil)
	require.NoError(t, err)
	require.Len(t, schedules, 1)
	assert.Equal(t, kept.ID, schedules[0].ID)

	s, err := env.Svcs.Student.GetByID(ctx, stu.ID)
	require.NoError(t, err)
	assert.False(t, s.AcademyID.Valid)
	p, err := env.Svcs.Professor.GetByID(ctx, prof.ID)
	require.NoError(t, err)
	assert.False(t, p.AcademyID.Valid)

	assert.Equal(t, academy.ErrNotFound, env.Svcs.Academy.Delete(ctx, 0, acad.ID))
}
