package graduation_test

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"github.com/tatame-app/tatame/core"
	"github.com/tatame-app/tatame/core/graduation"
	"github.com/tatame-app/tatame/core/student"
	"github.com/tatame-app/tatame/testutil"
)

func TestService_Create(t *testing.T) {
	env := testutil.NewEnv()
	ctx := context.Background()

	white := testutil.CreateGraduation(t, env, "Branca", 0, 0)
	blue := testutil.CreateGraduation(t, env, "Azul", 0, 24)
	fixed := testutil.CreateGraduation(t, env, "Coral", 9, 0)
	assert.Equal(t, 1, white.Rank)
	assert.Equal(t, 2, blue.Rank)
	assert.Equal(t, 9, fixed.Rank)

	_, err := env.Svcs.Graduation.Create(ctx, 0, graduation.NewGraduation{
		Name: "Cinza", Color: "grey", Type: graduation.TypeAdult, MinAge: null.IntFrom(4),
	})
	assert.Error(t, err, "adult graduations take no age limits")

	kids, err := env.Svcs.Graduation.Create(ctx, 0, graduation.NewGraduation{
		Name: "Cinza", Color: "grey", Type: graduation.TypeKids, MinAge: null.IntFrom(4), MaxAge: null.IntFrom(15),
	})
	require.NoError(t, err)
	assert.Equal(t, 10, kids.Rank)
}

func TestService_Reorder(t *testing.T) {
	env := testutil.NewEnv()
	ctx := context.Background()

	white := testutil.CreateGraduation(t, env, "Branca", 0, 0)
	blue := testutil.CreateGraduation(t, env, "Azul", 0, 24)
	purple := testutil.CreateGraduation(t, env, "Roxa", 0, 18)

	grads, err := env.Svcs.Graduation.Reorder(ctx, 0, graduation.ReorderRequest{IDs: []int{purple.ID, white.ID, blue.ID}})
	require.NoError(t, err)
	require.Len(t, grads, 3)
	assert.Equal(t, []int{purple.ID, white.ID, blue.ID}, []int{grads[0].ID, grads[1].ID, grads[2].ID})
	for i, g := range grads {
		assert.Equal(t, i+1, g.Rank)
	}

	_, err = env.Svcs.Graduation.Reorder(ctx, 0, graduation.ReorderRequest{IDs: []int{white.ID, white.ID}})
	assert.True(t, core.IsValidationError(err))

	_, err = env.Svcs.Graduation.Reorder(ctx, 0, graduation.ReorderRequest{IDs: []int{white.ID, 99}})
	assert.True(t, core.IsValidationError(err))
}

func TestService_Delete(t *testing.T) {
	env := testutil.NewEnv()
	ctx := context.Background()

	acad, _ := testutil.CreateAcademy(t, env, "Nova Uniao", "nova@tatame.app", "S3cret!pass")
	blue := testutil.CreateGraduation(t, env, "Azul", 0, 24)
	ns := testutil.NewStudent("Maria Lima", "maria@tatame.app", "52998224725", acad.ID)
	ns.BeltID = null.IntFrom(blue.ID)
	stu := testutil.CreateStudent(t, env, ns)
	cs := testutil.CreateSchedule(t, env, "Advanced", acad.ID, 2, null.IntFrom(blue.ID))

	require.NoError(t, env.Svcs.Graduation.Delete(ctx, 0, blue.ID))

	_, err := env.Svcs.Graduation.GetByID(ctx, blue.ID)
	assert.Equal(t, graduation.ErrNotFound, errors.Cause(err))

	got, err := env.Svcs.Student.GetByID(ctx, stu.ID)
	require.NoError(t, err)
	assert.False(t, got.BeltID.Valid)
	assert.Nil(t, got.BeltProgress)

	gotCS, err := env.Svcs.Schedule.GetByID(ctx, cs.ID)
	require.NoError(t, err)
	assert.False(t, gotCS.RequiredGraduationID.Valid)

	all, err := env.Svcs.Student.Query(ctx, &student.QueryFilter{}, nil)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
