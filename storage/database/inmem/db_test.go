package inmemdb

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tatame-app/tatame/core"
	"github.com/tatame-app/tatame/core/graduation"
)

func TestDB_WithinTx(t *testing.T) {
	ctx := context.Background()
	db := NewDB()
	repo := NewGraduationRepository(db)

	white, err := repo.CreateGraduation(ctx, graduation.Graduation{Name: "Branca", Rank: 1, Type: graduation.TypeAdult})
	require.NoError(t, err)

	t.Run("rollback", func(t *testing.T) {
		errBoom := errors.New("boom")
		err := db.WithinTx(ctx, func(exec core.DBExecutor) error {
			if err := repo.UpdateRank(ctx, white.ID, 7, exec); err != nil {
				return err
			}
			if _, err := repo.CreateGraduation(ctx, graduation.Graduation{Name: "Azul", Rank: 2, Type: graduation.TypeAdult}, exec); err != nil {
				return err
			}
			return errBoom
		})
		assert.Equal(t, errBoom, err)

		got, err := repo.GetGraduation(ctx, white.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, got.Rank)

		grads, err := repo.QueryGraduations(ctx, nil)
		require.NoError(t, err)
		assert.Len(t, grads, 1)
	})

	t.Run("commit", func(t *testing.T) {
		err := db.WithinTx(ctx, func(exec core.DBExecutor) error {
			return repo.UpdateRank(ctx, white.ID, 3, exec)
		})
		require.NoError(t, err)

		got, err := repo.GetGraduation(ctx, white.ID)
		require.NoError(t, err)
		assert.Equal(t, 3, got.Rank)

		// the id sequence was rolled back too
		azul, err := repo.CreateGraduation(ctx, graduation.Graduation{Name: "Azul", Rank: 2, Type: graduation.TypeAdult})
		require.NoError(t, err)
		assert.Equal(t, white.ID+1, azul.ID)
	})
}
