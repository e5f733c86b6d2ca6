package sqlxrepos

import (
	"context"

	"github.com/pkg/errors"

	"github.com/tatame-app/tatame/core"
	"github.com/tatame-app/tatame/core/graduation"
)

type graduationRepository struct {
	repository
}

var _ graduation.Repository = (*graduationRepository)(nil) // interface compliance check

func NewGraduationRepository(exec core.DBExecutor) *graduationRepository {
	return &graduationRepository{repository{exec: exec}}
}

func (repo graduationRepository) CreateGraduation(ctx context.Context, g graduation.Graduation, exec ...core.DBExecutor) (graduation.Graduation, error) {
	id, err := insert(ctx, repo.getExec(exec),
		`INSERT INTO graduations (name, color, min_time_in_months, sort_rank, type, min_age, max_age)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		g.Name, g.Color, g.MinTimeInMonths, g.Rank, g.Type, g.MinAge, g.MaxAge,
	)
	if err != nil {
		return graduation.Graduation{}, errors.Wrap(err, "inserting graduation")
	}
	g.ID = id
	return g, nil
}

func (repo graduationRepository) QueryGraduations(ctx context.Context, ordering []core.DBOrdering, exec ...core.DBExecutor) ([]graduation.Graduation, error) {
	grads := make([]graduation.Graduation, 0)
	q := "SELECT * FROM graduations" + orderBy(ordering,
		core.DBOrdering{Field: "sort_rank", Ascending: true}, core.DBOrdering{Field: "id", Ascending: true})
	if err := selectAll(ctx, repo.getExec(exec), &grads, q); err != nil {
		return nil, errors.Wrap(err, "querying graduations")
	}
	return grads, nil
}

func (repo graduationRepository) GetGraduation(ctx context.Context, id int, exec ...core.DBExecutor) (graduation.Graduation, error) {
	var g graduation.Graduation
	if err := get(ctx, repo.getExec(exec), &g, "SELECT * FROM graduations WHERE id = ?", id); err != nil {
		return graduation.Graduation{}, trapNoRowsErr(err, graduation.ErrNotFound, "getting graduation")
	}
	return g, nil
}

func (repo graduationRepository) UpdateGraduation(ctx context.Context, g graduation.Graduation, exec ...core.DBExecutor) (graduation.Graduation, error) {
	err := execute(ctx, repo.getExec(exec),
		`UPDATE graduations SET name = ?, color = ?, min_time_in_months = ?, sort_rank = ?, type = ?, min_age = ?,
		max_age = ? WHERE id = ?`,
		g.Name, g.Color, g.MinTimeInMonths, g.Rank, g.Type, g.MinAge, g.MaxAge, g.ID,
	)
	if err != nil {
		return graduation.Graduation{}, errors.Wrap(err, "updating graduation")
	}
	return g, nil
}

func (repo graduationRepository) UpdateRank(ctx context.Context, id, rank int, exec ...core.DBExecutor) error {
	if err := execute(ctx, repo.getExec(exec), "UPDATE graduations SET sort_rank = ? WHERE id = ?", rank, id); err != nil {
		return errors.Wrap(err, "updating graduation rank")
	}
	return nil
}

func (repo graduationRepository) DeleteGraduation(ctx context.Context, id int, exec ...core.DBExecutor) error {
	if err := execute(ctx, repo.getExec(exec), "DELETE FROM graduations WHERE id = ?", id); err != nil {
		return errors.Wrap(err, "deleting graduation")
	}
	return nil
}

func (repo graduationRepository) MaxRank(ctx context.Context, exec ...core.DBExecutor) (int, error) {
	var rank int
	if err := get(ctx, repo.getExec(exec), &rank, "SELECT COALESCE(MAX(sort_rank), 0) FROM graduations"); err != nil {
		return 0, errors.Wrap(err, "getting max rank")
	}
	return rank, nil
}
