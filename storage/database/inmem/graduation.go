package inmemdb

import (
	"context"

	"github.com/tatame-app/tatame/core"
	"github.com/tatame-app/tatame/core/graduation"
)

type graduationRepository struct {
	db *DB
}

var _ graduation.Repository = (*graduationRepository)(nil) // interface compliance check

func NewGraduationRepository(db *DB) *graduationRepository {
	return &graduationRepository{db: db}
}

func graduationColumn(g graduation.Graduation, name string) interface{} {
	switch name {
	case "id":
		return g.ID
	case "name":
		return g.Name
	case "sort_rank":
		return g.Rank
	case "min_time_in_months":
		return g.MinTimeInMonths
	}
	return nil
}

func (repo *graduationRepository) CreateGraduation(_ context.Context, g graduation.Graduation, _ ...core.DBExecutor) (graduation.Graduation, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	g.ID = repo.db.nextID("graduations")
	repo.db.graduations[g.ID] = g
	return g, nil
}

func (repo *graduationRepository) QueryGraduations(_ context.Context, ordering []core.DBOrdering, _ ...core.DBExecutor) ([]graduation.Graduation, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	grads := make([]graduation.Graduation, 0, len(repo.db.graduations))
	for _, g := range repo.db.graduations {
		grads = append(grads, g)
	}
	if len(ordering) == 0 {
		ordering = []core.DBOrdering{{Field: "sort_rank", Ascending: true}}
	}
	sortRows(grads, ordering, graduationColumn)
	return grads, nil
}

func (repo *graduationRepository) GetGraduation(_ context.Context, id int, _ ...core.DBExecutor) (graduation.Graduation, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if g, ok := repo.db.graduations[id]; ok {
		return g, nil
	}
	return graduation.Graduation{}, graduation.ErrNotFound
}

func (repo *graduationRepository) UpdateGraduation(_ context.Context, g graduation.Graduation, _ ...core.DBExecutor) (graduation.Graduation, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.graduations[g.ID]; !ok {
		return graduation.Graduation{}, graduation.ErrNotFound
	}
	repo.db.graduations[g.ID] = g
	return g, nil
}

func (repo *graduationRepository) UpdateRank(_ context.Context, id, rank int, _ ...core.DBExecutor) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if g, ok := repo.db.graduations[id]; ok {
		g.Rank = rank
		repo.db.graduations[id] = g
	}
	return nil
}

func (repo *graduationRepository) DeleteGraduation(_ context.Context, id int, _ ...core.DBExecutor) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()
	repo.db.deleteGraduation(id)
	return nil
}

func (repo *graduationRepository) MaxRank(_ context.Context, _ ...core.DBExecutor) (int, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	var maxRank int
	for _, g := range repo.db.graduations {
		if g.Rank > maxRank {
			maxRank = g.Rank
		}
	}
	return maxRank, nil
}
