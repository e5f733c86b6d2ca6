package inmemdb

import (
	"context"

	"github.com/tatame-app/tatame/core"
	"github.com/tatame-app/tatame/core/academy"
)

type academyRepository struct {
	db *DB
}

var _ academy.Repository = (*academyRepository)(nil) // interface compliance check

func NewAcademyRepository(db *DB) *academyRepository {
	return &academyRepository{db: db}
}

func academyColumn(a academy.Academy, name string) interface{} {
	switch name {
	case "id":
		return a.ID
	case "name":
		return a.Name
	case "created_at":
		return a.CreatedAt
	}
	return nil
}

func (repo *academyRepository) emailTaken(email string, excludeID int) bool {
	for _, a := range repo.db.academies {
		if a.Email == email && a.ID != excludeID {
			return true
		}
	}
	return false
}

func (repo *academyRepository) CreateAcademy(_ context.Context, a academy.Academy, _ ...core.DBExecutor) (academy.Academy, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if repo.emailTaken(a.Email, 0) {
		return academy.Academy{}, academy.ErrEmailExists
	}
	a.ID = repo.db.nextID("academies")
	a.AssistantIDs = copyIDs(a.AssistantIDs)
	repo.db.academies[a.ID] = a
	return a, nil
}

func (repo *academyRepository) QueryAcademies(_ context.Context, filter *academy.QueryFilter, ordering []core.DBOrdering, _ ...core.DBExecutor) ([]academy.Academy, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	academies := make([]academy.Academy, 0, len(repo.db.academies))
	for _, a := range repo.db.academies {
		if filter != nil {
			if !contains(filter.Search, a.Name, a.Responsible, a.Address) {
				continue
			}
			if filter.ID != 0 && a.ID != filter.ID {
				continue
			}
		}
		a.AssistantIDs = copyIDs(a.AssistantIDs)
		academies = append(academies, a)
	}
	if len(ordering) == 0 {
		ordering = []core.DBOrdering{{Field: "name", Ascending: true}}
	}
	sortRows(academies, ordering, academyColumn)
	return academies, nil
}

func (repo *academyRepository) GetAcademy(_ context.Context, filter academy.GetFilter, _ ...core.DBExecutor) (academy.Academy, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, a := range repo.db.academies {
		if (filter.ID != 0 && a.ID == filter.ID) || (filter.ID == 0 && filter.Email != "" && a.Email == filter.Email) {
			a.AssistantIDs = copyIDs(a.AssistantIDs)
			return a, nil
		}
	}
	return academy.Academy{}, academy.ErrNotFound
}

func (repo *academyRepository) UpdateAcademy(_ context.Context, a academy.Academy, _ ...core.DBExecutor) (academy.Academy, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.academies[a.ID]; !ok {
		return academy.Academy{}, academy.ErrNotFound
	}
	if repo.emailTaken(a.Email, a.ID) {
		return academy.Academy{}, academy.ErrEmailExists
	}
	a.AssistantIDs = copyIDs(a.AssistantIDs)
	repo.db.academies[a.ID] = a
	return a, nil
}

func (repo *academyRepository) DeleteAcademy(_ context.Context, id int, _ ...core.DBExecutor) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()
	repo.db.deleteAcademy(id)
	return nil
}

func (repo *academyRepository) EmailExists(_ context.Context, email string, excludeID int, _ ...core.DBExecutor) (bool, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return repo.emailTaken(email, excludeID), nil
}
