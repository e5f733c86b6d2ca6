package inmemdb

import (
	"context"

	"github.com/tatame-app/tatame/core"
	"github.com/tatame-app/tatame/core/user"
)

type userRepository struct {
	db *DB
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *DB) *userRepository {
	return &userRepository{db: db}
}

func userColumn(u user.User, name string) interface{} {
	switch name {
	case "id":
		return u.ID
	case "name":
		return u.Name
	case "email":
		return u.Email
	case "role":
		return u.Role
	case "created_at":
		return u.CreatedAt
	}
	return nil
}

// emailTaken must be called with the lock held.
func (repo *userRepository) emailTaken(email string, excludeID int) bool {
	for _, u := range repo.db.users {
		if u.Email == email && u.ID != excludeID {
			return true
		}
	}
	return false
}

func (repo *userRepository) CreateUser(_ context.Context, usr user.User, _ ...core.DBExecutor) (user.User, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if repo.emailTaken(usr.Email, 0) {
		return user.User{}, user.ErrEmailExists
	}
	usr.ID = repo.db.nextID("users")
	repo.db.users[usr.ID] = usr
	return usr, nil
}

func (repo *userRepository) QueryUsers(_ context.Context, filter *user.QueryFilter, ordering []core.DBOrdering, _ ...core.DBExecutor) ([]user.User, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	users := make([]user.User, 0, len(repo.db.users))
	for _, u := range repo.db.users {
		if filter != nil {
			if !contains(filter.Search, u.Name, u.Email) {
				continue
			}
			if filter.Role != "" && u.Role != filter.Role {
				continue
			}
			if filter.AcademyID != 0 && (!u.AcademyID.Valid || u.AcademyID.Int != filter.AcademyID) {
				continue
			}
		}
		users = append(users, u)
	}
	if len(ordering) == 0 {
		ordering = []core.DBOrdering{{Field: "name", Ascending: true}}
	}
	sortRows(users, ordering, userColumn)
	return users, nil
}

func (repo *userRepository) GetUser(_ context.Context, filter user.GetFilter, _ ...core.DBExecutor) (user.User, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if filter.ID != 0 {
		if u, ok := repo.db.users[filter.ID]; ok {
			return u, nil
		}
		return user.User{}, user.ErrNotFound
	}
	for _, u := range repo.db.users {
		switch {
		case filter.Email != "" && u.Email == filter.Email,
			filter.StudentID != 0 && u.StudentID.Valid && u.StudentID.Int == filter.StudentID,
			filter.RefreshToken != "" && u.RefreshToken.Valid && u.RefreshToken.String == filter.RefreshToken:
			return u, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) UpdateUser(_ context.Context, usr user.User, _ ...core.DBExecutor) (user.User, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.users[usr.ID]; !ok {
		return user.User{}, user.ErrNotFound
	}
	if repo.emailTaken(usr.Email, usr.ID) {
		return user.User{}, user.ErrEmailExists
	}
	repo.db.users[usr.ID] = usr
	return usr, nil
}

func (repo *userRepository) DeleteUsers(_ context.Context, filter user.DeleteFilter, _ ...core.DBExecutor) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if filter == (user.DeleteFilter{}) {
		return nil
	}
	for id, u := range repo.db.users {
		if filter.ID != 0 && u.ID != filter.ID {
			continue
		}
		if filter.StudentID != 0 && (!u.StudentID.Valid || u.StudentID.Int != filter.StudentID) {
			continue
		}
		if filter.AcademyID != 0 && (!u.AcademyID.Valid || u.AcademyID.Int != filter.AcademyID) {
			continue
		}
		if filter.Role != "" && u.Role != filter.Role {
			continue
		}
		repo.db.deleteUser(id)
	}
	return nil
}

func (repo *userRepository) EmailExists(_ context.Context, email string, excludeID int, _ ...core.DBExecutor) (bool, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return repo.emailTaken(email, excludeID), nil
}
