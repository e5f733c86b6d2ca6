package sqlxrepos

import (
	"context"

	"github.com/pkg/errors"

	"github.com/tatame-app/tatame/core"
	"github.com/tatame-app/tatame/core/user"
)

const userColumns = "name, email, role, academy_id, student_id, password_hash, refresh_token, " +
	"refresh_token_expires_at, created_at, updated_at"

type userRepository struct {
	repository
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(exec core.DBExecutor) *userRepository {
	return &userRepository{repository{exec: exec}}
}

func (repo userRepository) CreateUser(ctx context.Context, usr user.User, exec ...core.DBExecutor) (user.User, error) {
	id, err := insert(ctx, repo.getExec(exec),
		"INSERT INTO users ("+userColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		usr.Name, usr.Email, usr.Role, usr.AcademyID, usr.StudentID, usr.PasswordHash, usr.RefreshToken,
		usr.RefreshTokenExpiresAt, usr.CreatedAt.UTC(), usr.UpdatedAt.UTC(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return user.User{}, user.ErrEmailExists
		}
		return user.User{}, errors.Wrap(err, "inserting user")
	}
	usr.ID = id
	return usr, nil
}

func (repo userRepository) QueryUsers(ctx context.Context, filter *user.QueryFilter, ordering []core.DBOrdering, exec ...core.DBExecutor) ([]user.User, error) {
	var conds conditions
	if filter != nil {
		conds.search(filter.Search, "name", "email")
		if filter.Role != "" {
			conds.add("role = ?", filter.Role)
		}
		if filter.AcademyID != 0 {
			conds.add("academy_id = ?", filter.AcademyID)
		}
	}

	users := make([]user.User, 0)
	q := "SELECT * FROM users" + conds.String() + orderBy(ordering, core.DBOrdering{Field: "name", Ascending: true})
	if err := selectAll(ctx, repo.getExec(exec), &users, q, conds.args...); err != nil {
		return nil, errors.Wrap(err, "querying users")
	}
	return users, nil
}

func (repo userRepository) GetUser(ctx context.Context, filter user.GetFilter, exec ...core.DBExecutor) (user.User, error) {
	var conds conditions
	switch {
	case filter.ID != 0:
		conds.add("id = ?", filter.ID)
	case filter.Email != "":
		conds.add("email = ?", filter.Email)
	case filter.StudentID != 0:
		conds.add("student_id = ?", filter.StudentID)
	case filter.RefreshToken != "":
		conds.add("refresh_token = ?", filter.RefreshToken)
	default:
		return user.User{}, user.ErrNotFound
	}

	var usr user.User
	if err := get(ctx, repo.getExec(exec), &usr, "SELECT * FROM users"+conds.String(), conds.args...); err != nil {
		return user.User{}, trapNoRowsErr(err, user.ErrNotFound, "getting user")
	}
	return usr, nil
}

func (repo userRepository) UpdateUser(ctx context.Context, usr user.User, exec ...core.DBExecutor) (user.User, error) {
	err := execute(ctx, repo.getExec(exec),
		`UPDATE users SET name = ?, email = ?, role = ?, academy_id = ?, student_id = ?, password_hash = ?,
		refresh_token = ?, refresh_token_expires_at = ?, updated_at = ? WHERE id = ?`,
		usr.Name, usr.Email, usr.Role, usr.AcademyID, usr.StudentID, usr.PasswordHash,
		usr.RefreshToken, usr.RefreshTokenExpiresAt, usr.UpdatedAt.UTC(), usr.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return user.User{}, user.ErrEmailExists
		}
		return user.User{}, errors.Wrap(err, "updating user")
	}
	return usr, nil
}

func (repo userRepository) DeleteUsers(ctx context.Context, filter user.DeleteFilter, exec ...core.DBExecutor) error {
	var conds conditions
	if filter.ID != 0 {
		conds.add("id = ?", filter.ID)
	}
	if filter.StudentID != 0 {
		conds.add("student_id = ?", filter.StudentID)
	}
	if filter.AcademyID != 0 {
		conds.add("academy_id = ?", filter.AcademyID)
	}
	if filter.Role != "" {
		conds.add("role = ?", filter.Role)
	}
	if len(conds.clauses) == 0 {
		return nil // never wipe the whole table
	}
	if err := execute(ctx, repo.getExec(exec), "DELETE FROM users"+conds.String(), conds.args...); err != nil {
		return errors.Wrap(err, "deleting users")
	}
	return nil
}

func (repo userRepository) EmailExists(ctx context.Context, email string, excludeID int, exec ...core.DBExecutor) (bool, error) {
	return exists(ctx, repo.getExec(exec), "SELECT 1 FROM users WHERE email = ? AND id <> ?", email, excludeID)
}
