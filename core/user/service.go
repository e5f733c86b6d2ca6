package user

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/tatame-app/tatame/core"
)

var (
	// errors
	ErrNotFound    = errors.New("user not found")
	ErrEmailExists = errors.New("a user with this email already exists")
)

type (
	Repository interface {
		CreateUser(ctx context.Context, usr User, exec ...core.DBExecutor) (User, error)
		QueryUsers(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering, exec ...core.DBExecutor) ([]User, error)
		GetUser(ctx context.Context, filter GetFilter, exec ...core.DBExecutor) (User, error)
		UpdateUser(ctx context.Context, usr User, exec ...core.DBExecutor) (User, error)
		DeleteUsers(ctx context.Context, filter DeleteFilter, exec ...core.DBExecutor) error
		// EmailExists ignores the user with ID excludeID.
		EmailExists(ctx context.Context, email string, excludeID int, exec ...core.DBExecutor) (bool, error)
	}

	Service struct {
		repo     Repository
		validate *validator.Validate
	}
)

func NewService(repo Repository, validate *validator.Validate) *Service {
	return &Service{repo: repo, validate: validate}
}

// CheckEmail returns a ValidationError on field if email belongs to another user.
func (svc *Service) CheckEmail(ctx context.Context, field, email string, excludeID int, exec ...core.DBExecutor) error {
	exists, err := svc.repo.EmailExists(ctx, email, excludeID, exec...)
	if err != nil {
		return errors.Wrap(err, "checking email uniqueness")
	}
	if exists {
		return core.NewValidationError(ErrEmailExists, core.FieldError{Field: field, Error: ErrEmailExists.Error()})
	}
	return nil
}

func (svc *Service) Query(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]User, error) {
	return svc.repo.QueryUsers(ctx, filter, ordering)
}

func (svc *Service) GetByID(ctx context.Context, id int) (User, error) {
	return svc.repo.GetUser(ctx, GetFilter{ID: id})
}

func (svc *Service) GetByEmail(ctx context.Context, email string) (User, error) {
	return svc.repo.GetUser(ctx, GetFilter{Email: core.CleanString(email, true /* lower */)})
}

// SaveAdmin creates a general admin, or promotes and updates the user already holding that email.
func (svc *Service) SaveAdmin(ctx context.Context, na NewAdmin) (User, error) {
	na.Clean()
	if err := svc.validate.Struct(na); err != nil {
		return User{}, err
	}

	now := core.NowFunc().UTC()
	usr, err := svc.repo.GetUser(ctx, GetFilter{Email: na.Email})
	switch {
	case err == nil:
		if !usr.IsGeneralAdmin() {
			return User{}, core.NewFieldError("email", "email belongs to a non admin account")
		}
	case errors.Cause(err) == ErrNotFound:
		usr = User{Email: na.Email, Role: RoleGeneralAdmin, CreatedAt: now}
	default:
		return User{}, errors.Wrap(err, "finding user by email")
	}

	usr.Name = na.Name
	usr.UpdatedAt = now
	if err := usr.SetPassword(na.Password); err != nil {
		return User{}, errors.Wrap(err, "hashing password")
	}
	if usr.ID == 0 {
		return svc.repo.CreateUser(ctx, usr)
	}
	return svc.repo.UpdateUser(ctx, usr)
}
