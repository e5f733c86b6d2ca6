// Package auth checks credentials and manages the refresh tokens of login identities.
// Access tokens are signed by the HTTP layer.
package auth

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/tatame-app/tatame/core"
	"github.com/tatame-app/tatame/core/academy"
	"github.com/tatame-app/tatame/core/student"
	"github.com/tatame-app/tatame/core/user"
)

var (
	// errors
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")
)

// LoginRequest identifies an account by email or CPF.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (lr *LoginRequest) Clean() {
	lr.Username = core.CleanString(lr.Username, true /* lower */)
}

// RegisterRequest is the self-service sign up of an academy and its admin.
type RegisterRequest struct {
	AcademyName             string `json:"academyName"`
	Address                 string `json:"address"`
	Responsible             string `json:"responsible"`
	ResponsibleRegistration string `json:"responsibleRegistration"`
	ImageURL                string `json:"imageUrl"`
	Name                    string `json:"name"`
	Email                   string `json:"email"`
	Password                string `json:"password"`
}

func (rr RegisterRequest) toAcademy() academy.NewAcademy {
	name := rr.AcademyName
	if core.CleanString(name) == "" {
		name = rr.Name
	}
	return academy.NewAcademy{
		Name:                    name,
		Address:                 rr.Address,
		Responsible:             rr.Responsible,
		ResponsibleRegistration: rr.ResponsibleRegistration,
		ImageURL:                rr.ImageURL,
		AdminName:               rr.Name,
		Email:                   rr.Email,
		Password:                rr.Password,
	}
}

type Service struct {
	usrRepo    user.Repository
	stuRepo    student.Repository
	acadRepo   academy.Repository
	acadSvc    *academy.Service
	validate   *validator.Validate
	refreshTTL time.Duration
}

func NewService(
	usrRepo user.Repository,
	stuRepo student.Repository,
	acadRepo academy.Repository,
	acadSvc *academy.Service,
	validate *validator.Validate,
	refreshTTL time.Duration,
) *Service {
	return &Service{
		usrRepo:    usrRepo,
		stuRepo:    stuRepo,
		acadRepo:   acadRepo,
		acadSvc:    acadSvc,
		validate:   validate,
		refreshTTL: refreshTTL,
	}
}

// findIdentity returns the user matching an email, or the user of the student holding a CPF.
func (svc *Service) findIdentity(ctx context.Context, identifier string) (user.User, error) {
	identifier = core.CleanString(identifier, true /* lower */)
	if strings.Contains(identifier, "@") {
		return svc.usrRepo.GetUser(ctx, user.GetFilter{Email: identifier})
	}

	cpf := core.OnlyDigits(identifier)
	if cpf == "" {
		return user.User{}, user.ErrNotFound
	}
	stu, err := svc.stuRepo.GetStudent(ctx, student.GetFilter{CPF: cpf})
	if err != nil {
		if errors.Cause(err) == student.ErrNotFound {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, errors.Wrap(err, "finding student by CPF")
	}
	return svc.usrRepo.GetUser(ctx, user.GetFilter{StudentID: stu.ID})
}

// passwordHash returns the hash guarding usr: students and academy admins keep it on
// their domain record.
func (svc *Service) passwordHash(ctx context.Context, usr user.User) ([]byte, error) {
	switch usr.Role {
	case user.RoleStudent:
		if !usr.StudentID.Valid {
			return nil, nil
		}
		stu, err := svc.stuRepo.GetStudent(ctx, student.GetFilter{ID: usr.StudentID.Int})
		if err != nil {
			return nil, errors.Wrap(err, "getting student")
		}
		return stu.PasswordHash, nil
	case user.RoleAcademyAdmin:
		if !usr.AcademyID.Valid {
			return nil, nil
		}
		acad, err := svc.acadRepo.GetAcademy(ctx, academy.GetFilter{ID: usr.AcademyID.Int})
		if err != nil {
			return nil, errors.Wrap(err, "getting academy")
		}
		return acad.PasswordHash, nil
	default:
		return usr.PasswordHash, nil
	}
}

// Authenticate returns the user identified by email or CPF if pwd matches its password.
func (svc *Service) Authenticate(ctx context.Context, lr LoginRequest) (user.User, error) {
	lr.Clean()
	if err := svc.validate.Struct(lr); err != nil {
		return user.User{}, err
	}

	usr, err := svc.findIdentity(ctx, lr.Username)
	if err != nil {
		if errors.Cause(err) == user.ErrNotFound {
			return user.User{}, ErrInvalidCredentials
		}
		return user.User{}, errors.Wrap(err, "finding user")
	}
	hash, err := svc.passwordHash(ctx, usr)
	if err != nil {
		if cause := errors.Cause(err); cause == student.ErrNotFound || cause == academy.ErrNotFound {
			return user.User{}, ErrInvalidCredentials
		}
		return user.User{}, err
	}
	if len(hash) == 0 || core.CheckPassword(hash, lr.Password) != nil {
		return user.User{}, ErrInvalidCredentials
	}
	return usr, nil
}

// IssueRefreshToken stores a new refresh token on usr, replacing any previous one.
func (svc *Service) IssueRefreshToken(ctx context.Context, usr user.User) (string, error) {
	now := core.NowFunc().UTC()
	token := uuid.New().String()
	usr.RefreshToken = null.StringFrom(token)
	usr.RefreshTokenExpiresAt = null.TimeFrom(now.Add(svc.refreshTTL))
	usr.UpdatedAt = now
	if _, err := svc.usrRepo.UpdateUser(ctx, usr); err != nil {
		return "", errors.Wrap(err, "storing refresh token")
	}
	return token, nil
}

// Refresh returns the owner of a valid refresh token. The token itself stays valid.
func (svc *Service) Refresh(ctx context.Context, token string) (user.User, error) {
	token = core.CleanString(token)
	if token == "" {
		return user.User{}, ErrInvalidRefreshToken
	}
	usr, err := svc.usrRepo.GetUser(ctx, user.GetFilter{RefreshToken: token})
	if err != nil {
		if errors.Cause(err) == user.ErrNotFound {
			return user.User{}, ErrInvalidRefreshToken
		}
		return user.User{}, errors.Wrap(err, "finding user by refresh token")
	}
	if !usr.RefreshTokenExpiresAt.Valid || !core.NowFunc().Before(usr.RefreshTokenExpiresAt.Time) {
		return user.User{}, ErrInvalidRefreshToken
	}
	return usr, nil
}

// Logout clears the refresh token of the user.
func (svc *Service) Logout(ctx context.Context, userID int) error {
	usr, err := svc.usrRepo.GetUser(ctx, user.GetFilter{ID: userID})
	if err != nil {
		return err
	}
	usr.RefreshToken = null.String{}
	usr.RefreshTokenExpiresAt = null.Time{}
	usr.UpdatedAt = core.NowFunc().UTC()
	_, err = svc.usrRepo.UpdateUser(ctx, usr)
	return errors.Wrap(err, "clearing refresh token")
}

// Register signs up a new academy and returns its admin user.
func (svc *Service) Register(ctx context.Context, rr RegisterRequest) (user.User, error) {
	_, admin, err := svc.acadSvc.Create(ctx, 0, rr.toAcademy())
	return admin, err
}

// ResetPassword replaces the password of the identity matching identifier (email or CPF).
func (svc *Service) ResetPassword(ctx context.Context, identifier, pwd string) error {
	usr, err := svc.findIdentity(ctx, identifier)
	if err != nil {
		return err
	}
	if err := core.CheckPasswordPolicy(pwd, usr.Name, usr.Email); err != nil {
		return err
	}

	now := core.NowFunc().UTC()
	switch usr.Role {
	case user.RoleStudent:
		stu, err := svc.stuRepo.GetStudent(ctx, student.GetFilter{ID: usr.StudentID.Int})
		if err != nil {
			return errors.Wrap(err, "getting student")
		}
		if err := stu.SetPassword(pwd); err != nil {
			return errors.Wrap(err, "hashing password")
		}
		stu.UpdatedAt = now
		_, err = svc.stuRepo.UpdateStudent(ctx, stu)
		return errors.Wrap(err, "updating student")
	case user.RoleAcademyAdmin:
		return svc.acadSvc.SetPassword(ctx, usr.AcademyID.Int, pwd)
	default:
		if err := usr.SetPassword(pwd); err != nil {
			return errors.Wrap(err, "hashing password")
		}
		usr.UpdatedAt = now
		_, err = svc.usrRepo.UpdateUser(ctx, usr)
		return errors.Wrap(err, "updating user")
	}
}
