package academy

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/tatame-app/tatame/core"
	"github.com/tatame-app/tatame/core/activity"
	"github.com/tatame-app/tatame/core/user"
)

var (
	// errors
	ErrNotFound    = errors.New("academy not found")
	ErrEmailExists = errors.New("an academy with this email already exists")
)

type (
	Repository interface {
		CreateAcademy(ctx context.Context, a Academy, exec ...core.DBExecutor) (Academy, error)
		QueryAcademies(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering, exec ...core.DBExecutor) ([]Academy, error)
		GetAcademy(ctx context.Context, filter GetFilter, exec ...core.DBExecutor) (Academy, error)
		UpdateAcademy(ctx context.Context, a Academy, exec ...core.DBExecutor) (Academy, error)
		DeleteAcademy(ctx context.Context, id int, exec ...core.DBExecutor) error
		// EmailExists ignores the academy with ID excludeID.
		EmailExists(ctx context.Context, email string, excludeID int, exec ...core.DBExecutor) (bool, error)
	}

	Service struct {
		db       core.Transactor
		repo     Repository
		usrRepo  user.Repository
		usrSvc   *user.Service
		logSvc   *activity.Service
		validate *validator.Validate
	}
)

func NewService(
	db core.Transactor,
	repo Repository,
	usrRepo user.Repository,
	logSvc *activity.Service,
	validate *validator.Validate,
) *Service {
	return &Service{
		db:       db,
		repo:     repo,
		usrRepo:  usrRepo,
		usrSvc:   user.NewService(usrRepo, validate),
		logSvc:   logSvc,
		validate: validate,
	}
}

// checkEmail makes sure email is free among academies and users.
// excludeAcademy / excludeUser are the records allowed to already hold it.
func (svc *Service) checkEmail(ctx context.Context, email string, excludeAcademy, excludeUser int) error {
	exists, err := svc.repo.EmailExists(ctx, email, excludeAcademy)
	if err != nil {
		return errors.Wrap(err, "checking academy email uniqueness")
	}
	if exists {
		return core.NewValidationError(ErrEmailExists, core.FieldError{Field: "email", Error: ErrEmailExists.Error()})
	}
	return svc.usrSvc.CheckEmail(ctx, "email", email, excludeUser)
}

func (svc *Service) Query(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Academy, error) {
	return svc.repo.QueryAcademies(ctx, filter, ordering)
}

func (svc *Service) GetByID(ctx context.Context, id int) (Academy, error) {
	return svc.repo.GetAcademy(ctx, GetFilter{ID: id})
}

func (svc *Service) GetByEmail(ctx context.Context, email string) (Academy, error) {
	return svc.repo.GetAcademy(ctx, GetFilter{Email: core.CleanString(email, true /* lower */)})
}

// Create stores a new academy together with its academy admin user, atomically.
func (svc *Service) Create(ctx context.Context, actorID int, na NewAcademy) (Academy, user.User, error) {
	na.Clean()
	if err := svc.validate.Struct(na); err != nil {
		return Academy{}, user.User{}, err
	}
	if err := svc.checkEmail(ctx, na.Email, 0, 0); err != nil {
		return Academy{}, user.User{}, err
	}

	now := core.NowFunc().UTC()
	acad := Academy{
		Name:                    na.Name,
		Address:                 na.Address,
		Responsible:             na.Responsible,
		ResponsibleRegistration: na.ResponsibleRegistration,
		ProfessorID:             na.ProfessorID,
		AssistantIDs:            na.AssistantIDs,
		ImageURL:                na.ImageURL,
		Email:                   na.Email,
		CreatedAt:               now,
		UpdatedAt:               now,
	}
	if err := acad.SetPassword(na.Password); err != nil {
		return Academy{}, user.User{}, errors.Wrap(err, "hashing password")
	}

	action := activity.ActionAcademyCreated
	if actorID == 0 {
		action = activity.ActionAcademyRegistered
	}

	var admin user.User
	err := svc.db.WithinTx(ctx, func(exec core.DBExecutor) error {
		var err error
		if acad, err = svc.repo.CreateAcademy(ctx, acad, exec); err != nil {
			return errors.Wrap(err, "creating academy")
		}
		admin, err = svc.usrRepo.CreateUser(ctx, user.User{
			Name:      na.AdminName,
			Email:     na.Email,
			Role:      user.RoleAcademyAdmin,
			AcademyID: null.IntFrom(acad.ID),
			CreatedAt: now,
			UpdatedAt: now,
		}, exec)
		if err != nil {
			return errors.Wrap(err, "creating academy admin")
		}
		logActor := actorID
		if logActor == 0 {
			logActor = admin.ID
		}
		return svc.logSvc.Record(ctx, logActor, action, "academy "+acad.Name, exec)
	})
	if err != nil {
		return Academy{}, user.User{}, err
	}
	return acad, admin, nil
}

// Update modifies an academy; a changed email is propagated to its academy admin user.
func (svc *Service) Update(ctx context.Context, actorID, id int, ua UpdateAcademy) (Academy, error) {
	orig, err := svc.repo.GetAcademy(ctx, GetFilter{ID: id})
	if err != nil {
		return Academy{}, err
	}
	ua.Clean()
	if err := svc.validate.Struct(ua); err != nil {
		return Academy{}, err
	}

	admin, err := svc.usrRepo.GetUser(ctx, user.GetFilter{Email: orig.Email})
	hasAdmin := err == nil
	if err != nil && errors.Cause(err) != user.ErrNotFound {
		return Academy{}, errors.Wrap(err, "finding academy admin")
	}
	if ua.Email != orig.Email {
		if err := svc.checkEmail(ctx, ua.Email, id, admin.ID); err != nil {
			return Academy{}, err
		}
	}

	acad := orig
	acad.Name = ua.Name
	acad.Address = ua.Address
	acad.Responsible = ua.Responsible
	acad.ResponsibleRegistration = ua.ResponsibleRegistration
	acad.ProfessorID = ua.ProfessorID
	acad.AssistantIDs = ua.AssistantIDs
	acad.ImageURL = ua.ImageURL
	acad.Email = ua.Email
	acad.UpdatedAt = core.NowFunc().UTC()
	if ua.Password != "" {
		if err := acad.SetPassword(ua.Password); err != nil {
			return Academy{}, errors.Wrap(err, "hashing password")
		}
	}

	err = svc.db.WithinTx(ctx, func(exec core.DBExecutor) error {
		var err error
		if acad, err = svc.repo.UpdateAcademy(ctx, acad, exec); err != nil {
			return errors.Wrap(err, "updating academy")
		}
		if hasAdmin && admin.Email != acad.Email {
			admin.Email = acad.Email
			admin.UpdatedAt = acad.UpdatedAt
			if _, err = svc.usrRepo.UpdateUser(ctx, admin, exec); err != nil {
				return errors.Wrap(err, "updating academy admin")
			}
		}
		return svc.logSvc.Record(ctx, actorID, activity.ActionAcademyUpdated, "academy "+acad.Name, exec)
	})
	return acad, err
}

// SetPassword replaces the academy admin password.
func (svc *Service) SetPassword(ctx context.Context, id int, pwd string) error {
	acad, err := svc.repo.GetAcademy(ctx, GetFilter{ID: id})
	if err != nil {
		return err
	}
	if err := acad.SetPassword(pwd); err != nil {
		return errors.Wrap(err, "hashing password")
	}
	acad.UpdatedAt = core.NowFunc().UTC()
	_, err = svc.repo.UpdateAcademy(ctx, acad)
	return err
}

// Delete removes an academy and its admin users. Its schedules go with it;
// students and professors stay, detached from the academy.
func (svc *Service) Delete(ctx context.Context, actorID, id int) error {
	acad, err := svc.repo.GetAcademy(ctx, GetFilter{ID: id})
	if err != nil {
		return err
	}
	return svc.db.WithinTx(ctx, func(exec core.DBExecutor) error {
		filter := user.DeleteFilter{AcademyID: id, Role: user.RoleAcademyAdmin}
		if err := svc.usrRepo.DeleteUsers(ctx, filter, exec); err != nil {
			return errors.Wrap(err, "deleting academy admins")
		}
		if err := svc.repo.DeleteAcademy(ctx, id, exec); err != nil {
			return errors.Wrap(err, "deleting academy")
		}
		return svc.logSvc.Record(ctx, actorID, activity.ActionAcademyDeleted, "academy "+acad.Name, exec)
	})
}
