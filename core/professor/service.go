package professor

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/tatame-app/tatame/core"
	"github.com/tatame-app/tatame/core/activity"
)

var (
	// errors
	ErrNotFound  = errors.New("professor not found")
	ErrCPFExists = errors.New("a professor with this CPF already exists")
)

type (
	Repository interface {
		CreateProfessor(ctx context.Context, p Professor, exec ...core.DBExecutor) (Professor, error)
		QueryProfessors(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering, exec ...core.DBExecutor) ([]Professor, error)
		GetProfessor(ctx context.Context, filter GetFilter, exec ...core.DBExecutor) (Professor, error)
		UpdateProfessor(ctx context.Context, p Professor, exec ...core.DBExecutor) (Professor, error)
		DeleteProfessor(ctx context.Context, id int, exec ...core.DBExecutor) error
		// CPFExists ignores the professor with ID excludeID.
		CPFExists(ctx context.Context, cpf string, excludeID int, exec ...core.DBExecutor) (bool, error)
	}

	Service struct {
		db       core.Transactor
		repo     Repository
		logSvc   *activity.Service
		validate *validator.Validate
	}
)

func NewService(db core.Transactor, repo Repository, logSvc *activity.Service, validate *validator.Validate) *Service {
	return &Service{db: db, repo: repo, logSvc: logSvc, validate: validate}
}

func (svc *Service) checkCPF(ctx context.Context, cpf string, excludeID int) error {
	exists, err := svc.repo.CPFExists(ctx, cpf, excludeID)
	if err != nil {
		return errors.Wrap(err, "checking CPF uniqueness")
	}
	if exists {
		return core.NewValidationError(ErrCPFExists, core.FieldError{Field: "cpf", Error: ErrCPFExists.Error()})
	}
	return nil
}

func (svc *Service) Query(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Professor, error) {
	return svc.repo.QueryProfessors(ctx, filter, ordering)
}

func (svc *Service) GetByID(ctx context.Context, id int) (Professor, error) {
	return svc.repo.GetProfessor(ctx, GetFilter{ID: id})
}

func (svc *Service) Create(ctx context.Context, actorID int, np NewProfessor) (Professor, error) {
	np.Clean()
	if err := svc.validate.Struct(np); err != nil {
		return Professor{}, err
	}
	if err := svc.checkCPF(ctx, np.CPF, 0); err != nil {
		return Professor{}, err
	}

	var prof Professor
	err := svc.db.WithinTx(ctx, func(exec core.DBExecutor) error {
		var err error
		if prof, err = svc.repo.CreateProfessor(ctx, fromInput(np, 0), exec); err != nil {
			return errors.Wrap(err, "creating professor")
		}
		return svc.logSvc.Record(ctx, actorID, activity.ActionProfessorCreated, "professor "+prof.Name, exec)
	})
	return prof, err
}

func (svc *Service) Update(ctx context.Context, actorID, id int, up UpdateProfessor) (Professor, error) {
	if _, err := svc.repo.GetProfessor(ctx, GetFilter{ID: id}); err != nil {
		return Professor{}, err
	}
	up.Clean()
	if err := svc.validate.Struct(up); err != nil {
		return Professor{}, err
	}
	if err := svc.checkCPF(ctx, up.CPF, id); err != nil {
		return Professor{}, err
	}

	var prof Professor
	err := svc.db.WithinTx(ctx, func(exec core.DBExecutor) error {
		var err error
		if prof, err = svc.repo.UpdateProfessor(ctx, fromInput(up, id), exec); err != nil {
			return errors.Wrap(err, "updating professor")
		}
		return svc.logSvc.Record(ctx, actorID, activity.ActionProfessorUpdated, "professor "+prof.Name, exec)
	})
	return prof, err
}

func (svc *Service) Delete(ctx context.Context, actorID, id int) error {
	prof, err := svc.repo.GetProfessor(ctx, GetFilter{ID: id})
	if err != nil {
		return err
	}
	return svc.db.WithinTx(ctx, func(exec core.DBExecutor) error {
		if err := svc.repo.DeleteProfessor(ctx, id, exec); err != nil {
			return errors.Wrap(err, "deleting professor")
		}
		return svc.logSvc.Record(ctx, actorID, activity.ActionProfessorDeleted, "professor "+prof.Name, exec)
	})
}

func fromInput(np NewProfessor, id int) Professor {
	return Professor{
		ID:            id,
		Name:          np.Name,
		Registration:  np.Registration,
		CPF:           np.CPF,
		AcademyID:     np.AcademyID,
		GraduationID:  np.GraduationID,
		ImageURL:      np.ImageURL,
		BlackBeltDate: np.BlackBeltDate,
	}
}
