package graduation

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/tatame-app/tatame/core"
	"github.com/tatame-app/tatame/core/activity"
)

var ErrNotFound = errors.New("graduation not found")

type (
	Repository interface {
		CreateGraduation(ctx context.Context, g Graduation, exec ...core.DBExecutor) (Graduation, error)
		// QueryGraduations defaults to rank order.
		QueryGraduations(ctx context.Context, ordering []core.DBOrdering, exec ...core.DBExecutor) ([]Graduation, error)
		GetGraduation(ctx context.Context, id int, exec ...core.DBExecutor) (Graduation, error)
		UpdateGraduation(ctx context.Context, g Graduation, exec ...core.DBExecutor) (Graduation, error)
		UpdateRank(ctx context.Context, id, rank int, exec ...core.DBExecutor) error
		DeleteGraduation(ctx context.Context, id int, exec ...core.DBExecutor) error
		MaxRank(ctx context.Context, exec ...core.DBExecutor) (int, error)
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

func (svc *Service) Query(ctx context.Context, ordering []core.DBOrdering) ([]Graduation, error) {
	return svc.repo.QueryGraduations(ctx, ordering)
}

// Index loads every graduation keyed by ID.
func (svc *Service) Index(ctx context.Context) (Index, error) {
	grads, err := svc.repo.QueryGraduations(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "querying graduations")
	}
	return NewIndex(grads), nil
}

func (svc *Service) GetByID(ctx context.Context, id int) (Graduation, error) {
	return svc.repo.GetGraduation(ctx, id)
}

func (svc *Service) Create(ctx context.Context, actorID int, ng NewGraduation) (Graduation, error) {
	ng.Clean()
	if err := svc.validate.Struct(ng); err != nil {
		return Graduation{}, err
	}

	var grad Graduation
	err := svc.db.WithinTx(ctx, func(exec core.DBExecutor) error {
		rank := ng.Rank
		if rank == 0 {
			maxRank, err := svc.repo.MaxRank(ctx, exec)
			if err != nil {
				return errors.Wrap(err, "getting max rank")
			}
			rank = maxRank + 1
		}

		var err error
		grad, err = svc.repo.CreateGraduation(ctx, fromInput(ng, 0, rank), exec)
		if err != nil {
			return errors.Wrap(err, "creating graduation")
		}
		return svc.logSvc.Record(ctx, actorID, activity.ActionGraduationCreated, "graduation "+grad.Name, exec)
	})
	return grad, err
}

func (svc *Service) Update(ctx context.Context, actorID, id int, ug UpdateGraduation) (Graduation, error) {
	orig, err := svc.repo.GetGraduation(ctx, id)
	if err != nil {
		return Graduation{}, err
	}
	ug.Clean()
	if err := svc.validate.Struct(ug); err != nil {
		return Graduation{}, err
	}

	rank := ug.Rank
	if rank == 0 {
		rank = orig.Rank
	}
	var grad Graduation
	err = svc.db.WithinTx(ctx, func(exec core.DBExecutor) error {
		var err error
		grad, err = svc.repo.UpdateGraduation(ctx, fromInput(ug, id, rank), exec)
		if err != nil {
			return errors.Wrap(err, "updating graduation")
		}
		return svc.logSvc.Record(ctx, actorID, activity.ActionGraduationUpdated, "graduation "+grad.Name, exec)
	})
	return grad, err
}

// Delete removes a graduation; students, professors and schedules referencing it lose the reference.
func (svc *Service) Delete(ctx context.Context, actorID, id int) error {
	grad, err := svc.repo.GetGraduation(ctx, id)
	if err != nil {
		return err
	}
	return svc.db.WithinTx(ctx, func(exec core.DBExecutor) error {
		if err := svc.repo.DeleteGraduation(ctx, id, exec); err != nil {
			return errors.Wrap(err, "deleting graduation")
		}
		return svc.logSvc.Record(ctx, actorID, activity.ActionGraduationDeleted, "graduation "+grad.Name, exec)
	})
}

// Reorder rewrites ranks from the submitted order: ids[i] gets rank i+1.
func (svc *Service) Reorder(ctx context.Context, actorID int, req ReorderRequest) ([]Graduation, error) {
	if err := svc.validate.Struct(req); err != nil {
		return nil, err
	}
	seen := make(map[int]bool, len(req.IDs))
	for _, id := range req.IDs {
		if seen[id] {
			return nil, core.NewFieldError("ids", fmt.Sprintf("graduation %d is listed more than once", id))
		}
		seen[id] = true
	}

	err := svc.db.WithinTx(ctx, func(exec core.DBExecutor) error {
		for i, id := range req.IDs {
			if _, err := svc.repo.GetGraduation(ctx, id, exec); err != nil {
				if errors.Cause(err) == ErrNotFound {
					return core.NewFieldError("ids", fmt.Sprintf("graduation %d does not exist", id))
				}
				return errors.Wrap(err, "getting graduation")
			}
			if err := svc.repo.UpdateRank(ctx, id, i+1, exec); err != nil {
				return errors.Wrap(err, "updating rank")
			}
		}
		return svc.logSvc.Record(ctx, actorID, activity.ActionGraduationsReorder, fmt.Sprintf("%d graduations", len(req.IDs)), exec)
	})
	if err != nil {
		return nil, err
	}
	return svc.repo.QueryGraduations(ctx, nil)
}

func fromInput(ng NewGraduation, id, rank int) Graduation {
	return Graduation{
		ID:              id,
		Name:            ng.Name,
		Color:           ng.Color,
		MinTimeInMonths: ng.MinTimeInMonths,
		Rank:            rank,
		Type:            ng.Type,
		MinAge:          ng.MinAge,
		MaxAge:          ng.MaxAge,
	}
}
