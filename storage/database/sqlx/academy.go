package sqlxrepos

import (
	"context"

	"github.com/pkg/errors"

	"github.com/tatame-app/tatame/core"
	"github.com/tatame-app/tatame/core/academy"
)

const (
	academyColumns = "name, address, responsible, responsible_registration, professor_id, image_url, email, " +
		"password_hash, created_at, updated_at"
	academyAssistantsTable = "academy_assistants"
)

type academyRepository struct {
	repository
}

var _ academy.Repository = (*academyRepository)(nil) // interface compliance check

func NewAcademyRepository(exec core.DBExecutor) *academyRepository {
	return &academyRepository{repository{exec: exec}}
}

func (repo academyRepository) withAssistants(ctx context.Context, exe core.DBExecutor, academies []academy.Academy) error {
	ids := make([]int, 0, len(academies))
	for _, a := range academies {
		ids = append(ids, a.ID)
	}
	links, err := loadLinks(ctx, exe, academyAssistantsTable, "academy_id", ids)
	if err != nil {
		return err
	}
	for i := range academies {
		academies[i].AssistantIDs = links[academies[i].ID]
		if academies[i].AssistantIDs == nil {
			academies[i].AssistantIDs = []int{}
		}
	}
	return nil
}

func (repo academyRepository) CreateAcademy(ctx context.Context, a academy.Academy, exec ...core.DBExecutor) (academy.Academy, error) {
	exe := repo.getExec(exec)
	id, err := insert(ctx, exe,
		"INSERT INTO academies ("+academyColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		a.Name, a.Address, a.Responsible, a.ResponsibleRegistration, a.ProfessorID, a.ImageURL, a.Email,
		a.PasswordHash, a.CreatedAt.UTC(), a.UpdatedAt.UTC(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return academy.Academy{}, academy.ErrEmailExists
		}
		return academy.Academy{}, errors.Wrap(err, "inserting academy")
	}
	a.ID = id
	if err := replaceLinks(ctx, exe, academyAssistantsTable, "academy_id", a.ID, a.AssistantIDs); err != nil {
		return academy.Academy{}, err
	}
	return a, nil
}

func (repo academyRepository) QueryAcademies(ctx context.Context, filter *academy.QueryFilter, ordering []core.DBOrdering, exec ...core.DBExecutor) ([]academy.Academy, error) {
	exe := repo.getExec(exec)
	var conds conditions
	if filter != nil {
		conds.search(filter.Search, "name", "responsible", "address")
		if filter.ID != 0 {
			conds.add("id = ?", filter.ID)
		}
	}

	academies := make([]academy.Academy, 0)
	q := "SELECT * FROM academies" + conds.String() + orderBy(ordering, core.DBOrdering{Field: "name", Ascending: true})
	if err := selectAll(ctx, exe, &academies, q, conds.args...); err != nil {
		return nil, errors.Wrap(err, "querying academies")
	}
	if err := repo.withAssistants(ctx, exe, academies); err != nil {
		return nil, err
	}
	return academies, nil
}

func (repo academyRepository) GetAcademy(ctx context.Context, filter academy.GetFilter, exec ...core.DBExecutor) (academy.Academy, error) {
	exe := repo.getExec(exec)
	var conds conditions
	switch {
	case filter.ID != 0:
		conds.add("id = ?", filter.ID)
	case filter.Email != "":
		conds.add("email = ?", filter.Email)
	default:
		return academy.Academy{}, academy.ErrNotFound
	}

	academies := make([]academy.Academy, 1)
	if err := get(ctx, exe, &academies[0], "SELECT * FROM academies"+conds.String(), conds.args...); err != nil {
		return academy.Academy{}, trapNoRowsErr(err, academy.ErrNotFound, "getting academy")
	}
	if err := repo.withAssistants(ctx, exe, academies); err != nil {
		return academy.Academy{}, err
	}
	return academies[0], nil
}

func (repo academyRepository) UpdateAcademy(ctx context.Context, a academy.Academy, exec ...core.DBExecutor) (academy.Academy, error) {
	exe := repo.getExec(exec)
	err := execute(ctx, exe,
		`UPDATE academies SET name = ?, address = ?, responsible = ?, responsible_registration = ?, professor_id = ?,
		image_url = ?, email = ?, password_hash = ?, updated_at = ? WHERE id = ?`,
		a.Name, a.Address, a.Responsible, a.ResponsibleRegistration, a.ProfessorID,
		a.ImageURL, a.Email, a.PasswordHash, a.UpdatedAt.UTC(), a.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return academy.Academy{}, academy.ErrEmailExists
		}
		return academy.Academy{}, errors.Wrap(err, "updating academy")
	}
	if err := replaceLinks(ctx, exe, academyAssistantsTable, "academy_id", a.ID, a.AssistantIDs); err != nil {
		return academy.Academy{}, err
	}
	return a, nil
}

func (repo academyRepository) DeleteAcademy(ctx context.Context, id int, exec ...core.DBExecutor) error {
	if err := execute(ctx, repo.getExec(exec), "DELETE FROM academies WHERE id = ?", id); err != nil {
		return errors.Wrap(err, "deleting academy")
	}
	return nil
}

func (repo academyRepository) EmailExists(ctx context.Context, email string, excludeID int, exec ...core.DBExecutor) (bool, error) {
	return exists(ctx, repo.getExec(exec), "SELECT 1 FROM academies WHERE email = ? AND id <> ?", email, excludeID)
}
