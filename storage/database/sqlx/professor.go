package sqlxrepos

import (
	"context"

	"github.com/pkg/errors"

	"github.com/tatame-app/tatame/core"
	"github.com/tatame-app/tatame/core/professor"
)

type professorRepository struct {
	repository
}

var _ professor.Repository = (*professorRepository)(nil) // interface compliance check

func NewProfessorRepository(exec core.DBExecutor) *professorRepository {
	return &professorRepository{repository{exec: exec}}
}

func (repo professorRepository) CreateProfessor(ctx context.Context, prof professor.Professor, exec ...core.DBExecutor) (professor.Professor, error) {
	id, err := insert(ctx, repo.getExec(exec),
		`INSERT INTO professors (name, registration, cpf, academy_id, graduation_id, image_url, black_belt_date)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		prof.Name, prof.Registration, prof.CPF, prof.AcademyID, prof.GraduationID, prof.ImageURL, prof.BlackBeltDate,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return professor.Professor{}, professor.ErrCPFExists
		}
		return professor.Professor{}, errors.Wrap(err, "inserting professor")
	}
	prof.ID = id
	return prof, nil
}

func (repo professorRepository) QueryProfessors(ctx context.Context, filter *professor.QueryFilter, ordering []core.DBOrdering, exec ...core.DBExecutor) ([]professor.Professor, error) {
	var conds conditions
	if filter != nil {
		conds.search(filter.Search, "name", "cpf", "registration")
		if filter.AcademyID != 0 {
			conds.add("academy_id = ?", filter.AcademyID)
		}
	}

	profs := make([]professor.Professor, 0)
	q := "SELECT * FROM professors" + conds.String() + orderBy(ordering, core.DBOrdering{Field: "name", Ascending: true})
	if err := selectAll(ctx, repo.getExec(exec), &profs, q, conds.args...); err != nil {
		return nil, errors.Wrap(err, "querying professors")
	}
	return profs, nil
}

func (repo professorRepository) GetProfessor(ctx context.Context, filter professor.GetFilter, exec ...core.DBExecutor) (professor.Professor, error) {
	var conds conditions
	switch {
	case filter.ID != 0:
		conds.add("id = ?", filter.ID)
	case filter.CPF != "":
		conds.add("cpf = ?", filter.CPF)
	default:
		return professor.Professor{}, professor.ErrNotFound
	}

	var prof professor.Professor
	if err := get(ctx, repo.getExec(exec), &prof, "SELECT * FROM professors"+conds.String(), conds.args...); err != nil {
		return professor.Professor{}, trapNoRowsErr(err, professor.ErrNotFound, "getting professor")
	}
	return prof, nil
}

func (repo professorRepository) UpdateProfessor(ctx context.Context, prof professor.Professor, exec ...core.DBExecutor) (professor.Professor, error) {
	err := execute(ctx, repo.getExec(exec),
		`UPDATE professors SET name = ?, registration = ?, cpf = ?, academy_id = ?, graduation_id = ?, image_url = ?,
		black_belt_date = ? WHERE id = ?`,
		prof.Name, prof.Registration, prof.CPF, prof.AcademyID, prof.GraduationID, prof.ImageURL, prof.BlackBeltDate, prof.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return professor.Professor{}, professor.ErrCPFExists
		}
		return professor.Professor{}, errors.Wrap(err, "updating professor")
	}
	return prof, nil
}

func (repo professorRepository) DeleteProfessor(ctx context.Context, id int, exec ...core.DBExecutor) error {
	if err := execute(ctx, repo.getExec(exec), "DELETE FROM professors WHERE id = ?", id); err != nil {
		return errors.Wrap(err, "deleting professor")
	}
	return nil
}

func (repo professorRepository) CPFExists(ctx context.Context, cpf string, excludeID int, exec ...core.DBExecutor) (bool, error) {
	return exists(ctx, repo.getExec(exec), "SELECT 1 FROM professors WHERE cpf = ? AND id <> ?", cpf, excludeID)
}
