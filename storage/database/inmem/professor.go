package inmemdb

import (
	"context"

	"github.com/tatame-app/tatame/core"
	"github.com/tatame-app/tatame/core/professor"
)

type professorRepository struct {
	db *DB
}

var _ professor.Repository = (*professorRepository)(nil) // interface compliance check

func NewProfessorRepository(db *DB) *professorRepository {
	return &professorRepository{db: db}
}

func professorColumn(p professor.Professor, name string) interface{} {
	switch name {
	case "id":
		return p.ID
	case "name":
		return p.Name
	case "registration":
		return p.Registration
	case "black_belt_date":
		return p.BlackBeltDate
	}
	return nil
}

func (repo *professorRepository) cpfTaken(cpf string, excludeID int) bool {
	for _, p := range repo.db.professors {
		if p.CPF == cpf && p.ID != excludeID {
			return true
		}
	}
	return false
}

func (repo *professorRepository) CreateProfessor(_ context.Context, prof professor.Professor, _ ...core.DBExecutor) (professor.Professor, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if repo.cpfTaken(prof.CPF, 0) {
		return professor.Professor{}, professor.ErrCPFExists
	}
	prof.ID = repo.db.nextID("professors")
	repo.db.professors[prof.ID] = prof
	return prof, nil
}

func (repo *professorRepository) QueryProfessors(_ context.Context, filter *professor.QueryFilter, ordering []core.DBOrdering, _ ...core.DBExecutor) ([]professor.Professor, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	profs := make([]professor.Professor, 0, len(repo.db.professors))
	for _, p := range repo.db.professors {
		if filter != nil {
			if !contains(filter.Search, p.Name, p.CPF, p.Registration) {
				continue
			}
			if filter.AcademyID != 0 && (!p.AcademyID.Valid || p.AcademyID.Int != filter.AcademyID) {
				continue
			}
		}
		profs = append(profs, p)
	}
	if len(ordering) == 0 {
		ordering = []core.DBOrdering{{Field: "name", Ascending: true}}
	}
	sortRows(profs, ordering, professorColumn)
	return profs, nil
}

func (repo *professorRepository) GetProfessor(_ context.Context, filter professor.GetFilter, _ ...core.DBExecutor) (professor.Professor, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, p := range repo.db.professors {
		if (filter.ID != 0 && p.ID == filter.ID) || (filter.ID == 0 && filter.CPF != "" && p.CPF == filter.CPF) {
			return p, nil
		}
	}
	return professor.Professor{}, professor.ErrNotFound
}

func (repo *professorRepository) UpdateProfessor(_ context.Context, prof professor.Professor, _ ...core.DBExecutor) (professor.Professor, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.professors[prof.ID]; !ok {
		return professor.Professor{}, professor.ErrNotFound
	}
	if repo.cpfTaken(prof.CPF, prof.ID) {
		return professor.Professor{}, professor.ErrCPFExists
	}
	repo.db.professors[prof.ID] = prof
	return prof, nil
}

func (repo *professorRepository) DeleteProfessor(_ context.Context, id int, _ ...core.DBExecutor) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()
	repo.db.deleteProfessor(id)
	return nil
}

func (repo *professorRepository) CPFExists(_ context.Context, cpf string, excludeID int, _ ...core.DBExecutor) (bool, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return repo.cpfTaken(cpf, excludeID), nil
}
