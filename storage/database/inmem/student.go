package inmemdb

import (
	"context"

	"github.com/tatame-app/tatame/core"
	"github.com/tatame-app/tatame/core/student"
)

type studentRepository struct {
	db *DB
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db *DB) *studentRepository {
	return &studentRepository{db: db}
}

func studentColumn(s student.Student, name string) interface{} {
	switch name {
	case "id":
		return s.ID
	case "name":
		return s.Name
	case "registration":
		return s.Registration
	case "payment_status":
		return s.PaymentStatus
	case "payment_due_date_day":
		return s.PaymentDueDateDay
	case "first_graduation_date":
		return s.FirstGraduationDate
	case "created_at":
		return s.CreatedAt
	}
	return nil
}

func (repo *studentRepository) cpfTaken(cpf string, excludeID int) bool {
	for _, s := range repo.db.students {
		if s.CPF == cpf && s.ID != excludeID {
			return true
		}
	}
	return false
}

func (repo *studentRepository) CreateStudent(_ context.Context, stu student.Student, _ ...core.DBExecutor) (student.Student, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if repo.cpfTaken(stu.CPF, 0) {
		return student.Student{}, student.ErrCPFExists
	}
	stu.ID = repo.db.nextID("students")
	stu.BeltProgress = nil
	repo.db.students[stu.ID] = stu
	return stu, nil
}

func (repo *studentRepository) QueryStudents(_ context.Context, filter *student.QueryFilter, ordering []core.DBOrdering, _ ...core.DBExecutor) ([]student.Student, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	students := make([]student.Student, 0, len(repo.db.students))
	for _, s := range repo.db.students {
		if filter != nil {
			if !contains(filter.Search, s.Name, s.Email, s.CPF, s.Registration) {
				continue
			}
			if filter.AcademyID != 0 && (!s.AcademyID.Valid || s.AcademyID.Int != filter.AcademyID) {
				continue
			}
			if filter.BeltID != 0 && (!s.BeltID.Valid || s.BeltID.Int != filter.BeltID) {
				continue
			}
			if filter.PaymentStatus != "" && s.PaymentStatus != filter.PaymentStatus {
				continue
			}
			if filter.Competitor != nil && s.Competitor != *filter.Competitor {
				continue
			}
		}
		students = append(students, s)
	}
	if len(ordering) == 0 {
		ordering = []core.DBOrdering{{Field: "name", Ascending: true}}
	}
	sortRows(students, ordering, studentColumn)
	return students, nil
}

func (repo *studentRepository) GetStudent(_ context.Context, filter student.GetFilter, _ ...core.DBExecutor) (student.Student, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, s := range repo.db.students {
		if (filter.ID != 0 && s.ID == filter.ID) || (filter.ID == 0 && filter.CPF != "" && s.CPF == filter.CPF) {
			return s, nil
		}
	}
	return student.Student{}, student.ErrNotFound
}

func (repo *studentRepository) UpdateStudent(_ context.Context, stu student.Student, _ ...core.DBExecutor) (student.Student, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.students[stu.ID]; !ok {
		return student.Student{}, student.ErrNotFound
	}
	if repo.cpfTaken(stu.CPF, stu.ID) {
		return student.Student{}, student.ErrCPFExists
	}
	stu.BeltProgress = nil
	repo.db.students[stu.ID] = stu
	return stu, nil
}

func (repo *studentRepository) DeleteStudent(_ context.Context, id int, _ ...core.DBExecutor) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()
	repo.db.deleteStudent(id)
	return nil
}

func (repo *studentRepository) CPFExists(_ context.Context, cpf string, excludeID int, _ ...core.DBExecutor) (bool, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return repo.cpfTaken(cpf, excludeID), nil
}
