package sqlxrepos

import (
	"context"

	"github.com/pkg/errors"

	"github.com/tatame-app/tatame/core"
	"github.com/tatame-app/tatame/core/student"
)

const studentColumns = "name, email, password_hash, birth_date, cpf, registration, phone, address, belt_id, " +
	"academy_id, first_graduation_date, payment_status, payment_due_date_day, stripes, competitor, " +
	"gold_medals, silver_medals, bronze_medals, image_url, created_at, updated_at"

type studentRepository struct {
	repository
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(exec core.DBExecutor) *studentRepository {
	return &studentRepository{repository{exec: exec}}
}

func studentArgs(s student.Student) []interface{} {
	return []interface{}{
		s.Name, s.Email, s.PasswordHash, s.BirthDate, s.CPF, s.Registration, s.Phone, s.Address, s.BeltID,
		s.AcademyID, s.FirstGraduationDate, s.PaymentStatus, s.PaymentDueDateDay, s.Stripes, s.Competitor,
		s.Gold, s.Silver, s.Bronze, s.ImageURL, s.CreatedAt.UTC(), s.UpdatedAt.UTC(),
	}
}

func (repo studentRepository) CreateStudent(ctx context.Context, stu student.Student, exec ...core.DBExecutor) (student.Student, error) {
	id, err := insert(ctx, repo.getExec(exec),
		"INSERT INTO students ("+studentColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		studentArgs(stu)...,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return student.Student{}, student.ErrCPFExists
		}
		return student.Student{}, errors.Wrap(err, "inserting student")
	}
	stu.ID = id
	return stu, nil
}

func (repo studentRepository) QueryStudents(ctx context.Context, filter *student.QueryFilter, ordering []core.DBOrdering, exec ...core.DBExecutor) ([]student.Student, error) {
	var conds conditions
	if filter != nil {
		conds.search(filter.Search, "name", "email", "cpf", "registration")
		if filter.AcademyID != 0 {
			conds.add("academy_id = ?", filter.AcademyID)
		}
		if filter.BeltID != 0 {
			conds.add("belt_id = ?", filter.BeltID)
		}
		if filter.PaymentStatus != "" {
			conds.add("payment_status = ?", filter.PaymentStatus)
		}
		if filter.Competitor != nil {
			conds.add("competitor = ?", *filter.Competitor)
		}
	}

	students := make([]student.Student, 0)
	q := "SELECT * FROM students" + conds.String() + orderBy(ordering, core.DBOrdering{Field: "name", Ascending: true})
	if err := selectAll(ctx, repo.getExec(exec), &students, q, conds.args...); err != nil {
		return nil, errors.Wrap(err, "querying students")
	}
	return students, nil
}

func (repo studentRepository) GetStudent(ctx context.Context, filter student.GetFilter, exec ...core.DBExecutor) (student.Student, error) {
	var conds conditions
	switch {
	case filter.ID != 0:
		conds.add("id = ?", filter.ID)
	case filter.CPF != "":
		conds.add("cpf = ?", filter.CPF)
	default:
		return student.Student{}, student.ErrNotFound
	}

	var stu student.Student
	if err := get(ctx, repo.getExec(exec), &stu, "SELECT * FROM students"+conds.String(), conds.args...); err != nil {
		return student.Student{}, trapNoRowsErr(err, student.ErrNotFound, "getting student")
	}
	return stu, nil
}

func (repo studentRepository) UpdateStudent(ctx context.Context, stu student.Student, exec ...core.DBExecutor) (student.Student, error) {
	err := execute(ctx, repo.getExec(exec),
		`UPDATE students SET name = ?, email = ?, password_hash = ?, birth_date = ?, cpf = ?, registration = ?,
		phone = ?, address = ?, belt_id = ?, academy_id = ?, first_graduation_date = ?, payment_status = ?,
		payment_due_date_day = ?, stripes = ?, competitor = ?, gold_medals = ?, silver_medals = ?,
		bronze_medals = ?, image_url = ?, created_at = ?, updated_at = ? WHERE id = ?`,
		append(studentArgs(stu), stu.ID)...,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return student.Student{}, student.ErrCPFExists
		}
		return student.Student{}, errors.Wrap(err, "updating student")
	}
	return stu, nil
}

func (repo studentRepository) DeleteStudent(ctx context.Context, id int, exec ...core.DBExecutor) error {
	if err := execute(ctx, repo.getExec(exec), "DELETE FROM students WHERE id = ?", id); err != nil {
		return errors.Wrap(err, "deleting student")
	}
	return nil
}

func (repo studentRepository) CPFExists(ctx context.Context, cpf string, excludeID int, exec ...core.DBExecutor) (bool, error) {
	return exists(ctx, repo.getExec(exec), "SELECT 1 FROM students WHERE cpf = ? AND id <> ?", cpf, excludeID)
}
