// Package testutil builds in-memory environments and fixtures for tests.
package testutil

import (
	"context"
	"testing"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/tatame-app/tatame/apps/di"
	"github.com/tatame-app/tatame/core"
	"github.com/tatame-app/tatame/core/academy"
	"github.com/tatame-app/tatame/core/graduation"
	"github.com/tatame-app/tatame/core/professor"
	"github.com/tatame-app/tatame/core/schedule"
	"github.com/tatame-app/tatame/core/student"
	"github.com/tatame-app/tatame/core/user"
	inmemdb "github.com/tatame-app/tatame/storage/database/inmem"
)

// Env is a complete application backed by the in-memory engine.
type Env struct {
	Conf       *core.Config
	DB         *inmemdb.DB
	Validate   *validator.Validate
	Translator ut.Translator
	Repos      di.Repositories
	Svcs       di.Services
}

func NewEnv() *Env {
	conf := core.NewTestConfig()
	db := inmemdb.NewDB()
	validate, translator := di.NewValidation()
	repos := di.NewMemRepositories(db)
	return &Env{
		Conf:       conf,
		DB:         db,
		Validate:   validate,
		Translator: translator,
		Repos:      repos,
		Svcs:       di.NewServices(repos, validate, conf),
	}
}

func CreateAdmin(t *testing.T, env *Env, name, email, pwd string) user.User {
	t.Helper()
	usr, err := env.Svcs.User.SaveAdmin(context.Background(), user.NewAdmin{Name: name, Email: email, Password: pwd})
	if err != nil {
		t.Fatalf("CreateAdmin() failed: %v", err)
	}
	return usr
}

// CreateAcademy returns the academy and its academy admin.
func CreateAcademy(t *testing.T, env *Env, name, email, pwd string) (academy.Academy, user.User) {
	t.Helper()
	acad, admin, err := env.Svcs.Academy.Create(context.Background(), 0, academy.NewAcademy{
		Name:        name,
		Responsible: "Mestre " + name,
		Email:       email,
		Password:    pwd,
	})
	if err != nil {
		t.Fatalf("CreateAcademy() failed: %v", err)
	}
	return acad, admin
}

func CreateGraduation(t *testing.T, env *Env, name string, rank, minMonths int) graduation.Graduation {
	t.Helper()
	grad, err := env.Svcs.Graduation.Create(context.Background(), 0, graduation.NewGraduation{
		Name:            name,
		Color:           name,
		MinTimeInMonths: minMonths,
		Rank:            rank,
		Type:            graduation.TypeAdult,
	})
	if err != nil {
		t.Fatalf("CreateGraduation() failed: %v", err)
	}
	return grad
}

// NewStudent returns a valid student input; callers adjust it before CreateStudent.
func NewStudent(name, email, cpf string, academyID int) student.NewStudent {
	return student.NewStudent{
		Name:              name,
		Email:             email,
		Password:          "S3cret!pass",
		CPF:               cpf,
		AcademyID:         null.NewInt(academyID, academyID > 0),
		PaymentStatus:     student.PaymentUnpaid,
		PaymentDueDateDay: 10,
	}
}

func CreateStudent(t *testing.T, env *Env, ns student.NewStudent) student.Student {
	t.Helper()
	stu, err := env.Svcs.Student.Create(context.Background(), 0, ns)
	if err != nil {
		t.Fatalf("CreateStudent() failed: %v", err)
	}
	return stu
}

func CreateProfessor(t *testing.T, env *Env, name, cpf string, academyID int) professor.Professor {
	t.Helper()
	prof, err := env.Svcs.Professor.Create(context.Background(), 0, professor.NewProfessor{
		Name:      name,
		CPF:       cpf,
		AcademyID: null.NewInt(academyID, academyID > 0),
	})
	if err != nil {
		t.Fatalf("CreateProfessor() failed: %v", err)
	}
	return prof
}

func CreateSchedule(t *testing.T, env *Env, className string, academyID, dayOfWeek int, requiredGraduationID null.Int) schedule.ClassSchedule {
	t.Helper()
	cs, err := env.Svcs.Schedule.Create(context.Background(), 0, schedule.NewSchedule{
		ClassName:            className,
		DayOfWeek:            dayOfWeek,
		StartTime:            "19:00",
		EndTime:              "20:30",
		AcademyID:            academyID,
		RequiredGraduationID: requiredGraduationID,
	})
	if err != nil {
		t.Fatalf("CreateSchedule() failed: %v", err)
	}
	return cs
}
