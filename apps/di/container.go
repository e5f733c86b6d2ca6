// Package di wires the repositories and services of the application by hand.
package di

import (
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"

	"github.com/tatame-app/tatame/core"
	"github.com/tatame-app/tatame/core/academy"
	"github.com/tatame-app/tatame/core/activity"
	"github.com/tatame-app/tatame/core/attendance"
	"github.com/tatame-app/tatame/core/auth"
	"github.com/tatame-app/tatame/core/dashboard"
	"github.com/tatame-app/tatame/core/finance"
	"github.com/tatame-app/tatame/core/graduation"
	"github.com/tatame-app/tatame/core/news"
	"github.com/tatame-app/tatame/core/payment"
	"github.com/tatame-app/tatame/core/professor"
	"github.com/tatame-app/tatame/core/schedule"
	"github.com/tatame-app/tatame/core/settings"
	"github.com/tatame-app/tatame/core/student"
	"github.com/tatame-app/tatame/core/user"
	"github.com/tatame-app/tatame/storage/database"
	inmemdb "github.com/tatame-app/tatame/storage/database/inmem"
	sqlxrepos "github.com/tatame-app/tatame/storage/database/sqlx"
)

type Repositories struct {
	Tx         core.Transactor
	User       user.Repository
	Academy    academy.Repository
	Student    student.Repository
	Professor  professor.Repository
	Graduation graduation.Repository
	Schedule   schedule.Repository
	Attendance attendance.Repository
	Payment    payment.Repository
	Settings   settings.Repository
	Activity   activity.Repository
	News       news.Repository
}

// NewSQLRepositories returns the repositories backed by db.
func NewSQLRepositories(db *sqlx.DB) Repositories {
	return Repositories{
		Tx:         database.NewTransactor(db),
		User:       sqlxrepos.NewUserRepository(db),
		Academy:    sqlxrepos.NewAcademyRepository(db),
		Student:    sqlxrepos.NewStudentRepository(db),
		Professor:  sqlxrepos.NewProfessorRepository(db),
		Graduation: sqlxrepos.NewGraduationRepository(db),
		Schedule:   sqlxrepos.NewScheduleRepository(db),
		Attendance: sqlxrepos.NewAttendanceRepository(db),
		Payment:    sqlxrepos.NewPaymentRepository(db),
		Settings:   sqlxrepos.NewSettingsRepository(db),
		Activity:   sqlxrepos.NewActivityRepository(db),
		News:       sqlxrepos.NewNewsRepository(db),
	}
}

// NewMemRepositories returns the repositories backed by the in-memory db.
func NewMemRepositories(db *inmemdb.DB) Repositories {
	return Repositories{
		Tx:         db,
		User:       inmemdb.NewUserRepository(db),
		Academy:    inmemdb.NewAcademyRepository(db),
		Student:    inmemdb.NewStudentRepository(db),
		Professor:  inmemdb.NewProfessorRepository(db),
		Graduation: inmemdb.NewGraduationRepository(db),
		Schedule:   inmemdb.NewScheduleRepository(db),
		Attendance: inmemdb.NewAttendanceRepository(db),
		Payment:    inmemdb.NewPaymentRepository(db),
		Settings:   inmemdb.NewSettingsRepository(db),
		Activity:   inmemdb.NewActivityRepository(db),
		News:       inmemdb.NewNewsRepository(db),
	}
}

type Services struct {
	User       *user.Service
	Activity   *activity.Service
	Settings   *settings.Service
	Payment    *payment.Service
	News       *news.Service
	Professor  *professor.Service
	Academy    *academy.Service
	Graduation *graduation.Service
	Schedule   *schedule.Service
	Attendance *attendance.Service
	Student    *student.Service
	Finance    *finance.Service
	Dashboard  *dashboard.Service
	Auth       *auth.Service
}

func NewServices(repos Repositories, validate *validator.Validate, conf *core.Config) Services {
	var svcs Services
	svcs.User = user.NewService(repos.User, validate)
	svcs.Activity = activity.NewService(repos.Activity)
	svcs.Settings = settings.NewService(repos.Tx, repos.Settings, svcs.Activity, validate)
	svcs.Payment = payment.NewService(repos.Payment)
	svcs.News = news.NewService(repos.News)
	svcs.Professor = professor.NewService(repos.Tx, repos.Professor, svcs.Activity, validate)
	svcs.Academy = academy.NewService(repos.Tx, repos.Academy, repos.User, svcs.Activity, validate)
	svcs.Graduation = graduation.NewService(repos.Tx, repos.Graduation, svcs.Activity, validate)
	svcs.Schedule = schedule.NewService(repos.Tx, repos.Schedule, svcs.Activity, validate)
	svcs.Attendance = attendance.NewService(repos.Tx, repos.Attendance, svcs.Activity, validate)
	svcs.Student = student.NewService(student.Deps{
		DB:           repos.Tx,
		Repo:         repos.Student,
		UserRepo:     repos.User,
		AcademyRepo:  repos.Academy,
		GradRepo:     repos.Graduation,
		ProfRepo:     repos.Professor,
		PaymentSvc:   svcs.Payment,
		SettingsRepo: repos.Settings,
		LogSvc:       svcs.Activity,
		Validate:     validate,
	})
	svcs.Finance = finance.NewService(svcs.Student, repos.Settings)
	svcs.Dashboard = dashboard.NewService(svcs.Student, svcs.Academy, svcs.Professor, svcs.Schedule, svcs.Finance)
	svcs.Auth = auth.NewService(repos.User, repos.Student, repos.Academy, svcs.Academy, validate, conf.Server.RefreshTokenTTL)
	return svcs
}

func NewTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}

// NewValidation returns a validator carrying every custom rule and translation of the domain.
func NewValidation() (*validator.Validate, ut.Translator) {
	validate := validator.New()
	translator := NewTranslator()
	core.InitValidators(validate, translator)
	academy.InitValidators(validate)
	graduation.InitValidators(validate, translator)
	schedule.InitValidators(validate, translator)
	student.InitValidators(validate, translator)
	return validate, translator
}
