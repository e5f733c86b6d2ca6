package student

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/tatame-app/tatame/core"
	"github.com/tatame-app/tatame/core/academy"
	"github.com/tatame-app/tatame/core/activity"
	"github.com/tatame-app/tatame/core/graduation"
	"github.com/tatame-app/tatame/core/payment"
	"github.com/tatame-app/tatame/core/professor"
	"github.com/tatame-app/tatame/core/settings"
	"github.com/tatame-app/tatame/core/user"
)

var (
	// errors
	ErrNotFound  = errors.New("student not found")
	ErrCPFExists = errors.New("a student with this CPF already exists")
)

type (
	Repository interface {
		CreateStudent(ctx context.Context, stu Student, exec ...core.DBExecutor) (Student, error)
		QueryStudents(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering, exec ...core.DBExecutor) ([]Student, error)
		GetStudent(ctx context.Context, filter GetFilter, exec ...core.DBExecutor) (Student, error)
		UpdateStudent(ctx context.Context, stu Student, exec ...core.DBExecutor) (Student, error)
		DeleteStudent(ctx context.Context, id int, exec ...core.DBExecutor) error
		// CPFExists ignores the student with ID excludeID.
		CPFExists(ctx context.Context, cpf string, excludeID int, exec ...core.DBExecutor) (bool, error)
	}

	// Deps groups the collaborators of the student Service.
	Deps struct {
		DB           core.Transactor
		Repo         Repository
		UserRepo     user.Repository
		AcademyRepo  academy.Repository
		GradRepo     graduation.Repository
		ProfRepo     professor.Repository
		PaymentSvc   *payment.Service
		SettingsRepo settings.Repository
		LogSvc       *activity.Service
		Validate     *validator.Validate
	}

	Service struct {
		Deps
		usrSvc *user.Service
	}
)

func NewService(deps Deps) *Service {
	return &Service{
		Deps:   deps,
		usrSvc: user.NewService(deps.UserRepo, deps.Validate),
	}
}

func (svc *Service) gradIndex(ctx context.Context) (graduation.Index, error) {
	grads, err := svc.GradRepo.QueryGraduations(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "querying graduations")
	}
	return graduation.NewIndex(grads), nil
}

// withProgress fills the derived BeltProgress of every student holding a known belt.
func withProgress(students []Student, idx graduation.Index, today core.Date) {
	for i := range students {
		s := &students[i]
		if !s.BeltID.Valid {
			continue
		}
		if g, ok := idx[s.BeltID.Int]; ok {
			p := graduation.ComputeProgress(s.FirstGraduationDate, g, today)
			s.BeltProgress = &p
		}
	}
}

func (svc *Service) Query(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Student, error) {
	students, err := svc.Repo.QueryStudents(ctx, filter, ordering)
	if err != nil {
		return nil, errors.Wrap(err, "querying students")
	}
	idx, err := svc.gradIndex(ctx)
	if err != nil {
		return nil, err
	}
	withProgress(students, idx, core.Today())
	return students, nil
}

func (svc *Service) GetByID(ctx context.Context, id int) (Student, error) {
	stu, err := svc.Repo.GetStudent(ctx, GetFilter{ID: id})
	if err != nil {
		return Student{}, err
	}
	idx, err := svc.gradIndex(ctx)
	if err != nil {
		return Student{}, err
	}
	students := []Student{stu}
	withProgress(students, idx, core.Today())
	return students[0], nil
}

func (svc *Service) GetByCPF(ctx context.Context, cpf string) (Student, error) {
	return svc.Repo.GetStudent(ctx, GetFilter{CPF: core.OnlyDigits(cpf)})
}

// QueryEligible lists the students of an academy whose belt meets the required graduation.
func (svc *Service) QueryEligible(ctx context.Context, academyID int, requiredGraduationID null.Int) ([]Student, error) {
	students, err := svc.Repo.QueryStudents(ctx, &QueryFilter{AcademyID: academyID}, nil)
	if err != nil {
		return nil, errors.Wrap(err, "querying students")
	}
	idx, err := svc.gradIndex(ctx)
	if err != nil {
		return nil, err
	}

	eligible := make([]Student, 0, len(students))
	for _, s := range students {
		if idx.Eligible(s.BeltID, requiredGraduationID) {
			eligible = append(eligible, s)
		}
	}
	withProgress(eligible, idx, core.Today())
	return eligible, nil
}

// checkRefs validates uniqueness and references of a student being saved.
func (svc *Service) checkRefs(ctx context.Context, id, userID int, email, cpf string, beltID, academyID null.Int) error {
	if err := svc.usrSvc.CheckEmail(ctx, "email", email, userID); err != nil {
		return err
	}
	exists, err := svc.Repo.CPFExists(ctx, cpf, id)
	if err != nil {
		return errors.Wrap(err, "checking CPF uniqueness")
	}
	if exists {
		return core.NewValidationError(ErrCPFExists, core.FieldError{Field: "cpf", Error: ErrCPFExists.Error()})
	}
	if beltID.Valid {
		if _, err := svc.GradRepo.GetGraduation(ctx, beltID.Int); err != nil {
			if errors.Cause(err) == graduation.ErrNotFound {
				return core.NewFieldError("beltId", "graduation does not exist")
			}
			return errors.Wrap(err, "getting belt")
		}
	}
	if academyID.Valid {
		if _, err := svc.AcademyRepo.GetAcademy(ctx, academy.GetFilter{ID: academyID.Int}); err != nil {
			if errors.Cause(err) == academy.ErrNotFound {
				return core.NewFieldError("academyId", "academy does not exist")
			}
			return errors.Wrap(err, "getting academy")
		}
	}
	return nil
}

// Create stores a new student together with its student user.
func (svc *Service) Create(ctx context.Context, actorID int, ns NewStudent) (Student, error) {
	ns.Clean()
	if err := svc.Validate.Struct(ns); err != nil {
		return Student{}, err
	}
	if err := svc.checkRefs(ctx, 0, 0, ns.Email, ns.CPF, ns.BeltID, ns.AcademyID); err != nil {
		return Student{}, err
	}

	now := core.NowFunc().UTC()
	stu := fromInput(Student{CreatedAt: now}, ns)
	stu.UpdatedAt = now
	if err := stu.SetPassword(ns.Password); err != nil {
		return Student{}, errors.Wrap(err, "hashing password")
	}

	err := svc.DB.WithinTx(ctx, func(exec core.DBExecutor) error {
		var err error
		if stu, err = svc.Repo.CreateStudent(ctx, stu, exec); err != nil {
			return errors.Wrap(err, "creating student")
		}
		_, err = svc.UserRepo.CreateUser(ctx, user.User{
			Name:      stu.Name,
			Email:     stu.Email,
			Role:      user.RoleStudent,
			AcademyID: stu.AcademyID,
			StudentID: null.IntFrom(stu.ID),
			CreatedAt: now,
			UpdatedAt: now,
		}, exec)
		if err != nil {
			return errors.Wrap(err, "creating student user")
		}
		if err := svc.afterSave(ctx, actorID, Student{PaymentStatus: PaymentUnpaid}, stu, exec); err != nil {
			return err
		}
		return svc.LogSvc.Record(ctx, actorID, activity.ActionStudentCreated, "student "+stu.Name, exec)
	})
	if err != nil {
		return Student{}, err
	}
	return svc.GetByID(ctx, stu.ID)
}

// Update modifies a student and keeps its user in sync.
// Side effects: a payment is appended when the status turns paid; reaching the black belt
// creates the matching professor.
func (svc *Service) Update(ctx context.Context, actorID, id int, us UpdateStudent) (Student, error) {
	orig, err := svc.Repo.GetStudent(ctx, GetFilter{ID: id})
	if err != nil {
		return Student{}, err
	}
	us.Clean(orig)
	if err := svc.Validate.Struct(us); err != nil {
		return Student{}, err
	}

	usr, err := svc.UserRepo.GetUser(ctx, user.GetFilter{StudentID: id})
	hasUser := err == nil
	if err != nil && errors.Cause(err) != user.ErrNotFound {
		return Student{}, errors.Wrap(err, "finding student user")
	}
	if err := svc.checkRefs(ctx, id, usr.ID, us.Email, us.CPF, us.BeltID, us.AcademyID); err != nil {
		return Student{}, err
	}

	now := core.NowFunc().UTC()
	stu := fromInput(orig, NewStudent(us))
	stu.UpdatedAt = now
	if us.Password != "" {
		if err := stu.SetPassword(us.Password); err != nil {
			return Student{}, errors.Wrap(err, "hashing password")
		}
	}

	err = svc.DB.WithinTx(ctx, func(exec core.DBExecutor) error {
		var err error
		if stu, err = svc.Repo.UpdateStudent(ctx, stu, exec); err != nil {
			return errors.Wrap(err, "updating student")
		}

		usr.Name = stu.Name
		usr.Email = stu.Email
		usr.AcademyID = stu.AcademyID
		usr.UpdatedAt = now
		if hasUser {
			_, err = svc.UserRepo.UpdateUser(ctx, usr, exec)
		} else {
			usr.Role = user.RoleStudent
			usr.StudentID = null.IntFrom(stu.ID)
			usr.CreatedAt = now
			_, err = svc.UserRepo.CreateUser(ctx, usr, exec)
		}
		if err != nil {
			return errors.Wrap(err, "saving student user")
		}

		if err := svc.afterSave(ctx, actorID, orig, stu, exec); err != nil {
			return err
		}
		return svc.LogSvc.Record(ctx, actorID, activity.ActionStudentUpdated, "student "+stu.Name, exec)
	})
	if err != nil {
		return Student{}, err
	}
	return svc.GetByID(ctx, id)
}

// afterSave applies the payment and black belt side effects of moving from prev to stu.
func (svc *Service) afterSave(ctx context.Context, actorID int, prev, stu Student, exec core.DBExecutor) error {
	if !prev.IsPaid() && stu.IsPaid() {
		ts, err := svc.SettingsRepo.GetSettings(ctx, exec)
		if err != nil {
			return errors.Wrap(err, "getting settings")
		}
		pay, err := svc.PaymentSvc.Register(ctx, stu.ID, ts.MonthlyFeeAmount, exec)
		if err != nil {
			return errors.Wrap(err, "registering payment")
		}
		details := fmt.Sprintf("student %s paid %.2f on %s", stu.Name, pay.Amount, pay.Date)
		if err := svc.LogSvc.Record(ctx, actorID, activity.ActionPaymentRegistered, details, exec); err != nil {
			return err
		}
	}
	return svc.promoteBlackBelt(ctx, actorID, prev, stu, exec)
}

// promoteBlackBelt creates a professor for a student whose belt changed to the black belt,
// unless one with the same CPF already exists.
func (svc *Service) promoteBlackBelt(ctx context.Context, actorID int, prev, stu Student, exec core.DBExecutor) error {
	if !stu.BeltID.Valid || stu.BeltID == prev.BeltID {
		return nil
	}
	belt, err := svc.GradRepo.GetGraduation(ctx, stu.BeltID.Int, exec)
	if err != nil {
		return errors.Wrap(err, "getting belt")
	}
	if !belt.IsBlackBelt() {
		return nil
	}

	_, err = svc.ProfRepo.GetProfessor(ctx, professor.GetFilter{CPF: stu.CPF}, exec)
	if err == nil {
		return nil
	}
	if errors.Cause(err) != professor.ErrNotFound {
		return errors.Wrap(err, "finding professor by CPF")
	}

	prof, err := svc.ProfRepo.CreateProfessor(ctx, professor.Professor{
		Name:          stu.Name,
		Registration:  stu.Registration,
		CPF:           stu.CPF,
		AcademyID:     stu.AcademyID,
		GraduationID:  stu.BeltID,
		ImageURL:      stu.ImageURL,
		BlackBeltDate: core.Today(),
	}, exec)
	if err != nil {
		return errors.Wrap(err, "creating professor")
	}
	details := fmt.Sprintf("student %s promoted to professor #%d", stu.Name, prof.ID)
	return svc.LogSvc.Record(ctx, actorID, activity.ActionProfessorAutoCreate, details, exec)
}

// Delete removes a student and its user. Attendance and payments go with it.
func (svc *Service) Delete(ctx context.Context, actorID, id int) error {
	stu, err := svc.Repo.GetStudent(ctx, GetFilter{ID: id})
	if err != nil {
		return err
	}
	return svc.DB.WithinTx(ctx, func(exec core.DBExecutor) error {
		if err := svc.UserRepo.DeleteUsers(ctx, user.DeleteFilter{StudentID: id}, exec); err != nil {
			return errors.Wrap(err, "deleting student user")
		}
		if err := svc.Repo.DeleteStudent(ctx, id, exec); err != nil {
			return errors.Wrap(err, "deleting student")
		}
		return svc.LogSvc.Record(ctx, actorID, activity.ActionStudentDeleted, "student "+stu.Name, exec)
	})
}

// SetPassword replaces the student password.
func (svc *Service) SetPassword(ctx context.Context, id int, pwd string) error {
	stu, err := svc.Repo.GetStudent(ctx, GetFilter{ID: id})
	if err != nil {
		return err
	}
	if err := stu.SetPassword(pwd); err != nil {
		return errors.Wrap(err, "hashing password")
	}
	stu.UpdatedAt = core.NowFunc().UTC()
	_, err = svc.Repo.UpdateStudent(ctx, stu)
	return err
}

// fromInput overwrites the editable fields of base with ns.
func fromInput(base Student, ns NewStudent) Student {
	base.Name = ns.Name
	base.Email = ns.Email
	base.BirthDate = ns.BirthDate
	base.CPF = ns.CPF
	base.Registration = ns.Registration
	base.Phone = ns.Phone
	base.Address = ns.Address
	base.BeltID = ns.BeltID
	base.AcademyID = ns.AcademyID
	base.FirstGraduationDate = ns.FirstGraduationDate
	base.PaymentStatus = ns.PaymentStatus
	base.PaymentDueDateDay = ns.PaymentDueDateDay
	base.Stripes = ns.Stripes
	base.Competitor = ns.Competitor
	base.Medals = ns.Medals
	base.ImageURL = ns.ImageURL
	base.BeltProgress = nil
	return base
}
