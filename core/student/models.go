package student

import (
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/tatame-app/tatame/core"
	"github.com/tatame-app/tatame/core/graduation"
)

// Payment statuses
const (
	PaymentPaid   = "paid"
	PaymentUnpaid = "unpaid"
)

const (
	MaxStripes        = 4
	defaultPaymentDay = 10
)

type Medals struct {
	Gold   int `json:"gold" db:"gold_medals"`
	Silver int `json:"silver" db:"silver_medals"`
	Bronze int `json:"bronze" db:"bronze_medals"`
}

type Student struct {
	ID                  int       `json:"id" db:"id"`
	Name                string    `json:"name" db:"name"`
	Email               string    `json:"email" db:"email"`
	PasswordHash        []byte    `json:"-" db:"password_hash"`
	BirthDate           core.Date `json:"birthDate" db:"birth_date"`
	CPF                 string    `json:"cpf" db:"cpf"`
	Registration        string    `json:"registration" db:"registration"`
	Phone               string    `json:"phone" db:"phone"`
	Address             string    `json:"address" db:"address"`
	BeltID              null.Int  `json:"beltId" db:"belt_id"`
	AcademyID           null.Int  `json:"academyId" db:"academy_id"`
	FirstGraduationDate core.Date `json:"firstGraduationDate" db:"first_graduation_date"`
	PaymentStatus       string    `json:"paymentStatus" db:"payment_status"`
	PaymentDueDateDay   int       `json:"paymentDueDateDay" db:"payment_due_date_day"`
	Stripes             int       `json:"stripes" db:"stripes"`
	Competitor          bool      `json:"competitor" db:"competitor"`
	Medals              `json:"medals"`
	ImageURL            string    `json:"imageUrl" db:"image_url"`
	CreatedAt           time.Time `json:"createdAt" db:"created_at"` // UTC
	UpdatedAt           time.Time `json:"updatedAt" db:"updated_at"` // UTC

	// derived, never stored
	BeltProgress *graduation.Progress `json:"beltProgress,omitempty" db:"-"`
}

func (s *Student) SetPassword(pwd string) error {
	hash, err := core.HashPassword(pwd)
	if err != nil {
		return err
	}
	s.PasswordHash = hash
	return nil
}

func (s *Student) CheckPassword(pwd string) error {
	return core.CheckPassword(s.PasswordHash, pwd)
}

func (s Student) IsPaid() bool {
	return s.PaymentStatus == PaymentPaid
}

// NewStudent contains information needed to create a new Student.
type NewStudent struct {
	Name                string    `json:"name" validate:"required,max=255"`
	Email               string    `json:"email" validate:"required,email"`
	Password            string    `json:"password" validate:"required"`
	BirthDate           core.Date `json:"birthDate"`
	CPF                 string    `json:"cpf" validate:"required,cpf"`
	Registration        string    `json:"registration" validate:"max=100"`
	Phone               string    `json:"phone" validate:"max=30"`
	Address             string    `json:"address" validate:"max=255"`
	BeltID              null.Int  `json:"beltId"`
	AcademyID           null.Int  `json:"academyId"`
	FirstGraduationDate core.Date `json:"firstGraduationDate"`
	PaymentStatus       string    `json:"paymentStatus" validate:"required,oneof=paid unpaid"`
	PaymentDueDateDay   int       `json:"paymentDueDateDay" validate:"min=1,max=31"`
	Stripes             int       `json:"stripes" validate:"min=0,max=4"`
	Competitor          bool      `json:"competitor"`
	Medals              Medals    `json:"medals"`
	ImageURL            string    `json:"imageUrl"`
}

func (ns *NewStudent) Clean() {
	ns.Name = core.CleanString(ns.Name)
	ns.Email = core.CleanString(ns.Email, true /* lower */)
	ns.CPF = core.OnlyDigits(ns.CPF)
	ns.Registration = core.CleanString(ns.Registration)
	ns.Phone = core.CleanString(ns.Phone)
	ns.Address = core.CleanString(ns.Address)
	ns.ImageURL = core.CleanString(ns.ImageURL)
	ns.PaymentStatus = core.CleanString(ns.PaymentStatus, true /* lower */)
	if ns.PaymentStatus == "" {
		ns.PaymentStatus = PaymentUnpaid
	}
	if ns.PaymentDueDateDay == 0 {
		ns.PaymentDueDateDay = defaultPaymentDay
	}
}

// UpdateStudent defines what information may be provided to modify an existing Student.
// An empty Password keeps the current one.
type UpdateStudent struct {
	Name                string    `json:"name" validate:"required,max=255"`
	Email               string    `json:"email" validate:"required,email"`
	Password            string    `json:"password"`
	BirthDate           core.Date `json:"birthDate"`
	CPF                 string    `json:"cpf" validate:"required,cpf"`
	Registration        string    `json:"registration" validate:"max=100"`
	Phone               string    `json:"phone" validate:"max=30"`
	Address             string    `json:"address" validate:"max=255"`
	BeltID              null.Int  `json:"beltId"`
	AcademyID           null.Int  `json:"academyId"`
	FirstGraduationDate core.Date `json:"firstGraduationDate"`
	PaymentStatus       string    `json:"paymentStatus" validate:"required,oneof=paid unpaid"`
	PaymentDueDateDay   int       `json:"paymentDueDateDay" validate:"min=1,max=31"`
	Stripes             int       `json:"stripes" validate:"min=0,max=4"`
	Competitor          bool      `json:"competitor"`
	Medals              Medals    `json:"medals"`
	ImageURL            string    `json:"imageUrl"`
}

// Clean normalizes the input; a missing payment status or due day keeps the values of orig.
func (us *UpdateStudent) Clean(orig Student) {
	if core.CleanString(us.PaymentStatus) == "" {
		us.PaymentStatus = orig.PaymentStatus
	}
	if us.PaymentDueDateDay == 0 {
		us.PaymentDueDateDay = orig.PaymentDueDateDay
	}
	ns := NewStudent(*us)
	ns.Clean()
	*us = UpdateStudent(ns)
}

type QueryFilter struct {
	Search        string `query:"search"`
	AcademyID     int    `query:"academyId"`
	BeltID        int    `query:"beltId"`
	PaymentStatus string `query:"paymentStatus"`
	Competitor    *bool  `query:"competitor"`
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search, true /* lower */)
	qf.PaymentStatus = core.CleanString(qf.PaymentStatus, true /* lower */)
}

type GetFilter struct {
	ID  int
	CPF string
}

// Orderable columns, JSON name -> column.
var OrderingFields = map[string]string{
	"id":                  "id",
	"name":                "name",
	"registration":        "registration",
	"paymentStatus":       "payment_status",
	"paymentDueDateDay":   "payment_due_date_day",
	"firstGraduationDate": "first_graduation_date",
	"createdAt":           "created_at",
}
