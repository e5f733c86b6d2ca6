package professor

import (
	"github.com/volatiletech/null/v8"

	"github.com/tatame-app/tatame/core"
)

type Professor struct {
	ID            int       `json:"id" db:"id"`
	Name          string    `json:"name" db:"name"`
	Registration  string    `json:"registration" db:"registration"`
	CPF           string    `json:"cpf" db:"cpf"`
	AcademyID     null.Int  `json:"academyId" db:"academy_id"`
	GraduationID  null.Int  `json:"graduationId" db:"graduation_id"`
	ImageURL      string    `json:"imageUrl" db:"image_url"`
	BlackBeltDate core.Date `json:"blackBeltDate" db:"black_belt_date"`
}

// NewProfessor contains information needed to create a new Professor.
type NewProfessor struct {
	Name          string    `json:"name" validate:"required,max=255"`
	Registration  string    `json:"registration" validate:"max=100"`
	CPF           string    `json:"cpf" validate:"required,cpf"`
	AcademyID     null.Int  `json:"academyId"`
	GraduationID  null.Int  `json:"graduationId"`
	ImageURL      string    `json:"imageUrl"`
	BlackBeltDate core.Date `json:"blackBeltDate"`
}

func (np *NewProfessor) Clean() {
	np.Name = core.CleanString(np.Name)
	np.Registration = core.CleanString(np.Registration)
	np.CPF = core.OnlyDigits(np.CPF)
	np.ImageURL = core.CleanString(np.ImageURL)
}

// UpdateProfessor defines what information may be provided to modify an existing Professor.
type UpdateProfessor = NewProfessor

type QueryFilter struct {
	Search    string `query:"search"`
	AcademyID int    `query:"academyId"`
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search, true /* lower */)
}

type GetFilter struct {
	ID  int
	CPF string
}

// Orderable columns, JSON name -> column.
var OrderingFields = map[string]string{
	"id":            "id",
	"name":          "name",
	"registration":  "registration",
	"blackBeltDate": "black_belt_date",
}
