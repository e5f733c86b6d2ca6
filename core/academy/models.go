package academy

import (
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/tatame-app/tatame/core"
)

// Academy is a tenant gym. Its email/password are the credentials of its academy admin.
type Academy struct {
	ID                      int       `json:"id" db:"id"`
	Name                    string    `json:"name" db:"name"`
	Address                 string    `json:"address" db:"address"`
	Responsible             string    `json:"responsible" db:"responsible"`
	ResponsibleRegistration string    `json:"responsibleRegistration" db:"responsible_registration"`
	ProfessorID             null.Int  `json:"professorId" db:"professor_id"`
	AssistantIDs            []int     `json:"assistantIds" db:"-"`
	ImageURL                string    `json:"imageUrl" db:"image_url"`
	Email                   string    `json:"email" db:"email"`
	PasswordHash            []byte    `json:"-" db:"password_hash"`
	CreatedAt               time.Time `json:"createdAt" db:"created_at"` // UTC
	UpdatedAt               time.Time `json:"updatedAt" db:"updated_at"` // UTC
}

func (a *Academy) SetPassword(pwd string) error {
	hash, err := core.HashPassword(pwd)
	if err != nil {
		return err
	}
	a.PasswordHash = hash
	return nil
}

func (a *Academy) CheckPassword(pwd string) error {
	return core.CheckPassword(a.PasswordHash, pwd)
}

// NewAcademy contains information needed to create a new Academy and its admin.
// AdminName defaults to Responsible.
type NewAcademy struct {
	Name                    string   `json:"name" validate:"required,max=255"`
	Address                 string   `json:"address" validate:"max=255"`
	Responsible             string   `json:"responsible" validate:"max=255"`
	ResponsibleRegistration string   `json:"responsibleRegistration" validate:"max=100"`
	ProfessorID             null.Int `json:"professorId"`
	AssistantIDs            []int    `json:"assistantIds" validate:"omitempty,dive,gt=0"`
	ImageURL                string   `json:"imageUrl"`
	AdminName               string   `json:"adminName" validate:"max=255"`
	Email                   string   `json:"email" validate:"required,email"`
	Password                string   `json:"password" validate:"required"`
}

func (na *NewAcademy) Clean() {
	na.Name = core.CleanString(na.Name)
	na.Address = core.CleanString(na.Address)
	na.Responsible = core.CleanString(na.Responsible)
	na.ResponsibleRegistration = core.CleanString(na.ResponsibleRegistration)
	na.ImageURL = core.CleanString(na.ImageURL)
	na.AdminName = core.CleanString(na.AdminName)
	na.Email = core.CleanString(na.Email, true /* lower */)
	if na.AdminName == "" {
		na.AdminName = na.Responsible
	}
	if na.AdminName == "" {
		na.AdminName = na.Name
	}
	na.AssistantIDs = uniqueIDs(na.AssistantIDs)
}

// UpdateAcademy defines what information may be provided to modify an existing Academy.
// An empty Password keeps the current one.
type UpdateAcademy struct {
	Name                    string   `json:"name" validate:"required,max=255"`
	Address                 string   `json:"address" validate:"max=255"`
	Responsible             string   `json:"responsible" validate:"max=255"`
	ResponsibleRegistration string   `json:"responsibleRegistration" validate:"max=100"`
	ProfessorID             null.Int `json:"professorId"`
	AssistantIDs            []int    `json:"assistantIds" validate:"omitempty,dive,gt=0"`
	ImageURL                string   `json:"imageUrl"`
	Email                   string   `json:"email" validate:"required,email"`
	Password                string   `json:"password"`
}

func (ua *UpdateAcademy) Clean() {
	ua.Name = core.CleanString(ua.Name)
	ua.Address = core.CleanString(ua.Address)
	ua.Responsible = core.CleanString(ua.Responsible)
	ua.ResponsibleRegistration = core.CleanString(ua.ResponsibleRegistration)
	ua.ImageURL = core.CleanString(ua.ImageURL)
	ua.Email = core.CleanString(ua.Email, true /* lower */)
	ua.AssistantIDs = uniqueIDs(ua.AssistantIDs)
}

type QueryFilter struct {
	Search string `query:"search"`
	ID     int    `query:"-"` // restricts the listing to one academy
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search, true /* lower */)
}

type GetFilter struct {
	ID    int
	Email string
}

// Orderable columns, JSON name -> column.
var OrderingFields = map[string]string{
	"id":        "id",
	"name":      "name",
	"createdAt": "created_at",
}

func uniqueIDs(ids []int) []int {
	if ids == nil {
		return []int{}
	}
	seen := make(map[int]bool, len(ids))
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
