package user

import (
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/tatame-app/tatame/core"
)

// Roles
const (
	RoleGeneralAdmin = "general_admin"
	RoleAcademyAdmin = "academy_admin"
	RoleStudent      = "student"
)

var AllRoles = []string{RoleGeneralAdmin, RoleAcademyAdmin, RoleStudent}

// User is a login identity. Students and academy admins keep their password hash on
// their domain record; only general admins carry one here.
type User struct {
	ID                    int         `json:"id" db:"id"`
	Name                  string      `json:"name" db:"name"`
	Email                 string      `json:"email" db:"email"`
	Role                  string      `json:"role" db:"role"`
	AcademyID             null.Int    `json:"academyId" db:"academy_id"`
	StudentID             null.Int    `json:"studentId" db:"student_id"`
	PasswordHash          []byte      `json:"-" db:"password_hash"`
	RefreshToken          null.String `json:"-" db:"refresh_token"`
	RefreshTokenExpiresAt null.Time   `json:"-" db:"refresh_token_expires_at"`
	CreatedAt             time.Time   `json:"createdAt" db:"created_at"` // UTC
	UpdatedAt             time.Time   `json:"updatedAt" db:"updated_at"` // UTC
}

func (u *User) SetPassword(pwd string) error {
	hash, err := core.HashPassword(pwd)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

func (u *User) CheckPassword(pwd string) error {
	return core.CheckPassword(u.PasswordHash, pwd)
}

func (u User) IsGeneralAdmin() bool { return u.Role == RoleGeneralAdmin }
func (u User) IsAcademyAdmin() bool { return u.Role == RoleAcademyAdmin }
func (u User) IsStudent() bool      { return u.Role == RoleStudent }

// IsAdmin reports whether the user administers at least one academy.
func (u User) IsAdmin() bool {
	return u.IsGeneralAdmin() || u.IsAcademyAdmin()
}

// CanManageAcademy reports whether the user may modify the given academy's data.
func (u User) CanManageAcademy(academyID null.Int) bool {
	if u.IsGeneralAdmin() {
		return true
	}
	return u.IsAcademyAdmin() && u.AcademyID.Valid && academyID.Valid && u.AcademyID.Int == academyID.Int
}

// Person returns the identity used when logging on behalf of the user.
func (u User) Person() core.Person {
	return core.Person{ID: u.ID, Name: u.Name, Email: u.Email}
}

// NewAdmin contains information needed to create a general admin.
type NewAdmin struct {
	Name     string `json:"name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (na *NewAdmin) Clean() {
	na.Name = core.CleanString(na.Name)
	na.Email = core.CleanString(na.Email, true /* lower */)
}

type GetFilter struct {
	ID           int
	Email        string
	StudentID    int
	RefreshToken string
}

type DeleteFilter struct {
	ID        int
	StudentID int
	AcademyID int
	Role      string
}

type QueryFilter struct {
	Search    string `query:"search"`
	Role      string `query:"role"`
	AcademyID int    `query:"academyId"`
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search, true /* lower */)
	qf.Role = core.CleanString(qf.Role, true /* lower */)
}

// Orderable columns, JSON name -> column.
var OrderingFields = map[string]string{
	"id":        "id",
	"name":      "name",
	"email":     "email",
	"role":      "role",
	"createdAt": "created_at",
}
