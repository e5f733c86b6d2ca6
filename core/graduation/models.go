package graduation

import (
	"strings"

	"github.com/volatiletech/null/v8"

	"github.com/tatame-app/tatame/core"
)

// Types
const (
	TypeAdult = "adult"
	TypeKids  = "kids"
)

// BlackBeltName is the graduation whose holders become professors.
const BlackBeltName = "Preta"

type Graduation struct {
	ID              int      `json:"id" db:"id"`
	Name            string   `json:"name" db:"name"`
	Color           string   `json:"color" db:"color"`
	MinTimeInMonths int      `json:"minTimeInMonths" db:"min_time_in_months"`
	Rank            int      `json:"rank" db:"sort_rank"`
	Type            string   `json:"type" db:"type"`
	MinAge          null.Int `json:"minAge" db:"min_age"`
	MaxAge          null.Int `json:"maxAge" db:"max_age"`
}

func (g Graduation) IsBlackBelt() bool {
	return strings.EqualFold(strings.TrimSpace(g.Name), BlackBeltName)
}

// NewGraduation contains information needed to create a new Graduation.
// Rank 0 appends the graduation after the current last one.
type NewGraduation struct {
	Name            string   `json:"name" validate:"required,max=100"`
	Color           string   `json:"color" validate:"required,max=50"`
	MinTimeInMonths int      `json:"minTimeInMonths" validate:"gte=0"`
	Rank            int      `json:"rank" validate:"gte=0"`
	Type            string   `json:"type" validate:"required,oneof=adult kids"`
	MinAge          null.Int `json:"minAge"`
	MaxAge          null.Int `json:"maxAge"`
}

func (ng *NewGraduation) Clean() {
	ng.Name = core.CleanString(ng.Name)
	ng.Color = core.CleanString(ng.Color)
	ng.Type = core.CleanString(ng.Type, true /* lower */)
	if ng.Type == "" {
		ng.Type = TypeAdult
	}
}

// UpdateGraduation defines what information may be provided to modify an existing Graduation.
type UpdateGraduation = NewGraduation

// ReorderRequest lists every graduation ID in its new order, lowest rank first.
type ReorderRequest struct {
	IDs []int `json:"ids" validate:"required,min=1,dive,gt=0"`
}

// Orderable columns, JSON name -> column.
var OrderingFields = map[string]string{
	"id":              "id",
	"name":            "name",
	"rank":            "sort_rank",
	"minTimeInMonths": "min_time_in_months",
}
