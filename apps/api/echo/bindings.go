package echoapi

import (
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/tatame-app/tatame/core"
	"github.com/tatame-app/tatame/core/user"
)

var orderingParam = "ordering"

type Ordering struct {
	Orderings []core.DBOrdering
}

// Bind parses "ordering=name,-createdAt" into column orderings.
// Fields missing from allowed (JSON name -> column) are ignored.
func (ord *Ordering) Bind(ctx echo.Context, allowed map[string]string) {
	val := ctx.QueryParam(orderingParam)
	if val == "" {
		return
	}

	for _, field := range strings.Split(val, ",") {
		field = strings.TrimSpace(field)
		descending := strings.HasPrefix(field, "-")
		if descending {
			field = field[1:] // drop "-"
		}
		column, ok := allowed[field]
		if !ok {
			continue
		}
		ord.Orderings = append(ord.Orderings, core.DBOrdering{Field: column, Ascending: !descending})
	}
}

// dateParam parses an optional YYYY-MM-DD query parameter, defaulting to today.
func dateParam(ctx echo.Context, name string) (core.Date, error) {
	val := ctx.QueryParam(name)
	if val == "" {
		return core.Today(), nil
	}
	d, err := core.ParseDate(val)
	if err != nil {
		return core.Date{}, core.NewFieldError(name, err.Error())
	}
	return d, nil
}

type academyParam struct {
	AcademyID int `query:"academyId"`
}

// requestedAcademy returns the academy the caller asks for (0 = all), limited to their own scope.
func requestedAcademy(ctx echo.Context, usr user.User) (int, error) {
	var p academyParam
	if err := ctx.Bind(&p); err != nil {
		return 0, errors.Wrap(err, "binding to academyParam")
	}
	return scopedAcademy(usr, p.AcademyID)
}
