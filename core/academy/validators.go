package academy

import (
	"github.com/go-playground/validator/v10"

	"github.com/tatame-app/tatame/core"
)

func InitValidators(validate *validator.Validate) {
	validate.RegisterStructValidation(academyStructValidation, NewAcademy{}, UpdateAcademy{})
}

func academyStructValidation(sl validator.StructLevel) {
	switch a := sl.Current().Interface().(type) {
	case NewAcademy:
		core.ValidatePassword(a.Password, sl, a.AdminName, a.Email)
	case UpdateAcademy:
		if a.Password != "" {
			core.ValidatePassword(a.Password, sl, a.Responsible, a.Email)
		}
	}
}
