package student

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/tatame-app/tatame/core"
)

var (
	medalsTag  = "medals"
	medalsText = "medal counts cannot be negative"
)

func InitValidators(validate *validator.Validate, translator ut.Translator) {
	validate.RegisterStructValidation(studentStructValidation, NewStudent{}, UpdateStudent{})
	core.RegisterCustomTranslation(validate, translator, medalsTag, medalsText)
}

func studentStructValidation(sl validator.StructLevel) {
	switch s := sl.Current().Interface().(type) {
	case NewStudent:
		validateMedals(s.Medals, sl)
		core.ValidatePassword(s.Password, sl, s.Name, s.Email)
	case UpdateStudent:
		validateMedals(s.Medals, sl)
		if s.Password != "" {
			core.ValidatePassword(s.Password, sl, s.Name, s.Email)
		}
	}
}

func validateMedals(m Medals, sl validator.StructLevel) {
	if m.Gold < 0 || m.Silver < 0 || m.Bronze < 0 {
		sl.ReportError(m, "medals", "Medals", medalsTag, "")
	}
}
