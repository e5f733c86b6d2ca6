package graduation

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/tatame-app/tatame/core"
)

var (
	adultNoAgesTag  = "adultnoages"
	adultNoAgesText = "age limits only apply to kids graduations"

	ageRangeTag  = "agerange"
	ageRangeText = "minAge must be a positive number lower than or equal to maxAge"
)

func InitValidators(validate *validator.Validate, translator ut.Translator) {
	validate.RegisterStructValidation(graduationStructValidation, NewGraduation{})
	core.RegisterCustomTranslation(validate, translator, adultNoAgesTag, adultNoAgesText)
	core.RegisterCustomTranslation(validate, translator, ageRangeTag, ageRangeText)
}

func graduationStructValidation(sl validator.StructLevel) {
	g, ok := sl.Current().Interface().(NewGraduation)
	if !ok {
		return
	}
	if g.Type != TypeKids {
		if g.MinAge.Valid {
			sl.ReportError(g.MinAge, "minAge", "MinAge", adultNoAgesTag, "")
		}
		if g.MaxAge.Valid {
			sl.ReportError(g.MaxAge, "maxAge", "MaxAge", adultNoAgesTag, "")
		}
		return
	}
	if g.MinAge.Valid && g.MinAge.Int < 0 {
		sl.ReportError(g.MinAge, "minAge", "MinAge", ageRangeTag, "")
	}
	if g.MinAge.Valid && g.MaxAge.Valid && g.MinAge.Int > g.MaxAge.Int {
		sl.ReportError(g.MaxAge, "maxAge", "MaxAge", ageRangeTag, "")
	}
}
