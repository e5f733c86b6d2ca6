package schedule

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/tatame-app/tatame/core"
)

var (
	timeRangeTag  = "timerange"
	timeRangeText = "endTime must be after startTime"
)

func InitValidators(validate *validator.Validate, translator ut.Translator) {
	validate.RegisterStructValidation(scheduleStructValidation, NewSchedule{})
	core.RegisterCustomTranslation(validate, translator, timeRangeTag, timeRangeText)
}

// HH:MM strings compare like the times they hold.
func scheduleStructValidation(sl validator.StructLevel) {
	s, ok := sl.Current().Interface().(NewSchedule)
	if !ok {
		return
	}
	if core.ValidTime(s.StartTime) && core.ValidTime(s.EndTime) && s.EndTime <= s.StartTime {
		sl.ReportError(s.EndTime, "endTime", "EndTime", timeRangeTag, "")
	}
}
