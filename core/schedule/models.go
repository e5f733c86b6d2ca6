package schedule

import (
	"github.com/volatiletech/null/v8"

	"github.com/tatame-app/tatame/core"
)

// ClassSchedule is a recurring weekly class slot.
type ClassSchedule struct {
	ID                   int      `json:"id" db:"id"`
	ClassName            string   `json:"className" db:"class_name"`
	DayOfWeek            int      `json:"dayOfWeek" db:"day_of_week"` // 0 = Sunday
	StartTime            string   `json:"startTime" db:"start_time"`  // HH:MM
	EndTime              string   `json:"endTime" db:"end_time"`      // HH:MM
	ProfessorID          null.Int `json:"professorId" db:"professor_id"`
	AssistantIDs         []int    `json:"assistantIds" db:"-"`
	AcademyID            int      `json:"academyId" db:"academy_id"`
	RequiredGraduationID null.Int `json:"requiredGraduationId" db:"required_graduation_id"`
}

// NewSchedule contains information needed to create a new ClassSchedule.
type NewSchedule struct {
	ClassName            string   `json:"className" validate:"required,max=255"`
	DayOfWeek            int      `json:"dayOfWeek" validate:"min=0,max=6"`
	StartTime            string   `json:"startTime" validate:"required,hhmm"`
	EndTime              string   `json:"endTime" validate:"required,hhmm"`
	ProfessorID          null.Int `json:"professorId"`
	AssistantIDs         []int    `json:"assistantIds" validate:"omitempty,dive,gt=0"`
	AcademyID            int      `json:"academyId" validate:"required,gt=0"`
	RequiredGraduationID null.Int `json:"requiredGraduationId"`
}

func (ns *NewSchedule) Clean() {
	ns.ClassName = core.CleanString(ns.ClassName)
	ns.StartTime = core.CleanString(ns.StartTime)
	ns.EndTime = core.CleanString(ns.EndTime)
	seen := make(map[int]bool, len(ns.AssistantIDs))
	ids := make([]int, 0, len(ns.AssistantIDs))
	for _, id := range ns.AssistantIDs {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	ns.AssistantIDs = ids
}

// UpdateSchedule defines what information may be provided to modify an existing ClassSchedule.
type UpdateSchedule = NewSchedule

type QueryFilter struct {
	AcademyID   int  `query:"academyId"`
	DayOfWeek   *int `query:"dayOfWeek"`
	ProfessorID int  `query:"professorId"`
}

// Orderable columns, JSON name -> column.
var OrderingFields = map[string]string{
	"id":        "id",
	"className": "class_name",
	"dayOfWeek": "day_of_week",
	"startTime": "start_time",
}
