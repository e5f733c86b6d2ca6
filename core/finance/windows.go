// Package finance classifies unpaid students into reminder and overdue lists around their monthly due date.
package finance

import (
	"time"

	"github.com/tatame-app/tatame/core"
	"github.com/tatame-app/tatame/core/student"
)

// Window locates today between two occurrences of a monthly due day.
type Window struct {
	LastDueDate      core.Date `json:"lastDueDate"`
	NextDueDate      core.Date `json:"nextDueDate"`
	DaysUntilNextDue int       `json:"daysUntilNextDue"`
	DaysSinceLastDue int       `json:"daysSinceLastDue"`
}

// dueDateIn returns the occurrence of dueDay in the given month, clamped to the month's last day.
func dueDateIn(year int, month time.Month, dueDay int) core.Date {
	lastDay := core.NewDate(year, month+1, 0).Day()
	if dueDay > lastDay {
		dueDay = lastDay
	}
	if dueDay < 1 {
		dueDay = 1
	}
	return core.NewDate(year, month, dueDay)
}

// DueWindow computes the due dates surrounding today.
// The last due date is this month's occurrence once it has passed, else last month's;
// the next due date is the occurrence right after it. On the due day itself the payment is
// next due today (0 days until due).
func DueWindow(dueDay int, today core.Date) Window {
	year, month := today.Year(), today.Month()
	thisMonth := dueDateIn(year, month, dueDay)

	var last, next core.Date
	if today.After(thisMonth) {
		last = thisMonth
		next = dueDateIn(year, month+1, dueDay)
	} else {
		last = dueDateIn(year, month-1, dueDay)
		next = thisMonth
	}

	return Window{
		LastDueDate:      last,
		NextDueDate:      next,
		DaysUntilNextDue: today.DaysUntil(next),
		DaysSinceLastDue: last.DaysUntil(today),
	}
}

// Thresholds bound the reminder and overdue windows, in days.
type Thresholds struct {
	ReminderDays int `json:"reminderDays"`
	OverdueDays  int `json:"overdueDays"`
}

// IsReminder reports whether the next due date is within the reminder window.
func (w Window) IsReminder(th Thresholds) bool {
	return w.DaysUntilNextDue >= 0 && w.DaysUntilNextDue <= th.ReminderDays
}

// IsOverdue reports whether the last due date passed within the overdue window.
func (w Window) IsOverdue(th Thresholds) bool {
	return w.DaysSinceLastDue > 0 && w.DaysSinceLastDue <= th.OverdueDays
}

type Entry struct {
	Student student.Student `json:"student"`
	DueDate core.Date       `json:"dueDate"`
	Days    int             `json:"days"` // until the due date for reminders, since it for overdue
}

type Status struct {
	Date       core.Date  `json:"date"`
	Thresholds Thresholds `json:"thresholds"`
	Reminders  []Entry    `json:"reminders"`
	Overdue    []Entry    `json:"overdue"`
}

// Classify sorts the unpaid students into the reminder and overdue lists.
// A student can appear in both.
func Classify(students []student.Student, today core.Date, th Thresholds) Status {
	status := Status{
		Date:       today,
		Thresholds: th,
		Reminders:  []Entry{},
		Overdue:    []Entry{},
	}
	for _, s := range students {
		if s.IsPaid() || s.PaymentDueDateDay < 1 {
			continue
		}
		w := DueWindow(s.PaymentDueDateDay, today)
		if w.IsReminder(th) {
			status.Reminders = append(status.Reminders, Entry{Student: s, DueDate: w.NextDueDate, Days: w.DaysUntilNextDue})
		}
		if w.IsOverdue(th) {
			status.Overdue = append(status.Overdue, Entry{Student: s, DueDate: w.LastDueDate, Days: w.DaysSinceLastDue})
		}
	}
	return status
}
