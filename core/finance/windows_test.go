package finance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tatame-app/tatame/core"
	"github.com/tatame-app/tatame/core/student"
)

func day(m time.Month, d int) core.Date {
	return core.NewDate(2024, m, d)
}

func TestDueWindow(t *testing.T) {
	tests := []struct {
		name      string
		dueDay    int
		today     core.Date
		wantLast  core.Date
		wantNext  core.Date
		wantUntil int
		wantSince int
	}{
		{name: "before due day", dueDay: 5, today: day(time.March, 3), wantLast: day(time.February, 5), wantNext: day(time.March, 5), wantUntil: 2, wantSince: 27},
		{name: "on due day", dueDay: 5, today: day(time.March, 5), wantLast: day(time.February, 5), wantNext: day(time.March, 5), wantUntil: 0, wantSince: 29},
		{name: "after due day", dueDay: 5, today: day(time.March, 8), wantLast: day(time.March, 5), wantNext: day(time.April, 5), wantUntil: 28, wantSince: 3},
		{name: "year boundary", dueDay: 10, today: day(time.January, 2), wantLast: core.NewDate(2023, time.December, 10), wantNext: day(time.January, 10), wantUntil: 8, wantSince: 23},
		{name: "december after due", dueDay: 10, today: day(time.December, 20), wantLast: day(time.December, 10), wantNext: core.NewDate(2025, time.January, 10), wantUntil: 21, wantSince: 10},
		{name: "clamped to february", dueDay: 31, today: day(time.February, 27), wantLast: day(time.January, 31), wantNext: day(time.February, 29), wantUntil: 2, wantSince: 27},
		{name: "clamped passed", dueDay: 31, today: day(time.March, 1), wantLast: day(time.February, 29), wantNext: day(time.March, 31), wantUntil: 30, wantSince: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := DueWindow(tt.dueDay, tt.today)
			assert.True(t, w.LastDueDate.Equal(tt.wantLast), "last = %v, want %v", w.LastDueDate, tt.wantLast)
			assert.True(t, w.NextDueDate.Equal(tt.wantNext), "next = %v, want %v", w.NextDueDate, tt.wantNext)
			assert.Equal(t, tt.wantUntil, w.DaysUntilNextDue)
			assert.Equal(t, tt.wantSince, w.DaysSinceLastDue)
		})
	}
}

func TestClassify(t *testing.T) {
	th := Thresholds{ReminderDays: 5, OverdueDays: 5}
	unpaid := student.Student{ID: 1, Name: "Ana", PaymentStatus: student.PaymentUnpaid, PaymentDueDateDay: 5}
	paid := student.Student{ID: 2, Name: "Bruno", PaymentStatus: student.PaymentPaid, PaymentDueDateDay: 5}

	t.Run("reminder on the 3rd", func(t *testing.T) {
		status := Classify([]student.Student{unpaid, paid}, day(time.May, 3), th)
		require.Len(t, status.Reminders, 1)
		assert.Equal(t, 1, status.Reminders[0].Student.ID)
		assert.Equal(t, 2, status.Reminders[0].Days)
		assert.Empty(t, status.Overdue)
	})

	t.Run("overdue on the 8th", func(t *testing.T) {
		status := Classify([]student.Student{unpaid, paid}, day(time.May, 8), th)
		require.Len(t, status.Overdue, 1)
		assert.Equal(t, 1, status.Overdue[0].Student.ID)
		assert.Equal(t, 3, status.Overdue[0].Days)
		assert.Empty(t, status.Reminders)
	})

	t.Run("both lists with wide thresholds", func(t *testing.T) {
		wide := Thresholds{ReminderDays: 30, OverdueDays: 30}
		status := Classify([]student.Student{unpaid}, day(time.May, 8), wide)
		assert.Len(t, status.Reminders, 1)
		assert.Len(t, status.Overdue, 1)
	})

	t.Run("due day itself is not overdue", func(t *testing.T) {
		status := Classify([]student.Student{unpaid}, day(time.May, 5), th)
		assert.Len(t, status.Reminders, 1)
		assert.Empty(t, status.Overdue)
	})

	t.Run("outside both windows", func(t *testing.T) {
		status := Classify([]student.Student{unpaid}, day(time.May, 20), th)
		assert.Empty(t, status.Reminders)
		assert.Empty(t, status.Overdue)
	})
}
