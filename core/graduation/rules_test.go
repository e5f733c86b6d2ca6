package graduation

import (
	"testing"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/tatame-app/tatame/core"
)

func TestEligible(t *testing.T) {
	for student := 0; student <= 5; student++ {
		for required := 0; required <= 5; required++ {
			if got, want := Eligible(student, required), student >= required; got != want {
				t.Errorf("Eligible(%d, %d) = %v, want %v", student, required, got, want)
			}
		}
	}
}

func TestIndex_Eligible(t *testing.T) {
	idx := NewIndex([]Graduation{{ID: 1, Name: "Branca", Rank: 1}, {ID: 2, Name: "Azul", Rank: 2}, {ID: 3, Name: "Preta", Rank: 5}})

	tests := []struct {
		name     string
		belt     null.Int
		required null.Int
		want     bool
	}{
		{name: "no requirement", belt: null.Int{}, required: null.Int{}, want: true},
		{name: "no belt, requirement", belt: null.Int{}, required: null.IntFrom(1), want: false},
		{name: "same rank", belt: null.IntFrom(2), required: null.IntFrom(2), want: true},
		{name: "higher rank", belt: null.IntFrom(3), required: null.IntFrom(2), want: true},
		{name: "lower rank", belt: null.IntFrom(1), required: null.IntFrom(2), want: false},
		{name: "unknown requirement ranks 0", belt: null.IntFrom(1), required: null.IntFrom(42), want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := idx.Eligible(tt.belt, tt.required); got != tt.want {
				t.Errorf("Eligible() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMonthsBetween(t *testing.T) {
	tests := []struct {
		name     string
		from, to core.Date
		want     int
	}{
		{name: "same day", from: core.NewDate(2024, time.March, 8), to: core.NewDate(2024, time.March, 8), want: 0},
		{name: "one day short", from: core.NewDate(2024, time.January, 15), to: core.NewDate(2024, time.February, 14), want: 0},
		{name: "one month", from: core.NewDate(2024, time.January, 15), to: core.NewDate(2024, time.February, 15), want: 1},
		{name: "across years", from: core.NewDate(2022, time.November, 1), to: core.NewDate(2024, time.March, 1), want: 16},
		{name: "reversed", from: core.NewDate(2024, time.March, 1), to: core.NewDate(2024, time.January, 1), want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MonthsBetween(tt.from, tt.to); got != tt.want {
				t.Errorf("MonthsBetween() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestComputeProgress(t *testing.T) {
	today := core.NewDate(2024, time.June, 10)
	blue := Graduation{Name: "Azul", MinTimeInMonths: 24}

	tests := []struct {
		name  string
		since core.Date
		grad  Graduation
		want  Progress
	}{
		{
			name: "half way", since: core.NewDate(2023, time.June, 10), grad: blue,
			want: Progress{MonthsElapsed: 12, MinTimeInMonths: 24, Percent: 50},
		},
		{
			name: "done", since: core.NewDate(2021, time.January, 1), grad: blue,
			want: Progress{MonthsElapsed: 41, MinTimeInMonths: 24, Percent: 100, EligibleForPromotion: true},
		},
		{
			name: "no date", grad: blue,
			want: Progress{MinTimeInMonths: 24},
		},
		{
			name: "no minimum", since: core.NewDate(2024, time.June, 1), grad: Graduation{Name: "Branca"},
			want: Progress{Percent: 100, EligibleForPromotion: true},
		},
		{
			name: "future date", since: core.NewDate(2025, time.January, 1), grad: blue,
			want: Progress{MinTimeInMonths: 24},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ComputeProgress(tt.since, tt.grad, today); got != tt.want {
				t.Errorf("ComputeProgress() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
