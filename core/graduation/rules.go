package graduation

import (
	"github.com/volatiletech/null/v8"

	"github.com/tatame-app/tatame/core"
)

// Index maps graduation IDs to graduations.
type Index map[int]Graduation

func NewIndex(grads []Graduation) Index {
	idx := make(Index, len(grads))
	for _, g := range grads {
		idx[g.ID] = g
	}
	return idx
}

// RankOf returns the rank of the referenced graduation; missing references rank 0.
func (idx Index) RankOf(id null.Int) int {
	if !id.Valid {
		return 0
	}
	return idx[id.Int].Rank
}

// Eligible reports whether a student holding studentBelt may attend a class requiring requiredBelt.
func (idx Index) Eligible(studentBelt, requiredBelt null.Int) bool {
	return Eligible(idx.RankOf(studentBelt), idx.RankOf(requiredBelt))
}

// Eligible reports whether a belt of rank studentRank meets a requirement of rank requiredRank.
func Eligible(studentRank, requiredRank int) bool {
	return studentRank >= requiredRank
}

// Progress tells how far a student is into their current belt.
type Progress struct {
	MonthsElapsed        int  `json:"monthsElapsed"`
	MinTimeInMonths      int  `json:"minTimeInMonths"`
	Percent              int  `json:"percent"`
	EligibleForPromotion bool `json:"eligibleForPromotion"`
}

// ComputeProgress derives the belt progress from the date the belt was earned.
func ComputeProgress(since core.Date, g Graduation, today core.Date) Progress {
	p := Progress{MinTimeInMonths: g.MinTimeInMonths}
	if !since.IsZero() && since.Before(today) {
		p.MonthsElapsed = MonthsBetween(since, today)
	}

	switch {
	case g.MinTimeInMonths <= 0:
		p.Percent = 100
	default:
		p.Percent = p.MonthsElapsed * 100 / g.MinTimeInMonths
		if p.Percent > 100 {
			p.Percent = 100
		}
	}
	p.EligibleForPromotion = p.MonthsElapsed >= g.MinTimeInMonths
	return p
}

// MonthsBetween counts the whole months from `from` to `to` (0 if to is before from).
func MonthsBetween(from, to core.Date) int {
	months := (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month())
	if to.Day() < from.Day() {
		months--
	}
	if months < 0 {
		return 0
	}
	return months
}
