// Package inmemdb implements the domain repositories in memory. It backs the unit tests and
// the "inmem" database engine, emulating the foreign key rules of the SQL schema.
package inmemdb

import (
	"context"
	"maps"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/tatame-app/tatame/core"
	"github.com/tatame-app/tatame/core/academy"
	"github.com/tatame-app/tatame/core/activity"
	"github.com/tatame-app/tatame/core/attendance"
	"github.com/tatame-app/tatame/core/graduation"
	"github.com/tatame-app/tatame/core/news"
	"github.com/tatame-app/tatame/core/payment"
	"github.com/tatame-app/tatame/core/professor"
	"github.com/tatame-app/tatame/core/schedule"
	"github.com/tatame-app/tatame/core/settings"
	"github.com/tatame-app/tatame/core/student"
	"github.com/tatame-app/tatame/core/user"
)

// DB holds every table. A single lock guards them all so cascades stay consistent.
type DB struct {
	mutex   sync.RWMutex
	txMutex sync.Mutex // serializes WithinTx
	seq     map[string]int

	users       map[int]user.User
	academies   map[int]academy.Academy
	students    map[int]student.Student
	professors  map[int]professor.Professor
	graduations map[int]graduation.Graduation
	schedules   map[int]schedule.ClassSchedule
	attendance  map[int]attendance.Record
	payments    map[int]payment.Payment
	logs        map[int]activity.Log
	news        map[int]news.News
	settings    *settings.ThemeSettings
}

func NewDB() *DB {
	db := &DB{seq: make(map[string]int)}
	db.reset()
	return db
}

func (db *DB) reset() {
	db.seq = make(map[string]int)
	db.users = make(map[int]user.User)
	db.academies = make(map[int]academy.Academy)
	db.students = make(map[int]student.Student)
	db.professors = make(map[int]professor.Professor)
	db.graduations = make(map[int]graduation.Graduation)
	db.schedules = make(map[int]schedule.ClassSchedule)
	db.attendance = make(map[int]attendance.Record)
	db.payments = make(map[int]payment.Payment)
	db.logs = make(map[int]activity.Log)
	db.news = make(map[int]news.News)
	db.settings = nil

	now := core.NowFunc().UTC()
	for _, n := range []news.News{
		{Title: "Welcome to Tatame", Summary: "Manage students, belts, classes and monthly fees for every academy in one place.", PublishedAt: now},
		{Title: "Graduation season", Summary: "Check the belt progress of each student before the next promotion ceremony.", PublishedAt: now},
	} {
		n.ID = db.nextID("news")
		db.news[n.ID] = n
	}
}

// Reset empties every table, keeping the seeded news.
func (db *DB) Reset() {
	db.mutex.Lock()
	defer db.mutex.Unlock()
	db.reset()
}

// nextID must be called with the write lock held.
func (db *DB) nextID(table string) int {
	db.seq[table]++
	return db.seq[table]
}

// WithinTx runs fn and restores every table to its prior state if fn fails.
// Writes made outside WithinTx while fn runs are lost on rollback.
func (db *DB) WithinTx(_ context.Context, fn func(exec core.DBExecutor) error) error {
	db.txMutex.Lock()
	defer db.txMutex.Unlock()

	snap := db.snapshot()
	if err := fn(nil); err != nil {
		db.restore(snap)
		return err
	}
	return nil
}

// snapshot copies the tables; rows are values, so copying the maps suffices.
func (db *DB) snapshot() *DB {
	db.mutex.RLock()
	defer db.mutex.RUnlock()

	snap := &DB{
		seq:         maps.Clone(db.seq),
		users:       maps.Clone(db.users),
		academies:   maps.Clone(db.academies),
		students:    maps.Clone(db.students),
		professors:  maps.Clone(db.professors),
		graduations: maps.Clone(db.graduations),
		schedules:   maps.Clone(db.schedules),
		attendance:  maps.Clone(db.attendance),
		payments:    maps.Clone(db.payments),
		logs:        maps.Clone(db.logs),
		news:        maps.Clone(db.news),
	}
	if db.settings != nil {
		ts := *db.settings
		snap.settings = &ts
	}
	return snap
}

func (db *DB) restore(snap *DB) {
	db.mutex.Lock()
	defer db.mutex.Unlock()

	db.seq = snap.seq
	db.users = snap.users
	db.academies = snap.academies
	db.students = snap.students
	db.professors = snap.professors
	db.graduations = snap.graduations
	db.schedules = snap.schedules
	db.attendance = snap.attendance
	db.payments = snap.payments
	db.logs = snap.logs
	db.news = snap.news
	db.settings = snap.settings
}

var _ core.Transactor = (*DB)(nil)

// contains reports whether the lowered keyword is part of any of the values.
func contains(keyword string, values ...string) bool {
	if keyword == "" {
		return true
	}
	keyword = strings.ToLower(keyword)
	for _, v := range values {
		if strings.Contains(strings.ToLower(v), keyword) {
			return true
		}
	}
	return false
}

// less compares two column values of the same kind.
func less(a, b interface{}) (isLess, isEqual bool) {
	switch av := a.(type) {
	case int:
		bv := b.(int)
		return av < bv, av == bv
	case string:
		av, bv := strings.ToLower(av), strings.ToLower(b.(string))
		return av < bv, av == bv
	case bool:
		bv := b.(bool)
		return !av && bv, av == bv
	case time.Time:
		bv := b.(time.Time)
		return av.Before(bv), av.Equal(bv)
	case core.Date:
		bv := b.(core.Date)
		return av.Before(bv), av.Equal(bv)
	}
	return false, true
}

// sortRows orders rows by id, then by the given columns; column values come from col.
// Unknown columns (nil values) compare equal.
func sortRows[T any](rows []T, ordering []core.DBOrdering, col func(row T, name string) interface{}) {
	sort.SliceStable(rows, func(i, j int) bool {
		return col(rows[i], "id").(int) < col(rows[j], "id").(int)
	})
	sort.SliceStable(rows, func(i, j int) bool {
		for _, ord := range ordering {
			a, b := col(rows[i], ord.Field), col(rows[j], ord.Field)
			if a == nil || b == nil {
				continue
			}
			isLess, isEqual := less(a, b)
			if isEqual {
				continue
			}
			if ord.Ascending {
				return isLess
			}
			return !isLess
		}
		return false
	})
}
