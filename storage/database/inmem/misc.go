package inmemdb

import (
	"context"
	"sort"

	"github.com/tatame-app/tatame/core"
	"github.com/tatame-app/tatame/core/activity"
	"github.com/tatame-app/tatame/core/news"
	"github.com/tatame-app/tatame/core/payment"
	"github.com/tatame-app/tatame/core/settings"
)

// Payments

type paymentRepository struct {
	db *DB
}

var _ payment.Repository = (*paymentRepository)(nil) // interface compliance check

func NewPaymentRepository(db *DB) *paymentRepository {
	return &paymentRepository{db: db}
}

func (repo *paymentRepository) CreatePayment(_ context.Context, p payment.Payment, _ ...core.DBExecutor) (payment.Payment, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	p.ID = repo.db.nextID("payments")
	repo.db.payments[p.ID] = p
	return p, nil
}

func (repo *paymentRepository) QueryPayments(_ context.Context, filter payment.QueryFilter, _ ...core.DBExecutor) ([]payment.Payment, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	payments := make([]payment.Payment, 0, len(repo.db.payments))
	for _, p := range repo.db.payments {
		if filter.StudentID != 0 && p.StudentID != filter.StudentID {
			continue
		}
		if filter.AcademyID != 0 {
			s, ok := repo.db.students[p.StudentID]
			if !ok || !s.AcademyID.Valid || s.AcademyID.Int != filter.AcademyID {
				continue
			}
		}
		payments = append(payments, p)
	}
	sort.Slice(payments, func(i, j int) bool {
		if !payments[i].Date.Equal(payments[j].Date) {
			return payments[i].Date.After(payments[j].Date)
		}
		return payments[i].ID > payments[j].ID
	})
	return payments, nil
}

// Settings

type settingsRepository struct {
	db *DB
}

var _ settings.Repository = (*settingsRepository)(nil) // interface compliance check

func NewSettingsRepository(db *DB) *settingsRepository {
	return &settingsRepository{db: db}
}

func (repo *settingsRepository) GetSettings(_ context.Context, _ ...core.DBExecutor) (settings.ThemeSettings, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if repo.db.settings == nil {
		return settings.Default(), nil
	}
	return *repo.db.settings, nil
}

func (repo *settingsRepository) SaveSettings(_ context.Context, ts settings.ThemeSettings, _ ...core.DBExecutor) (settings.ThemeSettings, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	ts.ID = settings.SingletonID
	repo.db.settings = &ts
	return ts, nil
}

// Activity logs

type activityRepository struct {
	db *DB
}

var _ activity.Repository = (*activityRepository)(nil) // interface compliance check

func NewActivityRepository(db *DB) *activityRepository {
	return &activityRepository{db: db}
}

func (repo *activityRepository) CreateLog(_ context.Context, l activity.Log, _ ...core.DBExecutor) (activity.Log, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	l.ID = repo.db.nextID("logs")
	repo.db.logs[l.ID] = l
	return l, nil
}

func (repo *activityRepository) QueryLogs(_ context.Context, limit int, _ ...core.DBExecutor) ([]activity.Log, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	logs := make([]activity.Log, 0, len(repo.db.logs))
	for _, l := range repo.db.logs {
		logs = append(logs, l)
	}
	sort.Slice(logs, func(i, j int) bool {
		if !logs[i].Timestamp.Equal(logs[j].Timestamp) {
			return logs[i].Timestamp.After(logs[j].Timestamp)
		}
		return logs[i].ID > logs[j].ID
	})
	if len(logs) > limit {
		logs = logs[:limit]
	}
	return logs, nil
}

// News

type newsRepository struct {
	db *DB
}

var _ news.Repository = (*newsRepository)(nil) // interface compliance check

func NewNewsRepository(db *DB) *newsRepository {
	return &newsRepository{db: db}
}

func (repo *newsRepository) QueryNews(_ context.Context, limit int, _ ...core.DBExecutor) ([]news.News, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	items := make([]news.News, 0, len(repo.db.news))
	for _, n := range repo.db.news {
		items = append(items, n)
	}
	sort.Slice(items, func(i, j int) bool {
		if !items[i].PublishedAt.Equal(items[j].PublishedAt) {
			return items[i].PublishedAt.After(items[j].PublishedAt)
		}
		return items[i].ID > items[j].ID
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}
