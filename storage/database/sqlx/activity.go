package sqlxrepos

import (
	"context"

	"github.com/pkg/errors"

	"github.com/tatame-app/tatame/core"
	"github.com/tatame-app/tatame/core/activity"
)

type activityRepository struct {
	repository
}

var _ activity.Repository = (*activityRepository)(nil) // interface compliance check

func NewActivityRepository(exec core.DBExecutor) *activityRepository {
	return &activityRepository{repository{exec: exec}}
}

func (repo activityRepository) CreateLog(ctx context.Context, l activity.Log, exec ...core.DBExecutor) (activity.Log, error) {
	id, err := insert(ctx, repo.getExec(exec),
		"INSERT INTO activity_logs (actor_id, action, timestamp, details) VALUES (?, ?, ?, ?)",
		l.ActorID, l.Action, l.Timestamp.UTC(), l.Details,
	)
	if err != nil {
		return activity.Log{}, errors.Wrap(err, "inserting activity log")
	}
	l.ID = id
	return l, nil
}

func (repo activityRepository) QueryLogs(ctx context.Context, limit int, exec ...core.DBExecutor) ([]activity.Log, error) {
	logs := make([]activity.Log, 0)
	q := "SELECT * FROM activity_logs ORDER BY timestamp DESC, id DESC LIMIT ?"
	if err := selectAll(ctx, repo.getExec(exec), &logs, q, limit); err != nil {
		return nil, errors.Wrap(err, "querying activity logs")
	}
	return logs, nil
}
