package sqlxrepos

import (
	"context"

	"github.com/pkg/errors"

	"github.com/tatame-app/tatame/core"
	"github.com/tatame-app/tatame/core/news"
)

type newsRepository struct {
	repository
}

var _ news.Repository = (*newsRepository)(nil) // interface compliance check

func NewNewsRepository(exec core.DBExecutor) *newsRepository {
	return &newsRepository{repository{exec: exec}}
}

func (repo newsRepository) QueryNews(ctx context.Context, limit int, exec ...core.DBExecutor) ([]news.News, error) {
	items := make([]news.News, 0)
	q := "SELECT * FROM news ORDER BY published_at DESC, id DESC LIMIT ?"
	if err := selectAll(ctx, repo.getExec(exec), &items, q, limit); err != nil {
		return nil, errors.Wrap(err, "querying news")
	}
	return items, nil
}
