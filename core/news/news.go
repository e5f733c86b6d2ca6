// Package news serves the read-only news feed of the public page.
package news

import (
	"context"
	"time"

	"github.com/tatame-app/tatame/core"
)

const feedLimit = 20

type News struct {
	ID          int       `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Summary     string    `json:"summary" db:"summary"`
	ImageURL    string    `json:"imageUrl" db:"image_url"`
	Link        string    `json:"link" db:"link"`
	PublishedAt time.Time `json:"publishedAt" db:"published_at"`
}

type (
	Repository interface {
		// QueryNews returns at most limit items, most recent first.
		QueryNews(ctx context.Context, limit int, exec ...core.DBExecutor) ([]News, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Feed(ctx context.Context) ([]News, error) {
	return svc.repo.QueryNews(ctx, feedLimit)
}
