package search

import (
	"context"

	"github.com/ondo-cloud/proxi/internal/db"
	"github.com/ondo-cloud/proxi/internal/domain/entity"
)

// Fetcher executes planned coarse queries against the store.
type Fetcher interface {
	Fetch(ctx context.Context, q *db.CoarseQuery) ([]entity.Entity, error)
	FetchUnion(ctx context.Context, queries []*db.CoarseQuery) ([]entity.Entity, error)
}
