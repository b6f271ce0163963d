package search

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/ondo-cloud/proxi/internal/db"
	"github.com/ondo-cloud/proxi/internal/domain"
	"github.com/ondo-cloud/proxi/internal/domain/entity"
	"github.com/ondo-cloud/proxi/internal/repository/codec"
)

// store is the consumer interface for coarse fetches (ISP).
type store interface {
	QueryCoarse(ctx context.Context, q *db.CoarseQuery) ([]db.Record, error)
}

// Repo executes planned coarse queries and hydrates domain entities.
// Store failures are wrapped with domain.ErrStoreUnavailable and
// propagated; the fail-soft decision belongs to the search facade, not
// here.
type Repo struct {
	store store
}

// New creates a search repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Fetch runs one coarse query and returns the raw candidate list. Zero
// matches yield an empty, non-nil slice so the filter pipeline always
// runs.
func (r *Repo) Fetch(ctx context.Context, q *db.CoarseQuery) ([]entity.Entity, error) {
	records, err := r.store.QueryCoarse(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("%w: coarse fetch %s: %v", domain.ErrStoreUnavailable, q.Kind, err)
	}

	out := make([]entity.Entity, 0, len(records))
	for _, rec := range records {
		out = append(out, codec.DecodeRecord(rec))
	}
	return out, nil
}

// FetchUnion runs several disjoint ownership-scoped coarse queries
// concurrently and merges the results, deduplicated by id. The merge only
// happens after every fetch has completed: downstream stages never
// observe partial results.
func (r *Repo) FetchUnion(ctx context.Context, queries []*db.CoarseQuery) ([]entity.Entity, error) {
	if len(queries) == 1 {
		return r.Fetch(ctx, queries[0])
	}

	results := make([][]entity.Entity, len(queries))
	g, gctx := errgroup.WithContext(ctx)
	for i, q := range queries {
		i, q := i, q
		g.Go(func() error {
			fetched, err := r.Fetch(gctx, q)
			if err != nil {
				return err
			}
			results[i] = fetched
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	merged := make([]entity.Entity, 0)
	for _, batch := range results {
		for _, e := range batch {
			if _, ok := seen[e.ID()]; ok {
				continue
			}
			seen[e.ID()] = struct{}{}
			merged = append(merged, e)
		}
	}
	return merged, nil
}
