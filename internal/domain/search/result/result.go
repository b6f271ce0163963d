package result

import "github.com/ondo-cloud/proxi/internal/domain/entity"

// Result is the search response envelope. Total is the in-memory
// filtered count for this call, not a global store count; that
// approximation is deliberate (no separate count query is issued).
// Page and limit are the values the engine actually applied after
// defaulting and clamping, not whatever the caller sent.
type Result struct {
	items   []entity.Entity
	total   int
	hasMore bool
	page    int
	limit   int
}

// New creates a result envelope for the given applied page and limit.
func New(items []entity.Entity, total int, hasMore bool, page, limit int) Result {
	return Result{items: items, total: total, hasMore: hasMore, page: page, limit: limit}
}

// Empty is the fail-soft envelope returned on store failure.
func Empty(page, limit int) Result {
	return Result{items: []entity.Entity{}, page: page, limit: limit}
}

// Items returns the page of entities in rank order.
func (r *Result) Items() []entity.Entity { return r.items }

// Total returns the filtered candidate count for this call.
func (r *Result) Total() int { return r.total }

// HasMore reports whether a next page exists (one-step lookahead).
func (r *Result) HasMore() bool { return r.hasMore }

// Page returns the applied 1-based page number.
func (r *Result) Page() int { return r.page }

// Limit returns the applied page size.
func (r *Result) Limit() int { return r.limit }

// Page is the pagination metadata attached to list responses.
type Page struct {
	Page    int
	Limit   int
	Total   int
	HasNext bool
	HasPrev bool
}

// Pagination derives the pagination metadata block.
func (r *Result) Pagination() Page {
	return Page{
		Page:    r.page,
		Limit:   r.limit,
		Total:   r.total,
		HasNext: r.hasMore,
		HasPrev: r.page > 1,
	}
}
