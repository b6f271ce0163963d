package search

import (
	"math"
	"sort"

	"github.com/ondo-cloud/proxi/internal/domain/entity"
	"github.com/ondo-cloud/proxi/internal/domain/geo"
	"github.com/ondo-cloud/proxi/internal/domain/search/request"
	"github.com/ondo-cloud/proxi/internal/domain/search/sortkey"
)

// rank orders the filtered candidates and applies lookahead pagination.
// It returns the page slice, the total filtered count for this call, and
// whether a next page exists.
func rank(items []entity.Entity, req *request.Request) ([]entity.Entity, int, bool) {
	if center := req.Center(); center != nil {
		sortByDistance(items, *center)
	} else {
		sortByKey(items, req.Sort())
	}

	total := len(items)
	page, size := req.Page(), req.PageSize()

	start := (page - 1) * size
	if start >= total {
		return []entity.Entity{}, total, false
	}

	// Take size+1 items: the extra one is the "has next page" signal and
	// is dropped before returning. No separate count query needed.
	end := start + size + 1
	if end > total {
		end = total
	}
	window := items[start:end]
	hasMore := len(window) > size
	if hasMore {
		window = window[:size]
	}

	out := make([]entity.Entity, len(window))
	copy(out, window)
	return out, total, hasMore
}

// sortByDistance orders ascending by great-circle distance to center,
// recomputed once per entity. Entities without coordinates sort last;
// ties break on recency (newest first).
func sortByDistance(items []entity.Entity, center geo.Coordinate) {
	dist := make([]float64, len(items))
	for i := range items {
		if anchor := items[i].Geo(); anchor != nil {
			dist[i] = geo.Distance(center, anchor.Coordinate)
		} else {
			dist[i] = math.Inf(1)
		}
	}
	idx := make([]int, len(items))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		if dist[idx[a]] != dist[idx[b]] {
			return dist[idx[a]] < dist[idx[b]]
		}
		return items[idx[a]].CreatedAt().After(items[idx[b]].CreatedAt())
	})
	reorder(items, idx)
}

func sortByKey(items []entity.Entity, key sortkey.Key) {
	less := func(a, b *entity.Entity) bool {
		return a.CreatedAt().After(b.CreatedAt()) // latest
	}

	switch key {
	case sortkey.Oldest:
		less = func(a, b *entity.Entity) bool {
			return a.CreatedAt().Before(b.CreatedAt())
		}
	case sortkey.PriceLow:
		less = func(a, b *entity.Entity) bool {
			pa, pb := priceOf(a, math.Inf(1)), priceOf(b, math.Inf(1))
			if pa != pb {
				return pa < pb
			}
			return a.CreatedAt().After(b.CreatedAt())
		}
	case sortkey.PriceHigh:
		less = func(a, b *entity.Entity) bool {
			pa, pb := priceOf(a, math.Inf(-1)), priceOf(b, math.Inf(-1))
			if pa != pb {
				return pa > pb
			}
			return a.CreatedAt().After(b.CreatedAt())
		}
	case sortkey.Popular:
		less = func(a, b *entity.Entity) bool {
			if a.Views() != b.Views() {
				return a.Views() > b.Views()
			}
			return a.CreatedAt().After(b.CreatedAt())
		}
	}

	sort.SliceStable(items, func(i, j int) bool {
		return less(&items[i], &items[j])
	})
}

func priceOf(e *entity.Entity, missing float64) float64 {
	if v, ok := e.Numeric(entity.FieldPrice); ok {
		return v
	}
	return missing
}

// reorder applies a permutation in place.
func reorder(items []entity.Entity, idx []int) {
	tmp := make([]entity.Entity, len(items))
	for i, j := range idx {
		tmp[i] = items[j]
	}
	copy(items, tmp)
}
