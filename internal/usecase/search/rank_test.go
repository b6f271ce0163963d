package search

import (
	"testing"
	"time"

	"github.com/ondo-cloud/proxi/internal/domain/entity"
	"github.com/ondo-cloud/proxi/internal/domain/geo"
	"github.com/ondo-cloud/proxi/internal/domain/search/request"
	"github.com/ondo-cloud/proxi/internal/domain/search/sortkey"
)

var rankEpoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func candidate(id string, lat float64, price float64, views int64, age time.Duration) entity.Entity {
	var anchor *entity.GeoAnchor
	if lat != 0 {
		anchor = &entity.GeoAnchor{Coordinate: geo.Coordinate{Lat: lat, Lng: 127.0}}
	}
	numerics := map[string]float64{}
	if price > 0 {
		numerics[entity.FieldPrice] = price
	}
	return entity.Reconstruct(
		id, entity.KindListing, anchor, nil, numerics, nil,
		[]string{"t"}, rankEpoch.Add(-age), entity.StatusActive, views,
	)
}

func TestRank_DistanceAscending(t *testing.T) {
	req := mustRequest(t, entity.KindListing, request.Params{
		Center: &geo.Coordinate{Lat: 37.5, Lng: 127.0}, RadiusKm: 100,
	})
	items := []entity.Entity{
		candidate("far", 37.9, 0, 0, time.Hour),
		candidate("near", 37.51, 0, 0, time.Hour),
		candidate("mid", 37.6, 0, 0, time.Hour),
	}
	got, total, _ := rank(items, &req)
	if total != 3 {
		t.Fatalf("want total 3, got %d", total)
	}
	if got[0].ID() != "near" || got[1].ID() != "mid" || got[2].ID() != "far" {
		t.Fatalf("wrong distance order: %s %s %s", got[0].ID(), got[1].ID(), got[2].ID())
	}
}

func TestRank_DistanceTieBreaksOnRecency(t *testing.T) {
	req := mustRequest(t, entity.KindListing, request.Params{
		Center: &geo.Coordinate{Lat: 37.5, Lng: 127.0}, RadiusKm: 100,
	})
	items := []entity.Entity{
		candidate("old", 37.51, 0, 0, 48*time.Hour),
		candidate("new", 37.51, 0, 0, time.Hour),
	}
	got, _, _ := rank(items, &req)
	if got[0].ID() != "new" {
		t.Fatalf("equidistant tie should favor newest, got %s first", got[0].ID())
	}
}

func TestRank_MissingCoordinatesSortLast(t *testing.T) {
	req := mustRequest(t, entity.KindListing, request.Params{
		Center: &geo.Coordinate{Lat: 37.5, Lng: 127.0},
	})
	items := []entity.Entity{
		candidate("nogeo", 0, 0, 0, time.Hour),
		candidate("near", 37.51, 0, 0, time.Hour),
	}
	got, _, _ := rank(items, &req)
	if got[len(got)-1].ID() != "nogeo" {
		t.Fatal("entity without coordinates should sort last, not crash")
	}
}

func TestRank_SortKeys(t *testing.T) {
	items := func() []entity.Entity {
		return []entity.Entity{
			candidate("a", 0, 300, 5, 3*time.Hour),
			candidate("b", 0, 100, 50, 1*time.Hour),
			candidate("c", 0, 200, 20, 2*time.Hour),
		}
	}

	tests := []struct {
		key  sortkey.Key
		want []string
	}{
		{sortkey.Latest, []string{"b", "c", "a"}},
		{sortkey.Oldest, []string{"a", "c", "b"}},
		{sortkey.PriceLow, []string{"b", "c", "a"}},
		{sortkey.PriceHigh, []string{"a", "c", "b"}},
		{sortkey.Popular, []string{"b", "c", "a"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.key), func(t *testing.T) {
			req := mustRequest(t, entity.KindListing, request.Params{Sort: tt.key})
			got, _, _ := rank(items(), &req)
			for i, want := range tt.want {
				if got[i].ID() != want {
					t.Fatalf("%s: position %d want %s got %s", tt.key, i, want, got[i].ID())
				}
			}
		})
	}
}

func TestRank_PaginationLookahead(t *testing.T) {
	items := []entity.Entity{
		candidate("a", 0, 0, 0, 1*time.Hour),
		candidate("b", 0, 0, 0, 2*time.Hour),
		candidate("c", 0, 0, 0, 3*time.Hour),
	}

	page1 := mustRequest(t, entity.KindListing, request.Params{Page: 1, PageSize: 2})
	got, total, hasMore := rank(append([]entity.Entity(nil), items...), &page1)
	if len(got) != 2 || !hasMore || total != 3 {
		t.Fatalf("page 1: len=%d hasMore=%v total=%d", len(got), hasMore, total)
	}

	page2 := mustRequest(t, entity.KindListing, request.Params{Page: 2, PageSize: 2})
	got2, _, hasMore2 := rank(append([]entity.Entity(nil), items...), &page2)
	if len(got2) != 1 || hasMore2 {
		t.Fatalf("page 2: len=%d hasMore=%v", len(got2), hasMore2)
	}

	// No entity skipped or duplicated across consecutive pages.
	seen := map[string]int{}
	for _, e := range got {
		seen[e.ID()]++
	}
	for _, e := range got2 {
		seen[e.ID()]++
	}
	if len(seen) != 3 {
		t.Fatalf("pages should cover all 3 entities exactly once, got %v", seen)
	}
	for id, n := range seen {
		if n != 1 {
			t.Fatalf("entity %s appeared %d times", id, n)
		}
	}
}

func TestRank_ExactBoundaryPage(t *testing.T) {
	items := []entity.Entity{
		candidate("a", 0, 0, 0, 1*time.Hour),
		candidate("b", 0, 0, 0, 2*time.Hour),
	}
	req := mustRequest(t, entity.KindListing, request.Params{Page: 1, PageSize: 2})
	got, _, hasMore := rank(items, &req)
	if len(got) != 2 || hasMore {
		t.Fatalf("N==P should fill the page with hasMore=false, got len=%d hasMore=%v", len(got), hasMore)
	}
}

func TestRank_PageBeyondEnd(t *testing.T) {
	items := []entity.Entity{candidate("a", 0, 0, 0, time.Hour)}
	req := mustRequest(t, entity.KindListing, request.Params{Page: 9, PageSize: 20})
	got, total, hasMore := rank(items, &req)
	if len(got) != 0 || hasMore || total != 1 {
		t.Fatalf("page beyond end: len=%d hasMore=%v total=%d", len(got), hasMore, total)
	}
}
