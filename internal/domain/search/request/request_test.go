package request

import (
	"errors"
	"testing"

	"github.com/ondo-cloud/proxi/internal/domain"
	"github.com/ondo-cloud/proxi/internal/domain/entity"
	"github.com/ondo-cloud/proxi/internal/domain/geo"
	"github.com/ondo-cloud/proxi/internal/domain/search/sortkey"
)

func f64(v float64) *float64 { return &v }

func TestNew_Defaults(t *testing.T) {
	r, err := New(entity.KindListing, Params{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Sort() != sortkey.Latest {
		t.Fatalf("default sort should be latest, got %s", r.Sort())
	}
	if r.Page() != 1 || r.PageSize() != DefaultPageSize {
		t.Fatalf("default pagination wrong: page=%d size=%d", r.Page(), r.PageSize())
	}
	if got := r.Statuses(); len(got) != 1 || got[0] != entity.StatusActive {
		t.Fatalf("default statuses wrong: %v", got)
	}
	if r.HasGeo() {
		t.Fatal("no center should mean no geo search")
	}
}

func TestNew_RejectsInvalidCoordinates(t *testing.T) {
	_, err := New(entity.KindVenue, Params{
		Center: &geo.Coordinate{Lat: 91, Lng: 0}, RadiusKm: 5,
	})
	if !errors.Is(err, domain.ErrInvalidCoordinate) {
		t.Fatalf("want ErrInvalidCoordinate, got %v", err)
	}
}

func TestNew_NegativeRadiusBecomesUnconstrained(t *testing.T) {
	r, err := New(entity.KindVenue, Params{
		Center: &geo.Coordinate{Lat: 37.5, Lng: 127.0}, RadiusKm: -3,
	})
	if err != nil {
		t.Fatalf("negative radius must not be an error: %v", err)
	}
	if r.RadiusKm() != 0 || r.HasGeo() {
		t.Fatalf("negative radius should normalize to no constraint, got %f", r.RadiusKm())
	}
	if r.Center() == nil {
		t.Fatal("center should survive for distance ordering")
	}
}

func TestNew_NegativeBoundsBecomeUnbounded(t *testing.T) {
	r, err := New(entity.KindListing, Params{
		PriceMin: f64(-100), PriceMax: f64(50000),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	min, max := r.PriceBounds()
	if min != nil {
		t.Fatalf("negative min should be dropped, got %f", *min)
	}
	if max == nil || *max != 50000 {
		t.Fatal("max bound lost")
	}
}

func TestNew_PageSizeClamped(t *testing.T) {
	r, err := New(entity.KindListing, Params{Page: -2, PageSize: 10_000})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Page() != 1 || r.PageSize() != MaxPageSize {
		t.Fatalf("clamping wrong: page=%d size=%d", r.Page(), r.PageSize())
	}
}

func TestNew_InvalidSortRejected(t *testing.T) {
	_, err := New(entity.KindListing, Params{Sort: "cheapest"})
	if !errors.Is(err, domain.ErrInvalidRequest) {
		t.Fatalf("want ErrInvalidRequest, got %v", err)
	}
}

func TestNew_InvalidKindRejected(t *testing.T) {
	_, err := New(entity.Kind("shop"), Params{})
	if !errors.Is(err, domain.ErrInvalidRequest) {
		t.Fatalf("want ErrInvalidRequest, got %v", err)
	}
}

func TestPredicates_GeoFacetsAndText(t *testing.T) {
	r, err := New(entity.KindListing, Params{
		Center:   &geo.Coordinate{Lat: 37.5, Lng: 127.0},
		RadiusKm: 5,
		Category: "camera",
		Brands:   []string{"Canon", "Nikon"},
		PriceMin: f64(10000), PriceMax: f64(50000),
		Negotiable: boolPtr(true),
		TextQuery:  "  EOS ",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var hasGeo, hasRange, hasEq bool
	for _, p := range r.Predicates() {
		if p.IsGeoRadius() {
			hasGeo = true
		}
		if p.IsRange() && p.Field() == entity.FieldPrice {
			hasRange = true
		}
		if p.IsEq() && p.Field() == entity.FieldCategory {
			hasEq = true
		}
	}
	if !hasGeo || !hasRange || !hasEq {
		t.Fatalf("predicate list incomplete: geo=%v range=%v eq=%v", hasGeo, hasRange, hasEq)
	}
	if r.Text() != "EOS" {
		t.Fatalf("text not trimmed: %q", r.Text())
	}
}

func TestPredicates_EmptyRequestCarriesOnlyStatus(t *testing.T) {
	r, err := New(entity.KindVenue, Params{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// The implicit active-status membership is the only predicate.
	if n := len(r.Predicates()); n != 1 {
		t.Fatalf("want 1 predicate (status), got %d", n)
	}
}

func boolPtr(b bool) *bool { return &b }
