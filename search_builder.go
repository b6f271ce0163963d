package proxi

import (
	"context"

	"github.com/ondo-cloud/proxi/internal/domain/entity"
	"github.com/ondo-cloud/proxi/internal/domain/geo"
	"github.com/ondo-cloud/proxi/internal/domain/search/request"
	"github.com/ondo-cloud/proxi/internal/domain/search/sortkey"
)

// QueryBuilder is a fluent builder for search queries.
type QueryBuilder struct {
	scope *Scope
	p     request.Params
}

// Near sets the geographic center point for proximity search.
func (b *QueryBuilder) Near(lat, lng float64) *QueryBuilder {
	b.p.Center = &geo.Coordinate{Lat: lat, Lng: lng}
	return b
}

// Km sets the search radius in kilometers.
func (b *QueryBuilder) Km(radius float64) *QueryBuilder {
	b.p.RadiusKm = radius
	return b
}

// Query sets the free-text substring query.
func (b *QueryBuilder) Query(q string) *QueryBuilder {
	b.p.TextQuery = q
	return b
}

// Category filters by exact category.
func (b *QueryBuilder) Category(c string) *QueryBuilder {
	b.p.Category = c
	return b
}

// Regions filters by region membership.
func (b *QueryBuilder) Regions(regions ...string) *QueryBuilder {
	b.p.Regions = regions
	return b
}

// Conditions filters by item condition membership.
func (b *QueryBuilder) Conditions(conditions ...string) *QueryBuilder {
	b.p.Conditions = conditions
	return b
}

// TradeMethods filters by trade method membership.
func (b *QueryBuilder) TradeMethods(methods ...string) *QueryBuilder {
	b.p.TradeMethods = methods
	return b
}

// Brands filters by brand membership.
func (b *QueryBuilder) Brands(brands ...string) *QueryBuilder {
	b.p.Brands = brands
	return b
}

// PriceMin sets the inclusive lower price bound.
func (b *QueryBuilder) PriceMin(v float64) *QueryBuilder {
	b.p.PriceMin = &v
	return b
}

// PriceMax sets the inclusive upper price bound.
func (b *QueryBuilder) PriceMax(v float64) *QueryBuilder {
	b.p.PriceMax = &v
	return b
}

// AreaMin sets the inclusive lower area bound.
func (b *QueryBuilder) AreaMin(v float64) *QueryBuilder {
	b.p.AreaMin = &v
	return b
}

// AreaMax sets the inclusive upper area bound.
func (b *QueryBuilder) AreaMax(v float64) *QueryBuilder {
	b.p.AreaMax = &v
	return b
}

// SizeMin sets the inclusive lower size bound.
func (b *QueryBuilder) SizeMin(v float64) *QueryBuilder {
	b.p.SizeMin = &v
	return b
}

// SizeMax sets the inclusive upper size bound.
func (b *QueryBuilder) SizeMax(v float64) *QueryBuilder {
	b.p.SizeMax = &v
	return b
}

// Delivery filters by delivery availability.
func (b *QueryBuilder) Delivery(v bool) *QueryBuilder {
	b.p.Delivery = &v
	return b
}

// Negotiable filters by price negotiability.
func (b *QueryBuilder) Negotiable(v bool) *QueryBuilder {
	b.p.Negotiable = &v
	return b
}

// Parking filters by parking availability.
func (b *QueryBuilder) Parking(v bool) *QueryBuilder {
	b.p.Parking = &v
	return b
}

// Participant scopes the search to listings where the given id is the
// buyer or the seller.
func (b *QueryBuilder) Participant(id string) *QueryBuilder {
	b.p.Participant = id
	return b
}

// Statuses overrides the default active-only status filter.
func (b *QueryBuilder) Statuses(statuses ...Status) *QueryBuilder {
	b.p.Statuses = b.p.Statuses[:0]
	for _, s := range statuses {
		b.p.Statuses = append(b.p.Statuses, entity.Status(s))
	}
	return b
}

// Sort sets the ordering key. Ignored when a center point is set:
// proximity search always orders by distance.
func (b *QueryBuilder) Sort(s Sort) *QueryBuilder {
	b.p.Sort = sortkey.Key(s)
	return b
}

// Page sets the 1-based page number.
func (b *QueryBuilder) Page(n int) *QueryBuilder {
	b.p.Page = n
	return b
}

// PageSize sets the page size.
func (b *QueryBuilder) PageSize(n int) *QueryBuilder {
	b.p.PageSize = n
	return b
}

// Do executes the search.
func (b *QueryBuilder) Do(ctx context.Context) (Page, error) {
	return b.scope.runSearch(ctx, b.p)
}
