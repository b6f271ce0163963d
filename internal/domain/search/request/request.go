package request

import (
	"fmt"
	"strings"

	"github.com/ondo-cloud/proxi/internal/domain"
	"github.com/ondo-cloud/proxi/internal/domain/entity"
	"github.com/ondo-cloud/proxi/internal/domain/search/filter"
	"github.com/ondo-cloud/proxi/internal/domain/geo"
	"github.com/ondo-cloud/proxi/internal/domain/search/sortkey"
)

// Pagination limits.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
	// MaxQueryLength is the maximum allowed text query length.
	MaxQueryLength = 256
)

// Params is the raw, loosely-typed search input prior to validation.
// Pointer fields distinguish "absent" from zero; absence means "don't
// care". Negative radius and range bounds are normalized to "no
// constraint" rather than rejected (long-standing behavior the product
// depends on).
type Params struct {
	Center   *geo.Coordinate
	RadiusKm float64

	TextQuery string

	Category     string
	Regions      []string
	Conditions   []string
	TradeMethods []string
	Brands       []string

	PriceMin, PriceMax *float64
	AreaMin, AreaMax   *float64
	SizeMin, SizeMax   *float64

	Delivery   *bool
	Negotiable *bool
	Parking    *bool

	// Participant scopes listing search to "mine": the union of listings
	// where the id is the buyer and where it is the seller.
	Participant string

	Statuses []entity.Status

	Sort     sortkey.Key
	Page     int
	PageSize int
}

// Request is a validated, immutable search request.
type Request struct {
	kind     entity.Kind
	center   *geo.Coordinate
	radiusKm float64
	text     string

	participant string
	statuses    []entity.Status

	sort     sortkey.Key
	page     int
	pageSize int

	preds      []filter.Predicate
	categoryEq string
	regions    []string
	priceMin   *float64
	priceMax   *float64
	areaMin    *float64
	areaMax    *float64
}

// New validates and normalizes a search request for the given entity kind.
// Defaults: sort=latest, page=1, pageSize=20, statuses=[active].
func New(kind entity.Kind, p Params) (Request, error) {
	if !kind.IsValid() {
		return Request{}, fmt.Errorf("%w: invalid entity kind %q", domain.ErrInvalidRequest, kind)
	}
	if p.Center != nil && !p.Center.Valid() {
		return Request{}, fmt.Errorf("%w: lat=%f lng=%f",
			domain.ErrInvalidCoordinate, p.Center.Lat, p.Center.Lng)
	}
	if len(p.TextQuery) > MaxQueryLength {
		return Request{}, fmt.Errorf("%w: text query too long (max %d chars)",
			domain.ErrInvalidRequest, MaxQueryLength)
	}

	sort := p.Sort
	if sort == "" {
		sort = sortkey.Latest
	}
	if !sort.IsValid() {
		return Request{}, fmt.Errorf("%w: invalid sort key %q", domain.ErrInvalidRequest, p.Sort)
	}

	page := p.Page
	if page < 1 {
		page = 1
	}
	pageSize := p.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	statuses := p.Statuses
	if len(statuses) == 0 {
		statuses = []entity.Status{entity.StatusActive}
	}
	for _, s := range statuses {
		if !s.IsValid() {
			return Request{}, fmt.Errorf("%w: invalid status %q", domain.ErrInvalidRequest, s)
		}
	}

	radius := p.RadiusKm
	if radius < 0 {
		radius = 0 // no constraint, not an error
	}

	r := Request{
		kind:        kind,
		center:      p.Center,
		radiusKm:    radius,
		text:        strings.TrimSpace(p.TextQuery),
		participant: p.Participant,
		statuses:    statuses,
		sort:        sort,
		page:        page,
		pageSize:    pageSize,
		categoryEq:  p.Category,
		regions:     append([]string(nil), p.Regions...),
		priceMin:    dropNonPositive(p.PriceMin),
		priceMax:    dropNonPositive(p.PriceMax),
		areaMin:     dropNonPositive(p.AreaMin),
		areaMax:     dropNonPositive(p.AreaMax),
	}

	preds, err := buildPredicates(&r, p)
	if err != nil {
		return Request{}, fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err)
	}
	r.preds = preds

	return r, nil
}

// buildPredicates assembles the in-memory filter pipeline for the
// request. Every facet appears here even when the planner also pushes it
// down natively; predicates are idempotent, so re-checking fetched
// candidates keeps the pipeline uniform regardless of how much the store
// could execute.
func buildPredicates(r *Request, p Params) ([]filter.Predicate, error) {
	var preds []filter.Predicate

	add := func(pred filter.Predicate, err error) error {
		if err != nil {
			return err
		}
		preds = append(preds, pred)
		return nil
	}

	if r.center != nil && r.radiusKm > 0 {
		if err := add(filter.NewGeoRadius(*r.center, r.radiusKm)); err != nil {
			return nil, err
		}
	}
	if p.Category != "" {
		if err := add(filter.NewEq(entity.FieldCategory, p.Category)); err != nil {
			return nil, err
		}
	}
	memberships := []struct {
		field  string
		values []string
	}{
		{"region", p.Regions},
		{entity.FieldCondition, p.Conditions},
		{entity.FieldTradeMethod, p.TradeMethods},
		{entity.FieldBrand, p.Brands},
	}
	for _, m := range memberships {
		if len(m.values) == 0 {
			continue
		}
		if err := add(filter.NewIn(m.field, m.values)); err != nil {
			return nil, err
		}
	}

	statuses := make([]string, len(r.statuses))
	for i, s := range r.statuses {
		statuses[i] = string(s)
	}
	if err := add(filter.NewIn("status", statuses)); err != nil {
		return nil, err
	}

	booleans := []struct {
		field string
		value *bool
	}{
		{entity.FieldDelivery, p.Delivery},
		{entity.FieldNegotiable, p.Negotiable},
		{entity.FieldParking, p.Parking},
	}
	for _, b := range booleans {
		if b.value == nil {
			continue // absence means "don't care", not "require false"
		}
		if err := add(filter.NewBool(b.field, *b.value)); err != nil {
			return nil, err
		}
	}

	ranges := []struct {
		field    string
		min, max *float64
	}{
		{entity.FieldPrice, p.PriceMin, p.PriceMax},
		{entity.FieldArea, p.AreaMin, p.AreaMax},
		{entity.FieldSize, p.SizeMin, p.SizeMax},
	}
	for _, rng := range ranges {
		min, max := dropNonPositive(rng.min), dropNonPositive(rng.max)
		if min == nil && max == nil {
			continue
		}
		if err := add(filter.NewRange(rng.field, min, max)); err != nil {
			return nil, err
		}
	}

	if r.text != "" {
		if err := add(filter.NewTextContains(r.text)); err != nil {
			return nil, err
		}
	}

	return preds, nil
}

// Kind returns the entity kind being searched.
func (r *Request) Kind() entity.Kind { return r.kind }

// Center returns the geo center, nil when geographic search is off.
func (r *Request) Center() *geo.Coordinate { return r.center }

// RadiusKm returns the search radius (0 means unconstrained).
func (r *Request) RadiusKm() float64 { return r.radiusKm }

// HasGeo reports whether a bounded proximity search was requested.
func (r *Request) HasGeo() bool { return r.center != nil && r.radiusKm > 0 }

// Text returns the trimmed free-text query ("" when absent).
func (r *Request) Text() string { return r.text }

// Participant returns the ownership-scope id ("" when absent).
func (r *Request) Participant() string { return r.participant }

// Statuses returns the requested lifecycle states.
func (r *Request) Statuses() []entity.Status { return r.statuses }

// Sort returns the result ordering key.
func (r *Request) Sort() sortkey.Key { return r.sort }

// Page returns the 1-based page number.
func (r *Request) Page() int { return r.page }

// PageSize returns the page size.
func (r *Request) PageSize() int { return r.pageSize }

// Predicates returns the in-memory filter pipeline for the request.
func (r *Request) Predicates() []filter.Predicate { return r.preds }

// Category returns the single category facet ("" when absent); the
// planner may push it down as a native equality clause.
func (r *Request) Category() string { return r.categoryEq }

// Regions returns the region membership facet (empty when absent); the
// planner may push it down as a native membership clause when small.
func (r *Request) Regions() []string { return r.regions }

// PriceBounds returns the normalized price range (nil side unbounded);
// the planner may spend the native range clause on it when no geo center
// is present.
func (r *Request) PriceBounds() (min, max *float64) { return r.priceMin, r.priceMax }

// AreaBounds returns the normalized area range (nil side unbounded); the
// planner falls back to it for the native range clause when no price
// range is present.
func (r *Request) AreaBounds() (min, max *float64) { return r.areaMin, r.areaMax }

func dropNonPositive(b *float64) *float64 {
	if b == nil || *b <= 0 {
		return nil
	}
	return b
}
