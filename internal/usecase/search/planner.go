package search

import (
	"math"

	"github.com/ondo-cloud/proxi/internal/db"
	"github.com/ondo-cloud/proxi/internal/domain/entity"
	"github.com/ondo-cloud/proxi/internal/domain/geo"
	"github.com/ondo-cloud/proxi/internal/domain/search/request"
)

// Plan is the store-native portion of a search request. Everything the
// store cannot express stays out of the plan and is applied by the filter
// pipeline after the fetch.
type Plan struct {
	// Queries usually holds one coarse query; an ownership-scoped search
	// produces two (buyer scope and seller scope) fetched concurrently
	// and unioned.
	Queries []*db.CoarseQuery
	// Box is set when the single range clause was spent on geography.
	Box *geo.BoundingBox
}

// BuildPlan decides what the store executes natively versus what defers
// to the in-memory pipeline, against the store capability:
//
//   - the one allowed range clause goes to the bounding box when a
//     bounded geo search is requested, otherwise to the price range,
//     falling back to the area range when no price bounds were given;
//   - single-status and single-category facets become equality clauses;
//   - small-cardinality memberships (statuses, regions) execute natively
//     as unions, larger ones defer;
//   - everything else (exact radius, booleans, remaining ranges, text)
//     always defers.
func BuildPlan(req *request.Request, cap db.Capability) *Plan {
	plan := &Plan{}

	base := db.CoarseQuery{Kind: string(req.Kind())}

	statuses := req.Statuses()
	if len(statuses) == 1 {
		base.Equalities = append(base.Equalities,
			db.Equality{Field: "status", Value: string(statuses[0])})
	} else if len(statuses) <= cap.MaxInValues {
		values := make([]string, len(statuses))
		for i, s := range statuses {
			values[i] = string(s)
		}
		base.In = append(base.In, db.InClause{Field: "status", Values: values})
	}

	if c := req.Category(); c != "" {
		base.Equalities = append(base.Equalities,
			db.Equality{Field: entity.FieldCategory, Value: c})
	}

	if regions := req.Regions(); len(regions) > 0 && len(regions) <= cap.MaxInValues {
		base.In = append(base.In, db.InClause{Field: "region", Values: regions})
	}

	rangeBudget := cap.MaxRangeClauses

	if req.HasGeo() && rangeBudget > 0 {
		box := geo.BoundingBoxAround(*req.Center(), req.RadiusKm())
		plan.Box = &box
		base.Range = &db.RangeClause{
			Field: "lat",
			Min:   box.SouthWest.Lat,
			Max:   box.NorthEast.Lat,
		}
		rangeBudget--
	}

	if base.Range == nil && rangeBudget > 0 {
		base.Range = numericRangeClause(req)
	}

	participant := req.Participant()
	if participant == "" {
		q := base
		plan.Queries = []*db.CoarseQuery{&q}
		return plan
	}

	// Ownership scope: the store cannot OR across fields, so "mine" is
	// the union of two single-field queries.
	for _, field := range []string{entity.FieldBuyer, entity.FieldSeller} {
		q := base
		q.Equalities = append(append([]db.Equality(nil), base.Equalities...),
			db.Equality{Field: field, Value: participant})
		plan.Queries = append(plan.Queries, &q)
	}
	return plan
}

// numericRangeClause spends the remaining range clause on the price
// bounds, falling back to the area bounds. Other numeric ranges stay in
// the pipeline. Returns nil when neither range was requested.
func numericRangeClause(req *request.Request) *db.RangeClause {
	bounds := []struct {
		field    string
		min, max *float64
	}{
		{entity.FieldPrice, nil, nil},
		{entity.FieldArea, nil, nil},
	}
	bounds[0].min, bounds[0].max = req.PriceBounds()
	bounds[1].min, bounds[1].max = req.AreaBounds()

	for _, b := range bounds {
		if b.min == nil && b.max == nil {
			continue
		}
		clause := &db.RangeClause{Field: b.field, Min: 0, Max: math.MaxFloat64}
		if b.min != nil {
			clause.Min = *b.min
		}
		if b.max != nil {
			clause.Max = *b.max
		}
		return clause
	}
	return nil
}
