package filter

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ondo-cloud/proxi/internal/domain/entity"
	"github.com/ondo-cloud/proxi/internal/domain/geo"
)

// Stage orders predicate evaluation. The radius cut runs first because it
// is the most selective stage when geo search is active; the cheap string
// containment check runs last.
type Stage int

// Pipeline stages in evaluation order.
const (
	StageGeo Stage = iota
	StageSet
	StageBool
	StageRange
	StageText
)

type kind int

const (
	kindEq kind = iota
	kindIn
	kindRange
	kindBool
	kindText
	kindGeoRadius
)

// Predicate is a single filter clause over one attribute: an equality,
// a set membership, an inclusive numeric range, a boolean match, a
// substring text match, or an exact geo radius cut.
type Predicate struct {
	kind  kind
	field string

	eq       string
	in       []string
	min, max *float64
	boolVal  bool
	text     string
	center   geo.Coordinate
	radiusKm float64
}

// NewEq creates an exact string match predicate.
func NewEq(field, value string) (Predicate, error) {
	if field == "" {
		return Predicate{}, fmt.Errorf("filter field is required")
	}
	if value == "" {
		return Predicate{}, fmt.Errorf("match value is required for field %q", field)
	}
	return Predicate{kind: kindEq, field: field, eq: value}, nil
}

// NewIn creates a set membership predicate.
func NewIn(field string, values []string) (Predicate, error) {
	if field == "" {
		return Predicate{}, fmt.Errorf("filter field is required")
	}
	if len(values) == 0 {
		return Predicate{}, fmt.Errorf("at least one value is required for field %q", field)
	}
	return Predicate{kind: kindIn, field: field, in: append([]string(nil), values...)}, nil
}

// NewRange creates an inclusive numeric range predicate. A nil or
// non-positive bound is unbounded on that side; at least one effective
// bound is required.
func NewRange(field string, min, max *float64) (Predicate, error) {
	if field == "" {
		return Predicate{}, fmt.Errorf("filter field is required")
	}
	min = normalizeBound(min)
	max = normalizeBound(max)
	if min == nil && max == nil {
		return Predicate{}, fmt.Errorf("at least one range bound is required for field %q", field)
	}
	return Predicate{kind: kindRange, field: field, min: min, max: max}, nil
}

// NewBool creates a strict boolean match predicate. Callers skip the
// predicate entirely when the facet is absent; absence means "don't
// care", not "require false".
func NewBool(field string, value bool) (Predicate, error) {
	if field == "" {
		return Predicate{}, fmt.Errorf("filter field is required")
	}
	return Predicate{kind: kindBool, field: field, boolVal: value}, nil
}

// NewTextContains creates a case-folded substring match predicate over
// the entity search blob. Binary hit, not ranked.
func NewTextContains(query string) (Predicate, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return Predicate{}, fmt.Errorf("text query is required")
	}
	return Predicate{kind: kindText, text: q}, nil
}

// NewGeoRadius creates an exact great-circle radius cut. This is the
// stage that corrects the planner's over-inclusive bounding box.
func NewGeoRadius(center geo.Coordinate, radiusKm float64) (Predicate, error) {
	if !center.Valid() {
		return Predicate{}, fmt.Errorf("invalid center coordinates: lat=%f lng=%f", center.Lat, center.Lng)
	}
	if radiusKm <= 0 {
		return Predicate{}, fmt.Errorf("radius must be positive, got %f", radiusKm)
	}
	return Predicate{kind: kindGeoRadius, center: center, radiusKm: radiusKm}, nil
}

// Stage returns the pipeline stage the predicate runs in.
func (p Predicate) Stage() Stage {
	switch p.kind {
	case kindGeoRadius:
		return StageGeo
	case kindEq, kindIn:
		return StageSet
	case kindBool:
		return StageBool
	case kindRange:
		return StageRange
	default:
		return StageText
	}
}

// Field returns the attribute name the predicate applies to ("" for text
// and geo predicates).
func (p Predicate) Field() string { return p.field }

// IsGeoRadius reports whether this is the exact radius cut.
func (p Predicate) IsGeoRadius() bool { return p.kind == kindGeoRadius }

// IsRange reports whether this is a numeric range clause.
func (p Predicate) IsRange() bool { return p.kind == kindRange }

// IsEq reports whether this is an exact string match.
func (p Predicate) IsEq() bool { return p.kind == kindEq }

// EqValue returns the exact match value.
func (p Predicate) EqValue() string { return p.eq }

// Bounds returns the range bounds (nil side is unbounded).
func (p Predicate) Bounds() (min, max *float64) { return p.min, p.max }

// Matches reports whether the entity satisfies the predicate.
func (p Predicate) Matches(e *entity.Entity) bool {
	switch p.kind {
	case kindEq:
		return stringField(e, p.field) == p.eq
	case kindIn:
		v := stringField(e, p.field)
		for _, want := range p.in {
			if v == want {
				return true
			}
		}
		return false
	case kindRange:
		v, ok := e.Numeric(p.field)
		if !ok {
			return false
		}
		if p.min != nil && v < *p.min {
			return false
		}
		if p.max != nil && v > *p.max {
			return false
		}
		return true
	case kindBool:
		v, _ := e.Bool(p.field) // absent attribute reads as false
		return v == p.boolVal
	case kindText:
		return strings.Contains(e.SearchBlob(), p.text)
	case kindGeoRadius:
		anchor := e.Geo()
		if anchor == nil {
			return false // no coordinate: infinitely far, never crashes the cut
		}
		return geo.Distance(p.center, anchor.Coordinate) <= p.radiusKm
	default:
		return false
	}
}

// Apply runs the predicates over the candidates in fixed stage order and
// returns the survivors. An empty predicate list is the identity: the
// input is returned unchanged in content and order.
func Apply(preds []Predicate, candidates []entity.Entity) []entity.Entity {
	if len(preds) == 0 {
		return candidates
	}

	ordered := make([]Predicate, len(preds))
	copy(ordered, preds)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Stage() < ordered[j].Stage()
	})

	kept := candidates
	for _, p := range ordered {
		out := make([]entity.Entity, 0, len(kept))
		for i := range kept {
			if p.Matches(&kept[i]) {
				out = append(out, kept[i])
			}
		}
		kept = out
	}
	return kept
}

// stringField resolves a string attribute, including the denormalized
// region label and the lifecycle status.
func stringField(e *entity.Entity, field string) string {
	switch field {
	case "region":
		if anchor := e.Geo(); anchor != nil {
			return anchor.Region
		}
		return ""
	case "status":
		return string(e.Status())
	default:
		v, _ := e.Tag(field)
		return v
	}
}

func normalizeBound(b *float64) *float64 {
	if b == nil || *b <= 0 {
		return nil
	}
	return b
}
