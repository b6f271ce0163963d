package entity

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/ondo-cloud/proxi/internal/domain/geo"
)

var idRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// Kind discriminates the searchable entity variants.
type Kind string

// Entity kinds.
const (
	// KindVenue is a physical venue (studio).
	KindVenue Kind = "venue"
	// KindListing is a marketplace listing.
	KindListing Kind = "listing"
)

// IsValid checks if the kind is one of the supported values.
func (k Kind) IsValid() bool { return k == KindVenue || k == KindListing }

// Status is the entity lifecycle state.
type Status string

// Entity statuses.
const (
	StatusActive Status = "active"
	StatusHidden Status = "hidden"
	StatusSold   Status = "sold"
)

// IsValid checks if the status is one of the supported values.
func (s Status) IsValid() bool {
	return s == StatusActive || s == StatusHidden || s == StatusSold
}

// Well-known attribute field names shared by the planner, the filter
// pipeline, and the storage index layer.
const (
	FieldCategory    = "category"
	FieldCondition   = "condition"
	FieldTradeMethod = "trade_method"
	FieldBrand       = "brand"
	FieldSeller      = "seller"
	FieldBuyer       = "buyer"

	FieldPrice = "price"
	FieldArea  = "area"
	FieldSize  = "size"

	FieldParking    = "parking"
	FieldDelivery   = "delivery"
	FieldNegotiable = "negotiable"
)

// GeoAnchor is the stored geographic representation of an entity.
// Geohash and Region are computed once at write time; Region is a
// denormalized nearest-gazetteer-entry label, never re-derived on read.
type GeoAnchor struct {
	Coordinate geo.Coordinate
	Geohash    string
	Region     string
}

// Entity is a searchable venue or listing (immutable value object).
// The search engine only reads entities; mutation happens through the
// catalog write path which produces a fresh value.
type Entity struct {
	id        string
	kind      Kind
	anchor    *GeoAnchor
	tags      map[string]string
	numerics  map[string]float64
	bools     map[string]bool
	freeText  []string
	createdAt time.Time
	status    Status
	views     int64

	searchBlob string
}

// New validates and creates an Entity.
// ID: ^[a-zA-Z0-9_-]+$, 1-256 chars. An anchor, when present, must carry
// valid coordinates. FreeText must at least hold a title.
func New(
	id string, kind Kind, anchor *GeoAnchor,
	tags map[string]string, numerics map[string]float64, bools map[string]bool,
	freeText []string, createdAt time.Time, status Status, views int64,
) (Entity, error) {
	if id == "" {
		return Entity{}, fmt.Errorf("entity ID is required")
	}
	if len(id) > 256 {
		return Entity{}, fmt.Errorf("entity ID too long (max 256)")
	}
	if !idRegex.MatchString(id) {
		return Entity{}, fmt.Errorf("entity ID must be alphanumeric with underscores and hyphens")
	}
	if !kind.IsValid() {
		return Entity{}, fmt.Errorf("invalid entity kind: %q", kind)
	}
	if anchor != nil && !anchor.Coordinate.Valid() {
		return Entity{}, fmt.Errorf("invalid coordinates: lat=%f lng=%f",
			anchor.Coordinate.Lat, anchor.Coordinate.Lng)
	}
	if len(freeText) == 0 || freeText[0] == "" {
		return Entity{}, fmt.Errorf("entity title is required")
	}
	if status == "" {
		status = StatusActive
	}
	if !status.IsValid() {
		return Entity{}, fmt.Errorf("invalid status: %q", status)
	}

	e := Entity{
		id:        id,
		kind:      kind,
		anchor:    anchor,
		tags:      cloneStringMap(tags),
		numerics:  cloneFloat64Map(numerics),
		bools:     cloneBoolMap(bools),
		freeText:  append([]string(nil), freeText...),
		createdAt: createdAt,
		status:    status,
		views:     views,
	}
	e.searchBlob = buildSearchBlob(&e)
	return e, nil
}

// Reconstruct creates an Entity without validation (storage hydration).
func Reconstruct(
	id string, kind Kind, anchor *GeoAnchor,
	tags map[string]string, numerics map[string]float64, bools map[string]bool,
	freeText []string, createdAt time.Time, status Status, views int64,
) Entity {
	e := Entity{
		id: id, kind: kind, anchor: anchor,
		tags: tags, numerics: numerics, bools: bools,
		freeText: freeText, createdAt: createdAt, status: status, views: views,
	}
	e.searchBlob = buildSearchBlob(&e)
	return e
}

// ID returns the entity identifier.
func (e *Entity) ID() string { return e.id }

// Kind returns the entity variant.
func (e *Entity) Kind() Kind { return e.kind }

// Geo returns the geographic anchor, nil when the entity has none.
func (e *Entity) Geo() *GeoAnchor { return e.anchor }

// Tag returns a string attribute and whether it is set.
func (e *Entity) Tag(field string) (string, bool) {
	v, ok := e.tags[field]
	return v, ok
}

// Tags returns the string attributes.
func (e *Entity) Tags() map[string]string { return e.tags }

// Numeric returns a numeric attribute and whether it is set.
func (e *Entity) Numeric(field string) (float64, bool) {
	v, ok := e.numerics[field]
	return v, ok
}

// Numerics returns the numeric attributes.
func (e *Entity) Numerics() map[string]float64 { return e.numerics }

// Bool returns a boolean attribute and whether it is set.
func (e *Entity) Bool(field string) (bool, bool) {
	v, ok := e.bools[field]
	return v, ok
}

// Bools returns the boolean attributes.
func (e *Entity) Bools() map[string]bool { return e.bools }

// FreeText returns the free-text fields (title first).
func (e *Entity) FreeText() []string { return e.freeText }

// Title returns the first free-text field.
func (e *Entity) Title() string {
	if len(e.freeText) == 0 {
		return ""
	}
	return e.freeText[0]
}

// CreatedAt returns the creation timestamp.
func (e *Entity) CreatedAt() time.Time { return e.createdAt }

// Status returns the lifecycle state.
func (e *Entity) Status() Status { return e.status }

// Views returns the view counter used by the popularity sort.
func (e *Entity) Views() int64 { return e.views }

// SearchBlob returns the precomputed lower-cased text blob used by the
// substring match stage: free text, region, and string attributes joined
// with spaces.
func (e *Entity) SearchBlob() string { return e.searchBlob }

func buildSearchBlob(e *Entity) string {
	parts := make([]string, 0, len(e.freeText)+len(e.tags)+1)
	parts = append(parts, e.freeText...)
	if e.anchor != nil && e.anchor.Region != "" {
		parts = append(parts, e.anchor.Region)
	}
	for _, f := range []string{FieldBrand, FieldCategory, FieldCondition} {
		if v, ok := e.tags[f]; ok && v != "" {
			parts = append(parts, v)
		}
	}
	return strings.ToLower(strings.Join(parts, " "))
}

func cloneStringMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func cloneFloat64Map(m map[string]float64) map[string]float64 {
	if m == nil {
		return nil
	}
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func cloneBoolMap(m map[string]bool) map[string]bool {
	if m == nil {
		return nil
	}
	out := make(map[string]bool, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
