package proxi

import (
	"time"

	"github.com/ondo-cloud/proxi/internal/domain/entity"
	"github.com/ondo-cloud/proxi/internal/domain/geo"
	cataloguc "github.com/ondo-cloud/proxi/internal/usecase/catalog"
)

// Status is an entity lifecycle status.
type Status string

const (
	StatusActive Status = "active"
	StatusHidden Status = "hidden"
	StatusSold   Status = "sold"
)

// Sort is a result ordering key for non-geo searches.
type Sort string

const (
	SortLatest    Sort = "latest"
	SortOldest    Sort = "oldest"
	SortPriceLow  Sort = "price_low"
	SortPriceHigh Sort = "price_high"
	SortPopular   Sort = "popular"
)

// Record is a venue or listing as seen by the client. On writes, Lat
// and Lng must be set together; Geohash and Region are derived by the
// server and ignored as input.
type Record struct {
	ID        string
	Lat       *float64
	Lng       *float64
	Geohash   string
	Region    string
	Tags      map[string]string
	Numerics  map[string]float64
	Bools     map[string]bool
	Text      []string
	Status    Status
	Views     int64
	CreatedAt time.Time
}

// Page is one page of search results.
type Page struct {
	Items   []Record
	Total   int
	HasMore bool
}

func toDraft(r Record) cataloguc.Draft {
	d := cataloguc.Draft{
		ID:        r.ID,
		Tags:      r.Tags,
		Numerics:  r.Numerics,
		Bools:     r.Bools,
		FreeText:  r.Text,
		Status:    entity.Status(r.Status),
		CreatedAt: r.CreatedAt,
		Views:     r.Views,
	}
	if r.Lat != nil && r.Lng != nil {
		d.Coordinate = &geo.Coordinate{Lat: *r.Lat, Lng: *r.Lng}
	}
	return d
}

func fromEntity(e *entity.Entity) Record {
	r := Record{
		ID:        e.ID(),
		Tags:      e.Tags(),
		Numerics:  e.Numerics(),
		Bools:     e.Bools(),
		Text:      e.FreeText(),
		Status:    Status(e.Status()),
		Views:     e.Views(),
		CreatedAt: e.CreatedAt(),
	}
	if g := e.Geo(); g != nil {
		lat, lng := g.Coordinate.Lat, g.Coordinate.Lng
		r.Lat, r.Lng = &lat, &lng
		r.Geohash = g.Geohash
		r.Region = g.Region
	}
	return r
}

func fromEntities(es []entity.Entity) []Record {
	out := make([]Record, len(es))
	for i := range es {
		out[i] = fromEntity(&es[i])
	}
	return out
}
