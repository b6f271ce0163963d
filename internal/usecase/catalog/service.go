package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mmcloughlin/geohash"

	"github.com/ondo-cloud/proxi/internal/domain"
	"github.com/ondo-cloud/proxi/internal/domain/entity"
	"github.com/ondo-cloud/proxi/internal/domain/geo"
)

// geohashPrecision gives ~5m cell size, plenty for venue display.
const geohashPrecision = 9

// Draft is the raw write input before anchor derivation.
type Draft struct {
	ID         string
	Coordinate *geo.Coordinate
	Tags       map[string]string
	Numerics   map[string]float64
	Bools      map[string]bool
	FreeText   []string
	Status     entity.Status
	CreatedAt  time.Time
	Views      int64
}

// Service handles entity writes. The geographic anchor — encoded point
// and nearest gazetteer region — is derived here, once, at write time;
// reads never re-derive it.
type Service struct {
	repo      Repository
	gazetteer geo.Gazetteer
	now       func() time.Time
}

// New creates a catalog service.
func New(repo Repository, gazetteer geo.Gazetteer) *Service {
	return &Service{repo: repo, gazetteer: gazetteer, now: time.Now}
}

// Upsert validates the draft, derives its geo anchor, and writes it.
// A draft without an id gets a generated one.
func (s *Service) Upsert(ctx context.Context, kind entity.Kind, d Draft) (entity.Entity, error) {
	id := d.ID
	if id == "" {
		id = uuid.NewString()
	}

	var anchor *entity.GeoAnchor
	if d.Coordinate != nil {
		c := *d.Coordinate
		if !c.Valid() {
			return entity.Entity{}, fmt.Errorf("%w: lat=%f lng=%f",
				domain.ErrInvalidCoordinate, c.Lat, c.Lng)
		}
		region, _ := s.gazetteer.Nearest(c)
		anchor = &entity.GeoAnchor{
			Coordinate: c,
			Geohash:    geohash.EncodeWithPrecision(c.Lat, c.Lng, geohashPrecision),
			Region:     region,
		}
	}

	createdAt := d.CreatedAt
	if createdAt.IsZero() {
		createdAt = s.now()
	}

	e, err := entity.New(id, kind, anchor, d.Tags, d.Numerics, d.Bools,
		d.FreeText, createdAt, d.Status, d.Views)
	if err != nil {
		return entity.Entity{}, fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err)
	}

	if err := s.repo.Put(ctx, &e); err != nil {
		return entity.Entity{}, err
	}
	return e, nil
}

// Get fetches one entity by kind and id.
func (s *Service) Get(ctx context.Context, kind entity.Kind, id string) (entity.Entity, error) {
	if !kind.IsValid() {
		return entity.Entity{}, fmt.Errorf("%w: invalid entity kind %q", domain.ErrInvalidRequest, kind)
	}
	return s.repo.Get(ctx, kind, id)
}

// Delete removes one entity by kind and id.
func (s *Service) Delete(ctx context.Context, kind entity.Kind, id string) error {
	if !kind.IsValid() {
		return fmt.Errorf("%w: invalid entity kind %q", domain.ErrInvalidRequest, kind)
	}
	return s.repo.Delete(ctx, kind, id)
}
