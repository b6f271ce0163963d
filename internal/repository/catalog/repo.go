package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/ondo-cloud/proxi/internal/db"
	"github.com/ondo-cloud/proxi/internal/domain"
	"github.com/ondo-cloud/proxi/internal/domain/entity"
	"github.com/ondo-cloud/proxi/internal/repository/codec"
)

// store is the consumer interface for catalog writes (ISP).
type store interface {
	PutEntity(ctx context.Context, rec *db.EntityRecord) error
	GetEntity(ctx context.Context, kind, id string) (db.Record, error)
	DeleteEntity(ctx context.Context, kind, id string) error
}

// Repo implements usecase/catalog.Repository.
type Repo struct {
	store store
}

// New creates a catalog repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Put writes the entity hash and refreshes its index memberships.
func (r *Repo) Put(ctx context.Context, e *entity.Entity) error {
	rec, err := codec.EncodeEntity(e)
	if err != nil {
		return fmt.Errorf("encode entity %s: %w", e.ID(), err)
	}
	if err := r.store.PutEntity(ctx, rec); err != nil {
		return fmt.Errorf("put entity %s: %w", e.ID(), err)
	}
	return nil
}

// Get fetches one entity by kind and id.
func (r *Repo) Get(ctx context.Context, kind entity.Kind, id string) (entity.Entity, error) {
	rec, err := r.store.GetEntity(ctx, string(kind), id)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return entity.Entity{}, fmt.Errorf("%w: %s/%s", domain.ErrNotFound, kind, id)
		}
		return entity.Entity{}, fmt.Errorf("get entity %s/%s: %w", kind, id, err)
	}
	return codec.DecodeRecord(rec), nil
}

// Delete removes the entity and its index memberships.
func (r *Repo) Delete(ctx context.Context, kind entity.Kind, id string) error {
	if err := r.store.DeleteEntity(ctx, string(kind), id); err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return fmt.Errorf("%w: %s/%s", domain.ErrNotFound, kind, id)
		}
		return fmt.Errorf("delete entity %s/%s: %w", kind, id, err)
	}
	return nil
}
