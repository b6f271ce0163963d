package catalog

import (
	"context"

	"github.com/ondo-cloud/proxi/internal/domain/entity"
)

// Repository defines the storage contract for the write path.
type Repository interface {
	Put(ctx context.Context, e *entity.Entity) error
	Get(ctx context.Context, kind entity.Kind, id string) (entity.Entity, error)
	Delete(ctx context.Context, kind entity.Kind, id string) error
}
