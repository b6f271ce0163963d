package db

import (
	"context"
	"fmt"
	"time"
)

// Capability describes what the store's native query engine can execute.
// The coarse query planner consumes it as a single decision table instead
// of scattering store limitations through call sites.
type Capability struct {
	// MaxRangeClauses is the number of inequality/range clauses a single
	// native query may carry. Compound inequality across fields is not
	// supported by the backing store.
	MaxRangeClauses int
	// SupportsRadius reports whether the store has a native radius
	// operator. It does not; radius search is approximated with a
	// bounding-box range clause and tightened in memory.
	SupportsRadius bool
	// MaxInValues bounds the cardinality of a natively-executed
	// membership clause. Larger memberships defer to the in-memory
	// filter pipeline.
	MaxInValues int
}

// DefaultCapability returns the capability surface of the Redis store.
func DefaultCapability() Capability {
	return Capability{MaxRangeClauses: 1, SupportsRadius: false, MaxInValues: 10}
}

// Equality is a native equality clause on an indexed scalar field.
type Equality struct {
	Field string
	Value string
}

// InClause is a native small-cardinality membership clause.
type InClause struct {
	Field  string
	Values []string
}

// RangeClause is the single allowed inclusive range clause on an indexed
// ordered field.
type RangeClause struct {
	Field string
	Min   float64
	Max   float64
}

// CoarseQuery is a store-native query descriptor. It is intentionally
// over-inclusive: anything the store cannot express stays out of the
// descriptor and is applied in memory afterwards.
type CoarseQuery struct {
	Kind       string
	Equalities []Equality
	In         []InClause
	Range      *RangeClause
}

// Validate checks the descriptor against the store capability.
func (q *CoarseQuery) Validate(c Capability) error {
	if q.Kind == "" {
		return fmt.Errorf("coarse query kind is required")
	}
	if q.Range != nil && c.MaxRangeClauses < 1 {
		return fmt.Errorf("store supports no range clauses")
	}
	for _, in := range q.In {
		if len(in.Values) == 0 {
			return fmt.Errorf("empty membership clause on field %q", in.Field)
		}
		if len(in.Values) > c.MaxInValues {
			return fmt.Errorf("membership clause on field %q exceeds native cardinality (%d > %d)",
				in.Field, len(in.Values), c.MaxInValues)
		}
	}
	return nil
}

// Record is a raw entity hash fetched from the store.
type Record struct {
	Key    string
	Fields map[string]string
}

// EntityRecord is the write-side shape: the entity hash plus the
// secondary index memberships the store maintains for coarse queries.
type EntityRecord struct {
	Kind   string
	ID     string
	Fields map[string]string
	// Ordered holds indexed ordered fields (lat, price, area) backing
	// the single-range-clause index.
	Ordered map[string]float64
	// Members holds the indexed equality memberships (status, category,
	// region, seller, buyer).
	Members []Equality
}

// Store is the database facade combining all sub-interfaces.
type Store interface {
	Pinger
	EntityStore
	CoarseQuerier
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// EntityStore provides entity hash and secondary-index write operations.
type EntityStore interface {
	PutEntity(ctx context.Context, rec *EntityRecord) error
	GetEntity(ctx context.Context, kind, id string) (Record, error)
	DeleteEntity(ctx context.Context, kind, id string) error
}

// CoarseQuerier executes store-native coarse queries.
type CoarseQuerier interface {
	QueryCoarse(ctx context.Context, q *CoarseQuery) ([]Record, error)
}
