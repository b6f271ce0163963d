package proxi

import (
	"context"
	"fmt"

	"github.com/ondo-cloud/proxi/internal/domain/entity"
	"github.com/ondo-cloud/proxi/internal/domain/search/request"
	"github.com/ondo-cloud/proxi/internal/domain/search/result"
)

// Scope is the client surface for one entity kind.
type Scope struct {
	kind   entity.Kind
	client *Client
}

// Save writes a record, deriving its geographic anchor. A record
// without an id gets a generated one; the stored record is returned.
func (s *Scope) Save(ctx context.Context, rec Record) (Record, error) {
	e, err := s.client.catalogSvc.Upsert(s.client.withLogger(ctx), s.kind, toDraft(rec))
	if err != nil {
		return Record{}, fmt.Errorf("save: %w", err)
	}
	return fromEntity(&e), nil
}

// Get fetches a record by id.
func (s *Scope) Get(ctx context.Context, id string) (Record, error) {
	e, err := s.client.catalogSvc.Get(s.client.withLogger(ctx), s.kind, id)
	if err != nil {
		return Record{}, fmt.Errorf("get: %w", err)
	}
	return fromEntity(&e), nil
}

// Delete removes a record by id.
func (s *Scope) Delete(ctx context.Context, id string) error {
	if err := s.client.catalogSvc.Delete(s.client.withLogger(ctx), s.kind, id); err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	return nil
}

// Search starts a fluent search query against this scope.
func (s *Scope) Search() *QueryBuilder {
	return &QueryBuilder{scope: s}
}

func (s *Scope) runSearch(ctx context.Context, p request.Params) (Page, error) {
	ctx = s.client.withLogger(ctx)

	var res result.Result
	var err error
	switch s.kind {
	case entity.KindListing:
		res, err = s.client.searchSvc.Listings(ctx, p)
	default:
		res, err = s.client.searchSvc.Venues(ctx, p)
	}
	if err != nil {
		return Page{}, fmt.Errorf("search: %w", err)
	}

	return Page{
		Items:   fromEntities(res.Items()),
		Total:   res.Total(),
		HasMore: res.HasMore(),
	}, nil
}
