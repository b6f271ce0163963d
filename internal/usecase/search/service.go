package search

import (
	"context"
	"strconv"

	"go.uber.org/zap"

	"github.com/ondo-cloud/proxi/internal/domain/entity"
	"github.com/ondo-cloud/proxi/internal/domain/search/filter"
	"github.com/ondo-cloud/proxi/internal/domain/search/request"
	"github.com/ondo-cloud/proxi/internal/domain/search/result"
	"github.com/ondo-cloud/proxi/internal/db"
	"github.com/ondo-cloud/proxi/internal/logger"
	"github.com/ondo-cloud/proxi/internal/metrics"
)

// Service is the search facade: it validates the request, plans the
// coarse query, fetches candidates, runs the filter pipeline, ranks, and
// shapes the envelope.
type Service struct {
	fetcher Fetcher
	cap     db.Capability

	defaultPageSize int
	maxPageSize     int
	maxRadiusKm     float64
}

// New creates a search service over the store's default capability.
func New(fetcher Fetcher) *Service {
	return &Service{fetcher: fetcher, cap: db.DefaultCapability()}
}

// WithLimits overrides the request limits (page size defaulting and
// clamping, radius cap). Zero values keep the built-in limits.
func (s *Service) WithLimits(defaultPageSize, maxPageSize int, maxRadiusKm float64) *Service {
	s.defaultPageSize = defaultPageSize
	s.maxPageSize = maxPageSize
	s.maxRadiusKm = maxRadiusKm
	return s
}

// Venues searches nearby venues.
func (s *Service) Venues(ctx context.Context, p request.Params) (result.Result, error) {
	return s.search(ctx, entity.KindVenue, p)
}

// Listings searches marketplace listings.
func (s *Service) Listings(ctx context.Context, p request.Params) (result.Result, error) {
	return s.search(ctx, entity.KindListing, p)
}

func (s *Service) search(ctx context.Context, kind entity.Kind, p request.Params) (result.Result, error) {
	s.applyLimits(&p)

	req, err := request.New(kind, p)
	if err != nil {
		// Invalid input is rejected before any store access.
		metrics.SearchesTotal.WithLabelValues(string(kind), "false", "invalid").Inc()
		return result.Result{}, err
	}
	geoLabel := strconv.FormatBool(req.HasGeo())

	plan := BuildPlan(&req, s.cap)

	candidates, err := s.fetch(ctx, plan)
	if err != nil {
		// Fail-soft: the store being down reads as "no results".
		logger.FromContext(ctx).Warn("search fetch failed, returning empty result",
			zap.String("kind", string(kind)),
			zap.Error(err),
		)
		metrics.SearchesTotal.WithLabelValues(string(kind), geoLabel, "degraded").Inc()
		metrics.SearchStoreErrorsTotal.WithLabelValues(string(kind)).Inc()
		return result.Empty(req.Page(), req.PageSize()), nil
	}

	filtered := filter.Apply(req.Predicates(), candidates)
	items, total, hasMore := rank(filtered, &req)

	metrics.SearchesTotal.WithLabelValues(string(kind), geoLabel, "ok").Inc()
	metrics.SearchCandidates.WithLabelValues(string(kind)).Observe(float64(len(candidates)))
	metrics.SearchResults.WithLabelValues(string(kind)).Observe(float64(total))

	return result.New(items, total, hasMore, req.Page(), req.PageSize()), nil
}

func (s *Service) applyLimits(p *request.Params) {
	if s.defaultPageSize > 0 && p.PageSize == 0 {
		p.PageSize = s.defaultPageSize
	}
	if s.maxPageSize > 0 && p.PageSize > s.maxPageSize {
		p.PageSize = s.maxPageSize
	}
	if s.maxRadiusKm > 0 && p.RadiusKm > s.maxRadiusKm {
		p.RadiusKm = s.maxRadiusKm
	}
}

func (s *Service) fetch(ctx context.Context, plan *Plan) ([]entity.Entity, error) {
	if len(plan.Queries) == 1 {
		return s.fetcher.Fetch(ctx, plan.Queries[0])
	}
	return s.fetcher.FetchUnion(ctx, plan.Queries)
}
