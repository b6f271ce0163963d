// Package chi exposes the HTTP API: search and catalog endpoints over a
// chi router, with Prometheus metrics and bearer auth middleware.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	chirouter "github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/ondo-cloud/proxi/internal/domain"
	"github.com/ondo-cloud/proxi/internal/domain/entity"
	"github.com/ondo-cloud/proxi/internal/domain/geo"
	"github.com/ondo-cloud/proxi/internal/domain/search/request"
	"github.com/ondo-cloud/proxi/internal/domain/search/result"
	"github.com/ondo-cloud/proxi/internal/domain/search/sortkey"
	cataloguc "github.com/ondo-cloud/proxi/internal/usecase/catalog"
	searchuc "github.com/ondo-cloud/proxi/internal/usecase/search"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server wires the usecases to HTTP handlers.
type Server struct {
	search        *searchuc.Service
	catalog       *cataloguc.Service
	ping          func(ctx context.Context) error
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server. ping is consulted by /health;
// a nil ping reports the store as healthy unconditionally.
func NewServer(
	search *searchuc.Service,
	catalog *cataloguc.Service,
	ping func(ctx context.Context) error,
	logger *zap.Logger,
) *Server {
	s := &Server{
		search:  search,
		catalog: catalog,
		ping:    ping,
		logger:  logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidCoordinate, http.StatusBadRequest, ErrorCodeInvalidCoordinate),
		sentinelHandler(domain.ErrInvalidRequest, http.StatusBadRequest, ErrorCodeValidationFailed),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, ErrorCodeNotFound),
		sentinelHandler(domain.ErrStoreUnavailable, http.StatusServiceUnavailable, ErrorCodeStoreUnavailable),
	}
	return s
}

// Register mounts all API routes on the given router. Middleware is the
// caller's concern; the composition root owns the chain.
func (s *Server) Register(r chirouter.Router) {
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	r.Route("/venues", func(r chirouter.Router) {
		r.Get("/search", s.SearchVenues)
		r.Post("/", s.UpsertVenue)
		r.Get("/{id}", s.GetVenue)
		r.Delete("/{id}", s.DeleteVenue)
	})
	r.Route("/listings", func(r chirouter.Router) {
		r.Get("/search", s.SearchListings)
		r.Post("/", s.UpsertListing)
		r.Get("/{id}", s.GetListing)
		r.Delete("/{id}", s.DeleteListing)
	})
}

// SearchVenues handles GET /venues/search.
func (s *Server) SearchVenues(w http.ResponseWriter, r *http.Request) {
	s.handleSearch(w, r, s.search.Venues)
}

// SearchListings handles GET /listings/search.
func (s *Server) SearchListings(w http.ResponseWriter, r *http.Request) {
	s.handleSearch(w, r, s.search.Listings)
}

func (s *Server) handleSearch(
	w http.ResponseWriter,
	r *http.Request,
	search func(ctx context.Context, p request.Params) (result.Result, error),
) {
	params, err := searchParamsFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, err.Error())
		return
	}

	res, err := search(r.Context(), params)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]EntityResponse, len(res.Items()))
	for i := range res.Items() {
		items[i] = entityToResponse(&res.Items()[i])
	}

	writeJSON(w, http.StatusOK, SearchResponse{
		Items:      items,
		Pagination: pageToResponse(res.Pagination()),
	})
}

// UpsertVenue handles POST /venues.
func (s *Server) UpsertVenue(w http.ResponseWriter, r *http.Request) {
	s.handleUpsert(w, r, entity.KindVenue)
}

// UpsertListing handles POST /listings.
func (s *Server) UpsertListing(w http.ResponseWriter, r *http.Request) {
	s.handleUpsert(w, r, entity.KindListing)
}

func (s *Server) handleUpsert(w http.ResponseWriter, r *http.Request, kind entity.Kind) {
	var req UpsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if (req.Lat == nil) != (req.Lng == nil) {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed,
			"lat and lng must be provided together")
		return
	}

	draft := cataloguc.Draft{
		ID:       req.ID,
		Tags:     req.Tags,
		Numerics: req.Numerics,
		Bools:    req.Bools,
		FreeText: req.Text,
		Status:   entity.Status(req.Status),
		Views:    req.Views,
	}
	if req.Lat != nil {
		draft.Coordinate = &geo.Coordinate{Lat: *req.Lat, Lng: *req.Lng}
	}
	if req.CreatedAt != nil {
		draft.CreatedAt = *req.CreatedAt
	}

	e, err := s.catalog.Upsert(r.Context(), kind, draft)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	status := http.StatusOK
	if req.ID == "" {
		status = http.StatusCreated
	}
	writeJSON(w, status, entityToResponse(&e))
}

// GetVenue handles GET /venues/{id}.
func (s *Server) GetVenue(w http.ResponseWriter, r *http.Request) {
	s.handleGet(w, r, entity.KindVenue)
}

// GetListing handles GET /listings/{id}.
func (s *Server) GetListing(w http.ResponseWriter, r *http.Request) {
	s.handleGet(w, r, entity.KindListing)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request, kind entity.Kind) {
	id := chirouter.URLParam(r, "id")
	e, err := s.catalog.Get(r.Context(), kind, id)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entityToResponse(&e))
}

// DeleteVenue handles DELETE /venues/{id}.
func (s *Server) DeleteVenue(w http.ResponseWriter, r *http.Request) {
	s.handleDelete(w, r, entity.KindVenue)
}

// DeleteListing handles DELETE /listings/{id}.
func (s *Server) DeleteListing(w http.ResponseWriter, r *http.Request) {
	s.handleDelete(w, r, entity.KindListing)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request, kind entity.Kind) {
	id := chirouter.URLParam(r, "id")
	if err := s.catalog.Delete(r.Context(), kind, id); err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{"redis": "ok"}
	httpStatus := http.StatusOK
	status := "healthy"

	if s.ping != nil {
		if err := s.ping(r.Context()); err != nil {
			checks["redis"] = "unreachable"
			status = "unhealthy"
			httpStatus = http.StatusServiceUnavailable
		}
	}

	writeJSON(w, httpStatus, HealthResponse{Status: status, Checks: checks})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func searchParamsFromQuery(r *http.Request) (request.Params, error) {
	q := r.URL.Query()
	var p request.Params

	lat, latOK, err := queryFloat(q.Get("lat"), "lat")
	if err != nil {
		return request.Params{}, err
	}
	lng, lngOK, err := queryFloat(q.Get("lng"), "lng")
	if err != nil {
		return request.Params{}, err
	}
	if latOK != lngOK {
		return request.Params{}, errors.New("lat and lng must be provided together")
	}
	if latOK {
		p.Center = &geo.Coordinate{Lat: lat, Lng: lng}
	}

	if radius, ok, err := queryFloat(q.Get("radius_km"), "radius_km"); err != nil {
		return request.Params{}, err
	} else if ok {
		p.RadiusKm = radius
	}

	p.TextQuery = q.Get("q")
	p.Category = q.Get("category")
	p.Regions = queryCSV(q.Get("regions"))
	p.Conditions = queryCSV(q.Get("conditions"))
	p.TradeMethods = queryCSV(q.Get("trade_methods"))
	p.Brands = queryCSV(q.Get("brands"))
	p.Participant = q.Get("participant")

	bounds := []struct {
		name string
		dst  **float64
	}{
		{"price_min", &p.PriceMin}, {"price_max", &p.PriceMax},
		{"area_min", &p.AreaMin}, {"area_max", &p.AreaMax},
		{"size_min", &p.SizeMin}, {"size_max", &p.SizeMax},
	}
	for _, b := range bounds {
		v, ok, err := queryFloat(q.Get(b.name), b.name)
		if err != nil {
			return request.Params{}, err
		}
		if ok {
			*b.dst = &v
		}
	}

	flags := []struct {
		name string
		dst  **bool
	}{
		{"delivery", &p.Delivery}, {"negotiable", &p.Negotiable}, {"parking", &p.Parking},
	}
	for _, f := range flags {
		v, ok, err := queryBool(q.Get(f.name), f.name)
		if err != nil {
			return request.Params{}, err
		}
		if ok {
			*f.dst = &v
		}
	}

	for _, st := range queryCSV(q.Get("statuses")) {
		p.Statuses = append(p.Statuses, entity.Status(st))
	}
	p.Sort = sortkey.Key(q.Get("sort"))

	if page, ok, err := queryInt(q.Get("page"), "page"); err != nil {
		return request.Params{}, err
	} else if ok {
		p.Page = page
	}
	if size, ok, err := queryInt(q.Get("page_size"), "page_size"); err != nil {
		return request.Params{}, err
	} else if ok {
		p.PageSize = size
	}

	return p, nil
}

func queryFloat(raw, name string) (float64, bool, error) {
	if raw == "" {
		return 0, false, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false, fmt.Errorf("%s must be a number", name)
	}
	return v, true, nil
}

func queryInt(raw, name string) (int, bool, error) {
	if raw == "" {
		return 0, false, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false, fmt.Errorf("%s must be an integer", name)
	}
	return v, true, nil
}

func queryBool(raw, name string) (bool, bool, error) {
	if raw == "" {
		return false, false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false, fmt.Errorf("%s must be a boolean", name)
	}
	return v, true, nil
}

func queryCSV(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func entityToResponse(e *entity.Entity) EntityResponse {
	resp := EntityResponse{
		ID:        e.ID(),
		Kind:      string(e.Kind()),
		Status:    string(e.Status()),
		Views:     e.Views(),
		CreatedAt: e.CreatedAt(),
	}
	if g := e.Geo(); g != nil {
		resp.Geo = &GeoInfo{
			Lat:     g.Coordinate.Lat,
			Lng:     g.Coordinate.Lng,
			Geohash: g.Geohash,
			Region:  g.Region,
		}
	}
	if len(e.Tags()) > 0 {
		resp.Tags = e.Tags()
	}
	if len(e.Numerics()) > 0 {
		resp.Numerics = e.Numerics()
	}
	if len(e.Bools()) > 0 {
		resp.Bools = e.Bools()
	}
	if len(e.FreeText()) > 0 {
		resp.Text = e.FreeText()
	}
	return resp
}

func pageToResponse(p result.Page) PageInfo {
	return PageInfo{
		Page:    p.Page,
		Limit:   p.Limit,
		Total:   p.Total,
		HasNext: p.HasNext,
		HasPrev: p.HasPrev,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrInvalidCoordinate,
		domain.ErrInvalidRequest,
		domain.ErrNotFound,
		domain.ErrStoreUnavailable,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorCodeInternalError, "internal error")
}
