package chi

import "time"

// ErrorCode identifies an error class in API responses.
type ErrorCode string

const (
	ErrorCodeBadRequest        ErrorCode = "bad_request"
	ErrorCodeValidationFailed  ErrorCode = "validation_failed"
	ErrorCodeInvalidCoordinate ErrorCode = "invalid_coordinate"
	ErrorCodeNotFound          ErrorCode = "not_found"
	ErrorCodeStoreUnavailable  ErrorCode = "store_unavailable"
	ErrorCodeInternalError     ErrorCode = "internal_error"
)

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// UpsertRequest is the write payload for venues and listings.
type UpsertRequest struct {
	ID        string             `json:"id,omitempty"`
	Lat       *float64           `json:"lat,omitempty"`
	Lng       *float64           `json:"lng,omitempty"`
	Tags      map[string]string  `json:"tags,omitempty"`
	Numerics  map[string]float64 `json:"numerics,omitempty"`
	Bools     map[string]bool    `json:"bools,omitempty"`
	Text      []string           `json:"text,omitempty"`
	Status    string             `json:"status,omitempty"`
	CreatedAt *time.Time         `json:"created_at,omitempty"`
	Views     int64              `json:"views,omitempty"`
}

// GeoInfo is the derived geographic anchor in responses.
type GeoInfo struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Geohash string  `json:"geohash,omitempty"`
	Region  string  `json:"region,omitempty"`
}

// EntityResponse is one venue or listing in API responses.
type EntityResponse struct {
	ID        string             `json:"id"`
	Kind      string             `json:"kind"`
	Geo       *GeoInfo           `json:"geo,omitempty"`
	Tags      map[string]string  `json:"tags,omitempty"`
	Numerics  map[string]float64 `json:"numerics,omitempty"`
	Bools     map[string]bool    `json:"bools,omitempty"`
	Text      []string           `json:"text,omitempty"`
	Status    string             `json:"status"`
	Views     int64              `json:"views"`
	CreatedAt time.Time          `json:"created_at"`
}

// PageInfo is the pagination block of search responses.
type PageInfo struct {
	Page    int  `json:"page"`
	Limit   int  `json:"limit"`
	Total   int  `json:"total"`
	HasNext bool `json:"has_next"`
	HasPrev bool `json:"has_prev"`
}

// SearchResponse is the search result envelope.
type SearchResponse struct {
	Items      []EntityResponse `json:"items"`
	Pagination PageInfo         `json:"pagination"`
}

// HealthResponse reports component health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}
