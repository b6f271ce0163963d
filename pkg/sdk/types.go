package sdk

import "time"

// Record is a venue or listing. On writes, Lat and Lng must be set
// together; the Geo block in responses carries the derived anchor.
type Record struct {
	ID        string             `json:"id,omitempty"`
	Kind      string             `json:"kind,omitempty"`
	Lat       *float64           `json:"lat,omitempty"`
	Lng       *float64           `json:"lng,omitempty"`
	Geo       *GeoInfo           `json:"geo,omitempty"`
	Tags      map[string]string  `json:"tags,omitempty"`
	Numerics  map[string]float64 `json:"numerics,omitempty"`
	Bools     map[string]bool    `json:"bools,omitempty"`
	Text      []string           `json:"text,omitempty"`
	Status    string             `json:"status,omitempty"`
	Views     int64              `json:"views,omitempty"`
	CreatedAt *time.Time         `json:"created_at,omitempty"`
}

// GeoInfo is the server-derived geographic anchor.
type GeoInfo struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Geohash string  `json:"geohash,omitempty"`
	Region  string  `json:"region,omitempty"`
}

// PageInfo is the pagination block of search responses.
type PageInfo struct {
	Page    int  `json:"page"`
	Limit   int  `json:"limit"`
	Total   int  `json:"total"`
	HasNext bool `json:"has_next"`
	HasPrev bool `json:"has_prev"`
}

// SearchResult is one page of search results.
type SearchResult struct {
	Items      []Record `json:"items"`
	Pagination PageInfo `json:"pagination"`
}

// Health is the /health response.
type Health struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// SearchParams are the query parameters for search endpoints. Nil
// pointer fields are omitted.
type SearchParams struct {
	Lat      *float64
	Lng      *float64
	RadiusKm float64

	Query    string
	Category string

	Regions      []string
	Conditions   []string
	TradeMethods []string
	Brands       []string

	PriceMin, PriceMax *float64
	AreaMin, AreaMax   *float64
	SizeMin, SizeMax   *float64

	Delivery   *bool
	Negotiable *bool
	Parking    *bool

	Participant string
	Statuses    []string

	Sort     string
	Page     int
	PageSize int
}
