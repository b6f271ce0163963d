package sdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const defaultTimeout = 30 * time.Second

// Client talks to the proxi HTTP API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Option configures the Client.
type Option func(*Client)

// WithAPIKey sets the bearer token sent with every request.
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = key }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the request timeout on the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// New creates an API client for the given base URL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// SearchVenues searches venues.
func (c *Client) SearchVenues(ctx context.Context, p SearchParams) (SearchResult, error) {
	return c.search(ctx, "/venues/search", p)
}

// SearchListings searches marketplace listings.
func (c *Client) SearchListings(ctx context.Context, p SearchParams) (SearchResult, error) {
	return c.search(ctx, "/listings/search", p)
}

func (c *Client) search(ctx context.Context, path string, p SearchParams) (SearchResult, error) {
	var out SearchResult
	if err := c.do(ctx, http.MethodGet, path+"?"+encodeSearchParams(p), nil, &out); err != nil {
		return SearchResult{}, err
	}
	return out, nil
}

// UpsertVenue creates or replaces a venue.
func (c *Client) UpsertVenue(ctx context.Context, rec Record) (Record, error) {
	return c.upsert(ctx, "/venues", rec)
}

// UpsertListing creates or replaces a listing.
func (c *Client) UpsertListing(ctx context.Context, rec Record) (Record, error) {
	return c.upsert(ctx, "/listings", rec)
}

func (c *Client) upsert(ctx context.Context, path string, rec Record) (Record, error) {
	var out Record
	if err := c.do(ctx, http.MethodPost, path, rec, &out); err != nil {
		return Record{}, err
	}
	return out, nil
}

// GetVenue fetches a venue by id.
func (c *Client) GetVenue(ctx context.Context, id string) (Record, error) {
	return c.get(ctx, "/venues/"+url.PathEscape(id))
}

// GetListing fetches a listing by id.
func (c *Client) GetListing(ctx context.Context, id string) (Record, error) {
	return c.get(ctx, "/listings/"+url.PathEscape(id))
}

func (c *Client) get(ctx context.Context, path string) (Record, error) {
	var out Record
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return Record{}, err
	}
	return out, nil
}

// DeleteVenue removes a venue by id.
func (c *Client) DeleteVenue(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/venues/"+url.PathEscape(id), nil, nil)
}

// DeleteListing removes a listing by id.
func (c *Client) DeleteListing(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/listings/"+url.PathEscape(id), nil, nil)
}

// Health checks service and store health.
func (c *Client) Health(ctx context.Context) (Health, error) {
	var out Health
	if err := c.do(ctx, http.MethodGet, "/health", nil, &out); err != nil {
		return Health{}, err
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return decodeAPIError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	var body struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
		apiErr.Code = body.Code
		apiErr.Message = body.Message
	}
	if apiErr.Code == "" {
		apiErr.Code = "unknown"
		apiErr.Message = resp.Status
	}
	return apiErr
}

func encodeSearchParams(p SearchParams) string {
	q := url.Values{}

	setFloat := func(key string, v *float64) {
		if v != nil {
			q.Set(key, strconv.FormatFloat(*v, 'f', -1, 64))
		}
	}
	setBool := func(key string, v *bool) {
		if v != nil {
			q.Set(key, strconv.FormatBool(*v))
		}
	}
	setCSV := func(key string, vs []string) {
		if len(vs) > 0 {
			q.Set(key, strings.Join(vs, ","))
		}
	}

	setFloat("lat", p.Lat)
	setFloat("lng", p.Lng)
	if p.RadiusKm != 0 {
		q.Set("radius_km", strconv.FormatFloat(p.RadiusKm, 'f', -1, 64))
	}
	if p.Query != "" {
		q.Set("q", p.Query)
	}
	if p.Category != "" {
		q.Set("category", p.Category)
	}
	setCSV("regions", p.Regions)
	setCSV("conditions", p.Conditions)
	setCSV("trade_methods", p.TradeMethods)
	setCSV("brands", p.Brands)
	setFloat("price_min", p.PriceMin)
	setFloat("price_max", p.PriceMax)
	setFloat("area_min", p.AreaMin)
	setFloat("area_max", p.AreaMax)
	setFloat("size_min", p.SizeMin)
	setFloat("size_max", p.SizeMax)
	setBool("delivery", p.Delivery)
	setBool("negotiable", p.Negotiable)
	setBool("parking", p.Parking)
	if p.Participant != "" {
		q.Set("participant", p.Participant)
	}
	setCSV("statuses", p.Statuses)
	if p.Sort != "" {
		q.Set("sort", p.Sort)
	}
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.PageSize > 0 {
		q.Set("page_size", strconv.Itoa(p.PageSize))
	}

	return q.Encode()
}
