// Package proxi is the embedded client: proximity search and catalog
// management over Redis without running the HTTP server.
package proxi

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	dbRedis "github.com/ondo-cloud/proxi/internal/db/redis"
	"github.com/ondo-cloud/proxi/internal/domain/entity"
	"github.com/ondo-cloud/proxi/internal/domain/geo"
	logpkg "github.com/ondo-cloud/proxi/internal/logger"
	catalogrepo "github.com/ondo-cloud/proxi/internal/repository/catalog"
	searchrepo "github.com/ondo-cloud/proxi/internal/repository/search"
	cataloguc "github.com/ondo-cloud/proxi/internal/usecase/catalog"
	searchuc "github.com/ondo-cloud/proxi/internal/usecase/search"
)

const defaultReadinessTimeout = 10 * time.Second

// Region is one named region center for the gazetteer. List order is
// the nearest-region tie-break.
type Region struct {
	Name string
	Lat  float64
	Lng  float64
}

// Option configures the Client.
type Option func(*clientConfig)

type clientConfig struct {
	addrs     []string
	username  string
	password  string
	db        int
	keyPrefix string
	regions   []Region
	logger    *zap.Logger
}

// WithRedis sets the Redis addresses to connect to.
func WithRedis(addrs ...string) Option {
	return func(c *clientConfig) { c.addrs = addrs }
}

// WithAuth sets Redis credentials.
func WithAuth(username, password string) Option {
	return func(c *clientConfig) {
		c.username = username
		c.password = password
	}
}

// WithDB selects the Redis logical database.
func WithDB(db int) Option {
	return func(c *clientConfig) { c.db = db }
}

// WithKeyPrefix overrides the key prefix used for all stored data.
func WithKeyPrefix(prefix string) Option {
	return func(c *clientConfig) { c.keyPrefix = prefix }
}

// WithGazetteer replaces the built-in gazetteer with a custom region
// table. Order matters: on an exact distance tie the earlier entry wins.
func WithGazetteer(regions ...Region) Option {
	return func(c *clientConfig) { c.regions = regions }
}

// WithLogger sets the logger used for degraded-path warnings.
func WithLogger(logger *zap.Logger) Option {
	return func(c *clientConfig) { c.logger = logger }
}

// Client is the proxi SDK entry point.
type Client struct {
	store      *dbRedis.Store
	searchSvc  *searchuc.Service
	catalogSvc *cataloguc.Service
	logger     *zap.Logger
}

// New creates a proxi Client and connects to the database.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o(cfg)
	}

	if len(cfg.addrs) == 0 {
		return nil, errors.New("proxi: database address required (use WithRedis)")
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:     cfg.addrs,
		Username:  cfg.username,
		Password:  cfg.password,
		DB:        cfg.db,
		KeyPrefix: cfg.keyPrefix,
	})
	if err != nil {
		return nil, fmt.Errorf("proxi: create redis store: %w", err)
	}

	ctx := context.Background()
	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("proxi: database not ready: %w", err)
	}

	return wireClient(store, cfg), nil
}

func wireClient(store *dbRedis.Store, cfg *clientConfig) *Client {
	gazetteer := geo.DefaultGazetteer()
	if len(cfg.regions) > 0 {
		regions := make([]geo.Region, len(cfg.regions))
		for i, r := range cfg.regions {
			regions[i] = geo.Region{
				Name:   r.Name,
				Center: geo.Coordinate{Lat: r.Lat, Lng: r.Lng},
			}
		}
		gazetteer = geo.NewGazetteer(regions)
	}

	return &Client{
		store:      store,
		searchSvc:  searchuc.New(searchrepo.New(store)),
		catalogSvc: cataloguc.New(catalogrepo.New(store), gazetteer),
		logger:     cfg.logger,
	}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Venues returns the venue scope.
func (c *Client) Venues() *Scope {
	return &Scope{kind: entity.KindVenue, client: c}
}

// Listings returns the marketplace listing scope.
func (c *Client) Listings() *Scope {
	return &Scope{kind: entity.KindListing, client: c}
}

// withLogger attaches the configured logger to the context so degraded
// paths surface as warnings instead of vanishing.
func (c *Client) withLogger(ctx context.Context) context.Context {
	if c.logger == nil {
		return ctx
	}
	return logpkg.ContextWithLogger(ctx, c.logger)
}
