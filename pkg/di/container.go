// Package di wires the application graph explicitly: configuration,
// logger, cache, store, aggregate services, and the HTTP server. Nothing
// in the repo reaches for a global; every dependency flows through the
// container.
package di

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/logitrack/logitrack/cache"
	"github.com/logitrack/logitrack/httpapi"
	"github.com/logitrack/logitrack/internal/config"
	"github.com/logitrack/logitrack/inventory"
	"github.com/logitrack/logitrack/orders"
	"github.com/logitrack/logitrack/store"
)

// Container holds singleton instances of the application's components.
type Container struct {
	cfg       *config.Config
	log       *zap.Logger
	cache     *cache.Instance
	store     *store.Store
	inventory *inventory.Service
	orders    *orders.Service
	server    *httpapi.Server
}

// NewContainer builds the full graph from configuration. The caller owns
// the container and must Close it to release the store connection and
// stop the cache janitor.
func NewContainer(cfg *config.Config, log *zap.Logger) (*Container, error) {
	if log == nil {
		log = zap.NewNop()
	}

	cacheInstance, err := cache.New(cache.Config{
		EvictionInterval: cfg.CacheEvictionInterval,
	})
	if err != nil {
		return nil, fmt.Errorf("building cache: %w", err)
	}

	st, err := store.Open(cfg.DatabaseDSN)
	if err != nil {
		cacheInstance.Close()
		return nil, fmt.Errorf("opening store: %w", err)
	}

	verifier, err := httpapi.NewTokenVerifier(jwtSecret(cfg), cfg.JWTIssuer)
	if err != nil {
		cacheInstance.Close()
		_ = st.Close()
		return nil, fmt.Errorf("building token verifier: %w", err)
	}

	invService := inventory.NewService(st, cacheInstance, log.Named("inventory"))
	ordService := orders.NewService(st, cacheInstance, log.Named("orders"))
	server := httpapi.NewServer(invService, ordService, verifier, log.Named("http"))

	return &Container{
		cfg:       cfg,
		log:       log,
		cache:     cacheInstance,
		store:     st,
		inventory: invService,
		orders:    ordService,
		server:    server,
	}, nil
}

// jwtSecret falls back to a development secret when none is configured.
// Load already rejects a missing secret in production.
func jwtSecret(cfg *config.Config) string {
	if cfg.JWTSecret != "" {
		return cfg.JWTSecret
	}
	return "development-secret-change-in-production"
}

// EnsureSchema creates the database tables if they do not exist.
func (c *Container) EnsureSchema(ctx context.Context) error {
	return c.store.EnsureSchema(ctx)
}

// Server returns the HTTP handler for the service.
func (c *Container) Server() *httpapi.Server {
	return c.server
}

// Cache returns the shared cache instance.
func (c *Container) Cache() *cache.Instance {
	return c.cache
}

// Store returns the persistent store.
func (c *Container) Store() *store.Store {
	return c.store
}

// Inventory returns the inventory service.
func (c *Container) Inventory() *inventory.Service {
	return c.inventory
}

// Orders returns the order service.
func (c *Container) Orders() *orders.Service {
	return c.orders
}

// Close releases the container's resources.
func (c *Container) Close() error {
	c.cache.Close()
	return c.store.Close()
}
