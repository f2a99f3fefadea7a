package cache

import (
	"time"

	"github.com/logitrack/logitrack/internal/cacheinfra"
)

// Config exposes cache configuration options for consumers of the cache
// package.
type Config struct {
	// EvictionInterval sets how often a background janitor sweeps expired
	// entries. Zero disables the janitor; expiration is then evaluated
	// lazily at Get time only, which is sufficient for correctness.
	EvictionInterval time.Duration
}

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() Config {
	return convertFromInternal(cacheinfra.DefaultConfig())
}

// Validate checks whether the configuration values are valid.
func (c Config) Validate() error {
	return c.toInternal().Validate()
}

// backing is the surface the internal adapter provides. Policies are
// flattened to plain durations at this boundary so the internal store
// stays independent of the public Policy type.
type backing interface {
	Get(key string) (any, bool)
	Set(key string, value any, absolute, sliding time.Duration)
	Remove(key string)
	Stop()
}

// Instance is the Cache implementation returned by New. Beyond the Cache
// contract it owns the lifecycle of the optional background janitor.
type Instance struct {
	inner backing
}

var _ Cache = (*Instance)(nil)

// New constructs the default in-process cache using the provided
// configuration. The returned cache lives for the process lifetime and
// holds no state across restarts; construct it once and pass it
// explicitly to the aggregate readers and writers.
func New(cfg Config) (*Instance, error) {
	inner, err := cacheinfra.New(cfg.toInternal())
	if err != nil {
		return nil, err
	}
	return &Instance{inner: inner}, nil
}

// Get implements Cache.
func (i *Instance) Get(key string) (any, bool) {
	return i.inner.Get(key)
}

// Set implements Cache. Policies built with the package constructors are
// always valid; an invalid hand-rolled policy stores nothing.
func (i *Instance) Set(key string, value any, policy Policy) {
	if policy.Validate() != nil {
		return
	}
	i.inner.Set(key, value, policy.Duration, policy.Sliding)
}

// Remove implements Cache.
func (i *Instance) Remove(key string) {
	i.inner.Remove(key)
}

// Close stops the background janitor, if one was configured.
func (i *Instance) Close() {
	i.inner.Stop()
}

func (c Config) toInternal() cacheinfra.Config {
	return cacheinfra.Config{
		EvictionInterval: c.EvictionInterval,
	}
}

func convertFromInternal(cfg cacheinfra.Config) Config {
	return Config{
		EvictionInterval: cfg.EvictionInterval,
	}
}
