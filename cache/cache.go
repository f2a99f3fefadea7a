package cache

import "time"

// PolicyKind selects which expiration rule governs a cache entry.
type PolicyKind int

const (
	// Absolute expires an entry a fixed duration after insertion,
	// regardless of how often it is read.
	Absolute PolicyKind = iota

	// AbsoluteSliding expires an entry at the earlier of the absolute
	// deadline or a sliding window measured from the last successful read.
	AbsoluteSliding
)

// Policy describes the expiration rule attached to a single cache entry.
// It is a tagged value: Sliding is only meaningful when Kind is
// AbsoluteSliding.
type Policy struct {
	Kind     PolicyKind
	Duration time.Duration
	Sliding  time.Duration
}

// WithAbsoluteTTL returns a policy that expires d after insertion.
func WithAbsoluteTTL(d time.Duration) Policy {
	return Policy{Kind: Absolute, Duration: d}
}

// WithAbsoluteAndSliding returns a policy that expires at the earlier of
// insertion+absolute or lastAccess+sliding. Every hit pushes the sliding
// deadline forward; the absolute deadline never moves.
func WithAbsoluteAndSliding(absolute, sliding time.Duration) Policy {
	return Policy{Kind: AbsoluteSliding, Duration: absolute, Sliding: sliding}
}

// Validate checks whether the policy durations are usable.
func (p Policy) Validate() error {
	if p.Duration <= 0 {
		return &PolicyError{Field: "Duration", Message: "must be greater than 0"}
	}
	switch p.Kind {
	case Absolute:
		if p.Sliding != 0 {
			return &PolicyError{Field: "Sliding", Message: "must be 0 for absolute policies"}
		}
	case AbsoluteSliding:
		if p.Sliding <= 0 {
			return &PolicyError{Field: "Sliding", Message: "must be greater than 0"}
		}
	default:
		return &PolicyError{Field: "Kind", Message: "unknown policy kind"}
	}
	return nil
}

// PolicyError reports an invalid policy value.
type PolicyError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *PolicyError) Error() string {
	return "cache policy error in field " + e.Field + ": " + e.Message
}

// Cache is the process-local key-value layer that holds materialized read
// views. Entries are never authoritative; the store remains the single
// source of truth and an entry is only a time-bounded snapshot of a query
// result.
//
// Implementations serialize operations per key, so a reader never observes
// a half-written value. There is no multi-key guarantee: invalidating two
// related keys is two independent operations and a concurrent reader may
// see one removed and the other still present.
type Cache interface {
	// Get returns the value stored under key. An expired entry behaves as
	// a miss and is removed. A hit on a sliding entry refreshes its
	// last-access time.
	Get(key string) (any, bool)

	// Set stores value under key with the given expiration policy,
	// replacing any previous entry.
	Set(key string, value any, policy Policy)

	// Remove deletes the entry under key. Removing an absent key is a
	// no-op, which keeps write-path invalidation idempotent.
	Remove(key string)
}

// Lookup is a type-safe read helper. A stored value of a different type is
// treated as a miss rather than a panic; the caller then repopulates from
// the store exactly as it would after expiration.
func Lookup[T any](c Cache, key string) (T, bool) {
	v, ok := c.Get(key)
	if !ok {
		var zero T
		return zero, false
	}
	typed, ok := v.(T)
	if !ok {
		var zero T
		return zero, false
	}
	return typed, true
}
