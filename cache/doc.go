// Package cache provides the read-through cache contract that sits between
// the API handlers and the persistent store.
//
// # Overview
//
// The package exports:
//
//   - Cache: the process-local key-value contract (Get/Set/Remove)
//   - Policy: a tagged per-entry expiration value (absolute, or absolute
//     combined with a sliding window)
//   - the well-known key set shared by the aggregate readers and writers
//
// Readers populate entries lazily on a miss; writers mutate the store first
// and then remove every entry whose freshness guarantee the mutation
// violates. Entries are never updated in place.
//
// # Expiration
//
//	cache.WithAbsoluteTTL(30 * time.Second)
//	cache.WithAbsoluteAndSliding(30*time.Second, 15*time.Second)
//
// An absolute entry is valid for a fixed duration after insertion. The
// combined policy expires at the earlier of the absolute deadline or the
// sliding window measured from the last hit; every hit pushes the sliding
// deadline forward but the absolute ceiling never moves. Expiration is
// evaluated lazily at Get time; an expired entry behaves as a miss and is
// removed.
//
// # Consistency caveats
//
// Operations on a single key are serialized, so readers never observe a
// torn value. There is no ordering guarantee between a writer's store
// mutation and a concurrent reader's population: a read in flight while a
// write commits may repopulate a key with pre-mutation data right after the
// write's invalidation. That entry is stale but bounded by its own policy
// and self-heals at the next expiration or the next write. The design
// accepts this window instead of locking readers behind writers.
//
// # See Also
//
// For the backing implementation, see internal/cacheinfra. For the read
// and write paths that consume this contract, see the inventory and orders
// packages.
package cache
