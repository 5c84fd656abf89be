// Package cache provides the dual-tier translation record store.
//
// The local tier is a pretty-printed JSON file read synchronously when the
// store is created; it is the source of truth. The optional remote tier (SQL
// database or Redis) is merged in by Load and receives best-effort upserts.
package cache

import "context"

// DefaultPath is the conventional location of the local tier. Hosted
// builders persist node_modules/.cache between deployments.
const DefaultPath = "node_modules/.cache/bilingo/cache.json"

// Remote is a supplementary persistence tier. Values are JSON-encoded
// records.
type Remote interface {
	// LoadAll returns every stored record keyed by source identifier.
	LoadAll(ctx context.Context) (map[string][]byte, error)

	// Upsert inserts or replaces the record stored under key.
	Upsert(ctx context.Context, key string, value []byte) error

	// Close releases the underlying connection.
	Close() error
}
