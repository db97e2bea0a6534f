// Package kv provides the persistent string-keyed store the storefront
// keeps its session token and serialized cart in. Implementations must
// survive process restarts (the memory backend is for tests and tooling).
package kv

import "context"

// Store persists opaque values under string keys.
type Store interface {
	// Get returns the stored value and whether the key exists.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores or replaces the value for key.
	Set(ctx context.Context, key string, value []byte) error
	// Delete removes the key; deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}
