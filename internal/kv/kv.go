// Package kv is the generic persisted key/value mapping the local ledger
// store is built on. Values are JSON-shaped byte slices; higher layers expose
// them as typed collections. Implementations must keep Set atomic per key —
// callers rely on read-modify-write of whole collections, never sub-key
// updates.
package kv

import "context"

// Store is the swappable persistence backend.
type Store interface {
	// Get returns the value for key, or ok=false when the key is absent.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	// Set stores value under key, overwriting any previous value.
	Set(ctx context.Context, key string, value []byte) error
	// Remove deletes key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error
	// ListKeys returns all stored keys.
	ListKeys(ctx context.Context) ([]string, error)
}
