// Package kv defines the durable key-value storage interface the core
// persists its state through. The host editor provides the backing store;
// the default implementation lives in internal/data/stores.
package kv

import "context"

// KV is the interface for a persistent key-value store.
// Keys are strings, values are JSON-serializable.
// Get on a missing key returns an error wrapping ErrNotFound.
type KV interface {
	Get(ctx context.Context, key string, dest any) error
	Set(ctx context.Context, key string, value any) error
	Delete(ctx context.Context, key string) error
	Has(ctx context.Context, key string) (bool, error)
	ListKeys(ctx context.Context) ([]string, error)
}
