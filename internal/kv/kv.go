// Package kv provides the persisted key-value storage used for guest cart
// blobs, with Postgres, Redis and in-memory backends.
package kv

import "context"

// Store is the minimal contract the guest cart store relies on. Get returns
// domain.ErrNotFound for absent keys; backends wrap connectivity failures in
// domain.ErrStorageUnavailable so callers can degrade instead of failing.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}
