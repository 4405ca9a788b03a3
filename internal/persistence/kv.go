// Package persistence provides the durable storage for the state core: a
// narrow key-value contract with quota semantics, a file-backed
// implementation, and the quota-recovering persister for the application
// document.
package persistence

import "errors"

// ErrQuotaExceeded is returned by SetItem when a write would push the store
// past its configured capacity. Callers recover by pruning and retrying;
// persistence is best-effort and never fatal.
var ErrQuotaExceeded = errors.New("storage quota exceeded")

// ErrNotFound is returned by GetItem for missing keys.
var ErrNotFound = errors.New("key not found")

// KV is the narrow storage contract the persister depends on. Operations
// are synchronous; SetItem may fail with ErrQuotaExceeded.
type KV interface {
	GetItem(key string) ([]byte, error)
	SetItem(key string, value []byte) error
	RemoveItem(key string) error
}
