// Package kv provides the durable key-value surface the rest of the app
// persists through. Values are opaque strings; callers own serialization.
package kv

// Store is an explicit get/set capability over string keys. UI and domain
// code never touch the disk directly; they receive a Store.
type Store interface {
	// Get returns the value for key and whether it was present.
	Get(key string) (string, bool)

	// Set writes value under key, replacing any previous value.
	Set(key, value string) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(key string) error
}
