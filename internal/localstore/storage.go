// Package localstore provides the client-side persistent key/value store the
// commerce state lives in. Values are JSON text, mirroring browser local storage.
package localstore

import "errors"

// ErrQuotaExceeded is returned when a write would exceed the storage quota.
var ErrQuotaExceeded = errors.New("storage quota exceeded")

// Storage is a synchronous string key/value store.
type Storage interface {
	// Get returns the stored value and whether the key was present.
	Get(key string) (string, bool, error)

	// Set stores value under key, replacing any previous value.
	Set(key, value string) error

	// Remove deletes key. Removing an absent key is not an error.
	Remove(key string) error
}

// Watcher is implemented by storages that can report writes made by other
// clients of the same underlying store. A client is never notified of its own writes.
type Watcher interface {
	// Watch registers fn for change notifications and returns a function that stops them.
	Watch(fn func(key string)) (stop func())
}
