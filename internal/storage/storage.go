// Package storage defines the key/value persistence port shared by the
// settings and history stores, with file-backed and in-memory backends.
package storage

// Storage is the persistence port injected into the stores. Values are
// opaque strings; absent keys are reported through the ok result.
type Storage interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Remove(key string) error
}
