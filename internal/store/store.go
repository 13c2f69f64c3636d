// Package store provides the durable key-value persistence layer that
// every other component reads and writes through. Values are JSON arrays
// of records keyed by a closed set of collection names; callers always
// read-modify-write whole collections, and multi-key transitions go
// through Update so they commit as one unit.
package store

import "fmt"

// Collection keys. These are the only keys the application persists.
const (
	KeyTodayArrivals    = "todayArrivals"
	KeyCurrentlyInHouse = "currentlyInHouse"
	KeyCheckoutHistory  = "checkoutHistory"
	KeyPendingRequests  = "pendingRequests"
	KeyAdminSessions    = "adminSessions"
)

// Tx exposes read and write access to collections. Inside Update it
// operates on uncommitted transaction state.
type Tx interface {
	// Get unmarshals the stored collection into dest. A missing or
	// undeserializable value leaves dest untouched and returns nil, so
	// callers start from an empty collection.
	Get(key string, dest interface{}) error

	// Set replaces the stored collection for key. There are no partial
	// or merge semantics.
	Set(key string, value interface{}) error
}

// Store is the durable key-value store. Implementations must make Update
// atomic: either every Set inside fn is committed, or none are.
type Store interface {
	Tx

	// Update runs fn inside a transaction covering all keys touched by
	// fn. Returning an error from fn discards every write.
	Update(fn func(tx Tx) error) error

	Ping() error
	Close() error
}

// StorageError reports that the underlying store could not be read or
// written. Reads of individual missing or corrupt values do not produce
// it; serialization and IO failures do.
type StorageError struct {
	Op  string
	Key string
	Err error
}

func (e *StorageError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("store: %s %q: %v", e.Op, e.Key, e.Err)
	}
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
