package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when no value exists for the key.
var ErrNotFound = errors.New("storage: key not found")

// KeyValueStore is the persistence contract used for filter state. Values
// are opaque JSON blobs, a missing key is reported as ErrNotFound.
type KeyValueStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
