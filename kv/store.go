package kv

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned by Get when the key holds no value.
	ErrNotFound = errors.New("kv: key not found")
	// ErrUnavailable wraps backend failures (network, disk, closed handle).
	ErrUnavailable = errors.New("kv: backend unavailable")
)

// Store is a minimal byte-oriented key-value store.
//
// Set overwrites. Delete of a missing key is not an error.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}
