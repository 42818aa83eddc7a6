// Package storage keeps the console's per-browser key/value state.
//
// Each browser (or the terminal client) owns a namespace; inside it the
// session layer stores its tokens under fixed keys. Three backends share the
// Repository contract: SQLite (default), PostgreSQL and an in-memory map.
package storage

import (
	"context"
	"errors"
)

var ErrUnknownDriver = errors.New("unknown storage driver")

// Repository is the namespaced key/value contract.
//
// Get returns (nil, nil) for a missing key. Delete and Clear are idempotent.
type Repository interface {
	Get(ctx context.Context, ns, key string) ([]byte, error)
	Set(ctx context.Context, ns, key string, value []byte) error
	Delete(ctx context.Context, ns string, keys ...string) error
	List(ctx context.Context, ns string) (map[string][]byte, error)
	Clear(ctx context.Context, ns string) error
	Close() error
}

// KV is a Repository bound to one namespace.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, keys ...string) error
}
