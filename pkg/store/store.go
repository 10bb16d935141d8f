// Package store keeps identities of notified articles across restarts.
// The set is append-only, ids are never removed.
package store

import (
	"context"
	"fmt"
)

// Store is a persisted set of notified article identities
type Store interface {
	Contains(id string) bool
	Add(id string)
	Persist(ctx context.Context) error
	Len() int
	Close() error
}

// supported store types
const (
	TypeFile   = "file"
	TypeSQLite = "sqlite"
)

// New opens a store of the given type at path
func New(ctx context.Context, storeType, path string) (Store, error) {
	switch storeType {
	case TypeFile, "":
		return LoadFile(path), nil
	case TypeSQLite:
		return OpenSQLite(ctx, path)
	default:
		return nil, fmt.Errorf("unknown store type %q", storeType)
	}
}
