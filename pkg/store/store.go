// Package store provides the public API for opening a storefront Store.
// This package exposes the factory function while keeping the backend
// implementations internal.
package store

import (
	"github.com/mesh-intelligence/storefront/internal/store"
	"github.com/mesh-intelligence/storefront/pkg/types"
)

// Open returns the backend named by config.Backend.
//
// Example:
//
//	s, err := store.Open(types.Config{
//	    Backend: types.BackendSQLite,
//	    DataDir: ".storefront-db",
//	})
//	defer s.Close()
func Open(config types.Config) (types.Store, error) {
	return store.Open(config)
}

// NewMemory returns an empty in-memory store.
func NewMemory() types.Store {
	return store.NewMemory()
}
