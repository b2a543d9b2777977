// Package store provides the public API for opening a rello board store.
// This package exposes the factory function while keeping the backends
// internal.
package store

import (
	"github.com/mesh-intelligence/rello/internal/store"
	"github.com/mesh-intelligence/rello/pkg/types"
)

// Open creates the store selected by cfg.Backend. The caller must Close it.
//
// Example:
//
//	s, err := store.Open(types.Config{
//	    Backend:   types.BackendTOML,
//	    BoardFile: "board.toml",
//	})
//	if err != nil {
//	    return err
//	}
//	defer s.Close()
//	board, err := s.Load()
func Open(cfg types.Config) (types.Store, error) {
	return store.New(cfg)
}
