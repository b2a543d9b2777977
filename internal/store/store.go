package store

import (
	"fmt"

	"github.com/mesh-intelligence/rello/pkg/types"
)

// New validates cfg and returns the store for its backend.
func New(cfg types.Config) (types.Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch cfg.Backend {
	case types.BackendSQLite:
		return NewSQLiteStore(cfg.BoardFile), nil
	case types.BackendTOML:
		return NewFileStore(cfg.BoardFile), nil
	default:
		return nil, fmt.Errorf("%w: %q", types.ErrBackendUnknown, cfg.Backend)
	}
}

var (
	_ types.Store = (*FileStore)(nil)
	_ types.Store = (*SQLiteStore)(nil)
)
