package store

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mesh-intelligence/rello/pkg/types"
)

// corruptSuffix is appended to a board file that could not be decoded before
// the load falls back to an empty board.
const corruptSuffix = ".corrupt"

// FileStore keeps a board in a single TOML file.
type FileStore struct {
	path string
}

// NewFileStore returns a store for the TOML file at path. The file is not
// touched until Load or Save.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Location returns the board file path.
func (s *FileStore) Location() string {
	return s.path
}

// Load reads and decodes the board file. A missing or empty file yields an
// empty board. A file that cannot be decoded is renamed with a ".corrupt"
// suffix so the next Save does not overwrite it; Load then returns an empty
// board together with an error wrapping types.ErrCorruptBoard. If the rename
// fails the error does not wrap types.ErrCorruptBoard.
func (s *FileStore) Load() (*types.Board, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return types.NewBoard(), nil
		}
		return types.NewBoard(), fmt.Errorf("reading %s: %w", s.path, err)
	}

	b, err := Decode(data)
	if err != nil {
		quarantine := s.path + corruptSuffix
		if rerr := os.Rename(s.path, quarantine); rerr != nil {
			// Without the quarantine the file must not be overwritten, so the
			// error no longer reports a corrupt (and safely moved) board.
			return types.NewBoard(), fmt.Errorf("%v (could not move aside: %w)", err, rerr)
		}
		return types.NewBoard(), fmt.Errorf("%w (moved to %s)", err, quarantine)
	}
	return b, nil
}

// Save encodes b and atomically replaces the board file.
func (s *FileStore) Save(b *types.Board) error {
	data, err := Encode(b)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("creating board directory: %w", err)
	}
	return writeFileAtomic(s.path, data)
}

// Close is a no-op; the file is opened only for the duration of Load and Save.
func (s *FileStore) Close() error {
	return nil
}

// writeFileAtomic writes data using the temp-file, fsync, rename pattern so a
// crash never leaves a half-written board behind.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".board-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	w := bufio.NewWriter(tmp)
	if _, err := w.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing board: %w", err)
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("flushing buffer: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
