package store

import (
	"database/sql"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/rello/pkg/types"
)

// SQLiteStore keeps a board in a SQLite database file. Save replaces the
// whole document inside one transaction, so readers never observe a partial
// board. The database is opened on first use and is only created by Save.
type SQLiteStore struct {
	mu     sync.Mutex
	path   string
	db     *sql.DB
	closed bool
}

// NewSQLiteStore returns a store for the database at path. The file is not
// touched until Load or Save.
func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

// Location returns the database file path.
func (s *SQLiteStore) Location() string {
	return s.path
}

// open opens (creating if needed) the database and ensures the schema
// exists. Callers hold s.mu.
func (s *SQLiteStore) open() error {
	if s.db != nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("creating board directory: %w", err)
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", s.path, err)
	}
	// A single connection keeps PRAGMA settings and transactions on the same
	// underlying handle.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return fmt.Errorf("enabling foreign keys: %w", err)
	}
	for _, stmt := range schemaStatements {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return fmt.Errorf("creating schema: %w", err)
		}
	}

	s.db = db
	return nil
}

// Load reads the board. A missing or empty database yields an empty board
// and a missing file is not created. A database whose contents do not form a
// valid board is closed and renamed with a ".corrupt" suffix so the next
// Save starts a fresh file; Load then returns an empty board together with an
// error wrapping types.ErrCorruptBoard.
func (s *SQLiteStore) Load() (*types.Board, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, types.ErrStoreClosed
	}
	if s.db == nil {
		_, err := os.Stat(s.path)
		if errors.Is(err, os.ErrNotExist) {
			return types.NewBoard(), nil
		}
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", s.path, err)
		}
	}
	if err := s.open(); err != nil {
		return nil, err
	}

	b, err := s.load()
	if errors.Is(err, types.ErrCorruptBoard) {
		return types.NewBoard(), s.quarantine(err)
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

// quarantine closes the database and moves it aside. The returned error
// wraps cause only when the move succeeded, so types.ErrCorruptBoard always
// means the stored data is out of harm's way. Callers hold s.mu.
func (s *SQLiteStore) quarantine(cause error) error {
	if err := s.db.Close(); err != nil {
		s.db = nil
		return fmt.Errorf("%v (could not close database: %w)", cause, err)
	}
	s.db = nil

	dst := s.path + corruptSuffix
	if err := os.Rename(s.path, dst); err != nil {
		return fmt.Errorf("%v (could not move aside: %w)", cause, err)
	}
	return fmt.Errorf("%w (moved to %s)", cause, dst)
}

// load reads the board rows. Callers hold s.mu with the database open.
func (s *SQLiteStore) load() (*types.Board, error) {
	b := types.NewBoard()

	var counter int64
	err := s.db.QueryRow("SELECT counter FROM board WHERE singleton = 0").Scan(&counter)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		counter = 0
	case err != nil:
		return nil, fmt.Errorf("reading counter: %w", err)
	}
	if counter < 0 || counter > math.MaxUint16 {
		return nil, fmt.Errorf("%w: counter %d out of range", types.ErrCorruptBoard, counter)
	}
	b.Counter = uint16(counter)

	colRows, err := s.db.Query("SELECT position, title FROM columns ORDER BY position")
	if err != nil {
		return nil, fmt.Errorf("reading columns: %w", err)
	}
	byPosition := make(map[int64]*types.Column)
	for colRows.Next() {
		var pos int64
		var title string
		if err := colRows.Scan(&pos, &title); err != nil {
			colRows.Close()
			return nil, fmt.Errorf("scanning column: %w", err)
		}
		col := types.NewColumn(title)
		b.Columns = append(b.Columns, col)
		byPosition[pos] = col
	}
	if err := colRows.Err(); err != nil {
		colRows.Close()
		return nil, fmt.Errorf("reading columns: %w", err)
	}
	colRows.Close()

	itemRows, err := s.db.Query("SELECT id, column_position, title, body, assignee FROM items ORDER BY column_position, position")
	if err != nil {
		return nil, fmt.Errorf("reading items: %w", err)
	}
	defer itemRows.Close()
	for itemRows.Next() {
		var (
			id       int64
			colPos   int64
			title    string
			body     string
			assignee sql.NullString
		)
		if err := itemRows.Scan(&id, &colPos, &title, &body, &assignee); err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		if id < 0 || id > math.MaxUint16 {
			return nil, fmt.Errorf("%w: item id %d out of range", types.ErrCorruptBoard, id)
		}
		col, ok := byPosition[colPos]
		if !ok {
			return nil, fmt.Errorf("%w: item %d references missing column %d", types.ErrCorruptBoard, id, colPos)
		}
		var who *string
		if assignee.Valid {
			who = &assignee.String
		}
		col.Items = append(col.Items, types.NewItem(uint16(id), title, body, who))
	}
	if err := itemRows.Err(); err != nil {
		return nil, fmt.Errorf("reading items: %w", err)
	}

	if err := normalize(b); err != nil {
		return nil, err
	}
	return b, nil
}

// Save replaces the stored board with b in a single transaction.
func (s *SQLiteStore) Save(b *types.Board) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return types.ErrStoreClosed
	}
	if err := s.open(); err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning save transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range []string{"DELETE FROM items", "DELETE FROM columns", "DELETE FROM board"} {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("clearing board: %w", err)
		}
	}

	if _, err := tx.Exec("INSERT INTO board (singleton, counter) VALUES (0, ?)", int64(b.Counter)); err != nil {
		return fmt.Errorf("writing counter: %w", err)
	}

	colStmt, err := tx.Prepare("INSERT INTO columns (position, title) VALUES (?, ?)")
	if err != nil {
		return fmt.Errorf("preparing column insert: %w", err)
	}
	defer colStmt.Close()

	itemStmt, err := tx.Prepare("INSERT INTO items (id, column_position, position, title, body, assignee) VALUES (?, ?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("preparing item insert: %w", err)
	}
	defer itemStmt.Close()

	for ci, col := range b.Columns {
		if _, err := colStmt.Exec(ci, col.Title); err != nil {
			return fmt.Errorf("writing column %q: %w", col.Title, err)
		}
		for ii, itm := range col.Items {
			var assignee sql.NullString
			if itm.Assignee != nil {
				assignee = sql.NullString{String: *itm.Assignee, Valid: true}
			}
			if _, err := itemStmt.Exec(int64(itm.ID), ci, ii, itm.Title, itm.Body, assignee); err != nil {
				return fmt.Errorf("writing item %d: %w", itm.ID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing save transaction: %w", err)
	}
	return nil
}

// Close releases the database handle. Idempotent.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}
