package types

// Store loads and saves a whole board. A board is loaded once when a session
// starts and saved once when it ends; there is no incremental persistence.
type Store interface {
	// Load reads the board. A missing or empty document yields NewBoard().
	Load() (*Board, error)

	// Save replaces the stored document with b.
	Save(b *Board) error

	// Location describes where the board lives (a file path).
	Location() string

	// Close releases backend resources. Idempotent.
	Close() error
}
