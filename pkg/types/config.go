package types

import "errors"

// Config selects the storage backend and where the board lives.
type Config struct {
	Backend   string `json:"backend" yaml:"backend"`
	BoardFile string `json:"board_file" yaml:"board_file,omitempty"`
}

// Supported backend names.
const (
	BackendTOML   = "toml"
	BackendSQLite = "sqlite"
)

// Config validation errors.
var (
	ErrBackendEmpty   = errors.New("backend must not be empty")
	ErrBackendUnknown = errors.New("unknown backend")
	ErrBoardFileEmpty = errors.New("board file must not be empty")
)

// knownBackends lists the backends that Validate accepts.
var knownBackends = map[string]bool{
	BackendTOML:   true,
	BackendSQLite: true,
}

// Backends returns the accepted backend names in a stable order.
func Backends() []string {
	return []string{BackendTOML, BackendSQLite}
}

// Validate checks that the Config is well-formed. It returns a sentinel error
// from this package on failure.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return ErrBackendUnknown
	}
	if c.BoardFile == "" {
		return ErrBoardFileEmpty
	}
	return nil
}
