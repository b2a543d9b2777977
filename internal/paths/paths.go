// Package paths resolves the configuration directory and the board file
// location.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// Default file names. The board lives next to where rello is run unless
// configured otherwise.
const (
	AppName            = "rello"
	DefaultTOMLBoard   = "board.toml"
	DefaultSQLiteBoard = "board.db"
	DefaultConfigFile  = "config.yaml"
	DefaultDotEnvFile  = ".env"
)

// Environment variable names for location overrides.
const (
	EnvConfigDir = "RELLO_CONFIG_DIR"
	EnvBoardFile = "RELLO_BOARD_FILE"
)

// platformDir holds platform-detection functions that can be overridden in tests.
var platformDir = struct {
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
}{
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
}

// DefaultConfigDir returns the platform-specific default configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/rello (fallback ~/.config/rello)
// macOS:   ~/Library/Application Support/rello
// Windows: %APPDATA%/rello
func DefaultConfigDir() (string, error) {
	switch runtime.GOOS {
	case "linux":
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, AppName), nil
		}
		home, err := platformDir.homeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".config", AppName), nil
	default:
		dir, err := platformDir.userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, AppName), nil
	}
}

// ResolveConfigDir returns the configuration directory following the
// precedence chain: flag > RELLO_CONFIG_DIR env > DefaultConfigDir().
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultConfigDir()
}

// ResolveBoardFile returns the board location following the precedence
// chain: flag > config.yaml board_file > RELLO_BOARD_FILE env >
// $(CWD)/board.toml, or $(CWD)/board.db when sqlite is true.
func ResolveBoardFile(flag, configYAMLValue string, sqlite bool) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if configYAMLValue != "" {
		return filepath.Abs(configYAMLValue)
	}
	if env := os.Getenv(EnvBoardFile); env != "" {
		return filepath.Abs(env)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	if sqlite {
		return filepath.Join(cwd, DefaultSQLiteBoard), nil
	}
	return filepath.Join(cwd, DefaultTOMLBoard), nil
}
