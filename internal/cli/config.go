package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/mesh-intelligence/rello/internal/logging"
	"github.com/mesh-intelligence/rello/internal/paths"
	"github.com/mesh-intelligence/rello/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"

	// Config keys.
	cfgKeyBackend   = "backend"
	cfgKeyBoardFile = "board_file"
	cfgKeyLogLevel  = "log_level"
	cfgKeyLogFormat = "log_format"
	cfgKeyLogTime   = "log_timestamp"

	// Environment overrides for config keys. The board file env var is
	// handled by paths.ResolveBoardFile so that config.yaml wins over it.
	envBackend   = "RELLO_BACKEND"
	envLogLevel  = "RELLO_LOG_LEVEL"
	envLogFormat = "RELLO_LOG_FORMAT"
)

// defaultConfigYAML is the content written to config.yaml on first run.
const defaultConfigYAML = `# rello configuration

# Storage backend: toml or sqlite
backend: toml

# Board location (optional; overridable by --board)
# board_file: ~/boards/work.toml

# Log level: debug, info, warn, error
log_level: warn

# Log format: text, json, logfmt
log_format: text

# Prefix log lines with a timestamp
log_timestamp: false
`

// loadConfig reads config.yaml from the resolved config directory using Viper.
// It creates the config directory and a default config.yaml on first run.
// A missing config.yaml is not an error.
func loadConfig(configDir string) (*viper.Viper, error) {
	if err := ensureConfigDir(configDir); err != nil {
		return nil, fmt.Errorf("ensure config dir: %w", err)
	}

	if err := ensureDefaultConfigFile(configDir); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyBackend, types.BackendTOML)
	v.SetDefault(cfgKeyLogLevel, logging.DefaultLevel)
	v.SetDefault(cfgKeyLogFormat, logging.DefaultFormat)
	v.SetDefault(cfgKeyLogTime, false)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)
	if err := v.BindEnv(cfgKeyBackend, envBackend); err != nil {
		return nil, fmt.Errorf("bind %s: %w", envBackend, err)
	}
	if err := v.BindEnv(cfgKeyLogLevel, envLogLevel); err != nil {
		return nil, fmt.Errorf("bind %s: %w", envLogLevel, err)
	}
	if err := v.BindEnv(cfgKeyLogFormat, envLogFormat); err != nil {
		return nil, fmt.Errorf("bind %s: %w", envLogFormat, err)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	return v, nil
}

// ensureConfigDir creates the config directory if it does not exist.
func ensureConfigDir(configDir string) error {
	return os.MkdirAll(configDir, 0o755)
}

// ensureDefaultConfigFile creates a default config.yaml if the file does not
// exist in the config directory.
func ensureDefaultConfigFile(configDir string) error {
	path := filepath.Join(configDir, paths.DefaultConfigFile)

	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}

	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}

// loadDotEnv loads KEY=value pairs from path into the environment without
// overriding variables that are already set. A missing file is not an error.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return godotenv.Load(path)
}

// joinBackends lists the accepted backends for error messages.
func joinBackends() string {
	return strings.Join(types.Backends(), ", ")
}
