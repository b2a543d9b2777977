package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/rello/internal/paths"
	"github.com/mesh-intelligence/rello/pkg/store"
	"github.com/mesh-intelligence/rello/pkg/types"
)

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize rello configuration and board",
		Long: "Create the configuration directory and config.yaml, then create an empty\n" +
			"board if none exists. Explicit --backend and --board flags are recorded\n" +
			"in config.yaml so later commands use them by default.",
		Args: cobra.NoArgs,
		RunE: a.runInit,
	}
}

func (a *app) runInit(cmd *cobra.Command, args []string) error {
	cfg, err := a.storeConfig()
	if err != nil {
		return userError(err)
	}

	if a.flags.backend != "" || a.flags.boardFile != "" {
		configPath := filepath.Join(a.configDir, paths.DefaultConfigFile)
		if err := a.recordConfig(configPath, cfg); err != nil {
			return sysError(fmt.Errorf("write config: %w", err))
		}
	}

	_, err = os.Stat(cfg.BoardFile)
	switch {
	case err == nil:
		fmt.Fprintf(cmd.OutOrStdout(), "Board already exists at %s\n", cfg.BoardFile)
		return nil
	case !errors.Is(err, os.ErrNotExist):
		return sysError(fmt.Errorf("stat board: %w", err))
	}

	s, err := store.Open(cfg)
	if err != nil {
		return sysError(fmt.Errorf("open %s store: %w", cfg.Backend, err))
	}
	defer s.Close()

	if err := s.Save(types.NewBoard()); err != nil {
		return sysError(fmt.Errorf("could not save board: %w", err))
	}
	a.logger.Debug("board initialized", "board", s.Location(), "backend", cfg.Backend)

	fmt.Fprintf(cmd.OutOrStdout(), "Board initialized at %s\n", cfg.BoardFile)
	return nil
}

// recordConfig merges the explicitly flagged parts of resolved into
// config.yaml, keeping every other key already there.
func (a *app) recordConfig(path string, resolved types.Config) error {
	cfg := map[string]any{}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
		if cfg == nil {
			cfg = map[string]any{}
		}
	case !errors.Is(err, os.ErrNotExist):
		return err
	}

	if _, ok := cfg[cfgKeyBackend]; a.flags.backend != "" || !ok {
		cfg[cfgKeyBackend] = resolved.Backend
	}
	if a.flags.boardFile != "" {
		cfg[cfgKeyBoardFile] = resolved.BoardFile
	}

	out, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, out, 0o644)
}
