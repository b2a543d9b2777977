package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/rello/internal/command"
	"github.com/mesh-intelligence/rello/pkg/store"
	"github.com/mesh-intelligence/rello/pkg/types"
)

// openStore resolves the store configuration and opens the backend. The
// caller must Close the returned store.
func (a *app) openStore() (types.Store, error) {
	cfg, err := a.storeConfig()
	if err != nil {
		return nil, userError(err)
	}
	s, err := store.Open(cfg)
	if err != nil {
		return nil, sysError(fmt.Errorf("open %s store: %w", cfg.Backend, err))
	}
	return s, nil
}

// withBoard runs the load, mutate, save lifecycle: the board is loaded once,
// handed to fn, and saved once if fn reports a change. A board that fails to
// load degrades to an empty board with a warning. The empty board is only
// saved when the store moved the unreadable data aside (types.ErrCorruptBoard);
// otherwise saving would overwrite it, so the save is refused. A failed save
// is a system error.
func (a *app) withBoard(fn func(b *types.Board) (bool, error)) error {
	s, err := a.openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	logger := a.logger.With("board", s.Location())

	b, loadErr := s.Load()
	if loadErr != nil {
		if b == nil {
			b = types.NewBoard()
		}
		if errors.Is(loadErr, types.ErrCorruptBoard) {
			logger.Warn("board file is corrupt, starting with an empty board", "err", loadErr)
			loadErr = nil
		} else {
			logger.Warn("could not load board, starting with an empty board", "err", loadErr)
		}
	} else {
		logger.Debug("board loaded", "columns", len(b.Columns), "items", b.ItemCount(), "counter", b.Counter)
	}

	changed, runErr := fn(b)
	if !changed {
		return runErr
	}

	if loadErr != nil {
		return sysError(fmt.Errorf("could not save board: refusing to overwrite a board that failed to load: %w", loadErr))
	}
	if err := s.Save(b); err != nil {
		return sysError(fmt.Errorf("could not save board: %w", err))
	}
	logger.Debug("board saved", "columns", len(b.Columns), "items", b.ItemCount(), "counter", b.Counter)
	return runErr
}

// runCommand executes a single command inside the board lifecycle. Lookup
// failures and exhausted ids are user errors.
func (a *app) runCommand(cmd *cobra.Command, c command.Command) error {
	return a.withBoard(func(b *types.Board) (bool, error) {
		changed, err := command.Execute(b, c, cmd.OutOrStdout())
		if err != nil {
			a.logger.Debug("command failed", "command", c.Name(), "err", err)
			return false, userError(err)
		}
		a.logger.Debug("command applied", "command", c.Name(), "changed", changed)
		return changed, nil
	})
}

// parseIDArg parses an item ID argument as a user error on failure.
func parseIDArg(s string) (uint16, error) {
	id, err := command.ParseID(s)
	if err != nil {
		return 0, userError(err)
	}
	return id, nil
}
