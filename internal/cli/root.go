// Package cli implements the rello command-line interface.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mesh-intelligence/rello/internal/command"
	"github.com/mesh-intelligence/rello/internal/logging"
	"github.com/mesh-intelligence/rello/internal/paths"
	"github.com/mesh-intelligence/rello/pkg/rello"
	"github.com/mesh-intelligence/rello/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	boardFile string
	backend   string
	logLevel  string
	logFormat string
}

// app carries per-invocation state from the root command to subcommands.
// Each NewRootCmd call gets its own, so in-process runs never share state.
type app struct {
	flags     rootFlags
	configDir string
	cfg       *viper.Viper
	logger    *log.Logger
}

// exitError carries the process exit code for an error returned by RunE.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func userError(err error) error { return &exitError{code: exitUserError, err: err} }
func sysError(err error) error  { return &exitError{code: exitSysError, err: err} }

// exitCode maps an error returned by the command tree to a process exit code.
// Errors raised by cobra itself (unknown command, bad flags) are user errors.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return exitUserError
}

// NewRootCmd creates the top-level "rello" command with global flags and all
// subcommands registered.
func NewRootCmd() *cobra.Command {
	a := &app{logger: logging.Discard()}

	root := &cobra.Command{
		Use:     "rello",
		Short:   "A command-line kanban board",
		Long:    "Rello keeps a kanban board of columns and items in a local file.\nRun a single command, or \"rello shell\" for an interactive session.",
		Version: rello.Version,
		// Errors are printed once by Run with the right exit code.
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	root.PersistentFlags().StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (default: $XDG_CONFIG_HOME/rello)")
	root.PersistentFlags().StringVar(&a.flags.boardFile, "board", "", "board file (default: $(CWD)/board.toml)")
	root.PersistentFlags().StringVar(&a.flags.backend, "backend", "", "storage backend: toml or sqlite (default: toml)")
	root.PersistentFlags().StringVar(&a.flags.logLevel, "log-level", "", "log level: debug, info, warn, error (default: warn)")
	root.PersistentFlags().StringVar(&a.flags.logFormat, "log-format", "", "log format: text, json, logfmt (default: text)")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd(a))
	root.AddCommand(newListCmd(a))
	root.AddCommand(newColumnCmd(a))
	root.AddCommand(newItemCmd(a))
	root.AddCommand(newShellCmd(a))

	return root
}

// Run executes the command tree with the given arguments and streams and
// returns the process exit code.
func Run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	root := NewRootCmd()
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.Execute()
	if err != nil {
		fmt.Fprintln(stderr, errorMessage(err))
	}
	return exitCode(err)
}

// Execute runs the root command against the process streams and exits with
// the appropriate code.
func Execute() {
	os.Exit(Run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// errorMessage renders lookup failures the way the board reports them and
// everything else verbatim.
func errorMessage(err error) string {
	if command.IsNotFound(err) || errors.Is(err, types.ErrIDSpaceExhausted) {
		return command.Message(err)
	}
	return err.Error()
}

// setup loads configuration and builds the logger before any subcommand runs.
func (a *app) setup(cmd *cobra.Command) error {
	// Skip config for version so it works without a writable config dir.
	if cmd.Name() == "version" {
		return nil
	}

	if err := loadDotEnv(paths.DefaultDotEnvFile); err != nil {
		return sysError(fmt.Errorf("load %s: %w", paths.DefaultDotEnvFile, err))
	}

	configDir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return sysError(fmt.Errorf("resolve config dir: %w", err))
	}

	cfg, err := loadConfig(configDir)
	if err != nil {
		return sysError(err)
	}
	a.configDir = configDir
	a.cfg = cfg

	opts := logging.DefaultOptions()
	opts.Level = a.logLevel()
	opts.Formatter = a.logFormat()
	opts.ReportTimestamp = cfg.GetBool(cfgKeyLogTime)
	a.logger = logging.New(cmd.ErrOrStderr(), opts)
	a.logger.Debug("configuration loaded", "config_dir", configDir, "config_file", cfg.ConfigFileUsed())
	return nil
}

// logLevel returns the log level following: --log-level > RELLO_LOG_LEVEL >
// config.yaml log_level > default.
func (a *app) logLevel() string {
	if a.flags.logLevel != "" {
		return a.flags.logLevel
	}
	return a.cfg.GetString(cfgKeyLogLevel)
}

// logFormat returns the log format following: --log-format >
// RELLO_LOG_FORMAT > config.yaml log_format > default.
func (a *app) logFormat() string {
	if a.flags.logFormat != "" {
		return a.flags.logFormat
	}
	return a.cfg.GetString(cfgKeyLogFormat)
}

// storeConfig resolves the backend and board location for this invocation.
func (a *app) storeConfig() (types.Config, error) {
	backend := a.flags.backend
	if backend == "" {
		backend = a.cfg.GetString(cfgKeyBackend)
	}

	boardFile, err := paths.ResolveBoardFile(a.flags.boardFile, a.cfg.GetString(cfgKeyBoardFile), backend == types.BackendSQLite)
	if err != nil {
		return types.Config{}, fmt.Errorf("resolve board file: %w", err)
	}

	cfg := types.Config{Backend: backend, BoardFile: boardFile}
	if err := cfg.Validate(); err != nil {
		if errors.Is(err, types.ErrBackendUnknown) {
			return types.Config{}, fmt.Errorf("%w %q (valid: %s)", err, backend, joinBackends())
		}
		return types.Config{}, err
	}
	return cfg, nil
}
