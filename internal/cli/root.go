// Package cli implements the storefront command-line interface: one-shot
// cart, wishlist, filter, and carousel commands against the persisted store,
// and the interactive browse command.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/storefront/internal/logging"
	"github.com/mesh-intelligence/storefront/internal/paths"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// exitError carries the exit code for an error returned by a command.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

// userError marks err as caused by the invocation.
func userError(format string, args ...any) error {
	return &exitError{code: exitUserError, err: fmt.Errorf(format, args...)}
}

// sysError marks err as an environment or storage failure.
func sysError(format string, args ...any) error {
	return &exitError{code: exitSysError, err: fmt.Errorf(format, args...)}
}

// exitCode maps an error returned by Execute to a process exit code.
// Errors without a code are cobra's own usage errors.
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

// rootFlags holds the global flag values.
type rootFlags struct {
	configDir string
	dataDir   string
	catalog   string
	logLevel  string
	jsonMode  bool
}

// app is the state shared by one command invocation.
type app struct {
	flags  rootFlags
	cfg    settings
	logger *zap.Logger
	stderr io.Writer
}

// NewRootCmd creates the top-level "storefront" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	a := &app{logger: zap.NewNop(), stderr: os.Stderr}

	root := &cobra.Command{
		Use:   "storefront",
		Short: "Storefront cart, wishlist, filter, and carousel engine",
		Long: "Storefront keeps a shopper's cart and wishlist across sessions and\n" +
			"drives the product filters and carousels of the storefront pages.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (default: platform config dir/"+paths.AppName+")")
	pf.StringVar(&a.flags.dataDir, "data-dir", "", "data directory (default: $(CWD)/"+paths.DefaultDataDirName+")")
	pf.StringVar(&a.flags.catalog, "catalog", "", "catalog YAML file (default: built-in sample catalog)")
	pf.StringVar(&a.flags.logLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.BoolVar(&a.flags.jsonMode, "json", false, "output in JSON format")

	root.AddCommand(
		newVersionCmd(),
		newInitCmd(a),
		newCartCmd(a),
		newWishlistCmd(a),
		newFilterCmd(a),
		newCarouselCmd(a),
		newBrowseCmd(a),
	)
	return root
}

// setup resolves directories, loads config.yaml, and builds the logger.
func (a *app) setup(cmd *cobra.Command) error {
	a.stderr = cmd.ErrOrStderr()
	if cmd.Name() == "version" {
		return nil
	}

	configDir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return sysError("resolve config dir: %w", err)
	}
	cfg, err := loadSettings(configDir)
	if err != nil {
		return sysError("%w", err)
	}
	cfg.DataDir, err = paths.ResolveDataDir(a.flags.dataDir, cfg.DataDir)
	if err != nil {
		return sysError("resolve data dir: %w", err)
	}
	if a.flags.catalog != "" {
		cfg.Catalog = a.flags.catalog
	}
	if a.flags.logLevel != "" {
		cfg.LogLevel = a.flags.logLevel
	}
	a.cfg = cfg

	if cmd.Name() == "browse" {
		// The TUI owns the terminal; logs go to a file in the data dir.
		return nil
	}
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return sysError("build logger: %w", err)
	}
	a.logger = logger.Named("storefront")
	return nil
}

// Execute runs the root command and exits with the mapped code.
func Execute() {
	root := NewRootCmd()
	err := root.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, "storefront:", err)
	}
	os.Exit(exitCode(err))
}
