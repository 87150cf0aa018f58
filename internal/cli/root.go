// Package cli wires configuration, logging and the item views into the
// items command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/idilsaglam/items/internal/client"
	"github.com/idilsaglam/items/internal/config"
	"github.com/idilsaglam/items/internal/logging"
	"github.com/idilsaglam/items/internal/ui"
)

// Exit codes: 0 ok, 1 error, 2 usage.
const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

// Options are the root flags; they apply to every subcommand and win over
// the config file and ITEMS_* variables.
type Options struct {
	ConfigPath string
	Endpoint   string
	Timeout    time.Duration
	Theme      string
	LogFile    string
	Color      string
	Verbose    bool
}

type usageError struct{ error }

func (e usageError) Unwrap() error { return e.error }

// exitCodeError carries a code for failures that were already reported.
type exitCodeError struct{ code int }

func (e exitCodeError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

type app struct {
	opts   Options
	cfg    *config.Config
	log    *zap.Logger
	stdout io.Writer
	stderr io.Writer
}

func (a *app) newClient() *client.Client {
	return client.New(a.cfg.Endpoint,
		client.WithTimeout(a.cfg.Timeout.Std()),
		client.WithLogger(a.log))
}

// NewRootCommand builds the items command tree writing to stdout and stderr.
func NewRootCommand(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr, log: zap.NewNop()}

	root := &cobra.Command{
		Use:   "items",
		Short: "items - browse the item service from the terminal",
		Long: `items fetches the item list from the item service once and shows it.

Run without a subcommand to open the interactive view.`,
		Args:          usageArgs(cobra.NoArgs),
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.log.Sync()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runView(cmd.Context())
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return usageError{err}
	})

	f := root.PersistentFlags()
	f.StringVar(&a.opts.ConfigPath, "config", "", "path to a YAML config file (env ITEMS_CONFIG)")
	f.StringVar(&a.opts.Endpoint, "endpoint", "", "item service URL (env ITEMS_ENDPOINT)")
	f.DurationVar(&a.opts.Timeout, "timeout", 0, "request timeout, 0 disables (env ITEMS_TIMEOUT)")
	f.StringVar(&a.opts.Theme, "theme", "", "classic, neon or mono (env ITEMS_THEME)")
	f.StringVar(&a.opts.LogFile, "log-file", "", "write JSON logs to this file (env ITEMS_LOG_FILE)")
	f.StringVar(&a.opts.Color, "color", "auto", "colorize plain output: auto, always or never")
	f.BoolVarP(&a.opts.Verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(newViewCommand(a), newListCommand(a), newConfigCommand(a))
	return root
}

// setup resolves config (defaults < file < env < flags) and builds the logger.
func (a *app) setup(cmd *cobra.Command) error {
	switch a.opts.Color {
	case "auto":
		ui.SetColorForcing(false, false)
	case "always":
		ui.SetColorForcing(true, false)
	case "never":
		ui.SetColorForcing(false, true)
	default:
		return usageError{fmt.Errorf("invalid --color %q (want auto, always or never)", a.opts.Color)}
	}

	cfg, err := config.Load(a.opts.ConfigPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("endpoint") {
		cfg.Endpoint = a.opts.Endpoint
	}
	if flags.Changed("timeout") {
		cfg.Timeout = config.Duration(a.opts.Timeout)
	}
	if flags.Changed("theme") {
		cfg.Theme = a.opts.Theme
	}
	if flags.Changed("log-file") {
		cfg.LogFile = a.opts.LogFile
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	a.cfg = cfg
	ui.SetTheme(cfg.Theme)

	// stderr belongs to the terminal UI unless we are printing plainly
	interactive := cmd.Name() == "items" || cmd.Name() == "view"
	log, err := logging.New(logging.Options{
		Level:   cfg.LogLevel,
		File:    cfg.LogFile,
		Stderr:  a.opts.Verbose && !interactive,
		Verbose: a.opts.Verbose,
	})
	if err != nil {
		return err
	}
	a.log = log
	a.log.Debug("configuration resolved",
		zap.String("endpoint", cfg.Endpoint),
		zap.Duration("timeout", cfg.Timeout.Std()),
		zap.String("theme", cfg.Theme))
	return nil
}

func usageArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return usageError{err}
		}
		return nil
	}
}

// Execute runs the command line and returns the process exit code.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := NewRootCommand(stdout, stderr)
	root.SetArgs(args)

	cmd, err := root.ExecuteContextC(ctx)
	if err == nil {
		return exitOK
	}

	var ec exitCodeError
	if errors.As(err, &ec) {
		return ec.code
	}
	var ue usageError
	if errors.As(err, &ue) {
		ui.Fail(stderr, err.Error())
		fmt.Fprintln(stderr)
		if cmd == nil {
			cmd = root
		}
		fmt.Fprint(stderr, cmd.UsageString())
		return exitUsage
	}
	ui.Fail(stderr, err.Error())
	return exitError
}
