package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/specialistvlad/rhiz/internal/app"
	"github.com/specialistvlad/rhiz/internal/config"
	"github.com/spf13/cobra"
)

// options are the values bound to the persistent flags.
type options struct {
	file      string
	dir       string
	logLevel  string
	logFormat string
	workers   int
}

// NewRootCommand builds the rhiz command tree. Task output goes to outW;
// logs, diagnostics and help for errors go to errW.
func NewRootCommand(outW, errW io.Writer) *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "rhiz [flags] [task...]",
		Short: "A minimal declarative task runner",
		Long: `rhiz runs tasks declared in a Rhizfile.

A Rhizfile is a list of task declarations written as s-expressions:

  (task "build" "Compile everything"
    (empty-dir "out")
    (par (exec "go" "build" "./...")
         (copy "README.md" "out")))

The Rhizfile is looked up in the current directory and its parents; tasks
run in the directory that holds it. With no task names, the declared tasks
are listed.`,
		Args:          cobra.ArbitraryArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return runList(cmd, opts, outW, errW, app.FormatText)
			}
			return runTasks(cmd, opts, args, outW, errW)
		},
	}
	root.SetOut(outW)
	root.SetErr(errW)
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return usageError(err)
	})

	pf := root.PersistentFlags()
	pf.StringVarP(&opts.file, "file", "f", "", "Path to the Rhizfile; skips discovery.")
	pf.StringVarP(&opts.dir, "dir", "C", "", "Directory to start Rhizfile discovery from.")
	pf.StringVar(&opts.logLevel, "log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	pf.StringVar(&opts.logFormat, "log-format", "text", "Log output format. Options: 'text' or 'json'.")
	pf.IntVar(&opts.workers, "workers", 10, "Maximum number of builtins running at once.")

	root.AddCommand(newRunCommand(opts, outW, errW), newListCommand(opts, outW, errW))
	return root
}

func newRunCommand(opts *options, outW, errW io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "run task...",
		Short: "Run tasks in order",
		Long:  "Run the named tasks in order, stopping at the first failure. Use this form for tasks whose names collide with a subcommand.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTasks(cmd, opts, args, outW, errW)
		},
	}
}

func newListCommand(opts *options, outW, errW io.Writer) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the declared tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch output {
			case app.FormatText, app.FormatYAML:
			default:
				return usageError(fmt.Errorf("invalid output %q: must be 'text' or 'yaml'", output))
			}
			return runList(cmd, opts, outW, errW, output)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", app.FormatText, "Listing format. Options: 'text' or 'yaml'.")
	return cmd
}

// appConfig turns the explicitly set flags into an app.Config, validating
// them on the way.
func appConfig(cmd *cobra.Command, opts *options) (*app.Config, error) {
	cfg := &app.Config{File: opts.file, Dir: opts.dir}
	flags := cmd.Flags()

	if flags.Changed("log-level") {
		if err := config.ValidateLogLevel(opts.logLevel); err != nil {
			return nil, usageError(err)
		}
		cfg.LogLevel = opts.logLevel
	}
	if flags.Changed("log-format") {
		if err := config.ValidateLogFormat(opts.logFormat); err != nil {
			return nil, usageError(err)
		}
		cfg.LogFormat = opts.logFormat
	}
	if flags.Changed("workers") {
		if opts.workers < 1 {
			return nil, usageError(fmt.Errorf("invalid workers: must be at least 1, got %d", opts.workers))
		}
		cfg.Workers = opts.workers
	}

	slog.Debug("CLI parameter validation complete.", "config", cfg)
	return cfg, nil
}

func newApp(cmd *cobra.Command, opts *options, outW, errW io.Writer) (*app.App, error) {
	cfg, err := appConfig(cmd, opts)
	if err != nil {
		return nil, err
	}
	a, err := app.NewApp(cmd.Context(), outW, errW, cfg)
	if err != nil {
		return nil, failure(err)
	}
	return a, nil
}

func runTasks(cmd *cobra.Command, opts *options, names []string, outW, errW io.Writer) error {
	a, err := newApp(cmd, opts, outW, errW)
	if err != nil {
		return err
	}
	if err := a.Run(cmd.Context(), names); err != nil {
		return failure(err)
	}
	return nil
}

func runList(cmd *cobra.Command, opts *options, outW, errW io.Writer, format string) error {
	a, err := newApp(cmd, opts, outW, errW)
	if err != nil {
		return err
	}
	if err := a.List(outW, format); err != nil {
		return failure(err)
	}
	return nil
}

// Execute runs the command tree with args. Every error it returns is an
// *ExitError carrying the process exit code.
func Execute(ctx context.Context, args []string, outW, errW io.Writer) error {
	root := NewRootCommand(outW, errW)
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return nil
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr
	}
	// Argument validation errors come from cobra itself.
	return usageError(err)
}
