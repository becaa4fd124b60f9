package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/specialistvlad/rhiz/internal/config"
	"github.com/specialistvlad/rhiz/internal/ctxlog"
	"github.com/specialistvlad/rhiz/internal/fsutil"
	"github.com/specialistvlad/rhiz/internal/registry"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	errW     io.Writer
	logger   *slog.Logger
	registry *registry.Registry
	settings *config.Settings
	project  *Project
	runID    string
}

// NewApp locates the Rhizfile, resolves the settings beside it against the
// command-line values, and loads the tasks. Task output goes to outW; logs
// and diagnostics go to errW.
func NewApp(ctx context.Context, outW, errW io.Writer, cfg *Config) (*App, error) {
	path, err := locate(cfg)
	if err != nil {
		return nil, err
	}

	settings, err := config.Load(ctx, filepath.Dir(path), os.Environ())
	if err != nil {
		return nil, err
	}
	if err := cfg.resolve(settings); err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	logger := newLogger(settings.LogLevel, settings.LogFormat, errW).With("run_id", runID)
	ctx = ctxlog.WithLogger(ctx, logger)
	logger.Debug("Logger configured successfully.", "settings_file", settings.Path, "workers", settings.Workers)

	project, err := LoadProject(ctx, path, errW)
	if err != nil {
		return nil, err
	}

	reg := Builtins()
	logger.Debug("Builtins ready.", "names", reg.Names())

	return &App{
		outW:     outW,
		errW:     errW,
		logger:   logger,
		registry: reg,
		settings: settings,
		project:  project,
		runID:    runID,
	}, nil
}

// locate returns the absolute path of the Rhizfile to load.
func locate(cfg *Config) (string, error) {
	if cfg.File == "" {
		start := cfg.Dir
		if start == "" {
			start = "."
		}
		return fsutil.FindRhizfile(start)
	}

	p := cfg.File
	if !filepath.IsAbs(p) && cfg.Dir != "" {
		p = filepath.Join(cfg.Dir, p)
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", cfg.File, err)
	}
	return abs, nil
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Settings returns the resolved settings.
func (a *App) Settings() *config.Settings {
	return a.settings
}

// Project returns the loaded Rhizfile.
func (a *App) Project() *Project {
	return a.project
}

// RunID identifies this run in the logs.
func (a *App) RunID() string {
	return a.runID
}
