package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/specialistvlad/rhiz/internal/ctxlog"
	"github.com/specialistvlad/rhiz/internal/execerr"
	"github.com/specialistvlad/rhiz/internal/executor"
)

// Run executes the named tasks in order, stopping at the first failure.
// Every name is checked before anything runs.
func (a *App) Run(ctx context.Context, names []string) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.", "tasks", names)

	for _, name := range names {
		if _, ok := a.project.Tasks.Lookup(name); !ok {
			return execerr.NoTask(name)
		}
	}

	exec := executor.New(a.registry, executor.Config{
		Workers: a.settings.Workers,
		Stdout:  a.outW,
		Stderr:  a.errW,
		Environ: a.settings.Environ(os.Environ()),
	})

	a.logger.Info("🚀 Starting execution...", "tasks", names, "workers", exec.Workers(), "dir", a.project.Dir)
	start := time.Now()
	for _, name := range names {
		if err := exec.ExecuteTask(ctx, name, a.project.Tasks, a.project.Dir); err != nil {
			return fmt.Errorf("task %q failed: %w", name, err)
		}
	}
	a.logger.Info("🏁 Execution finished.", "duration", time.Since(start))

	return nil
}
