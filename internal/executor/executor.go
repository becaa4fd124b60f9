// Package executor evaluates compiled tasks.
//
// A task body runs sequentially and stops at the first failing call. Every
// call is dispatched to a builtin from the registry. Builtins that evaluate
// sub-calls, like `par`, do so through the Executor, which also implements
// registry.Runner.
package executor

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/specialistvlad/rhiz/internal/ctxlog"
	"github.com/specialistvlad/rhiz/internal/execerr"
	"github.com/specialistvlad/rhiz/internal/registry"
	"github.com/specialistvlad/rhiz/internal/task"
	"golang.org/x/sync/semaphore"
)

// DefaultWorkers is the worker pool size used when none is configured.
const DefaultWorkers = 10

// Config holds the execution environment.
type Config struct {
	// Workers bounds how many leaf builtins may run at once.
	Workers int
	Stdout  io.Writer
	Stderr  io.Writer
	FS      billy.Filesystem
	// Environ is passed to spawned processes. Nil inherits the current
	// process environment.
	Environ []string
}

// Executor runs tasks against a fixed builtin registry. It is safe for
// concurrent use.
type Executor struct {
	registry *registry.Registry
	slots    *semaphore.Weighted
	workers  int
	stdout   io.Writer
	stderr   io.Writer
	fs       billy.Filesystem
	environ  []string
}

var _ registry.Runner = (*Executor)(nil)

// New creates an Executor, filling unset Config fields with defaults.
func New(reg *registry.Registry, cfg Config) *Executor {
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers
	}
	if cfg.Stdout == nil {
		cfg.Stdout = os.Stdout
	}
	if cfg.Stderr == nil {
		cfg.Stderr = os.Stderr
	}
	if cfg.FS == nil {
		cfg.FS = osfs.New("/")
	}

	// One lock for both streams so they stay ordered when they share a sink.
	mu := &sync.Mutex{}
	return &Executor{
		registry: reg,
		slots:    semaphore.NewWeighted(int64(cfg.Workers)),
		workers:  cfg.Workers,
		stdout:   &syncWriter{mu: mu, w: cfg.Stdout},
		stderr:   &syncWriter{mu: mu, w: cfg.Stderr},
		fs:       cfg.FS,
		environ:  cfg.Environ,
	}
}

// Workers returns the size of the worker pool.
func (e *Executor) Workers() int {
	return e.workers
}

// ExecuteTask runs the body of the named task in workDir, made absolute
// against the current directory. An unknown name fails before anything is
// evaluated. Otherwise the first failing call ends the task and its error
// is returned unchanged.
func (e *Executor) ExecuteTask(ctx context.Context, name string, tasks *task.Set, workDir string) error {
	t, ok := tasks.Lookup(name)
	if !ok {
		return execerr.NoTask(name)
	}
	workDir, err := filepath.Abs(workDir)
	if err != nil {
		return fmt.Errorf("failed to resolve working directory: %w", err)
	}

	ctx = ctxlog.With(ctx, "task", name)
	logger := ctxlog.FromContext(ctx)
	logger.Info("▶️ Starting task", "calls", len(t.Body))
	start := time.Now()

	for _, call := range t.Body {
		if err := e.Eval(ctx, call, workDir); err != nil {
			logger.Error("❌ Task failed", "error", err, "range", call.Range.String())
			return err
		}
	}

	logger.Info("✅ Finished task", "duration", time.Since(start))
	return nil
}
