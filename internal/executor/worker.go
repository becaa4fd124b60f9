package executor

import (
	"context"
	"io"
	"sync"

	"github.com/specialistvlad/rhiz/internal/ast"
	"github.com/specialistvlad/rhiz/internal/ctxlog"
	"github.com/specialistvlad/rhiz/internal/registry"
	"golang.org/x/sync/errgroup"
)

// runLeaf runs a builtin while holding one worker slot. Nested builtins
// never come through here, so a parent waiting on its branches holds no
// slot and cannot starve them.
func (e *Executor) runLeaf(ctx context.Context, b *registry.Builtin, inv *registry.Invocation) error {
	logger := ctxlog.FromContext(ctx)
	if err := e.slots.Acquire(ctx, 1); err != nil {
		logger.Debug("Gave up waiting for a worker slot.", "builtin", b.Name, "error", err)
		return err
	}
	defer e.slots.Release(1)

	logger.Debug("Worker slot acquired.", "builtin", b.Name)
	return b.Run(ctx, inv)
}

// Fork evaluates every call on its own goroutine and waits for all of
// them. Results are returned by index. A failing branch does not cancel
// the others.
func (e *Executor) Fork(ctx context.Context, calls []*ast.Call, workDir string) []error {
	results := make([]error, len(calls))

	// Plain group, not WithContext: branch errors land in results and
	// Wait never sees them.
	var g errgroup.Group
	for i, call := range calls {
		i, call := i, call
		branchCtx := ctxlog.With(ctx, "branch", i)
		g.Go(func() error {
			results[i] = e.Eval(branchCtx, call, workDir)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// syncWriter serializes writes so output from concurrent branches never
// interleaves within a single Write.
type syncWriter struct {
	mu *sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}
