// Package parallel provides the `par` builtin.
//
// `par` runs each of its sub-calls concurrently and waits for all of them.
// A failing branch never cancels its siblings. When branches fail, the
// failure of the lowest-indexed branch is reported.
package parallel

import (
	"context"

	"github.com/specialistvlad/rhiz/internal/ctxlog"
	"github.com/specialistvlad/rhiz/internal/execerr"
	"github.com/specialistvlad/rhiz/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the builtins with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.Register(&registry.Builtin{
		Name:      "par",
		Signature: registry.Variadic(registry.CallParam("branch")),
		Nested:    true,
		Run:       Par,
	})
}

// Par forks every sub-call through the runner and merges the results.
func Par(ctx context.Context, inv *registry.Invocation) error {
	calls := inv.Calls()
	logger := ctxlog.FromContext(ctx)

	logger.Debug("Forking branches.", "branches", len(calls))
	results := inv.Runner.Fork(ctx, calls, inv.WorkDir)

	err := execerr.Merge(results)
	if err != nil {
		logger.Debug("Branches failed.", "branches", len(calls), "error", err)
		return err
	}
	logger.Debug("All branches finished.", "branches", len(calls))
	return nil
}
