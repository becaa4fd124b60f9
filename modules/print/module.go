package print

import (
	"context"
	"fmt"

	"github.com/specialistvlad/rhiz/internal/ctxlog"
	"github.com/specialistvlad/rhiz/internal/execerr"
	"github.com/specialistvlad/rhiz/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Log writes its text argument and a newline to standard output.
func Log(ctx context.Context, inv *registry.Invocation) error {
	if _, err := fmt.Fprintln(inv.Stdout, inv.Word(0)); err != nil {
		return execerr.Write(inv.Builtin, err)
	}
	return nil
}

// Abort writes its text argument to standard error and fails.
func Abort(ctx context.Context, inv *registry.Invocation) error {
	msg := inv.Word(0)
	ctxlog.FromContext(ctx).Debug("Abort requested.", "message", msg)
	if _, err := fmt.Fprintln(inv.Stderr, msg); err != nil {
		return execerr.Write(inv.Builtin, err)
	}
	return execerr.Aborted(msg)
}

// Register registers the builtins with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.Register(&registry.Builtin{
		Name:      "log",
		Signature: registry.Fixed(registry.Text("message")),
		Run:       Log,
	})
	r.Register(&registry.Builtin{
		Name:      "abort",
		Signature: registry.Fixed(registry.Text("message")),
		Run:       Abort,
	})
}
