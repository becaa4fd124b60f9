package executor

import (
	"context"

	"github.com/specialistvlad/rhiz/internal/ast"
	"github.com/specialistvlad/rhiz/internal/ctxlog"
	"github.com/specialistvlad/rhiz/internal/execerr"
	"github.com/specialistvlad/rhiz/internal/registry"
)

// Eval evaluates one call. The head must be a symbol naming a registered
// builtin and the arguments must match its signature; only then does the
// builtin run.
func (e *Executor) Eval(ctx context.Context, call *ast.Call, workDir string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	head := call.Head()
	if head == nil {
		return execerr.Empty()
	}
	sym, ok := head.(*ast.Symbol)
	if !ok {
		return execerr.InvalidFunc(head.String())
	}
	b, ok := e.registry.Resolve(sym.Name)
	if !ok {
		return execerr.InvalidFunc(sym.Name)
	}

	args := call.Args()
	if err := b.Signature.Check(b.Name, args); err != nil {
		return err
	}

	inv := &registry.Invocation{
		Builtin: b.Name,
		Call:    call,
		Args:    args,
		WorkDir: workDir,
		FS:      e.fs,
		Stdout:  e.stdout,
		Stderr:  e.stderr,
		Environ: e.environ,
		Runner:  e,
	}

	logger := ctxlog.FromContext(ctx)
	logger.Debug("Evaluating call.", "builtin", b.Name, "range", call.Range.String())

	if b.Nested {
		return b.Run(ctx, inv)
	}
	return e.runLeaf(ctx, b, inv)
}
