package registry

import (
	"context"
	"fmt"
	"strings"

	"github.com/specialistvlad/rhiz/internal/ast"
	"github.com/specialistvlad/rhiz/internal/ctxlog"
)

// ValidateRegistry checks that every registered builtin is well formed: it
// has a function, every parameter accepts at least one kind, and nested
// builtins only take calls. All problems are reported together.
func (r *Registry) ValidateRegistry(ctx context.Context) error {
	var errs []string
	logger := ctxlog.FromContext(ctx)

	for _, name := range r.Names() {
		b := r.builtins[name]
		if b.Run == nil {
			errs = append(errs, fmt.Sprintf("builtin '%s': no function registered", name))
		}

		params := b.Signature.Params
		if b.Signature.Rest != nil {
			params = append(append([]Param(nil), params...), *b.Signature.Rest)
		}
		for i, p := range params {
			if len(p.Kinds) == 0 {
				errs = append(errs, fmt.Sprintf("builtin '%s', parameter %d (%s): accepts no kinds", name, i+1, p.Name))
			}
			if b.Nested {
				for _, k := range p.Kinds {
					if k != ast.KindCall {
						errs = append(errs, fmt.Sprintf("builtin '%s', parameter %d (%s): nested builtins may only take calls, found %s", name, i+1, p.Name, k))
					}
				}
			}
		}
		logger.Debug("Builtin validated.", "name", name, "params", len(params), "nested", b.Nested)
	}

	if len(errs) > 0 {
		return fmt.Errorf("registry validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}
