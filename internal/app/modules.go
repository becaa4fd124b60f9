package app

import (
	"context"
	"sync"

	"github.com/specialistvlad/rhiz/internal/registry"
	"github.com/specialistvlad/rhiz/modules/fsops"
	"github.com/specialistvlad/rhiz/modules/parallel"
	"github.com/specialistvlad/rhiz/modules/print"
	"github.com/specialistvlad/rhiz/modules/process"
)

// coreModules is the definitive list of all modules that are compiled into
// the rhiz binary.
var coreModules = []registry.Module{
	&print.Module{},
	&fsops.Module{},
	&process.Module{},
	&parallel.Module{},
}

// Builtins returns the process-wide builtin registry. It is built and
// validated on first use and never modified afterwards.
var Builtins = sync.OnceValue(func() *registry.Registry {
	reg := registry.NewWith(coreModules...)
	if err := reg.ValidateRegistry(context.Background()); err != nil {
		// A malformed builtin is a programmer error.
		panic(err)
	}
	return reg
})
