package registry

import (
	"fmt"
	"log/slog"
	"sort"
)

// Module is the interface that every builtin module implements to be registered.
type Module interface {
	Register(r *Registry)
}

// Registry holds the builtins of one application instance.
type Registry struct {
	builtins map[string]*Builtin
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{builtins: make(map[string]*Builtin)}
}

// NewWith creates a Registry populated by the given modules.
func NewWith(modules ...Module) *Registry {
	r := New()
	for _, m := range modules {
		m.Register(r)
	}
	return r
}

// Register adds a builtin. Registering a name twice is a programming error
// and panics.
func (r *Registry) Register(b *Builtin) {
	if _, exists := r.builtins[b.Name]; exists {
		panic(fmt.Sprintf("builtin with name '%s' already registered", b.Name))
	}
	slog.Debug("Registering builtin.", "name", b.Name)
	r.builtins[b.Name] = b
}

// Resolve looks a builtin up by its exact name.
func (r *Registry) Resolve(name string) (*Builtin, bool) {
	b, ok := r.builtins[name]
	return b, ok
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.builtins))
	for name := range r.builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
