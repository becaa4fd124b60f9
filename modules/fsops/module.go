// Package fsops provides the filesystem builtins: delete, delete-file,
// delete-dir, empty-dir, copy and rec-copy.
//
// All access goes through the invocation's billy.Filesystem. Paths resolve
// against the task working directory unless they are absolute. Sibling `par`
// branches touching the same paths are not coordinated.
package fsops

import (
	"github.com/specialistvlad/rhiz/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the builtins with the engine.
func (m *Module) Register(r *registry.Registry) {
	path := registry.Fixed(registry.Text("path"))
	pair := registry.Fixed(registry.Text("src"), registry.Text("dest"))

	r.Register(&registry.Builtin{Name: "delete", Signature: path, Run: DeleteFile})
	r.Register(&registry.Builtin{Name: "delete-file", Signature: path, Run: DeleteFile})
	r.Register(&registry.Builtin{Name: "delete-dir", Signature: path, Run: DeleteDir})
	r.Register(&registry.Builtin{Name: "empty-dir", Signature: path, Run: EmptyDir})
	r.Register(&registry.Builtin{Name: "copy", Signature: pair, Run: Copy})
	r.Register(&registry.Builtin{Name: "rec-copy", Signature: pair, Run: RecCopy})
}
