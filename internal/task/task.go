// Package task compiles the top level of a parsed Rhizfile into named tasks.
package task

import (
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/rhiz/internal/ast"
)

// Task is a named, compiled unit of work. Its Body shares the call nodes of
// the parsed program; neither is modified after compilation.
type Task struct {
	Name string
	// Description is empty when the declaration has none.
	Description string
	Body        []*ast.Call
	// Range is the location of the whole `(task ...)` declaration.
	Range hcl.Range
}

// Override records a declaration that replaced an earlier one with the
// same name.
type Override struct {
	Name     string
	Previous hcl.Range
	Current  hcl.Range
}

// Set is the compiled program: tasks keyed by name.
type Set struct {
	tasks     map[string]*Task
	overrides []Override
}

// Lookup returns the task with the given name.
func (s *Set) Lookup(name string) (*Task, bool) {
	t, ok := s.tasks[name]
	return t, ok
}

// Len returns the number of distinct task names.
func (s *Set) Len() int {
	return len(s.tasks)
}

// Tasks returns every task sorted by name.
func (s *Set) Tasks() []*Task {
	out := make([]*Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Overrides lists redeclared task names in declaration order.
func (s *Set) Overrides() []Override {
	return s.overrides
}
