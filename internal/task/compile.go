package task

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/rhiz/internal/ast"
)

// keyword is the head symbol of every top-level declaration.
const keyword = "task"

// Reason classifies a CompileError.
type Reason int

const (
	// ReasonNotATask is a top-level form other than `(task ...)`.
	ReasonNotATask Reason = iota
	// ReasonBadName is a declaration whose name is missing or not a string.
	ReasonBadName
	// ReasonBadBody is a body item that is not a call.
	ReasonBadBody
)

func (r Reason) String() string {
	switch r {
	case ReasonNotATask:
		return "only task declarations allowed at top level"
	case ReasonBadName:
		return "task names must be a string literal"
	case ReasonBadBody:
		return "task bodies may only contain calls"
	default:
		return "invalid task declaration"
	}
}

// CompileError describes a malformed top-level declaration.
type CompileError struct {
	Reason Reason
	Range  hcl.Range
	// Detail names the offending element.
	Detail string
}

func (e *CompileError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s: %s", e.Range, e.Reason)
	}
	return fmt.Sprintf("%s: %s; %s", e.Range, e.Reason, e.Detail)
}

// Diagnostics converts the error for hcl's diagnostic writers.
func (e *CompileError) Diagnostics() hcl.Diagnostics {
	return hcl.Diagnostics{{
		Severity: hcl.DiagError,
		Summary:  e.Reason.String(),
		Detail:   e.Detail,
		Subject:  e.Range.Ptr(),
	}}
}

// Compile extracts the task declarations of prog. Declarations have the form
//
//	(task "name" ["description"] (call ...)*)
//
// Compilation stops at the first malformed declaration and returns no set.
// A later declaration with an existing name replaces the earlier one.
func Compile(prog *ast.Program) (*Set, error) {
	set := &Set{tasks: make(map[string]*Task, len(prog.Calls))}

	for _, decl := range prog.Calls {
		t, err := compileDecl(decl)
		if err != nil {
			return nil, err
		}
		if prev, ok := set.tasks[t.Name]; ok {
			set.overrides = append(set.overrides, Override{
				Name:     t.Name,
				Previous: prev.Range,
				Current:  t.Range,
			})
		}
		set.tasks[t.Name] = t
	}

	return set, nil
}

func compileDecl(decl *ast.Call) (*Task, error) {
	head := decl.Head()
	if !ast.IsSymbol(head, keyword) {
		detail := "Found an empty form."
		if head != nil {
			detail = fmt.Sprintf("Found a form starting with %s.", head)
		}
		return nil, &CompileError{Reason: ReasonNotATask, Range: decl.Range, Detail: detail}
	}

	args := decl.Args()
	if len(args) == 0 {
		return nil, &CompileError{Reason: ReasonBadName, Range: decl.Range, Detail: "The declaration has no name."}
	}
	name, ok := args[0].(*ast.Text)
	if !ok {
		return nil, &CompileError{
			Reason: ReasonBadName,
			Range:  args[0].SrcRange(),
			Detail: fmt.Sprintf("Found %s %s.", args[0].Kind(), args[0]),
		}
	}
	if name.Value == "" {
		return nil, &CompileError{Reason: ReasonBadName, Range: name.Range, Detail: "Task names must not be empty."}
	}

	t := &Task{Name: name.Value, Range: decl.Range}
	rest := args[1:]
	if len(rest) > 0 {
		if desc, ok := rest[0].(*ast.Text); ok {
			t.Description = desc.Value
			rest = rest[1:]
		}
	}

	t.Body = make([]*ast.Call, 0, len(rest))
	for _, item := range rest {
		c, ok := item.(*ast.Call)
		if !ok {
			return nil, &CompileError{
				Reason: ReasonBadBody,
				Range:  item.SrcRange(),
				Detail: fmt.Sprintf("Task %q contains the %s %s.", t.Name, item.Kind(), item),
			}
		}
		t.Body = append(t.Body, c)
	}

	return t, nil
}
