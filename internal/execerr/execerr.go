// Package execerr defines the errors raised while executing tasks.
//
// Every failure during execution, whether raised by the evaluator or by a
// builtin, is an *Error tagged with a Kind. The rendered message stays a
// single human-readable line; the structured fields are for callers that
// need to branch on the failure.
package execerr

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies an execution failure.
type Kind int

const (
	// NoSuchTask is a lookup of an undeclared task name.
	NoSuchTask Kind = iota
	// EmptyCall is an attempt to evaluate `()`.
	EmptyCall
	// InvalidFunction is a call whose head names no builtin.
	InvalidFunction
	// Arity is a call with the wrong number of arguments.
	Arity
	// ArgType is an argument of the wrong kind.
	ArgType
	// FileSystem is a failed filesystem operation.
	FileSystem
	// Process is a spawn failure or non-zero exit of an external command.
	Process
	// Abort is an explicit `abort` call.
	Abort
	// Parallel is the merged failure of one or more `par` branches.
	Parallel
	// Output is a failed write to the task's standard output or error.
	Output
)

var kindNames = map[Kind]string{
	NoSuchTask:      "no such task",
	EmptyCall:       "empty call",
	InvalidFunction: "invalid function",
	Arity:           "arity mismatch",
	ArgType:         "argument type mismatch",
	FileSystem:      "filesystem",
	Process:         "process",
	Abort:           "abort",
	Parallel:        "parallel",
	Output:          "output",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Error is a failure raised during execution.
type Error struct {
	Kind Kind
	// Name is the task name for NoSuchTask and the builtin name otherwise.
	Name string
	// Position is the 1-based argument position for ArgType.
	Position int
	// Expected and Actual describe arity or kind mismatches.
	Expected string
	Actual   string
	// Path is the user-supplied path for FileSystem failures.
	Path string
	// Command is the reconstructed command line for Process failures.
	Command string
	// ExitCode is set for processes that ran and exited non-zero.
	ExitCode int
	// Msg carries free-form text, such as the message of an abort.
	Msg string
	// Err is the underlying cause. For Parallel it is the selected failure.
	Err error
	// Failures holds every failed branch of a Parallel error in declaration order.
	Failures []BranchFailure
	// Branches is the total number of branches of a Parallel error.
	Branches int
}

// BranchFailure is the failure of one `par` branch.
type BranchFailure struct {
	// Index is the 0-based declaration index of the branch.
	Index int
	Err   error
}

func (e *Error) Error() string {
	switch e.Kind {
	case NoSuchTask:
		return fmt.Sprintf("no such task: %q", e.Name)
	case EmptyCall:
		return "cannot evaluate an empty expression"
	case InvalidFunction:
		return fmt.Sprintf("invalid function: %s", e.Name)
	case Arity:
		return fmt.Sprintf("%s: expected %s, got %s", e.Name, e.Expected, e.Actual)
	case ArgType:
		return fmt.Sprintf("%s: argument %d must be %s, got %s", e.Name, e.Position, e.Expected, e.Actual)
	case FileSystem:
		if e.Err == nil {
			return fmt.Sprintf("%s %q: %s", e.Name, e.Path, e.Msg)
		}
		return fmt.Sprintf("%s %q: %v", e.Name, e.Path, e.Err)
	case Process:
		if e.Err == nil {
			return fmt.Sprintf("exec %s: exited with status %d", e.Command, e.ExitCode)
		}
		return fmt.Sprintf("exec %s: %v", e.Command, e.Err)
	case Abort:
		return fmt.Sprintf("aborted: %s", e.Msg)
	case Output:
		return fmt.Sprintf("%s: write failed: %v", e.Name, e.Err)
	case Parallel:
		if len(e.Failures) == 0 {
			if e.Err != nil {
				return fmt.Sprintf("par: %v", e.Err)
			}
			return e.Kind.String()
		}
		first := e.Failures[0]
		msg := fmt.Sprintf("par: branch %d of %d failed: %v", first.Index+1, e.Branches, first.Err)
		if n := len(e.Failures); n > 1 {
			msg += fmt.Sprintf(" (%d of %d branches failed)", n, e.Branches)
		}
		return msg
	default:
		if e.Err != nil {
			return e.Err.Error()
		}
		return e.Kind.String()
	}
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether err, or any error it wraps, is an *Error of the given kind.
func Is(err error, kind Kind) bool {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}
		if e.Kind == kind {
			return true
		}
		err = e.Err
	}
	return false
}

// NoTask returns a NoSuchTask error.
func NoTask(name string) *Error {
	return &Error{Kind: NoSuchTask, Name: name}
}

// Empty returns an EmptyCall error.
func Empty() *Error {
	return &Error{Kind: EmptyCall}
}

// InvalidFunc returns an InvalidFunction error for the rendered call head.
func InvalidFunc(head string) *Error {
	return &Error{Kind: InvalidFunction, Name: head}
}

// FS wraps a filesystem failure of a builtin acting on path.
func FS(builtin, path string, err error) *Error {
	return &Error{Kind: FileSystem, Name: builtin, Path: path, Err: err}
}

// FSf reports a filesystem precondition failure that has no underlying error.
func FSf(builtin, path, format string, args ...any) *Error {
	return &Error{Kind: FileSystem, Name: builtin, Path: path, Msg: fmt.Sprintf(format, args...)}
}

// Write wraps a failed write of builtin to its output streams.
func Write(builtin string, err error) *Error {
	return &Error{Kind: Output, Name: builtin, Err: err}
}

// Aborted returns an Abort error carrying msg.
func Aborted(msg string) *Error {
	return &Error{Kind: Abort, Name: "abort", Msg: msg}
}

// CommandLine renders a command and its arguments the way a shell user would
// type them, quoting arguments that contain whitespace or quotes.
func CommandLine(command string, args []string) string {
	parts := make([]string, 0, len(args)+1)
	for _, p := range append([]string{command}, args...) {
		if p == "" || strings.ContainsAny(p, " \t\n\"'") {
			p = fmt.Sprintf("%q", p)
		}
		parts = append(parts, p)
	}
	return strings.Join(parts, " ")
}

// Merge combines the per-branch results of a fork-join. It returns nil when
// every branch succeeded. Otherwise the branch with the lowest declaration
// index is selected as the cause, independent of completion order.
func Merge(results []error) error {
	var failures []BranchFailure
	for i, err := range results {
		if err != nil {
			failures = append(failures, BranchFailure{Index: i, Err: err})
		}
	}
	if len(failures) == 0 {
		return nil
	}
	return &Error{
		Kind:     Parallel,
		Name:     "par",
		Err:      failures[0].Err,
		Failures: failures,
		Branches: len(results),
	}
}
