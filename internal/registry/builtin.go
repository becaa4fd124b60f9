package registry

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/specialistvlad/rhiz/internal/ast"
	"github.com/specialistvlad/rhiz/internal/execerr"
)

// Func implements a builtin. Its arguments have already been checked against
// the builtin's Signature.
type Func func(ctx context.Context, inv *Invocation) error

// Builtin describes one callable action.
type Builtin struct {
	Name      string
	Signature Signature
	// Nested builtins evaluate sub-calls through the Runner. They do not
	// occupy a worker slot while waiting on them.
	Nested bool
	Run    Func
}

// Param is one argument position.
type Param struct {
	Name  string
	Kinds []ast.Kind
}

// Signature is the argument shape of a builtin: fixed positional Params,
// optionally followed by any number of Rest arguments.
type Signature struct {
	Params []Param
	Rest   *Param
}

// Text is a parameter accepting a quoted string.
func Text(name string) Param {
	return Param{Name: name, Kinds: []ast.Kind{ast.KindText}}
}

// Word is a parameter accepting a quoted string or a bare symbol.
func Word(name string) Param {
	return Param{Name: name, Kinds: []ast.Kind{ast.KindText, ast.KindSymbol}}
}

// CallParam is a parameter accepting a sub-call.
func CallParam(name string) Param {
	return Param{Name: name, Kinds: []ast.Kind{ast.KindCall}}
}

// Fixed builds a signature with exactly the given parameters.
func Fixed(params ...Param) Signature {
	return Signature{Params: params}
}

// Variadic builds a signature with the given leading parameters followed by
// any number of rest arguments.
func Variadic(rest Param, params ...Param) Signature {
	return Signature{Params: params, Rest: &rest}
}

func (p Param) accepts(k ast.Kind) bool {
	for _, want := range p.Kinds {
		if want == k {
			return true
		}
	}
	return false
}

func (p Param) describe() string {
	names := make([]string, len(p.Kinds))
	for i, k := range p.Kinds {
		names[i] = k.String()
	}
	return strings.Join(names, " or ")
}

func (s Signature) arity() string {
	n := len(s.Params)
	noun := "arguments"
	if n == 1 {
		noun = "argument"
	}
	if s.Rest != nil {
		return fmt.Sprintf("at least %d %s", n, noun)
	}
	return fmt.Sprintf("%d %s", n, noun)
}

// Check validates args against the signature, reporting the first
// mismatch as an *execerr.Error naming the builtin.
func (s Signature) Check(builtin string, args []ast.Value) error {
	if len(args) < len(s.Params) || (s.Rest == nil && len(args) > len(s.Params)) {
		return &execerr.Error{
			Kind:     execerr.Arity,
			Name:     builtin,
			Expected: s.arity(),
			Actual:   strconv.Itoa(len(args)),
		}
	}

	for i, arg := range args {
		p := s.Rest
		if i < len(s.Params) {
			p = &s.Params[i]
		}
		if !p.accepts(arg.Kind()) {
			return &execerr.Error{
				Kind:     execerr.ArgType,
				Name:     builtin,
				Position: i + 1,
				Expected: p.describe(),
				Actual:   fmt.Sprintf("%s %s", arg.Kind(), arg),
			}
		}
	}
	return nil
}

// Runner evaluates calls on behalf of nested builtins.
type Runner interface {
	// Eval evaluates a single call.
	Eval(ctx context.Context, call *ast.Call, workDir string) error
	// Fork evaluates every call concurrently and returns their results by
	// index once all of them have finished.
	Fork(ctx context.Context, calls []*ast.Call, workDir string) []error
}

// Invocation is everything a builtin receives for one call.
type Invocation struct {
	Builtin string
	Call    *ast.Call
	Args    []ast.Value
	// WorkDir is the directory relative paths resolve against.
	WorkDir string
	FS      billy.Filesystem
	Stdout  io.Writer
	Stderr  io.Writer
	// Environ is the environment for spawned processes; nil inherits ours.
	Environ []string
	Runner  Runner
}

// Word returns argument i as a string: the value of a text or the name of a
// symbol.
func (inv *Invocation) Word(i int) string {
	switch v := inv.Args[i].(type) {
	case *ast.Text:
		return v.Value
	case *ast.Symbol:
		return v.Name
	default:
		return v.String()
	}
}

// Words returns Word for every argument from index i on.
func (inv *Invocation) Words(from int) []string {
	if from >= len(inv.Args) {
		return nil
	}
	out := make([]string, 0, len(inv.Args)-from)
	for i := from; i < len(inv.Args); i++ {
		out = append(out, inv.Word(i))
	}
	return out
}

// Path returns argument i resolved against the working directory unless it
// is absolute.
func (inv *Invocation) Path(i int) string {
	return ResolvePath(inv.WorkDir, inv.Word(i))
}

// Calls returns the arguments as calls. It is only meaningful for builtins
// whose signature accepts nothing but calls.
func (inv *Invocation) Calls() []*ast.Call {
	out := make([]*ast.Call, 0, len(inv.Args))
	for _, a := range inv.Args {
		if c, ok := a.(*ast.Call); ok {
			out = append(out, c)
		}
	}
	return out
}

// ResolvePath joins p onto workDir unless p is absolute.
func ResolvePath(workDir, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(workDir, p)
}
