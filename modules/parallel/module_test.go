package parallel

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/specialistvlad/rhiz/internal/ast"
	"github.com/specialistvlad/rhiz/internal/execerr"
	"github.com/specialistvlad/rhiz/internal/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRunner answers Fork with canned per-index results and records what
// it was asked to run.
type fakeRunner struct {
	mu      sync.Mutex
	results []error
	forked  []*ast.Call
	workDir string
}

func (f *fakeRunner) Eval(ctx context.Context, call *ast.Call, workDir string) error {
	return errors.New("unexpected Eval")
}

func (f *fakeRunner) Fork(ctx context.Context, calls []*ast.Call, workDir string) []error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.forked = calls
	f.workDir = workDir
	return f.results
}

func branch(name string) *ast.Call {
	return &ast.Call{Items: []ast.Value{&ast.Symbol{Name: "log"}, &ast.Text{Value: name}}}
}

func runPar(t *testing.T, runner registry.Runner, calls ...*ast.Call) error {
	t.Helper()
	b, ok := registry.NewWith(&Module{}).Resolve("par")
	require.True(t, ok)

	args := make([]ast.Value, len(calls))
	for i, c := range calls {
		args[i] = c
	}
	require.NoError(t, b.Signature.Check("par", args))

	return b.Run(context.Background(), &registry.Invocation{
		Builtin: "par",
		Args:    args,
		WorkDir: "/work",
		Runner:  runner,
	})
}

func TestPar_AllSucceed(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	a, b := branch("a"), branch("b")
	runner := &fakeRunner{results: []error{nil, nil}}

	// --- Act ---
	err := runPar(t, runner, a, b)

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, []*ast.Call{a, b}, runner.forked)
	assert.Equal(t, "/work", runner.workDir)
}

func TestPar_LowestIndexWins(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	second := execerr.Aborted("second")
	third := execerr.Aborted("third")
	runner := &fakeRunner{results: []error{nil, second, third}}

	// --- Act ---
	err := runPar(t, runner, branch("a"), branch("b"), branch("c"))

	// --- Assert ---
	require.Error(t, err)
	assert.True(t, execerr.Is(err, execerr.Parallel))
	assert.True(t, execerr.Is(err, execerr.Abort))
	assert.ErrorIs(t, err, second)
	assert.Equal(t, "par: branch 2 of 3 failed: aborted: second (2 of 3 branches failed)", err.Error())

	var e *execerr.Error
	require.ErrorAs(t, err, &e)
	require.Len(t, e.Failures, 2)
	assert.Equal(t, 1, e.Failures[0].Index)
	assert.Equal(t, 2, e.Failures[1].Index)
}

func TestPar_Empty(t *testing.T) {
	t.Parallel()

	err := runPar(t, &fakeRunner{})
	assert.NoError(t, err)
}

func TestPar_Signature(t *testing.T) {
	t.Parallel()
	b, _ := registry.NewWith(&Module{}).Resolve("par")

	assert.True(t, b.Nested)
	err := b.Signature.Check("par", []ast.Value{branch("a"), &ast.Text{Value: "x"}})
	require.Error(t, err)
	assert.True(t, execerr.Is(err, execerr.ArgType))
	assert.Contains(t, err.Error(), "argument 2 must be call")
}
