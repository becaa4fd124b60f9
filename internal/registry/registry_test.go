package registry

import (
	"context"
	"testing"

	"github.com/specialistvlad/rhiz/internal/ast"
	"github.com/specialistvlad/rhiz/internal/execerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noop(context.Context, *Invocation) error { return nil }

type testModule struct{ names []string }

func (m *testModule) Register(r *Registry) {
	for _, n := range m.names {
		r.Register(&Builtin{Name: n, Signature: Fixed(Text("value")), Run: noop})
	}
}

func TestRegistry_ResolveAndNames(t *testing.T) {
	t.Parallel()

	r := NewWith(&testModule{names: []string{"log", "abort"}})

	b, ok := r.Resolve("log")
	require.True(t, ok)
	assert.Equal(t, "log", b.Name)

	_, ok = r.Resolve("Log")
	assert.False(t, ok, "lookup is by exact name")

	assert.Equal(t, []string{"abort", "log"}, r.Names())
}

func TestRegistry_DuplicatePanics(t *testing.T) {
	t.Parallel()

	r := New()
	r.Register(&Builtin{Name: "log", Run: noop})
	assert.PanicsWithValue(t, "builtin with name 'log' already registered", func() {
		r.Register(&Builtin{Name: "log", Run: noop})
	})
}

func TestRegistry_Validate(t *testing.T) {
	t.Parallel()

	ok := NewWith(&testModule{names: []string{"log"}})
	require.NoError(t, ok.ValidateRegistry(context.Background()))

	bad := New()
	bad.Register(&Builtin{Name: "no-func", Signature: Fixed(Text("x"))})
	bad.Register(&Builtin{Name: "no-kinds", Signature: Fixed(Param{Name: "x"}), Run: noop})
	bad.Register(&Builtin{Name: "bad-nested", Nested: true, Signature: Variadic(Text("x")), Run: noop})

	err := bad.ValidateRegistry(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "builtin 'no-func': no function registered")
	assert.Contains(t, err.Error(), "builtin 'no-kinds', parameter 1 (x): accepts no kinds")
	assert.Contains(t, err.Error(), "builtin 'bad-nested', parameter 1 (x): nested builtins may only take calls")
}

func TestSignature_Check(t *testing.T) {
	t.Parallel()

	text := &ast.Text{Value: "a"}
	symbol := &ast.Symbol{Name: "b"}
	call := &ast.Call{Items: []ast.Value{&ast.Symbol{Name: "log"}, &ast.Text{Value: "x"}}}

	cases := []struct {
		name    string
		sig     Signature
		args    []ast.Value
		wantErr string
		kind    execerr.Kind
	}{
		{name: "exact match", sig: Fixed(Text("path")), args: []ast.Value{text}},
		{name: "too few", sig: Fixed(Text("src"), Text("dest")), args: []ast.Value{text}, wantErr: "b: expected 2 arguments, got 1", kind: execerr.Arity},
		{name: "too many", sig: Fixed(Text("msg")), args: []ast.Value{text, text}, wantErr: "b: expected 1 argument, got 2", kind: execerr.Arity},
		{name: "none allowed", sig: Fixed(), args: []ast.Value{text}, wantErr: "b: expected 0 arguments, got 1", kind: execerr.Arity},
		{name: "wrong kind", sig: Fixed(Text("src"), Text("dest")), args: []ast.Value{text, call}, wantErr: `b: argument 2 must be text, got call (log "x")`, kind: execerr.ArgType},
		{name: "variadic ok", sig: Variadic(Word("arg"), Text("cmd")), args: []ast.Value{text, symbol, text}},
		{name: "variadic minimum", sig: Variadic(Word("arg"), Text("cmd")), args: nil, wantErr: "b: expected at least 1 argument, got 0", kind: execerr.Arity},
		{name: "variadic rest kind", sig: Variadic(Word("arg"), Text("cmd")), args: []ast.Value{text, call}, wantErr: "b: argument 2 must be text or symbol", kind: execerr.ArgType},
		{name: "calls only", sig: Variadic(CallParam("branch")), args: []ast.Value{call, symbol}, wantErr: "b: argument 2 must be call, got symbol b", kind: execerr.ArgType},
		{name: "zero calls", sig: Variadic(CallParam("branch")), args: nil},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := tc.sig.Check("b", tc.args)
			if tc.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
			assert.True(t, execerr.Is(err, tc.kind))
		})
	}
}

func TestInvocation_Accessors(t *testing.T) {
	t.Parallel()

	sub := &ast.Call{Items: []ast.Value{&ast.Symbol{Name: "log"}}}
	inv := &Invocation{
		WorkDir: "/work",
		Args: []ast.Value{
			&ast.Text{Value: "out/a.txt"},
			&ast.Symbol{Name: "verbose"},
			&ast.Text{Value: "/abs/../b"},
			sub,
		},
	}

	assert.Equal(t, "out/a.txt", inv.Word(0))
	assert.Equal(t, "verbose", inv.Word(1))
	assert.Equal(t, "/work/out/a.txt", inv.Path(0))
	assert.Equal(t, "/b", inv.Path(2))
	assert.Equal(t, []string{"verbose", "/abs/../b", "(log)"}, inv.Words(1))
	assert.Nil(t, inv.Words(4))
	assert.Equal(t, []*ast.Call{sub}, inv.Calls())
}
