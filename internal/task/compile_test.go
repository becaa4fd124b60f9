package task

import (
	"testing"

	"github.com/specialistvlad/rhiz/internal/ast"
	"github.com/specialistvlad/rhiz/internal/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func compileSource(t *testing.T, src string) (*Set, error) {
	t.Helper()
	prog, err := parser.ParseString(src)
	require.NoError(t, err, "test source must parse")
	return Compile(prog)
}

func TestCompile_Success(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		src      string
		validate func(t *testing.T, s *Set)
	}{
		{
			name: "description and single call",
			src:  `(task "t" "desc" (log "x"))`,
			validate: func(t *testing.T, s *Set) {
				tk, ok := s.Lookup("t")
				require.True(t, ok)
				assert.Equal(t, "desc", tk.Description)
				require.Len(t, tk.Body, 1)
				assert.Equal(t, `(log "x")`, tk.Body[0].String())
			},
		},
		{
			name: "no description",
			src:  `(task "t" (log "a") (log "b"))`,
			validate: func(t *testing.T, s *Set) {
				tk, ok := s.Lookup("t")
				require.True(t, ok)
				assert.Empty(t, tk.Description)
				require.Len(t, tk.Body, 2)
				assert.Equal(t, `(log "b")`, tk.Body[1].String())
			},
		},
		{
			name: "name only",
			src:  `(task "noop")`,
			validate: func(t *testing.T, s *Set) {
				tk, ok := s.Lookup("noop")
				require.True(t, ok)
				assert.Empty(t, tk.Body)
			},
		},
		{
			name: "empty body call is kept for the executor",
			src:  `(task "t" ())`,
			validate: func(t *testing.T, s *Set) {
				tk, _ := s.Lookup("t")
				require.Len(t, tk.Body, 1)
				assert.Empty(t, tk.Body[0].Items)
			},
		},
		{
			name: "empty program",
			src:  "",
			validate: func(t *testing.T, s *Set) {
				assert.Equal(t, 0, s.Len())
				assert.Empty(t, s.Tasks())
			},
		},
		{
			name: "tasks are listed by name",
			src:  `(task "b" "second") (task "a" "first") (task "c")`,
			validate: func(t *testing.T, s *Set) {
				var names []string
				for _, tk := range s.Tasks() {
					names = append(names, tk.Name)
				}
				assert.Equal(t, []string{"a", "b", "c"}, names)
			},
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			s, err := compileSource(t, tc.src)
			require.NoError(t, err)
			tc.validate(t, s)
		})
	}
}

func TestCompile_BodySharesParsedCalls(t *testing.T) {
	t.Parallel()

	prog, err := parser.ParseString(`(task "t" (log "x"))`)
	require.NoError(t, err)
	s, err := Compile(prog)
	require.NoError(t, err)

	tk, _ := s.Lookup("t")
	assert.Same(t, prog.Calls[0].Items[2].(*ast.Call), tk.Body[0])
}

func TestCompile_Redeclaration(t *testing.T) {
	t.Parallel()

	s, err := compileSource(t, `(task "t" "old" (log "1"))
(task "other")
(task "t" "new" (log "2"))`)
	require.NoError(t, err)

	assert.Equal(t, 2, s.Len())
	tk, _ := s.Lookup("t")
	assert.Equal(t, "new", tk.Description)

	overrides := s.Overrides()
	require.Len(t, overrides, 1)
	assert.Equal(t, "t", overrides[0].Name)
	assert.Equal(t, 1, overrides[0].Previous.Start.Line)
	assert.Equal(t, 3, overrides[0].Current.Start.Line)
}

func TestCompile_Failure(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name       string
		src        string
		wantReason Reason
		errMsg     string
	}{
		{name: "non task head", src: `(build "x")`, wantReason: ReasonNotATask, errMsg: "only task declarations allowed at top level"},
		{name: "text head", src: `("task" "x")`, wantReason: ReasonNotATask, errMsg: "only task declarations allowed at top level"},
		{name: "empty form", src: `()`, wantReason: ReasonNotATask, errMsg: "only task declarations allowed at top level"},
		{name: "missing name", src: `(task)`, wantReason: ReasonBadName, errMsg: "task names must be a string literal"},
		{name: "symbol name", src: `(task build (log "x"))`, wantReason: ReasonBadName, errMsg: "task names must be a string literal"},
		{name: "call name", src: `(task (log "x"))`, wantReason: ReasonBadName, errMsg: "task names must be a string literal"},
		{name: "empty name", src: `(task "" (log "x"))`, wantReason: ReasonBadName, errMsg: "must not be empty"},
		{name: "symbol in body", src: `(task "t" (log "x") oops)`, wantReason: ReasonBadBody, errMsg: "task bodies may only contain calls"},
		{name: "text after description", src: `(task "t" "d" "extra")`, wantReason: ReasonBadBody, errMsg: "task bodies may only contain calls"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			s, err := compileSource(t, tc.src)
			require.Error(t, err)
			assert.Nil(t, s, "no partial set may be returned")

			var cerr *CompileError
			require.ErrorAs(t, err, &cerr)
			assert.Equal(t, tc.wantReason, cerr.Reason)
			assert.Contains(t, err.Error(), tc.errMsg)
			assert.True(t, cerr.Diagnostics().HasErrors())
		})
	}
}

func TestCompile_FirstErrorInDocumentOrder(t *testing.T) {
	t.Parallel()

	_, err := compileSource(t, `(task "ok" (log "x"))
(task name)
(build "x")`)
	var cerr *CompileError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, ReasonBadName, cerr.Reason)
	assert.Equal(t, 2, cerr.Range.Start.Line)
}

func TestCompile_Deterministic(t *testing.T) {
	t.Parallel()

	src := `(task "a" (log "1")) (task "b" "two" (par (log "x") (log "y"))) (task "a" (log "3"))`
	first, err := compileSource(t, src)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		again, err := compileSource(t, src)
		require.NoError(t, err)
		require.Equal(t, len(first.Tasks()), len(again.Tasks()))
		for j, tk := range first.Tasks() {
			other := again.Tasks()[j]
			assert.Equal(t, tk.Name, other.Name)
			assert.Equal(t, tk.Description, other.Description)
			assert.Equal(t, len(tk.Body), len(other.Body))
		}
	}
}
