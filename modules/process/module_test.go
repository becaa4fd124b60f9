package process

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/specialistvlad/rhiz/internal/ast"
	"github.com/specialistvlad/rhiz/internal/execerr"
	"github.com/specialistvlad/rhiz/internal/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireCommand(t *testing.T, name string) {
	t.Helper()
	if _, err := exec.LookPath(name); err != nil {
		t.Skipf("%s not available: %v", name, err)
	}
}

type result struct {
	stdout, stderr string
	err            error
}

func run(t *testing.T, workDir string, env []string, args ...ast.Value) result {
	t.Helper()
	r := registry.NewWith(&Module{})
	b, ok := r.Resolve("exec")
	require.True(t, ok)
	require.NoError(t, b.Signature.Check("exec", args))

	var stdout, stderr bytes.Buffer
	err := b.Run(context.Background(), &registry.Invocation{
		Builtin: "exec",
		Args:    args,
		WorkDir: workDir,
		Stdout:  &stdout,
		Stderr:  &stderr,
		Environ: env,
	})
	return result{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func text(s string) ast.Value { return &ast.Text{Value: s} }

func TestExec_Success(t *testing.T) {
	t.Parallel()
	requireCommand(t, "sh")

	res := run(t, t.TempDir(), nil, text("sh"), text("-c"), text("echo out; echo err 1>&2"))
	require.NoError(t, res.err)
	assert.Equal(t, "out\n", res.stdout)
	assert.Equal(t, "err\n", res.stderr)
}

func TestExec_NonZeroExit(t *testing.T) {
	t.Parallel()
	requireCommand(t, "sh")

	res := run(t, t.TempDir(), nil, text("sh"), text("-c"), text("exit 3"))
	require.Error(t, res.err)
	assert.True(t, execerr.Is(res.err, execerr.Process))

	var e *execerr.Error
	require.ErrorAs(t, res.err, &e)
	assert.Equal(t, 3, e.ExitCode)
	assert.Equal(t, `exec sh -c "exit 3": exited with status 3`, res.err.Error())
}

func TestExec_SpawnFailure(t *testing.T) {
	t.Parallel()

	res := run(t, t.TempDir(), nil, text("rhiz-no-such-command-xyz"), &ast.Symbol{Name: "now"})
	require.Error(t, res.err)
	assert.True(t, execerr.Is(res.err, execerr.Process))
	assert.True(t, strings.HasPrefix(res.err.Error(), "exec rhiz-no-such-command-xyz now: "))
}

func TestExec_WorkingDirectory(t *testing.T) {
	t.Parallel()
	requireCommand(t, "touch")
	dir := t.TempDir()

	res := run(t, dir, nil, text("touch"), text("marker"))
	require.NoError(t, res.err)
	assert.FileExists(t, filepath.Join(dir, "marker"))
}

func TestExec_Environment(t *testing.T) {
	t.Parallel()
	requireCommand(t, "sh")

	env := append(os.Environ(), "RHIZ_GREETING=hello")
	res := run(t, t.TempDir(), env, text("sh"), text("-c"), text("printf %s \"$RHIZ_GREETING\""))
	require.NoError(t, res.err)
	assert.Equal(t, "hello", res.stdout)
}

func TestExec_Signature(t *testing.T) {
	t.Parallel()
	b, _ := registry.NewWith(&Module{}).Resolve("exec")

	assert.Error(t, b.Signature.Check("exec", nil))
	assert.Error(t, b.Signature.Check("exec", []ast.Value{&ast.Symbol{Name: "ls"}}))
	assert.NoError(t, b.Signature.Check("exec", []ast.Value{text("ls")}))
	assert.NoError(t, b.Signature.Check("exec", []ast.Value{text("ls"), &ast.Symbol{Name: "-la"}, text("x")}))
}

func TestExec_ReturnsWhenCommandExits(t *testing.T) {
	t.Parallel()
	requireCommand(t, "sh")
	requireCommand(t, "sleep")

	// --- Act ---
	start := time.Now()
	res := run(t, t.TempDir(), nil, text("sh"), text("-c"), text("sleep 5 & echo started"))

	// --- Assert ---
	require.NoError(t, res.err)
	assert.Equal(t, "started\n", res.stdout)
	assert.Less(t, time.Since(start), 3*time.Second)
}
