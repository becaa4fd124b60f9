// Package process provides the `exec` builtin, which runs an external
// command in the task working directory.
package process

import (
	"context"
	"errors"
	"os/exec"
	"time"

	"github.com/specialistvlad/rhiz/internal/ctxlog"
	"github.com/specialistvlad/rhiz/internal/execerr"
	"github.com/specialistvlad/rhiz/internal/registry"
)

// waitDelay bounds how long output is still collected after the command
// exits, since background children may hold the output pipes open.
const waitDelay = 500 * time.Millisecond

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the builtins with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.Register(&registry.Builtin{
		Name:      "exec",
		Signature: registry.Variadic(registry.Word("arg"), registry.Text("command")),
		Run:       Exec,
	})
}

// Exec runs the command with the remaining arguments and waits for it.
// The child writes straight to the invocation's output writers. A spawn
// failure or a non-zero exit status fails the call.
func Exec(ctx context.Context, inv *registry.Invocation) error {
	name, args := inv.Word(0), inv.Words(1)
	line := execerr.CommandLine(name, args)
	logger := ctxlog.FromContext(ctx)

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = inv.WorkDir
	cmd.Env = inv.Environ
	cmd.Stdout = inv.Stdout
	cmd.Stderr = inv.Stderr
	cmd.WaitDelay = waitDelay

	logger.Debug("Starting process.", "command", line, "dir", inv.WorkDir)
	err := cmd.Run()
	if errors.Is(err, exec.ErrWaitDelay) {
		logger.Debug("Process exited with output still open.", "command", line)
		err = nil
	}
	if err == nil {
		logger.Debug("Process finished.", "command", line)
		return nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() >= 0 {
		logger.Debug("Process exited with non-zero status.", "command", line, "status", exitErr.ExitCode())
		return &execerr.Error{Kind: execerr.Process, Name: "exec", Command: line, ExitCode: exitErr.ExitCode()}
	}
	return &execerr.Error{Kind: execerr.Process, Name: "exec", Command: line, ExitCode: -1, Err: err}
}
