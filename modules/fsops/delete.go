package fsops

import (
	"context"
	"errors"
	"io/fs"

	"github.com/go-git/go-billy/v5/util"
	"github.com/specialistvlad/rhiz/internal/ctxlog"
	"github.com/specialistvlad/rhiz/internal/execerr"
	"github.com/specialistvlad/rhiz/internal/registry"
)

// DeleteFile removes a single file. Directories are rejected.
func DeleteFile(ctx context.Context, inv *registry.Invocation) error {
	target := inv.Path(0)
	info, err := inv.FS.Stat(target)
	if err != nil {
		return execerr.FS(inv.Builtin, inv.Word(0), err)
	}
	if info.IsDir() {
		return execerr.FSf(inv.Builtin, inv.Word(0), "is a directory; use delete-dir")
	}

	ctxlog.FromContext(ctx).Debug("Deleting file.", "path", target)
	if err := inv.FS.Remove(target); err != nil {
		return execerr.FS(inv.Builtin, inv.Word(0), err)
	}
	return nil
}

// DeleteDir removes a directory and everything below it.
func DeleteDir(ctx context.Context, inv *registry.Invocation) error {
	target := inv.Path(0)
	info, err := inv.FS.Stat(target)
	if err != nil {
		return execerr.FS(inv.Builtin, inv.Word(0), err)
	}
	if !info.IsDir() {
		return execerr.FSf(inv.Builtin, inv.Word(0), "not a directory")
	}

	ctxlog.FromContext(ctx).Debug("Deleting directory.", "path", target)
	if err := util.RemoveAll(inv.FS, target); err != nil {
		return execerr.FS(inv.Builtin, inv.Word(0), err)
	}
	return nil
}

// EmptyDir makes sure the path is an empty directory: it is created with
// its parents when missing, and its children are removed when present.
// A path that exists as anything but a directory is an error.
func EmptyDir(ctx context.Context, inv *registry.Invocation) error {
	logger := ctxlog.FromContext(ctx)
	target := inv.Path(0)

	info, err := inv.FS.Stat(target)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		logger.Debug("Creating directory.", "path", target)
		if err := inv.FS.MkdirAll(target, 0o755); err != nil {
			return execerr.FS(inv.Builtin, inv.Word(0), err)
		}
		return nil
	case err != nil:
		return execerr.FS(inv.Builtin, inv.Word(0), err)
	case !info.IsDir():
		return execerr.FSf(inv.Builtin, inv.Word(0), "exists and is not a directory")
	}

	children, err := inv.FS.ReadDir(target)
	if err != nil {
		return execerr.FS(inv.Builtin, inv.Word(0), err)
	}
	logger.Debug("Emptying directory.", "path", target, "children", len(children))
	for _, child := range children {
		if err := util.RemoveAll(inv.FS, inv.FS.Join(target, child.Name())); err != nil {
			return execerr.FS(inv.Builtin, inv.Word(0), err)
		}
	}
	return nil
}
