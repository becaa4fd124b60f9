package fsops

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/specialistvlad/rhiz/internal/ctxlog"
	"github.com/specialistvlad/rhiz/internal/execerr"
	"github.com/specialistvlad/rhiz/internal/registry"
)

// Copy copies one file. When the destination is an existing directory the
// file is copied into it under its own name. An existing destination file
// is never overwritten.
func Copy(ctx context.Context, inv *registry.Invocation) error {
	src, dest := inv.Path(0), inv.Path(1)

	info, err := inv.FS.Stat(src)
	if err != nil {
		return execerr.FS(inv.Builtin, inv.Word(0), err)
	}
	if !info.Mode().IsRegular() {
		return execerr.FSf(inv.Builtin, inv.Word(0), "source is not a regular file")
	}

	if destInfo, err := inv.FS.Stat(dest); err == nil {
		if !destInfo.IsDir() {
			return execerr.FSf(inv.Builtin, inv.Word(1), "destination already exists")
		}
		dest = inv.FS.Join(dest, filepath.Base(src))
	}

	ctxlog.FromContext(ctx).Debug("Copying file.", "src", src, "dest", dest)
	if err := copyFile(inv.FS, src, dest, info.Mode().Perm(), os.O_EXCL); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return execerr.FSf(inv.Builtin, inv.Word(1), "destination already exists")
		}
		return execerr.FS(inv.Builtin, inv.Word(1), err)
	}
	return nil
}

// RecCopy copies the contents of a source directory into an existing
// destination directory. Existing files below the destination are
// overwritten. When the destination lies inside the source it is skipped
// during the walk.
func RecCopy(ctx context.Context, inv *registry.Invocation) error {
	src, dest := inv.Path(0), inv.Path(1)

	for i, p := range []string{src, dest} {
		info, err := inv.FS.Stat(p)
		if err != nil {
			return execerr.FS(inv.Builtin, inv.Word(i), err)
		}
		if !info.IsDir() {
			return execerr.FSf(inv.Builtin, inv.Word(i), "not a directory")
		}
	}
	if src == dest {
		return execerr.FSf(inv.Builtin, inv.Word(1), "source and destination are the same directory")
	}

	ctxlog.FromContext(ctx).Debug("Copying directory tree.", "src", src, "dest", dest)
	if err := copyTree(inv.FS, src, dest, dest); err != nil {
		return execerr.FS(inv.Builtin, inv.Word(0), err)
	}
	return nil
}

func copyTree(fsys billy.Filesystem, src, dest, skip string) error {
	entries, err := fsys.ReadDir(src)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		from := fsys.Join(src, entry.Name())
		to := fsys.Join(dest, entry.Name())
		if from == skip {
			continue
		}

		// Stat follows symlinks so linked files are copied by content.
		info, err := fsys.Stat(from)
		if err != nil {
			return err
		}
		switch {
		case info.IsDir():
			if err := fsys.MkdirAll(to, info.Mode().Perm()|0o700); err != nil {
				return err
			}
			if err := copyTree(fsys, from, to, skip); err != nil {
				return err
			}
		case info.Mode().IsRegular():
			if err := copyFile(fsys, from, to, info.Mode().Perm(), os.O_TRUNC); err != nil {
				return err
			}
		default:
			return fmt.Errorf("%s: unsupported file type %s", from, info.Mode().Type())
		}
	}
	return nil
}

func copyFile(fsys billy.Filesystem, src, dest string, perm os.FileMode, flag int) (err error) {
	in, err := fsys.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := fsys.OpenFile(dest, os.O_WRONLY|os.O_CREATE|flag, perm)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	_, err = io.Copy(out, in)
	return err
}
