package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/rhiz/internal/ctxlog"
	"github.com/specialistvlad/rhiz/internal/parser"
	"github.com/specialistvlad/rhiz/internal/task"
)

// Project is a loaded and compiled Rhizfile.
type Project struct {
	Path string
	// Dir is the directory holding the Rhizfile. Tasks run there.
	Dir   string
	Tasks *task.Set
}

// LoadProject reads, parses and compiles the Rhizfile at path. Parse and
// compile errors are also rendered with a source snippet to diagW, when
// it is not nil.
func LoadProject(ctx context.Context, path string, diagW io.Writer) (*Project, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading Rhizfile.", "path", path)

	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read Rhizfile: %w", err)
	}

	prog, err := parser.Parse(src, path)
	if err != nil {
		writeDiagnostics(diagW, path, src, err)
		return nil, fmt.Errorf("failed to parse Rhizfile: %w", err)
	}

	tasks, err := task.Compile(prog)
	if err != nil {
		writeDiagnostics(diagW, path, src, err)
		return nil, fmt.Errorf("failed to compile Rhizfile: %w", err)
	}

	for _, o := range tasks.Overrides() {
		logger.Warn("Task declared more than once; the last declaration wins.",
			"task", o.Name,
			"previous", o.Previous.String(),
			"current", o.Current.String(),
		)
	}
	logger.Debug("Rhizfile loaded.", "path", path, "tasks", tasks.Len())

	return &Project{Path: path, Dir: filepath.Dir(path), Tasks: tasks}, nil
}

type diagnoser interface {
	Diagnostics() hcl.Diagnostics
}

func writeDiagnostics(w io.Writer, path string, src []byte, err error) {
	var d diagnoser
	if w == nil || !errors.As(err, &d) {
		return
	}
	files := map[string]*hcl.File{path: {Bytes: src}}
	_ = hcl.NewDiagnosticTextWriter(w, files, 0, false).WriteDiagnostics(d.Diagnostics())
}
