package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/rhiz/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

// Load reads the settings file in dir, if any, and overlays it on the
// defaults. A missing file is not an error.
func Load(ctx context.Context, dir string, environ []string) (*Settings, error) {
	logger := ctxlog.FromContext(ctx)
	path := filepath.Join(dir, FileName)

	src, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Debug("No settings file found.", "path", path)
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file %s: %w", path, err)
	}

	logger.Debug("Loading settings file.", "path", path)
	return Decode(src, path, environ)
}

// Decode parses src as a settings file and overlays it on the defaults.
// environ populates the `env` object visible to expressions.
func Decode(src []byte, filename string, environ []string) (*Settings, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse settings file %s: %w", filename, diags)
	}

	var raw settingsFile
	diags = gohcl.DecodeBody(file.Body, evalContext(environ), &raw)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode settings file %s: %w", filename, diags)
	}

	s := Default()
	raw.apply(s)
	s.Path = filename
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("settings file %s: %w", filename, err)
	}
	return s, nil
}

// evalContext exposes the environment as `env` plus a few string helpers.
func evalContext(environ []string) *hcl.EvalContext {
	vars := make(map[string]cty.Value, len(environ))
	for _, kv := range environ {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}
		vars[k] = cty.StringVal(v)
	}

	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": cty.ObjectVal(vars),
		},
		Functions: map[string]function.Function{
			"upper":     stdlib.UpperFunc,
			"lower":     stdlib.LowerFunc,
			"join":      stdlib.JoinFunc,
			"trimspace": stdlib.TrimSpaceFunc,
		},
	}
}
