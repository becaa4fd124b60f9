package config

import (
	"fmt"
	"sort"
)

// FileName is the name of the settings file.
const FileName = ".rhiz.hcl"

// Settings is the resolved configuration for one run.
type Settings struct {
	LogLevel  string
	LogFormat string
	Workers   int
	// Env holds extra variables for spawned processes.
	Env map[string]string
	// Path is the settings file that was read, or empty if there was none.
	Path string
}

// Default returns the built-in settings.
func Default() *Settings {
	return &Settings{
		LogLevel:  "info",
		LogFormat: "text",
		Workers:   10,
	}
}

// settingsFile is the decoding target for the HCL body.
type settingsFile struct {
	LogLevel  *string           `hcl:"log_level,optional"`
	LogFormat *string           `hcl:"log_format,optional"`
	Workers   *int              `hcl:"workers,optional"`
	Env       map[string]string `hcl:"env,optional"`
}

// apply overlays the attributes present in the file onto s.
func (f *settingsFile) apply(s *Settings) {
	if f.LogLevel != nil {
		s.LogLevel = *f.LogLevel
	}
	if f.LogFormat != nil {
		s.LogFormat = *f.LogFormat
	}
	if f.Workers != nil {
		s.Workers = *f.Workers
	}
	if len(f.Env) > 0 {
		s.Env = f.Env
	}
}

// Validate checks that every value is one the application understands.
func (s *Settings) Validate() error {
	if err := ValidateLogLevel(s.LogLevel); err != nil {
		return err
	}
	if err := ValidateLogFormat(s.LogFormat); err != nil {
		return err
	}
	if s.Workers < 1 {
		return fmt.Errorf("invalid workers: must be at least 1, got %d", s.Workers)
	}
	return nil
}

// ValidateLogLevel reports whether level names a supported log level.
func ValidateLogLevel(level string) error {
	switch level {
	case "debug", "info", "warn", "error":
		return nil
	}
	return fmt.Errorf("invalid log-level %q: must be 'debug', 'info', 'warn', or 'error'", level)
}

// ValidateLogFormat reports whether format names a supported log format.
func ValidateLogFormat(format string) error {
	switch format {
	case "text", "json":
		return nil
	}
	return fmt.Errorf("invalid log-format %q: must be 'text' or 'json'", format)
}

// Environ returns base followed by the configured variables as KEY=VALUE
// entries, sorted by key. Later entries win for processes, so configured
// values override inherited ones. It returns nil when nothing is
// configured, meaning the environment is inherited unchanged.
func (s *Settings) Environ(base []string) []string {
	if len(s.Env) == 0 {
		return nil
	}
	keys := make([]string, 0, len(s.Env))
	for k := range s.Env {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]string, 0, len(base)+len(keys))
	out = append(out, base...)
	for _, k := range keys {
		out = append(out, k+"="+s.Env[k])
	}
	return out
}
