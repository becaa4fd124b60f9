package app

import (
	"github.com/specialistvlad/rhiz/internal/config"
)

// Config holds the command-line view of the configuration. Zero values
// mean "not given", so the settings file or the defaults apply.
type Config struct {
	// File is an explicit Rhizfile path. It skips discovery.
	File string
	// Dir is where discovery starts. Empty means the current directory.
	Dir string

	LogLevel  string
	LogFormat string
	Workers   int
}

// resolve overlays the explicitly given values onto the file settings.
func (c *Config) resolve(s *config.Settings) error {
	if c.LogLevel != "" {
		s.LogLevel = c.LogLevel
	}
	if c.LogFormat != "" {
		s.LogFormat = c.LogFormat
	}
	if c.Workers != 0 {
		s.Workers = c.Workers
	}
	return s.Validate()
}
