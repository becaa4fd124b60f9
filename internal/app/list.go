package app

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"
)

// Listing formats accepted by List.
const (
	FormatText = "text"
	FormatYAML = "yaml"
)

type listEntry struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
}

// List writes the declared tasks, sorted by name, in the given format.
func (a *App) List(w io.Writer, format string) error {
	tasks := a.project.Tasks.Tasks()
	entries := make([]listEntry, len(tasks))
	for i, t := range tasks {
		entries[i] = listEntry{Name: t.Name, Description: t.Description}
	}

	switch format {
	case FormatText, "":
		return writeText(w, a.project.Path, entries)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(entries); err != nil {
			return fmt.Errorf("failed to encode task list: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q: must be 'text' or 'yaml'", format)
	}
}

func writeText(w io.Writer, path string, entries []listEntry) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintf(w, "No tasks declared in %s\n", path)
		return err
	}

	width := 0
	for _, e := range entries {
		width = max(width, lipgloss.Width(e.Name))
	}

	r := lipgloss.NewRenderer(w)
	nameStyle := r.NewStyle().Bold(true).Foreground(lipgloss.Color("6")).Width(width)
	descStyle := r.NewStyle().Faint(true)

	for _, e := range entries {
		line := nameStyle.Render(e.Name)
		if e.Description != "" {
			line += "  " + descStyle.Render(e.Description)
		}
		if _, err := fmt.Fprintln(w, strings.TrimRight(line, " ")); err != nil {
			return err
		}
	}
	return nil
}
