package cli

import (
	"encoding/json"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

// outputStyles contains styling for human-readable command output.
// Using a struct avoids global variables while keeping styles reusable.
type outputStyles struct {
	success lipgloss.Style
	info    lipgloss.Style
	warn    lipgloss.Style
	dim     lipgloss.Style
}

// newOutputStyles creates the styles for command output.
func newOutputStyles() *outputStyles {
	return &outputStyles{
		success: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00FF87")).
			Bold(true),
		info: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00D7FF")),
		warn: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFD700")),
		dim: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")),
	}
}

// printResult renders a command result. JSON output encodes v; text
// output runs the supplied renderer.
func printResult(cmd *cobra.Command, flags *GlobalFlags, v any, text func(w io.Writer, styles *outputStyles)) error {
	out := cmd.OutOrStdout()

	if flags.Output == OutputJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}

	text(out, newOutputStyles())
	return nil
}
