// ABOUTME: Program entry for the terminal UI.
// ABOUTME: Runs in the alternate screen on a TTY and prints guidance otherwise.
package tui

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"
)

// IsTTY returns true if stdout is connected to a terminal.
func IsTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// Run starts the TUI program with the given model.
// If stdout is not a TTY, it points the user at the non-interactive commands instead.
func Run(m tea.Model) error {
	if !IsTTY() {
		return runFallback(os.Stdout)
	}
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func runFallback(w io.Writer) error {
	fmt.Fprintln(w, "Non-TTY environment detected.")
	fmt.Fprintln(w, "Use 'care4u meds list', 'care4u ask <text>' or 'care4u mcp' for non-interactive use.")
	return nil
}
