// ABOUTME: Glamour renderer for companion replies.
// ABOUTME: Uses the standard dark or light style so no terminal queries are made.
package tui

import (
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/harperreed/care4u/internal/models"
)

// newRenderer creates a markdown renderer for a theme and wrap width.
// It returns nil when glamour cannot be configured; callers then show raw text.
func newRenderer(theme models.Theme, width int) *glamour.TermRenderer {
	style := "dark"
	if theme == models.ThemeLight {
		style = "light"
	}
	if width < 20 {
		width = 20
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil
	}
	return r
}

// rendererFor returns a renderer matching the theme and chat width, rebuilding it on change.
func (m *Model) rendererFor(theme models.Theme) *glamour.TermRenderer {
	width := m.width*3/4 - 4
	if m.markdown == nil || m.mdTheme != theme || m.mdWidth != width {
		m.markdown = newRenderer(theme, width)
		m.mdTheme, m.mdWidth = theme, width
	}
	return m.markdown
}

func renderMarkdown(r *glamour.TermRenderer, content string) string {
	if r == nil {
		return content
	}
	out, err := r.Render(content)
	if err != nil {
		return content
	}
	return strings.Trim(out, "\n")
}
