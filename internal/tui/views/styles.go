// ABOUTME: Theme-aware lipgloss styles shared by every view.
// ABOUTME: NewStyles builds the palette for the dark or light theme.
package views

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/care4u/internal/models"
)

// Palette colors.
const (
	emeraldColor = "#10B981"
	skyColor     = "#0EA5E9"
	amberColor   = "#F59E0B"
	roseColor    = "#EF4444"
	violetColor  = "#8B5CF6"
)

type palette struct {
	fg, dim, bg, surface, border string
}

var palettes = map[models.Theme]palette{
	models.ThemeDark:  {fg: "#F9FAFB", dim: "#6B7280", bg: "#0B1120", surface: "#1F2937", border: "#374151"},
	models.ThemeLight: {fg: "#111827", dim: "#9CA3AF", bg: "#F9FAFB", surface: "#E5E7EB", border: "#D1D5DB"},
}

// Styles is the set of styles for one theme.
type Styles struct {
	Theme models.Theme

	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Text     lipgloss.Style
	Dim      lipgloss.Style
	Accent   lipgloss.Style
	Card     lipgloss.Style
	Selected lipgloss.Style
	Success  lipgloss.Style
	Error    lipgloss.Style
	Warning  lipgloss.Style

	NavActive   lipgloss.Style
	NavInactive lipgloss.Style
	StatusBar   lipgloss.Style

	BarFull  lipgloss.Style
	BarEmpty lipgloss.Style

	UserBubble lipgloss.Style
	AIBubble   lipgloss.Style
}

// NewStyles builds styles for a theme. Unknown themes fall back to dark.
func NewStyles(theme models.Theme) Styles {
	p, ok := palettes[theme]
	if !ok {
		theme = models.ThemeDark
		p = palettes[theme]
	}

	return Styles{
		Theme:    theme,
		Title:    lipgloss.NewStyle().Foreground(lipgloss.Color(emeraldColor)).Bold(true),
		Subtitle: lipgloss.NewStyle().Foreground(lipgloss.Color(p.dim)).Bold(true),
		Text:     lipgloss.NewStyle().Foreground(lipgloss.Color(p.fg)),
		Dim:      lipgloss.NewStyle().Foreground(lipgloss.Color(p.dim)),
		Accent:   lipgloss.NewStyle().Foreground(lipgloss.Color(skyColor)),
		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(p.border)).
			Padding(0, 1),
		Selected: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(emeraldColor)).
			Padding(0, 1),
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color(emeraldColor)),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color(roseColor)),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color(amberColor)),

		NavActive: lipgloss.NewStyle().
			Background(lipgloss.Color(emeraldColor)).
			Foreground(lipgloss.Color("#FFFFFF")).
			Padding(0, 1),
		NavInactive: lipgloss.NewStyle().
			Background(lipgloss.Color(p.surface)).
			Foreground(lipgloss.Color(p.dim)).
			Padding(0, 1),
		StatusBar: lipgloss.NewStyle().
			Background(lipgloss.Color(p.surface)).
			Foreground(lipgloss.Color(p.dim)).
			Padding(0, 1),

		BarFull:  lipgloss.NewStyle().Foreground(lipgloss.Color(emeraldColor)),
		BarEmpty: lipgloss.NewStyle().Foreground(lipgloss.Color(p.border)),

		UserBubble: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color(emeraldColor)).
			Padding(0, 1),
		AIBubble: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(violetColor)).
			Padding(0, 1),
	}
}

// ColorFor maps a stored color name to a terminal color.
func ColorFor(name string) lipgloss.Color {
	switch strings.ToLower(name) {
	case "emerald", "green":
		return lipgloss.Color(emeraldColor)
	case "blue", "sky":
		return lipgloss.Color(skyColor)
	case "amber", "orange", "yellow":
		return lipgloss.Color(amberColor)
	case "rose", "red":
		return lipgloss.Color(roseColor)
	case "violet", "purple":
		return lipgloss.Color(violetColor)
	}
	if strings.HasPrefix(name, "#") {
		return lipgloss.Color(name)
	}
	return lipgloss.Color(emeraldColor)
}

// Bar renders a 0-100 level as a fixed-width meter.
func (s Styles) Bar(level, width int) string {
	if width <= 0 {
		return ""
	}
	if level < 0 {
		level = 0
	}
	if level > 100 {
		level = 100
	}
	filled := level * width / 100
	return s.BarFull.Render(strings.Repeat("█", filled)) + s.BarEmpty.Render(strings.Repeat("░", width-filled))
}
