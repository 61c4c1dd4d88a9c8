// ABOUTME: Companion cards for onboarding and the selector view.
// ABOUTME: Each card shows personality, mood, and needs; the selected pot is highlighted.
package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/care4u/internal/models"
)

// SelectorProps is the slice of state the companion selector shows.
type SelectorProps struct {
	Companions []models.Pot
	SelectedID string
	Cursor     int

	OnSelect func(models.Pot)
}

// Selector renders the companion catalogue as a row of cards.
func Selector(s Styles, p SelectorProps) string {
	cards := make([]string, 0, len(p.Companions))
	for i, pot := range p.Companions {
		cards = append(cards, companionCard(s, pot, i == p.Cursor, pot.ID == p.SelectedID))
	}
	return s.Title.Render("Choose your companion") + "\n\n" +
		lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

func companionCard(s Styles, p models.Pot, focused, selected bool) string {
	lines := []string{
		fmt.Sprintf("%s %s", p.Emoji, s.Text.Bold(true).Render(p.Name)),
		lipgloss.NewStyle().Foreground(ColorFor(p.Color)).Render(p.Subtitle),
		s.Dim.Render(p.Description),
		"",
		"💧 " + s.Bar(p.Needs.Water, 10),
		"☀️ " + s.Bar(p.Needs.Sunlight, 10),
		"✨ " + s.Bar(p.Needs.Spirit, 10),
	}
	if selected {
		lines = append(lines, "", s.Success.Render("✓ selected"))
	}

	style := s.Card
	if focused {
		style = s.Selected.BorderForeground(ColorFor(p.Color))
	}
	return style.Width(22).Render(strings.Join(lines, "\n"))
}
