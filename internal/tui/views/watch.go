// ABOUTME: Watch view showing the latest reading per vital kind.
// ABOUTME: Kinds without a reading show a placeholder card.
package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/care4u/internal/models"
)

// WatchProps is the slice of state the watch view shows.
type WatchProps struct {
	Vitals []models.Vital
	Now    time.Time
}

// Watch renders a two-column grid of vital cards.
func Watch(s Styles, p WatchProps) string {
	var cards []string
	for _, kind := range models.AllVitalKinds {
		body := s.Subtitle.Render(strings.ToUpper(models.VitalLabels[kind])) + "\n"
		if v, ok := models.LatestVital(p.Vitals, kind); ok {
			body += s.Text.Bold(true).Render(v.Value.String()) + " " + s.Dim.Render(v.Unit) + "\n"
			body += s.Dim.Render(Ago(p.Now, v.RecordedAt))
		} else {
			body += s.Dim.Render("--") + "\n" + s.Dim.Render("no reading")
		}
		cards = append(cards, s.Card.Width(24).Render(body))
	}

	var rows []string
	for i := 0; i < len(cards); i += 2 {
		if i+1 < len(cards) {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards[i], " ", cards[i+1]))
		} else {
			rows = append(rows, cards[i])
		}
	}
	return s.Title.Render("Watch") + "\n\n" + lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// Ago formats how long before now a reading was taken.
func Ago(now, t time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return t.Format("Jan 2")
	}
}
