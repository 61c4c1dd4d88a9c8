// ABOUTME: Home view with greeting, companion needs, and today's summary.
// ABOUTME: Quick links jump to the companion chat, the schedule, and the watch.
package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/care4u/internal/models"
)

// Link is a keyboard shortcut to another view.
type Link struct {
	Key   string
	View  models.View
	Label string
}

// HomeLinks are the quick links offered on the home view.
var HomeLinks = []Link{
	{Key: "f", View: models.ViewAI, Label: "Talk to your companion"},
	{Key: "s", View: models.ViewSchedule, Label: "Today's schedule"},
	{Key: "w", View: models.ViewWatch, Label: "Watch vitals"},
}

// HomeProps is the slice of state the home view shows.
type HomeProps struct {
	User           models.UserProfile
	Pot            models.Pot
	PlantName      string
	NextMedication *models.Medication
	HeartRate      *models.Vital
	Completed      int
	Total          int
	Now            time.Time

	OnNavigate         func(models.View)
	OnToggleMedication func(id string)
}

// NewHomeProps derives home props from a state snapshot.
func NewHomeProps(st *models.AppState, now time.Time) HomeProps {
	p := HomeProps{
		User:      st.User,
		Pot:       st.SelectedPot,
		PlantName: st.PlantName,
		Completed: models.CompletedCount(st.Medications),
		Total:     len(st.Medications),
		Now:       now,
	}
	if m, ok := models.NextPending(st.Medications); ok {
		p.NextMedication = &m
	}
	if v, ok := models.LatestVital(st.Vitals, models.VitalHeartRate); ok {
		p.HeartRate = &v
	}
	return p
}

// Greeting picks a salutation for the hour.
func Greeting(now time.Time) string {
	switch h := now.Hour(); {
	case h < 12:
		return "Good morning"
	case h < 18:
		return "Good afternoon"
	default:
		return "Good evening"
	}
}

// Home renders the home view.
func Home(s Styles, p HomeProps) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s\n", s.Title.Render(fmt.Sprintf("%s, %s", Greeting(p.Now), p.User.DisplayName())))
	fmt.Fprintf(&b, "%s\n\n", s.Dim.Render(fmt.Sprintf("%d of %d tasks done today", p.Completed, p.Total)))

	plant := []string{
		fmt.Sprintf("%s  %s", p.Pot.Emoji, s.Text.Bold(true).Render(plantLabel(p.Pot, p.PlantName))),
		s.Dim.Render(fmt.Sprintf("%s · %s", p.Pot.Personality, p.Pot.Mood)),
		"",
		"💧 " + s.Bar(p.Pot.Needs.Water, 20) + fmt.Sprintf(" %3d%%", p.Pot.Needs.Water),
		"☀️ " + s.Bar(p.Pot.Needs.Sunlight, 20) + fmt.Sprintf(" %3d%%", p.Pot.Needs.Sunlight),
		"✨ " + s.Bar(p.Pot.Needs.Spirit, 20) + fmt.Sprintf(" %3d%%", p.Pot.Needs.Spirit),
	}
	b.WriteString(s.Card.BorderForeground(ColorFor(p.Pot.Color)).Render(strings.Join(plant, "\n")))
	b.WriteString("\n")

	next := s.Subtitle.Render("NEXT UP") + "\n"
	if p.NextMedication != nil {
		m := p.NextMedication
		next += fmt.Sprintf("%s %s %s\n%s", CategoryIcon(m.Category), m.Name, s.Dim.Render(m.Dosage), s.Accent.Render(m.Time))
		next += "\n" + s.Dim.Render("[x] mark taken")
	} else {
		next += s.Success.Render("All done for today")
	}

	heart := s.Subtitle.Render("HEART RATE") + "\n"
	if p.HeartRate != nil {
		heart += s.Error.Render("♥ ") + s.Text.Bold(true).Render(p.HeartRate.Value.String()) + " " + s.Dim.Render(p.HeartRate.Unit)
	} else {
		heart += s.Dim.Render("no reading")
	}

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, s.Card.Render(next), " ", s.Card.Render(heart)))
	b.WriteString("\n\n")

	for _, l := range HomeLinks {
		fmt.Fprintf(&b, "%s %s\n", s.Accent.Render("["+l.Key+"]"), l.Label)
	}
	return b.String()
}
