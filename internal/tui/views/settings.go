// ABOUTME: Settings view with the profile, theme, and account switcher.
// ABOUTME: Switching and adding accounts go through the callback props.
package views

import (
	"fmt"
	"strings"

	"github.com/harperreed/care4u/internal/models"
)

// SettingsProps is the slice of state the settings view shows.
type SettingsProps struct {
	User     models.UserProfile
	Accounts []models.UserProfile
	Theme    models.Theme
	Cursor   int
	Adding   bool
	Form     string

	OnToggleTheme   func()
	OnSwitchAccount func(username string)
	OnAddAccount    func(models.UserProfile)
}

// Settings renders the settings view.
func Settings(s Styles, p SettingsProps) string {
	var b strings.Builder
	b.WriteString(s.Title.Render("Settings") + "\n\n")

	b.WriteString(s.Subtitle.Render("PROFILE") + "\n")
	fmt.Fprintf(&b, "%s %s\n", s.Text.Bold(true).Render(p.User.DisplayName()), s.Dim.Render("@"+p.User.Username))
	if p.User.Age != nil {
		fmt.Fprintf(&b, "%s %d\n", s.Dim.Render("Age"), *p.User.Age)
	}
	if p.User.MedicalConditions != "" {
		fmt.Fprintf(&b, "%s %s\n", s.Dim.Render("Conditions"), p.User.MedicalConditions)
	}

	fmt.Fprintf(&b, "\n%s\n%s %s\n", s.Subtitle.Render("THEME"), string(p.Theme), s.Dim.Render("[t] toggle"))

	b.WriteString("\n" + s.Subtitle.Render("ACCOUNTS") + "\n")
	if p.Adding {
		b.WriteString(p.Form)
		return b.String()
	}
	if len(p.Accounts) == 0 {
		b.WriteString(s.Dim.Render("No other accounts.") + "\n")
	}
	for i, a := range p.Accounts {
		pointer := "  "
		if i == p.Cursor {
			pointer = s.Accent.Render("▸ ")
		}
		fmt.Fprintf(&b, "%s%s %s\n", pointer, a.DisplayName(), s.Dim.Render("@"+a.Username))
	}
	b.WriteString("\n" + s.Dim.Render("[enter] switch  [a] add account"))
	return b.String()
}
