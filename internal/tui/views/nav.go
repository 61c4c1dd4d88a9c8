// ABOUTME: Header and bottom navigation bar for the dashboard.
// ABOUTME: The bar lists the five primary views with their number keys.
package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/care4u/internal/models"
)

// HeaderProps is the slice of state the header shows.
type HeaderProps struct {
	User      models.UserProfile
	Pot       models.Pot
	PlantName string
	Theme     models.Theme
	Width     int
}

// Header renders the app title with the active user and the header shortcuts.
func Header(s Styles, p HeaderProps) string {
	left := s.Title.Render("CARE4U") + " " + s.Dim.Render("@"+p.User.Username)
	if p.User.Username == "" {
		left = s.Title.Render("CARE4U")
	}
	themeIcon := "☾"
	if p.Theme == models.ThemeLight {
		themeIcon = "☀"
	}
	right := s.Dim.Render(fmt.Sprintf("%s %s  [c] companions  [,] settings  [t] %s", p.Pot.Emoji, plantLabel(p.Pot, p.PlantName), themeIcon))

	gap := p.Width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 2 {
		gap = 2
	}
	return left + strings.Repeat(" ", gap) + right
}

// NavProps is the slice of state the navigation bar shows.
type NavProps struct {
	Current    models.View
	OnNavigate func(models.View)
}

// NavKey returns the number key bound to a primary view.
func NavKey(v models.View) (string, bool) {
	for i, nv := range models.NavViews {
		if nv == v {
			return fmt.Sprintf("%d", i+1), true
		}
	}
	return "", false
}

// ViewForKey maps a number key to a primary view.
func ViewForKey(k string) (models.View, bool) {
	for _, v := range models.NavViews {
		if key, _ := NavKey(v); key == k {
			return v, true
		}
	}
	return "", false
}

// Nav renders the bottom navigation bar.
func Nav(s Styles, p NavProps) string {
	tabs := make([]string, 0, len(models.NavViews))
	for _, v := range models.NavViews {
		key, _ := NavKey(v)
		label := key + " " + models.ViewLabels[v]
		if v == p.Current {
			tabs = append(tabs, s.NavActive.Render(label))
		} else {
			tabs = append(tabs, s.NavInactive.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func plantLabel(p models.Pot, nickname string) string {
	if strings.TrimSpace(nickname) != "" {
		return nickname
	}
	return p.Name
}
