// ABOUTME: AppState aggregate root plus the View and Theme enums.
// ABOUTME: Clone produces a deep copy so snapshots never alias live state.
package models

import (
	"github.com/harperreed/care4u/internal/onboarding"
)

// View is one of the seven dashboard screens.
type View string

const (
	ViewHome     View = "home"
	ViewWatch    View = "watch"
	ViewHistory  View = "history"
	ViewAI       View = "ai"
	ViewSchedule View = "schedule"
	ViewSelector View = "selector"
	ViewSettings View = "settings"
)

// AllViews lists every view.
var AllViews = []View{ViewHome, ViewWatch, ViewHistory, ViewAI, ViewSchedule, ViewSelector, ViewSettings}

// NavViews are the views reachable from the bottom navigation bar, in bar order.
var NavViews = []View{ViewHome, ViewHistory, ViewAI, ViewWatch, ViewSchedule}

// ViewLabels maps views to navigation labels.
var ViewLabels = map[View]string{
	ViewHome:     "HOME",
	ViewWatch:    "WATCH",
	ViewHistory:  "LOG",
	ViewAI:       "FLORA",
	ViewSchedule: "SCHEDULE",
	ViewSelector: "COMPANIONS",
	ViewSettings: "SETTINGS",
}

// IsValidView checks if a string is a valid view.
func IsValidView(s string) bool {
	for _, v := range AllViews {
		if string(v) == s {
			return true
		}
	}
	return false
}

// Theme is the display theme.
type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// IsValidTheme checks if a string is a valid theme.
func IsValidTheme(s string) bool {
	return s == string(ThemeDark) || s == string(ThemeLight)
}

// Toggle flips dark and light.
func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// AppState is the single source of truth for a session.
type AppState struct {
	User           UserProfile     `json:"user" yaml:"user"`
	Accounts       []UserProfile   `json:"accounts" yaml:"accounts"`
	PlantName      string          `json:"plant_name" yaml:"plant_name"`
	Vitals         []Vital         `json:"vitals" yaml:"vitals"`
	Medications    []Medication    `json:"medications" yaml:"medications"`
	History        []HistoryLog    `json:"history" yaml:"history"`
	SelectedPot    Pot             `json:"selected_pot" yaml:"selected_pot"`
	ChatMessages   []Message       `json:"chat_messages" yaml:"chat_messages"`
	CurrentView    View            `json:"current_view" yaml:"current_view"`
	Theme          Theme           `json:"theme" yaml:"theme"`
	OnboardingStep onboarding.Step `json:"onboarding_step" yaml:"onboarding_step"`
}

// OnDashboard reports whether onboarding is complete.
func (s *AppState) OnDashboard() bool {
	return s.OnboardingStep.Terminal()
}

// Clone returns a deep copy of the state.
func (s *AppState) Clone() *AppState {
	out := *s
	out.User = s.User.Clone()
	out.Accounts = make([]UserProfile, len(s.Accounts))
	for i, a := range s.Accounts {
		out.Accounts[i] = a.Clone()
	}
	out.Vitals = append([]Vital(nil), s.Vitals...)
	out.Medications = append([]Medication(nil), s.Medications...)
	out.History = append([]HistoryLog(nil), s.History...)
	out.ChatMessages = append([]Message(nil), s.ChatMessages...)
	return &out
}
