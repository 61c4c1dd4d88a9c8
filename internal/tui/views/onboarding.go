// ABOUTME: Onboarding screens: sign in, register, profile, companion, and plant name.
// ABOUTME: Each screen is a titled form; disabled actions are dimmed.
package views

import (
	"strings"

	"github.com/harperreed/care4u/internal/models"
)

// Field is one labelled input on a form. View is the rendered input.
type Field struct {
	Label   string
	View    string
	Focused bool
}

// Action is a button-like hint on a form.
type Action struct {
	Key     string
	Label   string
	Enabled bool
}

// FormProps describes one onboarding form screen.
type FormProps struct {
	Title    string
	Subtitle string
	Fields   []Field
	Actions  []Action
	Err      string

	OnSubmit func()
	OnBack   func()
}

// Form renders an onboarding form.
func Form(s Styles, p FormProps) string {
	var b strings.Builder
	b.WriteString(s.Title.Render(p.Title) + "\n")
	if p.Subtitle != "" {
		b.WriteString(s.Dim.Render(p.Subtitle) + "\n")
	}
	b.WriteString("\n")

	for _, f := range p.Fields {
		label := s.Subtitle.Render(strings.ToUpper(f.Label))
		if f.Focused {
			label = s.Accent.Bold(true).Render(strings.ToUpper(f.Label))
		}
		b.WriteString(label + "\n" + f.View + "\n\n")
	}

	if p.Err != "" {
		b.WriteString(s.Error.Render(p.Err) + "\n\n")
	}

	hints := make([]string, 0, len(p.Actions))
	for _, a := range p.Actions {
		text := "[" + a.Key + "] " + a.Label
		if a.Enabled {
			hints = append(hints, s.Accent.Render(text))
		} else {
			hints = append(hints, s.Dim.Render(text))
		}
	}
	b.WriteString(strings.Join(hints, "  "))
	return b.String()
}

// CompanionStepProps describes the companion choice during onboarding.
type CompanionStepProps struct {
	Selector SelectorProps
	Enabled  bool

	OnContinue func()
}

// CompanionStep renders the onboarding companion picker.
func CompanionStep(s Styles, p CompanionStepProps) string {
	hint := s.Dim.Render("←/→ browse  [enter] choose")
	if p.Enabled {
		hint = s.Accent.Render("←/→ browse  [enter] choose")
	}
	return Selector(s, p.Selector) + "\n\n" + hint
}

// PlantNamePreview renders the chosen companion above the nickname form.
func PlantNamePreview(s Styles, pot models.Pot) string {
	return pot.Emoji + " " + s.Text.Bold(true).Render(pot.Name) + "  " + s.Dim.Render(pot.Subtitle)
}
