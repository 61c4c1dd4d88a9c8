// ABOUTME: Small multi-field form built from bubbles text inputs.
// ABOUTME: Used by onboarding screens and the add-medication and add-account forms.
package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/harperreed/care4u/internal/tui/views"
)

type fieldSpec struct {
	label       string
	placeholder string
	value       string
	secret      bool
}

type form struct {
	labels []string
	inputs []textinput.Model
	focus  int
}

func newForm(specs ...fieldSpec) *form {
	f := &form{}
	for _, s := range specs {
		ti := textinput.New()
		ti.Placeholder = s.placeholder
		ti.CharLimit = 120
		ti.Width = 40
		ti.SetValue(s.value)
		if s.secret {
			ti.EchoMode = textinput.EchoPassword
			ti.EchoCharacter = '•'
		}
		f.labels = append(f.labels, s.label)
		f.inputs = append(f.inputs, ti)
	}
	if len(f.inputs) > 0 {
		f.inputs[0].Focus()
	}
	return f
}

// Update forwards a message to the focused input.
func (f *form) Update(msg tea.Msg) tea.Cmd {
	if len(f.inputs) == 0 {
		return nil
	}
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

func (f *form) move(delta int) tea.Cmd {
	if len(f.inputs) == 0 {
		return nil
	}
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + delta + len(f.inputs)) % len(f.inputs)
	return f.inputs[f.focus].Focus()
}

func (f *form) onLast() bool {
	return f.focus == len(f.inputs)-1
}

func (f *form) value(i int) string {
	if i < 0 || i >= len(f.inputs) {
		return ""
	}
	return strings.TrimSpace(f.inputs[i].Value())
}

// raw returns the untrimmed value, for passwords.
func (f *form) raw(i int) string {
	if i < 0 || i >= len(f.inputs) {
		return ""
	}
	return f.inputs[i].Value()
}

func (f *form) fields() []views.Field {
	out := make([]views.Field, len(f.inputs))
	for i, in := range f.inputs {
		out[i] = views.Field{Label: f.labels[i], View: in.View(), Focused: i == f.focus}
	}
	return out
}

func (f *form) view() string {
	var b strings.Builder
	for _, fld := range f.fields() {
		marker := "  "
		if fld.Focused {
			marker = "▸ "
		}
		b.WriteString(marker + fld.Label + "\n  " + fld.View + "\n")
	}
	return b.String()
}
