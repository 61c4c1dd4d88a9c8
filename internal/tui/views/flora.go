// ABOUTME: Flora view: the conversation with the plant companion.
// ABOUTME: AI replies render as markdown with their emotion glyph and mood label.
package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/care4u/internal/models"
)

// FloraProps is the slice of state the chat view shows.
type FloraProps struct {
	Pot       models.Pot
	PlantName string
	Messages  []models.Message
	Input     string
	Replying  bool
	Spinner   string
	Width     int

	// Transcript replaces the rendered Messages, e.g. with a scrolled viewport.
	Transcript string

	// RenderMarkdown formats finished AI replies. Nil leaves them as plain text.
	RenderMarkdown func(string) string
	OnSend         func(text string)
}

// Flora renders the conversation followed by the input line.
func Flora(s Styles, p FloraProps) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s %s", p.Pot.Emoji, s.Title.Render(plantLabel(p.Pot, p.PlantName))))
	b.WriteString("  " + s.Dim.Render(string(p.Pot.Personality)) + "\n\n")

	if p.Transcript != "" {
		b.WriteString(p.Transcript)
	} else {
		b.WriteString(Conversation(s, p))
	}
	b.WriteString("\n")

	if p.Replying {
		b.WriteString(s.Dim.Render(p.Spinner+" "+plantLabel(p.Pot, p.PlantName)+" is typing...") + "\n")
	}
	b.WriteString(p.Input)
	return b.String()
}

// Conversation renders every message in order.
func Conversation(s Styles, p FloraProps) string {
	width := p.Width
	if width <= 0 {
		width = 80
	}
	bubble := width * 3 / 4

	var rows []string
	for _, m := range p.Messages {
		switch m.Role {
		case models.RoleUser:
			msg := s.UserBubble.MaxWidth(bubble).Render(m.Content)
			rows = append(rows, lipgloss.PlaceHorizontal(width, lipgloss.Right, msg+"\n"+s.Dim.Render(m.Timestamp)))
		default:
			rows = append(rows, aiMessage(s, p, m, bubble))
		}
	}
	return strings.Join(rows, "\n")
}

func aiMessage(s Styles, p FloraProps, m models.Message, width int) string {
	content := m.Content
	if m.IsStreaming {
		content += "▍"
	} else if p.RenderMarkdown != nil {
		content = p.RenderMarkdown(content)
	}

	meta := m.Timestamp
	if glyph, ok := models.EmotionGlyphs[m.Emotion]; ok {
		meta = glyph + " " + meta
	}
	if m.MoodLabel != "" {
		meta += " · feeling " + m.MoodLabel
	}
	return s.AIBubble.Width(width).Render(content) + "\n" + s.Dim.Render(meta)
}
