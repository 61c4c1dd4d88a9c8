// ABOUTME: Companion responder contract for generating AI chat replies.
// ABOUTME: Replies arrive as ordered fragments on a channel.
package companion

import (
	"context"
	"errors"
	"strings"

	"github.com/harperreed/care4u/internal/models"
)

var (
	// ErrNoAPIKey is returned when a remote responder is configured without credentials.
	ErrNoAPIKey = errors.New("companion api key is required")
	// ErrInvalidResponse is returned when the backend reply cannot be parsed.
	ErrInvalidResponse = errors.New("invalid companion response")
)

// Persona describes the companion voice for a conversation.
type Persona struct {
	Name        string
	Personality models.Personality
	Mood        models.Mood
	Description string
	Emoji       string
}

// PersonaFromPot derives a persona from the selected companion.
func PersonaFromPot(p models.Pot) Persona {
	return Persona{
		Name:        p.Name,
		Personality: p.Personality,
		Mood:        p.Mood,
		Description: p.Description,
		Emoji:       p.Emoji,
	}
}

// Request is the conversation so far plus who is speaking.
type Request struct {
	History   []models.Message
	Persona   Persona
	PlantName string
	User      models.UserProfile
}

// LastUserMessage returns the newest user message content.
func (r Request) LastUserMessage() string {
	for i := len(r.History) - 1; i >= 0; i-- {
		if r.History[i].Role == models.RoleUser {
			return r.History[i].Content
		}
	}
	return ""
}

// Fragment is one piece of a streamed reply. The final fragment has Done set.
type Fragment struct {
	Text      string
	Emotion   models.Emotion
	MoodLabel string
	Done      bool
	Err       error
}

// Responder produces the next AI message for a conversation.
type Responder interface {
	Reply(ctx context.Context, req Request) (<-chan Fragment, error)
}

// Collect drains a fragment stream into a single message.
func Collect(ch <-chan Fragment) (models.Message, error) {
	msg := models.NewAIMessage("")
	var b strings.Builder
	for f := range ch {
		if f.Err != nil {
			return msg, f.Err
		}
		b.WriteString(f.Text)
		if f.Emotion != "" {
			msg.Emotion = f.Emotion
		}
		if f.MoodLabel != "" {
			msg.MoodLabel = f.MoodLabel
		}
	}
	msg.Content = strings.TrimSpace(b.String())
	return msg, nil
}
