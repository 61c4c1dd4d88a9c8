// ABOUTME: Companion conversation operations on the root controller.
// ABOUTME: Streamed fragments are applied to a placeholder AI message in order.
package store

import (
	"context"
	"strings"

	"github.com/harperreed/care4u/internal/companion"
	"github.com/harperreed/care4u/internal/models"
)

// fallbackReply replaces a reply that failed mid-stream.
const fallbackReply = "My roots lost the connection for a moment. Could you say that again?"

// AppendMessage adds a message to the end of the conversation.
func (s *Store) AppendMessage(m models.Message) {
	_ = s.update(func(st *models.AppState) error {
		st.ChatMessages = append(st.ChatMessages, m)
		return nil
	})
}

// UpdateMessages replaces the conversation wholesale.
func (s *Store) UpdateMessages(msgs []models.Message) {
	_ = s.update(func(st *models.AppState) error {
		st.ChatMessages = append([]models.Message(nil), msgs...)
		return nil
	})
}

// Replying reports whether an AI reply is still streaming.
func (s *Store) Replying() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return streamingIndex(s.state.ChatMessages) >= 0
}

func streamingIndex(msgs []models.Message) int {
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == models.RoleAI && msgs[i].IsStreaming {
			return i
		}
	}
	return -1
}

// BeginExchange appends the user message and a streaming AI placeholder,
// returning the request to hand to a responder.
func (s *Store) BeginExchange(text string) (companion.Request, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return companion.Request{}, ErrEmptyMessage
	}
	var req companion.Request
	err := s.update(func(st *models.AppState) error {
		if streamingIndex(st.ChatMessages) >= 0 {
			return ErrReplyInProgress
		}
		placeholder := models.NewAIMessage("")
		placeholder.IsStreaming = true
		st.ChatMessages = append(st.ChatMessages, models.NewUserMessage(text), placeholder)
		req = companion.Request{
			History:   append([]models.Message(nil), st.ChatMessages...),
			Persona:   companion.PersonaFromPot(st.SelectedPot),
			PlantName: st.PlantName,
			User:      st.User.Clone(),
		}
		return nil
	})
	if err != nil {
		return companion.Request{}, err
	}
	s.logger.Debug("message sent", "length", len(text))
	return req, nil
}

// ApplyFragment merges one streamed fragment into the reply in progress.
func (s *Store) ApplyFragment(f companion.Fragment) error {
	err := s.update(func(st *models.AppState) error {
		idx := streamingIndex(st.ChatMessages)
		if idx < 0 {
			return ErrNoStreamingReply
		}
		m := &st.ChatMessages[idx]
		if f.Err != nil {
			m.Content = fallbackReply
			m.Emotion = models.EmotionOops
			m.IsStreaming = false
			return nil
		}
		m.Content += f.Text
		if f.Emotion != "" {
			m.Emotion = f.Emotion
		}
		if f.MoodLabel != "" {
			m.MoodLabel = f.MoodLabel
		}
		if f.Done {
			m.Content = strings.TrimSpace(m.Content)
			m.IsStreaming = false
		}
		return nil
	})
	if err == nil && f.Err != nil {
		s.logger.Error("companion reply failed", "err", f.Err)
	}
	return err
}

// SendMessage runs a full exchange against the responder and returns the finished reply.
func (s *Store) SendMessage(ctx context.Context, r companion.Responder, text string) (models.Message, error) {
	req, err := s.BeginExchange(text)
	if err != nil {
		return models.Message{}, err
	}

	ch, err := r.Reply(ctx, req)
	if err != nil {
		_ = s.ApplyFragment(companion.Fragment{Err: err, Done: true})
		return s.lastMessage(), err
	}

	var streamErr error
	finished := false
	for f := range ch {
		if f.Err != nil {
			streamErr = f.Err
		}
		if err := s.ApplyFragment(f); err != nil {
			return s.lastMessage(), err
		}
		if f.Done || f.Err != nil {
			finished = true
			break
		}
	}
	if !finished {
		// channel closed early, usually because ctx was cancelled
		streamErr = ctx.Err()
		_ = s.ApplyFragment(companion.Fragment{Done: true})
	}
	return s.lastMessage(), streamErr
}

func (s *Store) lastMessage() models.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if n := len(s.state.ChatMessages); n > 0 {
		return s.state.ChatMessages[n-1]
	}
	return models.Message{}
}
