// ABOUTME: Offline responder with persona-specific canned replies.
// ABOUTME: Emits replies word by word so the UI exercises streaming.
package companion

import (
	"context"
	"strings"
	"time"

	"github.com/harperreed/care4u/internal/models"
)

// Scripted answers without a network backend.
type Scripted struct {
	// Delay is the pause between word fragments.
	Delay time.Duration
}

// NewScripted returns an offline responder.
func NewScripted(delay time.Duration) *Scripted {
	return &Scripted{Delay: delay}
}

type topic struct {
	keywords []string
	emotion  models.Emotion
	reply    string
}

var topics = []topic{
	{[]string{"water", "drink", "thirsty", "hydrat"}, models.EmotionHappy,
		"A glass of water sounds perfect right now. My leaves perk up just thinking about it!"},
	{[]string{"walk", "step", "exercise", "run"}, models.EmotionLove,
		"Moving your body is the best sunshine. Even ten minutes outside counts!"},
	{[]string{"med", "pill", "dose", "lisinopril"}, models.EmotionNeutral,
		"Let's keep your schedule steady. Check the schedule tab and tick off what you've taken."},
	{[]string{"sleep", "tired", "rest"}, models.EmotionSad,
		"Rest is how we grow. Try winding down a little earlier tonight, screens off."},
	{[]string{"stress", "anxious", "worried", "sad"}, models.EmotionLove,
		"I'm right here with you. Breathe in for four, hold for four, and out for six."},
	{[]string{"hello", "hi", "hey"}, models.EmotionHappy,
		"Hello again! I've been soaking up the light waiting for you."},
}

var personalityOpeners = map[models.Personality]string{
	models.PersonalityPlayful: "Ooh! ",
	models.PersonalityCalm:    "Gently now. ",
	models.PersonalityWise:    "Hmm. ",
	models.PersonalityCurious: "Fun fact time? ",
}

// compose picks the reply text and tags for a request.
func compose(req Request) (string, models.Emotion, string) {
	last := strings.ToLower(req.LastUserMessage())
	text := "Tell me more. I'm listening with every leaf."
	emotion := models.EmotionNeutral
	for _, tp := range topics {
		if containsAny(last, tp.keywords) {
			text, emotion = tp.reply, tp.emotion
			break
		}
	}
	if last == "" {
		emotion = models.EmotionSurprised
		text = "Did you mean to say something? I'm all ears. Well, all leaves."
	}
	return personalityOpeners[req.Persona.Personality] + text, emotion, string(req.Persona.Mood)
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

// Reply streams a canned reply.
func (s *Scripted) Reply(ctx context.Context, req Request) (<-chan Fragment, error) {
	text, emotion, mood := compose(req)
	words := strings.SplitAfter(text, " ")

	out := make(chan Fragment)
	go func() {
		defer close(out)
		for i, w := range words {
			f := Fragment{Text: w}
			if i == 0 {
				f.Emotion, f.MoodLabel = emotion, mood
			}
			if !send(ctx, out, f) {
				return
			}
			if s.Delay > 0 {
				select {
				case <-time.After(s.Delay):
				case <-ctx.Done():
					return
				}
			}
		}
		send(ctx, out, Fragment{Done: true})
	}()
	return out, nil
}
