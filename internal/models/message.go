// ABOUTME: Chat Message model with Role and Emotion enums.
// ABOUTME: Messages form an append-only sequence in conversation order.
package models

import "time"

// Role identifies who wrote a message.
type Role string

const (
	RoleAI   Role = "ai"
	RoleUser Role = "user"
)

// Emotion tags the tone of an AI message.
type Emotion string

const (
	EmotionHappy     Emotion = "happy"
	EmotionSad       Emotion = "sad"
	EmotionLove      Emotion = "love"
	EmotionSurprised Emotion = "surprised"
	EmotionNeutral   Emotion = "neutral"
	EmotionOops      Emotion = "oops"
)

// AllEmotions lists every emotion tag.
var AllEmotions = []Emotion{EmotionHappy, EmotionSad, EmotionLove, EmotionSurprised, EmotionNeutral, EmotionOops}

// IsValidEmotion checks if a string is a valid emotion tag.
func IsValidEmotion(s string) bool {
	for _, e := range AllEmotions {
		if string(e) == s {
			return true
		}
	}
	return false
}

// EmotionGlyphs maps emotions to a glyph shown next to AI messages.
var EmotionGlyphs = map[Emotion]string{
	EmotionHappy:     "😊",
	EmotionSad:       "😢",
	EmotionLove:      "🥰",
	EmotionSurprised: "😮",
	EmotionNeutral:   "🙂",
	EmotionOops:      "😅",
}

// TimestampLayout is the display format for message timestamps.
const TimestampLayout = "03:04 PM"

// Message is one turn in the companion conversation.
type Message struct {
	Role        Role    `json:"role" yaml:"role"`
	Content     string  `json:"content" yaml:"content"`
	IsStreaming bool    `json:"is_streaming,omitempty" yaml:"is_streaming,omitempty"`
	Emotion     Emotion `json:"emotion,omitempty" yaml:"emotion,omitempty"`
	Timestamp   string  `json:"timestamp" yaml:"timestamp"`
	MoodLabel   string  `json:"mood_label,omitempty" yaml:"mood_label,omitempty"`
}

// NewUserMessage creates a user message stamped with the current time.
func NewUserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content, Timestamp: time.Now().Format(TimestampLayout)}
}

// NewAIMessage creates an AI message stamped with the current time.
func NewAIMessage(content string) Message {
	return Message{Role: RoleAI, Content: content, Timestamp: time.Now().Format(TimestampLayout)}
}
