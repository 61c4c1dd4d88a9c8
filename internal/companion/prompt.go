// ABOUTME: System prompt construction for the companion persona.
// ABOUTME: Also parses the leading emotion/mood tag line from replies.
package companion

import (
	"fmt"
	"strings"

	"github.com/harperreed/care4u/internal/models"
)

var personalityVoices = map[models.Personality]string{
	models.PersonalityPlayful: "playful and energetic; you cheer on movement and small wins",
	models.PersonalityCalm:    "calm and nurturing; you guide slow breathing and rest",
	models.PersonalityWise:    "wise and steady; you help keep medication routines consistent",
	models.PersonalityCurious: "curious and fun; you share short, accurate health facts",
}

// SystemPrompt renders the instructions sent ahead of the conversation.
func SystemPrompt(req Request) string {
	var b strings.Builder
	plant := req.PlantName
	if plant == "" {
		plant = req.Persona.Name
	}
	fmt.Fprintf(&b, "You are %s, a %s plant companion in a wellness app. ", plant, req.Persona.Name)
	if voice, ok := personalityVoices[req.Persona.Personality]; ok {
		fmt.Fprintf(&b, "Your personality is %s. ", voice)
	}
	fmt.Fprintf(&b, "Your current mood is %s. ", req.Persona.Mood)
	if req.User.Name != "" {
		fmt.Fprintf(&b, "You are talking with %s. ", req.User.Name)
	}
	if req.User.MedicalConditions != "" {
		fmt.Fprintf(&b, "They have shared these conditions: %s. Never diagnose; suggest a clinician for medical decisions. ", req.User.MedicalConditions)
	}
	b.WriteString("Keep replies to two or three warm sentences. ")
	fmt.Fprintf(&b, "Start every reply with one line of the form [emotion:<%s>|mood:<label>] and then the reply text.",
		strings.Join(emotionNames(), "|"))
	return b.String()
}

func emotionNames() []string {
	out := make([]string, len(models.AllEmotions))
	for i, e := range models.AllEmotions {
		out[i] = string(e)
	}
	return out
}

// FormatTags renders the tag line understood by ParseTags.
func FormatTags(emotion models.Emotion, mood string) string {
	return fmt.Sprintf("[emotion:%s|mood:%s]", emotion, mood)
}

// ParseTags splits a leading tag line from a reply body.
// Replies without a well-formed tag are returned unchanged.
func ParseTags(content string) (body string, emotion models.Emotion, mood string) {
	trimmed := strings.TrimLeft(content, " \n")
	if !strings.HasPrefix(trimmed, "[") {
		return content, "", ""
	}
	end := strings.Index(trimmed, "]")
	if end < 0 {
		return content, "", ""
	}
	tag := trimmed[1:end]
	matched := false
	for _, part := range strings.Split(tag, "|") {
		k, v, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		v = strings.TrimSpace(v)
		switch strings.TrimSpace(k) {
		case "emotion":
			matched = true
			if models.IsValidEmotion(v) {
				emotion = models.Emotion(v)
			}
		case "mood":
			matched = true
			mood = v
		}
	}
	if !matched {
		return content, "", ""
	}
	return strings.TrimLeft(trimmed[end+1:], " \n"), emotion, mood
}
