// ABOUTME: Pot (plant companion) model with Personality and Mood enums.
// ABOUTME: The selected pot drives the companion's conversational persona.
package models

// Personality is the companion's conversational temperament.
type Personality string

const (
	PersonalityPlayful Personality = "Playful"
	PersonalityCalm    Personality = "Calm"
	PersonalityWise    Personality = "Wise"
	PersonalityCurious Personality = "Curious"
)

// Mood is the companion's current condition.
type Mood string

const (
	MoodHappy    Mood = "happy"
	MoodNeutral  Mood = "neutral"
	MoodTired    Mood = "tired"
	MoodThriving Mood = "thriving"
)

// AllMoods lists every mood.
var AllMoods = []Mood{MoodHappy, MoodNeutral, MoodTired, MoodThriving}

// IsValidMood checks if a string is a valid mood.
func IsValidMood(s string) bool {
	for _, m := range AllMoods {
		if string(m) == s {
			return true
		}
	}
	return false
}

// Needs are the plant's care levels, each 0-100.
type Needs struct {
	Water    int `json:"water" yaml:"water"`
	Sunlight int `json:"sunlight" yaml:"sunlight"`
	Spirit   int `json:"spirit" yaml:"spirit"`
}

// Clamp bounds every level to 0-100.
func (n Needs) Clamp() Needs {
	return Needs{Water: clampPercent(n.Water), Sunlight: clampPercent(n.Sunlight), Spirit: clampPercent(n.Spirit)}
}

func clampPercent(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// Pot is a companion persona.
type Pot struct {
	ID          string      `json:"id" yaml:"id"`
	Name        string      `json:"name" yaml:"name"`
	Personality Personality `json:"personality" yaml:"personality"`
	Mood        Mood        `json:"mood" yaml:"mood"`
	Emoji       string      `json:"emoji" yaml:"emoji"`
	Description string      `json:"description" yaml:"description"`
	Subtitle    string      `json:"subtitle" yaml:"subtitle"`
	Color       string      `json:"color" yaml:"color"`
	Needs       Needs       `json:"needs" yaml:"needs"`
}

// FindPot returns the pot with the given ID.
func FindPot(pots []Pot, id string) (Pot, bool) {
	for _, p := range pots {
		if p.ID == id {
			return p, true
		}
	}
	return Pot{}, false
}
