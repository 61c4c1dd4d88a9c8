// ABOUTME: Static seed data supplied at startup.
// ABOUTME: Companion catalogue, initial vitals, history, medications, and greeting.
package models

import (
	"time"

	"github.com/harperreed/care4u/internal/onboarding"
)

// DefaultCompanions is the fixed companion set offered during onboarding.
func DefaultCompanions() []Pot {
	return []Pot{
		{ID: "lotus", Name: "Lotus", Personality: PersonalityCalm, Mood: MoodHappy, Emoji: "🪷",
			Subtitle: "CALM & NURTURING", Description: "Focuses on breathing and meditation.", Color: "#ec4899",
			Needs: Needs{Water: 85, Sunlight: 90, Spirit: 95}},
		{ID: "sage", Name: "Sage", Personality: PersonalityPlayful, Mood: MoodThriving, Emoji: "🌿",
			Subtitle: "PLAYFUL & ENERGETIC", Description: "Encourages daily movement.", Color: "#10b981",
			Needs: Needs{Water: 70, Sunlight: 60, Spirit: 88}},
		{ID: "ivy", Name: "Ivy", Personality: PersonalityWise, Mood: MoodNeutral, Emoji: "🪴",
			Subtitle: "WISE & STEADY", Description: "Helps with med schedule consistency.", Color: "#0ea5e9",
			Needs: Needs{Water: 95, Sunlight: 40, Spirit: 75}},
		{ID: "fern", Name: "Fern", Personality: PersonalityCurious, Mood: MoodHappy, Emoji: "🍃",
			Subtitle: "CURIOUS & FUN", Description: "Shares fun health facts.", Color: "#8b5cf6",
			Needs: Needs{Water: 60, Sunlight: 80, Spirit: 92}},
	}
}

// DefaultCompanionID is pre-selected so the companion step can always advance.
const DefaultCompanionID = "sage"

// InitialVitals returns the readings shown before any device sync.
func InitialVitals() []Vital {
	now := time.Now()
	return []Vital{
		{ID: "1", Kind: VitalHeartRate, Value: NumberValue(72), Unit: "BPM", RecordedAt: now},
		{ID: "2", Kind: VitalBloodOxygen, Value: NumberValue(98), Unit: "%", RecordedAt: now},
		{ID: "3", Kind: VitalBloodPressure, Value: TextValue("118/79"), Unit: "mmHg", RecordedAt: now},
		{ID: "4", Kind: VitalStress, Value: NumberValue(12), Unit: "%", RecordedAt: now},
	}
}

// InitialHistory returns the seeded daily log, newest first.
func InitialHistory() []HistoryLog {
	return []HistoryLog{
		{Date: "2023-10-24", Steps: 6420, MedsCompleted: 4, AvgHeartRate: 71},
		{Date: "2023-10-23", Steps: 8100, MedsCompleted: 3, AvgHeartRate: 74},
		{Date: "2023-10-22", Steps: 10200, MedsCompleted: 4, AvgHeartRate: 69},
	}
}

// InitialMedications returns the seeded schedule.
func InitialMedications() []Medication {
	return []Medication{
		{ID: "m1", Name: "Lisinopril", Dosage: "10mg", Time: "08:00 AM", TimeSlot: SlotMorning, Taken: false, Color: "emerald", Category: CategoryMedicine},
		{ID: "m2", Name: "Hydration", Dosage: "500ml", Time: "12:30 PM", TimeSlot: SlotNoon, Taken: true, Color: "blue", Category: CategoryWater},
		{ID: "m3", Name: "Daily Walk", Dosage: "20 mins", Time: "06:00 PM", TimeSlot: SlotEvening, Taken: false, Color: "amber", Category: CategoryWalk},
	}
}

// Greeting is the companion's opening message.
func Greeting() Message {
	return Message{
		Role:      RoleAI,
		Content:   "Hello! I am your companion. Your energy feels wonderful today. How can I help you blossom? 😊",
		Timestamp: "10:11 AM",
		Emotion:   EmotionHappy,
		MoodLabel: string(MoodThriving),
	}
}

// Seed bundles the startup data so it can be replaced from a file.
type Seed struct {
	Companions  []Pot        `yaml:"companions"`
	Vitals      []Vital      `yaml:"vitals"`
	History     []HistoryLog `yaml:"history"`
	Medications []Medication `yaml:"medications"`
	Greeting    *Message     `yaml:"greeting,omitempty"`
}

// DefaultSeed returns the built-in seed data.
func DefaultSeed() *Seed {
	g := Greeting()
	return &Seed{
		Companions:  DefaultCompanions(),
		Vitals:      InitialVitals(),
		History:     InitialHistory(),
		Medications: InitialMedications(),
		Greeting:    &g,
	}
}

// NewAppState builds the initial state from the built-in seed.
func NewAppState() *AppState {
	return DefaultSeed().AppState()
}

// AppState builds a fresh session state from the seed.
func (s *Seed) AppState() *AppState {
	pot, ok := FindPot(s.Companions, DefaultCompanionID)
	if !ok && len(s.Companions) > 0 {
		pot = s.Companions[0]
	}
	var chat []Message
	if s.Greeting != nil {
		chat = append(chat, *s.Greeting)
	}
	return &AppState{
		User:           UserProfile{},
		Accounts:       []UserProfile{},
		Vitals:         append([]Vital(nil), s.Vitals...),
		Medications:    append([]Medication(nil), s.Medications...),
		History:        append([]HistoryLog(nil), s.History...),
		SelectedPot:    pot,
		ChatMessages:   chat,
		CurrentView:    ViewHome,
		Theme:          ThemeDark,
		OnboardingStep: onboarding.StepAuth,
	}
}
