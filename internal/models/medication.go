// ABOUTME: Medication model with TimeSlot and Category enums.
// ABOUTME: Only the Taken flag changes after creation.
package models

import (
	"github.com/google/uuid"
)

// TimeSlot buckets medications for display.
type TimeSlot string

const (
	SlotMorning TimeSlot = "Morning"
	SlotNoon    TimeSlot = "Noon"
	SlotEvening TimeSlot = "Evening"
	SlotNight   TimeSlot = "Night"
)

// AllTimeSlots lists slots in display order.
var AllTimeSlots = []TimeSlot{SlotMorning, SlotNoon, SlotEvening, SlotNight}

// IsValidTimeSlot checks if a string is a valid time slot.
func IsValidTimeSlot(s string) bool {
	for _, ts := range AllTimeSlots {
		if string(ts) == s {
			return true
		}
	}
	return false
}

// Category classifies a scheduled item.
type Category string

const (
	CategoryMedicine Category = "medicine"
	CategoryWater    Category = "water"
	CategoryWalk     Category = "walk"
	CategoryOther    Category = "other"
)

// AllCategories lists every category.
var AllCategories = []Category{CategoryMedicine, CategoryWater, CategoryWalk, CategoryOther}

// IsValidCategory checks if a string is a valid category.
func IsValidCategory(s string) bool {
	for _, c := range AllCategories {
		if string(c) == s {
			return true
		}
	}
	return false
}

// Medication is a scheduled dose, drink, or activity.
type Medication struct {
	ID       string   `json:"id" yaml:"id"`
	Name     string   `json:"name" yaml:"name"`
	Dosage   string   `json:"dosage" yaml:"dosage"`
	Time     string   `json:"time" yaml:"time"`
	TimeSlot TimeSlot `json:"time_slot" yaml:"time_slot"`
	Taken    bool     `json:"taken" yaml:"taken"`
	Color    string   `json:"color" yaml:"color"`
	Category Category `json:"category,omitempty" yaml:"category,omitempty"`
}

// NewMedication creates an untaken medication with a generated ID.
func NewMedication(name, dosage, displayTime string, slot TimeSlot) Medication {
	return Medication{
		ID:       uuid.New().String(),
		Name:     name,
		Dosage:   dosage,
		Time:     displayTime,
		TimeSlot: slot,
		Color:    "emerald",
		Category: CategoryMedicine,
	}
}

// WithCategory sets the category.
func (m Medication) WithCategory(c Category) Medication {
	m.Category = c
	return m
}

// WithColor sets the display color.
func (m Medication) WithColor(color string) Medication {
	m.Color = color
	return m
}

// MedicationsBySlot groups medications by slot, keeping insertion order within a slot.
func MedicationsBySlot(meds []Medication) map[TimeSlot][]Medication {
	out := make(map[TimeSlot][]Medication, len(AllTimeSlots))
	for _, m := range meds {
		out[m.TimeSlot] = append(out[m.TimeSlot], m)
	}
	return out
}

// CompletedCount counts medications marked taken.
func CompletedCount(meds []Medication) int {
	n := 0
	for _, m := range meds {
		if m.Taken {
			n++
		}
	}
	return n
}

// NextPending returns the first untaken medication in slot order.
func NextPending(meds []Medication) (Medication, bool) {
	grouped := MedicationsBySlot(meds)
	for _, slot := range AllTimeSlots {
		for _, m := range grouped[slot] {
			if !m.Taken {
				return m, true
			}
		}
	}
	return Medication{}, false
}
