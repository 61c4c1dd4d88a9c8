// ABOUTME: Pure medication list operations used by the controller.
// ABOUTME: Helpers return new slices and never modify their input.
package store

import (
	"github.com/google/uuid"

	"github.com/harperreed/care4u/internal/models"
)

// ToggleMedication flips Taken on the first medication with the given ID.
// The second return value is false when no medication matched.
func ToggleMedication(meds []models.Medication, id string) ([]models.Medication, bool) {
	out := append([]models.Medication(nil), meds...)
	for i := range out {
		if out[i].ID == id {
			out[i].Taken = !out[i].Taken
			return out, true
		}
	}
	return out, false
}

// AddMedication appends a medication, generating an ID when none is set.
func AddMedication(meds []models.Medication, m models.Medication) []models.Medication {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	out := make([]models.Medication, 0, len(meds)+1)
	out = append(out, meds...)
	return append(out, m)
}
