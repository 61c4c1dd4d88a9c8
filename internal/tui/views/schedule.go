// ABOUTME: Schedule view grouping medications by time slot.
// ABOUTME: The cursor walks items in slot order; toggling goes through OnToggle.
package views

import (
	"fmt"
	"strings"

	"github.com/harperreed/care4u/internal/models"
)

// ScheduleProps is the slice of state the schedule view shows.
type ScheduleProps struct {
	Medications []models.Medication
	Cursor      int
	Adding      bool
	Form        string

	OnToggle func(id string)
	OnAdd    func(models.Medication)
}

// ScheduleOrder flattens medications into display order so a cursor can address them.
func ScheduleOrder(meds []models.Medication) []models.Medication {
	grouped := models.MedicationsBySlot(meds)
	out := make([]models.Medication, 0, len(meds))
	for _, slot := range models.AllTimeSlots {
		out = append(out, grouped[slot]...)
	}
	return out
}

// CategoryIcon returns the glyph for a schedule category.
func CategoryIcon(c models.Category) string {
	switch c {
	case models.CategoryWater:
		return "💧"
	case models.CategoryWalk:
		return "🚶"
	case models.CategoryOther:
		return "•"
	default:
		return "💊"
	}
}

// Schedule renders the schedule grouped by slot.
func Schedule(s Styles, p ScheduleProps) string {
	var b strings.Builder
	b.WriteString(s.Title.Render("Today's Schedule"))
	b.WriteString("  " + s.Dim.Render(fmt.Sprintf("%d/%d done", models.CompletedCount(p.Medications), len(p.Medications))) + "\n")

	if p.Adding {
		b.WriteString("\n" + s.Subtitle.Render("ADD TO SCHEDULE") + "\n")
		b.WriteString(p.Form)
		return b.String()
	}

	grouped := models.MedicationsBySlot(p.Medications)
	idx := 0
	for _, slot := range models.AllTimeSlots {
		items := grouped[slot]
		b.WriteString("\n" + s.Subtitle.Render(strings.ToUpper(string(slot))) + "\n")
		if len(items) == 0 {
			b.WriteString(s.Dim.Render("  nothing scheduled") + "\n")
			continue
		}
		for _, m := range items {
			check := s.Dim.Render("[ ]")
			name := s.Text.Render(m.Name)
			if m.Taken {
				check = s.Success.Render("[✓]")
				name = s.Dim.Strikethrough(true).Render(m.Name)
			}
			pointer := "  "
			if idx == p.Cursor {
				pointer = s.Accent.Render("▸ ")
			}
			fmt.Fprintf(&b, "%s%s %s %s %s %s\n", pointer, check, CategoryIcon(m.Category), name,
				s.Dim.Render(m.Dosage), s.Accent.Foreground(ColorFor(m.Color)).Render(m.Time))
			idx++
		}
	}
	return b.String()
}
