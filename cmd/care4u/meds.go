// ABOUTME: CLI commands for the medication schedule.
// ABOUTME: Lists, adds and toggles scheduled medications, drinks and walks.
package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/care4u/internal/models"
)

var (
	medsSlot string

	medAddDosage   string
	medAddAt       string
	medAddSlot     string
	medAddCategory string
)

var medsCmd = &cobra.Command{
	Use:     "meds",
	Aliases: []string{"m", "schedule"},
	Short:   "Manage the medication schedule",
	Long: `Manage today's schedule of medications, water and walks.

Items are grouped into four time slots: Morning, Noon, Evening, Night.
Each item has an ID; use it (or any unique prefix) with 'meds toggle'.

EXAMPLES:

  care4u meds list                       # Whole schedule
  care4u meds list --slot Night          # One slot
  care4u meds add Aspirin --dosage 81mg --at "09:00 PM" --slot Night
  care4u meds add Water --slot Noon --category water
  care4u meds toggle m1                  # Mark taken / untaken`,
}

var medsListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls", "l"},
	Short:   "List scheduled items",
	RunE: func(cmd *cobra.Command, args []string) error {
		snap := st.Snapshot()

		slots := models.AllTimeSlots
		if medsSlot != "" {
			slot := models.TimeSlot(titleCase(medsSlot))
			if !models.IsValidTimeSlot(string(slot)) {
				return fmt.Errorf("unknown time slot: %s (use Morning, Noon, Evening or Night)", medsSlot)
			}
			slots = []models.TimeSlot{slot}
		}

		bySlot := models.MedicationsBySlot(snap.Medications)
		faint := color.New(color.Faint)
		shown := 0
		for _, slot := range slots {
			meds := bySlot[slot]
			if len(meds) == 0 {
				continue
			}
			color.New(color.Bold).Println(slot)
			for _, m := range meds {
				fmt.Printf("  %s %s %s %s %s\n",
					checkbox(m.Taken),
					faint.Sprint(padRight(shortID(m.ID), 8)),
					padRight(truncate(m.Name, 24), 24),
					padRight(m.Dosage, 10),
					faint.Sprint(m.Time))
				shown++
			}
		}

		if shown == 0 {
			fmt.Println("No medications found.")
			return nil
		}
		fmt.Println()
		fmt.Printf("%d of %d done today\n", models.CompletedCount(snap.Medications), len(snap.Medications))
		return nil
	},
}

var medsAddCmd = &cobra.Command{
	Use:   "add <name...>",
	Short: "Add an item to the schedule",
	Long: `Add a medication, drink or activity to the schedule.

CATEGORIES:

  medicine (default), water, walk, other

EXAMPLES:

  care4u meds add Vitamin D --dosage 1000IU --at "08:00 AM" --slot Morning
  care4u meds add Evening stroll --slot Evening --category walk`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := strings.TrimSpace(strings.Join(args, " "))
		if name == "" {
			return fmt.Errorf("name is required")
		}

		slot := models.TimeSlot(titleCase(medAddSlot))
		if !models.IsValidTimeSlot(string(slot)) {
			return fmt.Errorf("unknown time slot: %s (use Morning, Noon, Evening or Night)", medAddSlot)
		}

		m := models.NewMedication(name, medAddDosage, medAddAt, slot)
		if medAddCategory != "" {
			c := strings.ToLower(medAddCategory)
			if !models.IsValidCategory(c) {
				return fmt.Errorf("unknown category: %s (use medicine, water, walk or other)", medAddCategory)
			}
			m = m.WithCategory(models.Category(c))
		}

		added := st.AddMedication(m)
		color.Green("✓ Added %s to %s %s", added.Name, added.TimeSlot, color.New(color.Faint).Sprint(shortID(added.ID)))
		return nil
	},
}

var medsToggleCmd = &cobra.Command{
	Use:     "toggle <id>",
	Aliases: []string{"take", "done"},
	Short:   "Mark an item taken or untaken",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := resolveMedicationID(st.Snapshot().Medications, args[0])
		if err != nil {
			return err
		}

		m, err := st.ToggleMedication(id)
		if err != nil {
			return err
		}
		if m.Taken {
			color.Green("✓ %s marked taken", m.Name)
		} else {
			color.Yellow("○ %s marked not taken", m.Name)
		}
		return nil
	},
}

// resolveMedicationID expands a unique ID prefix to the full ID.
func resolveMedicationID(meds []models.Medication, prefix string) (string, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return "", fmt.Errorf("medication id is required")
	}

	var matches []string
	for _, m := range meds {
		if m.ID == prefix {
			return m.ID, nil
		}
		if strings.HasPrefix(m.ID, prefix) {
			matches = append(matches, m.ID)
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("no medication with id %q", prefix)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("id prefix %q is ambiguous (%d matches)", prefix, len(matches))
	}
}

func checkbox(done bool) string {
	if done {
		return color.GreenString("[x]")
	}
	return "[ ]"
}

func init() {
	medsListCmd.Flags().StringVarP(&medsSlot, "slot", "s", "", "only show one time slot")

	medsAddCmd.Flags().StringVarP(&medAddDosage, "dosage", "d", "", "dosage, e.g. 10mg")
	medsAddCmd.Flags().StringVar(&medAddAt, "at", "", "display time, e.g. \"08:00 AM\"")
	medsAddCmd.Flags().StringVarP(&medAddSlot, "slot", "s", string(models.SlotMorning), "time slot: Morning, Noon, Evening or Night")
	medsAddCmd.Flags().StringVarP(&medAddCategory, "category", "c", "", "medicine, water, walk or other")

	medsCmd.AddCommand(medsListCmd)
	medsCmd.AddCommand(medsAddCmd)
	medsCmd.AddCommand(medsToggleCmd)
	rootCmd.AddCommand(medsCmd)
}
