// ABOUTME: CLI commands for watch vitals and the daily history log.
// ABOUTME: Prints the latest readings and per-day activity with totals.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/care4u/internal/models"
)

var vitalsKind string

var vitalsCmd = &cobra.Command{
	Use:     "vitals",
	Aliases: []string{"watch", "v"},
	Short:   "Show watch readings",
	Long: `Show the readings synced from the watch.

KINDS:

  heart_rate, blood_oxygen, sleep, stress, blood_pressure, ecg

EXAMPLES:

  care4u vitals
  care4u vitals --kind heart_rate`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if vitalsKind != "" && !models.IsValidVitalKind(vitalsKind) {
			return fmt.Errorf("unknown vital kind: %s", vitalsKind)
		}

		faint := color.New(color.Faint)
		shown := 0
		for _, v := range st.Snapshot().Vitals {
			if vitalsKind != "" && string(v.Kind) != vitalsKind {
				continue
			}
			fmt.Printf("%s %s %s %s\n",
				faint.Sprint(v.RecordedAt.Format("2006-01-02 15:04")),
				padRight(models.VitalLabels[v.Kind], 16),
				padRight(v.Value.String(), 10),
				faint.Sprint(v.Unit))
			shown++
		}

		if shown == 0 {
			fmt.Println("No vitals found.")
		}
		return nil
	},
}

var historyCmd = &cobra.Command{
	Use:     "history",
	Aliases: []string{"h"},
	Short:   "Show the daily activity log",
	RunE: func(cmd *cobra.Command, args []string) error {
		logs := st.Snapshot().History
		if len(logs) == 0 {
			fmt.Println("No history yet.")
			return nil
		}

		faint := color.New(color.Faint)
		fmt.Println(faint.Sprintf("%s %s %s %s", padRight("DATE", 12), padRight("STEPS", 8), padRight("MEDS", 6), "AVG HR"))
		for _, l := range logs {
			fmt.Printf("%s %s %s %d\n",
				padRight(l.Date, 12),
				padRight(fmt.Sprint(l.Steps), 8),
				padRight(fmt.Sprint(l.MedsCompleted), 6),
				l.AvgHeartRate)
		}

		sum := models.SummarizeHistory(logs)
		fmt.Println()
		fmt.Printf("%d days · %d steps · %d meds · %.0f bpm average\n",
			sum.Days, sum.TotalSteps, sum.MedsCompleted, sum.AvgHeartRate)
		return nil
	},
}

func init() {
	vitalsCmd.Flags().StringVarP(&vitalsKind, "kind", "k", "", "filter by vital kind")
	rootCmd.AddCommand(vitalsCmd)
	rootCmd.AddCommand(historyCmd)
}
