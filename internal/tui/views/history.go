// ABOUTME: History view listing daily activity logs.
// ABOUTME: Totals and averages are shown under the per-day rows.
package views

import (
	"fmt"
	"strings"

	"github.com/harperreed/care4u/internal/models"
)

// HistoryProps is the slice of state the history view shows.
type HistoryProps struct {
	Logs []models.HistoryLog
}

// History renders the log table.
func History(s Styles, p HistoryProps) string {
	var b strings.Builder
	b.WriteString(s.Title.Render("Activity Log") + "\n\n")

	if len(p.Logs) == 0 {
		b.WriteString(s.Dim.Render("No history yet."))
		return b.String()
	}

	b.WriteString(s.Subtitle.Render(fmt.Sprintf("%-12s %8s %6s %6s", "DATE", "STEPS", "MEDS", "BPM")) + "\n")
	for _, l := range p.Logs {
		fmt.Fprintf(&b, "%-12s %8d %6d %6d\n", l.Date, l.Steps, l.MedsCompleted, l.AvgHeartRate)
	}

	sum := models.SummarizeHistory(p.Logs)
	b.WriteString("\n")
	b.WriteString(s.Dim.Render(fmt.Sprintf("%d days · %d steps · %d meds · %.1f avg bpm",
		sum.Days, sum.TotalSteps, sum.MedsCompleted, sum.AvgHeartRate)))
	return b.String()
}
