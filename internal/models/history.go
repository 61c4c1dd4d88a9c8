// ABOUTME: HistoryLog model for per-day activity summaries.
// ABOUTME: One row per calendar date, append-only.
package models

// HistoryLog summarises one calendar day.
type HistoryLog struct {
	Date          string `json:"date" yaml:"date"`
	Steps         int    `json:"steps" yaml:"steps"`
	MedsCompleted int    `json:"meds_completed" yaml:"meds_completed"`
	AvgHeartRate  int    `json:"avg_heart_rate" yaml:"avg_heart_rate"`
}

// HistorySummary aggregates a set of history logs.
type HistorySummary struct {
	Days          int
	TotalSteps    int
	MedsCompleted int
	AvgHeartRate  float64
}

// SummarizeHistory totals steps and medications and averages heart rate.
func SummarizeHistory(logs []HistoryLog) HistorySummary {
	s := HistorySummary{Days: len(logs)}
	if len(logs) == 0 {
		return s
	}
	hr := 0
	for _, l := range logs {
		s.TotalSteps += l.Steps
		s.MedsCompleted += l.MedsCompleted
		hr += l.AvgHeartRate
	}
	s.AvgHeartRate = float64(hr) / float64(len(logs))
	return s
}
