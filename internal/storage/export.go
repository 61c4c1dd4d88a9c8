// ABOUTME: Export and import functionality for care4u data.
// ABOUTME: Supports JSON, YAML, and Markdown export formats.
package storage

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/harperreed/care4u/internal/models"
)

const exportVersion = "1.0"

// ExportData represents the full export format for care4u data.
type ExportData struct {
	Version    string           `json:"version" yaml:"version"`
	ExportedAt time.Time        `json:"exported_at" yaml:"exported_at"`
	Tool       string           `json:"tool" yaml:"tool"`
	State      *models.AppState `json:"state" yaml:"state"`
}

// NewExportData wraps a state snapshot for export.
func NewExportData(st *models.AppState) *ExportData {
	return &ExportData{
		Version:    exportVersion,
		ExportedAt: time.Now(),
		Tool:       "care4u",
		State:      st.Clone(),
	}
}

// ExportJSON exports all data as JSON.
func ExportJSON(st *models.AppState) ([]byte, error) {
	return json.MarshalIndent(NewExportData(st), "", "  ")
}

// ExportYAML exports the state with medications grouped by time slot.
func ExportYAML(st *models.AppState) ([]byte, error) {
	yamlData := struct {
		Version     string                      `yaml:"version"`
		ExportedAt  string                      `yaml:"exported_at"`
		Tool        string                      `yaml:"tool"`
		User        models.UserProfile          `yaml:"user"`
		Accounts    []models.UserProfile        `yaml:"accounts,omitempty"`
		Companion   yamlCompanion               `yaml:"companion"`
		Medications map[string][]yamlMedication `yaml:"medications"`
		Vitals      []yamlVital                 `yaml:"vitals"`
		History     []models.HistoryLog         `yaml:"history"`
		Messages    int                         `yaml:"messages"`
	}{
		Version:     exportVersion,
		ExportedAt:  time.Now().Format(time.RFC3339),
		Tool:        "care4u",
		User:        st.User,
		Accounts:    st.Accounts,
		Companion:   yamlCompanion{Pot: st.SelectedPot.Name, Nickname: st.PlantName, Mood: string(st.SelectedPot.Mood)},
		Medications: make(map[string][]yamlMedication),
		Vitals:      make([]yamlVital, 0, len(st.Vitals)),
		History:     st.History,
		Messages:    len(st.ChatMessages),
	}

	for slot, meds := range models.MedicationsBySlot(st.Medications) {
		for _, m := range meds {
			yamlData.Medications[string(slot)] = append(yamlData.Medications[string(slot)], yamlMedication{
				ID:     shortID(m.ID),
				Name:   m.Name,
				Dosage: m.Dosage,
				Time:   m.Time,
				Taken:  m.Taken,
			})
		}
	}

	for _, v := range st.Vitals {
		yamlData.Vitals = append(yamlData.Vitals, yamlVital{
			Type:       string(v.Kind),
			Value:      v.Value.String(),
			Unit:       v.Unit,
			RecordedAt: v.RecordedAt.Format(time.RFC3339),
		})
	}

	return yaml.Marshal(yamlData)
}

type yamlCompanion struct {
	Pot      string `yaml:"pot"`
	Nickname string `yaml:"nickname,omitempty"`
	Mood     string `yaml:"mood"`
}

type yamlMedication struct {
	ID     string `yaml:"id"`
	Name   string `yaml:"name"`
	Dosage string `yaml:"dosage"`
	Time   string `yaml:"time"`
	Taken  bool   `yaml:"taken"`
}

type yamlVital struct {
	Type       string `yaml:"type"`
	Value      string `yaml:"value"`
	Unit       string `yaml:"unit"`
	RecordedAt string `yaml:"recorded_at"`
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// ExportMarkdown renders a readable report of the state.
func ExportMarkdown(st *models.AppState) string {
	var sb strings.Builder
	now := time.Now()

	sb.WriteString(fmt.Sprintf("# Care4U Export - %s\n\n", now.Format("2006-01-02")))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", now.Format(time.RFC3339)))

	sb.WriteString("## Profile\n\n")
	sb.WriteString(fmt.Sprintf("- Name: %s\n", st.User.DisplayName()))
	if st.User.Username != "" {
		sb.WriteString(fmt.Sprintf("- Username: @%s\n", st.User.Username))
	}
	if st.User.Age != nil {
		sb.WriteString(fmt.Sprintf("- Age: %d\n", *st.User.Age))
	}
	if st.User.MedicalConditions != "" {
		sb.WriteString(fmt.Sprintf("- Conditions: %s\n", st.User.MedicalConditions))
	}
	sb.WriteString(fmt.Sprintf("- Companion: %s %s", st.SelectedPot.Emoji, st.SelectedPot.Name))
	if st.PlantName != "" {
		sb.WriteString(fmt.Sprintf(" (\"%s\")", st.PlantName))
	}
	sb.WriteString("\n\n")

	sb.WriteString("## Schedule\n\n")
	grouped := models.MedicationsBySlot(st.Medications)
	for _, slot := range models.AllTimeSlots {
		meds := grouped[slot]
		if len(meds) == 0 {
			continue
		}
		sb.WriteString(fmt.Sprintf("### %s\n\n", slot))
		for _, m := range meds {
			check := " "
			if m.Taken {
				check = "x"
			}
			sb.WriteString(fmt.Sprintf("- [%s] %s %s at %s\n", check, m.Name, m.Dosage, m.Time))
		}
		sb.WriteString("\n")
	}

	if len(st.Vitals) > 0 {
		sb.WriteString("## Vitals\n\n")
		sb.WriteString("| Type | Value | Recorded |\n")
		sb.WriteString("|------|-------|----------|\n")
		for _, v := range st.Vitals {
			sb.WriteString(fmt.Sprintf("| %s | %s %s | %s |\n",
				models.VitalLabels[v.Kind], v.Value, v.Unit, v.RecordedAt.Format("2006-01-02 15:04")))
		}
		sb.WriteString("\n")
	}

	if len(st.History) > 0 {
		sb.WriteString("## History\n\n")
		sb.WriteString("| Date | Steps | Meds | Avg HR |\n")
		sb.WriteString("|------|-------|------|--------|\n")
		for _, h := range st.History {
			sb.WriteString(fmt.Sprintf("| %s | %d | %d | %d |\n", h.Date, h.Steps, h.MedsCompleted, h.AvgHeartRate))
		}
		sum := models.SummarizeHistory(st.History)
		sb.WriteString(fmt.Sprintf("\nTotal steps: %d, meds completed: %d, average heart rate: %.1f\n", sum.TotalSteps, sum.MedsCompleted, sum.AvgHeartRate))
	}

	return sb.String()
}

// ImportJSON parses a JSON export and returns its state.
func ImportJSON(data []byte) (*models.AppState, error) {
	var exportData ExportData
	if err := json.Unmarshal(data, &exportData); err != nil {
		return nil, fmt.Errorf("unmarshal JSON: %w", err)
	}
	if exportData.State == nil {
		return nil, ErrNoState
	}
	return exportData.State, nil
}
