// ABOUTME: MCP tool implementations for the care4u controller.
// ABOUTME: Schedule, accounts, companion, navigation, and chat operations.
package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/care4u/internal/models"
)

func (s *Server) registerTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_medications",
		Description: "List the medication schedule, optionally filtered by time slot",
	}, s.handleListMedications)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_medication",
		Description: "Add a medication, drink, or activity to the schedule",
	}, s.handleAddMedication)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "toggle_medication",
		Description: "Mark a scheduled medication as taken or not taken",
	}, s.handleToggleMedication)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_vitals",
		Description: "List watch vitals, optionally filtered by type",
	}, s.handleListVitals)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_history",
		Description: "List daily activity logs with totals",
	}, s.handleListHistory)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_accounts",
		Description: "Show the active user and the other accounts on this device",
	}, s.handleListAccounts)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_account",
		Description: "Add another account that can be switched to",
	}, s.handleAddAccount)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "switch_account",
		Description: "Make another account the active user",
	}, s.handleSwitchAccount)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "select_companion",
		Description: "Choose the plant companion (lotus, sage, ivy, fern)",
	}, s.handleSelectCompanion)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "set_view",
		Description: "Switch the dashboard view",
	}, s.handleSetView)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "toggle_theme",
		Description: "Flip between dark and light theme",
	}, s.handleToggleTheme)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "send_message",
		Description: "Send a message to the plant companion and get its reply",
	}, s.handleSendMessage)
}

// Tool input/output types

type listMedicationsInput struct {
	TimeSlot string `json:"time_slot,omitempty" jsonschema:"Filter by slot (Morning, Noon, Evening, Night)"`
}

type medicationListOutput struct {
	Medications []models.Medication `json:"medications"`
	Completed   int                 `json:"completed"`
	Total       int                 `json:"total"`
}

type addMedicationInput struct {
	Name     string `json:"name" jsonschema:"Name of the medication or activity"`
	Dosage   string `json:"dosage" jsonschema:"Dosage or amount, e.g. 10mg or 500ml"`
	Time     string `json:"time" jsonschema:"Display time, e.g. 08:00 AM"`
	TimeSlot string `json:"time_slot" jsonschema:"Morning, Noon, Evening, or Night"`
	Category string `json:"category,omitempty" jsonschema:"medicine, water, walk, or other"`
	Color    string `json:"color,omitempty" jsonschema:"Display color"`
}

type medicationOutput struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Taken   bool   `json:"taken"`
	Message string `json:"message"`
}

type idInput struct {
	ID string `json:"id" jsonschema:"Medication ID"`
}

type listVitalsInput struct {
	Type string `json:"type,omitempty" jsonschema:"Filter by vital type (heart_rate, blood_oxygen, sleep, stress, blood_pressure, ecg)"`
}

type vitalOutput struct {
	ID         string `json:"id"`
	Type       string `json:"type"`
	Label      string `json:"label"`
	Value      string `json:"value"`
	Unit       string `json:"unit"`
	RecordedAt string `json:"recorded_at"`
}

type historyOutput struct {
	Logs    []models.HistoryLog   `json:"logs"`
	Summary models.HistorySummary `json:"summary"`
}

type emptyInput struct{}

type accountsOutput struct {
	Active   models.UserProfile   `json:"active"`
	Accounts []models.UserProfile `json:"accounts"`
}

type addAccountInput struct {
	Name              string `json:"name" jsonschema:"Display name"`
	Username          string `json:"username" jsonschema:"Unique username"`
	Age               int    `json:"age,omitempty" jsonschema:"Age in years"`
	MedicalConditions string `json:"medical_conditions,omitempty" jsonschema:"Free-text medical conditions"`
}

type usernameInput struct {
	Username string `json:"username" jsonschema:"Username of the account"`
}

type companionInput struct {
	ID string `json:"id" jsonschema:"Companion ID (lotus, sage, ivy, fern)"`
}

type viewInput struct {
	View string `json:"view" jsonschema:"home, watch, history, ai, schedule, selector, or settings"`
}

type simpleOutput struct {
	Message string `json:"message"`
}

type sendMessageInput struct {
	Text string `json:"text" jsonschema:"What to say to the companion"`
}

type replyOutput struct {
	Reply     string `json:"reply"`
	Emotion   string `json:"emotion,omitempty"`
	MoodLabel string `json:"mood_label,omitempty"`
	Timestamp string `json:"timestamp"`
}

// Tool handlers

func (s *Server) handleListMedications(ctx context.Context, req *mcp.CallToolRequest, input listMedicationsInput) (*mcp.CallToolResult, medicationListOutput, error) {
	meds := s.store.Snapshot().Medications
	out := medicationListOutput{Medications: []models.Medication{}, Completed: models.CompletedCount(meds), Total: len(meds)}

	if input.TimeSlot != "" {
		if !models.IsValidTimeSlot(input.TimeSlot) {
			return nil, medicationListOutput{}, fmt.Errorf("unknown time slot: %s", input.TimeSlot)
		}
		out.Medications = append(out.Medications, models.MedicationsBySlot(meds)[models.TimeSlot(input.TimeSlot)]...)
		return nil, out, nil
	}
	out.Medications = append(out.Medications, meds...)
	return nil, out, nil
}

func (s *Server) handleAddMedication(ctx context.Context, req *mcp.CallToolRequest, input addMedicationInput) (*mcp.CallToolResult, medicationOutput, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, medicationOutput{}, fmt.Errorf("name is required")
	}
	if !models.IsValidTimeSlot(input.TimeSlot) {
		return nil, medicationOutput{}, fmt.Errorf("unknown time slot: %s", input.TimeSlot)
	}

	m := models.NewMedication(input.Name, input.Dosage, input.Time, models.TimeSlot(input.TimeSlot))
	if input.Category != "" {
		if !models.IsValidCategory(input.Category) {
			return nil, medicationOutput{}, fmt.Errorf("unknown category: %s", input.Category)
		}
		m = m.WithCategory(models.Category(input.Category))
	}
	if input.Color != "" {
		m = m.WithColor(input.Color)
	}

	m = s.store.AddMedication(m)
	return nil, medicationOutput{
		ID:      m.ID,
		Name:    m.Name,
		Taken:   m.Taken,
		Message: fmt.Sprintf("Added %s %s at %s (ID: %s)", m.Name, m.Dosage, m.Time, shortID(m.ID)),
	}, nil
}

func (s *Server) handleToggleMedication(ctx context.Context, req *mcp.CallToolRequest, input idInput) (*mcp.CallToolResult, medicationOutput, error) {
	m, err := s.store.ToggleMedication(input.ID)
	if err != nil {
		return nil, medicationOutput{}, fmt.Errorf("failed to toggle medication: %w", err)
	}
	state := "not taken"
	if m.Taken {
		state = "taken"
	}
	return nil, medicationOutput{
		ID:      m.ID,
		Name:    m.Name,
		Taken:   m.Taken,
		Message: fmt.Sprintf("%s marked %s", m.Name, state),
	}, nil
}

func (s *Server) handleListVitals(ctx context.Context, req *mcp.CallToolRequest, input listVitalsInput) (*mcp.CallToolResult, any, error) {
	if input.Type != "" && !models.IsValidVitalKind(input.Type) {
		return nil, nil, fmt.Errorf("unknown vital type: %s", input.Type)
	}

	var out []vitalOutput
	for _, v := range s.store.Snapshot().Vitals {
		if input.Type != "" && string(v.Kind) != input.Type {
			continue
		}
		out = append(out, vitalOutput{
			ID:         v.ID,
			Type:       string(v.Kind),
			Label:      models.VitalLabels[v.Kind],
			Value:      v.Value.String(),
			Unit:       v.Unit,
			RecordedAt: v.RecordedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}
	if len(out) == 0 {
		return nil, map[string]interface{}{"message": "No vitals found."}, nil
	}
	return nil, map[string]interface{}{"vitals": out}, nil
}

func (s *Server) handleListHistory(ctx context.Context, req *mcp.CallToolRequest, input emptyInput) (*mcp.CallToolResult, historyOutput, error) {
	logs := s.store.Snapshot().History
	return nil, historyOutput{Logs: logs, Summary: models.SummarizeHistory(logs)}, nil
}

func (s *Server) handleListAccounts(ctx context.Context, req *mcp.CallToolRequest, input emptyInput) (*mcp.CallToolResult, accountsOutput, error) {
	snap := s.store.Snapshot()
	return nil, accountsOutput{Active: snap.User, Accounts: snap.Accounts}, nil
}

func (s *Server) handleAddAccount(ctx context.Context, req *mcp.CallToolRequest, input addAccountInput) (*mcp.CallToolResult, simpleOutput, error) {
	if strings.TrimSpace(input.Name) == "" || strings.TrimSpace(input.Username) == "" {
		return nil, simpleOutput{}, fmt.Errorf("name and username are required")
	}
	p := models.NewUserProfile(input.Name, input.Username).WithMedicalConditions(input.MedicalConditions)
	if input.Age > 0 {
		p = p.WithAge(input.Age)
	}
	s.store.AddAccount(p)
	return nil, simpleOutput{Message: fmt.Sprintf("Added account @%s", p.Username)}, nil
}

func (s *Server) handleSwitchAccount(ctx context.Context, req *mcp.CallToolRequest, input usernameInput) (*mcp.CallToolResult, simpleOutput, error) {
	if err := s.store.SwitchAccount(input.Username); err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to switch account: %w", err)
	}
	return nil, simpleOutput{Message: fmt.Sprintf("Switched to @%s", input.Username)}, nil
}

func (s *Server) handleSelectCompanion(ctx context.Context, req *mcp.CallToolRequest, input companionInput) (*mcp.CallToolResult, simpleOutput, error) {
	p, err := s.store.SelectCompanionByID(strings.ToLower(strings.TrimSpace(input.ID)))
	if err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to select companion: %w", err)
	}
	return nil, simpleOutput{Message: fmt.Sprintf("%s %s is now your companion", p.Emoji, p.Name)}, nil
}

func (s *Server) handleSetView(ctx context.Context, req *mcp.CallToolRequest, input viewInput) (*mcp.CallToolResult, simpleOutput, error) {
	if err := s.store.SetView(models.View(input.View)); err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to set view: %w", err)
	}
	return nil, simpleOutput{Message: fmt.Sprintf("Showing %s", models.ViewLabels[models.View(input.View)])}, nil
}

func (s *Server) handleToggleTheme(ctx context.Context, req *mcp.CallToolRequest, input emptyInput) (*mcp.CallToolResult, simpleOutput, error) {
	theme := s.store.ToggleTheme()
	return nil, simpleOutput{Message: fmt.Sprintf("Theme is now %s", theme)}, nil
}

func (s *Server) handleSendMessage(ctx context.Context, req *mcp.CallToolRequest, input sendMessageInput) (*mcp.CallToolResult, replyOutput, error) {
	reply, err := s.store.SendMessage(ctx, s.responder, input.Text)
	if err != nil {
		return nil, replyOutput{}, fmt.Errorf("failed to send message: %w", err)
	}
	return nil, replyOutput{
		Reply:     reply.Content,
		Emotion:   string(reply.Emotion),
		MoodLabel: reply.MoodLabel,
		Timestamp: reply.Timestamp,
	}, nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
