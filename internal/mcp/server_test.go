// ABOUTME: Tests for MCP server, tools, and resources.
// ABOUTME: Covers NewServer, tool handlers, and resource handlers against a seeded store.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/care4u/internal/companion"
	"github.com/harperreed/care4u/internal/models"
	"github.com/harperreed/care4u/internal/onboarding"
	"github.com/harperreed/care4u/internal/store"
)

// setupTestServer creates a server over a store that has finished onboarding.
func setupTestServer(t *testing.T) (*Server, *store.Store) {
	t.Helper()

	st := models.NewAppState()
	st.OnboardingStep = onboarding.StepMain
	st.User = models.NewUserProfile("Alex", "alex_h")
	st.PlantName = "Sprout"
	s := store.New(st, store.WithLogger(log.New(io.Discard)))

	server, err := NewServer(s, companion.NewScripted(0))
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	return server, s
}

func TestNewServer(t *testing.T) {
	server, _ := setupTestServer(t)

	if server.mcpServer == nil {
		t.Error("Expected non-nil mcpServer")
	}
	if server.store == nil {
		t.Error("Expected non-nil store")
	}
	if server.responder == nil {
		t.Error("Expected non-nil responder")
	}

	if _, err := NewServer(nil, nil); err == nil {
		t.Error("Expected error for nil store")
	}
}

func TestNewServerDefaultsResponder(t *testing.T) {
	s := store.New(nil, store.WithLogger(log.New(io.Discard)))
	server, err := NewServer(s, nil)
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	if _, ok := server.responder.(*companion.Scripted); !ok {
		t.Errorf("responder = %T, want *companion.Scripted", server.responder)
	}
}

func TestHandleListMedications(t *testing.T) {
	server, _ := setupTestServer(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		input   listMedicationsInput
		count   int
		wantErr bool
	}{
		{"all", listMedicationsInput{}, 3, false},
		{"morning", listMedicationsInput{TimeSlot: "Morning"}, 1, false},
		{"night is empty", listMedicationsInput{TimeSlot: "Night"}, 0, false},
		{"invalid slot", listMedicationsInput{TimeSlot: "Brunch"}, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, output, err := server.handleListMedications(ctx, &mcp.CallToolRequest{}, tt.input)
			if tt.wantErr {
				if err == nil {
					t.Error("Expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if len(output.Medications) != tt.count {
				t.Errorf("count = %d, want %d", len(output.Medications), tt.count)
			}
			if output.Total != 3 || output.Completed != 1 {
				t.Errorf("completed/total = %d/%d", output.Completed, output.Total)
			}
		})
	}
}

func TestHandleAddMedication(t *testing.T) {
	server, s := setupTestServer(t)
	ctx := context.Background()

	tests := []struct {
		name      string
		input     addMedicationInput
		wantErr   bool
		errSubstr string
	}{
		{
			name:  "valid medication",
			input: addMedicationInput{Name: "Vitamin D", Dosage: "1000 IU", Time: "09:00 AM", TimeSlot: "Morning"},
		},
		{
			name:  "water with category and color",
			input: addMedicationInput{Name: "Water", Dosage: "250ml", Time: "03:00 PM", TimeSlot: "Noon", Category: "water", Color: "blue"},
		},
		{
			name:      "missing name",
			input:     addMedicationInput{TimeSlot: "Morning"},
			wantErr:   true,
			errSubstr: "name is required",
		},
		{
			name:      "invalid slot",
			input:     addMedicationInput{Name: "X", TimeSlot: "Brunch"},
			wantErr:   true,
			errSubstr: "unknown time slot",
		},
		{
			name:      "invalid category",
			input:     addMedicationInput{Name: "X", TimeSlot: "Night", Category: "candy"},
			wantErr:   true,
			errSubstr: "unknown category",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, output, err := server.handleAddMedication(ctx, &mcp.CallToolRequest{}, tt.input)
			if tt.wantErr {
				if err == nil {
					t.Error("Expected error, got nil")
				} else if !strings.Contains(err.Error(), tt.errSubstr) {
					t.Errorf("Error %q should contain %q", err.Error(), tt.errSubstr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if output.ID == "" || output.Message == "" {
				t.Errorf("output = %+v", output)
			}
		})
	}

	meds := s.Snapshot().Medications
	if len(meds) != 5 {
		t.Fatalf("medications = %d, want 5", len(meds))
	}
	if meds[4].Category != models.CategoryWater || meds[4].Color != "blue" {
		t.Errorf("last medication = %+v", meds[4])
	}
}

func TestHandleToggleMedication(t *testing.T) {
	server, s := setupTestServer(t)
	ctx := context.Background()

	_, output, err := server.handleToggleMedication(ctx, &mcp.CallToolRequest{}, idInput{ID: "m1"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !output.Taken || !strings.Contains(output.Message, "Lisinopril marked taken") {
		t.Errorf("output = %+v", output)
	}
	if !s.Snapshot().Medications[0].Taken {
		t.Error("store not updated")
	}

	_, _, err = server.handleToggleMedication(ctx, &mcp.CallToolRequest{}, idInput{ID: "nope"})
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestHandleListVitals(t *testing.T) {
	server, _ := setupTestServer(t)
	ctx := context.Background()

	_, output, err := server.handleListVitals(ctx, &mcp.CallToolRequest{}, listVitalsInput{Type: "blood_pressure"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	vitals := output.(map[string]interface{})["vitals"].([]vitalOutput)
	if len(vitals) != 1 || vitals[0].Value != "118/79" || vitals[0].Label != "Blood Pressure" {
		t.Errorf("vitals = %+v", vitals)
	}

	_, output, err = server.handleListVitals(ctx, &mcp.CallToolRequest{}, listVitalsInput{Type: "ecg"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if msg, ok := output.(map[string]interface{})["message"]; !ok || msg != "No vitals found." {
		t.Errorf("output = %v", output)
	}

	if _, _, err := server.handleListVitals(ctx, &mcp.CallToolRequest{}, listVitalsInput{Type: "glucose"}); err == nil {
		t.Error("Expected error for unknown type")
	}
}

func TestHandleListHistory(t *testing.T) {
	server, _ := setupTestServer(t)
	_, output, err := server.handleListHistory(context.Background(), &mcp.CallToolRequest{}, emptyInput{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(output.Logs) != 3 || output.Summary.TotalSteps != 24720 {
		t.Errorf("output = %+v", output)
	}
}

func TestAccountTools(t *testing.T) {
	server, s := setupTestServer(t)
	ctx := context.Background()

	if _, _, err := server.handleAddAccount(ctx, &mcp.CallToolRequest{}, addAccountInput{Name: "Mom"}); err == nil {
		t.Error("Expected error for missing username")
	}
	if _, _, err := server.handleAddAccount(ctx, &mcp.CallToolRequest{}, addAccountInput{Name: "Mom", Username: "mom", Age: 62}); err != nil {
		t.Fatalf("add_account failed: %v", err)
	}

	_, out, err := server.handleSwitchAccount(ctx, &mcp.CallToolRequest{}, usernameInput{Username: "mom"})
	if err != nil {
		t.Fatalf("switch_account failed: %v", err)
	}
	if out.Message != "Switched to @mom" {
		t.Errorf("message = %q", out.Message)
	}

	_, accounts, _ := server.handleListAccounts(ctx, &mcp.CallToolRequest{}, emptyInput{})
	if accounts.Active.Username != "mom" || accounts.Active.Age == nil || *accounts.Active.Age != 62 {
		t.Errorf("active = %+v", accounts.Active)
	}
	if len(accounts.Accounts) != 1 || accounts.Accounts[0].Username != "alex_h" {
		t.Errorf("accounts = %+v", accounts.Accounts)
	}

	if _, _, err := server.handleSwitchAccount(ctx, &mcp.CallToolRequest{}, usernameInput{Username: "ghost"}); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
	if s.Snapshot().User.Username != "mom" {
		t.Error("failed switch changed the active user")
	}
}

func TestHandleSelectCompanion(t *testing.T) {
	server, s := setupTestServer(t)
	ctx := context.Background()

	_, out, err := server.handleSelectCompanion(ctx, &mcp.CallToolRequest{}, companionInput{ID: " Fern "})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !strings.Contains(out.Message, "Fern") {
		t.Errorf("message = %q", out.Message)
	}
	if s.Snapshot().SelectedPot.ID != "fern" {
		t.Error("companion not selected")
	}
	if _, _, err := server.handleSelectCompanion(ctx, &mcp.CallToolRequest{}, companionInput{ID: "cactus"}); err == nil {
		t.Error("Expected error for unknown companion")
	}
}

func TestHandleSetViewAndTheme(t *testing.T) {
	server, s := setupTestServer(t)
	ctx := context.Background()

	if _, _, err := server.handleSetView(ctx, &mcp.CallToolRequest{}, viewInput{View: "schedule"}); err != nil {
		t.Fatalf("set_view failed: %v", err)
	}
	if s.Snapshot().CurrentView != models.ViewSchedule {
		t.Error("view not changed")
	}
	if _, _, err := server.handleSetView(ctx, &mcp.CallToolRequest{}, viewInput{View: "garden"}); err == nil {
		t.Error("Expected error for unknown view")
	}

	_, out, err := server.handleToggleTheme(ctx, &mcp.CallToolRequest{}, emptyInput{})
	if err != nil {
		t.Fatalf("toggle_theme failed: %v", err)
	}
	if out.Message != "Theme is now light" {
		t.Errorf("message = %q", out.Message)
	}
}

func TestHandleSendMessage(t *testing.T) {
	server, s := setupTestServer(t)
	ctx := context.Background()

	_, out, err := server.handleSendMessage(ctx, &mcp.CallToolRequest{}, sendMessageInput{Text: "time for my walk"})
	if err != nil {
		t.Fatalf("send_message failed: %v", err)
	}
	if out.Reply == "" || out.Emotion != string(models.EmotionLove) {
		t.Errorf("reply = %+v", out)
	}
	if n := len(s.Snapshot().ChatMessages); n != 3 {
		t.Errorf("messages = %d, want 3", n)
	}

	if _, _, err := server.handleSendMessage(ctx, &mcp.CallToolRequest{}, sendMessageInput{Text: "  "}); !errors.Is(err, store.ErrEmptyMessage) {
		t.Errorf("error = %v, want ErrEmptyMessage", err)
	}
}

func readResource(t *testing.T, result *mcp.ReadResourceResult, err error, uri string) map[string]interface{} {
	t.Helper()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(result.Contents) == 0 {
		t.Fatal("Expected non-empty contents")
	}
	if result.Contents[0].URI != uri {
		t.Errorf("URI = %s, want %s", result.Contents[0].URI, uri)
	}
	if result.Contents[0].MIMEType != "application/json" {
		t.Errorf("MIMEType = %s, want application/json", result.Contents[0].MIMEType)
	}
	var out map[string]interface{}
	if err := json.Unmarshal([]byte(result.Contents[0].Text), &out); err != nil {
		t.Fatalf("resource is not JSON: %v", err)
	}
	return out
}

func TestHandleSummaryResource(t *testing.T) {
	server, _ := setupTestServer(t)
	result, err := server.handleSummaryResource(context.Background(), &mcp.ReadResourceRequest{})
	out := readResource(t, result, err, summaryURI)

	next, ok := out["next_medication"].(map[string]interface{})
	if !ok || next["id"] != "m1" {
		t.Errorf("next_medication = %v", out["next_medication"])
	}
	vitals := out["vitals"].(map[string]interface{})
	if _, ok := vitals["heart_rate"]; !ok {
		t.Errorf("vitals = %v", vitals)
	}
	companionInfo := out["companion"].(map[string]interface{})
	if companionInfo["nickname"] != "Sprout" {
		t.Errorf("companion = %v", companionInfo)
	}
}

func TestHandleScheduleResource(t *testing.T) {
	server, _ := setupTestServer(t)
	result, err := server.handleScheduleResource(context.Background(), &mcp.ReadResourceRequest{})
	out := readResource(t, result, err, scheduleURI)

	slots := out["slots"].([]interface{})
	if len(slots) != 4 {
		t.Fatalf("slots = %d, want 4", len(slots))
	}
	first := slots[0].(map[string]interface{})
	if first["slot"] != "Morning" {
		t.Errorf("first slot = %v", first["slot"])
	}
	if out["completed"].(float64) != 1 {
		t.Errorf("completed = %v", out["completed"])
	}
}

func TestHandleConversationResource(t *testing.T) {
	server, _ := setupTestServer(t)
	result, err := server.handleConversationResource(context.Background(), &mcp.ReadResourceRequest{})
	out := readResource(t, result, err, conversationURI)

	if out["companion"] != "Sage" || out["count"].(float64) != 1 {
		t.Errorf("conversation = %v", out)
	}
}
