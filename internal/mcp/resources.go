// ABOUTME: MCP resource implementations for the care4u controller.
// ABOUTME: Provides care4u://summary, care4u://schedule, and care4u://conversation resources.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/care4u/internal/models"
)

const (
	summaryURI      = "care4u://summary"
	scheduleURI     = "care4u://schedule"
	conversationURI = "care4u://conversation"
)

func (s *Server) registerResources() {
	// care4u://summary - what the home view shows
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         summaryURI,
		Name:        "Care Summary",
		Description: "Active user, companion, next pending medication, latest vitals and history totals",
		MIMEType:    "application/json",
	}, s.handleSummaryResource)

	// care4u://schedule - medications grouped by slot
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         scheduleURI,
		Name:        "Medication Schedule",
		Description: "Today's schedule grouped by time slot",
		MIMEType:    "application/json",
	}, s.handleScheduleResource)

	// care4u://conversation - companion chat so far
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         conversationURI,
		Name:        "Companion Conversation",
		Description: "Messages exchanged with the plant companion",
		MIMEType:    "application/json",
	}, s.handleConversationResource)
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// Resource handlers

func (s *Server) handleSummaryResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	snap := s.store.Snapshot()

	latest := make(map[string]interface{})
	for _, kind := range models.AllVitalKinds {
		if v, ok := models.LatestVital(snap.Vitals, kind); ok {
			latest[string(kind)] = map[string]interface{}{
				"value":       v.Value.String(),
				"unit":        v.Unit,
				"recorded_at": v.RecordedAt.Format(time.RFC3339),
			}
		}
	}

	var next interface{}
	if m, ok := models.NextPending(snap.Medications); ok {
		next = m
	}

	result := map[string]interface{}{
		"generated_at":    time.Now().Format(time.RFC3339),
		"user":            snap.User,
		"onboarding_step": snap.OnboardingStep,
		"current_view":    snap.CurrentView,
		"theme":           snap.Theme,
		"companion": map[string]interface{}{
			"pot":      snap.SelectedPot,
			"nickname": snap.PlantName,
		},
		"next_medication": next,
		"vitals":          latest,
		"history":         models.SummarizeHistory(snap.History),
		"schedule": map[string]int{
			"completed": models.CompletedCount(snap.Medications),
			"total":     len(snap.Medications),
		},
	}
	return jsonResource(summaryURI, result)
}

func (s *Server) handleScheduleResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	meds := s.store.Snapshot().Medications
	grouped := models.MedicationsBySlot(meds)

	slots := make([]map[string]interface{}, 0, len(models.AllTimeSlots))
	for _, slot := range models.AllTimeSlots {
		items := grouped[slot]
		if items == nil {
			items = []models.Medication{}
		}
		slots = append(slots, map[string]interface{}{
			"slot":        slot,
			"medications": items,
		})
	}

	return jsonResource(scheduleURI, map[string]interface{}{
		"slots":     slots,
		"completed": models.CompletedCount(meds),
		"total":     len(meds),
	})
}

func (s *Server) handleConversationResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	snap := s.store.Snapshot()
	return jsonResource(conversationURI, map[string]interface{}{
		"companion": snap.SelectedPot.Name,
		"nickname":  snap.PlantName,
		"messages":  snap.ChatMessages,
		"count":     len(snap.ChatMessages),
	})
}
