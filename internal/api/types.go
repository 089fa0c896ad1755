package api

import (
	"encoding/json"
	"strings"
	"time"

	"pulse/internal/intel"
	"pulse/internal/store"
)

// DaemonInfo identifies the process hosting the API. The daemon injects its
// own identity; a standalone server reports the current process.
type DaemonInfo struct {
	Running   bool   `json:"running"`
	PID       int    `json:"pid"`
	StartedAt string `json:"started_at,omitempty"`
}

// StatusResponse summarizes the daemon and the data it manages.
type StatusResponse struct {
	Daemon        DaemonInfo  `json:"daemon"`
	DatabasePath  string      `json:"database_path"`
	CachePath     string      `json:"cache_path"`
	Customers     int64       `json:"customers"`
	Products      int64       `json:"products"`
	Opportunities int64       `json:"opportunities"`
	LatestRun     *RunSummary `json:"latest_run,omitempty"`
}

// RunSummary is the wire form of one recorded refresh run.
type RunSummary struct {
	RunID        string `json:"run_id"`
	Status       string `json:"status"`
	StartedAt    string `json:"started_at"`
	FinishedAt   string `json:"finished_at,omitempty"`
	ItemCount    int    `json:"item_count"`
	SignalCount  int    `json:"signal_count"`
	FallbackUsed bool   `json:"fallback_used"`
	Error        string `json:"error,omitempty"`
}

// RunListResponse wraps the run history endpoint.
type RunListResponse struct {
	Runs []RunSummary `json:"runs"`
}

// ReportResponse wraps the report endpoint. Available is false when the
// cache is missing, unreadable, or empty; ContextSummary then carries the
// no-context marker instead of the report's own summary.
type ReportResponse struct {
	Available      bool          `json:"available"`
	ContextSummary string        `json:"context_summary"`
	Report         *intel.Report `json:"report,omitempty"`
}

// OpportunityResponse is the wire form of a stored sales opportunity with
// the reasoning blob decoded back into structured JSON.
type OpportunityResponse struct {
	CustomerID        int64  `json:"customer_id"`
	PersonaLabel      string `json:"persona_label"`
	CurrentIntent     string `json:"current_intent"`
	SuggestedProduct  string `json:"suggested_product"`
	MarketingHeadline string `json:"marketing_headline"`
	MarketingContent  string `json:"marketing_content"`
	AIReasoning       any    `json:"ai_reasoning"`
	CreatedAt         string `json:"created_at,omitempty"`
}

// NewRunSummary converts a stored run to its wire form.
func NewRunSummary(run *store.Run) *RunSummary {
	summary := &RunSummary{
		RunID:        run.RunID,
		Status:       string(run.Status),
		StartedAt:    run.StartedAt.Format(time.RFC3339),
		ItemCount:    run.ItemCount,
		SignalCount:  run.SignalCount,
		FallbackUsed: run.FallbackUsed,
		Error:        run.Error,
	}
	if run.FinishedAt != nil {
		summary.FinishedAt = run.FinishedAt.Format(time.RFC3339)
	}
	return summary
}

// NewOpportunityResponse converts a stored opportunity to its wire form.
func NewOpportunityResponse(opportunity *store.Opportunity) OpportunityResponse {
	resp := OpportunityResponse{
		CustomerID:        opportunity.CustomerID,
		PersonaLabel:      opportunity.PersonaLabel,
		CurrentIntent:     opportunity.CurrentIntent,
		SuggestedProduct:  opportunity.SuggestedProduct,
		MarketingHeadline: opportunity.MarketingHeadline,
		MarketingContent:  opportunity.MarketingContent,
		AIReasoning:       decodeReasoning(opportunity.Reasoning),
	}
	if !opportunity.CreatedAt.IsZero() {
		resp.CreatedAt = opportunity.CreatedAt.Format(time.RFC3339)
	}
	return resp
}

// decodeReasoning restores the stored reasoning to structured JSON where
// possible; malformed blobs fall back to the raw string, never an error.
func decodeReasoning(raw string) any {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}
	var decoded any
	if err := json.Unmarshal([]byte(trimmed), &decoded); err != nil {
		return trimmed
	}
	return decoded
}
