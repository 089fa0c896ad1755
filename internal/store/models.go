package store

import (
	"strings"
	"time"
)

// RunStatus represents the lifecycle of a pipeline run record.
type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// PersonaUnprocessed marks customers whose persona enrichment has not run.
// The sales flow skips these rows.
const PersonaUnprocessed = "Not Processed"

// Customer is one CRM row. Interests is stored as a JSON array; the
// behavioral fields (current intent, remaining data, bill status) are the
// flattened live view the sales flow consumes.
type Customer struct {
	ID               int64
	MSISDN           string
	Name             string
	Age              int
	City             string
	TariffSegment    string
	SubscriptionType string
	DeviceModel      string
	PersonaLabel     string
	ChurnRisk        int
	Interests        []string
	CurrentIntent    string
	RemainingDataGB  float64
	BillStatus       string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// FirstName returns the leading token of the customer's full name.
func (c *Customer) FirstName() string {
	if c == nil {
		return ""
	}
	fields := strings.Fields(c.Name)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// Product is one catalog row. Specs carries the raw JSON object used to
// build retrieval documents and metadata.
type Product struct {
	ID       int64
	Code     string
	Name     string
	Category string
	Price    float64
	Currency string
	Specs    map[string]any
	IsActive bool
}

// Opportunity is a generated sales opportunity for one customer. Reasoning
// is an opaque JSON blob containing the generator's rationale plus the
// grounding evidence recorded by the sales flow.
type Opportunity struct {
	ID                int64
	CustomerID        int64
	PersonaLabel      string
	CurrentIntent     string
	SuggestedProduct  string
	MarketingHeadline string
	MarketingContent  string
	Reasoning         string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Run records one pipeline execution.
type Run struct {
	ID           int64
	RunID        string
	StartedAt    time.Time
	FinishedAt   *time.Time
	Status       RunStatus
	ItemCount    int
	SignalCount  int
	FallbackUsed bool
	Error        string
}
