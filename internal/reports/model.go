package reports

import (
	"github.com/senecapartners/seneca-cms-backend/internal/inventory"
)

// IntegrityReport lists inventory that a sales page cannot show properly.
type IntegrityReport struct {
	FloorsMissingPlan   []inventory.Floor `json:"floors_missing_plan"`
	BlocksWithoutFloors []inventory.Block `json:"blocks_without_floors"`
}

// LinkSource is a piece of stored text that may contain external links.
type LinkSource struct {
	Source string
	Text   string
}

// LinkResult is the outcome of checking one link found in one source.
// Status holds the HTTP status code as text, or the network error.
type LinkResult struct {
	URL        string `json:"url"`
	Source     string `json:"source"`
	Status     string `json:"status"`
	StatusCode int    `json:"status_code"`
	OK         bool   `json:"ok"`
}

type DeadLinkReport struct {
	AllChecked []LinkResult `json:"all_checked"`
	Broken     []LinkResult `json:"broken"`
}

// DurationParts is an average processing time split for display.
// All fields are null when there were no closed leads.
type DurationParts struct {
	Days    *int64 `json:"days"`
	Hours   *int64 `json:"hours"`
	Minutes *int64 `json:"minutes"`
	Seconds *int64 `json:"seconds"`
}

type FunnelSummary struct {
	StartDate          *string       `json:"start_date"`
	EndDate            *string       `json:"end_date"`
	TotalApplications  int64         `json:"total_applications"`
	ClosedApplications int64         `json:"closed_applications"`
	ConversionRate     float64       `json:"conversion_rate_%"`
	AvgProcessingSecs  *float64      `json:"avg_processing_secs"`
	AvgProcessing      DurationParts `json:"avg_processing"`
}

// FunnelStats are the raw aggregates behind a FunnelSummary.
type FunnelStats struct {
	Total   int64
	Closed  int64
	AvgSecs *float64
}
