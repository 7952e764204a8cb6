// Package models defines the domain types for Driftwatch.
package models

import "time"

// ChannelType is the closed set of distribution channel kinds a snapshot
// may carry. Anything else coming back from the oracle is coerced to nil.
type ChannelType string

// Allowed channel types.
const (
	ChannelColdOutreach ChannelType = "cold_outreach"
	ChannelCommunity    ChannelType = "community"
	ChannelPaidAds      ChannelType = "paid_ads"
	ChannelPartnerships ChannelType = "partnerships"
	ChannelMarketplace  ChannelType = "marketplace"
	ChannelProductLed   ChannelType = "product_led"
)

// ChannelTypes lists every allowed channel type in declaration order.
func ChannelTypes() []ChannelType {
	return []ChannelType{
		ChannelColdOutreach,
		ChannelCommunity,
		ChannelPaidAds,
		ChannelPartnerships,
		ChannelMarketplace,
		ChannelProductLed,
	}
}

// ParseChannelType returns the channel type for s, or false when s is not a
// member of the closed enum.
func ParseChannelType(s string) (ChannelType, bool) {
	for _, ct := range ChannelTypes() {
		if string(ct) == s {
			return ct, true
		}
	}
	return "", false
}

// Snapshot is the versioned record of a startup's narrative at one point in
// time. All narrative fields are optional; identity and timestamp are not.
// Versions per startup are strictly increasing starting at 1.
type Snapshot struct {
	StartupID string    `json:"startup_id"`
	Version   int       `json:"version"`
	Timestamp time.Time `json:"timestamp"`

	Problem     *string `json:"problem"`
	TargetUser  *string `json:"target_user"`
	JobToBeDone *string `json:"job_to_be_done"`

	Solution  *string `json:"solution"`
	ValueProp *string `json:"value_prop"`

	PrimaryChannelType        *ChannelType `json:"primary_channel_type"`
	PrimaryChannelDescription *string      `json:"primary_channel_description"`

	Hypothesis *string `json:"hypothesis"`
	Metric     *string `json:"metric"`
	Timeframe  *string `json:"timeframe"`

	TechFeasibilityNotes *string  `json:"tech_feasibility_notes"`
	TopRisks             []string `json:"top_risks"`
	DeclaredNextSteps    []string `json:"declared_next_steps"`
}

// Severity ranks a dimension review. Ordering: blocker > major > minor > ok.
type Severity string

// Review severities.
const (
	SeverityBlocker Severity = "blocker"
	SeverityMajor   Severity = "major"
	SeverityMinor   Severity = "minor"
	SeverityOK      Severity = "ok"
)

// Status is the overall pipeline verdict for one analysis run.
type Status string

// Analysis statuses. BLOCKED iff any dimension review is a blocker.
const (
	StatusBlocked Status = "BLOCKED"
	StatusOK      Status = "OK"
)

// DimensionReview is the per-facet verdict for one analysis run.
// Ephemeral; never persisted.
type DimensionReview struct {
	Dimension      string   `json:"dimension"`
	Severity       Severity `json:"severity"`
	Issue          *string  `json:"issue,omitempty"`
	Evidence       *string  `json:"evidence,omitempty"`
	Recommendation *string  `json:"recommendation,omitempty"`
}

// Experiment is a proposed validation activity. Ephemeral; never persisted.
type Experiment struct {
	Title           string   `json:"title"`
	ChannelType     string   `json:"channel_type"`
	Steps           []string `json:"steps"`
	SuccessCriteria string   `json:"success_criteria"`
	TimeCost        string   `json:"time_cost"`
}

// DriftClassification labels a change between two snapshot versions.
type DriftClassification string

// Drift classifications.
const (
	DriftMajorChange     DriftClassification = "major_change"
	DriftMinorRefinement DriftClassification = "minor_refinement"
)

// ParseDriftClassification returns the classification for s, or false when s
// is not one of the two fixed values.
func ParseDriftClassification(s string) (DriftClassification, bool) {
	switch DriftClassification(s) {
	case DriftMajorChange, DriftMinorRefinement:
		return DriftClassification(s), true
	}
	return "", false
}

// DriftItem records one changed tracked field between the previous committed
// snapshot and the new one. Recomputed per request, never stored.
type DriftItem struct {
	Field          string              `json:"field"`
	Before         *string             `json:"before"`
	After          *string             `json:"after"`
	Classification DriftClassification `json:"classification"`
	Comment        *string             `json:"comment,omitempty"`
}

// AnalysisResponse is the full bundle returned for one analyze request.
type AnalysisResponse struct {
	Snapshot         Snapshot          `json:"snapshot"`
	DimensionReviews []DimensionReview `json:"dimension_reviews"`
	Experiments      []Experiment      `json:"experiments"`
	Drift            []DriftItem       `json:"drift"`
	Status           Status            `json:"status"`
}

// StartupInfo is the lightweight listing item for a tracked startup.
type StartupInfo struct {
	ID            string    `json:"id"`
	CreatedAt     time.Time `json:"created_at"`
	LatestVersion int       `json:"latest_version"`
}
