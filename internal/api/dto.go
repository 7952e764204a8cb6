package api

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/driftlab/driftwatch/internal/models"
)

// AnalyzeRequest is the request body for analyzing a founder submission.
type AnalyzeRequest struct {
	InputText string `json:"input_text"`
}

// Validate validates the analyze request body.
func (r AnalyzeRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.InputText, validation.Required, validation.Length(1, 20000)),
	)
}

// AnalysisResponse is the full analysis bundle (aliased from the domain layer).
type AnalysisResponse = models.AnalysisResponse

// StartupListResponse wraps the startup listing.
type StartupListResponse struct {
	Startups []models.StartupInfo `json:"startups"`
}

// SnapshotListResponse wraps a startup's snapshot history.
type SnapshotListResponse struct {
	Snapshots []models.Snapshot `json:"snapshots"`
}
