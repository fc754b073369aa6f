// internal/pipeline/models.go
package pipeline

import (
	"oci-bom-generator/internal/models"
	renderworkbook "oci-bom-generator/internal/workers/bom/render-workbook"
)

// Interpretation is what the deterministic stages make of a requirement text.
type Interpretation struct {
	Text        string                     `json:"text"`
	Constraints models.ConstraintSet       `json:"constraints"`
	Intent      models.BusinessIntent      `json:"intent"`
	Summary     models.ConstraintSummary   `json:"summary"`
	Analysis    models.RequirementAnalysis `json:"analysis"`
}

// Result is the outcome of one generate request. When NeedsFollowUp is set
// only Questions and Interpretation are filled.
type Result struct {
	NeedsFollowUp  bool                      `json:"needsFollowUp"`
	Questions      []models.FollowUpQuestion `json:"questions,omitempty"`
	Interpretation Interpretation            `json:"interpretation"`
	Matched        []models.MatchedService   `json:"matched,omitempty"`
	Draft          *models.BOMDraft          `json:"draft,omitempty"`
	Workbook       *renderworkbook.Workbook  `json:"-"`
	SavedPromptID  string                    `json:"savedPromptId,omitempty"`
}

// Response converts a result to the generate-bom response body.
func (r *Result) Response() models.GenerateResponse {
	if r.NeedsFollowUp {
		return models.GenerateResponse{
			Success:       true,
			NeedsFollowUp: true,
			Questions:     r.Questions,
		}
	}
	resp := models.GenerateResponse{
		Success:       true,
		SavedPromptID: r.SavedPromptID,
	}
	if r.Workbook != nil {
		resp.ExcelBuffer = r.Workbook.Data
		resp.Filename = r.Workbook.Filename
	}
	if r.Draft != nil {
		resp.ComplianceSummary = r.Draft.ComplianceSummary
		resp.Items = r.Draft.Items
	}
	return resp
}
