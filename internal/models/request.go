// internal/models/request.go
package models

// GenerateRequest is the body of POST /api/generate-bom.
type GenerateRequest struct {
	Requirements    string            `json:"requirements"`
	LLMProvider     string            `json:"llmProvider"`
	FollowUpAnswers map[string]string `json:"followUpAnswers,omitempty"`
	Currency        string            `json:"currency,omitempty"`
	Region          string            `json:"region,omitempty"`
}

type GenerateResponse struct {
	Success           bool               `json:"success"`
	NeedsFollowUp     bool               `json:"needsFollowUp,omitempty"`
	Questions         []FollowUpQuestion `json:"questions,omitempty"`
	ExcelBuffer       []byte             `json:"excelBuffer,omitempty"`
	Filename          string             `json:"filename,omitempty"`
	ComplianceSummary *ComplianceSummary `json:"complianceSummary,omitempty"`
	Items             []BOMLineItem      `json:"items,omitempty"`
	SavedPromptID     string             `json:"savedPromptId,omitempty"`
}
