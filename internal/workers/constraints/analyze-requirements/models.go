// internal/workers/constraints/analyze-requirements/models.go
package analyzerequirements

import "oci-bom-generator/internal/models"

type Input struct {
	Text            string                `json:"text"`
	FollowUpAnswers map[string]string     `json:"followUpAnswers,omitempty"`
	Intent          models.BusinessIntent `json:"intent"`
}

type Output struct {
	Analysis models.RequirementAnalysis `json:"analysis"`
}
