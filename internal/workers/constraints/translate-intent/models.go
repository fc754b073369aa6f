// internal/workers/constraints/translate-intent/models.go
package translateintent

import "oci-bom-generator/internal/models"

type Input struct {
	Text        string               `json:"text"`
	Constraints models.ConstraintSet `json:"constraints"`
}

type Output struct {
	Intent  models.BusinessIntent    `json:"intent"`
	Summary models.ConstraintSummary `json:"summary"`
}
