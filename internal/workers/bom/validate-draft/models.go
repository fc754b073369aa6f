// internal/workers/bom/validate-draft/models.go
package validatedraft

import "oci-bom-generator/internal/models"

type Input struct {
	Draft       *models.BOMDraft        `json:"draft"`
	Constraints models.ConstraintSet    `json:"constraints"`
	Catalog     []models.CatalogService `json:"catalog,omitempty"`
}

type Output struct {
	Draft *models.BOMDraft `json:"draft"`
}
