// internal/workers/constraints/extract-constraints/models.go
package extractconstraints

import "oci-bom-generator/internal/models"

type Input struct {
	Text string `json:"text"`
}

type Output struct {
	Constraints models.ConstraintSet `json:"constraints"`
}
