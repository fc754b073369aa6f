// internal/workers/catalog/match-services/models.go
package matchservices

import "oci-bom-generator/internal/models"

type Input struct {
	Services []models.CatalogService `json:"services"`
	Intent   models.BusinessIntent   `json:"intent"`
}

type Output struct {
	Matched []models.MatchedService `json:"matched"`
	Filter  models.FilterResult     `json:"filter"`
}
