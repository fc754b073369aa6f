// internal/workers/catalog/fetch-catalog/models.go
package fetchcatalog

import "oci-bom-generator/internal/models"

// Source names where a catalog came from.
type Source string

const (
	SourceCache    Source = "cache"
	SourceRemote   Source = "remote"
	SourceFallback Source = "fallback"
)

type Input struct {
	Refresh bool `json:"refresh,omitempty"`
}

type Output struct {
	Services   []models.CatalogService `json:"services"`
	Categories []string                `json:"categories"`
	Source     Source                  `json:"source"`
}
