// internal/workers/catalog/fetch-catalog/config.go
package fetchcatalog

import "time"

const (
	DefaultBaseURL   = "https://apexapps.oracle.com/pls/apex/cetools/api/v1/products/"
	DefaultUserAgent = "OCI-BOM-Generator/2.0"
	CacheKey         = "oci:catalog:all_services"
)

type Config struct {
	BaseURL   string
	Timeout   time.Duration
	CacheTTL  time.Duration
	UserAgent string
	// DefaultUnitPrice applies when a remote record carries no usable price.
	DefaultUnitPrice string
}

func LoadConfig() *Config {
	return &Config{
		BaseURL:          DefaultBaseURL,
		Timeout:          15 * time.Second,
		CacheTTL:         time.Hour,
		UserAgent:        DefaultUserAgent,
		DefaultUnitPrice: "0.05",
	}
}
