// internal/models/catalog.go
package models

import "github.com/shopspring/decimal"

type Pricing struct {
	Currency    string          `json:"currency"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	BillingUnit string          `json:"billingUnit"`
	MetricName  string          `json:"metricName"`
	Model       string          `json:"model"`
}

type CatalogService struct {
	Identifier          string         `json:"identifier"`
	DisplayName         string         `json:"displayName"`
	Category            string         `json:"category"`
	SKUType             string         `json:"skuType"`
	ProductFamily       string         `json:"productFamily,omitempty"`
	Tier                Tier           `json:"tier,omitempty"`
	LicensingModel      LicensingModel `json:"licensingModel,omitempty"`
	BusinessDescription string         `json:"businessDescription,omitempty"`
	UseCase             string         `json:"useCase,omitempty"`
	Pricing             Pricing        `json:"pricing"`
}

type MatchedService struct {
	CatalogService
	MatchScore    float64  `json:"matchScore"`
	MatchReasons  []string `json:"matchReasons"`
	Justification string   `json:"justification,omitempty"`
}

type ServiceRejection struct {
	Service CatalogService `json:"service"`
	Reason  string         `json:"reason"`
}

type FilterResult struct {
	Included []CatalogService   `json:"included"`
	Excluded []ServiceRejection `json:"excluded"`
}
