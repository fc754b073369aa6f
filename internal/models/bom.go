// internal/models/bom.go
package models

import "github.com/shopspring/decimal"

type ComplianceRecord struct {
	Approved  bool     `json:"approved"`
	Satisfied []string `json:"satisfied"`
	Violated  []string `json:"violated"`
}

type BOMLineItem struct {
	Identifier  string            `json:"identifier"`
	Description string            `json:"description"`
	Quantity    decimal.Decimal   `json:"quantity"`
	BillingUnit string            `json:"billingUnit"`
	UnitPrice   decimal.Decimal   `json:"unitPrice"`
	Category    string            `json:"category"`
	SKUType     string            `json:"skuType,omitempty"`
	Notes       string            `json:"notes,omitempty"`
	Compliance  *ComplianceRecord `json:"complianceRecord,omitempty"`
}

type RejectedItem struct {
	Identifier  string `json:"identifier"`
	Description string `json:"description"`
	Reason      string `json:"reason"`
}

type ComplianceSummary struct {
	Considered        int                `json:"considered"`
	Approved          int                `json:"approved"`
	Rejected          []RejectedItem     `json:"rejected"`
	ConstraintSummary *ConstraintSummary `json:"constraintSummary,omitempty"`
}

type BOMDraft struct {
	Items             []BOMLineItem      `json:"items"`
	ComplianceSummary *ComplianceSummary `json:"complianceSummary,omitempty"`
	Provider          string             `json:"provider,omitempty"`
}
