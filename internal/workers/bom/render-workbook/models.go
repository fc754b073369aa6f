// internal/workers/bom/render-workbook/models.go
package renderworkbook

import (
	"github.com/shopspring/decimal"

	"oci-bom-generator/internal/models"
)

type Input struct {
	Draft    *models.BOMDraft `json:"draft"`
	Currency string           `json:"currency,omitempty"`
}

// Workbook is a rendered xlsx file with the totals written into it.
type Workbook struct {
	Filename     string          `json:"filename"`
	Data         []byte          `json:"-"`
	MonthlyTotal decimal.Decimal `json:"monthlyTotal"`
	AnnualTotal  decimal.Decimal `json:"annualTotal"`
}

type Output struct {
	Workbook *Workbook `json:"workbook"`
}
