// internal/workers/bom/render-workbook/pricing.go
package renderworkbook

import (
	"strings"

	"github.com/shopspring/decimal"

	"oci-bom-generator/internal/models"
)

var (
	hoursPerMonth  = decimal.NewFromInt(744)
	daysPerMonth   = decimal.NewFromInt(31)
	weeksPerMonth  = decimal.RequireFromString("4.33")
	monthsPerYear  = decimal.NewFromInt(12)
	oneTwelfth     = decimal.NewFromInt(1).Div(monthsPerYear)
	unitMultiplier = decimal.NewFromInt(1)
)

// MonthlyMultiplier converts one billing unit of the metric into a month.
// Unknown metrics are treated as monthly.
func MonthlyMultiplier(metric string) decimal.Decimal {
	m := strings.ToLower(metric)
	switch {
	case strings.Contains(m, "hour"):
		return hoursPerMonth
	case strings.Contains(m, "day"):
		return daysPerMonth
	case strings.Contains(m, "week"):
		return weeksPerMonth
	case strings.Contains(m, "month"):
		return unitMultiplier
	case strings.Contains(m, "year"), strings.Contains(m, "annual"):
		return oneTwelfth
	default:
		return unitMultiplier
	}
}

// LineCost is the monthly and annual cost of one item.
type LineCost struct {
	Monthly decimal.Decimal
	Annual  decimal.Decimal
}

func CostOf(item models.BOMLineItem) LineCost {
	monthly := item.Quantity.Mul(item.UnitPrice).Mul(MonthlyMultiplier(item.BillingUnit))
	return LineCost{Monthly: monthly, Annual: monthly.Mul(monthsPerYear)}
}

type categoryGroup struct {
	name  string
	items []models.BOMLineItem
}

// groupByCategory keeps categories in order of first appearance.
func groupByCategory(items []models.BOMLineItem) []categoryGroup {
	var groups []categoryGroup
	index := map[string]int{}
	for _, it := range items {
		name := strings.TrimSpace(it.Category)
		if name == "" {
			name = "General"
		}
		i, ok := index[name]
		if !ok {
			i = len(groups)
			index[name] = i
			groups = append(groups, categoryGroup{name: name})
		}
		groups[i].items = append(groups[i].items, it)
	}
	return groups
}
