// internal/workers/catalog/fetch-catalog/normalize.go
package fetchcatalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"oci-bom-generator/internal/models"
	"oci-bom-generator/internal/taxonomy"
)

var (
	ErrMissingIdentifier = errors.New("MISSING_IDENTIFIER")
	ErrNegativePrice     = errors.New("NEGATIVE_PRICE")
	ErrMalformedRecord   = errors.New("MALFORMED_RECORD")
	ErrEmptyPayload      = errors.New("EMPTY_PAYLOAD")
)

type remoteRecord struct {
	PartNumber                string               `json:"partNumber"`
	DisplayName               string               `json:"displayName"`
	ServiceCategory           string               `json:"serviceCategory"`
	SKUType                   string               `json:"skuType"`
	MetricName                string               `json:"metricName"`
	Price                     *decimal.Decimal     `json:"price"`
	Pricing                   json.RawMessage      `json:"pricing"`
	CurrencyCodeLocalizations []remoteLocalization `json:"currencyCodeLocalizations"`
}

type remoteLocalization struct {
	CurrencyCode string           `json:"currencyCode"`
	Price        *decimal.Decimal `json:"price"`
	Model        string           `json:"model"`
	Prices       []struct {
		Model string           `json:"model"`
		Value *decimal.Decimal `json:"value"`
	} `json:"prices"`
}

type remotePricing struct {
	Currency   string           `json:"currency"`
	UnitPrice  *decimal.Decimal `json:"unitPrice"`
	Unit       string           `json:"unit"`
	MetricName string           `json:"metricName"`
	Model      string           `json:"model"`
}

// splitPayload accepts {"items":[...]} or a bare array and returns the raw records.
func splitPayload(data []byte) ([]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, ErrEmptyPayload
	}

	var records []json.RawMessage
	if trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &records); err != nil {
			return nil, fmt.Errorf("decode catalog array: %w", err)
		}
		return records, nil
	}

	var envelope struct {
		Items []json.RawMessage `json:"items"`
	}
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, fmt.Errorf("decode catalog envelope: %w", err)
	}
	return envelope.Items, nil
}

// normalizeRecord turns one remote record into a CatalogService enriched with taxonomy metadata.
func normalizeRecord(raw json.RawMessage, tax *taxonomy.Taxonomy, defaultPrice decimal.Decimal) (models.CatalogService, error) {
	var rec remoteRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return models.CatalogService{}, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}
	rec.PartNumber = strings.TrimSpace(rec.PartNumber)
	rec.DisplayName = strings.TrimSpace(rec.DisplayName)
	if rec.PartNumber == "" || rec.DisplayName == "" {
		return models.CatalogService{}, ErrMissingIdentifier
	}

	pricing, err := normalizePricing(rec, defaultPrice)
	if err != nil {
		return models.CatalogService{}, fmt.Errorf("%s: %w", rec.PartNumber, err)
	}

	svc := models.CatalogService{
		Identifier:  rec.PartNumber,
		DisplayName: rec.DisplayName,
		Category:    rec.ServiceCategory,
		SKUType:     rec.SKUType,
		Pricing:     pricing,
	}
	enrich(&svc, tax)
	return svc, nil
}

func normalizePricing(rec remoteRecord, defaultPrice decimal.Decimal) (models.Pricing, error) {
	metric := rec.MetricName
	if metric == "" {
		metric = "Hour"
	}
	p := models.Pricing{
		Currency:    "USD",
		BillingUnit: billingUnitFor(metric),
		MetricName:  metric,
		Model:       "PAYG",
	}

	var price *decimal.Decimal
	if obj, ok := pricingObject(rec.Pricing); ok && obj.UnitPrice != nil {
		price = obj.UnitPrice
		if obj.Currency != "" {
			p.Currency = strings.ToUpper(obj.Currency)
		}
		if obj.MetricName != "" {
			p.MetricName = obj.MetricName
		}
		if obj.Unit != "" {
			p.BillingUnit = obj.Unit
		} else {
			p.BillingUnit = billingUnitFor(p.MetricName)
		}
		if obj.Model != "" {
			p.Model = obj.Model
		}
	}
	if price == nil {
		for _, loc := range rec.CurrencyCodeLocalizations {
			if !strings.EqualFold(loc.CurrencyCode, "USD") {
				continue
			}
			if loc.Price != nil {
				price = loc.Price
			} else {
				for _, pp := range loc.Prices {
					if pp.Value != nil {
						price = pp.Value
						if pp.Model != "" {
							p.Model = pp.Model
						}
						break
					}
				}
			}
			if loc.Model != "" {
				p.Model = loc.Model
			}
			break
		}
	}
	if price == nil {
		price = rec.Price
	}

	if price == nil {
		p.UnitPrice = defaultPrice
		p.BillingUnit = "HOUR"
		p.MetricName = "Hour"
		return p, nil
	}
	if price.IsNegative() {
		return models.Pricing{}, ErrNegativePrice
	}
	p.UnitPrice = *price
	return p, nil
}

// pricingObject reads the pricing field, which may be an object or a list of objects.
func pricingObject(raw json.RawMessage) (remotePricing, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return remotePricing{}, false
	}
	var obj remotePricing
	if raw[0] == '[' {
		var list []remotePricing
		if err := json.Unmarshal(raw, &list); err != nil || len(list) == 0 {
			return remotePricing{}, false
		}
		return list[0], true
	}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return remotePricing{}, false
	}
	return obj, true
}

// billingUnitFor derives an upper-snake billing unit from a metric name.
func billingUnitFor(metric string) string {
	m := strings.ToLower(metric)
	switch {
	case strings.Contains(m, "ocpu") && strings.Contains(m, "hour"):
		return "OCPU_HOUR"
	case strings.Contains(m, "gb") && strings.Contains(m, "month"):
		return "GB_MONTH"
	case strings.Contains(m, "gb") && strings.Contains(m, "hour"):
		return "GB_HOUR"
	case strings.Contains(m, "month"):
		return "MONTH"
	case strings.Contains(m, "hour"):
		return "HOUR"
	}
	return strings.ToUpper(strings.Join(strings.Fields(metric), "_"))
}

func enrich(svc *models.CatalogService, tax *taxonomy.Taxonomy) {
	key := tax.CategoryFor(svc.Category)
	family := tax.ProductFor(key, svc.DisplayName)
	if family == "" {
		return
	}
	svc.ProductFamily = family
	product, ok := tax.Product(family)
	if !ok {
		return
	}
	if svc.BusinessDescription == "" {
		svc.BusinessDescription = product.Value
	}
	if svc.SKUType == "" && len(product.SKUTypes) > 0 {
		svc.SKUType = product.SKUTypes[0]
	}
	if svc.LicensingModel == "" {
		svc.LicensingModel = tax.LicensingFor(svc.DisplayName)
	}
}
