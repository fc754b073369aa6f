// internal/workers/bom/generate-draft/prompt.go
package generatedraft

import (
	"encoding/json"
	"fmt"
	"strings"

	"oci-bom-generator/internal/models"
)

const systemInstruction = `You are an Oracle Cloud Infrastructure solutions architect.
Create a bill of materials from the requirements summary and the listed services.

QUANTITY RULES:
- HOURLY services (OCPU hour, memory GB hour): quantity is the number of resources, e.g. 4 OCPUs.
- MONTHLY services (storage GB month, bandwidth): quantity is the total amount per month, e.g. 200 GB.
- Never multiply hourly quantities by hours. 2 servers with 2 OCPUs each running 24/7 is quantity 4.

SERVICE RULES:
- Use only the part numbers listed under Available OCI Services, with their exact prices.
- Do not add services that are not listed.

OUTPUT RULES:
- Respond with ONLY one JSON object. No prose, no markdown, no code fences.
- Use double quotes for every key and string. No trailing commas. Numbers are not quoted.
- Format:
{"items":[{"partNumber":"B88317","description":"Compute - Standard - E4 - OCPU","quantity":4,"metric":"OCPU Per Hour","unitPrice":0.025,"category":"Compute","notes":"2 servers x 2 OCPUs"}]}`

// promptSummary is the intent as the model sees it.
type promptSummary struct {
	Categories        []string `json:"categories"`
	Products          []string `json:"products,omitempty"`
	Tier              string   `json:"tier,omitempty"`
	Licensing         string   `json:"licensing,omitempty"`
	Optimize          string   `json:"optimize,omitempty"`
	UserCount         int      `json:"userCount,omitempty"`
	Sizing            string   `json:"sizing,omitempty"`
	Requirements      []string `json:"requirements,omitempty"`
	Exclusions        []string `json:"exclusions,omitempty"`
	PinnedIdentifiers []string `json:"pinnedIdentifiers,omitempty"`
}

func summarize(intent models.BusinessIntent) promptSummary {
	s := promptSummary{
		Categories: intent.Categories,
		Products:   intent.Products,
		Tier:       string(intent.TierPreference),
		Licensing:  string(intent.LicensingPreference),
		Optimize:   string(intent.Optimize),
		UserCount:  intent.UserCount,
		Sizing:     string(intent.Sizing),
	}
	if s.Categories == nil {
		s.Categories = []string{}
	}
	for _, r := range intent.Constraints.Restrictive {
		s.Requirements = append(s.Requirements, r.RawPhrase)
	}
	for _, e := range intent.Constraints.Exclusions {
		s.Exclusions = append(s.Exclusions, e.RawPhrase)
	}
	for _, p := range intent.Constraints.SpecificIdentifiers {
		s.PinnedIdentifiers = append(s.PinnedIdentifiers, p.Identifier)
	}
	return s
}

// candidates returns the first n matched services. Matched is already ranked.
func candidates(matched []models.MatchedService, n int) []models.MatchedService {
	if n <= 0 || len(matched) <= n {
		return matched
	}
	return matched[:n]
}

// BuildPrompt renders the user prompt for a draft request.
func BuildPrompt(intent models.BusinessIntent, listed []models.MatchedService) (string, error) {
	summary, err := json.Marshal(summarize(intent))
	if err != nil {
		return "", fmt.Errorf("failed to encode requirements summary: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Requirements Summary: %s\n\n", summary)
	fmt.Fprintf(&b, "Available OCI Services (%d services):\n", len(listed))
	for _, s := range listed {
		fmt.Fprintf(&b, "- %s: %s (%s) - Metric: %s - Price: %s %s/%s\n",
			s.Identifier, s.DisplayName, s.Category,
			s.Pricing.MetricName, s.Pricing.UnitPrice.String(), s.Pricing.Currency, s.Pricing.BillingUnit)
	}
	b.WriteString("\nCreate a detailed BOM with realistic quantities for these requirements.")
	return b.String(), nil
}

// EstimateTokens approximates the token count as one token per four characters.
func EstimateTokens(parts ...string) int {
	n := 0
	for _, p := range parts {
		n += len(p)
	}
	return (n + 3) / 4
}
