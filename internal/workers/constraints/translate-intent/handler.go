// internal/workers/constraints/translate-intent/handler.go
package translateintent

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"oci-bom-generator/internal/models"
	"oci-bom-generator/internal/taxonomy"
)

const (
	TaskType = "translate-intent"
)

type Logger interface {
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
	With(fields map[string]interface{}) Logger
}

type Handler struct {
	config   *Config
	taxonomy *taxonomy.Taxonomy
	logger   Logger
}

func NewHandler(config *Config, tax *taxonomy.Taxonomy, log Logger) *Handler {
	return &Handler{
		config:   config,
		taxonomy: tax,
		logger: log.With(map[string]interface{}{
			"taskType": TaskType,
		}),
	}
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	intent := h.Translate(input.Text, input.Constraints)
	summary := Summarize(intent)

	h.logger.Info("intent translated", map[string]interface{}{
		"categories": intent.Categories,
		"products":   intent.Products,
		"tier":       string(intent.TierPreference),
		"licensing":  string(intent.LicensingPreference),
		"sizing":     string(intent.Sizing),
	})

	return &Output{Intent: intent, Summary: summary}, nil
}

// Translate maps text and constraints onto the taxonomy. It is a pure function.
func (h *Handler) Translate(text string, cs models.ConstraintSet) models.BusinessIntent {
	lower := strings.ToLower(strings.NewReplacer("’", "'", "‘", "'").Replace(text))
	if h.config.IgnoreExcludedPhrases {
		for _, excl := range cs.Exclusions {
			lower = strings.ReplaceAll(lower, excl.RawPhrase, " ")
		}
	}

	categories := map[string]struct{}{}
	products := map[string]struct{}{}
	for _, hit := range h.taxonomy.MatchProducts(lower) {
		categories[hit.Category] = struct{}{}
		products[hit.Product] = struct{}{}
	}
	for _, key := range h.taxonomy.MatchCategoryTerms(lower) {
		categories[key] = struct{}{}
	}

	prefs := h.taxonomy.ResolvePreferences(lower)
	declared := cs.BusinessPreferences

	intent := models.BusinessIntent{
		Categories:          sortedKeys(categories),
		Products:            sortedKeys(products),
		TierPreference:      firstNonEmpty(prefs.Tier, declared.Tier),
		LicensingPreference: firstNonEmpty(prefs.Licensing, declared.Licensing),
		Optimize:            firstNonEmpty(prefs.Optimize, declared.Optimize),
		UserCount:           prefs.UserCount,
		Constraints:         cs,
	}
	if intent.UserCount == 0 {
		intent.UserCount = declared.UserCount
	}
	if intent.UserCount > 0 {
		intent.Sizing = h.taxonomy.SizingFor(intent.UserCount)
	}
	return intent
}

// Summarize describes how the constraints and preferences will shape the BOM.
func Summarize(intent models.BusinessIntent) models.ConstraintSummary {
	cs := intent.Constraints
	summary := models.ConstraintSummary{
		Requirements:           []string{},
		Exclusions:             []string{},
		PinnedIdentifiers:      []string{},
		PreferenceImplications: []string{},
	}
	for _, r := range cs.Restrictive {
		summary.Requirements = append(summary.Requirements, r.RawPhrase)
	}
	for _, e := range cs.Exclusions {
		summary.Exclusions = append(summary.Exclusions, e.RawPhrase)
	}
	seen := map[string]bool{}
	for _, pin := range cs.SpecificIdentifiers {
		if !seen[pin.Identifier] {
			seen[pin.Identifier] = true
			summary.PinnedIdentifiers = append(summary.PinnedIdentifiers, pin.Identifier)
		}
	}

	switch intent.TierPreference {
	case models.TierStandard:
		summary.PreferenceImplications = append(summary.PreferenceImplications,
			"standard tier preferred: enterprise services are down-weighted")
	case models.TierEnterprise:
		summary.PreferenceImplications = append(summary.PreferenceImplications,
			"enterprise tier preferred: premium services rank higher")
	}
	switch intent.LicensingPreference {
	case models.LicensingBYOL:
		summary.PreferenceImplications = append(summary.PreferenceImplications,
			"existing licenses: bring-your-own-license services preferred")
	case models.LicensingLicenseIncluded:
		summary.PreferenceImplications = append(summary.PreferenceImplications,
			"no existing licenses: license-included services preferred")
	}
	if intent.Optimize != "" {
		summary.PreferenceImplications = append(summary.PreferenceImplications,
			fmt.Sprintf("optimize for %s", intent.Optimize))
	}
	switch {
	case intent.UserCount > 0 && intent.Sizing != "":
		summary.PreferenceImplications = append(summary.PreferenceImplications,
			fmt.Sprintf("sized for %d users (%s)", intent.UserCount, intent.Sizing))
	case intent.UserCount > 0:
		summary.PreferenceImplications = append(summary.PreferenceImplications,
			fmt.Sprintf("sized for %d users", intent.UserCount))
	}
	return summary
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func firstNonEmpty[T ~string](values ...T) T {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
