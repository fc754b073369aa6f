// internal/workers/catalog/match-services/handler.go
package matchservices

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"oci-bom-generator/internal/compliance"
	"oci-bom-generator/internal/models"
	"oci-bom-generator/internal/taxonomy"
)

const (
	TaskType = "match-services"
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
	engine   *compliance.Engine
	logger   Logger
}

func NewHandler(config *Config, tax *taxonomy.Taxonomy, engine *compliance.Engine, log Logger) *Handler {
	return &Handler{
		config:   config,
		taxonomy: tax,
		engine:   engine,
		logger: log.With(map[string]interface{}{
			"taskType": TaskType,
		}),
	}
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	filter := h.Filter(input.Services, input.Intent.Constraints)
	matched := h.Match(input.Services, input.Intent)

	h.logger.Info("services matched", map[string]interface{}{
		"catalog":  len(input.Services),
		"included": len(filter.Included),
		"excluded": len(filter.Excluded),
		"matched":  len(matched),
	})

	return &Output{Matched: matched, Filter: filter}, nil
}

// Filter partitions services by the hard constraints alone.
func (h *Handler) Filter(services []models.CatalogService, cs models.ConstraintSet) models.FilterResult {
	res := models.FilterResult{
		Included: []models.CatalogService{},
		Excluded: []models.ServiceRejection{},
	}
	for _, s := range services {
		outcome := h.engine.Evaluate(compliance.ViewOf(s), cs)
		if outcome.Allowed {
			res.Included = append(res.Included, s)
			continue
		}
		res.Excluded = append(res.Excluded, models.ServiceRejection{Service: s, Reason: outcome.Reason()})
	}
	return res
}

type scored struct {
	models.MatchedService
	category string
	relevant bool
}

// Match scores, ranks and caps services. Every requested category keeps its
// best hard-eligible service even when the cap or score threshold would drop it.
func (h *Handler) Match(services []models.CatalogService, intent models.BusinessIntent) []models.MatchedService {
	cs := intent.Constraints

	eligible := make([]models.CatalogService, 0, len(services))
	outcomes := make(map[string]compliance.Outcome, len(services))
	for _, s := range services {
		outcome := h.engine.Evaluate(compliance.ViewOf(s), cs)
		if !outcome.Allowed {
			continue
		}
		eligible = append(eligible, s)
		outcomes[s.Identifier] = outcome
	}
	soleSurvivor := cs.HasHardConstraints() && len(eligible) == 1
	gateOnRelevance := len(intent.Categories) > 0 || len(intent.Products) > 0 || len(cs.SpecificIdentifiers) > 0

	candidates := make([]scored, 0, len(eligible))
	for _, s := range eligible {
		c := h.score(s, intent, soleSurvivor)
		if c.MatchScore <= 0 || (gateOnRelevance && !c.relevant) {
			continue
		}
		c.Justification = justify(s, outcomes[s.Identifier])
		candidates = append(candidates, c)
	}
	sortScored(candidates)

	limit := h.config.MaxResults
	if limit <= 0 {
		limit = len(candidates)
	}

	picked := make(map[string]bool)
	result := make([]scored, 0, limit)
	for _, cat := range intent.Categories {
		for _, c := range candidates {
			if c.category == cat && !picked[c.Identifier] {
				picked[c.Identifier] = true
				result = append(result, c)
				break
			}
		}
	}
	for _, c := range candidates {
		if len(result) >= limit {
			break
		}
		if picked[c.Identifier] || c.MatchScore < h.config.MinScore {
			continue
		}
		picked[c.Identifier] = true
		result = append(result, c)
	}
	sortScored(result)

	out := make([]models.MatchedService, 0, len(result))
	for _, c := range result {
		out = append(out, c.MatchedService)
	}
	return out
}

func (h *Handler) score(s models.CatalogService, intent models.BusinessIntent, soleSurvivor bool) scored {
	cfg := h.config
	category := h.taxonomy.CategoryFor(s.Category)
	family := s.ProductFamily
	if family == "" {
		family = h.taxonomy.ProductFor(category, s.DisplayName)
	}

	raw := 0.0
	reasons := []string{}
	relevant := false

	if category != "" && intent.HasCategory(category) {
		raw += cfg.CategoryWeight
		reasons = append(reasons, "category match: "+category)
		relevant = true
	}
	if family != "" && intent.HasProduct(family) {
		raw += cfg.ProductWeight
		reasons = append(reasons, "product family match: "+family)
		relevant = true
	}
	if _, ok := intent.Constraints.PinnedIdentifiers()[strings.ToUpper(s.Identifier)]; ok {
		raw += cfg.PinWeight
		reasons = append(reasons, "explicitly requested identifier")
		relevant = true
	}
	if intent.TierPreference != "" && s.Tier == intent.TierPreference {
		raw += cfg.TierWeight
		reasons = append(reasons, "tier match: "+string(s.Tier))
	}
	if intent.LicensingPreference != "" && s.LicensingModel == intent.LicensingPreference {
		raw += cfg.LicensingWeight
		reasons = append(reasons, "licensing match: "+string(s.LicensingModel))
	}
	if intent.TierPreference == models.TierStandard && s.Tier == models.TierEnterprise {
		if soleSurvivor {
			reasons = append(reasons, "enterprise tier kept: only service meeting the constraints")
		} else {
			raw *= cfg.EnterprisePenalty
			reasons = append(reasons, "enterprise tier penalized for standard preference")
		}
	}

	normalized := raw / cfg.MaxRawScore
	if normalized > 1 {
		normalized = 1
	}
	if normalized < 0 {
		normalized = 0
	}

	return scored{
		MatchedService: models.MatchedService{
			CatalogService: s,
			MatchScore:     normalized,
			MatchReasons:   reasons,
		},
		category: category,
		relevant: relevant,
	}
}

func justify(s models.CatalogService, outcome compliance.Outcome) string {
	parts := []string{}
	if s.BusinessDescription != "" {
		parts = append(parts, s.BusinessDescription)
	}
	if s.UseCase != "" {
		parts = append(parts, "use case: "+s.UseCase)
	}
	if len(outcome.Satisfied) > 0 {
		quoted := make([]string, len(outcome.Satisfied))
		for i, p := range outcome.Satisfied {
			quoted[i] = fmt.Sprintf("%q", p)
		}
		parts = append(parts, "meets "+strings.Join(quoted, ", "))
	}
	return strings.Join(parts, "; ")
}

func sortScored(list []scored) {
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].MatchScore != list[j].MatchScore {
			return list[i].MatchScore > list[j].MatchScore
		}
		return list[i].Identifier < list[j].Identifier
	})
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
