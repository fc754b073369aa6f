// internal/workers/constraints/extract-constraints/handler.go
package extractconstraints

import (
	"context"
	"sort"
	"strings"

	"oci-bom-generator/internal/models"
	"oci-bom-generator/internal/taxonomy"
)

const (
	TaskType = "extract-constraints"
)

type Logger interface {
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
	With(fields map[string]interface{}) Logger
}

type Handler struct {
	config    *Config
	taxonomy  *taxonomy.Taxonomy
	stopWords map[string]struct{}
	logger    Logger
}

func NewHandler(config *Config, tax *taxonomy.Taxonomy, log Logger) *Handler {
	stop := make(map[string]struct{}, len(config.StopWords))
	for _, w := range config.StopWords {
		stop[strings.ToLower(w)] = struct{}{}
	}
	return &Handler{
		config:    config,
		taxonomy:  tax,
		stopWords: stop,
		logger: log.With(map[string]interface{}{
			"taskType": TaskType,
		}),
	}
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	cs := h.Extract(input.Text)

	h.logger.Info("constraints extracted", map[string]interface{}{
		"restrictive": len(cs.Restrictive),
		"exclusions":  len(cs.Exclusions),
		"identifiers": len(cs.SpecificIdentifiers),
		"tier":        string(cs.BusinessPreferences.Tier),
		"licensing":   string(cs.BusinessPreferences.Licensing),
		"userCount":   cs.BusinessPreferences.UserCount,
	})

	return &Output{Constraints: cs}, nil
}

// Extract runs the rule table over text. It never fails; text without
// constraint language yields a pass-through set.
func (h *Handler) Extract(text string) models.ConstraintSet {
	normalized := normalize(text)
	cs := models.ConstraintSet{
		Restrictive:         []models.KeywordConstraint{},
		Exclusions:          []models.KeywordConstraint{},
		SpecificIdentifiers: []models.IdentifierPin{},
	}

	for _, rule := range h.config.Rules {
		for _, m := range rule.Pattern.FindAllStringSubmatchIndex(normalized, -1) {
			if len(m) < 2*(rule.Group+1) || m[2*rule.Group] < 0 {
				continue
			}
			raw := strings.TrimSpace(normalized[m[0]:m[1]])
			capture := strings.TrimSpace(normalized[m[2*rule.Group]:m[2*rule.Group+1]])
			if skipCapture(rule, capture) {
				continue
			}

			switch rule.Kind {
			case models.ConstraintIdentifier:
				if rule.RequireDigit && !strings.ContainsAny(capture, "0123456789") {
					continue
				}
				cs.SpecificIdentifiers = append(cs.SpecificIdentifiers, models.IdentifierPin{
					RawPhrase:  raw,
					Identifier: strings.ToUpper(capture),
				})
			case models.ConstraintRestrictive, models.ConstraintExclusion:
				keywords := h.keywords(capture)
				if len(keywords) == 0 {
					continue
				}
				kc := models.KeywordConstraint{RawPhrase: raw, Keywords: keywords}
				if rule.Kind == models.ConstraintRestrictive {
					cs.Restrictive = append(cs.Restrictive, kc)
				} else {
					cs.Exclusions = append(cs.Exclusions, kc)
				}
			}
		}
	}

	if h.taxonomy != nil {
		cs.BusinessPreferences = h.taxonomy.ResolvePreferences(normalized)
	}
	return cs
}

// keywords reduces a clause to its unique, sorted, meaningful tokens.
func (h *Handler) keywords(clause string) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, tok := range taxonomy.Tokenize(clause) {
		if len(tok) < h.config.MinKeywordLength {
			continue
		}
		if _, stop := h.stopWords[tok]; stop {
			continue
		}
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		out = append(out, tok)
	}
	sort.Strings(out)
	return out
}

func skipCapture(rule Rule, capture string) bool {
	for _, p := range rule.SkipPrefixes {
		if strings.HasPrefix(capture+" ", p) {
			return true
		}
	}
	return false
}

func normalize(text string) string {
	r := strings.NewReplacer("’", "'", "‘", "'", "\r\n", "\n", "\r", "\n")
	return strings.ToLower(r.Replace(text))
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
