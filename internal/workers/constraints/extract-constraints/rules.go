// internal/workers/constraints/extract-constraints/rules.go
package extractconstraints

import (
	"regexp"

	"oci-bom-generator/internal/models"
)

// Rule is one row of the extraction table. Group selects the capture that holds
// the clause or identifier.
type Rule struct {
	Name    string
	Kind    models.ConstraintKind
	Pattern *regexp.Regexp
	Group   int
	// SkipPrefixes discards captures that start with one of these strings.
	SkipPrefixes []string
	// RequireDigit discards identifier captures without a digit.
	RequireDigit bool
}

// clause captures up to the next sentence boundary.
const clause = `([^.!?;\n]+)`

func DefaultRules() []Rule {
	return []Rule{
		// ===== RESTRICTIVE =====
		{Name: "only", Kind: models.ConstraintRestrictive, Group: 1,
			Pattern: regexp.MustCompile(`\bonly\s+(?:consider|use|include|allow|want|need)?\s*` + clause)},
		{Name: "exclusively", Kind: models.ConstraintRestrictive, Group: 1,
			Pattern: regexp.MustCompile(`\bexclusively\s+` + clause)},
		{Name: "specifically", Kind: models.ConstraintRestrictive, Group: 1,
			Pattern: regexp.MustCompile(`\bspecifically\s+` + clause)},
		{Name: "solely", Kind: models.ConstraintRestrictive, Group: 1,
			Pattern: regexp.MustCompile(`\bsolely\s+` + clause)},
		// The verb is required: "must support 500 users" is sizing, not a restriction.
		{Name: "must", Kind: models.ConstraintRestrictive, Group: 1,
			Pattern: regexp.MustCompile(`\bmust\s+(?:be|use|include|have)\s+` + clause)},
		{Name: "required", Kind: models.ConstraintRestrictive, Group: 1,
			Pattern: regexp.MustCompile(`\brequired\s*:\s*` + clause)},
		{Name: "constraint", Kind: models.ConstraintRestrictive, Group: 1,
			Pattern: regexp.MustCompile(`\bconstraints?\s*:\s*` + clause)},
		{Name: "limitation", Kind: models.ConstraintRestrictive, Group: 1,
			Pattern: regexp.MustCompile(`\blimitations?\s*:\s*` + clause)},

		// ===== EXCLUSION =====
		{Name: "do-not", Kind: models.ConstraintExclusion, Group: 1,
			Pattern: regexp.MustCompile(`\bdo\s+not\s+(?:include|add|consider|use|allow|want|need)?\s*` + clause)},
		{Name: "dont", Kind: models.ConstraintExclusion, Group: 1,
			Pattern: regexp.MustCompile(`\bdon'?t\s+(?:include|add|consider|use|allow|want|need)?\s*` + clause)},
		{Name: "must-not", Kind: models.ConstraintExclusion, Group: 1,
			Pattern: regexp.MustCompile(`\bmust\s+(?:not|never)\s+(?:be\s+|use\s+|include\s+|have\s+)?` + clause)},
		{Name: "exclude", Kind: models.ConstraintExclusion, Group: 1,
			Pattern: regexp.MustCompile(`\bexclud(?:e|ing)\s+` + clause)},
		{Name: "avoid", Kind: models.ConstraintExclusion, Group: 1,
			Pattern: regexp.MustCompile(`\bavoid(?:ing)?\s+` + clause)},
		{Name: "without", Kind: models.ConstraintExclusion, Group: 1,
			Pattern: regexp.MustCompile(`\bwithout\s+` + clause)},
		{Name: "no", Kind: models.ConstraintExclusion, Group: 1,
			Pattern:      regexp.MustCompile(`\bno\s+([a-z][^.!?;\n]*)`),
			SkipPrefixes: []string{"license ", "licenses ", "new license", "existing license"}},

		// ===== SPECIFIC IDENTIFIER =====
		{Name: "labeled-identifier", Kind: models.ConstraintIdentifier, Group: 1, RequireDigit: true,
			Pattern: regexp.MustCompile(`\b(?:sku|part\s*number|part\s*no\.?|service\s*code|product\s*code)\s*[:#]?\s*([a-z0-9][a-z0-9_-]*)`)},
		{Name: "model-identifier", Kind: models.ConstraintIdentifier, Group: 1, RequireDigit: true,
			Pattern: regexp.MustCompile(`\bmodel\s*:\s*([a-z0-9][a-z0-9_-]*)`)},
		{Name: "bare-identifier", Kind: models.ConstraintIdentifier, Group: 1,
			Pattern: regexp.MustCompile(`\b([a-z]\d{5,})\b`)},
	}
}

// DefaultStopWords lists articles, conjunctions and generic verbs that carry no
// service signal.
func DefaultStopWords() []string {
	return []string{
		"a", "an", "the", "and", "or", "but", "nor", "of", "for", "to", "in", "on", "at", "by", "with",
		"from", "as", "into", "is", "are", "be", "been", "being", "was", "were", "any", "all", "some",
		"this", "that", "these", "those", "it", "its", "we", "our", "us", "i", "me", "my", "you", "your",
		"they", "them", "their", "will", "would", "should", "could", "can", "may", "might", "must",
		"do", "does", "did", "not", "no", "only", "just", "also", "please", "use", "using", "used",
		"include", "including", "includes", "consider", "considering", "allow", "allowed", "add",
		"want", "need", "needs", "needed", "require", "requires", "required", "service", "services",
		"option", "options", "type", "types", "kind", "other", "etc", "like", "such", "via", "per",
		"each", "every", "more", "most", "less", "very", "so", "too", "then", "than", "there", "here",
		"what", "which", "who", "make", "sure", "get", "have", "has", "had", "based", "any", "either",
		"solution", "solutions", "oracle", "oci",
	}
}
