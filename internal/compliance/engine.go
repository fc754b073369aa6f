// internal/compliance/engine.go
package compliance

import (
	"fmt"
	"sort"
	"strings"

	"oci-bom-generator/internal/models"
	"oci-bom-generator/internal/taxonomy"
)

// ServiceView is the text a constraint is checked against. The matcher builds it
// from a catalog entry and the validator from a generated line item.
type ServiceView struct {
	Identifier string
	Name       string
	Category   string
	SKUType    string
}

func ViewOf(s models.CatalogService) ServiceView {
	return ServiceView{Identifier: s.Identifier, Name: s.DisplayName, Category: s.Category, SKUType: s.SKUType}
}

func ViewOfItem(item models.BOMLineItem) ServiceView {
	return ServiceView{Identifier: item.Identifier, Name: item.Description, Category: item.Category, SKUType: item.SKUType}
}

// Outcome is the verdict of every hard rule against one view.
type Outcome struct {
	Allowed    bool
	Satisfied  []string
	Violations []string
}

// Reason joins the violations into one message.
func (o Outcome) Reason() string {
	return strings.Join(o.Violations, "; ")
}

// Engine applies identifier pins, exclusions and restrictive constraints.
// The matcher and the validator share one engine so both reach the same verdict.
type Engine struct {
	tax *taxonomy.Taxonomy
}

func NewEngine(tax *taxonomy.Taxonomy) *Engine {
	return &Engine{tax: tax}
}

// Evaluate checks a view against every hard constraint. Restrictive constraints are
// conjunctive: each one must overlap the view.
func (e *Engine) Evaluate(view ServiceView, cs models.ConstraintSet) Outcome {
	out := Outcome{Allowed: true}
	if !cs.HasHardConstraints() {
		return out
	}

	terms := e.viewTerms(view)

	if pins := cs.PinnedIdentifiers(); len(pins) > 0 {
		phrases := make([]string, 0, len(cs.SpecificIdentifiers))
		for _, pin := range cs.SpecificIdentifiers {
			phrases = append(phrases, fmt.Sprintf("%q", pin.RawPhrase))
		}
		if _, ok := pins[strings.ToUpper(strings.TrimSpace(view.Identifier))]; ok {
			out.Satisfied = append(out.Satisfied, pinPhrases(cs, view.Identifier)...)
		} else {
			out.Violations = append(out.Violations, fmt.Sprintf("identifier %s is outside the pinned set %s",
				view.Identifier, strings.Join(phrases, ", ")))
		}
	}

	for _, excl := range cs.Exclusions {
		hits := e.overlap(excl.Keywords, terms)
		if len(hits) > 0 {
			out.Violations = append(out.Violations, fmt.Sprintf("matches exclusion %q (%s)", excl.RawPhrase, strings.Join(hits, ", ")))
			continue
		}
		out.Satisfied = append(out.Satisfied, excl.RawPhrase)
	}

	for _, restr := range cs.Restrictive {
		if len(e.overlap(restr.Keywords, terms)) == 0 {
			out.Violations = append(out.Violations, fmt.Sprintf("does not satisfy restriction %q", restr.RawPhrase))
			continue
		}
		out.Satisfied = append(out.Satisfied, restr.RawPhrase)
	}

	out.Allowed = len(out.Violations) == 0
	return out
}

// EvaluateItem checks a line item and, when entry is non-nil, the catalog entry
// the item names. The item is rejected if either view fails, so a line item
// never passes a rule its catalog entry failed.
func (e *Engine) EvaluateItem(item models.BOMLineItem, entry *models.CatalogService, cs models.ConstraintSet) Outcome {
	out := e.Evaluate(ViewOfItem(item), cs)
	if entry == nil {
		return out
	}
	listed := e.Evaluate(ViewOf(*entry), cs)
	if listed.Allowed {
		return out
	}
	seen := make(map[string]struct{}, len(out.Violations))
	for _, v := range out.Violations {
		seen[v] = struct{}{}
	}
	for _, v := range listed.Violations {
		if _, dup := seen[v]; !dup {
			out.Violations = append(out.Violations, v)
		}
	}
	out.Allowed = false
	return out
}

func pinPhrases(cs models.ConstraintSet, identifier string) []string {
	id := strings.ToUpper(strings.TrimSpace(identifier))
	var out []string
	for _, pin := range cs.SpecificIdentifiers {
		if pin.Identifier == id {
			out = append(out, pin.RawPhrase)
		}
	}
	return out
}

// viewTerms is the stemmed token set of name, category, identifier and sku type.
func (e *Engine) viewTerms(view ServiceView) map[string]struct{} {
	text := strings.Join([]string{view.Name, view.Category, view.Identifier, view.SKUType}, " ")
	terms := map[string]struct{}{}
	for _, tok := range taxonomy.Tokenize(text) {
		terms[taxonomy.Stem(tok)] = struct{}{}
	}
	return terms
}

// overlap returns the keywords that occur in terms directly or through a synonym.
func (e *Engine) overlap(keywords []string, terms map[string]struct{}) []string {
	var hits []string
	for _, kw := range keywords {
		if e.matches(kw, terms) {
			hits = append(hits, kw)
		}
	}
	sort.Strings(hits)
	return hits
}

func (e *Engine) matches(keyword string, terms map[string]struct{}) bool {
	stem := taxonomy.Stem(keyword)
	if _, ok := terms[stem]; ok {
		return true
	}
	candidates := e.tax.Synonyms(stem)
	if stem != keyword {
		candidates = append(append([]string(nil), candidates...), e.tax.Synonyms(keyword)...)
	}
	for _, syn := range candidates {
		if _, ok := terms[taxonomy.Stem(syn)]; ok {
			return true
		}
	}
	return false
}
