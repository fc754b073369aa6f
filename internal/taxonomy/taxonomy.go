// internal/taxonomy/taxonomy.go
package taxonomy

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"

	"oci-bom-generator/internal/models"
)

// Product is one product family inside a category.
type Product struct {
	Key      string
	Patterns []string
	SKUTypes []string
	Value    string
}

// Category groups product families and the customer terms that imply the category.
type Category struct {
	Key          string
	CatalogNames []string
	Terms        []string
	Products     []Product
}

// PreferenceRule maps customer phrases onto tier, optimization and licensing preferences.
type PreferenceRule struct {
	Phrases   []string
	Tier      models.Tier
	Optimize  models.Optimization
	Licensing models.LicensingModel
}

// SizingRange assigns a sizing profile to an inclusive user-count range.
type SizingRange struct {
	Min, Max int
	Profile  models.SizingProfile
}

// Taxonomy is immutable once built. All lookups are safe for concurrent use.
type Taxonomy struct {
	categories  []Category
	preferences []PreferenceRule
	licensing   map[models.LicensingModel][]string
	terminology map[string][]string
	sizing      []SizingRange

	matchers map[string]*regexp.Regexp
}

// ProductHit records that a product pattern occurred in some text.
type ProductHit struct {
	Category string
	Product  string
	Pattern  string
}

// New builds a taxonomy and compiles every phrase it will search for.
func New(categories []Category, preferences []PreferenceRule, licensing map[models.LicensingModel][]string,
	terminology map[string][]string, sizing []SizingRange) *Taxonomy {
	t := &Taxonomy{
		categories:  append([]Category(nil), categories...),
		preferences: append([]PreferenceRule(nil), preferences...),
		licensing:   licensing,
		terminology: terminology,
		sizing:      append([]SizingRange(nil), sizing...),
		matchers:    map[string]*regexp.Regexp{},
	}
	sort.Slice(t.categories, func(i, j int) bool { return t.categories[i].Key < t.categories[j].Key })

	for _, c := range t.categories {
		t.compile(c.Terms...)
		for _, p := range c.Products {
			t.compile(p.Patterns...)
		}
	}
	for _, p := range t.preferences {
		t.compile(p.Phrases...)
	}
	for _, phrases := range t.licensing {
		t.compile(phrases...)
	}
	return t
}

func (t *Taxonomy) compile(phrases ...string) {
	for _, p := range phrases {
		if _, ok := t.matchers[p]; ok {
			continue
		}
		t.matchers[p] = regexp.MustCompile(`\b` + regexp.QuoteMeta(p) + `(?:s|es)?\b`)
	}
}

// Contains reports whether phrase occurs in lower-cased text as a whole word,
// optionally pluralised.
func (t *Taxonomy) Contains(text, phrase string) bool {
	re, ok := t.matchers[phrase]
	if !ok {
		re = regexp.MustCompile(`\b` + regexp.QuoteMeta(phrase) + `(?:s|es)?\b`)
	}
	return re.MatchString(text)
}

var (
	defaultOnce sync.Once
	defaultTax  *Taxonomy
)

// Default returns the OCI taxonomy, built once.
func Default() *Taxonomy {
	defaultOnce.Do(func() {
		defaultTax = New(defaultCategories, defaultPreferences, defaultLicensing, defaultTerminology, defaultSizing)
	})
	return defaultTax
}

func (t *Taxonomy) Categories() []Category {
	return append([]Category(nil), t.categories...)
}

func (t *Taxonomy) CategoryKeys() []string {
	keys := make([]string, 0, len(t.categories))
	for _, c := range t.categories {
		keys = append(keys, c.Key)
	}
	return keys
}

func (t *Taxonomy) PreferenceRules() []PreferenceRule {
	return append([]PreferenceRule(nil), t.preferences...)
}

var userCountPattern = regexp.MustCompile(`(\d[\d,]*)\s*\+?\s*(?:users|people|employees|concurrent)\b`)

// ResolvePreferences applies the preference phrase table to text. For each
// dimension the first matching rule wins.
func (t *Taxonomy) ResolvePreferences(text string) models.BusinessPreferences {
	lower := strings.ToLower(text)
	var prefs models.BusinessPreferences
	for _, rule := range t.preferences {
		matched := false
		for _, phrase := range rule.Phrases {
			if t.Contains(lower, phrase) {
				matched = true
				break
			}
		}
		if !matched {
			continue
		}
		if rule.Tier != "" && prefs.Tier == "" {
			prefs.Tier = rule.Tier
		}
		if rule.Optimize != "" && prefs.Optimize == "" {
			prefs.Optimize = rule.Optimize
		}
		if rule.Licensing != "" && prefs.Licensing == "" {
			prefs.Licensing = rule.Licensing
		}
	}
	if m := userCountPattern.FindStringSubmatch(lower); m != nil {
		if n, err := strconv.Atoi(strings.ReplaceAll(m[1], ",", "")); err == nil {
			prefs.UserCount = n
		}
	}
	return prefs
}

// CategoryFor maps a catalog category label such as "Block Storage" onto a taxonomy key.
func (t *Taxonomy) CategoryFor(serviceCategory string) string {
	label := strings.ToLower(strings.TrimSpace(serviceCategory))
	if label == "" {
		return ""
	}
	for _, c := range t.categories {
		if label == c.Key {
			return c.Key
		}
		for _, name := range c.CatalogNames {
			if label == name {
				return c.Key
			}
		}
	}
	for _, c := range t.categories {
		for _, name := range c.CatalogNames {
			if strings.Contains(label, name) {
				return c.Key
			}
		}
	}
	return ""
}

// ProductFor finds the product family of a service from its display name.
// Products are declared generic first, so the search runs from the most specific.
func (t *Taxonomy) ProductFor(categoryKey, displayName string) string {
	name := strings.ToLower(displayName)
	for _, c := range t.categories {
		if categoryKey != "" && c.Key != categoryKey {
			continue
		}
		for i := len(c.Products) - 1; i >= 0; i-- {
			p := c.Products[i]
			for _, pattern := range p.Patterns {
				if t.Contains(name, pattern) {
					return p.Key
				}
			}
		}
	}
	return ""
}

// Product looks up a product family by key.
func (t *Taxonomy) Product(productKey string) (Product, bool) {
	for _, c := range t.categories {
		for _, p := range c.Products {
			if p.Key == productKey {
				return p, true
			}
		}
	}
	return Product{}, false
}

// MatchProducts returns every product whose pattern occurs in text, in taxonomy order.
func (t *Taxonomy) MatchProducts(text string) []ProductHit {
	lower := strings.ToLower(text)
	var hits []ProductHit
	for _, c := range t.categories {
		for _, p := range c.Products {
			for _, pattern := range p.Patterns {
				if t.Contains(lower, pattern) {
					hits = append(hits, ProductHit{Category: c.Key, Product: p.Key, Pattern: pattern})
					break
				}
			}
		}
	}
	return hits
}

// MatchCategoryTerms returns the categories whose customer terms occur in text.
func (t *Taxonomy) MatchCategoryTerms(text string) []string {
	lower := strings.ToLower(text)
	var keys []string
	for _, c := range t.categories {
		for _, term := range c.Terms {
			if t.Contains(lower, term) {
				keys = append(keys, c.Key)
				break
			}
		}
	}
	return keys
}

// LicensingFor infers a licensing model from a service or requirement text.
func (t *Taxonomy) LicensingFor(text string) models.LicensingModel {
	lower := strings.ToLower(text)
	for _, model := range []models.LicensingModel{models.LicensingBYOL, models.LicensingLicenseIncluded} {
		for _, phrase := range t.licensing[model] {
			if t.Contains(lower, phrase) {
				return model
			}
		}
	}
	return ""
}

// Synonyms returns catalog vocabulary equivalent to a customer term.
func (t *Taxonomy) Synonyms(term string) []string {
	return t.terminology[term]
}

// SizingFor returns the sizing profile for a user count, or "" when none applies.
func (t *Taxonomy) SizingFor(userCount int) models.SizingProfile {
	for _, r := range t.sizing {
		if userCount >= r.Min && userCount <= r.Max {
			return r.Profile
		}
	}
	return ""
}
