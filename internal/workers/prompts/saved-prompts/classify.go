// internal/workers/prompts/saved-prompts/classify.go
package savedprompts

import (
	"regexp"
	"sort"
	"strings"
)

var nameKeywords = []string{
	"web application", "database", "api", "microservices", "e-commerce",
	"analytics", "mobile app", "data warehouse", "ml", "ai", "blockchain",
	"ebs", "erp", "crm", "cms", "blog", "portal", "dashboard",
}

type keywordGroup struct {
	label    string
	keywords []string
}

var promptCategories = []keywordGroup{
	{"Web Applications", []string{"web", "website", "portal", "frontend", "backend", "api", "rest"}},
	{"E-commerce", []string{"ecommerce", "e-commerce", "shop", "store", "payment", "cart", "product"}},
	{"Enterprise Applications", []string{"erp", "crm", "ebs", "enterprise", "business", "workflow"}},
	{"Data & Analytics", []string{"data", "analytics", "warehouse", "etl", "bi", "reporting", "dashboard"}},
	{"AI & Machine Learning", []string{"ai", "ml", "machine learning", "neural", "model", "training"}},
	{"Mobile Applications", []string{"mobile", "ios", "android", "app store", "react native"}},
	{"Infrastructure", []string{"infrastructure", "server", "compute", "storage", "network", "load balancer"}},
	{"Database Systems", []string{"database", "mysql", "postgresql", "oracle", "mongodb", "redis"}},
	{"Content Management", []string{"cms", "blog", "content", "publishing", "media", "document"}},
	{"IoT & Edge", []string{"iot", "edge", "sensor", "device", "embedded", "real-time"}},
}

const defaultCategory = "General Applications"

var tagGroups = []keywordGroup{
	{"high-availability", []string{"high availability", "ha", "99.9", "uptime", "failover"}},
	{"scalable", []string{"scale", "scalable", "elastic", "auto-scaling", "growth"}},
	{"secure", []string{"security", "secure", "encryption", "ssl", "authentication"}},
	{"cloud-native", []string{"cloud", "kubernetes", "container", "microservices"}},
	{"real-time", []string{"real-time", "real time", "streaming", "instant", "live"}},
	{"global", []string{"global", "worldwide", "multi-region", "international"}},
	{"backup", []string{"backup", "disaster recovery", "dr", "snapshot"}},
	{"monitoring", []string{"monitoring", "logging", "observability", "metrics"}},
}

var wordStart = regexp.MustCompile(`\b\w`)

func titleCase(s string) string {
	return wordStart.ReplaceAllStringFunc(s, strings.ToUpper)
}

// combinedText is the lower-cased requirements plus every answer value.
func combinedText(requirements string, answers map[string]string) string {
	keys := make([]string, 0, len(answers))
	for k := range answers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := []string{requirements}
	for _, k := range keys {
		parts = append(parts, answers[k])
	}
	return strings.ToLower(strings.Join(parts, " "))
}

// GenerateName names a prompt after the first known workload keyword, or its
// first four words.
func GenerateName(requirements string) string {
	lower := strings.ToLower(requirements)
	for _, kw := range nameKeywords {
		if strings.Contains(lower, kw) {
			return "BOM for " + titleCase(kw) + " System"
		}
	}
	words := strings.Fields(lower)
	if len(words) > 4 {
		words = words[:4]
	}
	return "BOM for " + titleCase(strings.Join(words, " "))
}

// Categorize returns the first category with a keyword in the text.
func Categorize(requirements string, answers map[string]string) string {
	text := combinedText(requirements, answers)
	for _, group := range promptCategories {
		if containsAny(text, group.keywords) {
			return group.label
		}
	}
	return defaultCategory
}

// Describe shortens the requirements to 100 characters and appends user and
// sizing details found in the answers.
func Describe(requirements string, answers map[string]string) string {
	desc := truncate(requirements, 100)
	if len([]rune(requirements)) > 100 {
		desc += "..."
	}

	keys := make([]string, 0, len(answers))
	for k := range answers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var details []string
	for _, k := range keys {
		answer := answers[k]
		lower := strings.ToLower(answer)
		switch {
		case strings.Contains(lower, "user") || strings.Contains(lower, "concurrent"):
			details = append(details, "Users: "+truncate(answer, 50))
		case strings.Contains(lower, "gb") || strings.Contains(lower, "cpu"):
			details = append(details, "Specs: "+truncate(answer, 50))
		}
	}
	if len(details) > 0 {
		desc += " | " + strings.Join(details, " | ")
	}
	return desc
}

// ExtractTags returns up to limit tags whose keywords appear in the text.
func ExtractTags(requirements string, answers map[string]string, limit int) []string {
	text := combinedText(requirements, answers)
	tags := []string{}
	for _, group := range tagGroups {
		if len(tags) == limit {
			break
		}
		if containsAny(text, group.keywords) {
			tags = append(tags, group.label)
		}
	}
	return tags
}

// TopPhrases counts every run of n consecutive words across texts and returns
// the most frequent ones, keeping those related to partial.
func TopPhrases(texts []string, partial string, n, limit int) []string {
	counts := make(map[string]int)
	var order []string
	for _, text := range texts {
		words := strings.Fields(text)
		for i := 0; i+n <= len(words); i++ {
			phrase := strings.ToLower(strings.Join(words[i:i+n], " "))
			if counts[phrase] == 0 {
				order = append(order, phrase)
			}
			counts[phrase]++
		}
	}
	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > limit {
		order = order[:limit]
	}

	partial = strings.ToLower(strings.TrimSpace(partial))
	out := []string{}
	for _, phrase := range order {
		if strings.Contains(phrase, partial) || strings.Contains(partial, phrase) {
			out = append(out, phrase)
		}
	}
	return out
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
