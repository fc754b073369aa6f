// internal/common/validation/sanitize.go
package validation

import (
	"regexp"
	"strings"
)

var (
	angleBrackets  = regexp.MustCompile(`[<>]`)
	javascriptURL  = regexp.MustCompile(`(?i)javascript:`)
	eventHandler   = regexp.MustCompile(`(?i)on\w+\s*=`)
	suspiciousText = []*regexp.Regexp{
		regexp.MustCompile(`(?i)javascript:`),
		regexp.MustCompile(`(?i)<script`),
		regexp.MustCompile(`(?i)\bon\w+\s*=`),
		regexp.MustCompile(`(?i)\beval\s*\(`),
		regexp.MustCompile(`(?i)\bdocument\.`),
		regexp.MustCompile(`(?i)\bwindow\.`),
	}
)

// SanitizeInput trims s and strips angle brackets, javascript: URLs, inline
// event handlers and NUL bytes.
func SanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	s = angleBrackets.ReplaceAllString(s, "")
	s = javascriptURL.ReplaceAllString(s, "")
	s = eventHandler.ReplaceAllString(s, "")
	return strings.ReplaceAll(s, "\x00", "")
}

// SanitizeAnswers sanitizes every value of a follow-up answer map in place.
func SanitizeAnswers(answers map[string]string) {
	for k, v := range answers {
		answers[k] = SanitizeInput(v)
	}
}

// Suspicious reports whether text carries a script-injection pattern.
func Suspicious(text string) bool {
	for _, re := range suspiciousText {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}
