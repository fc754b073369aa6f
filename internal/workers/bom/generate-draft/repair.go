// internal/workers/bom/generate-draft/repair.go
package generatedraft

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	ErrNoJSON       = errors.New("NO_JSON_FOUND")
	ErrUnrepairable = errors.New("UNREPAIRABLE_JSON")
)

var (
	fencePattern        = regexp.MustCompile("(?s)```[A-Za-z]*[ \t]*\\r?\\n?(.*?)```")
	trailingComma       = regexp.MustCompile(`,\s*([}\]])`)
	unquotedKey         = regexp.MustCompile(`([{,]\s*)([A-Za-z_][A-Za-z0-9_\-]*)\s*:`)
	bareValue           = regexp.MustCompile(`:\s*([^",{\[\]}\s][^",}\]]*?)\s*([,}\]])`)
	controlWhitespace   = regexp.MustCompile(`[\n\r\t]`)
	repeatedWhitespaces = regexp.MustCompile(`\s+`)
	jsonNumber          = regexp.MustCompile(`^-?(0|[1-9][0-9]*)(\.[0-9]+)?([eE][+-]?[0-9]+)?$`)
)

// Repair is one pure rewrite tried when the text does not parse.
type Repair struct {
	Name  string
	Apply func(string) string
}

// Repairs run in order, each on the previous output.
var Repairs = []Repair{
	{Name: "trailing-commas", Apply: stripTrailingCommas},
	{Name: "unquoted-keys", Apply: quoteKeys},
	{Name: "single-quotes", Apply: singleToDoubleQuotes},
	{Name: "control-characters", Apply: escapeControlChars},
	{Name: "aggressive", Apply: aggressiveCollapse},
}

// StripFences returns the body of the first Markdown code fence, or text unchanged
// when there is none. An unterminated opening fence is dropped.
func StripFences(text string) string {
	if m := fencePattern.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	trimmed := strings.TrimSpace(text)
	if strings.HasPrefix(trimmed, "```") {
		if nl := strings.IndexByte(trimmed, '\n'); nl >= 0 {
			return strings.TrimSpace(trimmed[nl+1:])
		}
		return ""
	}
	return trimmed
}

// ExtractBlock returns the first balanced {...} or [...] block. Brackets inside
// double-quoted strings are ignored. When the block never closes the remainder is
// returned with ok false.
func ExtractBlock(text string) (block string, ok bool) {
	start := strings.IndexAny(text, "{[")
	if start < 0 {
		return "", false
	}
	depth := 0
	inString, escaped := false, false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{', '[':
			depth++
		case '}', ']':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}
	return text[start:], false
}

// ParseDocument turns a raw completion into a decoded JSON value.
func ParseDocument(raw string) (interface{}, error) {
	block, _ := ExtractBlock(StripFences(raw))
	if block == "" {
		return nil, ErrNoJSON
	}

	v, err := decode(block)
	if err == nil {
		return v, nil
	}
	candidate := block
	for _, r := range Repairs {
		candidate = r.Apply(candidate)
		if v, rerr := decode(candidate); rerr == nil {
			return v, nil
		}
	}
	return nil, fmt.Errorf("%w: %v", ErrUnrepairable, err)
}

func decode(s string) (interface{}, error) {
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, errors.New("trailing data after JSON value")
	}
	return v, nil
}

// outsideStrings applies fn to every stretch of s that is not inside a
// double-quoted string.
func outsideStrings(s string, fn func(string) string) string {
	var b strings.Builder
	seg := 0
	inString, escaped := false, false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
				b.WriteString(s[seg : i+1])
				seg = i + 1
			}
			continue
		}
		if c == '"' {
			b.WriteString(fn(s[seg:i]))
			seg = i
			inString = true
		}
	}
	if inString {
		b.WriteString(s[seg:])
	} else {
		b.WriteString(fn(s[seg:]))
	}
	return b.String()
}

func stripTrailingCommas(s string) string {
	return outsideStrings(s, func(seg string) string {
		return trailingComma.ReplaceAllString(seg, "$1")
	})
}

func quoteKeys(s string) string {
	return outsideStrings(s, func(seg string) string {
		return unquotedKey.ReplaceAllString(seg, `$1"$2":`)
	})
}

// singleToDoubleQuotes rewrites 'single quoted' strings. Apostrophes inside
// double-quoted strings are kept.
func singleToDoubleQuotes(s string) string {
	var b bytes.Buffer
	inDouble, inSingle, escaped := false, false, false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case inDouble:
			b.WriteByte(c)
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inDouble = false
			}
		case inSingle:
			switch {
			case escaped:
				escaped = false
				if c == '\'' {
					b.WriteByte('\'')
				} else {
					b.WriteByte('\\')
					b.WriteByte(c)
				}
			case c == '\\':
				escaped = true
			case c == '\'':
				inSingle = false
				b.WriteByte('"')
			case c == '"':
				b.WriteString(`\"`)
			default:
				b.WriteByte(c)
			}
		case c == '"':
			inDouble = true
			b.WriteByte(c)
		case c == '\'':
			inSingle = true
			b.WriteByte('"')
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// escapeControlChars escapes raw control characters inside strings.
func escapeControlChars(s string) string {
	var b bytes.Buffer
	inString, escaped := false, false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !inString {
			if c == '"' {
				inString = true
			}
			b.WriteByte(c)
			continue
		}
		switch {
		case escaped:
			escaped = false
			b.WriteByte(c)
		case c == '\\':
			escaped = true
			b.WriteByte(c)
		case c == '"':
			inString = false
			b.WriteByte(c)
		case c == '\n':
			b.WriteString(`\n`)
		case c == '\r':
			b.WriteString(`\r`)
		case c == '\t':
			b.WriteString(`\t`)
		case c < 0x20:
			fmt.Fprintf(&b, `\u%04x`, c)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// aggressiveCollapse flattens whitespace and quotes bare keys and values.
func aggressiveCollapse(s string) string {
	s = controlWhitespace.ReplaceAllString(s, " ")
	s = outsideStrings(s, func(seg string) string {
		seg = trailingComma.ReplaceAllString(seg, "$1")
		seg = unquotedKey.ReplaceAllString(seg, `$1"$2":`)
		seg = bareValue.ReplaceAllStringFunc(seg, quoteBareValue)
		return repeatedWhitespaces.ReplaceAllString(seg, " ")
	})
	return strings.TrimSpace(s)
}

func quoteBareValue(match string) string {
	sub := bareValue.FindStringSubmatch(match)
	value := strings.TrimSpace(sub[1])
	if isLiteral(value) {
		return match
	}
	return `: "` + value + `"` + sub[2]
}

func isLiteral(v string) bool {
	switch v {
	case "true", "false", "null":
		return true
	}
	return jsonNumber.MatchString(v)
}
