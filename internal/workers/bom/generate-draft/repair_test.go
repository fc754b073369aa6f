// internal/workers/bom/generate-draft/repair_test.go
package generatedraft

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripFences(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "json fence", input: "```json\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "bare fence with prose", input: "Sure!\n```\n[1,2]\n```\nDone.", want: "[1,2]"},
		{name: "unterminated fence", input: "```json\n{\"a\":1}", want: `{"a":1}`},
		{name: "no fence", input: "  {\"a\":1}  ", want: `{"a":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripFences(tt.input))
		})
	}
}

func TestExtractBlock(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   string
		wantOK bool
	}{
		{name: "object in prose", input: `The BOM is {"items":[]} as requested.`, want: `{"items":[]}`, wantOK: true},
		{name: "braces inside strings", input: `x {"notes":"use } and { freely","q":"\"}"} y`, want: `{"notes":"use } and { freely","q":"\"}"}`, wantOK: true},
		{name: "array first", input: `result: [{"a":1}] {"b":2}`, want: `[{"a":1}]`, wantOK: true},
		{name: "unbalanced", input: `{"items":[`, want: `{"items":[`, wantOK: false},
		{name: "nothing", input: "no json here", want: "", wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractBlock(tt.input)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestRepairs(t *testing.T) {
	tests := []struct {
		name   string
		repair func(string) string
		input  string
		want   string
	}{
		{name: "trailing commas", repair: stripTrailingCommas, input: `{"a":[1,2,],"b":"x,}",}`, want: `{"a":[1,2],"b":"x,}"}`},
		{name: "unquoted keys", repair: quoteKeys, input: `{partNumber: "B1", quantity :2, "note":"a, b: c"}`, want: `{"partNumber": "B1", "quantity":2, "note":"a, b: c"}`},
		{name: "single quotes", repair: singleToDoubleQuotes, input: `{'a':'it\'s "x"',"b":"customer's"}`, want: `{"a":"it's \"x\"","b":"customer's"}`},
		{name: "control characters", repair: escapeControlChars, input: "{\"notes\":\"line1\nline2\ttab\"}", want: `{"notes":"line1\nline2\ttab"}`},
		{name: "aggressive", repair: aggressiveCollapse, input: "{\n  items: [ { partNumber: B88317, quantity: 4, active: true, },\n ],\n}", want: `{ "items": [ { "partNumber": "B88317", "quantity": 4, "active": true}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.repair(tt.input))
		})
	}
}

func TestParseDocument(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expectError bool
		wantItems   int
	}{
		{name: "strict", input: `{"items":[{"partNumber":"B1"}]}`, wantItems: 1},
		{name: "fenced with trailing comma", input: "```json\n{\"items\":[{\"partNumber\":\"B1\",},]}\n```", wantItems: 1},
		{name: "single quoted", input: `{'items':[{'partNumber':'B1'},{'partNumber':'B2'}]}`, wantItems: 2},
		{name: "raw newline in string", input: "{\"items\":[{\"notes\":\"a\nb\"}]}", wantItems: 1},
		{name: "unquoted everything", input: "{items: [{partNumber: B1, quantity: 2}]}", wantItems: 1},
		{name: "no json", input: "sorry", expectError: true},
		{name: "hopeless", input: `{"items": [}`, expectError: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := ParseDocument(tt.input)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			items, ok := doc.(map[string]interface{})["items"].([]interface{})
			require.True(t, ok)
			assert.Len(t, items, tt.wantItems)
		})
	}
}

// ==========================
// Parser resilience
// ==========================

type draftItem struct {
	PartNumber  string  `json:"partNumber"`
	Description string  `json:"description"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
	Notes       string  `json:"notes"`
}

var noteWords = []string{"servers", "x", "2", "OCPUs", "customer's", "{primary}", "[ha]", "a, b", "24/7", `"quoted"`}

func genItem() gopter.Gen {
	return gopter.CombineGens(
		gen.IntRange(10000, 99999),
		gen.IntRange(0, 500),
		gen.IntRange(0, 10000),
		gen.SliceOfN(3, gen.IntRange(0, len(noteWords)-1)),
	).Map(func(v []interface{}) draftItem {
		idx := v[3].([]int)
		words := make([]string, len(idx))
		for i, n := range idx {
			words[i] = noteWords[n]
		}
		return draftItem{
			PartNumber:  fmt.Sprintf("B%d", v[0].(int)),
			Description: "Service " + fmt.Sprint(v[0].(int)),
			Quantity:    v[1].(int),
			UnitPrice:   float64(v[2].(int)) / 1000,
			Notes:       strings.Join(words, " "),
		}
	})
}

// corrupt applies the damage completions commonly show.
func corrupt(body string, mode int) string {
	switch mode {
	case 0:
		return body
	case 1:
		return "```json\n" + body + "\n```"
	case 2:
		return "Here is the bill of materials:\n" + body + "\nHope this helps."
	case 3:
		return strings.ReplaceAll(strings.ReplaceAll(body, "}]", "},]"), `"}`, `",}`)
	case 4:
		return "```\n" + strings.Replace(body, `"items"`, "items", 1) + "\n```"
	default:
		return "Result:\n```json\n" + strings.ReplaceAll(body, "}]", "},]") + "\n```"
	}
}

func TestParseDocument_Resilience(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("damaged drafts parse to the same items", prop.ForAll(
		func(items []draftItem, mode int) bool {
			body, err := json.Marshal(map[string]interface{}{"items": items})
			if err != nil {
				return false
			}
			doc, err := ParseDocument(corrupt(string(body), mode))
			if err != nil {
				return false
			}
			parsed, ok := doc.(map[string]interface{})["items"].([]interface{})
			if !ok || len(parsed) != len(items) {
				return false
			}
			for i, raw := range parsed {
				m := raw.(map[string]interface{})
				if m["partNumber"] != items[i].PartNumber || m["notes"] != items[i].Notes {
					return false
				}
			}
			return true
		},
		gen.SliceOfN(4, genItem()),
		gen.IntRange(0, 5),
	))

	properties.TestingRun(t)
}
