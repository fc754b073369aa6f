// internal/workers/constraints/extract-constraints/property_test.go
package extractconstraints

import (
	"reflect"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"oci-bom-generator/internal/common/logger"
	"oci-bom-generator/internal/taxonomy"
)

type noopLogger struct{}

func (noopLogger) Info(string, map[string]interface{})  {}
func (noopLogger) Warn(string, map[string]interface{})  {}
func (noopLogger) Error(string, map[string]interface{}) {}
func (n noopLogger) With(map[string]interface{}) Logger { return n }

var fragments = []string{
	"only consider base database service.", "no app servers.", "exclude object storage;",
	"we have 500 users", "budget-conscious", "sku b88317", "must use e4 shapes!",
	"avoid gpu", "without load balancer", "premium", "byol", "hello world", "\n",
}

// Extraction is a pure function of its input text.
func TestExtract_Deterministic(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	h := NewHandler(LoadConfig(), taxonomy.Default(), noopLogger{})
	other := NewHandler(LoadConfig(), taxonomy.Default(), noopLogger{})

	properties.Property("same text yields identical constraint sets", prop.ForAll(
		func(parts []string, noise string) bool {
			text := strings.Join(parts, " ") + " " + noise
			first := h.Extract(text)
			second := h.Extract(text)
			third := other.Extract(text)
			return reflect.DeepEqual(first, second) && reflect.DeepEqual(first, third)
		},
		gen.SliceOf(gen.OneConstOf(toInterfaces(fragments)...)).Map(func(v []string) []string {
			out := make([]string, len(v))
			for i := range v {
				out[i] = v[i]
			}
			return out
		}),
		gen.AlphaString(),
	))

	properties.Property("keywords are sorted and unique", prop.ForAll(
		func(text string) bool {
			cs := h.Extract("only " + text + ". no " + text)
			for _, c := range append(cs.Restrictive, cs.Exclusions...) {
				for i := 1; i < len(c.Keywords); i++ {
					if c.Keywords[i-1] >= c.Keywords[i] {
						return false
					}
				}
			}
			return true
		},
		gen.AnyString(),
	))

	properties.TestingRun(t)
}

func toInterfaces(in []string) []interface{} {
	out := make([]interface{}, len(in))
	for i, s := range in {
		out[i] = s
	}
	return out
}

func TestExtract_WithCommonLogger(t *testing.T) {
	h := NewHandler(LoadConfig(), taxonomy.Default(), &loggerAdapter{logger.NewTestLogger(t)})
	cs := h.Extract("Solely block storage")
	if len(cs.Restrictive) != 1 {
		t.Fatalf("expected one restrictive constraint, got %d", len(cs.Restrictive))
	}
}

type loggerAdapter struct {
	logger.Logger
}

func (a *loggerAdapter) With(fields map[string]interface{}) Logger {
	return &loggerAdapter{a.Logger.With(fields)}
}
