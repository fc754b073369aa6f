// internal/workers/catalog/match-services/handler_test.go
package matchservices

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"oci-bom-generator/internal/compliance"
	"oci-bom-generator/internal/models"
	"oci-bom-generator/internal/taxonomy"
	fetchcatalog "oci-bom-generator/internal/workers/catalog/fetch-catalog"
	extractconstraints "oci-bom-generator/internal/workers/constraints/extract-constraints"
	translateintent "oci-bom-generator/internal/workers/constraints/translate-intent"
)

// ==========================
// Test Logger Implementation
// ==========================

type testLogger struct {
	t      *testing.T
	fields map[string]interface{}
}

func newTestLogger(t *testing.T) *testLogger {
	return &testLogger{t: t, fields: map[string]interface{}{}}
}

func (l *testLogger) Info(msg string, fields map[string]interface{})  { l.t.Logf("INFO: %s %v %v", msg, l.fields, fields) }
func (l *testLogger) Warn(msg string, fields map[string]interface{})  { l.t.Logf("WARN: %s %v %v", msg, l.fields, fields) }
func (l *testLogger) Error(msg string, fields map[string]interface{}) { l.t.Logf("ERROR: %s %v %v", msg, l.fields, fields) }
func (l *testLogger) With(fields map[string]interface{}) Logger {
	merged := map[string]interface{}{}
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &testLogger{t: l.t, fields: merged}
}

// stageLogger satisfies the extractor and translator logger interfaces.
type stageLogger struct{}

func (stageLogger) Info(string, map[string]interface{})  {}
func (stageLogger) Warn(string, map[string]interface{})  {}
func (stageLogger) Error(string, map[string]interface{}) {}

type extractLogger struct{ stageLogger }

func (l extractLogger) With(map[string]interface{}) extractconstraints.Logger { return l }

type translateLogger struct{ stageLogger }

func (l translateLogger) With(map[string]interface{}) translateintent.Logger { return l }

func createTestHandler(t *testing.T) *Handler {
	tax := taxonomy.Default()
	return NewHandler(LoadConfig(), tax, compliance.NewEngine(tax), newTestLogger(t))
}

// intentFor runs the extractor and translator over text, as the pipeline does.
func intentFor(text string) models.BusinessIntent {
	tax := taxonomy.Default()
	cs := extractconstraints.NewHandler(extractconstraints.LoadConfig(), tax, extractLogger{}).Extract(text)
	return translateintent.NewHandler(translateintent.LoadConfig(), tax, translateLogger{}).Translate(text, cs)
}

func ids(matched []models.MatchedService) []string {
	out := make([]string, len(matched))
	for i, m := range matched {
		out[i] = m.Identifier
	}
	return out
}

func findService(id string) models.CatalogService {
	for _, s := range fetchcatalog.FallbackServices() {
		if s.Identifier == id {
			return s
		}
	}
	panic("unknown service " + id)
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Match(t *testing.T) {
	catalog := fetchcatalog.FallbackServices()

	tests := []struct {
		name           string
		services       []models.CatalogService
		text           string
		validateOutput func(t *testing.T, matched []models.MatchedService)
	}{
		{
			name:     "only and no clauses keep the database entry",
			services: []models.CatalogService{findService("B89728"), findService("B88317")},
			text:     "Only consider Base Database Service. No app servers.",
			validateOutput: func(t *testing.T, matched []models.MatchedService) {
				assert.Equal(t, []string{"B89728"}, ids(matched))
				assert.Contains(t, matched[0].Justification, "base database service")
			},
		},
		{
			name:     "budget-conscious database penalizes enterprise tier",
			services: catalog,
			text:     "Need a database for 500 users, budget-conscious",
			validateOutput: func(t *testing.T, matched []models.MatchedService) {
				scores := map[string]float64{}
				for _, m := range matched {
					scores[m.Identifier] = m.MatchScore
					assert.Equal(t, "Database", m.Category)
				}
				require.Contains(t, scores, "B89729", "enterprise offering is penalized, not removed")
				require.Contains(t, scores, "B92000")
				assert.Greater(t, scores["B89728"], scores["B89729"])
				assert.InDelta(t, 0.4, scores["B89728"], 1e-9)
				assert.InDelta(t, 0.175, scores["B89729"], 1e-9)
				assert.Equal(t, "B89728", matched[0].Identifier, "ties break by identifier")
			},
		},
		{
			name:     "product family outranks category-only hits",
			services: catalog,
			text:     "We want an autonomous database and some block storage",
			validateOutput: func(t *testing.T, matched []models.MatchedService) {
				scores := map[string]float64{}
				for _, m := range matched {
					scores[m.Identifier] = m.MatchScore
					if m.Identifier == "B89729" {
						assert.Contains(t, m.MatchReasons, "product family match: autonomous_database")
					}
				}
				assert.InDelta(t, 0.65, scores["B89729"], 1e-9)
				assert.InDelta(t, 0.65, scores["B88514"], 1e-9)
				assert.InDelta(t, 0.25, scores["B89728"], 1e-9)
				assert.InDelta(t, 0.25, scores["B91235"], 1e-9)
				assert.Equal(t, []string{"B88514", "B88515", "B89729"}, ids(matched)[:3])
			},
		},
		{
			name:     "pinned identifiers dominate",
			services: catalog,
			text:     "Use SKU B88317 and part number B91235 for the compute and storage build",
			validateOutput: func(t *testing.T, matched []models.MatchedService) {
				assert.ElementsMatch(t, []string{"B88317", "B91235"}, ids(matched))
			},
		},
		{
			name:     "exclusion removes a category member",
			services: catalog,
			text:     "Storage for backups, avoid nfs",
			validateOutput: func(t *testing.T, matched []models.MatchedService) {
				assert.NotContains(t, ids(matched), "B91236")
				assert.Contains(t, ids(matched), "B91235")
			},
		},
		{
			name:     "byol licensing adds weight",
			services: catalog,
			text:     "Oracle database with our existing license",
			validateOutput: func(t *testing.T, matched []models.MatchedService) {
				require.NotEmpty(t, matched)
				assert.Equal(t, "B89728", matched[0].Identifier)
				assert.Contains(t, matched[0].MatchReasons, "licensing match: byol")
			},
		},
		{
			name:     "empty catalog",
			services: nil,
			text:     "Need compute and storage",
			validateOutput: func(t *testing.T, matched []models.MatchedService) {
				assert.NotNil(t, matched)
				assert.Empty(t, matched)
			},
		},
	}

	h := createTestHandler(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.validateOutput(t, h.Match(tt.services, intentFor(tt.text)))
		})
	}
}

func TestHandler_Match_SoleSurvivorKeepsFullScore(t *testing.T) {
	h := createTestHandler(t)
	intent := models.BusinessIntent{
		Categories:     []string{"compute"},
		TierPreference: models.TierStandard,
		Constraints: models.ConstraintSet{
			Restrictive: []models.KeywordConstraint{{RawPhrase: "hpc", Keywords: []string{"hpc"}}},
		},
	}

	matched := h.Match(fetchcatalog.FallbackServices(), intent)
	require.Len(t, matched, 1)
	assert.Equal(t, "B90100", matched[0].Identifier)
	assert.InDelta(t, 0.25, matched[0].MatchScore, 1e-9)
}

func TestHandler_Match_CoverageSurvivesCap(t *testing.T) {
	tax := taxonomy.Default()
	cfg := LoadConfig()
	cfg.MaxResults = 2
	h := NewHandler(cfg, tax, compliance.NewEngine(tax), newTestLogger(t))

	intent := intentFor("compute servers, block storage, a database and a load balancer")
	matched := h.Match(fetchcatalog.FallbackServices(), intent)

	covered := map[string]bool{}
	for _, m := range matched {
		covered[tax.CategoryFor(m.Category)] = true
	}
	for _, cat := range intent.Categories {
		assert.True(t, covered[cat], "category %s missing", cat)
	}
}

func TestHandler_Filter(t *testing.T) {
	h := createTestHandler(t)
	cs := models.ConstraintSet{
		Exclusions: []models.KeywordConstraint{{RawPhrase: "app servers", Keywords: []string{"app", "servers"}}},
	}

	res := h.Filter(fetchcatalog.FallbackServices(), cs)
	require.NotEmpty(t, res.Excluded)
	for _, rej := range res.Excluded {
		assert.Equal(t, "Compute", rej.Service.Category)
		assert.Contains(t, rej.Reason, `"app servers"`)
	}
	assert.Equal(t, len(fetchcatalog.FallbackServices()), len(res.Included)+len(res.Excluded))
}

func TestHandler_Execute(t *testing.T) {
	h := createTestHandler(t)
	out, err := h.Execute(context.Background(), &Input{
		Services: fetchcatalog.FallbackServices(),
		Intent:   intentFor("Only consider Base Database Service. No app servers."),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, out.Matched)
	assert.NotEmpty(t, out.Filter.Excluded)
}
