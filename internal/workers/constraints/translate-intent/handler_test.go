// internal/workers/constraints/translate-intent/handler_test.go
package translateintent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"oci-bom-generator/internal/models"
	"oci-bom-generator/internal/taxonomy"
)

type testLogger struct {
	t *testing.T
}

func (l *testLogger) Info(msg string, fields map[string]interface{})  { l.t.Logf("INFO: %s %v", msg, fields) }
func (l *testLogger) Warn(msg string, fields map[string]interface{})  { l.t.Logf("WARN: %s %v", msg, fields) }
func (l *testLogger) Error(msg string, fields map[string]interface{}) { l.t.Logf("ERROR: %s %v", msg, fields) }
func (l *testLogger) With(fields map[string]interface{}) Logger       { return l }

func createTestHandler(t *testing.T) *Handler {
	return NewHandler(LoadConfig(), taxonomy.Default(), &testLogger{t: t})
}

func TestHandler_Translate(t *testing.T) {
	tests := []struct {
		name           string
		text           string
		constraints    models.ConstraintSet
		validateOutput func(t *testing.T, intent models.BusinessIntent)
	}{
		{
			name: "product and category terms",
			text: "We need an autonomous database, two app servers and block storage for backups",
			validateOutput: func(t *testing.T, intent models.BusinessIntent) {
				assert.Equal(t, []string{"compute", "database", "storage"}, intent.Categories)
				assert.Contains(t, intent.Products, "autonomous_database")
				assert.Contains(t, intent.Products, "standard_compute")
				assert.Contains(t, intent.Products, "block_storage")
				assert.Contains(t, intent.Products, "object_storage")
			},
		},
		{
			name: "budget-conscious 500 users",
			text: "500 users, budget-conscious",
			validateOutput: func(t *testing.T, intent models.BusinessIntent) {
				assert.Equal(t, models.TierStandard, intent.TierPreference)
				assert.Equal(t, models.OptimizeCost, intent.Optimize)
				assert.Equal(t, 500, intent.UserCount)
				assert.Equal(t, models.SizingLarge, intent.Sizing)
				assert.Empty(t, intent.Categories)
			},
		},
		{
			name: "excluded phrases add no category",
			text: "Only consider Base Database Service. No app servers.",
			constraints: models.ConstraintSet{
				Restrictive: []models.KeywordConstraint{{RawPhrase: "only consider base database service", Keywords: []string{"base", "database"}}},
				Exclusions:  []models.KeywordConstraint{{RawPhrase: "no app servers", Keywords: []string{"app", "servers"}}},
			},
			validateOutput: func(t *testing.T, intent models.BusinessIntent) {
				assert.Equal(t, []string{"database"}, intent.Categories)
				assert.Equal(t, []string{"base_database"}, intent.Products)
				assert.Len(t, intent.Constraints.Exclusions, 1)
			},
		},
		{
			name: "licensing and declared preferences",
			text: "Enterprise ERP on our existing Oracle licenses",
			constraints: models.ConstraintSet{
				BusinessPreferences: models.BusinessPreferences{UserCount: 2000},
			},
			validateOutput: func(t *testing.T, intent models.BusinessIntent) {
				assert.Equal(t, models.TierEnterprise, intent.TierPreference)
				assert.Equal(t, models.LicensingBYOL, intent.LicensingPreference)
				assert.Equal(t, models.OptimizePerformance, intent.Optimize)
				assert.Equal(t, 2000, intent.UserCount)
				assert.Equal(t, models.SizingEnterpriseLarge, intent.Sizing)
			},
		},
		{
			name: "unmapped text contributes no signal",
			text: "Something pleasant and colourful",
			validateOutput: func(t *testing.T, intent models.BusinessIntent) {
				assert.Empty(t, intent.Categories)
				assert.Empty(t, intent.Products)
				assert.Empty(t, intent.TierPreference)
				assert.Zero(t, intent.UserCount)
			},
		},
	}

	h := createTestHandler(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			intent := h.Translate(tt.text, tt.constraints)
			tt.validateOutput(t, intent)
			assert.Equal(t, intent, h.Translate(tt.text, tt.constraints))
		})
	}
}

func TestSummarize(t *testing.T) {
	intent := models.BusinessIntent{
		TierPreference:      models.TierStandard,
		LicensingPreference: models.LicensingLicenseIncluded,
		Optimize:            models.OptimizeCost,
		UserCount:           500,
		Sizing:              models.SizingLarge,
		Constraints: models.ConstraintSet{
			Restrictive: []models.KeywordConstraint{{RawPhrase: "only mysql", Keywords: []string{"mysql"}}},
			Exclusions:  []models.KeywordConstraint{{RawPhrase: "avoid gpu", Keywords: []string{"gpu"}}},
			SpecificIdentifiers: []models.IdentifierPin{
				{RawPhrase: "sku b91500", Identifier: "B91500"},
				{RawPhrase: "b91500", Identifier: "B91500"},
			},
		},
	}

	summary := Summarize(intent)
	assert.Equal(t, []string{"only mysql"}, summary.Requirements)
	assert.Equal(t, []string{"avoid gpu"}, summary.Exclusions)
	assert.Equal(t, []string{"B91500"}, summary.PinnedIdentifiers)
	require.Len(t, summary.PreferenceImplications, 4)
	assert.Contains(t, summary.PreferenceImplications[3], "500 users (large)")
}

func TestHandler_Execute(t *testing.T) {
	h := createTestHandler(t)
	out, err := h.Execute(context.Background(), &Input{Text: "A load balancer in front of 3 VMs"})
	require.NoError(t, err)
	assert.Equal(t, []string{"compute", "networking"}, out.Intent.Categories)
	assert.Empty(t, out.Summary.Requirements)
}
