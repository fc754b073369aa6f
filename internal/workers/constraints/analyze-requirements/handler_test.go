// internal/workers/constraints/analyze-requirements/handler_test.go
package analyzerequirements

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"oci-bom-generator/internal/models"
)

type testLogger struct {
	t *testing.T
}

func (l *testLogger) Info(msg string, fields map[string]interface{}) { l.t.Logf("INFO: %s %v", msg, fields) }
func (l *testLogger) With(fields map[string]interface{}) Logger      { return l }

func TestHandler_Analyze(t *testing.T) {
	tests := []struct {
		name           string
		text           string
		answers        map[string]string
		intent         models.BusinessIntent
		validateOutput func(t *testing.T, a models.RequirementAnalysis)
	}{
		{
			name:   "no detectable category asks every question",
			text:   "We are building something for our team",
			intent: models.BusinessIntent{},
			validateOutput: func(t *testing.T, a models.RequirementAnalysis) {
				assert.True(t, a.NeedsFollowUp)
				require.Len(t, a.Questions, 3)
				assert.True(t, a.Questions[0].Critical)
				assert.Equal(t, []string{"services", "sizing", "availability"}, a.Missing)
			},
		},
		{
			name:    "answers suppress questions",
			text:    "We are building something for our team",
			answers: map[string]string{"services": "compute and database"},
			intent:  models.BusinessIntent{},
			validateOutput: func(t *testing.T, a models.RequirementAnalysis) {
				assert.False(t, a.NeedsFollowUp)
				assert.Empty(t, a.Questions)
			},
		},
		{
			name:   "categories present means no follow-up",
			text:   "Two servers and a database",
			intent: models.BusinessIntent{Categories: []string{"compute", "database"}},
			validateOutput: func(t *testing.T, a models.RequirementAnalysis) {
				assert.False(t, a.NeedsFollowUp)
				assert.Empty(t, a.Questions)
				assert.Equal(t, []string{"sizing", "availability"}, a.Missing)
			},
		},
		{
			name: "identifier pins count as a service signal",
			text: "Only allow SKU B88317 with 99.9% availability for 40 users",
			intent: models.BusinessIntent{
				UserCount:   40,
				Constraints: models.ConstraintSet{SpecificIdentifiers: []models.IdentifierPin{{RawPhrase: "sku b88317", Identifier: "B88317"}}},
			},
			validateOutput: func(t *testing.T, a models.RequirementAnalysis) {
				assert.False(t, a.NeedsFollowUp)
				assert.Empty(t, a.Missing)
			},
		},
	}

	h := NewHandler(LoadConfig(), &testLogger{t: t})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.validateOutput(t, h.Analyze(tt.text, tt.answers, tt.intent))
		})
	}
}

func TestHandler_Execute(t *testing.T) {
	h := NewHandler(LoadConfig(), &testLogger{t: t})
	out, err := h.Execute(context.Background(), &Input{
		Text:   "4 OCPUs of compute with nightly backup",
		Intent: models.BusinessIntent{Categories: []string{"compute"}},
	})
	require.NoError(t, err)
	assert.False(t, out.Analysis.NeedsFollowUp)
	assert.Empty(t, out.Analysis.Missing)
}

func TestComposeText(t *testing.T) {
	assert.Equal(t, "base", ComposeText("base", nil))
	assert.Equal(t,
		"base\n\nAdditional details:\nscale: 200 users\nservices: database",
		ComposeText("base", map[string]string{"services": "database", "scale": "200 users", "empty": " "}))
}
