// internal/workers/bom/generate-draft/models.go
package generatedraft

import "oci-bom-generator/internal/models"

// Stage is one step of a draft generation run.
type Stage string

const (
	StageNotStarted       Stage = "NotStarted"
	StagePromptBuilt      Stage = "PromptBuilt"
	StageServiceCalled    Stage = "ServiceCalled"
	StageResponseReceived Stage = "ResponseReceived"
	StageParsed           Stage = "Parsed"
	StageValidated        Stage = "Validated"
	StageFailed           Stage = "Failed"
)

// Trace records the stages a run went through. Reason is set once Failed is reached.
type Trace struct {
	Stages []Stage `json:"stages"`
	Reason string  `json:"reason,omitempty"`
}

func newTrace() *Trace {
	return &Trace{Stages: []Stage{StageNotStarted}}
}

func (t *Trace) advance(s Stage) {
	t.Stages = append(t.Stages, s)
}

func (t *Trace) fail(reason string) {
	t.Stages = append(t.Stages, StageFailed)
	t.Reason = reason
}

// Current is the last stage reached.
func (t *Trace) Current() Stage {
	return t.Stages[len(t.Stages)-1]
}

type Input struct {
	Intent     models.BusinessIntent   `json:"intent"`
	Matched    []models.MatchedService `json:"matched"`
	Catalog    []models.CatalogService `json:"catalog,omitempty"`
	ProviderID string                  `json:"providerId"`
}

type Output struct {
	Draft *models.BOMDraft `json:"draft"`
	Trace *Trace           `json:"trace"`
}
