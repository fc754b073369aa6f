// internal/workers/constraints/analyze-requirements/handler.go
package analyzerequirements

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"oci-bom-generator/internal/models"
)

const (
	TaskType = "analyze-requirements"
)

type Logger interface {
	Info(msg string, fields map[string]interface{})
	With(fields map[string]interface{}) Logger
}

var capacityPattern = regexp.MustCompile(`\b\d+\s*(?:gb|tb|pb|ocpus?|cores?|vcpus?|servers?|instances?|vms?|nodes?|users?|transactions?|requests?)\b`)

var (
	questionServices = models.FollowUpQuestion{
		ID:       "services",
		Question: "Which OCI services do you need (for example compute, database, storage or networking)?",
		Category: "services",
		Critical: true,
	}
	questionScale = models.FollowUpQuestion{
		ID:       "scale",
		Question: "How many users, servers or how much storage capacity should the environment support?",
		Category: "sizing",
	}
	questionAvailability = models.FollowUpQuestion{
		ID:       "availability",
		Question: "What availability, backup or disaster recovery requirements apply?",
		Category: "availability",
	}
)

type Handler struct {
	config *Config
	logger Logger
}

func NewHandler(config *Config, log Logger) *Handler {
	return &Handler{
		config: config,
		logger: log.With(map[string]interface{}{
			"taskType": TaskType,
		}),
	}
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	analysis := h.Analyze(input.Text, input.FollowUpAnswers, input.Intent)

	h.logger.Info("requirements analyzed", map[string]interface{}{
		"needsFollowUp": analysis.NeedsFollowUp,
		"missing":       analysis.Missing,
	})

	return &Output{Analysis: analysis}, nil
}

// Analyze decides whether follow-up questions are needed. Answers already
// supplied suppress every question.
func (h *Handler) Analyze(text string, answers map[string]string, intent models.BusinessIntent) models.RequirementAnalysis {
	lower := strings.ToLower(text)
	var missing []models.FollowUpQuestion

	if len(intent.Categories) == 0 && len(intent.Constraints.SpecificIdentifiers) == 0 {
		missing = append(missing, questionServices)
	}
	if intent.UserCount == 0 && !capacityPattern.MatchString(lower) {
		missing = append(missing, questionScale)
	}
	if !containsAny(lower+" ", h.config.AvailabilityTerms) {
		missing = append(missing, questionAvailability)
	}

	analysis := models.RequirementAnalysis{}
	for _, q := range missing {
		analysis.Missing = append(analysis.Missing, q.Category)
	}
	if len(answers) > 0 {
		return analysis
	}

	for _, q := range missing {
		if q.Critical {
			analysis.NeedsFollowUp = true
		}
	}
	if !analysis.NeedsFollowUp {
		return analysis
	}
	for _, q := range missing {
		if q.Critical || h.config.AskOptional {
			analysis.Questions = append(analysis.Questions, q)
		}
	}
	return analysis
}

// ComposeText appends follow-up answers to the requirement text as "key: value" lines.
func ComposeText(requirements string, answers map[string]string) string {
	if len(answers) == 0 {
		return requirements
	}
	keys := make([]string, 0, len(answers))
	for k := range answers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(requirements)
	b.WriteString("\n\nAdditional details:")
	for _, k := range keys {
		if strings.TrimSpace(answers[k]) == "" {
			continue
		}
		b.WriteString("\n")
		b.WriteString(k)
		b.WriteString(": ")
		b.WriteString(answers[k])
	}
	return b.String()
}

func containsAny(text string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(text, term) {
			return true
		}
	}
	return false
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
