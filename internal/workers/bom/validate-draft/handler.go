// internal/workers/bom/validate-draft/handler.go
package validatedraft

import (
	"context"
	"errors"
	"strings"

	"oci-bom-generator/internal/common/metrics"
	"oci-bom-generator/internal/compliance"
	"oci-bom-generator/internal/models"
)

const (
	TaskType = "validate-draft"
)

var ErrMissingDraft = errors.New("MISSING_DRAFT")

type Logger interface {
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
	With(fields map[string]interface{}) Logger
}

type Handler struct {
	engine *compliance.Engine
	logger Logger
}

func NewHandler(engine *compliance.Engine, log Logger) *Handler {
	return &Handler{
		engine: engine,
		logger: log.With(map[string]interface{}{
			"taskType": TaskType,
		}),
	}
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil || input.Draft == nil {
		return nil, ErrMissingDraft
	}
	validated := h.ValidateAgainst(input.Draft, input.Constraints, input.Catalog)

	summary := validated.ComplianceSummary
	fields := map[string]interface{}{
		"considered": summary.Considered,
		"approved":   summary.Approved,
		"rejected":   len(summary.Rejected),
	}
	if len(summary.Rejected) > 0 {
		h.logger.Warn("draft items rejected", fields)
	} else {
		h.logger.Info("draft validated", fields)
	}
	return &Output{Draft: validated}, nil
}

// Validate re-checks every line item against the hard constraints with the same
// engine the matcher uses. The input draft is not modified. Rejections already
// recorded on the draft are carried over, so validating a validated draft
// returns an equal draft.
func (h *Handler) Validate(draft *models.BOMDraft, cs models.ConstraintSet) *models.BOMDraft {
	return h.ValidateAgainst(draft, cs, nil)
}

// ValidateAgainst is Validate with the catalog the draft was built from. An item
// naming a catalog entry is also checked against that entry, so it is rejected
// whenever the matcher would have rejected the entry.
func (h *Handler) ValidateAgainst(draft *models.BOMDraft, cs models.ConstraintSet, catalog []models.CatalogService) *models.BOMDraft {
	out := &models.BOMDraft{Provider: draft.Provider}

	entries := make(map[string]*models.CatalogService, len(catalog))
	for i := range catalog {
		entries[strings.ToUpper(catalog[i].Identifier)] = &catalog[i]
	}

	summary := &models.ComplianceSummary{Rejected: []models.RejectedItem{}}
	if prior := draft.ComplianceSummary; prior != nil {
		summary.Rejected = append(summary.Rejected, prior.Rejected...)
		summary.ConstraintSummary = prior.ConstraintSummary
	}

	out.Items = make([]models.BOMLineItem, 0, len(draft.Items))
	newlyRejected := 0
	for _, item := range draft.Items {
		outcome := h.engine.EvaluateItem(item, entries[strings.ToUpper(item.Identifier)], cs)
		if !outcome.Allowed {
			summary.Rejected = append(summary.Rejected, models.RejectedItem{
				Identifier:  item.Identifier,
				Description: item.Description,
				Reason:      outcome.Reason(),
			})
			newlyRejected++
			continue
		}
		item.Compliance = &models.ComplianceRecord{
			Approved:  true,
			Satisfied: nonNil(outcome.Satisfied),
			Violated:  []string{},
		}
		out.Items = append(out.Items, item)
	}

	summary.Approved = len(out.Items)
	summary.Considered = summary.Approved + len(summary.Rejected)
	out.ComplianceSummary = summary

	if newlyRejected > 0 {
		metrics.ItemsRejected.Add(float64(newlyRejected))
	}
	return out
}

func nonNil(s []string) []string {
	if len(s) == 0 {
		return []string{}
	}
	return append([]string(nil), s...)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
