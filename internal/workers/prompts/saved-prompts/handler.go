// internal/workers/prompts/saved-prompts/handler.go
package savedprompts

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "oci-bom-generator/internal/common/errors"
	"oci-bom-generator/internal/models"
)

const (
	TaskType = "saved-prompts"
)

type Logger interface {
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
	With(fields map[string]interface{}) Logger
}

type Handler struct {
	config    *Config
	store     Store
	suggester Suggester
	logger    Logger
	now       func() time.Time
	newID     func() string
}

// NewHandler wires the store. suggester may be nil, in which case suggestions
// are computed from the stored prompts.
func NewHandler(config *Config, store Store, suggester Suggester, log Logger) *Handler {
	return &Handler{
		config:    config,
		store:     store,
		suggester: suggester,
		logger: log.With(map[string]interface{}{
			"taskType": TaskType,
		}),
		now:   time.Now,
		newID: uuid.NewString,
	}
}

func (h *Handler) WithClock(now func() time.Time) *Handler {
	h.now = now
	return h
}

func (h *Handler) List(ctx context.Context) ([]models.SavedPrompt, error) {
	prompts, err := h.store.List(ctx)
	if err != nil {
		return nil, apperrors.NewStorageError("list", err)
	}
	sortByLastUsed(prompts)
	return prompts, nil
}

func (h *Handler) Get(ctx context.Context, id string) (*models.SavedPrompt, error) {
	p, err := h.store.Get(ctx, id)
	if err != nil {
		return nil, h.storeError("get", id, err)
	}
	return p, nil
}

// Create saves a prompt with a generated id, name, category, description and tags.
func (h *Handler) Create(ctx context.Context, input CreateInput) (*models.SavedPrompt, error) {
	requirements := strings.TrimSpace(input.Requirements)
	if requirements == "" {
		return nil, apperrors.NewValidationError([]apperrors.FieldError{
			{Field: "requirements", Message: "requirements are required"},
		})
	}
	answers := input.FollowUpAnswers
	if answers == nil {
		answers = map[string]string{}
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		name = GenerateName(requirements)
	}
	now := h.now().UTC()
	prompt := models.SavedPrompt{
		ID:              h.newID(),
		Name:            name,
		Description:     Describe(requirements, answers),
		Category:        Categorize(requirements, answers),
		Requirements:    requirements,
		FollowUpAnswers: answers,
		LLMProvider:     input.LLMProvider,
		Tags:            ExtractTags(requirements, answers, h.config.MaxTags),
		CreatedAt:       now,
		LastUsed:        now,
		UsageCount:      1,
	}
	if err := h.store.Insert(ctx, prompt); err != nil {
		return nil, apperrors.NewStorageError("create", err)
	}
	h.index(ctx, prompt)

	h.logger.Info("prompt saved", map[string]interface{}{
		"promptId": prompt.ID,
		"name":     prompt.Name,
		"category": prompt.Category,
	})
	return &prompt, nil
}

// Update applies the given fields and counts as a use.
func (h *Handler) Update(ctx context.Context, id string, input UpdateInput) (*models.SavedPrompt, error) {
	p, err := h.store.Get(ctx, id)
	if err != nil {
		return nil, h.storeError("update", id, err)
	}

	if input.Name != nil {
		p.Name = *input.Name
	}
	if input.Description != nil {
		p.Description = *input.Description
	}
	if input.Category != nil {
		p.Category = *input.Category
	}
	if input.Requirements != nil {
		p.Requirements = *input.Requirements
	}
	if input.FollowUpAnswers != nil {
		p.FollowUpAnswers = input.FollowUpAnswers
	}
	if input.LLMProvider != nil {
		p.LLMProvider = *input.LLMProvider
	}
	if input.Tags != nil {
		tags := input.Tags
		if len(tags) > h.config.MaxTags {
			tags = tags[:h.config.MaxTags]
		}
		p.Tags = tags
	}
	h.touch(p)

	if err := h.store.Update(ctx, *p); err != nil {
		return nil, h.storeError("update", id, err)
	}
	h.index(ctx, *p)
	return p, nil
}

// Use records that a saved prompt was loaded again.
func (h *Handler) Use(ctx context.Context, id string) (*models.SavedPrompt, error) {
	p, err := h.store.Get(ctx, id)
	if err != nil {
		return nil, h.storeError("use", id, err)
	}
	h.touch(p)
	if err := h.store.Update(ctx, *p); err != nil {
		return nil, h.storeError("use", id, err)
	}
	return p, nil
}

func (h *Handler) Delete(ctx context.Context, id string) error {
	if err := h.store.Delete(ctx, id); err != nil {
		return h.storeError("delete", id, err)
	}
	if h.suggester != nil {
		if err := h.suggester.Remove(ctx, id); err != nil {
			h.logger.Warn("failed to remove prompt from suggestions index", map[string]interface{}{
				"promptId": id,
				"error":    err.Error(),
			})
		}
	}
	return nil
}

// Suggestions returns frequent phrases from saved prompts related to partial.
func (h *Handler) Suggestions(ctx context.Context, partial string) ([]string, error) {
	if h.suggester != nil {
		phrases, err := h.suggester.Suggest(ctx, partial, h.config.MaxSuggestions)
		if err == nil {
			return phrases, nil
		}
		h.logger.Warn("suggestions index unavailable, using stored prompts", map[string]interface{}{
			"error": err.Error(),
		})
	}

	prompts, err := h.store.List(ctx)
	if err != nil {
		return nil, apperrors.NewStorageError("suggestions", err)
	}
	texts := make([]string, 0, len(prompts))
	for _, p := range prompts {
		texts = append(texts, p.Requirements)
	}
	return TopPhrases(texts, partial, h.config.PhraseLength, h.config.MaxSuggestions), nil
}

func (h *Handler) touch(p *models.SavedPrompt) {
	p.LastUsed = h.now().UTC()
	p.UsageCount++
}

func (h *Handler) index(ctx context.Context, p models.SavedPrompt) {
	if h.suggester == nil {
		return
	}
	if err := h.suggester.Index(ctx, p); err != nil {
		h.logger.Warn("failed to index prompt", map[string]interface{}{
			"promptId": p.ID,
			"error":    err.Error(),
		})
	}
}

func (h *Handler) storeError(op, id string, err error) error {
	if errors.Is(err, ErrPromptNotFound) {
		return apperrors.NewNotFoundError("saved prompt", id)
	}
	return apperrors.NewStorageError(op, err)
}
