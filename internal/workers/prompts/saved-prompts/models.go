// internal/workers/prompts/saved-prompts/models.go
package savedprompts

// CreateInput is a prompt to remember. Name is generated when empty.
type CreateInput struct {
	Name            string            `json:"name,omitempty"`
	Requirements    string            `json:"requirements"`
	FollowUpAnswers map[string]string `json:"followUpAnswers,omitempty"`
	LLMProvider     string            `json:"llmProvider,omitempty"`
}

// UpdateInput carries the fields to change. Nil fields are left alone.
type UpdateInput struct {
	Name            *string           `json:"name,omitempty"`
	Description     *string           `json:"description,omitempty"`
	Category        *string           `json:"category,omitempty"`
	Requirements    *string           `json:"requirements,omitempty"`
	FollowUpAnswers map[string]string `json:"followUpAnswers,omitempty"`
	LLMProvider     *string           `json:"llmProvider,omitempty"`
	Tags            []string          `json:"tags,omitempty"`
}
