// internal/models/prompt.go
package models

import "time"

type SavedPrompt struct {
	ID              string            `json:"id"`
	Name            string            `json:"name"`
	Description     string            `json:"description"`
	Category        string            `json:"category"`
	Requirements    string            `json:"requirements"`
	FollowUpAnswers map[string]string `json:"followUpAnswers,omitempty"`
	LLMProvider     string            `json:"llmProvider"`
	Tags            []string          `json:"tags"`
	CreatedAt       time.Time         `json:"createdAt"`
	LastUsed        time.Time         `json:"lastUsed"`
	UsageCount      int               `json:"usageCount"`
}
