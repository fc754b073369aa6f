// internal/workers/prompts/saved-prompts/store.go
package savedprompts

import (
	"context"
	"errors"
	"sort"
	"sync"

	"oci-bom-generator/internal/models"
)

var ErrPromptNotFound = errors.New("PROMPT_NOT_FOUND")

// Store persists saved prompts. Get, Update and Delete return
// ErrPromptNotFound for an unknown id.
type Store interface {
	List(ctx context.Context) ([]models.SavedPrompt, error)
	Get(ctx context.Context, id string) (*models.SavedPrompt, error)
	Insert(ctx context.Context, prompt models.SavedPrompt) error
	Update(ctx context.Context, prompt models.SavedPrompt) error
	Delete(ctx context.Context, id string) error
}

type MemoryStore struct {
	mu      sync.RWMutex
	prompts map[string]models.SavedPrompt
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{prompts: make(map[string]models.SavedPrompt)}
}

func (s *MemoryStore) List(ctx context.Context) ([]models.SavedPrompt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.SavedPrompt, 0, len(s.prompts))
	for _, p := range s.prompts {
		out = append(out, clonePrompt(p))
	}
	sortByLastUsed(out)
	return out, nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*models.SavedPrompt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.prompts[id]
	if !ok {
		return nil, ErrPromptNotFound
	}
	p = clonePrompt(p)
	return &p, nil
}

func (s *MemoryStore) Insert(ctx context.Context, prompt models.SavedPrompt) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prompts[prompt.ID] = clonePrompt(prompt)
	return nil
}

func (s *MemoryStore) Update(ctx context.Context, prompt models.SavedPrompt) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.prompts[prompt.ID]; !ok {
		return ErrPromptNotFound
	}
	s.prompts[prompt.ID] = clonePrompt(prompt)
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.prompts[id]; !ok {
		return ErrPromptNotFound
	}
	delete(s.prompts, id)
	return nil
}

// sortByLastUsed orders most recently used first. A prompt never used sorts by
// its creation time.
func sortByLastUsed(prompts []models.SavedPrompt) {
	recency := func(p models.SavedPrompt) int64 {
		if p.LastUsed.IsZero() {
			return p.CreatedAt.UnixNano()
		}
		return p.LastUsed.UnixNano()
	}
	sort.SliceStable(prompts, func(i, j int) bool {
		ri, rj := recency(prompts[i]), recency(prompts[j])
		if ri != rj {
			return ri > rj
		}
		return prompts[i].ID < prompts[j].ID
	})
}

func clonePrompt(p models.SavedPrompt) models.SavedPrompt {
	if p.FollowUpAnswers != nil {
		answers := make(map[string]string, len(p.FollowUpAnswers))
		for k, v := range p.FollowUpAnswers {
			answers[k] = v
		}
		p.FollowUpAnswers = answers
	}
	p.Tags = append([]string{}, p.Tags...)
	return p
}
