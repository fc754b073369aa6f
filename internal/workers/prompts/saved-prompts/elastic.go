// internal/workers/prompts/saved-prompts/elastic.go
package savedprompts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"oci-bom-generator/internal/models"
)

const IndexMapping = `{
  "mappings": {
    "properties": {
      "requirements": {"type": "text"},
      "name":         {"type": "text"},
      "category":     {"type": "keyword"},
      "tags":         {"type": "keyword"},
      "lastUsed":     {"type": "date"}
    }
  }
}`

// Suggester finds phrases from earlier prompts that continue partial text.
type Suggester interface {
	Index(ctx context.Context, prompt models.SavedPrompt) error
	Remove(ctx context.Context, id string) error
	Suggest(ctx context.Context, partial string, limit int) ([]string, error)
}

// ElasticIndex keeps prompt requirements searchable in Elasticsearch.
type ElasticIndex struct {
	client       *elasticsearch.Client
	index        string
	phraseLength int
}

func NewElasticIndex(client *elasticsearch.Client, index string, phraseLength int) *ElasticIndex {
	if phraseLength <= 0 {
		phraseLength = 3
	}
	return &ElasticIndex{client: client, index: index, phraseLength: phraseLength}
}

type indexedPrompt struct {
	Requirements string   `json:"requirements"`
	Name         string   `json:"name"`
	Category     string   `json:"category"`
	Tags         []string `json:"tags"`
	LastUsed     string   `json:"lastUsed"`
}

func (e *ElasticIndex) Index(ctx context.Context, p models.SavedPrompt) error {
	body, err := json.Marshal(indexedPrompt{
		Requirements: p.Requirements,
		Name:         p.Name,
		Category:     p.Category,
		Tags:         p.Tags,
		LastUsed:     p.LastUsed.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return err
	}
	req := esapi.IndexRequest{
		Index:      e.index,
		DocumentID: p.ID,
		Body:       bytes.NewReader(body),
		Refresh:    "true",
	}
	res, err := req.Do(ctx, e.client)
	if err != nil {
		return fmt.Errorf("index prompt: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("index prompt failed: %s", res.String())
	}
	return nil
}

func (e *ElasticIndex) Remove(ctx context.Context, id string) error {
	req := esapi.DeleteRequest{Index: e.index, DocumentID: id}
	res, err := req.Do(ctx, e.client)
	if err != nil {
		return fmt.Errorf("remove prompt: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("remove prompt failed: %s", res.String())
	}
	return nil
}

// Suggest runs a phrase-prefix query on requirements and ranks phrases from the hits.
func (e *ElasticIndex) Suggest(ctx context.Context, partial string, limit int) ([]string, error) {
	query := map[string]interface{}{"match_all": map[string]interface{}{}}
	if partial != "" {
		query = map[string]interface{}{
			"match_phrase_prefix": map[string]interface{}{
				"requirements": map[string]interface{}{"query": partial},
			},
		}
	}
	body, err := json.Marshal(map[string]interface{}{
		"size":    50,
		"query":   query,
		"_source": []string{"requirements"},
	})
	if err != nil {
		return nil, err
	}

	req := esapi.SearchRequest{
		Index: []string{e.index},
		Body:  bytes.NewReader(body),
	}
	res, err := req.Do(ctx, e.client)
	if err != nil {
		return nil, fmt.Errorf("suggest search: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("suggest search failed: %s", res.String())
	}

	var r struct {
		Hits struct {
			Hits []struct {
				Source struct {
					Requirements string `json:"requirements"`
				} `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("decode suggest response: %w", err)
	}

	texts := make([]string, 0, len(r.Hits.Hits))
	for _, hit := range r.Hits.Hits {
		texts = append(texts, hit.Source.Requirements)
	}
	return TopPhrases(texts, partial, e.phraseLength, limit), nil
}
