// internal/api/requests.go
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"

	apperrors "oci-bom-generator/internal/common/errors"
	"oci-bom-generator/internal/common/validation"
	"oci-bom-generator/internal/models"
)

const maxJSONBody = 1 << 20

var (
	providerIDs = []interface{}{"openai", "claude", "gemini", "grok", "deepseek"}
	currencies  = []interface{}{"USD", "EUR", "GBP", "JPY", "CAD", "AUD"}
)

var generateSchema = validation.MustCompile(map[string]interface{}{
	"type":     "object",
	"required": []interface{}{"requirements", "llmProvider"},
	"properties": map[string]interface{}{
		"requirements": map[string]interface{}{"type": "string", "minLength": 10, "maxLength": 10000},
		"llmProvider":  map[string]interface{}{"type": "string", "enum": providerIDs},
		"currency":     map[string]interface{}{"type": "string", "enum": currencies},
		"region":       map[string]interface{}{"type": "string", "maxLength": 50},
		"followUpAnswers": map[string]interface{}{
			"type": "object",
		},
	},
})

var savePromptSchema = validation.MustCompile(map[string]interface{}{
	"type":     "object",
	"required": []interface{}{"requirements"},
	"properties": map[string]interface{}{
		"name":         map[string]interface{}{"type": "string", "maxLength": 200},
		"requirements": map[string]interface{}{"type": "string", "minLength": 1, "maxLength": 10000},
		"llmProvider":  map[string]interface{}{"type": "string", "enum": append([]interface{}{""}, providerIDs...)},
		"followUpAnswers": map[string]interface{}{
			"type": "object",
		},
	},
})

// generateBody is the raw generate-bom body. Answers may arrive as any JSON scalar.
type generateBody struct {
	Requirements    string                 `json:"requirements"`
	LLMProvider     string                 `json:"llmProvider"`
	FollowUpAnswers map[string]interface{} `json:"followUpAnswers"`
	Currency        string                 `json:"currency"`
	Region          string                 `json:"region"`
}

type savePromptBody struct {
	Name            string                 `json:"name"`
	Requirements    string                 `json:"requirements"`
	FollowUpAnswers map[string]interface{} `json:"followUpAnswers"`
	LLMProvider     string                 `json:"llmProvider"`
}

type suggestionsBody struct {
	PartialText string `json:"partialText"`
}

// readJSON decodes the request body into a generic document for schema
// validation and into dst.
func readJSON(r *http.Request, dst interface{}) (map[string]interface{}, error) {
	data, err := io.ReadAll(http.MaxBytesReader(nil, r.Body, maxJSONBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, apperrors.NewValidationError([]apperrors.FieldError{
				{Field: "body", Message: fmt.Sprintf("request body exceeds %d bytes", maxJSONBody)},
			})
		}
		return nil, apperrors.NewValidationError([]apperrors.FieldError{{Field: "body", Message: "unreadable request body"}})
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		data = []byte("{}")
	}

	var doc map[string]interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, apperrors.NewValidationError([]apperrors.FieldError{{Field: "body", Message: "request body must be a JSON object"}})
	}
	if dst != nil {
		if err := json.Unmarshal(data, dst); err != nil {
			field := "body"
			var typeErr *json.UnmarshalTypeError
			if errors.As(err, &typeErr) && typeErr.Field != "" {
				field = typeErr.Field
			}
			return nil, apperrors.NewValidationError([]apperrors.FieldError{
				{Field: field, Message: "has the wrong type"},
			})
		}
	}
	return doc, nil
}

// stringAnswers flattens follow-up answers to sanitized strings. Empty and
// null answers are dropped.
func stringAnswers(raw map[string]interface{}) map[string]string {
	if len(raw) == 0 {
		return nil
	}
	out := make(map[string]string, len(raw))
	for k, v := range raw {
		var s string
		switch val := v.(type) {
		case nil:
			continue
		case string:
			s = val
		case []interface{}:
			parts := make([]string, 0, len(val))
			for _, p := range val {
				parts = append(parts, fmt.Sprint(p))
			}
			s = strings.Join(parts, ", ")
		default:
			s = fmt.Sprint(val)
		}
		out[k] = s
	}
	validation.SanitizeAnswers(out)
	for k, v := range out {
		if v == "" {
			delete(out, k)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// parseGenerateRequest sanitizes the body before validating it, so length
// limits apply to what the pipeline will see.
func parseGenerateRequest(r *http.Request) (models.GenerateRequest, error) {
	var body generateBody
	doc, err := readJSON(r, &body)
	if err != nil {
		return models.GenerateRequest{}, err
	}

	body.Requirements = validation.SanitizeInput(body.Requirements)
	if _, ok := doc["requirements"].(string); ok {
		doc["requirements"] = body.Requirements
	}
	if fieldErrors := generateSchema.Validate(doc); len(fieldErrors) > 0 {
		return models.GenerateRequest{}, apperrors.NewValidationError(fieldErrors)
	}

	currency := body.Currency
	if currency == "" {
		currency = "USD"
	}
	return models.GenerateRequest{
		Requirements:    body.Requirements,
		LLMProvider:     body.LLMProvider,
		FollowUpAnswers: stringAnswers(body.FollowUpAnswers),
		Currency:        currency,
		Region:          strings.TrimSpace(body.Region),
	}, nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
