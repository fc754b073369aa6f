// internal/common/validation/schema.go
package validation

import (
	"fmt"
	"sort"
	"strings"

	apperrors "oci-bom-generator/internal/common/errors"

	"github.com/xeipuuv/gojsonschema"
)

// Schema is a compiled JSON schema that reports failures as field errors.
type Schema struct {
	compiled *gojsonschema.Schema
}

func Compile(schema map[string]interface{}) (*Schema, error) {
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(schema))
	if err != nil {
		return nil, fmt.Errorf("invalid schema: %w", err)
	}
	return &Schema{compiled: compiled}, nil
}

// MustCompile panics on an invalid schema. Use it for package-level schemas.
func MustCompile(schema map[string]interface{}) *Schema {
	s, err := Compile(schema)
	if err != nil {
		panic(err)
	}
	return s
}

// Validate returns nil when document conforms. Errors are sorted by field.
func (s *Schema) Validate(document interface{}) []apperrors.FieldError {
	result, err := s.compiled.Validate(gojsonschema.NewGoLoader(document))
	if err != nil {
		return []apperrors.FieldError{{Field: "", Message: err.Error()}}
	}
	if result.Valid() {
		return nil
	}

	fieldErrors := make([]apperrors.FieldError, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		fieldErrors = append(fieldErrors, apperrors.FieldError{
			Field:   fieldName(desc),
			Message: desc.Description(),
		})
	}
	sort.SliceStable(fieldErrors, func(i, j int) bool {
		return fieldErrors[i].Field < fieldErrors[j].Field
	})
	return fieldErrors
}

func fieldName(desc gojsonschema.ResultError) string {
	field := desc.Field()
	if desc.Type() == "required" {
		if prop, ok := desc.Details()["property"].(string); ok {
			if field == gojsonschema.STRING_CONTEXT_ROOT {
				return prop
			}
			return field + "." + prop
		}
	}
	if field == gojsonschema.STRING_CONTEXT_ROOT {
		return ""
	}
	return strings.TrimPrefix(field, gojsonschema.STRING_CONTEXT_ROOT+".")
}
