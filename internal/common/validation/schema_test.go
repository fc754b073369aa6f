// internal/common/validation/schema_test.go
package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var requestSchema = map[string]interface{}{
	"type":     "object",
	"required": []interface{}{"requirements"},
	"properties": map[string]interface{}{
		"requirements": map[string]interface{}{"type": "string", "minLength": 10},
		"currency":     map[string]interface{}{"type": "string", "enum": []interface{}{"USD", "EUR"}},
	},
}

func TestSchema_Validate(t *testing.T) {
	schema := MustCompile(requestSchema)

	tests := []struct {
		name     string
		document map[string]interface{}
		fields   []string
	}{
		{
			name:     "valid document",
			document: map[string]interface{}{"requirements": "two compute servers", "currency": "USD"},
		},
		{
			name:     "missing required field",
			document: map[string]interface{}{},
			fields:   []string{"requirements"},
		},
		{
			name:     "short value and bad enum",
			document: map[string]interface{}{"requirements": "vm", "currency": "XYZ"},
			fields:   []string{"currency", "requirements"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := schema.Validate(tt.document)
			if len(tt.fields) == 0 {
				assert.Empty(t, errs)
				return
			}
			require.Len(t, errs, len(tt.fields))
			for i, field := range tt.fields {
				assert.Equal(t, field, errs[i].Field)
				assert.NotEmpty(t, errs[i].Message)
			}
		})
	}
}

func TestCompile_InvalidSchema(t *testing.T) {
	_, err := Compile(map[string]interface{}{"type": 42})
	assert.Error(t, err)
}
