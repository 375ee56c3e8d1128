// internal/common/validation/schema.go
package validation

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// extractionSchema describes the payload the extraction collaborator must
// return. Numeric fields may be absent (the client defaults them to zero);
// when present they must be numbers so downstream arithmetic never sees a
// string where a number belongs.
var extractionSchema = map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"name":                 map[string]interface{}{"type": "string"},
		"address":              map[string]interface{}{"type": "string"},
		"email":                map[string]interface{}{"type": "string"},
		"phone":                map[string]interface{}{"type": "string"},
		"loan_amount":          map[string]interface{}{"type": "number"},
		"loan_duration_years":  map[string]interface{}{"type": "number"},
		"monthly_income":       map[string]interface{}{"type": "number"},
		"monthly_expenses":     map[string]interface{}{"type": "number"},
		"property_description": map[string]interface{}{"type": "string"},
	},
}

// ValidateExtractionPayload checks a decoded extraction response against the
// collaborator contract. A non-nil error sends the caller down the
// defaulting branch.
func ValidateExtractionPayload(payload map[string]interface{}) error {
	schemaLoader := gojsonschema.NewGoLoader(extractionSchema)
	documentLoader := gojsonschema.NewGoLoader(payload)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("schema validation: %w", err)
	}

	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			msgs = append(msgs, desc.String())
		}
		return fmt.Errorf("extraction payload invalid: %s", strings.Join(msgs, "; "))
	}

	return nil
}
