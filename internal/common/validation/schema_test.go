// internal/common/validation/schema_test.go
package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateExtractionPayload(t *testing.T) {
	tests := []struct {
		name    string
		payload map[string]interface{}
		wantErr bool
	}{
		{
			"full payload",
			map[string]interface{}{
				"name":           "Jean Dupont",
				"loan_amount":    250000.0,
				"monthly_income": 6500.0,
			},
			false,
		},
		{"empty payload", map[string]interface{}{}, false},
		{"extra fields tolerated", map[string]interface{}{"something_else": "x"}, false},
		{"numeric name", map[string]interface{}{"name": 42.0}, true},
		{"string amount", map[string]interface{}{"loan_amount": "250000"}, true},
		{"object income", map[string]interface{}{"monthly_income": map[string]interface{}{"v": 1.0}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateExtractionPayload(tt.payload)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
