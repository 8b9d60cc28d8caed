package schema

import (
	"encoding/json"
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// ValidationError describes one gojsonschema complaint about a document.
type ValidationError struct {
	Field       string `json:"field"`
	Type        string `json:"type"`
	Description string `json:"description"`
}

// ValidateDocument validates an arbitrary document against a full JSON
// Schema, as an optional pass a component may request alongside (not
// instead of) per-input coercion. Grounded on
// pkg/executor/schema_validator.go, which wraps gojsonschema.Validate the
// same way.
func ValidateDocument(jsonSchema map[string]any, document any) (bool, []ValidationError, error) {
	schemaBytes, err := json.Marshal(jsonSchema)
	if err != nil {
		return false, nil, fmt.Errorf("invalid schema: %w", err)
	}
	docBytes, err := json.Marshal(document)
	if err != nil {
		return false, nil, fmt.Errorf("invalid document: %w", err)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schemaBytes),
		gojsonschema.NewBytesLoader(docBytes),
	)
	if err != nil {
		return false, nil, fmt.Errorf("schema validation: %w", err)
	}

	if result.Valid() {
		return true, nil, nil
	}

	errs := make([]ValidationError, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		errs = append(errs, ValidationError{
			Field:       e.Field(),
			Type:        e.Type(),
			Description: e.Description(),
		})
	}
	return false, errs, nil
}
