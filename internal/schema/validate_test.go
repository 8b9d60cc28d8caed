package schema

import "testing"

func TestValidateDocument_Valid(t *testing.T) {
	s := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"name": map[string]any{"type": "string"},
		},
		"required": []any{"name"},
	}
	valid, errs, err := ValidateDocument(s, map[string]any{"name": "alice"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !valid {
		t.Fatalf("expected valid, got errors: %+v", errs)
	}
}

func TestValidateDocument_Invalid(t *testing.T) {
	s := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"name": map[string]any{"type": "string"},
		},
		"required": []any{"name"},
	}
	valid, errs, err := ValidateDocument(s, map[string]any{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if valid {
		t.Fatal("expected invalid")
	}
	if len(errs) == 0 {
		t.Fatal("expected validation errors")
	}
}
