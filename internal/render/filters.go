package render

import "strings"

// builtinFilters are the four template filters, registered as expr-lang
// environment functions.
func builtinFilters() map[string]any {
	return map[string]any{
		"upper": func(v any) string { return strings.ToUpper(stringify(v)) },
		"lower": func(v any) string { return strings.ToLower(stringify(v)) },
		"title": func(v any) string { return strings.Title(strings.ToLower(stringify(v))) }, //nolint:staticcheck
		"length": func(v any) int {
			switch t := v.(type) {
			case string:
				return len(t)
			case []any:
				return len(t)
			case map[string]any:
				return len(t)
			default:
				return len(stringify(v))
			}
		},
	}
}
