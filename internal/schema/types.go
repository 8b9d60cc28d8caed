// Package schema coerces the template resolver's string outputs into typed
// JSON values according to a component's declared input schema. It also
// offers an optional full-document JSON Schema validation pass.
package schema

// Type is a JSON Schema primitive type extracted from an input schema
// property.
type Type string

const (
	TypeString  Type = "string"
	TypeNumber  Type = "number"
	TypeInteger Type = "integer"
	TypeBoolean Type = "boolean"
	TypeNull    Type = "null"
	TypeArray   Type = "array"
	TypeObject  Type = "object"
)

// ExtractTypes reads a component's input JSON Schema (an object with a
// "properties" map) and returns each declared property's primitive type.
// Only flat "properties"-style schemas are handled; unrecognized or missing
// "type" values default to TypeString, matching the original's behavior.
func ExtractTypes(jsonSchema map[string]any) map[string]Type {
	types := make(map[string]Type)

	props, ok := jsonSchema["properties"].(map[string]any)
	if !ok {
		return types
	}

	for name, raw := range props {
		propSchema, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		typeStr, _ := propSchema["type"].(string)
		types[name] = fromString(typeStr)
	}

	return types
}

func fromString(s string) Type {
	switch Type(s) {
	case TypeString, TypeNumber, TypeInteger, TypeBoolean, TypeNull, TypeArray, TypeObject:
		return Type(s)
	default:
		return TypeString
	}
}
