package schema

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/fuschiarun/fuschia/internal/types"
)

// CoerceInputs converts a node's resolved string inputs to typed JSON
// values, defaulting to TypeString for any key the schema doesn't declare.
func CoerceInputs(nodeID string, resolved map[string]string, schemaTypes map[string]Type) (map[string]any, error) {
	result := make(map[string]any, len(resolved))

	for key, value := range resolved {
		t, ok := schemaTypes[key]
		if !ok {
			t = TypeString
		}
		typed, err := coerceValue(nodeID, key, value, t)
		if err != nil {
			return nil, err
		}
		result[key] = typed
	}

	return result, nil
}

func coerceValue(nodeID, key, value string, t Type) (any, error) {
	switch t {
	case TypeString:
		return value, nil

	case TypeNumber:
		n, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, &types.InputResolutionError{
				NodeID:  nodeID,
				Message: fmt.Sprintf("input %q expected number, got %q", key, value),
			}
		}
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return nil, nil
		}
		return n, nil

	case TypeInteger:
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return nil, &types.InputResolutionError{
				NodeID:  nodeID,
				Message: fmt.Sprintf("input %q expected integer, got %q", key, value),
			}
		}
		return n, nil

	case TypeBoolean:
		switch strings.ToLower(value) {
		case "true":
			return true, nil
		case "false":
			return false, nil
		default:
			return nil, &types.InputResolutionError{
				NodeID:  nodeID,
				Message: fmt.Sprintf("input %q expected boolean, got %q", key, value),
			}
		}

	case TypeNull:
		if value == "" || value == "null" {
			return nil, nil
		}
		return nil, &types.InputResolutionError{
			NodeID:  nodeID,
			Message: fmt.Sprintf("input %q expected null, got %q", key, value),
		}

	case TypeArray, TypeObject:
		var v any
		if err := json.Unmarshal([]byte(value), &v); err != nil {
			return nil, &types.InputResolutionError{
				NodeID:  nodeID,
				Message: fmt.Sprintf("input %q expected %s: %s", key, t, err),
			}
		}
		return v, nil

	default:
		return value, nil
	}
}
