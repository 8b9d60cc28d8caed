package render

import (
	"encoding/json"
	"fmt"
	"math"
)

// stringify converts an evaluated expression's result to the string form
// the template resolver returns. Non-string results of an entire template
// are stringified; whole-valued floats (the common shape of JSON numbers
// decoded into Go) render without a trailing ".0" so that round-tripping
// an integer payload through a template and back through the schema
// coercer is lossless.
func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		if t {
			return "true"
		}
		return "false"
	case float64:
		if t == math.Trunc(t) && !math.IsInf(t, 0) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%g", t)
	case int, int32, int64:
		return fmt.Sprintf("%d", t)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprintf("%v", t)
		}
		return string(b)
	}
}
