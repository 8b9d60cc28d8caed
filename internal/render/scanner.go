package render

// segment is one piece of a parsed template: either literal text to copy
// verbatim, or an expression to evaluate and substitute.
type segment struct {
	literal    string
	expression string // non-empty (or literal empty) iff isExpr
	isExpr     bool
}

// scan splits a template string into literal and `{{ ... }}` expression
// segments. It is a minimal hand-rolled scanner narrowed to the two tokens
// this template language actually needs: the `{{`/`}}` delimiters
// bracketing an expression, with everything else literal text.
func scan(template string) ([]segment, error) {
	var segments []segment
	i := 0
	n := len(template)

	for i < n {
		start := indexOf(template, i, "{{")
		if start < 0 {
			segments = append(segments, segment{literal: template[i:]})
			break
		}
		if start > i {
			segments = append(segments, segment{literal: template[i:start]})
		}
		end := indexOf(template, start+2, "}}")
		if end < 0 {
			return nil, errUnterminated
		}
		segments = append(segments, segment{expression: trimSpace(template[start+2 : end]), isExpr: true})
		i = end + 2
	}

	return segments, nil
}

func indexOf(s string, from int, sub string) int {
	if from > len(s) {
		return -1
	}
	idx := indexAfter(s[from:], sub)
	if idx < 0 {
		return -1
	}
	return from + idx
}

func indexAfter(s, sub string) int {
	n, m := len(s), len(sub)
	if m == 0 {
		return 0
	}
	for i := 0; i+m <= n; i++ {
		if s[i:i+m] == sub {
			return i
		}
	}
	return -1
}

func trimSpace(s string) string {
	start, end := 0, len(s)
	for start < end && isSpace(s[start]) {
		start++
	}
	for end > start && isSpace(s[end-1]) {
		end--
	}
	return s[start:end]
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}
