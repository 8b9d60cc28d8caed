package render

import "errors"

var errUnterminated = errors.New("unterminated '{{' expression")
