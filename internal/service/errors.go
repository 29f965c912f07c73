package service

import (
	"errors"
	"strings"
)

// ErrMalformedImport aborts an entire import: the file could not be parsed
// or has the wrong shape. No records are applied when it is returned.
var ErrMalformedImport = errors.New("import file is malformed")

type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Fields, "; ")
}
