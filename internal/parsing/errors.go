package parsing

import (
	"errors"
	"fmt"
)

// ErrNoObject is returned when a reply contains no syntactically valid JSON object
var ErrNoObject = errors.New("no JSON object found")

// ParseError represents a model reply that could not be decoded into the requested shape
type ParseError struct {
	Message string
	Cause   error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("parse error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("parse error: %s", e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}
