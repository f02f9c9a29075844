package lexer

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds. Errors from parsing and from query mutators match one of
// these with errors.Is.
var (
	// ErrNilInput is returned when the query text is absent, as opposed to
	// empty.
	ErrNilInput = errors.New("query cannot be nil")

	// ErrMalformedExpression is returned for a token that is not a valid
	// name=value expression.
	ErrMalformedExpression = errors.New("malformed parameter expression")

	// ErrMalformedEscape is returned in strict mode for a '%' that does not
	// start a valid escape.
	ErrMalformedEscape = errors.New("malformed percent-encoding")

	// ErrInvalidName is returned by mutators given a blank parameter name.
	ErrInvalidName = errors.New("invalid parameter name")

	// ErrLimitExceeded is returned when input exceeds the configured Limits.
	ErrLimitExceeded = errors.New("limit exceeded")
)

// ParseError describes a failure at a specific token of a query string.
type ParseError struct {
	Kind    error  // one of the Err* kinds above
	Token   string // exact offending raw token, empty for whole-input failures
	Offset  int    // byte offset of Token in the input
	Message string // human-readable description
	Context string // surrounding input for debugging
}

// Error returns the message followed by the position and input context.
func (e *ParseError) Error() string {
	return fmt.Sprintf("%s at offset %d (near: %q)", e.Message, e.Offset, e.Context)
}

// Unwrap exposes the error kind to errors.Is.
func (e *ParseError) Unwrap() error {
	return e.Kind
}

// ValidateName returns an ErrInvalidName error if name is empty or
// consists only of whitespace.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("'%s' is not a valid parameter name: %w", name, ErrInvalidName)
	}
	return nil
}
