// Package lexer splits URI query strings into parameter expressions and
// validates them.
//
// A query is a '&'-separated list of name=value tokens with an optional
// leading '?'. Empty tokens are skipped. Each token must contain exactly
// one '=' with a non-empty left side. Trailing '[' and ']' characters are
// stripped from the name so that "name[]=value" and "name=value" describe
// the same parameter. Names and values are percent-decoded.
package lexer

import (
	"fmt"
	"strings"

	"github.com/forcebit/uriquery-go/pkg/percent"
)

// Expression is one validated name=value token.
type Expression struct {
	Raw   string // token as it appeared in the input
	Name  string // decoded name with any []-suffix removed
	Value string // decoded value
}

// Tokenizer walks a query string token by token.
// It keeps the immutable input and the current byte offset.
type Tokenizer struct {
	data    string
	offset  int
	count   int
	started bool
	limits  Limits
}

// NewTokenizer creates a tokenizer over query. At most one leading '?' is
// skipped.
//
// Example:
//
//	tok := lexer.NewTokenizer("?a=1&b[]=2", lexer.DefaultLimits())
//	for {
//	    expr, ok, err := tok.Next()
//	    if err != nil || !ok {
//	        break
//	    }
//	    // use expr.Name, expr.Value
//	}
func NewTokenizer(query string, limits Limits) *Tokenizer {
	t := &Tokenizer{
		data:   query,
		limits: limits,
	}
	if strings.HasPrefix(query, "?") {
		t.offset = 1
	}
	return t
}

// Next returns the next expression. ok is false once the input is
// exhausted. The first invalid token stops the walk with a *ParseError.
func (t *Tokenizer) Next() (expr Expression, ok bool, err error) {
	if !t.started {
		t.started = true
		if err := t.checkInputLength(); err != nil {
			return Expression{}, false, err
		}
	}

	// Skip empty tokens
	for t.offset < len(t.data) && t.data[t.offset] == '&' {
		t.offset++
	}
	if t.offset >= len(t.data) {
		return Expression{}, false, nil
	}

	start := t.offset
	end := strings.IndexByte(t.data[start:], '&')
	if end < 0 {
		end = len(t.data)
	} else {
		end += start
	}
	t.offset = end

	if t.limits.MaxParameters > 0 && t.count >= t.limits.MaxParameters {
		return Expression{}, false, t.newParseError(ErrLimitExceeded, start, "",
			fmt.Sprintf("parameter count %d exceeds limit %d", t.count+1, t.limits.MaxParameters))
	}
	t.count++

	expr, err = t.parseToken(t.data[start:end], start)
	if err != nil {
		return Expression{}, false, err
	}
	return expr, true, nil
}

// Tokenize returns every expression in query, or the first error.
func Tokenize(query string, limits Limits) ([]Expression, error) {
	t := NewTokenizer(query, limits)

	var exprs []Expression
	for {
		expr, ok, err := t.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return exprs, nil
		}
		exprs = append(exprs, expr)
	}
}

// Split strips at most one leading '?' from query and returns its
// non-empty '&'-separated tokens without validating them.
func Split(query string) []string {
	query = strings.TrimPrefix(query, "?")

	var tokens []string
	for _, token := range strings.Split(query, "&") {
		if token != "" {
			tokens = append(tokens, token)
		}
	}
	return tokens
}

// ParseExpression validates a single token and decodes its name and value
// using lenient percent-decoding.
func ParseExpression(token string) (Expression, error) {
	t := &Tokenizer{data: token}
	return t.parseToken(token, 0)
}

func (t *Tokenizer) parseToken(token string, offset int) (Expression, error) {
	eq := strings.IndexByte(token, '=')
	if eq <= 0 || strings.IndexByte(token[eq+1:], '=') >= 0 {
		return Expression{}, t.newParseError(ErrMalformedExpression, offset, token,
			fmt.Sprintf("'%s' is not a valid parameter expression", token))
	}

	rawName := strings.TrimRight(token[:eq], "[]")
	rawValue := token[eq+1:]

	name, err := t.unescape(rawName, token, offset)
	if err != nil {
		return Expression{}, err
	}
	value, err := t.unescape(rawValue, token, offset)
	if err != nil {
		return Expression{}, err
	}

	if t.limits.MaxNameLength > 0 && len(name) > t.limits.MaxNameLength {
		return Expression{}, t.newParseError(ErrLimitExceeded, offset, token,
			fmt.Sprintf("parameter name length %d exceeds limit %d", len(name), t.limits.MaxNameLength))
	}

	return Expression{
		Raw:   token,
		Name:  name,
		Value: value,
	}, nil
}

func (t *Tokenizer) unescape(s, token string, offset int) (string, error) {
	if !t.limits.StrictEscapes {
		return percent.Unescape(s), nil
	}
	decoded, err := percent.UnescapeStrict(s)
	if err != nil {
		return "", t.newParseError(ErrMalformedEscape, offset, token,
			fmt.Sprintf("'%s' contains invalid percent-encoding", token))
	}
	return decoded, nil
}

// checkInputLength validates input length against limits.
func (t *Tokenizer) checkInputLength() error {
	if t.limits.MaxInputLength > 0 && len(t.data) > t.limits.MaxInputLength {
		return t.newParseError(ErrLimitExceeded, 0, "",
			fmt.Sprintf("input length %d exceeds limit %d", len(t.data), t.limits.MaxInputLength))
	}
	return nil
}

func (t *Tokenizer) newParseError(kind error, offset int, token, message string) *ParseError {
	return &ParseError{
		Kind:    kind,
		Token:   token,
		Offset:  offset,
		Message: message,
		Context: t.context(offset),
	}
}

// context returns a snippet of the input around offset for error
// reporting (up to 40 characters).
func (t *Tokenizer) context(offset int) string {
	start := offset - 20
	if start < 0 {
		start = 0
	}
	end := offset + 20
	if end > len(t.data) {
		end = len(t.data)
	}

	context := t.data[start:end]
	if start > 0 {
		context = "..." + context
	}
	if end < len(t.data) {
		context = context + "..."
	}

	return context
}
