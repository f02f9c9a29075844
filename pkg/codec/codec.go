// Package codec converts between URI query strings and a name to values
// mapping.
//
// Unlike package query, the codec owns no state: Parse returns a fresh
// Values and Serialize reads the caller's mapping without retaining it.
// Values keeps every occurrence of a parameter in the order it appeared.
package codec

import (
	"sort"
	"strings"

	"github.com/forcebit/uriquery-go/pkg/lexer"
	"github.com/forcebit/uriquery-go/pkg/percent"
)

// Values maps a parameter name to its values in order.
// It has the same underlying type as url.Values and converts freely.
type Values map[string][]string

// Parse decodes query text into Values using lexer.DefaultLimits.
// Both "name=a&name=b" and "name[]=a&name[]=b" yield {name: [a b]}.
//
// Returns an error matching lexer.ErrMalformedExpression for the first
// invalid token; no Values is returned in that case.
func Parse(text string) (Values, error) {
	return ParseWithLimits(text, lexer.DefaultLimits())
}

// ParseWithLimits is Parse with caller-supplied limits.
func ParseWithLimits(text string, limits lexer.Limits) (Values, error) {
	values := make(Values)

	t := lexer.NewTokenizer(text, limits)
	for {
		expr, ok, err := t.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return values, nil
		}
		values[expr.Name] = append(values[expr.Name], expr.Value)
	}
}

// ParseBytes is Parse over a byte slice. A nil slice is absent input and
// fails with lexer.ErrNilInput.
func ParseBytes(data []byte) (Values, error) {
	if data == nil {
		return nil, lexer.ErrNilInput
	}
	return Parse(string(data))
}

// Serialize encodes v as a query string. Names are written in sorted
// order. A name with one value is written as name=value, a name with
// several as name[]=value once per value, and a name with no values as
// name=. The result always starts with '?', so an empty mapping yields
// "?".
func Serialize(v Values) string {
	var sb strings.Builder
	sb.WriteByte('?')

	names := make([]string, 0, len(v))
	for name := range v {
		names = append(names, name)
	}
	sort.Strings(names)

	for i, name := range names {
		if i > 0 {
			sb.WriteByte('&')
		}
		writeParameter(&sb, percent.Escape(name), v[name])
	}

	return sb.String()
}

// Encode returns Serialize(v).
func (v Values) Encode() string {
	return Serialize(v)
}

// Get returns the first value for name, or "".
func (v Values) Get(name string) string {
	vs := v[name]
	if len(vs) == 0 {
		return ""
	}
	return vs[0]
}

// Set replaces the values for name with value.
func (v Values) Set(name, value string) {
	v[name] = []string{value}
}

// Add appends value to name.
func (v Values) Add(name, value string) {
	v[name] = append(v[name], value)
}

// Del removes name.
func (v Values) Del(name string) {
	delete(v, name)
}

// Has reports whether name is present, even with no values.
func (v Values) Has(name string) bool {
	_, ok := v[name]
	return ok
}

func writeParameter(sb *strings.Builder, name string, values []string) {
	switch len(values) {
	case 0:
		sb.WriteString(name)
		sb.WriteByte('=')
	case 1:
		sb.WriteString(name)
		sb.WriteByte('=')
		sb.WriteString(percent.Escape(values[0]))
	default:
		for i, value := range values {
			if i > 0 {
				sb.WriteByte('&')
			}
			sb.WriteString(name)
			sb.WriteString("[]=")
			sb.WriteString(percent.Escape(value))
		}
	}
}
