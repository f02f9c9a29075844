// Package query implements a mutable URI query built from a set of
// unique name/value pairs.
//
// A Query holds at most one copy of each (name, value) pair. A name with
// several values is a multi-value parameter and is encoded in bracket
// form:
//
//	q := query.New().
//	    Append("tag", "a", "b").
//	    With("page", "2")
//	q.Encode() // "?tag[]=a&tag[]=b&page=2"
//
// A Query is not safe for concurrent use. Callers sharing one across
// goroutines must synchronize access themselves.
package query

import (
	"sort"
	"strings"

	"github.com/forcebit/uriquery-go/pkg/lexer"
	"github.com/forcebit/uriquery-go/pkg/percent"
)

// Pair is one name/value parameter. Pairs are compared by value, so two
// pairs with the same name and value are the same set element.
type Pair struct {
	Name  string
	Value string
}

// Query is a set of unique Pairs with fluent mutators.
//
// Mutators given a blank name leave the query unchanged and record the
// error; Err reports the first such error.
type Query struct {
	pairs []Pair            // insertion order
	index map[Pair]struct{} // membership
	err   error
}

// New returns an empty Query.
func New() *Query {
	return &Query{
		index: make(map[Pair]struct{}),
	}
}

// Parse builds a Query from query text using lexer.DefaultLimits.
// Repeated identical pairs collapse into one.
//
// Returns an error matching lexer.ErrMalformedExpression for the first
// invalid token; no Query is returned in that case.
func Parse(text string) (*Query, error) {
	return ParseWithLimits(text, lexer.DefaultLimits())
}

// ParseWithLimits is Parse with caller-supplied limits.
func ParseWithLimits(text string, limits lexer.Limits) (*Query, error) {
	exprs, err := lexer.Tokenize(text, limits)
	if err != nil {
		return nil, err
	}

	q := New()
	for _, expr := range exprs {
		q.add(Pair{Name: expr.Name, Value: expr.Value})
	}
	return q, nil
}

// ParseBytes is Parse over a byte slice. A nil slice is absent input and
// fails with lexer.ErrNilInput; an empty non-nil slice is an empty query.
func ParseBytes(data []byte) (*Query, error) {
	if data == nil {
		return nil, lexer.ErrNilInput
	}
	return Parse(string(data))
}

// FromValues builds a Query from a name to values mapping. Names are
// added in sorted order so the result is deterministic. A name with an
// empty list becomes the single pair (name, "").
func FromValues(values map[string][]string) (*Query, error) {
	q := New()
	for _, name := range sortedNames(values) {
		if len(values[name]) == 0 {
			q.Append(name, "")
			continue
		}
		q.Append(name, values[name]...)
	}
	if q.err != nil {
		return nil, q.err
	}
	return q, nil
}

// With replaces every value of name with values. Calling With with no
// values removes name.
func (q *Query) With(name string, values ...string) *Query {
	if !q.checkName(name) {
		return q
	}
	q.removeName(name)
	for _, value := range values {
		q.add(Pair{Name: name, Value: value})
	}
	return q
}

// Append adds values to name, keeping existing ones.
func (q *Query) Append(name string, values ...string) *Query {
	if !q.checkName(name) {
		return q
	}
	for _, value := range values {
		q.add(Pair{Name: name, Value: value})
	}
	return q
}

// Without removes every pair named name.
func (q *Query) Without(name string) *Query {
	if !q.checkName(name) {
		return q
	}
	q.removeName(name)
	return q
}

// WithoutValues removes the pairs (name, v) for each v in values. Values
// not present are ignored.
func (q *Query) WithoutValues(name string, values ...string) *Query {
	if !q.checkName(name) {
		return q
	}
	for _, value := range values {
		q.remove(Pair{Name: name, Value: value})
	}
	return q
}

// Err returns the first error recorded by a mutator, if any.
func (q *Query) Err() error {
	return q.err
}

// Len returns the number of pairs.
func (q *Query) Len() int {
	return len(q.pairs)
}

// Has reports whether any pair is named name.
func (q *Query) Has(name string) bool {
	for _, p := range q.pairs {
		if p.Name == name {
			return true
		}
	}
	return false
}

// Get returns the values of name in insertion order, or nil.
func (q *Query) Get(name string) []string {
	var values []string
	for _, p := range q.pairs {
		if p.Name == name {
			values = append(values, p.Value)
		}
	}
	return values
}

// Parameters returns a copy of the pairs. The order is stable for a given
// sequence of mutations but carries no meaning.
func (q *Query) Parameters() []Pair {
	out := make([]Pair, len(q.pairs))
	copy(out, q.pairs)
	return out
}

// ToValues returns the pairs as a name to values mapping.
func (q *Query) ToValues() map[string][]string {
	values := make(map[string][]string)
	for _, p := range q.pairs {
		values[p.Name] = append(values[p.Name], p.Value)
	}
	return values
}

// Encode serializes the query.
//
// Pairs are grouped by name, each group placed where its name first
// occurs. A name with more than one value is written as name[]=value for
// every value. The result starts with '?' unless the query is empty, in
// which case it is "".
func (q *Query) Encode() string {
	if len(q.pairs) == 0 {
		return ""
	}

	var names []string
	groups := make(map[string][]string)
	for _, p := range q.pairs {
		if _, seen := groups[p.Name]; !seen {
			names = append(names, p.Name)
		}
		groups[p.Name] = append(groups[p.Name], p.Value)
	}

	var sb strings.Builder
	sb.WriteByte('?')

	first := true
	for _, name := range names {
		values := groups[name]
		escapedName := percent.Escape(name)
		for _, value := range values {
			if !first {
				sb.WriteByte('&')
			}
			first = false

			sb.WriteString(escapedName)
			if len(values) > 1 {
				sb.WriteString("[]")
			}
			sb.WriteByte('=')
			sb.WriteString(percent.Escape(value))
		}
	}

	return sb.String()
}

// String returns Encode.
func (q *Query) String() string {
	return q.Encode()
}

func (q *Query) checkName(name string) bool {
	if err := lexer.ValidateName(name); err != nil {
		if q.err == nil {
			q.err = err
		}
		return false
	}
	return true
}

func (q *Query) add(p Pair) {
	if q.index == nil {
		q.index = make(map[Pair]struct{})
	}
	if _, exists := q.index[p]; exists {
		return
	}
	q.index[p] = struct{}{}
	q.pairs = append(q.pairs, p)
}

func (q *Query) remove(p Pair) {
	if _, exists := q.index[p]; !exists {
		return
	}
	delete(q.index, p)
	for i, existing := range q.pairs {
		if existing == p {
			q.pairs = append(q.pairs[:i], q.pairs[i+1:]...)
			return
		}
	}
}

func (q *Query) removeName(name string) {
	kept := q.pairs[:0]
	for _, p := range q.pairs {
		if p.Name == name {
			delete(q.index, p)
			continue
		}
		kept = append(kept, p)
	}
	q.pairs = kept
}

func sortedNames(values map[string][]string) []string {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
