// Package percent implements percent-encoding for URI query components.
//
// Escape produces the RFC 3986 data-string form: every byte outside the
// unreserved set (ALPHA / DIGIT / "-" / "." / "_" / "~") is written as
// %XX with uppercase hex digits, and space is %20 rather than '+'.
package percent

import (
	"fmt"
	"net/url"
	"strings"
)

// Escape percent-encodes s for use as a query parameter name or value.
//
// url.QueryEscape already escapes everything outside the unreserved set;
// the only difference is that it writes space as '+'. A literal '+' is
// itself escaped to %2B, so every '+' left in the output is a space.
func Escape(s string) string {
	escaped := url.QueryEscape(s)
	if strings.IndexByte(escaped, '+') < 0 {
		return escaped
	}
	return strings.ReplaceAll(escaped, "+", "%20")
}

// Unescape decodes %XX sequences in s.
//
// A '%' not followed by two hex digits is kept as-is, and '+' is not
// decoded to space. Unescape never fails.
func Unescape(s string) string {
	n := strings.IndexByte(s, '%')
	if n < 0 {
		return s
	}

	var sb strings.Builder
	sb.Grow(len(s))
	sb.WriteString(s[:n])

	for i := n; i < len(s); {
		c := s[i]
		if c == '%' && i+2 < len(s) && isHex(s[i+1]) && isHex(s[i+2]) {
			sb.WriteByte(unhex(s[i+1])<<4 | unhex(s[i+2]))
			i += 3
			continue
		}
		sb.WriteByte(c)
		i++
	}

	return sb.String()
}

// UnescapeStrict decodes %XX sequences in s and rejects any '%' that does
// not start a valid escape.
func UnescapeStrict(s string) (string, error) {
	decoded, err := url.PathUnescape(s)
	if err != nil {
		return "", fmt.Errorf("invalid percent-encoding in %q: %w", s, err)
	}
	return decoded, nil
}

// IsUnreserved reports whether c may appear unescaped in an encoded
// query component.
func IsUnreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	case c == '-', c == '_', c == '.', c == '~':
		return true
	}
	return false
}

func isHex(c byte) bool {
	switch {
	case '0' <= c && c <= '9':
		return true
	case 'a' <= c && c <= 'f':
		return true
	case 'A' <= c && c <= 'F':
		return true
	}
	return false
}

func unhex(c byte) byte {
	switch {
	case '0' <= c && c <= '9':
		return c - '0'
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10
	}
	return 0
}
