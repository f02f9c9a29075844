package lexer

// Limits defines configurable bounds for query parsing.
// A zero value for any numeric limit means no limit.
type Limits struct {
	// MaxInputLength is the maximum total query length in bytes.
	// Default: 65536 (64KB)
	MaxInputLength int

	// MaxParameters is the maximum number of parameter expressions.
	// Default: 10000, the same bound net/url applies by default
	MaxParameters int

	// MaxNameLength is the maximum decoded length of a parameter name.
	// Default: 1024
	MaxNameLength int

	// StrictEscapes rejects a '%' that does not start a valid %XX escape
	// instead of keeping it literally.
	StrictEscapes bool
}

// DefaultLimits returns the limits used by the package-level Parse
// functions. They accept any realistic URL while bounding the work done
// on hostile input.
func DefaultLimits() Limits {
	return Limits{
		MaxInputLength: 65536,
		MaxParameters:  10000,
		MaxNameLength:  1024,
	}
}

// NoLimits returns a Limits struct with all limits disabled.
// Use only for trusted input.
func NoLimits() Limits {
	return Limits{}
}
