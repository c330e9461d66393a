package aggregator

import "strings"

// Filter is a conjunction of tokens matched against the whitespace-separated
// fields of a serialized flow key. Tokens are compared case-sensitively and
// match whole fields, never substrings: "443" matches port 443, not an IP
// that happens to contain the digits.
type Filter struct {
	tokens []string
}

// NewFilter tokenizes the filter expression once. An empty expression
// accepts every key.
func NewFilter(expr string) *Filter {
	return &Filter{tokens: strings.Fields(expr)}
}

// Accepts reports whether every filter token appears as a field of the
// serialized key.
func (f *Filter) Accepts(serializedKey string) bool {
	if len(f.tokens) == 0 {
		return true
	}

	fields := strings.Fields(serializedKey)
	for _, token := range f.tokens {
		found := false
		for _, field := range fields {
			if field == token {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Tokens returns the tokenized filter, mainly for logging.
func (f *Filter) Tokens() []string {
	return f.tokens
}
