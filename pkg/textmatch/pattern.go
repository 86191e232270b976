// Package textmatch compiles user-supplied literal or regex queries and
// extracts bounded context snippets around every match. It is the shared
// matching core for network search, response download matching, and grep.
package textmatch

import (
	"fmt"
	"regexp"
)

// InvalidPatternError reports a query that failed to compile as a regular
// expression. The engine diagnostic is preserved verbatim so the caller can
// surface it to the user as-is.
type InvalidPatternError struct {
	Query string
	Err   error
}

func (e *InvalidPatternError) Error() string {
	return fmt.Sprintf("invalid regex pattern %q: %v", e.Query, e.Err)
}

func (e *InvalidPatternError) Unwrap() error { return e.Err }

// Pattern is a compiled, case-insensitive matcher. A *regexp.Regexp carries
// no iteration state, so a Pattern is safe to share; every Extract call keeps
// its own scan offset.
type Pattern struct {
	re *regexp.Regexp
}

// Compile turns a query into a Pattern. When isRegex is false every regex
// metacharacter in the query is neutralized first, so the query matches
// literally. Matching is always case-insensitive.
func Compile(query string, isRegex bool) (*Pattern, error) {
	expr := query
	if !isRegex {
		expr = regexp.QuoteMeta(query)
	}

	re, err := regexp.Compile("(?i)" + expr)
	if err != nil {
		return nil, &InvalidPatternError{Query: query, Err: err}
	}
	return &Pattern{re: re}, nil
}

// MatchString reports whether the pattern matches anywhere in s.
func (p *Pattern) MatchString(s string) bool {
	return p.re.MatchString(s)
}

// String returns the compiled expression, including the case-insensitivity
// prefix.
func (p *Pattern) String() string {
	return p.re.String()
}
