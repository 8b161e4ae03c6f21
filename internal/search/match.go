package search

import (
	"regexp"
	"strings"

	"github.com/sahilm/fuzzy"
)

// Match rule scores. Fuzzy name matches use the algorithm's native score;
// the fixed tiers below rank regex above name-substring above path-substring.
const (
	regexPathScore     = 50
	nameSubstringScore = 40
	pathSubstringScore = 30
	localSubstringOnly = 25
)

// Query is a typed search pattern compiled once per search invocation.
// Lower-casing happens here, at match time, never cached across strategy
// switches.
type Query struct {
	raw   string
	lower string
	// re is non-nil only when the raw pattern is valid regex syntax.
	// An invalid pattern means "no regex rule", never an error.
	re *regexp.Regexp
}

// NewQuery compiles pattern into a Query.
func NewQuery(pattern string) Query {
	q := Query{
		raw:   pattern,
		lower: strings.ToLower(pattern),
	}
	if re, err := regexp.Compile(pattern); err == nil {
		q.re = re
	}
	return q
}

// IsEmpty reports whether the pattern is empty.
func (q Query) IsEmpty() bool {
	return q.raw == ""
}

// Evaluate applies the scoring policy in priority order, first success wins:
//
//  1. fuzzy subsequence of the pattern in name (original casing) -> native score, ByName
//  2. valid regex matching the full path -> 50, ByPath
//  3. case-insensitive substring in the path -> 40 if also in name else 30, ByPath
//
// It is a pure function and safe to call from any goroutine.
func Evaluate(name, path string, q Query) (int64, MatchKind, bool) {
	if score, ok := fuzzyScore(name, q.raw); ok {
		return score, ByName, true
	}
	if q.re != nil && q.re.MatchString(path) {
		return regexPathScore, ByPath, true
	}
	if strings.Contains(strings.ToLower(path), q.lower) {
		if strings.Contains(strings.ToLower(name), q.lower) {
			return nameSubstringScore, ByPath, true
		}
		return pathSubstringScore, ByPath, true
	}
	return 0, 0, false
}

// Prefilter reports whether the entry has any chance of matching, using only
// strings already in hand. It is a superset test: it never rejects anything
// Evaluate would accept, so dropped entries skip Entry construction entirely.
func Prefilter(name, path string, q Query) bool {
	if strings.Contains(strings.ToLower(name), q.lower) ||
		strings.Contains(strings.ToLower(path), q.lower) {
		return true
	}
	if q.re != nil && q.re.MatchString(path) {
		return true
	}
	_, ok := fuzzyScore(name, q.raw)
	return ok
}

// fuzzyScore runs the subsequence matcher against a single candidate.
func fuzzyScore(text, pattern string) (int64, bool) {
	if pattern == "" || text == "" {
		return 0, false
	}
	matches := fuzzy.Find(pattern, []string{text})
	if len(matches) == 0 {
		return 0, false
	}
	return int64(matches[0].Score), true
}
