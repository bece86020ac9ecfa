// Package filter evaluates text patterns against log lines.
//
// Two modes: literal (case-insensitive substring) and regex. An invalid
// regex never fails filtering; it degrades to literal containment of the
// raw pattern so typing an unfinished expression keeps the view usable.
package filter

import (
	"regexp"
	"strings"
)

// MatchRange is a half-open byte range of a match within a line
type MatchRange struct {
	Start int
	End   int
}

// Filter is an immutable compiled pattern. Build a new one whenever the
// pattern or mode changes; never mutate in place.
type Filter struct {
	// Pattern is the raw pattern string as entered
	Pattern string
	// IsRegex reports whether the pattern was requested as a regex
	IsRegex bool

	compiled     *regexp.Regexp // nil when not regex mode or compile failed
	patternLower string
}

// New compiles a filter. Regex compilation failure is not an error:
// the filter falls back to literal matching on the raw pattern.
func New(pattern string, isRegex bool) *Filter {
	f := &Filter{
		Pattern:      pattern,
		IsRegex:      isRegex,
		patternLower: strings.ToLower(pattern),
	}
	if isRegex {
		if re, err := regexp.Compile(pattern); err == nil {
			f.compiled = re
		}
	}
	return f
}

// Fallback reports whether regex mode degraded to literal matching
func (f *Filter) Fallback() bool {
	return f.IsRegex && f.compiled == nil
}

// Matches reports whether a line passes the filter
func (f *Filter) Matches(line string) bool {
	if f.IsRegex {
		if f.compiled != nil {
			return f.compiled.MatchString(line)
		}
		// Invalid regex: literal containment of the raw pattern
		return strings.Contains(line, f.Pattern)
	}
	return strings.Contains(strings.ToLower(line), f.patternLower)
}

// FindMatches returns all non-overlapping match ranges for highlighting,
// scanned left to right.
func (f *Filter) FindMatches(line string) []MatchRange {
	if f.IsRegex && f.compiled != nil {
		var matches []MatchRange
		for _, loc := range f.compiled.FindAllStringIndex(line, -1) {
			matches = append(matches, MatchRange{Start: loc[0], End: loc[1]})
		}
		return matches
	}
	return f.findSubstringMatches(line)
}

// findSubstringMatches collects case-insensitive occurrences; each scan
// resumes at the previous match's end so matches never overlap.
func (f *Filter) findSubstringMatches(line string) []MatchRange {
	if f.patternLower == "" {
		return nil
	}

	var matches []MatchRange
	lower := strings.ToLower(line)
	start := 0
	for {
		pos := strings.Index(lower[start:], f.patternLower)
		if pos < 0 {
			break
		}
		s := start + pos
		e := s + len(f.patternLower)
		matches = append(matches, MatchRange{Start: s, End: e})
		start = e
	}
	return matches
}
