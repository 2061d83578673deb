package cfl

import (
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// PatternSet is a compiled, OR-combined list of glob patterns.
//
// Patterns use doublestar syntax and are case-sensitive. A pattern without a
// '/' is matched against the base name of a path; one containing '/' is
// matched against the whole slash-separated relative path, so "**/main.go"
// and "src/*.go" behave as expected.
type PatternSet struct {
	patterns []string
}

// ParsePatternList splits a comma-separated string of patterns into a slice.
func ParsePatternList(patterns string) []string {
	if strings.TrimSpace(patterns) == "" {
		return nil
	}
	var parsed []string
	for _, p := range strings.Split(patterns, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			parsed = append(parsed, p)
		}
	}
	return parsed
}

// CompilePatterns validates every pattern up front. The first invalid pattern
// is reported as a *PatternError and no set is returned.
func CompilePatterns(patterns []string) (*PatternSet, error) {
	set := &PatternSet{patterns: make([]string, 0, len(patterns))}
	for _, raw := range patterns {
		p := strings.TrimPrefix(strings.TrimSpace(raw), "./")
		if p == "" {
			continue
		}
		if !doublestar.ValidatePattern(p) {
			return nil, &PatternError{Pattern: raw, Err: doublestar.ErrBadPattern}
		}
		set.patterns = append(set.patterns, p)
	}
	return set, nil
}

// Empty reports whether the set holds no patterns.
func (s *PatternSet) Empty() bool {
	return s == nil || len(s.patterns) == 0
}

// Match reports whether rel matches any pattern in the set. An empty set
// matches nothing.
func (s *PatternSet) Match(rel string) bool {
	if s.Empty() {
		return false
	}
	base := path.Base(rel)
	for _, p := range s.patterns {
		target := base
		if strings.Contains(p, "/") {
			target = rel
		}
		// Patterns were validated in CompilePatterns.
		if ok, _ := doublestar.Match(p, target); ok {
			return true
		}
	}
	return false
}

// Selects applies include/exclude semantics: no include patterns means
// everything is included, no exclude patterns means nothing is excluded.
func Selects(include, exclude *PatternSet, rel string) bool {
	if !include.Empty() && !include.Match(rel) {
		return false
	}
	return !exclude.Match(rel)
}
