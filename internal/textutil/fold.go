package textutil

import (
	"strings"

	"golang.org/x/text/cases"
)

var folder = cases.Fold()

// Fold returns the Unicode case-folded form of s.
func Fold(s string) string {
	return folder.String(s)
}

// ContainsFold reports whether needle occurs in haystack ignoring case.
// An empty needle matches everything.
func ContainsFold(haystack, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(Fold(haystack), Fold(needle))
}

// Matcher folds the needle once for repeated ContainsFold checks.
type Matcher struct {
	needle string
}

// NewMatcher prepares needle for matching.
func NewMatcher(needle string) Matcher {
	return Matcher{needle: Fold(needle)}
}

// Empty reports whether the matcher accepts everything.
func (m Matcher) Empty() bool { return m.needle == "" }

// Match reports whether any of the fields contains the needle.
func (m Matcher) Match(fields ...string) bool {
	if m.needle == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(Fold(f), m.needle) {
			return true
		}
	}
	return false
}
