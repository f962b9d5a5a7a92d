package utils

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
)

// FoldCase returns s case-folded for caseless comparison.
// A cases.Caser holds state, so one is built per call.
func FoldCase(s string) string {
	return cases.Fold().String(s)
}

// ContainsFold reports whether needle occurs in haystack ignoring case.
// An empty needle matches everything.
func ContainsFold(haystack, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(FoldCase(haystack), FoldCase(needle))
}

// NormalizeTag turns a free-form label into a snake_case tag,
// e.g. "Free Cancellation" and "free-cancellation" both become "free_cancellation".
func NormalizeTag(s string) string {
	fields := strings.FieldsFunc(FoldCase(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	return strings.Join(fields, "_")
}

// DistinctTags counts the distinct non-empty tags in labels
func DistinctTags(labels []string) int {
	seen := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		tag := NormalizeTag(l)
		if tag == "" {
			continue
		}
		seen[tag] = struct{}{}
	}
	return len(seen)
}
