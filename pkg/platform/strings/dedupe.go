// Package strings holds small helpers for comma separated settings.
package strings

import (
	"strings"
)

// SplitList splits a comma separated setting, trims each entry and drops
// empties and repeats. Order of first occurrence is kept.
//
//	SplitList(" http://a, http://b,,http://a ")
//	// []string{"http://a", "http://b"}
func SplitList(raw string) []string {
	return DedupeAndTrim(strings.Split(raw, ","))
}

// DedupeAndTrim trims every element and drops empties and repeats.
func DedupeAndTrim(values []string) []string {
	if len(values) == 0 {
		return values
	}

	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))
	for _, v := range values {
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}
		result = append(result, trimmed)
	}
	return result
}
