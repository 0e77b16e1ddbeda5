package models

import "strings"

// SanitizeKeySegment escapes ':' in key segments so an IPv6 address cannot
// be read as several segments.
func SanitizeKeySegment(s string) string {
	return strings.ReplaceAll(s, ":", "_")
}
