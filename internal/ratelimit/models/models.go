// Package models holds the rate limiter's value types.
package models

import "time"

// Result is the outcome of one rate limit check.
type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
	// RetryAfter is the number of seconds until a denied caller may retry.
	RetryAfter int
}

// IPKey is the bucket key for a client IP.
func IPKey(ip string) string {
	return "rl:ip:" + SanitizeKeySegment(ip)
}
