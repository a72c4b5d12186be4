// utils/query.go
package utils

import "strconv"

// The dashboard endpoints are permissive by default: missing numeric query
// params fall back to a default and out-of-range values are clamped, never
// rejected. Every handler goes through these helpers so the policy lives in
// one place.

// ParsePage returns a 1-based page number. Anything unparseable or below 1
// becomes 1.
func ParsePage(raw string) int {
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// ParseLimit returns a page size, defaulting and clamping to [1, max].
func ParseLimit(raw string, def, max int) int {
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 {
		return def
	}
	if limit > max {
		return max
	}
	return limit
}

// ParseDays returns a trailing-window length clamped to [1, 365], default 30.
func ParseDays(raw string) int {
	days, err := strconv.Atoi(raw)
	if err != nil {
		return 30
	}
	if days < 1 {
		return 1
	}
	if days > 365 {
		return 365
	}
	return days
}

// Pages returns ceil(total/limit) so that requesting a page beyond the last
// yields an empty list rather than an error.
func Pages(total int64, limit int) int {
	if limit < 1 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}
