// Package util provides common utility functions used across the codebase.
package util

import (
	"sort"
	"strings"
)

// SortUnique returns a lexicographically sorted copy of items with
// duplicates and empty strings removed. The input slice is not modified.
func SortUnique(items []string) []string {
	seen := make(map[string]bool, len(items))
	result := make([]string, 0, len(items))

	for _, item := range items {
		if item != "" && !seen[item] {
			seen[item] = true
			result = append(result, item)
		}
	}

	sort.Strings(result)
	return result
}

// ShortARN returns the resource portion of an ARN: everything after the
// final "/" (or ":" when the ARN has no path). Non-ARN strings are
// returned unchanged, so it is safe to call on already-short names.
func ShortARN(arn string) string {
	if !strings.HasPrefix(arn, "arn:") {
		return arn
	}
	if idx := strings.LastIndex(arn, "/"); idx >= 0 {
		return arn[idx+1:]
	}
	if idx := strings.LastIndex(arn, ":"); idx >= 0 {
		return arn[idx+1:]
	}
	return arn
}

// ShortID truncates an identifier to n characters for display.
// Identifiers shorter than n are returned unchanged.
func ShortID(id string, n int) string {
	if n <= 0 || len(id) <= n {
		return id
	}
	return id[:n]
}

// JoinOrDefault joins strings with ", " or returns the default value for empty slices.
func JoinOrDefault(items []string, def string) string {
	if len(items) == 0 {
		return def
	}
	return strings.Join(items, ", ")
}

// Pluralize returns singular if count is 1, otherwise plural.
func Pluralize(count int, singular, plural string) string {
	if count == 1 {
		return singular
	}
	return plural
}
