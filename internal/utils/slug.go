package utils

import "strings"

// Slugify derives an article slug from its title: lowercased, every space
// replaced by a hyphen. No other characters are touched and no uniqueness
// suffix is added.
func Slugify(title string) string {
	return strings.ReplaceAll(strings.ToLower(title), " ", "-")
}
