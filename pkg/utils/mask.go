package utils

import (
	"regexp"
	"strings"
)

var urlPasswordRegex = regexp.MustCompile(`(:)([^:@/]+)(@)`)

// MaskURL hides the password component of a URL with embedded credentials.
func MaskURL(u string) string {
	return urlPasswordRegex.ReplaceAllString(u, ":***@")
}

// MaskSecret keeps the first and last two characters of s.
// Values of eight characters or fewer are masked completely.
func MaskSecret(s string) string {
	if len(s) <= 8 {
		return strings.Repeat("*", len(s))
	}
	return s[:2] + strings.Repeat("*", len(s)-4) + s[len(s)-2:]
}
