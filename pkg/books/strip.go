package books

import (
	"regexp"
	"strings"
)

var tagPattern = regexp.MustCompile(`</?[^>]+>`)

// StripTags removes HTML tags from s and trims the result.
func StripTags(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(tagPattern.ReplaceAllString(s, ""))
}
