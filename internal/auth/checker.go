package auth

import (
	"fmt"
	"regexp"
	"strings"
)

// EnvVar is the environment variable holding the catalog key.
const EnvVar = "GOOGLE_BOOKS_KEY"

var (
	googleKeyPattern   = regexp.MustCompile(`^AIza[0-9A-Za-z\-_]{20,}$`)
	foreignKeyPatterns = regexp.MustCompile(`(?i)^gh[pous]_|^github_pat_`)
)

// Checker checks credential shape. It performs local checks only.
type Checker struct {
	EnvVar string
}

// NewChecker creates a new credential checker.
func NewChecker() *Checker {
	return &Checker{EnvVar: EnvVar}
}

// Check classifies key without contacting the catalog.
func (c *Checker) Check(key string) *Status {
	key = strings.TrimSpace(key)
	if key == "" {
		return &Status{
			State:   StateMissing,
			Summary: fmt.Sprintf("Optional: %s not set, searching anonymously", c.EnvVar),
		}
	}

	details := &APIKeyDetails{EnvVar: c.EnvVar, Masked: Mask(key)}

	if IsForeignToken(key) {
		return &Status{
			State:   StateForeign,
			Summary: "Value looks like a GitHub token and will not be sent",
			APIKey:  details,
		}
	}

	if !IsWellFormed(key) {
		return &Status{
			State:   StateInvalid,
			Summary: "API key does not match the Google API key pattern",
			APIKey:  details,
		}
	}

	details.IsValid = true
	return &Status{
		State:   StateConfigured,
		Summary: fmt.Sprintf("API key configured (%s)", c.EnvVar),
		APIKey:  details,
	}
}

// IsWellFormed reports whether key has the shape of a Google API key.
func IsWellFormed(key string) bool {
	return googleKeyPattern.MatchString(key)
}

// IsForeignToken reports whether key has the shape of a GitHub token.
func IsForeignToken(key string) bool {
	return foreignKeyPatterns.MatchString(key)
}

// Mask hides all but the first four and last two characters of key.
func Mask(key string) string {
	if len(key) <= 8 {
		return strings.Repeat("*", len(key))
	}
	return key[:4] + strings.Repeat("*", len(key)-6) + key[len(key)-2:]
}
