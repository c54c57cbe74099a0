// Package auth checks the catalog credential and tracks whether it may still be sent.
package auth

// State represents the shape-level status of a catalog credential.
type State int

const (
	// StateConfigured means a key with the catalog's shape is present.
	StateConfigured State = iota
	// StateMissing means no key is configured.
	StateMissing
	// StateInvalid means a key is present but does not look like a catalog key.
	StateInvalid
	// StateForeign means the value is a token for another service and must never be sent.
	StateForeign
)

// String returns the lowercase name of the state.
func (s State) String() string {
	switch s {
	case StateConfigured:
		return "configured"
	case StateMissing:
		return "missing"
	case StateInvalid:
		return "invalid"
	case StateForeign:
		return "foreign"
	default:
		return "unknown"
	}
}

// Status is the result of checking a credential.
type Status struct {
	State   State
	Summary string         // Brief one-line summary
	APIKey  *APIKeyDetails // nil when no key is configured
}

// Usable reports whether the credential may be attached to catalog requests.
func (s *Status) Usable() bool {
	return s != nil && s.State == StateConfigured
}

// APIKeyDetails contains API key details safe to display.
type APIKeyDetails struct {
	EnvVar  string // Environment variable name
	Masked  string // First and last characters only
	IsValid bool   // Whether the value matches the catalog key pattern
}
