package auth

import (
	"strings"
	"sync/atomic"
)

// Latch holds a credential that can be switched off once and never back on.
// It is safe for concurrent use.
type Latch struct {
	key    string
	usable atomic.Bool
}

// NewLatch returns a latch that is usable only when key is well formed.
func NewLatch(key string) *Latch {
	key = strings.TrimSpace(key)
	l := &Latch{key: key}
	l.usable.Store(NewChecker().Check(key).Usable())
	return l
}

// Key returns the credential to attach, or "" once the latch is off.
func (l *Latch) Key() string {
	if l == nil || !l.usable.Load() {
		return ""
	}
	return l.key
}

// Usable reports whether the credential is still attached to requests.
func (l *Latch) Usable() bool {
	return l != nil && l.usable.Load()
}

// Disable turns the latch off. It reports whether this call did the switching.
func (l *Latch) Disable() bool {
	if l == nil {
		return false
	}
	return l.usable.CompareAndSwap(true, false)
}

// IsKeyRejection reports whether an upstream status and message mean the
// catalog refused the credential itself.
func IsKeyRejection(status int, message string) bool {
	if status != 400 && status != 403 {
		return false
	}
	msg := strings.ToLower(message)
	return strings.Contains(msg, "api key not valid") || strings.Contains(msg, "invalid key")
}
