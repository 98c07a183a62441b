// Package domain contains entity without logic, just meta-data
package domain

import "unicode/utf8"

const (
	MaxHandleLen = 64
	GuestHandle  = "Guest"
)

type UserID string

// FallbackHandle is shown when the profile has no usable display name.
func FallbackHandle(id UserID) string {
	return "User-" + string(id)
}

// ClampHandle cuts a handle to MaxHandleLen runes.
func ClampHandle(handle string) string {
	if utf8.RuneCountInString(handle) <= MaxHandleLen {
		return handle
	}
	return string([]rune(handle)[:MaxHandleLen])
}
