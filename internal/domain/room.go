package domain

import "errors"

const MaxSessionIDLen = 128

var (
	ErrSessionIDEmpty   = errors.New("session id empty")
	ErrSessionIDTooLong = errors.New("session id too long")
)

// SessionID names a debug session; it doubles as the key of its broadcast room.
type SessionID string

func ParseSessionID(raw string) (SessionID, error) {
	if raw == "" {
		return "", ErrSessionIDEmpty
	}
	if len(raw) > MaxSessionIDLen {
		return "", ErrSessionIDTooLong
	}
	return SessionID(raw), nil
}
