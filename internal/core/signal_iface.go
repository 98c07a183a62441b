package core

import "errors"

var (
	ErrBackpressure = errors.New("backpressure")
	ErrClosed       = errors.New("connection closed")
)

// Frame is one encoded outbound message.
type Frame []byte

// ConnID identifies one live transport-level link.
type ConnID string

// SignalConnection abstracts for a system messaging transport
// Owned by the adapter; the adapter must Close() it.
// TrySend must not block.
type SignalConnection interface {
	TrySend(Frame) error
	Close()
}
