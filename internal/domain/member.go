package domain

// Identity is what the handshake resolved for one connection.
// It is set once at connect time and never mutated afterwards.
type Identity struct {
	Authenticated bool
	UserID        UserID
	Handle        string
}

// Guest is the identity of a connection that presented no token.
func Guest() Identity {
	return Identity{Handle: GuestHandle}
}

// NewIdentity avoids raw literals in adapters and keeps construction obvious.
func NewIdentity(id UserID, handle string) Identity {
	if handle == "" {
		handle = FallbackHandle(id)
	}
	return Identity{
		Authenticated: true,
		UserID:        id,
		Handle:        ClampHandle(handle),
	}
}
