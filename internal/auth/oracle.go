package auth

import (
	"context"
	"errors"
	"time"

	"github.com/Harshita-Rupani29/MultiModal-Code-Debug-Assistant/internal/domain"
	"github.com/Harshita-Rupani29/MultiModal-Code-Debug-Assistant/internal/store"
	"github.com/rs/zerolog/log"
)

// SessionOwners looks up who owns a debug session.
type SessionOwners interface {
	FindSessionOwner(ctx context.Context, sid domain.SessionID) (domain.UserID, error)
}

// Oracle allows a user into a session's room only when they own it. It
// fails closed: lookup errors deny.
type Oracle struct {
	Owners  SessionOwners
	Timeout time.Duration
}

func (o *Oracle) CanJoin(ctx context.Context, uid domain.UserID, sid domain.SessionID) bool {
	if uid == "" || sid == "" {
		return false
	}
	if o.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.Timeout)
		defer cancel()
	}

	owner, err := o.Owners.FindSessionOwner(ctx, sid)
	switch {
	case errors.Is(err, store.ErrNotFound):
		log.Info().Str("module", "auth.oracle").Str("session", string(sid)).Msg("session not found")
		return false
	case err != nil:
		log.Error().Err(err).Str("module", "auth.oracle").Str("session", string(sid)).Msg("session authorization lookup failed")
		return false
	}

	if owner != uid {
		log.Info().
			Str("module", "auth.oracle").
			Str("session", string(sid)).
			Str("user", string(uid)).
			Str("owner", string(owner)).
			Msg("user is not the session owner")
		return false
	}
	return true
}
