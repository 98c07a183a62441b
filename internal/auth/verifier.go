// Package auth turns bearer tokens into identities and answers session
// entry questions.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Harshita-Rupani29/MultiModal-Code-Debug-Assistant/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
)

var ErrInvalidToken = errors.New("invalid token")

// Profiles resolves a display name for a user.
type Profiles interface {
	DisplayName(ctx context.Context, uid domain.UserID) (string, error)
}

// Revocations reports tokens that were logged out before expiry.
type Revocations interface {
	IsRevoked(ctx context.Context, token string) (bool, error)
}

type Verifier struct {
	secret      []byte
	profiles    Profiles
	revocations Revocations
	leeway      time.Duration
}

type VerifierOption func(*Verifier)

func WithRevocations(r Revocations) VerifierOption {
	return func(v *Verifier) { v.revocations = r }
}

func WithLeeway(d time.Duration) VerifierOption {
	return func(v *Verifier) { v.leeway = d }
}

func NewVerifier(secret string, profiles Profiles, opts ...VerifierOption) *Verifier {
	v := &Verifier{secret: []byte(secret), profiles: profiles}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Verify authenticates a raw token. An empty token is a guest, not an
// error. Every other failure is ErrInvalidToken.
func (v *Verifier) Verify(ctx context.Context, raw string) (domain.Identity, error) {
	if raw == "" {
		return domain.Guest(), nil
	}

	uid, err := v.userID(raw)
	if err != nil {
		log.Info().Err(err).Str("module", "auth").Msg("token rejected")
		return domain.Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if v.revocations != nil {
		revoked, err := v.revocations.IsRevoked(ctx, raw)
		if err != nil {
			log.Error().Err(err).Str("module", "auth").Msg("revocation check failed")
			return domain.Identity{}, fmt.Errorf("%w: revocation check: %v", ErrInvalidToken, err)
		}
		if revoked {
			log.Info().Str("module", "auth").Str("user", string(uid)).Msg("revoked token presented")
			return domain.Identity{}, fmt.Errorf("%w: revoked", ErrInvalidToken)
		}
	}

	return domain.NewIdentity(uid, v.handle(ctx, uid)), nil
}

func (v *Verifier) userID(raw string) (domain.UserID, error) {
	claims := jwt.MapClaims{}
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithJSONNumber(),
	}
	if v.leeway > 0 {
		opts = append(opts, jwt.WithLeeway(v.leeway))
	}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		return "", err
	}

	uid := claimString(claims, "userId")
	if uid == "" {
		uid = claimString(claims, "sub")
	}
	if uid == "" {
		return "", errors.New("token carries no user id")
	}
	return domain.UserID(uid), nil
}

// handle never fails: a missing profile falls back to User-<id>.
func (v *Verifier) handle(ctx context.Context, uid domain.UserID) string {
	if v.profiles == nil {
		return domain.FallbackHandle(uid)
	}
	name, err := v.profiles.DisplayName(ctx, uid)
	if err != nil {
		log.Debug().Err(err).Str("module", "auth").Str("user", string(uid)).Msg("profile lookup failed")
		return domain.FallbackHandle(uid)
	}
	return name
}

// claimString accepts string and numeric ids. Numbers keep their
// literal digits so ids above 2^53 are not rounded.
func claimString(claims jwt.MapClaims, key string) string {
	switch v := claims[key].(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	default:
		return ""
	}
}
