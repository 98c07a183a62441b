package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const revokedKeyPrefix = "blacklist:token:"

// RedisRevocations keeps logged-out tokens until they would have expired.
// Keys are token hashes so raw tokens never sit in redis.
type RedisRevocations struct {
	rdb *redis.Client
}

func NewRedisRevocations(rdb *redis.Client) *RedisRevocations {
	return &RedisRevocations{rdb: rdb}
}

// Revoke blacklists a token for the rest of its lifetime. Expired tokens
// are skipped; tokens without exp are kept for a day.
func (r *RedisRevocations) Revoke(ctx context.Context, raw string) error {
	ttl := 24 * time.Hour
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return fmt.Errorf("revoke: %w", err)
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		ttl = time.Until(exp.Time)
		if ttl <= 0 {
			return nil
		}
	}

	key := revokedKeyPrefix + hashToken(raw)
	if err := r.rdb.Set(ctx, key, "revoked", ttl).Err(); err != nil {
		return fmt.Errorf("revoke: %w", err)
	}
	log.Info().Str("module", "auth.revocations").Dur("ttl", ttl).Msg("token revoked")
	return nil
}

func (r *RedisRevocations) IsRevoked(ctx context.Context, raw string) (bool, error) {
	n, err := r.rdb.Exists(ctx, revokedKeyPrefix+hashToken(raw)).Result()
	if err != nil {
		return false, fmt.Errorf("check revocation: %w", err)
	}
	return n > 0, nil
}

func hashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
