package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisRevocations(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = rdb.Close() }()

	r := NewRedisRevocations(rdb)
	ctx := context.Background()

	t.Run("RevokeLiveToken", func(t *testing.T) {
		token := sign(t, testSecret, jwt.MapClaims{"userId": "U1", "exp": time.Now().Add(time.Hour).Unix()})
		require.NoError(t, r.Revoke(ctx, token))

		revoked, err := r.IsRevoked(ctx, token)
		require.NoError(t, err)
		assert.True(t, revoked)

		ttl := mr.TTL(revokedKeyPrefix + hashToken(token))
		assert.True(t, ttl > 59*time.Minute && ttl <= time.Hour, "ttl %s", ttl)

		mr.FastForward(2 * time.Hour)
		revoked, err = r.IsRevoked(ctx, token)
		require.NoError(t, err)
		assert.False(t, revoked)
	})

	t.Run("UnknownToken", func(t *testing.T) {
		token := sign(t, testSecret, jwt.MapClaims{"userId": "U2"})
		revoked, err := r.IsRevoked(ctx, token)
		require.NoError(t, err)
		assert.False(t, revoked)
	})

	t.Run("ExpiredTokenIsSkipped", func(t *testing.T) {
		token := sign(t, testSecret, jwt.MapClaims{"userId": "U3", "exp": time.Now().Add(-time.Hour).Unix()})
		require.NoError(t, r.Revoke(ctx, token))
		assert.False(t, mr.Exists(revokedKeyPrefix+hashToken(token)))
	})

	t.Run("VerifierRejectsRevoked", func(t *testing.T) {
		token := sign(t, testSecret, jwt.MapClaims{"userId": "U1"})
		v := newTestVerifier(WithRevocations(r))
		_, err := v.Verify(ctx, token)
		require.NoError(t, err)

		require.NoError(t, r.Revoke(ctx, token))
		_, err = v.Verify(ctx, token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("GarbageCannotBeRevoked", func(t *testing.T) {
		assert.Error(t, r.Revoke(ctx, "garbage"))
	})
}
