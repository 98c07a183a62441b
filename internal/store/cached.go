package store

import (
	"context"
	"errors"
	"time"

	"github.com/Harshita-Rupani29/MultiModal-Code-Debug-Assistant/internal/domain"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	ownerKeyPrefix = "cache:session_owner:"
	nameKeyPrefix  = "cache:display_name:"
)

// Cached fronts a Store with redis for the two lookups made on every
// handshake and join. Misses and redis failures fall through to the
// backing store; ErrNotFound is never cached.
type Cached struct {
	Store
	rdb *redis.Client
	ttl time.Duration
}

func NewCached(inner Store, rdb *redis.Client, ttl time.Duration) *Cached {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &Cached{Store: inner, rdb: rdb, ttl: ttl}
}

func (c *Cached) FindSessionOwner(ctx context.Context, sid domain.SessionID) (domain.UserID, error) {
	v, err := c.lookup(ctx, ownerKeyPrefix+string(sid), func() (string, error) {
		owner, err := c.Store.FindSessionOwner(ctx, sid)
		return string(owner), err
	})
	return domain.UserID(v), err
}

func (c *Cached) DisplayName(ctx context.Context, uid domain.UserID) (string, error) {
	return c.lookup(ctx, nameKeyPrefix+string(uid), func() (string, error) {
		return c.Store.DisplayName(ctx, uid)
	})
}

func (c *Cached) lookup(ctx context.Context, key string, load func() (string, error)) (string, error) {
	v, err := c.rdb.Get(ctx, key).Result()
	switch {
	case err == nil:
		return v, nil
	case errors.Is(err, redis.Nil):
	default:
		log.Warn().Err(err).Str("module", "store.cache").Str("key", key).Msg("cache read failed")
	}

	v, err = load()
	if err != nil {
		return "", err
	}
	if err := c.rdb.Set(ctx, key, v, c.ttl).Err(); err != nil {
		log.Warn().Err(err).Str("module", "store.cache").Str("key", key).Msg("cache write failed")
	}
	return v, nil
}
