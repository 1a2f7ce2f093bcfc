package auth

import (
	"context"
	"time"

	"alumnet/internal/cache"

	"github.com/redis/go-redis/v9"
)

// RevocationStore remembers logged-out token ids until they expire.
type RevocationStore interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// RedisRevocationStore keeps revoked token ids as expiring Redis keys.
type RedisRevocationStore struct {
	rdb *redis.Client
}

// NewRedisRevocationStore returns nil when rdb is nil so callers can pass the
// result straight to NewTokenService.
func NewRedisRevocationStore(rdb *redis.Client) RevocationStore {
	if rdb == nil {
		return nil
	}
	return &RedisRevocationStore{rdb: rdb}
}

func (s *RedisRevocationStore) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	return s.rdb.Set(ctx, cache.RevokedTokenKey(tokenID), 1, ttl).Err()
}

func (s *RedisRevocationStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := s.rdb.Exists(ctx, cache.RevokedTokenKey(tokenID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
