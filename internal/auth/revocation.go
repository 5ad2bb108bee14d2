package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Revocations remembers signed-out token ids until they would have expired.
type Revocations interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

const revokedKeyPrefix = "mvc:revoked:"

// RedisRevocations keeps the denylist in Redis with a TTL per entry.
type RedisRevocations struct {
	rdb *redis.Client
	now func() time.Time
}

// NewRedisClient connects to Redis and pings it.
func NewRedisClient(ctx context.Context, addr, password string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to reach redis at %s: %w", addr, err)
	}
	return rdb, nil
}

func NewRedisRevocations(rdb *redis.Client) *RedisRevocations {
	return &RedisRevocations{rdb: rdb, now: time.Now}
}

func (r *RedisRevocations) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	ttl := until.Sub(r.now())
	if ttl <= 0 {
		return nil
	}
	return r.rdb.Set(ctx, revokedKeyPrefix+tokenID, 1, ttl).Err()
}

func (r *RedisRevocations) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	err := r.rdb.Get(ctx, revokedKeyPrefix+tokenID).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
