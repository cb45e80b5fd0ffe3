package utils

import (
	"context" // Context for Redis operations
	"errors"  // Matching redis.Nil
	"time"    // Key lifetime

	"github.com/redis/go-redis/v9" // Redis client
)

const revokedPrefix = "auth:revoked:" // Key prefix for revoked token ids

// RevokeToken records jti as revoked until the token would have expired
func RevokeToken(ctx context.Context, rdb redis.Cmdable, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil // Already expired, nothing to remember
	}
	return rdb.Set(ctx, revokedPrefix+jti, "1", ttl).Err()
}

// IsRevoked reports whether jti was revoked by a logout
func IsRevoked(ctx context.Context, rdb redis.Cmdable, jti string) (bool, error) {
	err := rdb.Get(ctx, revokedPrefix+jti).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil // Key does not exist
	}
	if err != nil {
		return false, err // Other Redis error
	}
	return true, nil
}
