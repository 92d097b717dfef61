package state

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// tokenKeyPrefix namespaces bearer token keys in a shared Redis.
const tokenKeyPrefix = "ntktok"

// RedisTokens is a Redis-backed token store for deployments that run
// several daemon instances against one NAS and want them to share the
// token cache.
type RedisTokens struct {
	rdb *redis.Client
}

// NewRedisTokens wraps an existing Redis client.
func NewRedisTokens(rdb *redis.Client) *RedisTokens {
	return &RedisTokens{rdb: rdb}
}

func tokenKey(scope string) string {
	return tokenKeyPrefix + ":" + string(scopeKey(scope))
}

// FetchToken returns the cached bearer token for a scope, or empty
// string when none is cached.
func (r *RedisTokens) FetchToken(ctx context.Context, scope string) (string, error) {
	token, err := r.rdb.Get(ctx, tokenKey(scope)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}

	if err != nil {
		return "", fmt.Errorf("reading token from redis: %w", err)
	}

	return token, nil
}

// StoreToken persists the bearer token for a scope. No expiry is set:
// the grant itself has no advertised lifetime and rejected tokens are
// cleared on use.
func (r *RedisTokens) StoreToken(ctx context.Context, scope, token string) error {
	if err := r.rdb.Set(ctx, tokenKey(scope), token, 0).Err(); err != nil {
		return fmt.Errorf("storing token in redis: %w", err)
	}

	return nil
}

// ClearToken removes the cached bearer token for a scope.
func (r *RedisTokens) ClearToken(ctx context.Context, scope string) error {
	if err := r.rdb.Del(ctx, tokenKey(scope)).Err(); err != nil {
		return fmt.Errorf("clearing token from redis: %w", err)
	}

	return nil
}
