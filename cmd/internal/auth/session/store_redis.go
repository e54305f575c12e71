package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Key layout shared with the previous deployment: one key per live refresh
// token, value = owning user id, TTL = refresh lifetime.
const refreshKeyPrefix = "auth:refresh_token:"

// compareAndDelete runs GET+DEL as one atomic server-side step.
var compareAndDeleteScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisStore implements RevocationStore over Redis.
//
// The client is owned by the caller; this store must NOT close it.
type RedisStore struct {
	rdb *redis.Client
}

// NewRedisStore constructs a RedisStore.
func NewRedisStore(rdb *redis.Client) (*RedisStore, error) {
	if rdb == nil {
		return nil, fmt.Errorf("session: nil redis client")
	}
	return &RedisStore{rdb: rdb}, nil
}

func refreshKey(token string) string { return refreshKeyPrefix + token }

func (s *RedisStore) Put(ctx context.Context, refreshToken, userID string, ttl time.Duration) error {
	const op = "session.redis.Put"

	if err := s.rdb.Set(ctx, refreshKey(refreshToken), userID, ttl).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, refreshToken string) (string, error) {
	const op = "session.redis.Get"

	userID, err := s.rdb.Get(ctx, refreshKey(refreshToken)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", fmt.Errorf("%s: %w", op, ErrRecordNotFound)
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return userID, nil
}

func (s *RedisStore) Delete(ctx context.Context, refreshToken string) error {
	const op = "session.redis.Delete"

	if err := s.rdb.Del(ctx, refreshKey(refreshToken)).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *RedisStore) CompareAndDelete(ctx context.Context, refreshToken, userID string) (bool, error) {
	const op = "session.redis.CompareAndDelete"

	n, err := compareAndDeleteScript.Run(ctx, s.rdb, []string{refreshKey(refreshToken)}, userID).Int()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return n == 1, nil
}
