package tokens

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps tokens in Redis so multiple instances serve the same
// games. Tokens are stored without expiry; the game service decides when a
// token stops being accepted.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func key(gameID string) string { return "mjkit:token:" + gameID }

func (s *RedisStore) Token(ctx context.Context, gameID string) (string, bool, error) {
	token, err := s.client.Get(ctx, key(gameID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return token, true, nil
}

func (s *RedisStore) SetToken(ctx context.Context, gameID, token string) error {
	return s.client.Set(ctx, key(gameID), token, 0).Err()
}

func (s *RedisStore) ClearToken(ctx context.Context, gameID string) error {
	return s.client.Del(ctx, key(gameID)).Err()
}
