package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisBackend stores each session as a JSON blob with a TTL.
type RedisBackend struct {
	client redis.UniversalClient
	prefix string
}

func NewRedisBackend(client redis.UniversalClient) *RedisBackend {
	return &RedisBackend{client: client, prefix: "mdp:admin:session:"}
}

func (b *RedisBackend) Load(ctx context.Context, id string) (map[string]string, error) {
	data, err := b.client.Get(ctx, b.prefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var values map[string]string
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, nil
	}
	return values, nil
}

func (b *RedisBackend) Store(ctx context.Context, id string, values map[string]string, ttl time.Duration) error {
	data, err := json.Marshal(values)
	if err != nil {
		return err
	}
	return b.client.Set(ctx, b.prefix+id, data, ttl).Err()
}

func (b *RedisBackend) Remove(ctx context.Context, id string) error {
	return b.client.Del(ctx, b.prefix+id).Err()
}
