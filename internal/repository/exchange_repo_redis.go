package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	"terminal-chat/internal/domain"
)

// Inserta al frente y recorta la lista a ARGV[2] elementos en una sola operación atómica.
const redisPushCappedScript = `
redis.call("LPUSH", KEYS[1], ARGV[1])
redis.call("LTRIM", KEYS[1], 0, tonumber(ARGV[2]) - 1)
return redis.call("LLEN", KEYS[1])
`

type redisListClient interface {
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
	LRange(ctx context.Context, key string, start, stop int64) *redis.StringSliceCmd
}

// RedisExchangeRepository guarda el transcript como lista JSON acotada, la más reciente al frente.
type RedisExchangeRepository struct {
	client   redisListClient
	key      string
	capacity int
}

func NewRedisExchangeRepository(client *redis.Client, key string, capacity int) *RedisExchangeRepository {
	return newRedisExchangeRepository(client, key, capacity)
}

func newRedisExchangeRepository(client redisListClient, key string, capacity int) *RedisExchangeRepository {
	key = strings.TrimSpace(key)
	if key == "" {
		key = "chat:history"
	}
	if capacity <= 0 {
		capacity = 1000
	}
	return &RedisExchangeRepository{
		client:   client,
		key:      key,
		capacity: capacity,
	}
}

func (r *RedisExchangeRepository) Create(ctx context.Context, exchange domain.Exchange) error {
	payload, err := json.Marshal(exchange)
	if err != nil {
		return fmt.Errorf("marshal exchange: %w", err)
	}
	if err := r.client.Eval(ctx, redisPushCappedScript, []string{r.key}, string(payload), r.capacity).Err(); err != nil {
		return fmt.Errorf("push exchange: %w", err)
	}
	return nil
}

func (r *RedisExchangeRepository) ListRecent(ctx context.Context, limit int) ([]domain.Exchange, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	raw, err := r.client.LRange(ctx, r.key, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("list exchanges: %w", err)
	}

	exchanges := make([]domain.Exchange, 0, len(raw))
	for _, item := range raw {
		var ex domain.Exchange
		if err := json.Unmarshal([]byte(item), &ex); err != nil {
			return nil, fmt.Errorf("unmarshal exchange: %w", err)
		}
		exchanges = append(exchanges, ex)
	}
	return exchanges, nil
}
