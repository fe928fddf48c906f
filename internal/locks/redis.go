package locks

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"agenda/internal/config"

	"github.com/redis/go-redis/v9"
)

const lockKeyPrefix = "appt_lock:"

// RedisRepository keeps lock state in Redis with a TTL, so a crashed or
// restarted session does not leave stale guards behind.
type RedisRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisClient создает новый клиент Redis на основе конфигурации.
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
}

func NewRedisRepository(client *redis.Client, ttl time.Duration) *RedisRepository {
	return &RedisRepository{client: client, ttl: ttl}
}

func (r *RedisRepository) Get(ctx context.Context, appointmentID string) (State, error) {
	if r.client == nil {
		return Unlocked, fmt.Errorf("redis client is nil")
	}
	val, err := r.client.Get(ctx, lockKeyPrefix+appointmentID).Result()
	if err == redis.Nil {
		return Unlocked, nil
	}
	if err != nil {
		return Unlocked, fmt.Errorf("failed to get lock state from redis: %w", err)
	}

	n, err := strconv.Atoi(val)
	if err != nil {
		return Unlocked, fmt.Errorf("failed to parse lock state %q: %w", val, err)
	}
	return State(n), nil
}

func (r *RedisRepository) Set(ctx context.Context, appointmentID string, state State) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	key := lockKeyPrefix + appointmentID
	if err := r.client.Set(ctx, key, int(state), r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set lock state in redis: %w", err)
	}
	return nil
}

func (r *RedisRepository) Clear(ctx context.Context, appointmentID string) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if err := r.client.Del(ctx, lockKeyPrefix+appointmentID).Err(); err != nil {
		return fmt.Errorf("failed to delete lock state from redis: %w", err)
	}
	return nil
}

func (r *RedisRepository) Reset(ctx context.Context) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	iter := r.client.Scan(ctx, 0, lockKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := r.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("failed to delete lock key %s: %w", iter.Val(), err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan lock keys: %w", err)
	}
	return nil
}

// Ping проверяет соединение с Redis.
func Ping(ctx context.Context, client *redis.Client) error {
	if _, err := client.Ping(ctx).Result(); err != nil {
		return fmt.Errorf("failed to ping Redis: %w", err)
	}
	return nil
}
