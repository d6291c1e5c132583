package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// RedisCache is the cross-process variant of the day cache. Instances in
// different processes coordinate through pub/sub invalidation messages.
type RedisCache struct {
	client  *redis.Client
	logger  *zerolog.Logger
	channel string
}

type RedisConfig struct {
	URL          string
	MaxRetries   int
	RetryBackoff time.Duration
	PoolSize     int
	MinIdleConns int
	// Channel carries invalidation messages between processes.
	Channel string
}

func NewRedisCache(config RedisConfig, logger *zerolog.Logger) (*RedisCache, error) {
	opts, err := redis.ParseURL(config.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	opts.MaxRetries = config.MaxRetries
	opts.MinRetryBackoff = config.RetryBackoff
	opts.PoolSize = config.PoolSize
	opts.MinIdleConns = config.MinIdleConns

	client := redis.NewClient(opts)

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	channel := config.Channel
	if channel == "" {
		channel = "availability:invalidate"
	}

	return &RedisCache{
		client:  client,
		logger:  logger,
		channel: channel,
	}, nil
}

// Get unmarshals the value stored at key into dest. The boolean reports
// whether the key was present.
func (c *RedisCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis get: %w", err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal cached value: %w", err)
	}
	return true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}
	if err := c.client.Set(ctx, key, payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Invalidate deletes the key and broadcasts it so other processes drop their
// local copies too.
func (c *RedisCache) Invalidate(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	if err := c.client.Publish(ctx, c.channel, key).Err(); err != nil {
		// Local state is already consistent; peers fall back to TTL expiry.
		c.logger.Warn().Err(err).Str("key", key).Msg("failed to publish cache invalidation")
	}
	return nil
}

// SubscribeInvalidations delivers keys invalidated by other processes until
// ctx is cancelled.
func (c *RedisCache) SubscribeInvalidations(ctx context.Context) (<-chan string, error) {
	pubsub := c.client.Subscribe(ctx, c.channel)

	if _, err := pubsub.Receive(ctx); err != nil {
		return nil, fmt.Errorf("failed to subscribe: %w", err)
	}

	keys := make(chan string)
	go func() {
		defer close(keys)
		defer pubsub.Close()
		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				select {
				case keys <- msg.Payload:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return keys, nil
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}
