// Package redis is the api service's read-through cache plus the
// subscription to the updaters' post-save notifications.
package redis

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/ratestash/ratestash/internal/entities"
)

const updatedChannel = "rates_updated"

type Cache struct {
	rdb    *redis.Client
	pubsub *redis.PubSub
}

func NewCache(ctx context.Context, client *redis.Client) *Cache {
	return &Cache{
		rdb:    client,
		pubsub: client.Subscribe(ctx, updatedChannel),
	}
}

func InitCache(ctx context.Context, options *redis.Options) (*Cache, error) {
	const op = "cache.redis.InitCache"

	redisClient := redis.NewClient(options)

	if _, err := redisClient.Ping(ctx).Result(); err != nil {
		return nil, errors.Wrap(err, op)
	}

	return NewCache(ctx, redisClient), nil
}

func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	const op = "cache.redis.Get"

	b, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, entities.ErrCacheMiss
		}
		return nil, errors.Wrap(err, op)
	}
	return b, nil
}

func (c *Cache) Set(ctx context.Context, key string, val []byte, ttl time.Duration) error {
	const op = "cache.redis.Set"

	if err := c.rdb.Set(ctx, key, val, ttl).Err(); err != nil {
		return errors.Wrap(err, op)
	}
	return nil
}

func (c *Cache) Del(ctx context.Context, keys ...string) error {
	const op = "cache.redis.Del"

	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		return errors.Wrap(err, op)
	}
	return nil
}

// ListenUpdated blocks until an updater announces a save and returns the
// pipeline name it published.
func (c *Cache) ListenUpdated(ctx context.Context) (string, error) {
	const op = "cache.redis.ListenUpdated"

	msg, err := c.pubsub.ReceiveMessage(ctx)
	if err != nil {
		return "", errors.Wrap(err, op)
	}

	return msg.Payload, nil
}

func (c *Cache) Close() error {
	if err := c.pubsub.Close(); err != nil {
		return err
	}
	return c.rdb.Close()
}
