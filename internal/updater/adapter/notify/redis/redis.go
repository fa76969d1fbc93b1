// Package redis publishes a signal after every store save so long-running
// readers can drop their caches.
package redis

import (
	"context"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// Channel carries the pipeline name of the store that just changed.
const Channel = "rates_updated"

type Notifier struct {
	rdb *redis.Client
}

func NewNotifier(client *redis.Client) *Notifier {
	return &Notifier{rdb: client}
}

func InitNotifier(ctx context.Context, options *redis.Options) (*Notifier, error) {
	const op = "notify.redis.InitNotifier"

	redisClient := redis.NewClient(options)

	if _, err := redisClient.Ping(ctx).Result(); err != nil {
		return nil, errors.Wrap(err, op)
	}

	return NewNotifier(redisClient), nil
}

func (n *Notifier) PublishUpdated(ctx context.Context, pipeline string) error {
	const op = "notify.redis.PublishUpdated"

	if err := n.rdb.Publish(ctx, Channel, pipeline).Err(); err != nil {
		return errors.Wrap(err, op)
	}

	return nil
}

func (n *Notifier) Close() error {
	return n.rdb.Close()
}
