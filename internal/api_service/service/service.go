// Package service is the read side: it hands out the rate documents the
// updaters maintain, through a redis read-through cache that the updaters'
// post-save notifications invalidate.
package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/pkg/errors"

	"github.com/ratestash/ratestash/internal/entities"
	"github.com/ratestash/ratestash/internal/metrics"
)

type Service struct {
	sources map[string]Source
	cache   Cache // nil disables caching
	ttl     time.Duration
}

func NewService(sources map[string]Source, cache Cache, ttl time.Duration) (*Service, error) {
	return &Service{
		sources: sources,
		cache:   cache,
		ttl:     ttl,
	}, nil
}

// Rates returns the whole document (today + yesterday) of the named store.
func (s *Service) Rates(ctx context.Context, store string) (json.RawMessage, error) {
	const op = "service.Rates"

	source, ok := s.sources[store]
	if !ok {
		return nil, errors.Wrapf(entities.ErrNotFound, "%s: store %q", op, store)
	}

	key := cacheKey(store)
	if s.cache != nil {
		b, err := s.cache.Get(ctx, key)
		switch {
		case err == nil:
			return b, nil
		case errors.Is(err, entities.ErrCacheMiss):
			metrics.CacheMissesTotal.WithLabelValues(store).Inc()
		default:
			// A broken cache is not a miss; fall through to the source.
			slog.Error("cache read failed", "store", store, "error", err)
		}
	}

	b, err := source.Document()
	if err != nil {
		return nil, errors.Wrap(err, op)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, b, s.ttl); err != nil {
			slog.Error("cache write failed", "store", store, "error", err)
		}
	}

	return b, nil
}

// WatchUpdates drops the cache entry of a store whenever its updater
// publishes a save. Runs until the context is canceled.
func (s *Service) WatchUpdates(ctx context.Context) {
	const op = "service.WatchUpdates"

	if s.cache == nil {
		return
	}

	for {
		select {
		case <-ctx.Done():
			slog.Info("update watcher stopped", "op", op, "error", ctx.Err())
			return
		default:
			store, err := s.cache.ListenUpdated(ctx)
			if err != nil {
				if errors.Is(err, context.Canceled) {
					continue
				}
				slog.Error(op, "error", err)
				continue
			}

			if err := s.cache.Del(ctx, cacheKey(store)); err != nil {
				slog.Error("cache invalidation failed", "store", store, "error", err)
				continue
			}
			slog.Debug("cache invalidated", "store", store)
		}
	}
}

func cacheKey(store string) string {
	return "rates:" + store
}
