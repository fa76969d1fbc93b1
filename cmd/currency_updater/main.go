// The currency updater runs once per day. Unlike the metals pipeline it
// keeps a single payload per day and has no fallback: a failed fetch just
// leaves today's data null and yesterday's snapshot intact.
package main

import (
	"context"
	"log/slog"
	"os"

	redisPack "github.com/redis/go-redis/v9"

	"github.com/ratestash/ratestash/deploy/config"
	"github.com/ratestash/ratestash/internal/entities"
	"github.com/ratestash/ratestash/internal/updater"
	"github.com/ratestash/ratestash/internal/updater/adapter/api_client/metalsdev"
	notify "github.com/ratestash/ratestash/internal/updater/adapter/notify/redis"
	"github.com/ratestash/ratestash/internal/updater/adapter/storage/file"
	"github.com/ratestash/ratestash/internal/updater/schedule"
)

func main() {
	cfg := config.NewConfig()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	slog.SetDefault(logger)

	ctx := context.Background()

	mode, err := metalsdev.ParseAuthMode(cfg.Currency.AuthMode)
	if err != nil {
		slog.Error("invalid CUR_AUTH_MODE", "error", err)
		os.Exit(1)
	}

	client := metalsdev.NewClient(cfg.Currency.Timeout)
	fetch := updater.ClientFunc(func(ctx context.Context, apiKey string) (entities.Payload, error) {
		return client.LatestRates(ctx, metalsdev.Query{
			URL:      cfg.Currency.URL,
			APIKey:   apiKey,
			Mode:     mode,
			Currency: cfg.Currency.Currency,
			Unit:     cfg.Currency.Unit,
		})
	})

	u := updater.New(updater.Params{
		Pipeline:    "currency",
		Storage:     file.NewCurrencyStore(cfg.Currency.StorePath),
		Client:      fetch,
		Notifier:    initNotifier(ctx, cfg),
		Schedule:    schedule.WholeDay(),
		Keys:        updater.Credentials{Primary: cfg.Currency.APIKey, Alternate: cfg.Currency.APIKeyAlt},
		UseFallback: false,
	})

	if err := u.Run(ctx); err != nil {
		slog.Error("updater run failed", "pipeline", "currency", "error", err)
		os.Exit(1)
	}
}

func initNotifier(ctx context.Context, cfg *config.Config) updater.Notifier {
	if cfg.Redis.Addr == "" {
		return nil
	}

	n, err := notify.InitNotifier(ctx, &redisPack.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		slog.Warn("redis unavailable, update notifications disabled", "error", err)
		return nil
	}
	return n
}
