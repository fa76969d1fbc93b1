// The metals updater is invoked by the scheduler once per slot. It exits 0
// on every completed run, skip and fallback included; a non-zero exit means
// configuration trouble or a corrupt store.
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

	mode, err := metalsdev.ParseAuthMode(cfg.Metals.AuthMode)
	if err != nil {
		slog.Error("invalid METALS_AUTH_MODE", "error", err)
		os.Exit(1)
	}

	client := metalsdev.NewClient(cfg.Metals.Timeout)
	fetch := updater.ClientFunc(func(ctx context.Context, apiKey string) (entities.Payload, error) {
		return client.MetalRates(ctx, metalsdev.Query{
			URL:       cfg.Metals.URL,
			APIKey:    apiKey,
			Mode:      mode,
			Authority: cfg.Metals.Authority,
			Currency:  cfg.Metals.Currency,
			Unit:      cfg.Metals.Unit,
		})
	})

	u := updater.New(updater.Params{
		Pipeline:     "metals",
		Storage:      file.NewMetalStore(cfg.Metals.StorePath),
		Client:       fetch,
		Notifier:     initNotifier(ctx, cfg),
		Schedule:     schedule.Metals(),
		Keys:         updater.Credentials{Primary: cfg.Metals.APIKey, Alternate: cfg.Metals.APIKeyAlt},
		SlotOverride: cfg.Metals.SlotOverride,
		UseFallback:  true,
	})

	if err := u.Run(ctx); err != nil {
		slog.Error("updater run failed", "pipeline", "metals", "error", err)
		os.Exit(1)
	}
}

// initNotifier is best effort: a one-shot run must not die because the
// notification channel is down.
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
