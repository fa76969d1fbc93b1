package apiApp

import (
	"context"
	"io"
	"log"
	"log/slog"
	"os"

	redisPack "github.com/redis/go-redis/v9"

	"github.com/ratestash/ratestash/deploy/config"
	"github.com/ratestash/ratestash/internal/api_service/adapter/cache/redis"
	"github.com/ratestash/ratestash/internal/api_service/adapter/storage/file"
	"github.com/ratestash/ratestash/internal/api_service/ports/http/public"
	"github.com/ratestash/ratestash/internal/api_service/service"
)

type ApiApp struct {
	cfg *config.Config
}

func NewApiApp(cfg *config.Config) *ApiApp {
	return &ApiApp{cfg: cfg}
}

func (a *ApiApp) Start(ctx context.Context) <-chan struct{} {
	a.initLogger()
	slog.Info("Logger initialized")

	rdCache := a.initCache(ctx)
	slog.Info("Redis cache initialized")

	apiService := a.initService(rdCache)
	slog.Info("Service initialized")

	go apiService.WatchUpdates(ctx)

	serverDone := public.StartServer(ctx, apiService, a.cfg)
	slog.Info("server started", "port", a.cfg.HTTPServer.Port)

	// Release the pubsub connection with the process lifecycle: the done
	// channel handed to main closes only after the drained server and the
	// cache are both down.
	appDone := make(chan struct{})
	go func() {
		<-serverDone

		if closer, ok := rdCache.(io.Closer); ok {
			if err := closer.Close(); err != nil {
				slog.Error("Failed to close redis cache", "error", err)
			}
		}

		close(appDone)
	}()

	return appDone
}

func (a *ApiApp) initLogger() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level:     slog.LevelDebug,
		AddSource: false,
	}))
	slog.SetDefault(logger)
}

// initCache is optional: without REDIS_ADDR the service reads the store
// files on every request, which they are small enough for.
func (a *ApiApp) initCache(ctx context.Context) service.Cache {
	if a.cfg.Redis.Addr == "" {
		slog.Warn("redis not configured, serving without cache")
		return nil
	}

	options := &redisPack.Options{
		Addr:     a.cfg.Redis.Addr,
		Password: a.cfg.Redis.Password,
		DB:       a.cfg.Redis.DB,
	}

	rdCache, err := redis.InitCache(ctx, options)
	if err != nil {
		log.Fatalln("Failed to initialize Redis cache", "error", err)
	}

	return rdCache
}

func (a *ApiApp) initService(cache service.Cache) *service.Service {
	sources := map[string]service.Source{
		"metals":   file.NewMetalsSource(a.cfg.Metals.StorePath),
		"currency": file.NewCurrencySource(a.cfg.Currency.StorePath),
	}

	apiService, err := service.NewService(sources, cache, a.cfg.HTTPServer.CacheTTL)
	if err != nil {
		log.Fatalln("Failed to initialize rates service", "error", err)
	}

	return apiService
}
