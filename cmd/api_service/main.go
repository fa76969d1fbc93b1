package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/ratestash/ratestash/deploy/config"
	apiApp "github.com/ratestash/ratestash/internal/api_service/app"
)

func main() {
	cfg := config.NewConfig()

	ctx, cancel := context.WithCancel(context.Background())

	app := apiApp.NewApiApp(cfg)

	serverDone := app.Start(ctx)

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	<-done
	cancel()

	<-serverDone
}
