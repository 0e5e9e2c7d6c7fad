package main

import (
	"context"
	"log"

	"copytrade/internal/modules/api"
	"copytrade/internal/modules/config"
	"copytrade/internal/modules/hub"
	"copytrade/internal/modules/ingest"
	"copytrade/internal/modules/recent"
	"copytrade/pkg/logger"
	"copytrade/pkg/tracing"

	"go.uber.org/fx"
)

func main() {
	if err := logger.Init("copytrade-backend"); err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	app := fx.New(
		fx.Provide(
			func() context.Context {
				return context.Background()
			},
		),
		config.Module(),
		recent.Module(),
		hub.Module(),
		ingest.Module(),
		api.Module(),
		fx.Invoke(initTracing),
	)
	app.Run()
}

func initTracing(lc fx.Lifecycle, cfg *config.Config) error {
	if cfg.Jaeger.Host == "" {
		logger.Info("jaeger host not set, tracing disabled")
		return nil
	}
	_, closer, err := tracing.InitTracer(tracing.Config{
		Service: "copytrade-backend",
		Host:    cfg.Jaeger.Host,
		Port:    cfg.Jaeger.Port,
	})
	if err != nil {
		return err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			closer()
			return nil
		},
	})
	return nil
}
