package main

import (
	"context"
	"log"

	"copytrade/internal/bridge/config"
	"copytrade/internal/bridge/longpoll"
	"copytrade/internal/bridge/relay"
	"copytrade/internal/bridge/server"
	"copytrade/internal/bridge/sink"
	"copytrade/internal/notify"
	"copytrade/pkg/logger"

	"go.uber.org/fx"
)

func main() {
	if err := logger.Init("copytrade-bridge"); err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	app := fx.New(
		fx.Provide(
			config.Load,
			relay.NewState,
			func(cfg *config.Config) *longpoll.Queue {
				return longpoll.New(cfg.QueueCap)
			},
			// Notifier: без TELEGRAM_* пишем в stdout
			func(cfg *config.Config) notify.Notifier {
				if cfg.TelegramToken != "" && cfg.TelegramChatID != 0 {
					if tg, err := notify.NewTelegram(cfg.TelegramToken, cfg.TelegramChatID); err == nil {
						return tg
					}
				}
				return notify.NewStdout()
			},
			func(cfg *config.Config, q *longpoll.Queue) sink.Sink {
				if cfg.Mode == config.ModePush {
					return sink.NewHTTP(cfg.SinkURL)
				}
				return sink.NewQueue(q)
			},
			relay.New,
			server.NewMux,
		),
		fx.Invoke(
			server.Run,
			runBridge,
		),
	)
	app.Run()
}

func runBridge(lc fx.Lifecycle, b *relay.Bridge, q *longpoll.Queue) {
	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go b.Run(ctx)
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			q.Close()
			return nil
		},
	})
}
