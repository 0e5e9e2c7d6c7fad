package api

import (
	"context"
	"net"
	"net/http"
	"time"

	"copytrade/internal/modules/api/service"
	"copytrade/internal/modules/config"
	"copytrade/pkg/logger"

	"go.uber.org/fx"
)

// RunHTTP binds the listener eagerly so a busy port fails app start, then
// serves in the background until the fx shutdown hook fires.
func RunHTTP(lc fx.Lifecycle, cfg *config.Config, mux *http.ServeMux) {
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", cfg.Addr())
			if err != nil {
				return err
			}
			logger.Info("[API] listening on %s", cfg.Addr())
			go func() { _ = srv.Serve(ln) }()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}

func Module() fx.Option {
	return fx.Module("api",
		fx.Provide(
			service.NewHandlers,
			service.NewMux,
		),
		fx.Invoke(RunHTTP),
	)
}
